package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLogWritesToFile(t *testing.T) {
	defaultLogFileName = filepath.Join(t.TempDir(), "netscan-test.log")

	Log().Info("probe trail", zap.String("ip", "127.0.0.1"), zap.Int("port", 80))
	Log().Sync()

	data, err := os.ReadFile(defaultLogFileName)
	if err != nil {
		t.Fatalf("read log err: %v", err)
	}
	if !strings.Contains(string(data), "probe trail") || !strings.Contains(string(data), "127.0.0.1") {
		t.Fatalf("unexpected log contents: %s", data)
	}
}

func TestGetColorKeepsMessage(t *testing.T) {
	for _, state := range []string{"open", "closed", "filtered", "anything"} {
		got := LogColor.GetColor(state, state)
		if !strings.Contains(got, state) {
			t.Fatalf("GetColor(%q) = %q, message lost", state, got)
		}
	}
}
