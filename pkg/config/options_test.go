package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfigCreatesFileOnFirstRun(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	config, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig err: %v", err)
	}
	if config.Scan.Timeout != DefaultTimeout || config.Scan.Concurrency != DefaultConcurrency {
		t.Fatalf("unexpected defaults: %+v", config.Scan)
	}

	home, _ := os.UserHomeDir()
	data, err := os.ReadFile(filepath.Join(home, ".config", "netscan", netscanConfigFilename))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "timeout") {
		t.Fatalf("unexpected config contents: %s", data)
	}
}

func TestApplyConfigKeepsExplicitFlags(t *testing.T) {
	config := &Config{}
	config.Scan.Timeout = 900
	config.Scan.Concurrency = 7
	config.Scan.Proxy = "socks5://127.0.0.1:1080"
	config.Scan.History = true

	opt := &Options{Timeout: 1200, Concurrency: 3}
	opt.applyConfig(config)

	if opt.Timeout != 1200 || opt.Concurrency != 3 {
		t.Fatalf("explicit flags overridden: %+v", opt)
	}
	if opt.Proxy != "socks5://127.0.0.1:1080" {
		t.Fatalf("proxy not taken from config: %q", opt.Proxy)
	}
	if !opt.History {
		t.Fatal("history not taken from config")
	}
}

func TestApplyConfigFillsDefaultedFlags(t *testing.T) {
	config := &Config{}
	config.Scan.Timeout = 900
	config.Scan.Concurrency = 7

	opt := &Options{Timeout: DefaultTimeout, Concurrency: DefaultConcurrency}
	opt.applyConfig(config)

	if opt.Timeout != 900 || opt.Concurrency != 7 {
		t.Fatalf("config values not adopted: %+v", opt)
	}
}

func TestApplyConfigProxyEnvFallback(t *testing.T) {
	t.Setenv(HTTPProxyEnv, "http://127.0.0.1:8080")

	opt := &Options{Timeout: DefaultTimeout, Concurrency: DefaultConcurrency}
	opt.applyConfig(&Config{})

	if opt.Proxy != "http://127.0.0.1:8080" {
		t.Fatalf("env proxy not adopted: %q", opt.Proxy)
	}
}

func TestVerify(t *testing.T) {
	opt := &Options{Timeout: 500, Concurrency: 100}
	if err := opt.Verify(); err == nil {
		t.Fatal("expected error for missing target, got nil")
	}

	opt.Target = "127.0.0.1"
	if err := opt.Verify(); err != nil {
		t.Fatalf("Verify err: %v", err)
	}

	opt.Timeout = 0
	if err := opt.Verify(); err == nil {
		t.Fatal("expected error for zero timeout, got nil")
	}

	opt.Timeout = 500
	opt.Concurrency = -1
	if err := opt.Verify(); err == nil {
		t.Fatal("expected error for negative concurrency, got nil")
	}
}
