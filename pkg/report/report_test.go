package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zan8in/netscan/pkg/portscan"
)

func sampleRecords() []portscan.ScanRecord {
	return []portscan.ScanRecord{
		{
			Address:  "192.168.1.10",
			Hostname: "printer.lan",
			Ports: []portscan.PortResult{
				{Port: 80, State: portscan.PortStateOpen, Service: "HTTP", Elapsed: 12 * time.Millisecond},
				{Port: 23, State: portscan.PortStateClosed, Service: "Telnet", Elapsed: time.Millisecond},
			},
		},
		{
			Address: "192.168.1.11",
			Ports: []portscan.PortResult{
				{Port: 443, State: portscan.PortStateFiltered, Service: "HTTPS", Elapsed: 500 * time.Millisecond},
			},
		},
	}
}

func TestCsvReportWrite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "result.csv")

	cr, err := NewCsvReport(file)
	if err != nil {
		t.Fatalf("NewCsvReport err: %v", err)
	}
	if err := cr.Write(sampleRecords()); err != nil {
		t.Fatalf("Write err: %v", err)
	}

	f, err := os.Open(file)
	if err != nil {
		t.Fatalf("open report err: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv err: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	header := rows[0]
	want := []string{"ip", "hostname", "port", "service", "state", "elapsed_ms"}
	for i := range want {
		if header[i] != want[i] {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}

	first := rows[1]
	if first[0] != "192.168.1.10" || first[1] != "printer.lan" || first[2] != "80" ||
		first[3] != "HTTP" || first[4] != "open" || first[5] != "12" {
		t.Fatalf("unexpected first row: %v", first)
	}
	if rows[3][4] != "filtered" {
		t.Fatalf("got state %q, want filtered", rows[3][4])
	}
}

func TestJsonReportWrite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "result.json")

	jr, err := NewJsonReport(file)
	if err != nil {
		t.Fatalf("NewJsonReport err: %v", err)
	}
	if err := jr.Write(sampleRecords()); err != nil {
		t.Fatalf("Write err: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read report err: %v", err)
	}

	var jrecords []JsonRecord
	if err := json.Unmarshal(data, &jrecords); err != nil {
		t.Fatalf("unmarshal err: %v", err)
	}
	if len(jrecords) != 2 {
		t.Fatalf("got %d records, want 2", len(jrecords))
	}
	if jrecords[0].IP != "192.168.1.10" || jrecords[0].Hostname != "printer.lan" {
		t.Fatalf("unexpected record: %+v", jrecords[0])
	}
	if len(jrecords[0].Ports) != 2 || jrecords[0].Ports[0].State != "open" || jrecords[0].Ports[0].ElapsedMs != 12 {
		t.Fatalf("unexpected ports: %+v", jrecords[0].Ports)
	}
}

func TestNewCsvReportRejectsWrongExtension(t *testing.T) {
	if _, err := NewCsvReport("result.txt"); err == nil {
		t.Fatal("expected error for wrong extension, got nil")
	}
}

func TestNewJsonReportRejectsMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "result.json")
	if _, err := NewJsonReport(missing); err == nil {
		t.Fatal("expected error for missing directory, got nil")
	}
}
