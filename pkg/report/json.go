package report

import (
	"encoding/json"

	"github.com/zan8in/netscan/pkg/portscan"
)

type JsonReport struct {
	ReportFile string
}

type JsonRecord struct {
	IP       string     `json:"ip"`
	Hostname string     `json:"hostname,omitempty"`
	Ports    []JsonPort `json:"ports"`
}

type JsonPort struct {
	Port      int    `json:"port"`
	Service   string `json:"service"`
	State     string `json:"state"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// NewJsonReport prepares a JSON report target. An empty fileName lands
// under OutputDirectory with a timestamped name.
func NewJsonReport(fileName string) (*JsonReport, error) {
	reportFile, err := checkReportFile(fileName, ".json")
	if err != nil {
		return nil, err
	}
	return &JsonReport{ReportFile: reportFile}, nil
}

// Write renders the record set as a JSON array, one object per address.
func (jr *JsonReport) Write(records []portscan.ScanRecord) error {
	jrecords := make([]JsonRecord, 0, len(records))
	for _, record := range records {
		jrecord := JsonRecord{
			IP:       record.Address,
			Hostname: record.Hostname,
			Ports:    []JsonPort{},
		}
		for _, p := range record.Ports {
			jrecord.Ports = append(jrecord.Ports, JsonPort{
				Port:      p.Port,
				Service:   p.Service,
				State:     p.State.String(),
				ElapsedMs: p.Elapsed.Milliseconds(),
			})
		}
		jrecords = append(jrecords, jrecord)
	}

	data, err := json.Marshal(jrecords)
	if err != nil {
		return err
	}

	return writeAtomic(jr.ReportFile, data)
}
