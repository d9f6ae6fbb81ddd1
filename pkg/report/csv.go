package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/zan8in/netscan/pkg/portscan"
)

type CsvReport struct {
	ReportFile string
}

// NewCsvReport prepares a CSV report target. An empty fileName lands
// under OutputDirectory with a timestamped name.
func NewCsvReport(fileName string) (*CsvReport, error) {
	reportFile, err := checkReportFile(fileName, ".csv")
	if err != nil {
		return nil, err
	}
	return &CsvReport{ReportFile: reportFile}, nil
}

// Write renders one row per address and port pair, in record order.
func (cr *CsvReport) Write(records []portscan.ScanRecord) error {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	w.Write([]string{"ip", "hostname", "port", "service", "state", "elapsed_ms"})
	for _, record := range records {
		for _, p := range record.Ports {
			w.Write([]string{
				record.Address,
				record.Hostname,
				strconv.Itoa(p.Port),
				p.Service,
				p.State.String(),
				strconv.FormatInt(p.Elapsed.Milliseconds(), 10),
			})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return writeAtomic(cr.ReportFile, buf.Bytes())
}
