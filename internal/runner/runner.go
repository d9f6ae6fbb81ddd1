package runner

import (
	"context"
	"strings"
	"time"

	"github.com/zan8in/gologger"
	"github.com/zan8in/netscan/pkg/config"
	"github.com/zan8in/netscan/pkg/db"
	"github.com/zan8in/netscan/pkg/db/sqlite"
	"github.com/zan8in/netscan/pkg/log"
	"github.com/zan8in/netscan/pkg/portscan"
	"github.com/zan8in/netscan/pkg/report"
	"github.com/zan8in/netscan/pkg/targets"
	"go.uber.org/zap"
)

type Runner struct {
	options *config.Options
}

// New runs one scan task end to end: expand the target, resolve the
// port set, probe every pair, then render and export the sealed
// records.
func New(options *config.Options) error {
	runner := &Runner{options: options}

	if options.Version {
		ShowVersion()
		return nil
	}

	if !options.Silent {
		ShowBanner()
	}

	// report targets are validated before any probe is dispatched, a
	// bad path must not cost a full scan
	var csvReport *report.CsvReport
	var jsonReport *report.JsonReport
	var err error
	if len(options.OutputCSV) > 0 {
		if csvReport, err = report.NewCsvReport(options.OutputCSV); err != nil {
			return err
		}
	}
	if len(options.OutputJSON) > 0 {
		if jsonReport, err = report.NewJsonReport(options.OutputJSON); err != nil {
			return err
		}
	}

	// the target is validated before the port set
	addressList, err := targets.Expand(options.Target)
	if err != nil {
		return err
	}

	explicit, err := portscan.ParsePortSpec(options.Ports)
	if err != nil {
		return err
	}
	ports, err := portscan.ResolvePorts(explicit, options.CommonPorts)
	if err != nil {
		return err
	}

	gologger.Info().Msgf("Addresses loaded for scan: %d", addressList.Total())
	gologger.Info().Msgf("Ports per address: %d", len(ports))

	if options.History {
		if err := sqlite.NewSqliteDB(); err != nil {
			return err
		}
		if err := sqlite.InitX(); err != nil {
			return err
		}
		defer sqlite.CloseX()
	}

	scanOptions := portscan.DefaultOptions()
	scanOptions.Addresses = addressList.Addresses
	scanOptions.Ports = ports
	scanOptions.Timeout = time.Duration(options.Timeout) * time.Millisecond
	scanOptions.Concurrency = options.Concurrency
	scanOptions.Proxy = options.Proxy
	scanOptions.Silent = options.Silent
	scanOptions.Verbose = options.Verbose
	scanOptions.OnRecord = func(record *portscan.ScanRecord) {
		if options.Verbose {
			log.Log().Info("record sealed",
				zap.String("ip", record.Address),
				zap.String("hostname", record.Hostname),
				zap.Int("open", len(record.OpenPorts())),
			)
		}
		if options.History {
			for _, p := range record.Ports {
				sqlite.SetResultX(&db.Result{
					Target:    options.Target,
					IP:        record.Address,
					Hostname:  record.Hostname,
					Port:      p.Port,
					Service:   p.Service,
					State:     p.State.String(),
					ElapsedMs: p.Elapsed.Milliseconds(),
				})
			}
		}
	}

	scanner, err := portscan.NewScanner(scanOptions)
	if err != nil {
		return err
	}

	startTime := time.Now()

	records, err := scanner.Scan(context.Background())
	if err != nil {
		return err
	}

	openCount := portscan.CountOpen(records)

	runner.printTable(portscan.Aggregate(records, options.ShowAll))

	gologger.Info().Msgf("Scan completed in %.2f seconds, open: %d, hosts: %d",
		time.Since(startTime).Seconds(), openCount, len(records))

	// exports carry every sealed state, the -sa switch only shapes the
	// console table
	if csvReport != nil {
		if err := csvReport.Write(records); err != nil {
			return err
		}
		gologger.Info().Msgf("Results written to %s", csvReport.ReportFile)
	}
	if jsonReport != nil {
		if err := jsonReport.Write(records); err != nil {
			return err
		}
		gologger.Info().Msgf("Results written to %s", jsonReport.ReportFile)
	}

	if options.History {
		sqlite.CloseX()
		gologger.Info().Msgf("Results saved to scan history, taskid: %s", db.TaskID)
	}

	if options.Verbose {
		log.Log().Info("scan completed",
			zap.String("target", options.Target),
			zap.Int("addresses", addressList.Total()),
			zap.Int("records", len(records)),
			zap.Int("open", openCount),
			zap.Duration("duration", time.Since(startTime)),
		)
	}

	return nil
}

// printTable renders the console table, one row per surviving port.
func (r *Runner) printTable(records []portscan.ScanRecord) {
	rows := 0
	for _, record := range records {
		rows += len(record.Ports)
	}

	gologger.Print().Msgf("")
	if rows == 0 {
		gologger.Print().Msgf("no open ports found")
		return
	}

	gologger.Print().Msgf("%-15s | %-24s | %-5s | %-13s | %s", "IP", "HOSTNAME", "PORT", "SERVICE", "STATE")
	gologger.Print().Msgf("%s", strings.Repeat("-", 72))

	for _, record := range records {
		for _, p := range record.Ports {
			state := p.State.String()
			gologger.Print().Msgf("%-15s | %-24s | %-5d | %-13s | %s",
				record.Address, record.Hostname, p.Port, p.Service,
				log.LogColor.GetColor(state, state))
		}
	}
	gologger.Print().Msgf("")
}
