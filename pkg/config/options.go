package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/zan8in/goflags"
	"github.com/zan8in/gologger"
	"github.com/zan8in/gologger/levels"
)

type Options struct {
	// netscan-config.yaml configuration file
	Config *Config

	// Target host, IP or CIDR block to scan
	Target string

	// Ports to scan, eg: 80,443,8000-8100
	Ports string

	// Scan the built-in common ports as well
	CommonPorts bool

	// Connect timeout in milliseconds
	Timeout int

	// Number of concurrent probes
	Concurrency int

	// Proxy for probes, eg: socks5://127.0.0.1:1080
	Proxy string

	// Show closed and filtered ports, not just open ones
	ShowAll bool

	// Write results to a CSV file
	OutputCSV string

	// Write results to a JSON file
	OutputJSON string

	// Keep results in the local scan history database
	History bool

	// No banner and no progress, only results
	Silent bool

	// Per-probe debug output
	Verbose bool

	// Show engine version and exit
	Version bool
}

func NewOptions() (*Options, error) {
	options := &Options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`netscan`)

	flagSet.CreateGroup("input", "Target",
		flagSet.StringVarP(&options.Target, "target", "t", "", "target host, IP or CIDR block to scan"),
	)

	flagSet.CreateGroup("ports", "Ports",
		flagSet.StringVarP(&options.Ports, "port", "p", "", "ports to scan, eg: -p 80,443,8000-8100"),
		flagSet.BoolVarP(&options.CommonPorts, "common-ports", "cp", false, "scan the built-in common ports as well"),
	)

	flagSet.CreateGroup("optimization", "Optimizations",
		flagSet.IntVar(&options.Timeout, "timeout", DefaultTimeout, "connect timeout in milliseconds"),
		flagSet.IntVarP(&options.Concurrency, "concurrency", "c", DefaultConcurrency, "number of concurrent probes"),
		flagSet.StringVar(&options.Proxy, "proxy", "", "proxy for probes, eg: -proxy socks5://127.0.0.1:1080"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&options.ShowAll, "show-all", "sa", false, "show closed and filtered ports, not just open ones"),
		flagSet.StringVarP(&options.OutputCSV, "output-csv", "csv", "", "write results to a CSV file, eg: -csv result.csv"),
		flagSet.StringVarP(&options.OutputJSON, "output-json", "json", "", "write results to a JSON file, eg: -json result.json"),
		flagSet.BoolVarP(&options.History, "history", "db", false, "keep results in the local scan history database"),
		flagSet.BoolVar(&options.Silent, "silent", false, "no banner, no progress, only results"),
		flagSet.BoolVar(&options.Verbose, "verbose", false, "show every probe with its state and elapsed time"),
		flagSet.BoolVar(&options.Version, "version", false, "show netscan version"),
	)

	_ = flagSet.Parse()

	if options.Version {
		return options, nil
	}

	options.SetLogLevel()

	config, err := NewConfig()
	if err != nil {
		return nil, err
	}
	options.Config = config
	options.applyConfig(config)

	if err := options.Verify(); err != nil {
		return nil, err
	}

	return options, nil
}

// applyConfig fills options the flags left at their defaults from the
// configuration file. Explicit flags win.
func (opt *Options) applyConfig(config *Config) {
	if opt.Timeout == DefaultTimeout && config.Scan.Timeout > 0 {
		opt.Timeout = config.Scan.Timeout
	}
	if opt.Concurrency == DefaultConcurrency && config.Scan.Concurrency > 0 {
		opt.Concurrency = config.Scan.Concurrency
	}
	if len(opt.Proxy) == 0 {
		opt.Proxy = config.Scan.Proxy
	}
	if len(opt.Proxy) == 0 {
		opt.Proxy = os.Getenv(HTTPProxyEnv)
	}
	if !opt.History {
		opt.History = config.Scan.History
	}
}

func (opt *Options) Verify() error {
	if len(opt.Target) == 0 {
		return errors.New("no target specified, eg: -t 192.168.1.0/24")
	}
	if opt.Timeout <= 0 {
		return errors.New("timeout must be a positive number of milliseconds")
	}
	if opt.Concurrency <= 0 {
		return errors.New("concurrency must be a positive number")
	}
	return nil
}

func (opt *Options) SetLogLevel() {
	if opt.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if opt.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
}
