package netscan

import (
	"context"
	"fmt"
	"time"

	"github.com/zan8in/netscan/pkg/config"
	"github.com/zan8in/netscan/pkg/portscan"
	"github.com/zan8in/netscan/pkg/targets"
)

// Scanner is the embedding surface of netscan. Zero values fall back
// to the engine defaults through the With* helpers.
type Scanner struct {
	Target      string
	Ports       string
	CommonPorts bool
	Timeout     int // milliseconds
	Concurrency int
	Proxy       string
	ShowAll     bool
	Silent      bool
	OnRecord    func(*portscan.ScanRecord)
}

// NewScanner probes target and returns its aggregated scan records.
// Records stream through opt.OnRecord as they seal; the returned slice
// already has the ShowAll policy applied.
func NewScanner(target string, opt Scanner) ([]portscan.ScanRecord, error) {
	s := &Scanner{}

	s.Target = target
	s.Ports = opt.WithPorts()
	s.CommonPorts = opt.CommonPorts
	s.Timeout = opt.WithTimeout()
	s.Concurrency = opt.WithConcurrency()
	s.Proxy = opt.WithProxy()
	s.ShowAll = opt.ShowAll
	s.Silent = opt.WithSilent()
	s.OnRecord = opt.OnRecord

	if err := s.verifyOptions(); err != nil {
		return nil, err
	}

	addressList, err := targets.Expand(s.Target)
	if err != nil {
		return nil, err
	}

	explicit, err := portscan.ParsePortSpec(s.Ports)
	if err != nil {
		return nil, err
	}
	ports, err := portscan.ResolvePorts(explicit, s.CommonPorts)
	if err != nil {
		return nil, err
	}

	options := portscan.DefaultOptions()
	options.Addresses = addressList.Addresses
	options.Ports = ports
	options.Timeout = time.Duration(s.Timeout) * time.Millisecond
	options.Concurrency = s.Concurrency
	options.Proxy = s.Proxy
	options.Silent = s.Silent
	options.OnRecord = s.OnRecord

	scanner, err := portscan.NewScanner(options)
	if err != nil {
		return nil, err
	}

	records, err := scanner.Scan(context.Background())
	if err != nil {
		return nil, err
	}

	return portscan.Aggregate(records, s.ShowAll), nil
}

func (s *Scanner) verifyOptions() error {
	if len(s.Target) == 0 {
		return fmt.Errorf("`target` must be set")
	}
	return nil
}

func (s *Scanner) WithPorts() string {
	if len(s.Ports) > 0 {
		return s.Ports
	}
	return ""
}

func (s *Scanner) WithTimeout() int {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return config.DefaultTimeout
}

func (s *Scanner) WithConcurrency() int {
	if s.Concurrency > 0 {
		return s.Concurrency
	}
	return config.DefaultConcurrency
}

func (s *Scanner) WithProxy() string {
	if len(s.Proxy) > 0 {
		return s.Proxy
	}
	return ""
}

func (s *Scanner) WithSilent() bool {
	return s.Silent
}
