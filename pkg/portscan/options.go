package portscan

import (
	"time"
)

// Options configuration for the scan engine
type Options struct {
	Addresses []string // concrete IPs to probe
	Ports     PortSet  // ports probed on every address, in order

	Timeout     time.Duration // per-connect budget
	Concurrency int           // worker pool size
	Proxy       string        // socks5:// or http:// proxy for probes

	LookupTimeout     time.Duration // reverse DNS budget per address
	LookupConcurrency int           // simultaneous reverse lookups

	Prober   Prober            // nil means TCP connect
	OnRecord func(*ScanRecord) // called once per sealed record
	Silent   bool              // no log lines, no progress
	Verbose  bool              // per-probe logging
}

// DefaultOptions returns a safe default configuration
func DefaultOptions() *Options {
	return &Options{
		Timeout:           500 * time.Millisecond,
		Concurrency:       100,
		LookupTimeout:     2 * time.Second,
		LookupConcurrency: 16,
	}
}
