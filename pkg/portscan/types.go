package portscan

import "time"

// PortState represents the observed state of a port
type PortState int

const (
	PortStateOpen PortState = iota
	PortStateClosed
	PortStateFiltered
)

func (s PortState) String() string {
	switch s {
	case PortStateOpen:
		return "open"
	case PortStateClosed:
		return "closed"
	case PortStateFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// ProbeOutcome is the classified result of a single connect attempt.
// The address and port are carried by the caller.
type ProbeOutcome struct {
	State   PortState
	Elapsed time.Duration
}

// PortResult is one port's outcome inside a sealed record.
type PortResult struct {
	Port    int
	State   PortState
	Service string
	Elapsed time.Duration
}

// ScanRecord holds everything learned about a single address. A record
// is sealed once, after every port of the address has reported and the
// reverse lookup finished, and is never mutated afterwards.
type ScanRecord struct {
	Address  string
	Hostname string
	Ports    []PortResult
}

// OpenPorts returns the ports of the record observed open, in scan order.
func (r *ScanRecord) OpenPorts() []int {
	var open []int
	for _, p := range r.Ports {
		if p.State == PortStateOpen {
			open = append(open, p.Port)
		}
	}
	return open
}
