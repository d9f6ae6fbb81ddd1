package portscan

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNoPortsSpecified = errors.New("no ports specified")
	ErrInvalidPort      = errors.New("invalid port")
)

// PortSet is an ordered set of unique ports. Scanning and reporting
// both follow its order.
type PortSet []int

// ResolvePorts merges the explicitly requested ports with the common
// scan list. Explicit ports come first, in the order given, then the
// common ports not already present, in table order. Requesting
// neither is an error.
func ResolvePorts(explicit []int, useCommon bool) (PortSet, error) {
	if len(explicit) == 0 && !useCommon {
		return nil, ErrNoPortsSpecified
	}

	seen := make(map[int]bool)
	set := make(PortSet, 0, len(explicit))
	for _, p := range explicit {
		if !isValidPort(p) {
			return nil, errors.Wrapf(ErrInvalidPort, "port %d", p)
		}
		if !seen[p] {
			seen[p] = true
			set = append(set, p)
		}
	}

	if useCommon {
		for _, p := range CommonPorts() {
			if !seen[p] {
				seen[p] = true
				set = append(set, p)
			}
		}
	}

	return set, nil
}

// ParsePortSpec parses a port list string such as "80", "80,443" or
// "8000-8100,443". Duplicates are dropped, order of first appearance
// is kept. An empty string yields no ports.
func ParsePortSpec(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	ports := []int{}

	add := func(p int) error {
		if !isValidPort(p) {
			return errors.Wrapf(ErrInvalidPort, "port %d", p)
		}
		if !seen[p] {
			seen[p] = true
			ports = append(ports, p)
		}
		return nil
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "-") {
			rangeParts := strings.SplitN(part, "-", 2)
			start, err1 := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
			end, err2 := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
			if err1 != nil || err2 != nil || start > end {
				return nil, errors.Wrapf(ErrInvalidPort, "range %q", part)
			}
			for p := start; p <= end; p++ {
				if err := add(p); err != nil {
					return nil, err
				}
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidPort, "%q", part)
		}
		if err := add(p); err != nil {
			return nil, err
		}
	}

	return ports, nil
}

func isValidPort(p int) bool {
	return p > 0 && p <= 65535
}
