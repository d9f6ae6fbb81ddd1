package targets

import (
	"net"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidTarget  = errors.New("invalid target")
	ErrTargetTooLarge = errors.New("target too large")
)

// MaxAddresses bounds how many concrete addresses one target spec may
// expand to. Oversized blocks fail before any per-address allocation.
const MaxAddresses = 65536

// AddressList is the materialized expansion of one target spec:
// ordered, deduplicated, concrete IP addresses. It is built once and
// shared read-only afterwards.
type AddressList struct {
	Spec      string
	Addresses []string
}

func (a *AddressList) Total() int {
	return len(a.Addresses)
}

// Expand turns a target spec (hostname, IP literal, or CIDR block in
// either address family) into the addresses to probe.
func Expand(spec string) (*AddressList, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.Wrap(ErrInvalidTarget, "empty target")
	}

	if strings.Contains(spec, "/") {
		addrs, err := expandCIDR(spec)
		if err != nil {
			return nil, err
		}
		return &AddressList{Spec: spec, Addresses: addrs}, nil
	}

	if ip := net.ParseIP(spec); ip != nil {
		return &AddressList{Spec: spec, Addresses: []string{ip.String()}}, nil
	}

	addr, err := resolveHostname(spec)
	if err != nil {
		return nil, err
	}
	return &AddressList{Spec: spec, Addresses: []string{addr}}, nil
}

// expandCIDR enumerates the usable hosts of a block. For IPv4 the
// network and broadcast addresses are excluded below /31; for IPv6
// only the subnet-router anycast address is excluded below /127.
// Host bits set in the input are masked off, not rejected.
func expandCIDR(spec string) ([]string, error) {
	_, ipnet, err := net.ParseCIDR(spec)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidTarget, spec)
	}

	ones, bits := ipnet.Mask.Size()
	hostBits := bits - ones

	if hostBits > 20 {
		return nil, errors.Wrapf(ErrTargetTooLarge, "%s expands to 2^%d addresses (limit %d)", spec, hostBits, MaxAddresses)
	}
	usable := 1 << hostBits
	if hostBits >= 2 {
		if bits == 32 {
			usable -= 2
		} else {
			usable--
		}
	}
	if usable > MaxAddresses {
		return nil, errors.Wrapf(ErrTargetTooLarge, "%s expands to %d addresses (limit %d)", spec, usable, MaxAddresses)
	}

	var ips []string
	for ip := ipnet.IP.Mask(ipnet.Mask); ipnet.Contains(ip); inc(ip) {
		ips = append(ips, ip.String())
	}

	if hostBits < 2 {
		return ips, nil
	}
	if bits == 32 {
		// Remove network address and broadcast address
		return ips[1 : len(ips)-1], nil
	}
	return ips[1:], nil
}

// resolveHostname forward-resolves a name to one deterministic
// address: the first IPv4 the resolver returns, falling back to the
// first IPv6 when no A record exists.
func resolveHostname(host string) (string, error) {
	ips, err := net.LookupIP(host)
	if err != nil || len(ips) == 0 {
		return "", errors.Wrap(ErrInvalidTarget, host)
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return ips[0].String(), nil
}

func inc(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}
