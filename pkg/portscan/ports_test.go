package portscan

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolvePortsExplicitThenCommon(t *testing.T) {
	set, err := ResolvePorts([]int{80, 443}, true)
	if err != nil {
		t.Fatalf("ResolvePorts: %v", err)
	}

	common := CommonPorts()
	if len(set) != len(common) {
		t.Fatalf("union size mismatch: got=%d want=%d", len(set), len(common))
	}
	if set[0] != 80 || set[1] != 443 {
		t.Fatalf("explicit ports must come first: got=%v", set[:2])
	}

	seen := make(map[int]bool)
	for _, p := range set {
		if seen[p] {
			t.Fatalf("duplicate port in set: %d", p)
		}
		seen[p] = true
	}

	want := make([]int, 0, len(common)-2)
	for _, p := range common {
		if p != 80 && p != 443 {
			want = append(want, p)
		}
	}
	if !reflect.DeepEqual([]int(set[2:]), want) {
		t.Fatalf("common tail order mismatch: got=%v want=%v", set[2:], want)
	}
}

func TestResolvePortsExplicitOnly(t *testing.T) {
	set, err := ResolvePorts([]int{8080, 22, 8080}, false)
	if err != nil {
		t.Fatalf("ResolvePorts: %v", err)
	}
	want := PortSet{8080, 22}
	if !reflect.DeepEqual(set, want) {
		t.Fatalf("set mismatch: got=%v want=%v", set, want)
	}
}

func TestResolvePortsCommonOnly(t *testing.T) {
	set, err := ResolvePorts(nil, true)
	if err != nil {
		t.Fatalf("ResolvePorts: %v", err)
	}
	if !reflect.DeepEqual([]int(set), CommonPorts()) {
		t.Fatalf("set mismatch: got=%v want=%v", set, CommonPorts())
	}
}

func TestResolvePortsNoSource(t *testing.T) {
	_, err := ResolvePorts(nil, false)
	if !errors.Is(err, ErrNoPortsSpecified) {
		t.Fatalf("expected ErrNoPortsSpecified, got: %v", err)
	}
}

func TestResolvePortsInvalidPort(t *testing.T) {
	for _, p := range []int{0, -1, 65536} {
		_, err := ResolvePorts([]int{p}, false)
		if !errors.Is(err, ErrInvalidPort) {
			t.Fatalf("port %d: expected ErrInvalidPort, got: %v", p, err)
		}
	}
}

func TestParsePortSpec(t *testing.T) {
	got, err := ParsePortSpec("80,443,8000-8002,80")
	if err != nil {
		t.Fatalf("ParsePortSpec: %v", err)
	}
	want := []int{80, 443, 8000, 8001, 8002}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ports mismatch: got=%v want=%v", got, want)
	}
}

func TestParsePortSpecSinglePort(t *testing.T) {
	got, err := ParsePortSpec(" 22 ")
	if err != nil {
		t.Fatalf("ParsePortSpec: %v", err)
	}
	if len(got) != 1 || got[0] != 22 {
		t.Fatalf("ports mismatch: got=%v want=[22]", got)
	}
}

func TestParsePortSpecEmpty(t *testing.T) {
	got, err := ParsePortSpec("")
	if err != nil {
		t.Fatalf("ParsePortSpec: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no ports, got=%v", got)
	}
}

func TestParsePortSpecInvalid(t *testing.T) {
	for _, spec := range []string{"abc", "0", "65536", "9-1", "1-x", "70000-70001"} {
		if _, err := ParsePortSpec(spec); !errors.Is(err, ErrInvalidPort) {
			t.Fatalf("spec %q: expected ErrInvalidPort, got: %v", spec, err)
		}
	}
}
