package portscan

import (
	"context"
	"errors"
	"net"
	"os"
	"strconv"
	"syscall"
	"testing"
	"time"
)

func TestProbeOpenPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Atoi: %v", err)
	}

	prober, err := NewConnectProber(2*time.Second, "")
	if err != nil {
		t.Fatalf("NewConnectProber: %v", err)
	}

	outcome := prober.Probe(context.Background(), "127.0.0.1", port)
	if outcome.State != PortStateOpen {
		t.Fatalf("state mismatch: got=%s want=open", outcome.State)
	}
	if outcome.Elapsed <= 0 {
		t.Fatalf("expected positive elapsed time, got=%v", outcome.Elapsed)
	}
}

func TestProbeClosedPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Atoi: %v", err)
	}
	// free the port so the connect gets refused
	if err := ln.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	prober, err := NewConnectProber(2*time.Second, "")
	if err != nil {
		t.Fatalf("NewConnectProber: %v", err)
	}

	outcome := prober.Probe(context.Background(), "127.0.0.1", port)
	if outcome.State != PortStateClosed {
		t.Fatalf("state mismatch: got=%s want=closed", outcome.State)
	}
}

func TestProbeFilteredWithinTimeoutBound(t *testing.T) {
	// TEST-NET-1 swallows SYNs, or errors unreachable; both are filtered
	timeout := 300 * time.Millisecond
	prober, err := NewConnectProber(timeout, "")
	if err != nil {
		t.Fatalf("NewConnectProber: %v", err)
	}

	start := time.Now()
	outcome := prober.Probe(context.Background(), "192.0.2.1", 80)
	elapsed := time.Since(start)

	if outcome.State != PortStateFiltered {
		t.Fatalf("state mismatch: got=%s want=filtered", outcome.State)
	}
	if elapsed > 2*timeout {
		t.Fatalf("probe exceeded twice the timeout: %s", elapsed)
	}
}

func TestNewConnectProberRejectsBadInput(t *testing.T) {
	if _, err := NewConnectProber(0, ""); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
	if _, err := NewConnectProber(time.Second, "://bad"); err == nil {
		t.Fatalf("expected error for malformed proxy URL")
	}
}

func TestClassifyDialError(t *testing.T) {
	refused := &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
	if got := classifyDialError(refused); got != PortStateClosed {
		t.Fatalf("refused: got=%s want=closed", got)
	}

	if got := classifyDialError(os.ErrDeadlineExceeded); got != PortStateFiltered {
		t.Fatalf("timeout: got=%s want=filtered", got)
	}

	unreachable := errors.New("connect: network is unreachable")
	if got := classifyDialError(unreachable); got != PortStateFiltered {
		t.Fatalf("unreachable: got=%s want=filtered", got)
	}
}
