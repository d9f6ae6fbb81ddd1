package portscan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/proxy"
)

// Prober issues a single connect attempt against one address and port.
// The concrete implementation dials TCP; tests substitute their own.
type Prober interface {
	Probe(ctx context.Context, address string, port int) ProbeOutcome
}

// ConnectProber classifies ports with the operating system's connect
// call. A completed handshake means open, connection refused means
// closed, a timeout or any other failure means filtered.
type ConnectProber struct {
	timeout time.Duration
	dialer  proxy.Dialer
}

// NewConnectProber returns a prober with the given per-attempt timeout.
// proxyURL may be empty for direct dialing, or a socks5:// or http://
// URL to dial through.
func NewConnectProber(timeout time.Duration, proxyURL string) (*ConnectProber, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("non-positive probe timeout: %v", timeout)
	}

	p := &ConnectProber{timeout: timeout}

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %v", err)
		}
		switch u.Scheme {
		case "http":
			p.dialer = NewHttpProxyDialer(u)
		default:
			dialer, err := proxy.FromURL(u, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("failed to create proxy dialer: %v", err)
			}
			p.dialer = dialer
		}
	}

	return p, nil
}

// Probe dials address:port exactly once, never retrying. The
// connection, if established, is closed immediately; nothing is ever
// written to the target.
func (p *ConnectProber) Probe(ctx context.Context, address string, port int) ProbeOutcome {
	addr := net.JoinHostPort(address, strconv.Itoa(port))
	start := time.Now()

	var conn net.Conn
	var err error

	if p.dialer != nil {
		// Proxy dialers have no timeout of their own
		ch := make(chan dialResult, 1)
		go func() {
			c, e := p.dialer.Dial("tcp", addr)
			ch <- dialResult{c, e}
		}()

		select {
		case res := <-ch:
			conn, err = res.conn, res.err
		case <-time.After(p.timeout):
			err = os.ErrDeadlineExceeded
			go drainDial(ch)
		case <-ctx.Done():
			err = ctx.Err()
			go drainDial(ch)
		}
	} else {
		d := net.Dialer{Timeout: p.timeout}
		conn, err = d.DialContext(ctx, "tcp", addr)
	}

	elapsed := time.Since(start)

	if err == nil {
		conn.Close()
		return ProbeOutcome{State: PortStateOpen, Elapsed: elapsed}
	}

	return ProbeOutcome{State: classifyDialError(err), Elapsed: elapsed}
}

type dialResult struct {
	conn net.Conn
	err  error
}

// drainDial closes the connection of a dial that lost the race
// against its deadline.
func drainDial(ch <-chan dialResult) {
	if res := <-ch; res.conn != nil {
		res.conn.Close()
	}
}

// classifyDialError maps a failed dial to a port state. Refused means
// the host answered, so the port is closed. Timeouts and everything
// else (unreachable, reset mid-handshake) are inconclusive and count
// as filtered.
func classifyDialError(err error) PortState {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return PortStateFiltered
	}
	if isConnRefused(err) {
		return PortStateClosed
	}
	return PortStateFiltered
}

func isConnRefused(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return true
		}
		var sysErr *os.SyscallError
		if errors.As(opErr.Err, &sysErr) {
			if errors.Is(sysErr.Err, syscall.ECONNREFUSED) {
				return true
			}
		}
	}

	return strings.Contains(strings.ToLower(err.Error()), "refused")
}

type httpProxyDialer struct {
	proxyAddr string
}

func NewHttpProxyDialer(proxyURL *url.URL) *httpProxyDialer {
	return &httpProxyDialer{
		proxyAddr: proxyURL.Host,
	}
}

func (h *httpProxyDialer) Dial(network, addr string) (net.Conn, error) {
	conn, err := net.Dial("tcp", h.proxyAddr)
	if err != nil {
		return nil, err
	}

	req := &http.Request{
		Method: "CONNECT",
		URL:    &url.URL{Opaque: addr},
		Host:   addr,
		Header: make(http.Header),
	}
	// Basic implementation, no auth support yet
	err = req.Write(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, req)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if resp.StatusCode != 200 {
		conn.Close()
		return nil, fmt.Errorf("proxy refused connection: %s", resp.Status)
	}

	return &bufferedConn{Conn: conn, r: br}, nil
}

type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *bufferedConn) Read(b []byte) (int, error) {
	return c.r.Read(b)
}
