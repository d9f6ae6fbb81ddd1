package portscan

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/remeh/sizedwaitgroup"
	"github.com/zan8in/gologger"
	"github.com/zan8in/netscan/pkg/progress"
)

// Scanner drives a bounded worker pool over every (address, port)
// pair and assembles one sealed ScanRecord per address.
type Scanner struct {
	options         *Options
	prober          Prober
	currentProgress uint64
	openCount       uint64
}

// NewScanner creates a new scanner instance
func NewScanner(opt *Options) (*Scanner, error) {
	if opt == nil {
		opt = DefaultOptions()
	}
	if opt.Timeout <= 0 {
		return nil, fmt.Errorf("non-positive timeout: %v", opt.Timeout)
	}
	if opt.Concurrency <= 0 {
		opt.Concurrency = DefaultOptions().Concurrency
	}
	if opt.LookupTimeout <= 0 {
		opt.LookupTimeout = DefaultOptions().LookupTimeout
	}
	if opt.LookupConcurrency <= 0 {
		opt.LookupConcurrency = DefaultOptions().LookupConcurrency
	}

	scanner := &Scanner{
		options: opt,
		prober:  opt.Prober,
	}

	if scanner.prober == nil {
		prober, err := NewConnectProber(opt.Timeout, opt.Proxy)
		if err != nil {
			return nil, err
		}
		scanner.prober = prober
	}

	return scanner, nil
}

// hostScan is the in-flight state of one address. Every port owns one
// outcome slot, so workers never contend on a lock.
type hostScan struct {
	address    string
	outcomes   []ProbeOutcome
	remaining  int32
	lookupOnce sync.Once
	lookupDone chan struct{}
	hostname   string
	sealed     *ScanRecord
}

type probeTask struct {
	host    *hostScan
	portIdx int
	port    int
}

// Scan probes every port on every address and returns the sealed
// records in address order. Interrupting the scan stops dispatch;
// addresses whose ports did not all report are dropped, never
// returned half-filled.
func (s *Scanner) Scan(ctx context.Context) ([]ScanRecord, error) {
	addrs := s.options.Addresses
	ports := s.options.Ports
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no addresses to scan")
	}
	if len(ports) == 0 {
		return nil, ErrNoPortsSpecified
	}

	hosts := make([]*hostScan, len(addrs))
	for i, addr := range addrs {
		hosts[i] = &hostScan{
			address:    addr,
			outcomes:   make([]ProbeOutcome, len(ports)),
			remaining:  int32(len(ports)),
			lookupDone: make(chan struct{}),
		}
	}

	total := len(addrs) * len(ports)
	startTime := time.Now()

	if !s.options.Silent {
		gologger.Info().Msgf("%-18s | %-9s | hosts=%d ports=%d", "Port scan", "started", len(addrs), len(ports))
	}

	progressEnabled := !s.options.Silent && total > 0
	var progressDone chan struct{}
	var lastPercent int32 = -1
	renderProgress := func(final bool) {
		if !progressEnabled {
			return
		}
		curr := atomic.LoadUint64(&s.currentProgress)
		if int(curr) > total {
			curr = uint64(total)
		}
		percent := 0
		if total > 0 {
			percent = int(curr) * 100 / total
		}
		if final {
			percent = 100
			curr = uint64(total)
		} else {
			if int32(percent) == atomic.LoadInt32(&lastPercent) {
				return
			}
			atomic.StoreInt32(&lastPercent, int32(percent))
		}
		elapsed := strings.Split(time.Since(startTime).String(), ".")[0] + "s"
		fmt.Fprint(os.Stderr, "\r\033[2K")
		fmt.Fprintf(os.Stderr, "\r[%s] %d%% (%d/%d), %s", progress.GetProgressBar(percent, 0), percent, curr, total, elapsed)
		if final {
			fmt.Fprint(os.Stderr, "\n")
		}
	}

	scanCtx, scanStop := signal.NotifyContext(ctx, os.Interrupt)
	defer scanStop()

	if progressEnabled {
		progressDone = make(chan struct{})
		go func() {
			ticker := time.NewTicker(1 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-scanCtx.Done():
					return
				case <-progressDone:
					return
				case <-ticker.C:
					renderProgress(false)
				}
			}
		}()
	}

	lookupSWG := sizedwaitgroup.New(s.options.LookupConcurrency)

	var wg sync.WaitGroup
	var sealWG sync.WaitGroup

	// Use ants for goroutine pooling
	pool, err := ants.NewPoolWithFunc(s.options.Concurrency, func(i interface{}) {
		defer wg.Done()
		task := i.(probeTask)

		// Check context
		select {
		case <-scanCtx.Done():
			return
		default:
		}

		// The first probe of an address kicks off its reverse lookup,
		// which then runs concurrently with the remaining probes.
		s.startLookup(scanCtx, task.host, &lookupSWG)

		outcome := s.prober.Probe(scanCtx, task.host.address, task.port)
		task.host.outcomes[task.portIdx] = outcome

		if outcome.State == PortStateOpen {
			atomic.AddUint64(&s.openCount, 1)
		}
		atomic.AddUint64(&s.currentProgress, 1)

		if s.options.Verbose && !s.options.Silent {
			gologger.Debug().Msgf("%s:%d %s %dms", task.host.address, task.port, outcome.State, outcome.Elapsed.Milliseconds())
		}

		// Last port of the address reported, seal off the pool
		if atomic.AddInt32(&task.host.remaining, -1) == 0 {
			sealWG.Add(1)
			go s.seal(task.host, &sealWG, progressEnabled)
		}
	})
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	// Iterate and submit tasks
dispatch:
	for _, h := range hosts {
		for portIdx, port := range ports {
			select {
			case <-scanCtx.Done():
				break dispatch
			default:
			}

			wg.Add(1)
			err := pool.Invoke(probeTask{host: h, portIdx: portIdx, port: port})
			if err != nil {
				wg.Done()
				// Handle pool overload or error
				time.Sleep(10 * time.Millisecond)
			}
		}
	}

	wg.Wait()

	if scanCtx.Err() != nil && !s.options.Silent {
		gologger.Warning().Msgf("%-18s | %-9s | partial results", "Port scan", "interrupted")
	}
	scanStop()

	sealWG.Wait()
	lookupSWG.Wait()

	if progressDone != nil {
		close(progressDone)
		progressDone = nil
	}
	if progressEnabled {
		renderProgress(true)
	}

	records := make([]ScanRecord, 0, len(hosts))
	for _, h := range hosts {
		if h.sealed != nil {
			records = append(records, *h.sealed)
		}
	}

	if !s.options.Silent {
		gologger.Info().Msgf("%-18s | %-9s | hosts=%d tasks=%d open=%d duration=%s",
			"Port scan",
			"completed",
			len(records),
			total,
			atomic.LoadUint64(&s.openCount),
			time.Since(startTime).Truncate(time.Second),
		)
	}

	return records, nil
}

// OpenCount returns the number of open ports seen so far.
func (s *Scanner) OpenCount() uint64 {
	return atomic.LoadUint64(&s.openCount)
}

// startLookup resolves the address back to a hostname, once, bounded
// by LookupTimeout. Failure leaves the hostname empty.
func (s *Scanner) startLookup(ctx context.Context, h *hostScan, swg *sizedwaitgroup.SizedWaitGroup) {
	h.lookupOnce.Do(func() {
		go func() {
			defer close(h.lookupDone)
			swg.Add()
			defer swg.Done()

			lookupCtx, cancel := context.WithTimeout(ctx, s.options.LookupTimeout)
			defer cancel()

			names, err := net.DefaultResolver.LookupAddr(lookupCtx, h.address)
			if err != nil || len(names) == 0 {
				return
			}
			h.hostname = strings.TrimSuffix(names[0], ".")
		}()
	})
}

// seal freezes the record for an address once every port has reported
// and the reverse lookup finished. Ports come out in PortSet order,
// which is slot order.
func (s *Scanner) seal(h *hostScan, sealWG *sync.WaitGroup, progressEnabled bool) {
	defer sealWG.Done()

	<-h.lookupDone

	record := &ScanRecord{
		Address:  h.address,
		Hostname: h.hostname,
		Ports:    make([]PortResult, len(h.outcomes)),
	}
	for i, outcome := range h.outcomes {
		record.Ports[i] = PortResult{
			Port:    s.options.Ports[i],
			State:   outcome.State,
			Service: ServiceName(s.options.Ports[i]),
			Elapsed: outcome.Elapsed,
		}
	}
	h.sealed = record

	// Callback
	if s.options.OnRecord != nil {
		if progressEnabled {
			fmt.Fprint(os.Stderr, "\r\033[2K\r")
		}
		s.options.OnRecord(record)
	}
}
