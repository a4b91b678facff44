package title

import (
	"context"
	"sync"
	"time"

	"github.com/romdo/go-debounce"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
)

// DefaultRescanDelay lets a single-page app finish rendering after navigation.
const DefaultRescanDelay = time.Second

// ScanFunc re-infers the title for address.
type ScanFunc func(ctx context.Context, address string)

// Watcher re-runs a scan when the page address changes without a reload.
// Repeated addresses are ignored, bursts of changes are debounced, and a scan
// never overlaps another.
type Watcher struct {
	delay time.Duration
	scan  ScanFunc
	log   logger.Logger

	mu      sync.Mutex
	last    string
	pending string
	rerun   bool
	closed  bool

	scanning sync.Mutex
	inflight sync.WaitGroup

	// idle runs after a scan loop exits; tests use it.
	idle func()
}

// NewWatcher creates a Watcher. A non-positive delay uses DefaultRescanDelay.
func NewWatcher(delay time.Duration, scan ScanFunc, log logger.Logger) *Watcher {
	if delay <= 0 {
		delay = DefaultRescanDelay
	}
	return &Watcher{delay: delay, scan: scan, log: log}
}

// Run consumes addresses until the channel closes or ctx is done, then waits
// for any running scan to finish. A Watcher runs once.
func (w *Watcher) Run(ctx context.Context, addresses <-chan string) error {
	trigger, cancel := debounce.New(w.delay, func() { w.fire(ctx) })
	defer func() {
		cancel()
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		w.inflight.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case addr, ok := <-addresses:
			if !ok {
				return nil
			}
			if !w.changed(addr) {
				continue
			}
			w.log.Debug("Page address changed", logger.String("address", addr))
			trigger()
		}
	}
}

func (w *Watcher) changed(addr string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if addr == "" || addr == w.last {
		return false
	}
	w.last = addr
	w.pending = addr
	return true
}

func (w *Watcher) fire(ctx context.Context) {
	w.mu.Lock()
	if w.closed || ctx.Err() != nil {
		w.mu.Unlock()
		return
	}
	if !w.scanning.TryLock() {
		w.rerun = true
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.inflight.Done()

		for {
			w.mu.Lock()
			addr := w.pending
			w.rerun = false
			w.mu.Unlock()

			w.scan(ctx, addr)

			// scanning is released under mu so a fire that sees the scan
			// busy has always set rerun before this check.
			w.mu.Lock()
			if !w.rerun || w.closed || ctx.Err() != nil {
				w.scanning.Unlock()
				w.mu.Unlock()
				if w.idle != nil {
					w.idle()
				}
				return
			}
			w.mu.Unlock()
		}
	}()
}
