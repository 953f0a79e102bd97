package workers

import (
	"context"
	"sync"
	"time"
)

const defaultHeartbeatInterval = 10 * time.Second

// LeaseHeartbeat renews the driver's pair lease on a ticker. The engine
// itself reacts to a lost lease; the heartbeat only keeps the clock wound.
type LeaseHeartbeat struct {
	renewer  LeaseRenewer
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLeaseHeartbeat creates a heartbeat worker that is idle until Run is
// called. A non-positive interval falls back to a default well under any
// sane lease TTL.
func NewLeaseHeartbeat(renewer LeaseRenewer, interval time.Duration) *LeaseHeartbeat {
	if interval <= 0 {
		interval = defaultHeartbeatInterval
	}
	return &LeaseHeartbeat{renewer: renewer, interval: interval}
}

// Run implements Worker. It stops any previously running loop, then renews
// the lease every interval until Stop is called.
func (h *LeaseHeartbeat) Run() {
	h.Stop()

	h.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.wg.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.wg.Done()
		t := time.NewTicker(h.interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_ = h.renewer.RenewLeases(ctx)
			}
		}
	}()
}

// Stop implements Worker. It cancels the loop and blocks until it has
// exited. Safe to call when the heartbeat is not running.
func (h *LeaseHeartbeat) Stop() {
	h.mu.Lock()
	cancel := h.cancel
	h.cancel = nil
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	h.wg.Wait()
}
