package workers

import (
	"context"
	"sync"
	"time"
)

const defaultWatchdogInterval = 30 * time.Second

// TimeoutWatchdog periodically sweeps the session registry for sessions
// stuck past their phase budget, closing out work left behind by a crashed
// driver.
type TimeoutWatchdog struct {
	detector StallDetector
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTimeoutWatchdog creates a watchdog worker that is idle until Run is
// called.
func NewTimeoutWatchdog(detector StallDetector, interval time.Duration) *TimeoutWatchdog {
	if interval <= 0 {
		interval = defaultWatchdogInterval
	}
	return &TimeoutWatchdog{detector: detector, interval: interval}
}

// Run implements Worker.
func (w *TimeoutWatchdog) Run() {
	w.Stop()

	w.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_ = w.detector.FailStalled(ctx)
			}
		}
	}()
}

// Stop implements Worker.
func (w *TimeoutWatchdog) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
