// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// mockWorker tracks how many times Run and Stop were called.
type mockWorker struct {
	runCount  int
	stopCount int
}

func (m *mockWorker) Run()  { m.runCount++ }
func (m *mockWorker) Stop() { m.stopCount++ }

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	ws.Run()

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not panic on an empty workers list
	ws.Run()
	ws.Stop()
}

func TestWorkers_Stop_ReverseOrder(t *testing.T) {
	order := []int{}

	newOrderWorker := func(id int) Worker {
		return &orderWorker{id: id, order: &order}
	}

	ws := NewWorkers(
		newOrderWorker(1),
		newOrderWorker(2),
		newOrderWorker(3),
	)
	ws.Stop()

	expected := []int{3, 2, 1}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("expected order[%d]=%d, got %d", i, v, order[i])
		}
	}
}

// orderWorker appends its ID to a shared slice on Stop.
type orderWorker struct {
	id    int
	order *[]int
}

func (o *orderWorker) Run()  {}
func (o *orderWorker) Stop() { *o.order = append(*o.order, o.id) }

// countingRenewer counts RenewLeases calls.
type countingRenewer struct {
	calls atomic.Int64
}

func (c *countingRenewer) RenewLeases(context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestLeaseHeartbeat_TicksUntilStopped(t *testing.T) {
	renewer := &countingRenewer{}
	hb := NewLeaseHeartbeat(renewer, 5*time.Millisecond)

	hb.Run()

	deadline := time.After(2 * time.Second)
	for renewer.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 renewals, got %d", renewer.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}

	hb.Stop()
	after := renewer.calls.Load()
	time.Sleep(25 * time.Millisecond)
	if got := renewer.calls.Load(); got != after {
		t.Errorf("heartbeat kept ticking after Stop: %d -> %d", after, got)
	}
}

func TestLeaseHeartbeat_StopIdleIsNoop(t *testing.T) {
	hb := NewLeaseHeartbeat(&countingRenewer{}, time.Second)

	// Should not panic or block when the heartbeat never started
	hb.Stop()
	hb.Stop()
}

func TestLeaseHeartbeat_DefaultInterval(t *testing.T) {
	hb := NewLeaseHeartbeat(&countingRenewer{}, 0)
	if hb.interval != defaultHeartbeatInterval {
		t.Errorf("expected default interval %s, got %s", defaultHeartbeatInterval, hb.interval)
	}
}

// countingDetector counts FailStalled calls.
type countingDetector struct {
	calls atomic.Int64
}

func (c *countingDetector) FailStalled(context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestTimeoutWatchdog_SweepsUntilStopped(t *testing.T) {
	detector := &countingDetector{}
	wd := NewTimeoutWatchdog(detector, 5*time.Millisecond)

	wd.Run()

	deadline := time.After(2 * time.Second)
	for detector.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 2 sweeps, got %d", detector.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}

	wd.Stop()
	after := detector.calls.Load()
	time.Sleep(25 * time.Millisecond)
	if got := detector.calls.Load(); got != after {
		t.Errorf("watchdog kept sweeping after Stop: %d -> %d", after, got)
	}
}

func TestTimeoutWatchdog_RestartReplacesLoop(t *testing.T) {
	detector := &countingDetector{}
	wd := NewTimeoutWatchdog(detector, 5*time.Millisecond)

	wd.Run()
	wd.Run() // second Run stops the first loop before starting over
	wd.Stop()

	after := detector.calls.Load()
	time.Sleep(25 * time.Millisecond)
	if got := detector.calls.Load(); got != after {
		t.Errorf("a loop survived the restart: %d -> %d", after, got)
	}
}
