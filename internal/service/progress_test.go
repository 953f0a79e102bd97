package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) now() time.Time { return c.at }

func (c *fakeClock) advance(d time.Duration) { c.at = c.at.Add(d) }

func TestSpeedTracker_FirstSampleSetsBaseline(t *testing.T) {
	clock := &fakeClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tracker := newSpeedTracker(clock.now)

	assert.Zero(t, tracker.Observe(1000))

	speed, eta := tracker.Estimate(1000, 5000)
	assert.Zero(t, speed)
	assert.Nil(t, eta, "no estimate before a second sample")
}

func TestSpeedTracker_SteadyRate(t *testing.T) {
	clock := &fakeClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tracker := newSpeedTracker(clock.now)

	// 100 units per second, sampled every second.
	tracker.Observe(0)
	var speed float64
	for i := int64(1); i <= 10; i++ {
		clock.advance(time.Second)
		speed = tracker.Observe(i * 100)
	}

	assert.InDelta(t, 100.0, speed, 0.01, "a steady rate converges on itself")
}

func TestSpeedTracker_SmoothsRateChanges(t *testing.T) {
	clock := &fakeClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tracker := newSpeedTracker(clock.now)

	tracker.Observe(0)
	clock.advance(time.Second)
	tracker.Observe(100) // first real sample sets the speed outright

	clock.advance(time.Second)
	speed := tracker.Observe(500) // burst at 400/s

	// 0.3*400 + 0.7*100
	assert.InDelta(t, 190.0, speed, 0.01)
}

func TestSpeedTracker_Estimate(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{at: start}
	tracker := newSpeedTracker(clock.now)

	tracker.Observe(0)
	clock.advance(time.Second)
	tracker.Observe(100)

	speed, eta := tracker.Estimate(100, 300)
	require.NotNil(t, eta)
	assert.InDelta(t, 100.0, speed, 0.01)
	assert.Equal(t, clock.at.Add(2*time.Second), *eta, "200 units left at 100/s")

	_, eta = tracker.Estimate(100, 0)
	assert.Nil(t, eta, "unknown total yields no estimate")

	_, eta = tracker.Estimate(400, 300)
	assert.Nil(t, eta, "done past total yields no estimate")
}

func TestSpeedTracker_CounterResetRebases(t *testing.T) {
	clock := &fakeClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tracker := newSpeedTracker(clock.now)

	tracker.Observe(0)
	clock.advance(time.Second)
	before := tracker.Observe(100)

	clock.advance(time.Second)
	after := tracker.Observe(10) // phase restarted its counter

	assert.Equal(t, before, after, "a reset keeps the last speed instead of going negative")

	clock.advance(time.Second)
	speed := tracker.Observe(110)
	assert.Greater(t, speed, 0.0)
}

func TestSpeedTracker_Reset(t *testing.T) {
	clock := &fakeClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tracker := newSpeedTracker(clock.now)

	tracker.Observe(0)
	clock.advance(time.Second)
	tracker.Observe(100)
	tracker.Reset()

	speed, eta := tracker.Estimate(50, 100)
	assert.Zero(t, speed)
	assert.Nil(t, eta)
}
