// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package service

import (
	"sync"
	"time"
)

// speedSmoothing is the EWMA weight given to the newest sample. The source
// material left the smoothing window unspecified; 0.3 reacts within a few
// samples without letting one burst dominate the estimate.
const speedSmoothing = 0.3

// speedTracker turns raw progress samples into a smoothed transfer speed
// and a completion estimate. Units are whatever the caller counts in:
// bytes for bulk transfers, entities for incremental ones.
type speedTracker struct {
	mu       sync.Mutex
	now      func() time.Time
	lastAt   time.Time
	lastDone int64
	speed    float64
}

func newSpeedTracker(now func() time.Time) *speedTracker {
	if now == nil {
		now = time.Now
	}
	return &speedTracker{now: now}
}

// Observe records a cumulative progress sample and returns the smoothed
// speed in units per second. The first sample only sets the baseline.
func (s *speedTracker) Observe(done int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.lastAt.IsZero() {
		s.lastAt, s.lastDone = now, done
		return s.speed
	}

	elapsed := now.Sub(s.lastAt).Seconds()
	if elapsed <= 0 {
		return s.speed
	}
	if done < s.lastDone {
		// Counter reset, e.g. a phase starting over. Rebase.
		s.lastAt, s.lastDone = now, done
		return s.speed
	}

	sample := float64(done-s.lastDone) / elapsed
	if s.speed == 0 {
		s.speed = sample
	} else {
		s.speed = speedSmoothing*sample + (1-speedSmoothing)*s.speed
	}
	s.lastAt, s.lastDone = now, done

	return s.speed
}

// Estimate returns the current speed and the estimated completion time.
// The estimate is nil while the speed is zero or the total is unknown.
func (s *speedTracker) Estimate(done, total int64) (float64, *time.Time) {
	s.mu.Lock()
	speed := s.speed
	now := s.now()
	s.mu.Unlock()

	if speed <= 0 || total <= 0 || done > total {
		return speed, nil
	}

	remaining := float64(total-done) / speed
	eta := now.Add(time.Duration(remaining * float64(time.Second)))
	return speed, &eta
}

// Reset clears the baseline so the next Observe starts a fresh window.
func (s *speedTracker) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAt, s.lastDone, s.speed = time.Time{}, 0, 0
}
