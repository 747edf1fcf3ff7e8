package mip

import (
	"sync"
	"time"
)

// ProgressTracker tracks transfer progress and invokes a progress
// callback at most once per update interval.
type ProgressTracker struct {
	mu sync.Mutex

	label       string
	transferred int64
	total       int64
	startTime   time.Time
	lastUpdate  time.Time
	lastBytes   int64

	callback func(label string, transferred, total int64, rate float64)
	interval time.Duration
}

// NewProgressTracker returns a tracker that calls callback at most once
// per interval (default 100ms if interval <= 0).
func NewProgressTracker(callback func(string, int64, int64, float64), interval time.Duration) *ProgressTracker {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &ProgressTracker{callback: callback, interval: interval}
}

// Start begins tracking a new transfer.
func (pt *ProgressTracker) Start(label string, total int64) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.label = label
	pt.total = total
	pt.transferred = 0
	pt.startTime = time.Now()
	pt.lastUpdate = pt.startTime
	pt.lastBytes = 0
}

// Update records transferred bytes and invokes the callback if the
// update interval has elapsed.
func (pt *ProgressTracker) Update(transferred int64) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.transferred = transferred

	now := time.Now()
	if now.Sub(pt.lastUpdate) < pt.interval {
		return
	}
	elapsed := now.Sub(pt.lastUpdate).Seconds()
	var rate float64
	if elapsed > 0 {
		rate = float64(transferred-pt.lastBytes) / elapsed
	}
	if pt.callback != nil {
		pt.callback(pt.label, transferred, pt.total, rate)
	}
	pt.lastUpdate = now
	pt.lastBytes = transferred
}

// Complete performs a final callback invocation and returns the total
// elapsed duration.
func (pt *ProgressTracker) Complete() time.Duration {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	duration := time.Since(pt.startTime)
	if pt.callback != nil {
		pt.callback(pt.label, pt.transferred, pt.total, 0)
	}
	return duration
}
