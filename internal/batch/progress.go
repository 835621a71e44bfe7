package batch

import (
	"sync"
	"time"
)

// Milestone percentages reported at pipeline stage transitions.
const (
	ProgressFilesPrepared = 25
	ProgressDispatched    = 50
	ProgressFormatted     = 75
	ProgressComplete      = 100
)

// Estimator computes an estimated batch duration from the batch size:
// a fixed overhead plus a per-file cost. The estimate is monotone
// non-decreasing in the number of files.
type Estimator struct {
	Overhead time.Duration
	PerFile  time.Duration
}

// DefaultEstimator matches the per-file processing cost observed against the
// live recognition API.
var DefaultEstimator = Estimator{
	Overhead: 5 * time.Second,
	PerFile:  4 * time.Second,
}

// Estimate returns the expected total duration for a batch of n files.
func (e Estimator) Estimate(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	return e.Overhead + time.Duration(n)*e.PerFile
}

// Countdown tracks remaining time against an estimate. It supports pausing
// and resuming; Remaining never goes below zero.
type Countdown struct {
	clock TimeSource

	mu        sync.Mutex
	total     time.Duration
	elapsed   time.Duration
	startedAt time.Time
	running   bool
}

// NewCountdown creates a countdown driven by the given time source.
func NewCountdown(clock TimeSource) *Countdown {
	return &Countdown{clock: clock}
}

// Start begins a new countdown from the given duration.
func (c *Countdown) Start(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total = d
	c.elapsed = 0
	c.startedAt = c.clock.Now()
	c.running = true
}

// Pause freezes the countdown until Resume is called.
func (c *Countdown) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.elapsed += c.clock.Now().Sub(c.startedAt)
	c.running = false
}

// Resume continues a paused countdown.
func (c *Countdown) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.total == 0 {
		return
	}
	c.startedAt = c.clock.Now()
	c.running = true
}

// Stop ends the countdown and resets it.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.total = 0
	c.elapsed = 0
}

// Remaining returns the time left on the countdown, clamped at zero.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	elapsed := c.elapsed
	if c.running {
		elapsed += c.clock.Now().Sub(c.startedAt)
	}
	remaining := c.total - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reporter delivers discrete progress percentages to a callback. Reported
// values are monotonically non-decreasing within one batch and exactly one
// terminal 100 is emitted, even when stages are skipped on error paths.
type Reporter struct {
	mu       sync.Mutex
	callback func(int)
	last     int
	done     bool
}

// NewReporter creates a progress reporter. A nil callback is allowed and
// makes every report a no-op.
func NewReporter(callback func(int)) *Reporter {
	return &Reporter{callback: callback}
}

// Report emits a progress percentage. Regressions are ignored and values
// above 100 are clamped.
func (r *Reporter) Report(pct int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done || pct <= r.last {
		return
	}
	if pct >= ProgressComplete {
		pct = ProgressComplete
		r.done = true
	}
	r.last = pct
	if r.callback != nil {
		r.callback(pct)
	}
}

// Complete emits the terminal 100. Safe to call more than once.
func (r *Reporter) Complete() {
	r.Report(ProgressComplete)
}
