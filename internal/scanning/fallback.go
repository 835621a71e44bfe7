package scanning

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRecognitionTimeout bounds one live recognition call. Expiry counts
// as a batch-level recognition failure.
const DefaultRecognitionTimeout = 30 * time.Second

// Fallback wraps a live recognizer so that any failure - transport error,
// parse error, timeout, or a result count mismatch - degrades the whole
// batch to simulated data. A recognition failure is never fatal to the
// pipeline; it is logged as a warning and the caller always receives one
// result per input file.
type Fallback struct {
	live    Recognizer
	sim     *Simulated
	timeout time.Duration
}

// NewFallback creates a fallback wrapper. live may be nil, in which case
// every batch is simulated. A non-positive timeout uses the default.
func NewFallback(live Recognizer, sim *Simulated, timeout time.Duration) *Fallback {
	if timeout <= 0 {
		timeout = DefaultRecognitionTimeout
	}
	return &Fallback{live: live, sim: sim, timeout: timeout}
}

// RecognizeBatch tries the live recognizer under a deadline and falls back
// to simulated results for the entire batch on any failure.
func (f *Fallback) RecognizeBatch(ctx context.Context, files []File) ([]RawResult, error) {
	if f.live == nil {
		return f.sim.RecognizeBatch(ctx, files)
	}

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	results, err := f.live.RecognizeBatch(callCtx, files)
	if err == nil && len(results) == len(files) {
		return results, nil
	}
	if err != nil {
		slog.Warn("Live recognition failed, using simulated data", "files", len(files), "error", err)
	} else {
		slog.Warn("Live recognition returned wrong result count, using simulated data",
			"files", len(files), "results", len(results))
	}
	return f.sim.RecognizeBatch(ctx, files)
}

// Close closes the underlying live recognizer.
func (f *Fallback) Close() error {
	if f.live == nil {
		return nil
	}
	return f.live.Close()
}
