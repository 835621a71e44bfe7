package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tipenter/tipenter/internal/scanning"
)

// ErrBatchInFlight is returned when a batch is submitted while another is
// still being processed. Batches share no state, but the single-writer
// discipline over the current-batch view is explicit rather than implicit.
var ErrBatchInFlight = errors.New("a batch is already being processed")

// ErrEmptyBatch is returned when a batch is submitted with no accepted files.
var ErrEmptyBatch = errors.New("batch contains no files")

// Dispatcher receives the batch's files for persistence, independently of
// the recognition result flow.
type Dispatcher interface {
	Dispatch(ctx context.Context, files []NormalizedFile, session *Session)
}

// ProcessOptions control one pipeline invocation.
type ProcessOptions struct {
	// Simulate skips the live recognition call entirely.
	Simulate bool
	// Session, when non-nil, enables the direct object-storage sink.
	Session *Session
	// Progress, when non-nil, receives milestone percentages.
	Progress func(int)
}

// UUIDGenerator generates UUID batch IDs.
type UUIDGenerator struct{}

// Generate returns a new UUID string.
func (UUIDGenerator) Generate() string { return uuid.NewString() }

// SystemClock is the wall-clock TimeSource.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Pipeline runs the receipt-processing sequence: normalized files in,
// formatted recognition results out, with persistence fanned out on the
// side. Nothing in Process propagates an error past the batch boundary
// except the submission guards; every downstream failure degrades to a
// fallback value.
type Pipeline struct {
	recognizer scanning.Recognizer
	simulator  *scanning.Simulated
	dispatcher Dispatcher
	store      Store
	estimator  Estimator
	idGen      IDGenerator
	clock      TimeSource

	mu       sync.Mutex
	inFlight bool

	curMu   sync.RWMutex
	current *Batch

	wg sync.WaitGroup
}

// NewPipeline creates a pipeline with UUID batch IDs and the system clock.
// recognizer is normally a scanning.Fallback so live failures degrade to
// simulated data; simulator serves the explicit simulate mode and the
// pipeline's own last-resort degrade.
func NewPipeline(recognizer scanning.Recognizer, simulator *scanning.Simulated, dispatcher Dispatcher, store Store) *Pipeline {
	return NewPipelineWithDeps(recognizer, simulator, dispatcher, store, DefaultEstimator, UUIDGenerator{}, SystemClock{})
}

// NewPipelineWithDeps creates a pipeline with custom dependencies for testing.
func NewPipelineWithDeps(recognizer scanning.Recognizer, simulator *scanning.Simulated, dispatcher Dispatcher, store Store, estimator Estimator, idGen IDGenerator, clock TimeSource) *Pipeline {
	return &Pipeline{
		recognizer: recognizer,
		simulator:  simulator,
		dispatcher: dispatcher,
		store:      store,
		estimator:  estimator,
		idGen:      idGen,
		clock:      clock,
	}
}

// Estimate returns the expected processing duration for n files.
func (p *Pipeline) Estimate(n int) time.Duration {
	return p.estimator.Estimate(n)
}

// Process runs one batch to completion. The result list always has exactly
// one entry per input file in input order, regardless of which recognition
// or persistence calls failed along the way.
func (p *Pipeline) Process(ctx context.Context, files []NormalizedFile, opts ProcessOptions) (*Batch, error) {
	if len(files) == 0 {
		return nil, ErrEmptyBatch
	}

	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil, ErrBatchInFlight
	}
	p.inFlight = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	reporter := NewReporter(opts.Progress)
	defer reporter.Complete()

	countdown := NewCountdown(p.clock)
	estimate := p.estimator.Estimate(len(files))
	countdown.Start(estimate)

	b := &Batch{
		ID:        p.idGen.Generate(),
		CreatedAt: p.clock.Now(),
		Files:     append([]NormalizedFile(nil), files...),
	}
	reporter.Report(ProgressFilesPrepared)

	// Persistence runs on its own goroutine, decoupled from the result
	// flow and from the request's cancellation.
	if p.dispatcher != nil {
		p.wg.Add(1)
		go func(files []NormalizedFile, session *Session) {
			defer p.wg.Done()
			p.dispatcher.Dispatch(context.WithoutCancel(ctx), files, session)
		}(b.Files, opts.Session)
	}

	raws, simulated := p.recognize(ctx, b.Files, opts.Simulate)
	reporter.Report(ProgressDispatched)

	results := make([]RecognitionResult, len(files))
	for i, raw := range raws {
		result := FormatResult(raw)
		result.ImageURL = fmt.Sprintf("/api/batches/%s/files/%d", b.ID, i)
		results[i] = result
	}
	reporter.Report(ProgressFormatted)

	b.Results = results
	b.Simulated = simulated

	if p.store != nil {
		if err := p.store.SaveBatch(b); err != nil {
			// History is a convenience view; the batch is still delivered.
			slog.Warn("Failed to save batch history", "batch_id", b.ID, "error", err)
		}
	}

	p.curMu.Lock()
	p.current = b
	p.curMu.Unlock()

	batchesProcessed.Inc()
	filesProcessed.Add(float64(len(files)))
	slog.Info("Batch processed",
		"batch_id", b.ID,
		"files", len(files),
		"simulated", simulated,
		"estimated", estimate,
		"remaining", countdown.Remaining(),
	)
	return b, nil
}

// recognize picks the recognition path and guarantees a same-length result
// slice. The simulated flag reports whether placeholder data was used.
func (p *Pipeline) recognize(ctx context.Context, files []NormalizedFile, simulate bool) ([]scanning.RawResult, bool) {
	scanFiles := make([]scanning.File, len(files))
	for i, f := range files {
		scanFiles[i] = scanning.File{Name: f.Name, MimeType: f.MimeType, Payload: f.Payload}
	}

	if simulate {
		raws, _ := p.simulator.RecognizeBatch(ctx, scanFiles)
		return raws, true
	}

	raws, err := p.recognizer.RecognizeBatch(ctx, scanFiles)
	if err == nil && len(raws) == len(files) {
		return raws, false
	}
	if err != nil {
		slog.Warn("Recognition failed, degrading batch to simulated data", "error", err)
	}
	recognitionFallbacks.Inc()
	raws, _ = p.simulator.RecognizeBatch(ctx, scanFiles)
	return raws, true
}

// Current returns a copy of the most recently completed batch, or nil when
// none has completed yet. Consumers never see the pipeline's own slices.
func (p *Pipeline) Current() *Batch {
	p.curMu.RLock()
	defer p.curMu.RUnlock()
	if p.current == nil {
		return nil
	}
	b := *p.current
	b.Files = append([]NormalizedFile(nil), p.current.Files...)
	b.Results = append([]RecognitionResult(nil), p.current.Results...)
	return &b
}

// Wait blocks until all dispatched persistence work has finished. Used on
// shutdown and in tests.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}
