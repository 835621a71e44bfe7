package upload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tipenter/tipenter/internal/batch"
)

// UploadOutcome records one file's fate at the direct object-storage sink.
type UploadOutcome struct {
	FileName string `json:"file_name"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// UploadSummary aggregates per-file outcomes for one batch. The invariant
// Succeeded + Failed == Attempted always holds.
type UploadSummary struct {
	Attempted     int             `json:"attempted"`
	Succeeded     int             `json:"succeeded"`
	Failed        int             `json:"failed"`
	SkippedSignIn bool            `json:"skipped_sign_in"`
	Outcomes      []UploadOutcome `json:"outcomes,omitempty"`
}

// Notifier delivers user-facing upload notifications. The HTTP layer is not
// a push channel, so the default implementation logs.
type Notifier interface {
	UploadSummary(summary UploadSummary)
	SignInRequired()
}

type slogNotifier struct{}

func (slogNotifier) UploadSummary(s UploadSummary) {
	slog.Info("Upload summary", "attempted", s.Attempted, "succeeded", s.Succeeded, "failed", s.Failed)
}

func (slogNotifier) SignInRequired() {
	slog.Info("Sign in to save receipt images")
}

// Enqueuer is the bulk-queue contract the fan-out depends on.
type Enqueuer interface {
	Enqueue(files []batch.NormalizedFile) error
}

// Fanout pushes a batch's files to the two persistence sinks independently
// of recognition: the bulk queue (fire-and-forget) and the direct
// object-storage sink (per-file, session-gated).
type Fanout struct {
	queue    Enqueuer
	store    ObjectStore
	notifier Notifier
	clock    batch.TimeSource
}

// NewFanout creates a fan-out with the default log-based notifier.
func NewFanout(queue Enqueuer, store ObjectStore) *Fanout {
	return NewFanoutWithDeps(queue, store, slogNotifier{}, realClock{})
}

// NewFanoutWithDeps creates a fan-out with custom dependencies for testing.
func NewFanoutWithDeps(queue Enqueuer, store ObjectStore, notifier Notifier, clock batch.TimeSource) *Fanout {
	return &Fanout{queue: queue, store: store, notifier: notifier, clock: clock}
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Dispatch satisfies the pipeline's dispatcher contract.
func (f *Fanout) Dispatch(ctx context.Context, files []batch.NormalizedFile, session *batch.Session) {
	f.Run(ctx, files, session)
}

// Run enqueues the batch to the bulk queue, then uploads each file to the
// object store when a session is active. Each upload failure is isolated:
// it is logged and counted, and the remaining files are still attempted.
// One summary notification reports the counts at the end.
func (f *Fanout) Run(ctx context.Context, files []batch.NormalizedFile, session *batch.Session) UploadSummary {
	if err := f.queue.Enqueue(files); err != nil {
		// Non-fatal: the direct sink still runs.
		slog.Warn("Bulk queue rejected batch", "files", len(files), "error", err)
	}

	if session == nil {
		f.notifier.SignInRequired()
		return UploadSummary{SkippedSignIn: true}
	}

	summary := UploadSummary{}
	for _, file := range files {
		summary.Attempted++
		outcome := f.uploadOne(ctx, file, session)
		if outcome.Success {
			summary.Succeeded++
			sinkDeliveries.WithLabelValues("direct", "success").Inc()
		} else {
			summary.Failed++
			sinkDeliveries.WithLabelValues("direct", "failure").Inc()
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	f.notifier.UploadSummary(summary)
	return summary
}

func (f *Fanout) uploadOne(ctx context.Context, file batch.NormalizedFile, session *batch.Session) UploadOutcome {
	data, err := file.Bytes()
	if err != nil {
		slog.Warn("Skipping upload of undecodable file", "filename", file.Name, "error", err)
		return UploadOutcome{FileName: file.Name, Error: err.Error()}
	}

	now := f.clock.Now().UTC()
	metadata := map[string]string{
		"uploaded-by": session.UserID,
		"uploaded-at": now.Format(time.RFC3339),
	}
	if session.VenueID != "" {
		metadata["venue-id"] = session.VenueID
	}

	key := fmt.Sprintf("receipts/%s/%d_%s", session.UserID, now.UnixNano(), file.Name)
	if _, err := f.store.Put(ctx, key, data, file.MimeType, metadata); err != nil {
		slog.Warn("Upload failed", "filename", file.Name, "error", err)
		return UploadOutcome{FileName: file.Name, Error: err.Error()}
	}
	return UploadOutcome{FileName: file.Name, Success: true}
}
