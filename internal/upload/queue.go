package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tipenter/tipenter/internal/batch"
)

// ErrQueueFull is returned by Enqueue when the bounded queue has no room.
// The caller logs it and moves on; it never aborts a batch.
var ErrQueueFull = errors.New("bulk upload queue is full")

// BulkSink receives a whole batch of files in one delivery. It owns nothing
// beyond the delivery itself; retries belong to the queue.
type BulkSink interface {
	UploadBatch(ctx context.Context, files []batch.NormalizedFile) error
}

// BulkQueue is a bounded background queue feeding the bulk sink. Enqueue
// accepts a batch and returns immediately; a single worker delivers queued
// batches with exponential backoff retries.
type BulkQueue struct {
	sink BulkSink
	jobs chan []batch.NormalizedFile
	wg   sync.WaitGroup

	attempts       int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewBulkQueue creates a queue holding at most size pending batches and
// starts its worker.
func NewBulkQueue(sink BulkSink, size int) *BulkQueue {
	if size <= 0 {
		size = 16
	}
	q := &BulkQueue{
		sink:           sink,
		jobs:           make(chan []batch.NormalizedFile, size),
		attempts:       3,
		initialBackoff: 50 * time.Millisecond,
		maxBackoff:     time.Second,
	}
	q.wg.Add(1)
	go q.worker()
	return q
}

// Enqueue hands a batch to the queue without blocking. A full queue returns
// ErrQueueFull.
func (q *BulkQueue) Enqueue(files []batch.NormalizedFile) error {
	select {
	case q.jobs <- files:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting work and waits for the worker to drain the queue.
func (q *BulkQueue) Close() {
	close(q.jobs)
	q.wg.Wait()
}

func (q *BulkQueue) worker() {
	defer q.wg.Done()
	for files := range q.jobs {
		if err := q.deliver(files); err != nil {
			slog.Error("Bulk upload delivery failed", "files", len(files), "error", err)
			sinkDeliveries.WithLabelValues("bulk", "failure").Inc()
			continue
		}
		sinkDeliveries.WithLabelValues("bulk", "success").Inc()
	}
}

func (q *BulkQueue) deliver(files []batch.NormalizedFile) error {
	backoff := q.initialBackoff
	var err error
	for attempt := 0; attempt < q.attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			if next := backoff * 2; next <= q.maxBackoff {
				backoff = next
			}
		}

		err = q.sink.UploadBatch(context.Background(), files)
		if err == nil {
			if attempt > 0 {
				slog.Info("Bulk upload succeeded after retry", "attempt", attempt+1)
			}
			return nil
		}
		slog.Warn("Bulk upload attempt failed", "attempt", attempt+1, "error", err)
	}
	return fmt.Errorf("delivering batch after %d attempts: %w", q.attempts, err)
}

// ObjectBulkSink delivers bulk batches into the object store under a shared
// prefix, one object per file.
type ObjectBulkSink struct {
	store ObjectStore
}

// NewObjectBulkSink creates a bulk sink backed by the object store.
func NewObjectBulkSink(store ObjectStore) *ObjectBulkSink {
	return &ObjectBulkSink{store: store}
}

// UploadBatch uploads every file in the batch. The first failure aborts the
// delivery so the queue's retry policy re-runs it.
func (s *ObjectBulkSink) UploadBatch(ctx context.Context, files []batch.NormalizedFile) error {
	stamp := time.Now().UTC().Format("20060102T150405")
	for _, f := range files {
		data, err := f.Bytes()
		if err != nil {
			return err
		}
		key := fmt.Sprintf("bulk/%s/%s", stamp, f.Name)
		if _, err := s.store.Put(ctx, key, data, f.MimeType, nil); err != nil {
			return err
		}
	}
	return nil
}
