package batch

// Store persists completed batches. It is an additive history view: a save
// failure never blocks result delivery to the caller.
type Store interface {
	// SaveBatch saves a completed batch
	SaveBatch(b *Batch) error

	// GetBatch retrieves a batch by ID
	GetBatch(id string) (*Batch, error)

	// ListBatches returns all batches, newest first
	ListBatches() ([]*Batch, error)

	// Close closes the store
	Close() error
}
