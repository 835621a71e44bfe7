package batch

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

const batchBucketName = "batches"

// BoltStore implements the Store interface using BoltDB.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the batch history database.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(batchBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// SaveBatch saves a completed batch.
func (s *BoltStore) SaveBatch(b *Batch) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(batchBucketName))
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshaling batch: %w", err)
		}
		return bucket.Put([]byte(b.ID), data)
	})
}

// GetBatch retrieves a batch by ID.
func (s *BoltStore) GetBatch(id string) (*Batch, error) {
	var b *Batch
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(batchBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("batch not found: %s", id)
		}
		return json.Unmarshal(data, &b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBatches returns all batches, newest first.
func (s *BoltStore) ListBatches() ([]*Batch, error) {
	batches := make([]*Batch, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(batchBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var b Batch
			if err := json.Unmarshal(v, &b); err != nil {
				return fmt.Errorf("unmarshaling batch: %w", err)
			}
			batches = append(batches, &b)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].CreatedAt.After(batches[j].CreatedAt)
	})
	return batches, nil
}

// Close closes the database connection.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
