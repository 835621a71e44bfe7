package upload

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StoredObject describes one successfully persisted file.
type StoredObject struct {
	Key        string    `json:"path"`
	URL        string    `json:"download_url"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"upload_timestamp"`
}

// ObjectStore is the direct per-file persistence sink: an S3-compatible
// object store that accepts file bytes with attached metadata.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) (StoredObject, error)
}

// MinioConfig holds object storage connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore implements ObjectStore against MinIO or any S3-compatible
// backend. Safe for concurrent use.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore creates the object store client and ensures the bucket
// exists, creating it if missing.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object store endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("object store credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object store bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket: %w", err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads one object and returns a time-limited download URL for it.
func (m *MinioStore) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) (StoredObject, error) {
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return StoredObject{}, fmt.Errorf("uploading %s: %w", key, err)
	}

	downloadURL, err := m.client.PresignedGetObject(ctx, m.bucket, key, 24*time.Hour, url.Values{})
	if err != nil {
		return StoredObject{}, fmt.Errorf("presigning %s: %w", key, err)
	}

	return StoredObject{
		Key:        key,
		URL:        downloadURL.String(),
		FileName:   path.Base(key),
		UploadedAt: time.Now(),
	}, nil
}
