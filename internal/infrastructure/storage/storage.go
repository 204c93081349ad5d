// Package storage provides object storage for design board assets and
// archived invoice PDFs.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/furnitureops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrKeyRequired is returned when an operation is called with an empty key
var ErrKeyRequired = errors.New("storage key is required")

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// ObjectStore is implemented by S3ObjectStorage and MemoryObjectStorage
type ObjectStore interface {
	PresignUpload(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	// Stat reports false when the object does not exist
	Stat(ctx context.Context, key string) (ObjectInfo, bool, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Open returns the S3 store when a bucket is configured, otherwise the in-memory store
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (ObjectStore, error) {
	if cfg.Bucket == "" {
		logger.Warn("Storage bucket not configured, using in-memory object storage")
		return NewMemoryObjectStorage("http://localhost:8080/storage"), nil
	}
	s, err := NewS3ObjectStorage(ctx, cfg, WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
