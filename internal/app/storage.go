package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/blobstore/gcs"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/blobstore/local"
	"github.com/heartmarshall/ledgerlens-backend/internal/config"
)

// BlobStore is the raw document store shared by intake and maintenance jobs.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Move(ctx context.Context, from, to string) error
	Delete(ctx context.Context, key string) error
}

// NewBlobStore opens the configured store. The returned close func is never nil.
func NewBlobStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (BlobStore, func() error, error) {
	switch cfg.Driver {
	case "gcs":
		store, err := gcs.New(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open gcs store: %w", err)
		}
		return store, store.Close, nil
	case "local", "":
		store, err := local.New(cfg.LocalRoot)
		if err != nil {
			return nil, nil, fmt.Errorf("open local store: %w", err)
		}
		return store, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
