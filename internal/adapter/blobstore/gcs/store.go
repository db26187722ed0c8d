// Package gcs stores raw document bytes in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Store keeps each object in a single bucket.
type Store struct {
	client *storage.Client
	bucket string
	log    *slog.Logger
}

// New creates a Store. With empty credentialsJSON the client falls back to
// application default credentials.
func New(ctx context.Context, bucket, credentialsJSON string, logger *slog.Logger) (*Store, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: new client: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("gcs: bucket %q not accessible: %w", bucket, err)
	}

	return &Store{client: client, bucket: bucket, log: logger.With("adapter", "gcs")}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Put uploads data under key.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("gcs: upload %s: %w", key, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("gcs: close writer %s: %w", key, err)
	}

	s.log.DebugContext(ctx, "object uploaded", slog.String("key", key), slog.Int("bytes", len(data)))
	return nil
}

// Get downloads the object stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs: open %s: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("gcs: read %s: %w", key, err)
	}
	return data, nil
}

// Move copies the object to its new key and deletes the original.
func (s *Store) Move(ctx context.Context, from, to string) error {
	bkt := s.client.Bucket(s.bucket)
	if _, err := bkt.Object(to).CopierFrom(bkt.Object(from)).Run(ctx); err != nil {
		return fmt.Errorf("gcs: copy %s: %w", from, err)
	}
	if err := s.Delete(ctx, from); err != nil {
		// The copy exists; a stale source object is only wasted space.
		s.log.WarnContext(ctx, "delete after copy failed", slog.String("key", from), slog.String("error", err.Error()))
	}
	return nil
}

// Delete removes an object. A missing object is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs: delete %s: %w", key, err)
	}
	return nil
}
