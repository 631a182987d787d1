// Package storage persists uploaded post images.
package storage

import (
	"context"
	"io"
	"log/slog"

	cfg "github.com/duong1906ltv/website/internal/config"
)

// Storage is a sink for post images addressed by key
type Storage interface {
	// Save writes the file under key, replacing any previous content
	Save(ctx context.Context, key string, file io.Reader) error

	Delete(ctx context.Context, key string) error

	// URL is what the browser fetches the image from
	URL(key string) string
}

// New creates the storage backend selected by STORAGE_DRIVER
func New(ctx context.Context, c *cfg.Config) (Storage, error) {
	if c.StorageDriver == cfg.StorageDriverS3 {
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		s3Storage, err := NewS3Storage(ctx, S3Config{
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Endpoint:      c.S3Endpoint,
			PresignExpiry: c.S3PresignExpiry,
		})
		if err != nil {
			return nil, err
		}
		return s3Storage, nil
	}

	slog.Info("initializing local storage", "dir", c.UploadDir)
	local, err := NewLocalStorage(c.UploadDir, LocalURLPrefix)
	if err != nil {
		return nil, err
	}
	return local, nil
}
