package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"

	"github.com/google/uuid"

	"github.com/duong1906ltv/website/internal/storage"
	"github.com/duong1906ltv/website/internal/validation"
)

// imagePrefix groups post images inside the storage backend
const imagePrefix = "images"

type FileService struct {
	storage storage.Storage
}

func NewFileService(storage storage.Storage) *FileService {
	return &FileService{
		storage: storage,
	}
}

// SaveImage validates an uploaded image and stores it under
// images/<uuid>-<sanitized name>, returning the storage key
func (s *FileService) SaveImage(ctx context.Context, header *multipart.FileHeader) (string, error) {
	err := validation.ValidateImage(header)
	if err != nil {
		return "", ValidationError(err.Error())
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	key := path.Join(imagePrefix, uuid.New().String()+"-"+validation.SanitizeFilename(header.Filename))

	err = s.storage.Save(ctx, key, file)
	if err != nil {
		slog.Error("failed to store image", "error", err, "key", key)
		return "", transportError(ErrStorageUnavailable, err)
	}

	return key, nil
}

// URL returns the browser URL of a stored image, empty when there is none
func (s *FileService) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.storage.URL(key)
}

// Delete removes a stored image. Failures are logged only: an orphaned file is
// preferable to failing the request that removed its post.
func (s *FileService) Delete(ctx context.Context, key string) {
	if key == "" {
		return
	}

	err := s.storage.Delete(ctx, key)
	if err != nil {
		slog.Warn("failed to delete image from storage", "error", err, "key", key)
	}
}
