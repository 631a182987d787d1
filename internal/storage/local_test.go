package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duong1906ltv/website/internal/config"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(root, LocalURLPrefix)
	require.NoError(t, err)

	key := "images/abc-cat.png"
	require.NoError(t, s.Save(ctx, key, strings.NewReader("png bytes")))

	data, err := os.ReadFile(filepath.Join(root, "images", "abc-cat.png"))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))
	assert.Equal(t, "/uploads/images/abc-cat.png", s.URL(key))

	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, "images", "abc-cat.png"))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is fine
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(root, "uploads"), LocalURLPrefix)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "../../escape.png", strings.NewReader("x")))

	_, err = os.Stat(filepath.Join(root, "escape.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "uploads", "escape.png"))
	assert.NoError(t, err)

	assert.Error(t, s.Save(ctx, "", strings.NewReader("x")))
}

func TestLocalStorageCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewLocalStorage(t.TempDir(), LocalURLPrefix)
	require.NoError(t, err)

	err = s.Save(ctx, "images/a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(filepath.Join(s.Root(), "images"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewLocalFromConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "uploads")
	s, err := New(context.Background(), &config.Config{StorageDriver: config.StorageDriverLocal, UploadDir: dir})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}
