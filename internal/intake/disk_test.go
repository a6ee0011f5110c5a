package intake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legado/pkg/requestcontext"
)

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	file, err := store.Save(ctx, "will.pdf", strings.NewReader("last will and testament"))
	require.NoError(t, err)

	assert.Equal(t, "will.pdf", file.OriginalName)
	assert.Equal(t, int64(len("last will and testament")), file.Size)
	assert.Equal(t, fmt.Sprintf("%d-will.pdf", now.UnixMilli()), filepath.Base(file.Path))

	content, err := os.ReadFile(file.Path)
	require.NoError(t, err)
	assert.Equal(t, "last will and testament", string(content))
}

func TestDiskStoreStripsDirectoryComponents(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	file, err := store.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)

	assert.Equal(t, "passwd", file.OriginalName)
	assert.True(t, strings.HasSuffix(filepath.Base(file.Path), "-passwd"))
}

func TestNewDiskStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewDiskStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestObjectKeyFormat(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	assert.Equal(t, "1700000000000-photo.jpg", objectKey(now, "photo.jpg"))
}
