package documents

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	return NewService(logger, newMockRepository(), store)
}

func TestStore_SaveRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	n, err := store.Save("key-1", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	data, err := os.ReadFile(store.Path("key-1"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Remove("key-1"))
	_, err = os.Stat(store.Path("key-1"))
	assert.True(t, os.IsNotExist(err))

	// Removing a missing key is not an error.
	assert.NoError(t, store.Remove("key-1"))
}

func TestStore_PathStripsDirectories(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root)
	require.NoError(t, err)

	assert.Equal(t, store.Path("secret"), store.Path("../../secret"))
}

func TestService_UploadAndDownload(t *testing.T) {
	svc := newTestService(t)

	document, err := svc.Upload(1, "transcript.pdf", "application/pdf",
		strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.NotZero(t, document.ID)
	assert.Equal(t, "transcript.pdf", document.FileName)
	assert.Equal(t, int64(8), document.Size)
	assert.NotEmpty(t, document.StorageKey)

	got, path, err := svc.FilePath(document.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, document.ID, got.ID)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestService_OwnerScoping(t *testing.T) {
	svc := newTestService(t)

	document, err := svc.Upload(1, "essay.txt", "text/plain", strings.NewReader("draft"))
	require.NoError(t, err)

	// Someone else's document behaves like a missing one.
	_, err = svc.Get(document.ID, 2)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.ErrorIs(t, svc.Delete(document.ID, 2), ErrDocumentNotFound)

	list, err := svc.List(2)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.List(1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(t)

	document, err := svc.Upload(1, "essay.txt", "text/plain", strings.NewReader("draft"))
	require.NoError(t, err)

	_, path, err := svc.FilePath(document.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(document.ID, 1))
	_, err = svc.Get(document.ID, 1)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	// The bytes are gone along with the row.
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
