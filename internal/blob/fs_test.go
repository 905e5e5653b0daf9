package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
)

func TestFSStore_PutGetRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte("some file content")
	locator, err := store.Put(ctx, "notes.txt", payload, "text/plain")
	require.NoError(t, err)
	assert.NotEmpty(t, locator)
	assert.Contains(t, locator, ".txt", "locator keeps the original extension")

	got, err := store.Get(ctx, locator)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	size, err := store.Stat(ctx, locator)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), size)
}

func TestFSStore_GetMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nothing-here.bin")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.Stat(context.Background(), "nothing-here.bin")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestFSStore_DeleteIsIdempotent(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	locator, err := store.Put(ctx, "a.bin", []byte{1, 2, 3}, "")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, locator))
	_, err = store.Get(ctx, locator)
	require.ErrorIs(t, err, common.ErrNotFound)

	// Second delete of the same locator is not an error.
	require.NoError(t, store.Delete(ctx, locator))
}

func TestFSStore_RejectsTraversalLocator(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "../etc/passwd")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
}
