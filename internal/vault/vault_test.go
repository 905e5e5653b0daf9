package vault

import (
	"bytes"
	"context"
	"testing"

	"github.com/fernet/fernet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/blob"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
)

func newTestVault() (*Vault, *blob.MemoryStore) {
	store := blob.NewMemoryStore()
	return New(store), store
}

func TestStoreRetrieve_RoundTrip(t *testing.T) {
	v, store := newTestVault()
	ctx := context.Background()

	payloads := [][]byte{
		[]byte("hello"),
		{},
		bytes.Repeat([]byte{0x00, 0xff, 0x7f}, 4096),
	}

	for _, payload := range payloads {
		locator, key, err := v.Store(ctx, "doc.pdf", payload, "application/pdf")
		require.NoError(t, err)
		require.NotEmpty(t, locator)
		require.NotEmpty(t, key)

		got, err := v.Retrieve(ctx, locator, key)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}

	assert.Equal(t, len(payloads), store.Len())
}

func TestStore_CiphertextDiffersFromPayload(t *testing.T) {
	v, store := newTestVault()
	ctx := context.Background()

	payload := []byte("confidential content")
	locator, _, err := v.Store(ctx, "x.txt", payload, "")
	require.NoError(t, err)

	stored, err := store.Get(ctx, locator)
	require.NoError(t, err)
	assert.NotEqual(t, payload, stored)
	assert.NotContains(t, string(stored), "confidential")
}

func TestStore_FreshKeyPerPayload(t *testing.T) {
	v, _ := newTestVault()
	ctx := context.Background()

	_, key1, err := v.Store(ctx, "a", []byte("same bytes"), "")
	require.NoError(t, err)
	_, key2, err := v.Store(ctx, "b", []byte("same bytes"), "")
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)
}

func TestRetrieve_TamperedCiphertext(t *testing.T) {
	v, store := newTestVault()
	ctx := context.Background()

	locator, key, err := v.Store(ctx, "x", []byte("payload to protect"), "")
	require.NoError(t, err)

	stored, err := store.Get(ctx, locator)
	require.NoError(t, err)

	// Flip a bit at several positions; every variant must be rejected.
	for _, idx := range []int{0, 1, len(stored) / 2, len(stored) - 1} {
		require.NoError(t, store.Corrupt(locator, idx))

		_, err := v.Retrieve(ctx, locator, key)
		require.ErrorIs(t, err, common.ErrAuthentication, "bit flip at %d not detected", idx)

		// Undo the flip before the next round.
		require.NoError(t, store.Corrupt(locator, idx))
	}

	got, err := v.Retrieve(ctx, locator, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload to protect"), got)
}

func TestRetrieve_WrongKey(t *testing.T) {
	v, _ := newTestVault()
	ctx := context.Background()

	locator, _, err := v.Store(ctx, "x", []byte("secret"), "")
	require.NoError(t, err)

	var other fernet.Key
	require.NoError(t, other.Generate())

	_, err = v.Retrieve(ctx, locator, other.Encode())
	require.ErrorIs(t, err, common.ErrAuthentication)
}

func TestRetrieve_MalformedKey(t *testing.T) {
	v, _ := newTestVault()
	ctx := context.Background()

	locator, _, err := v.Store(ctx, "x", []byte("secret"), "")
	require.NoError(t, err)

	for _, bad := range []string{"", "not-base64!!!", "dG9vc2hvcnQ="} {
		_, err = v.Retrieve(ctx, locator, bad)
		require.ErrorIs(t, err, common.ErrKeyInvalid, "key %q", bad)
	}
}

func TestRetrieve_MissingLocator(t *testing.T) {
	v, _ := newTestVault()

	var k fernet.Key
	require.NoError(t, k.Generate())

	_, err := v.Retrieve(context.Background(), "gone.bin", k.Encode())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteAndSize(t *testing.T) {
	v, _ := newTestVault()
	ctx := context.Background()

	payload := []byte("payload")
	locator, key, err := v.Store(ctx, "x.bin", payload, "")
	require.NoError(t, err)

	size, err := v.Size(ctx, locator)
	require.NoError(t, err)
	// Fernet tokens carry framing and a MAC, so the stored blob is
	// strictly larger than the plaintext.
	assert.Greater(t, size, int64(len(payload)))

	require.NoError(t, v.Delete(ctx, locator))
	_, err = v.Retrieve(ctx, locator, key)
	require.ErrorIs(t, err, common.ErrNotFound)
}
