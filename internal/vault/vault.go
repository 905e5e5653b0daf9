// Package vault implements confidential storage of whole-file payloads: one
// independent Fernet key per payload, generated at write time and returned
// to the caller for safekeeping in the catalog row.
//
// Fernet gives authenticated encryption in a self-contained token format:
// the token carries its own IV and timestamp, so the vault manages no nonce
// state, and any tampering or truncation of the ciphertext fails
// verification instead of yielding altered plaintext.
package vault

import (
	"context"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/blob"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
)

// Vault wraps a blob.Store, encrypting payloads on the way in and
// decrypting on the way out.
type Vault struct {
	store blob.Store
}

func New(store blob.Store) *Vault {
	return &Vault{store: store}
}

// Store encrypts payload under a fresh random key, persists the ciphertext
// token and returns the assigned locator together with the urlsafe-base64
// encoded key. The key is returned exactly once; the vault keeps no copy.
func (v *Vault) Store(ctx context.Context, name string, payload []byte, contentType string) (locator, key string, err error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", "", fmt.Errorf("%w: key generation: %v", common.ErrStorageWrite, err)
	}

	token, err := fernet.EncryptAndSign(payload, &k)
	if err != nil {
		return "", "", fmt.Errorf("%w: encrypt payload: %v", common.ErrStorageWrite, err)
	}

	locator, err = v.store.Put(ctx, name, token, contentType)
	if err != nil {
		return "", "", err
	}
	return locator, k.Encode(), nil
}

// Retrieve loads the ciphertext at locator and decrypts it with key,
// returning the exact original payload bytes.
//
// A malformed key yields common.ErrKeyInvalid; a missing blob
// common.ErrNotFound; a failed integrity check (wrong key, corrupted or
// tampered ciphertext) common.ErrAuthentication.
func (v *Vault) Retrieve(ctx context.Context, locator, key string) ([]byte, error) {
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyInvalid, err)
	}

	token, err := v.store.Get(ctx, locator)
	if err != nil {
		return nil, err
	}

	// TTL 0 disables expiry: tokens bind a timestamp but stored files
	// never age out.
	msg := fernet.VerifyAndDecrypt(token, 0, []*fernet.Key{k})
	if msg == nil {
		return nil, fmt.Errorf("%w: blob %q", common.ErrAuthentication, locator)
	}
	return msg, nil
}

// Delete removes the ciphertext blob at locator.
func (v *Vault) Delete(ctx context.Context, locator string) error {
	return v.store.Delete(ctx, locator)
}

// Size reports the size of the stored blob at locator. Note this is the
// ciphertext token size, not the plaintext size.
func (v *Vault) Size(ctx context.Context, locator string) (int64, error) {
	return v.store.Stat(ctx, locator)
}
