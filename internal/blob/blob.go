// Package blob abstracts the byte store that holds file ciphertext. The
// catalog only ever sees opaque locators; physical layout is up to the
// backend.
package blob

import "context"

// Store is a locator-addressed byte store. Put assigns the locator; the
// original file name is passed along so backends can keep the extension on
// the stored object.
//
// Get and Stat return common.ErrNotFound when no blob exists at the
// locator. Delete is idempotent: removing an absent blob is not an error.
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (locator string, err error)
	Get(ctx context.Context, locator string) ([]byte, error)
	Delete(ctx context.Context, locator string) error
	Stat(ctx context.Context, locator string) (int64, error)
}
