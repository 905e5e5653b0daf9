// Package common defines shared sentinel errors used across the storage,
// vault and service layers. Callers should use errors.Is to match these
// values; layers wrap them with fmt.Errorf("...: %w", err) to add context.
package common

import "errors"

var (
	// ErrNotFound is returned when a folder, file or blob does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers malformed or rejected user input.
	ErrValidation = errors.New("validation error")

	// Decryption-time errors.
	ErrKeyInvalid     = errors.New("invalid decryption key")
	ErrAuthentication = errors.New("decryption authentication failed")

	// Blob store I/O faults.
	ErrStorageWrite = errors.New("storage write error")
	ErrStorageRead  = errors.New("storage read error")

	// Account errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
