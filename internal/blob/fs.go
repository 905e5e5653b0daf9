package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
)

// FSStore keeps blobs as flat files under one directory. Intended for local
// development and tests; production deployments use MinioStore.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if needed and returns a store over it.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root %q: %w", root, err)
	}
	return &FSStore{root: root}, nil
}

// path resolves a locator inside the root. Locators are single path
// elements; anything else is rejected to keep lookups inside the root.
func (s *FSStore) path(locator string) (string, error) {
	if locator == "" || locator != filepath.Base(locator) {
		return "", fmt.Errorf("%w: malformed locator %q", common.ErrStorageRead, locator)
	}
	return filepath.Join(s.root, locator), nil
}

func (s *FSStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	locator := uuid.New().String() + filepath.Ext(name)
	if err := os.WriteFile(filepath.Join(s.root, locator), data, 0o600); err != nil {
		return "", fmt.Errorf("%w: write blob %q: %v", common.ErrStorageWrite, locator, err)
	}
	return locator, nil
}

func (s *FSStore) Get(_ context.Context, locator string) ([]byte, error) {
	p, err := s.path(locator)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: blob %q", common.ErrNotFound, locator)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read blob %q: %v", common.ErrStorageRead, locator, err)
	}
	return data, nil
}

func (s *FSStore) Delete(_ context.Context, locator string) error {
	p, err := s.path(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove blob %q: %v", common.ErrStorageWrite, locator, err)
	}
	return nil
}

func (s *FSStore) Stat(_ context.Context, locator string) (int64, error) {
	p, err := s.path(locator)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("%w: blob %q", common.ErrNotFound, locator)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: stat blob %q: %v", common.ErrStorageRead, locator, err)
	}
	return info.Size(), nil
}
