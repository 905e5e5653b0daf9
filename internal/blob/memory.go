package blob

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
)

// MemoryStore is an in-process Store used by tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	locator := uuid.New().String() + filepath.Ext(name)
	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	s.blobs[locator] = cp
	s.mu.Unlock()
	return locator, nil
}

func (s *MemoryStore) Get(_ context.Context, locator string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.blobs[locator]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: blob %q", common.ErrNotFound, locator)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, locator string) error {
	s.mu.Lock()
	delete(s.blobs, locator)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Stat(_ context.Context, locator string) (int64, error) {
	s.mu.RLock()
	data, ok := s.blobs[locator]
	s.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: blob %q", common.ErrNotFound, locator)
	}
	return int64(len(data)), nil
}

// Len reports how many blobs are currently stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Corrupt flips one bit of the stored blob at locator. Test hook for
// tamper-detection scenarios.
func (s *MemoryStore) Corrupt(locator string, byteIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[locator]
	if !ok {
		return fmt.Errorf("%w: blob %q", common.ErrNotFound, locator)
	}
	if byteIndex < 0 || byteIndex >= len(data) {
		return fmt.Errorf("byte index %d out of range", byteIndex)
	}
	data[byteIndex] ^= 0x01
	return nil
}
