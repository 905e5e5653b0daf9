// Package service holds the drive business logic: folder and file
// lifecycle, slug allocation with conflict retry, and the
// encrypt-on-upload / decrypt-on-download flow.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/drive/store"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/models"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/slugger"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/vault"
	"github.com/GaygysyzMyradov/EncryptedDrive/pkg/logger"
)

// maxSlugAttempts bounds the allocation retry loop when concurrent writers
// race on the same base slug. Each attempt reseeds the numeric suffix, so
// exhausting this is effectively only possible when the store is broken.
const maxSlugAttempts = 5

const maxNameLength = 100

// Service implements the drive operations on top of the catalog store and
// the encrypted vault.
type Service struct {
	store  *store.Store
	vault  *vault.Vault
	logger *logger.Logger
}

// NewService wires a Service from its dependencies.
func NewService(s *store.Store, v *vault.Vault, l *logger.Logger) *Service {
	return &Service{store: s, vault: v, logger: l}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name must not be empty", common.ErrValidation)
	}
	if len(name) > maxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", common.ErrValidation, maxNameLength)
	}
	return name, nil
}

// --- Folders ---

// CreateFolder allocates a globally unique slug for name and inserts the
// folder row. The unique index on folders.slug is the authority; on a
// duplicate-key conflict from a concurrent writer the allocation is re-run.
func (s *Service) CreateFolder(ctx context.Context, ownerID uint, name string) (*models.Folder, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := slugger.Unique(ctx, name, s.store.FolderSlugExists)
		if err != nil {
			return nil, err
		}

		folder := &models.Folder{
			Name:    name,
			Slug:    slug,
			OwnerID: ownerID,
		}
		err = s.store.CreateFolder(ctx, folder)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.WithField("slug", slug).Warn("folder slug conflict, retrying allocation")
			continue
		}
		if err != nil {
			return nil, err
		}
		return folder, nil
	}

	return nil, fmt.Errorf("could not allocate a unique folder slug for %q after %d attempts", name, maxSlugAttempts)
}

// GetFolder resolves a folder slug for the owner.
func (s *Service) GetFolder(ctx context.Context, ownerID uint, slug string) (*models.Folder, error) {
	return s.store.GetFolderBySlug(ctx, ownerID, slug)
}

// ListFolders lists the owner's folders with optional case-insensitive
// substring filter and sort order ("name" or "date").
func (s *Service) ListFolders(ctx context.Context, ownerID uint, nameContains, sortBy string) ([]models.Folder, error) {
	return s.store.ListFolders(ctx, ownerID, nameContains, sortBy)
}

// DeleteFolder removes the folder, every contained file row and their
// blobs, returning the number of files removed. The row deletions are one
// transaction; blob deletions follow best-effort, and a failed blob delete
// leaves an orphan to be reconciled out-of-band rather than failing the
// request.
func (s *Service) DeleteFolder(ctx context.Context, ownerID uint, slug string) (int, error) {
	folder, err := s.store.GetFolderBySlug(ctx, ownerID, slug)
	if err != nil {
		return 0, err
	}

	files, err := s.store.DeleteFolderWithFiles(ctx, folder)
	if err != nil {
		return 0, err
	}

	for _, f := range files {
		if err := s.vault.Delete(ctx, f.StorageLocator); err != nil {
			s.logger.WithError(err).WithField("locator", f.StorageLocator).
				Warn("failed to delete blob of cascaded file")
		}
	}
	return len(files), nil
}

// --- Files ---

// UploadFile encrypts payload under a fresh key, stores the ciphertext and
// records the catalog row in the target folder. The folder must belong to
// ownerID. If the row cannot be written after the blob is, the blob is
// deleted again so no orphan survives the failed upload.
func (s *Service) UploadFile(ctx context.Context, ownerID uint, folderSlug, name string, payload []byte) (*models.File, error) {
	folder, err := s.store.GetFolderBySlug(ctx, ownerID, folderSlug)
	if err != nil {
		return nil, err
	}
	name, err = validateName(name)
	if err != nil {
		return nil, err
	}

	contentType := mimetype.Detect(payload).String()
	locator, key, err := s.vault.Store(ctx, name, payload, contentType)
	if err != nil {
		return nil, err
	}

	taken := func(ctx context.Context, slug string) (bool, error) {
		return s.store.FileSlugExists(ctx, ownerID, slug)
	}

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := slugger.Unique(ctx, name, taken)
		if err != nil {
			s.discardBlob(ctx, locator)
			return nil, err
		}

		file := &models.File{
			OwnerID:        ownerID,
			FolderID:       folder.ID,
			Name:           name,
			Slug:           slug,
			StorageLocator: locator,
			Decrypted:      true,
			DecryptionKey:  &key,
		}
		err = s.store.CreateFile(ctx, file)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.WithField("slug", slug).Warn("file slug conflict, retrying allocation")
			continue
		}
		if err != nil {
			s.discardBlob(ctx, locator)
			return nil, err
		}
		return file, nil
	}

	s.discardBlob(ctx, locator)
	return nil, fmt.Errorf("could not allocate a unique file slug for %q after %d attempts", name, maxSlugAttempts)
}

// discardBlob compensates a failed upload by removing the already written
// ciphertext.
func (s *Service) discardBlob(ctx context.Context, locator string) {
	if err := s.vault.Delete(ctx, locator); err != nil {
		s.logger.WithError(err).WithField("locator", locator).
			Warn("failed to discard blob of aborted upload")
	}
}

// GetFile resolves a file slug for the owner.
func (s *Service) GetFile(ctx context.Context, ownerID uint, slug string) (*models.File, error) {
	return s.store.GetFileBySlug(ctx, ownerID, slug)
}

// DownloadFile resolves the owner's file by slug, decrypts the stored blob
// and returns the plaintext together with the catalog row.
func (s *Service) DownloadFile(ctx context.Context, ownerID uint, slug string) ([]byte, *models.File, error) {
	file, err := s.store.GetFileBySlug(ctx, ownerID, slug)
	if err != nil {
		return nil, nil, err
	}
	if file.DecryptionKey == nil {
		return nil, nil, fmt.Errorf("%w: file %q has no stored key", common.ErrKeyInvalid, slug)
	}

	payload, err := s.vault.Retrieve(ctx, file.StorageLocator, *file.DecryptionKey)
	if err != nil {
		return nil, nil, err
	}
	return payload, file, nil
}

// DeleteFile removes the catalog row, then the blob. The two deletions are
// not transactional: once the row is gone the file no longer exists for the
// user, and a failed blob delete only leaves an orphan in object storage.
func (s *Service) DeleteFile(ctx context.Context, ownerID uint, slug string) error {
	file, err := s.store.GetFileBySlug(ctx, ownerID, slug)
	if err != nil {
		return err
	}
	if err := s.store.DeleteFile(ctx, file); err != nil {
		return err
	}
	if err := s.vault.Delete(ctx, file.StorageLocator); err != nil {
		s.logger.WithError(err).WithField("locator", file.StorageLocator).
			Warn("failed to delete blob of removed file")
	}
	return nil
}

// ListFiles lists the files of one of the owner's folders with optional
// filter and sort order ("name" or "latest").
func (s *Service) ListFiles(ctx context.Context, ownerID uint, folderSlug, nameContains, sortBy string) ([]models.File, error) {
	folder, err := s.store.GetFolderBySlug(ctx, ownerID, folderSlug)
	if err != nil {
		return nil, err
	}
	return s.store.ListFiles(ctx, folder.ID, nameContains, sortBy)
}

// FileSize reports the size of the stored blob backing the file. Size is
// derived from the blob on demand, never persisted in the catalog.
func (s *Service) FileSize(ctx context.Context, ownerID uint, slug string) (int64, error) {
	file, err := s.store.GetFileBySlug(ctx, ownerID, slug)
	if err != nil {
		return 0, err
	}
	return s.vault.Size(ctx, file.StorageLocator)
}
