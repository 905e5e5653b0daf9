package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/models"
)

// CreateFolder inserts a new folder row. A slug collision with a concurrent
// writer surfaces as gorm.ErrDuplicatedKey; the service retries allocation
// in that case.
func (s *Store) CreateFolder(ctx context.Context, folder *models.Folder) error {
	return s.DB.WithContext(ctx).Create(folder).Error
}

// GetFolderBySlug looks up one folder owned by ownerID.
func (s *Store) GetFolderBySlug(ctx context.Context, ownerID uint, slug string) (*models.Folder, error) {
	var folder models.Folder
	err := s.DB.WithContext(ctx).
		Where("owner_id = ? AND slug = ?", ownerID, slug).
		First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: folder %q", common.ErrNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// FolderSlugExists reports whether any folder, regardless of owner, already
// uses the slug. Folder slugs are globally unique.
func (s *Store) FolderSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.Folder{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// ListFolders returns the folders owned by ownerID. nameContains filters by
// case-insensitive substring match; sortBy is SortByName (case-insensitive
// ascending) or SortByDate (newest first).
func (s *Store) ListFolders(ctx context.Context, ownerID uint, nameContains, sortBy string) ([]models.Folder, error) {
	q := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID)

	if nameContains != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameContains)+"%")
	}

	switch sortBy {
	case SortByName:
		q = q.Order("LOWER(name) ASC")
	case SortByDate:
		q = q.Order("created_at DESC")
	default:
		q = q.Order("id ASC")
	}

	var folders []models.Folder
	if err := q.Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// DeleteFolderWithFiles removes the folder row and every contained file row
// in one transaction, returning the removed file rows so the caller can
// clean up the underlying blobs. Blob deletion is deliberately outside the
// transaction; the relational store cannot roll back object storage.
func (s *Store) DeleteFolderWithFiles(ctx context.Context, folder *models.Folder) ([]models.File, error) {
	var files []models.File

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("folder_id = ?", folder.ID).Find(&files).Error; err != nil {
			return err
		}
		if err := tx.Where("folder_id = ?", folder.ID).Delete(&models.File{}).Error; err != nil {
			return err
		}
		return tx.Delete(folder).Error
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
