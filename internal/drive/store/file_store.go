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

// CreateFile inserts a new file row. A per-owner slug collision surfaces as
// gorm.ErrDuplicatedKey.
func (s *Store) CreateFile(ctx context.Context, file *models.File) error {
	return s.DB.WithContext(ctx).Create(file).Error
}

// GetFileBySlug looks up one file owned by ownerID.
func (s *Store) GetFileBySlug(ctx context.Context, ownerID uint, slug string) (*models.File, error) {
	var file models.File
	err := s.DB.WithContext(ctx).
		Where("owner_id = ? AND slug = ?", ownerID, slug).
		First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: file %q", common.ErrNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// FileSlugExists reports whether the owner already has a file with the
// slug. File slugs are unique per owner, not globally.
func (s *Store) FileSlugExists(ctx context.Context, ownerID uint, slug string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.File{}).
		Where("owner_id = ? AND slug = ?", ownerID, slug).
		Count(&count).Error
	return count > 0, err
}

// ListFiles returns the files in one folder. nameContains filters by
// case-insensitive substring match; sortBy is SortByName (case-insensitive
// ascending) or SortByLatest (newest first).
func (s *Store) ListFiles(ctx context.Context, folderID uint, nameContains, sortBy string) ([]models.File, error) {
	q := s.DB.WithContext(ctx).Where("folder_id = ?", folderID)

	if nameContains != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameContains)+"%")
	}

	switch sortBy {
	case SortByName:
		q = q.Order("LOWER(name) ASC")
	case SortByLatest:
		q = q.Order("created_at DESC")
	default:
		q = q.Order("id ASC")
	}

	var files []models.File
	if err := q.Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// DeleteFile removes one file row.
func (s *Store) DeleteFile(ctx context.Context, file *models.File) error {
	return s.DB.WithContext(ctx).Delete(file).Error
}
