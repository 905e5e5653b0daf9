// Package store is the data access layer for user accounts.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/models"
)

// Store provides account queries over the relational database.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// CreateUser inserts a new account row. Duplicate email or username
// surfaces as gorm.ErrDuplicatedKey.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Create(user).Error
}

// GetUserByEmail looks up an account by its login email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %q", common.ErrNotFound, email)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID looks up an account by primary key.
func (s *Store) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminExists reports whether an administrator account is already present.
func (s *Store) AdminExists(ctx context.Context) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("is_admin = ?", true).
		Count(&count).Error
	return count > 0, err
}
