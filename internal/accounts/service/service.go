// Package service holds the accounts business logic: registration with the
// single-administrator rule, and login with JWT issuance.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/accounts/store"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/models"
)

// Service implements account operations and acts as the identity provider
// for the drive: a verified login yields a signed token whose subject is
// the user id every drive operation trusts.
type Service struct {
	store     *store.Store
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewService wires a Service from its dependencies.
func NewService(s *store.Store, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		store:     s,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a new account with a bcrypt-hashed password. At most one
// administrator account may exist in the system; attempting to register a
// second one fails validation.
func (s *Service) Register(ctx context.Context, username, email, firstName, lastName, password string, isAdmin bool) (*models.User, error) {
	if isAdmin {
		exists, err := s.store.AdminExists(ctx)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: only one administrator account is allowed", common.ErrValidation)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  string(hashed),
		IsAdmin:   isAdmin,
	}

	err = s.store.CreateUser(ctx, user)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("%w: email or username is already registered", common.ErrValidation)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns a signed JWT. The same
// ErrInvalidCredentials is returned for an unknown email and a wrong
// password.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return "", common.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", common.ErrInvalidCredentials
	}

	return s.generateJWT(user.ID)
}

func (s *Service) generateJWT(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": "encrypteddrive",
		"exp": now.Add(s.tokenTTL).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
