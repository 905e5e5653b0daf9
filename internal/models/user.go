package models

import (
	"gorm.io/gorm"
)

// User represents an account in the system. Email is the login identifier.
type User struct {
	gorm.Model

	Username  string `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email     string `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FirstName string `gorm:"size:255" json:"first_name"`
	LastName  string `gorm:"size:255" json:"last_name"`

	// Password holds the bcrypt hash, never the plaintext.
	Password string `gorm:"size:255" json:"-"`

	// IsAdmin marks the single administrator account. At most one user
	// may carry this flag; the accounts service enforces the rule before
	// insert.
	IsAdmin bool `gorm:"default:false" json:"is_admin"`
}

func (User) TableName() string {
	return "users"
}
