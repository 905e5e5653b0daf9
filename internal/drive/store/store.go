// Package store is the data access layer for the file catalog: folder and
// file metadata rows, their uniqueness checks, and the list/search/sort
// queries the drive service exposes.
package store

import "gorm.io/gorm"

// Sort orders accepted by the listing queries.
const (
	SortByName   = "name"
	SortByDate   = "date"
	SortByLatest = "latest"
)

// Store provides catalog queries over the relational database.
type Store struct {
	DB *gorm.DB
}

// NewStore creates a Store on top of an established GORM handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}
