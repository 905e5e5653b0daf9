package models

import "time"

// File is the catalog row for one encrypted blob. Slug is derived from Name
// and is unique per owner, not globally: two users may both have a file
// slugged "report". The composite unique index backs the allocation retry
// loop.
//
// The row holds the only reference to the blob's decryption key; deleting
// the row makes the ciphertext permanently unrecoverable.
type File struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OwnerID  uint    `gorm:"index:idx_files_owner_slug,unique;not null" json:"owner_id"`
	FolderID uint    `gorm:"index;not null" json:"folder_id"`
	Folder   *Folder `gorm:"foreignKey:FolderID;constraint:OnDelete:CASCADE" json:"-"`

	Name string `gorm:"not null;size:100" json:"name"`
	Slug string `gorm:"index:idx_files_owner_slug,unique;not null;size:120" json:"slug"`

	// StorageLocator is the opaque reference to the ciphertext in the
	// blob backing store.
	StorageLocator string `gorm:"not null;size:255" json:"-"`

	// Decrypted marks that a decryption key is on record for the blob,
	// i.e. the file can be recovered. Informational only; no code path
	// keys off it.
	Decrypted bool `gorm:"default:false" json:"decrypted"`

	// DecryptionKey is the urlsafe-base64 encoded symmetric key for the
	// blob at StorageLocator.
	DecryptionKey *string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (File) TableName() string {
	return "files"
}
