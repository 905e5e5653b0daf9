package models

import "time"

// Folder groups the files a user has uploaded. Slug is derived from Name
// and is unique across all folders; the database index backs the slug
// allocation retry loop.
type Folder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null;size:120" json:"slug"`
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	Owner     *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	Files []*File `gorm:"foreignKey:FolderID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Folder) TableName() string {
	return "folders"
}
