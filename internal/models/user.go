package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account that can author posts and follow others.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;not null;size:64" json:"username"`
	DisplayName string         `gorm:"size:128" json:"display_name"`
	AvatarURL   string         `json:"avatar_url"`
	Bio         string         `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// AuthorSnapshot is the denormalized author identity attached to feed items.
type AuthorSnapshot struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Snapshot returns the author view of u. An empty display name falls back to
// the username.
func (u *User) Snapshot() AuthorSnapshot {
	if u == nil {
		return AuthorSnapshot{}
	}
	name := u.DisplayName
	if name == "" {
		name = u.Username
	}
	return AuthorSnapshot{ID: u.ID, DisplayName: name, AvatarURL: u.AvatarURL}
}
