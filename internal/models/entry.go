// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Feeling is an optional mood/activity tag attached to an entry.
type Feeling struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// Entry represents a single journal record.
//
// MediaURLs preserves insertion order and permits duplicates. Once an entry
// is persisted every element is a server-issued file URL, never a
// locally-scoped blob reference.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null;default:''" json:"title"`
	Content   string    `gorm:"type:text;not null;default:''" json:"content"`
	MediaURLs []string  `gorm:"serializer:json;type:text" json:"mediaUrls"`
	Feeling   *Feeling  `gorm:"serializer:json;type:text" json:"feeling"`
	Location  *string   `json:"location"`
	Sensitive bool      `gorm:"not null;default:false" json:"sensitive"`
	UserEmail string    `gorm:"not null;index" json:"userEmail"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeEmail lower-cases and trims an owner email. Every read/write
// boundary that touches UserEmail goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
