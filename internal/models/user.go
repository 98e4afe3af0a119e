package models

import (
	"time"
)

// User holds the server-side credential backing the sensitive-entry gate.
// The journal itself is keyed by email; this row only exists so that
// POST /api/verify-password has something to check against.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	LockPasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
