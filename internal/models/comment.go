package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a remark attached to an entry. Comments are created and deleted
// but never updated in place, and they cannot outlive their entry.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	EntryID   uint           `gorm:"not null;index" json:"entryId"`
	Entry     Entry          `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"-"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	UserEmail string         `gorm:"not null;index" json:"userEmail"`
	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
