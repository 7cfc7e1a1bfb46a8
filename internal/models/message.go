package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatMessage represents a community chat post. Deletion is soft: gorm sets
// DeletedAt and excludes the row from every default-scoped query.
type ChatMessage struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    string         `gorm:"size:36;not null;index"`
	Message   string         `gorm:"not null"`
	CreatedAt time.Time      `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	User User `gorm:"foreignKey:UserID"`
}
