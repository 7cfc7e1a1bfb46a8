package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Game represents a catalog entry added by a user.
type Game struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Title       string    `gorm:"size:255;not null;index"`
	Description string    `gorm:"not null"`
	CategoryID  uint      `gorm:"not null;index"`
	ImageURL    string    `gorm:"size:1024;not null"`
	GameURL     string    `gorm:"size:1024;not null"`
	AddedBy     string    `gorm:"size:36;not null;index"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
	IsActive    bool    `gorm:"not null;default:true;index"`
	PlayCount   int64   `gorm:"not null;default:0"`
	Rating      float64 `gorm:"not null;default:0"`

	// Lowercased copies used for search; SQLite LOWER folds ASCII only.
	TitleSearch       string `gorm:"size:255;not null;default:'';index"`
	DescriptionSearch string `gorm:"not null;default:''"`

	Category Category `gorm:"foreignKey:CategoryID"`
	Author   User     `gorm:"foreignKey:AddedBy"`
}

// BeforeCreate fills the search columns.
func (g *Game) BeforeCreate(tx *gorm.DB) error {
	g.FoldSearch()
	return nil
}

func (g *Game) FoldSearch() {
	g.TitleSearch = strings.ToLower(g.Title)
	g.DescriptionSearch = strings.ToLower(g.Description)
}

// GameRating is a single user's score for a game.
// The unique index on (UserID, GameID) keeps one rating per pair.
type GameRating struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"size:36;not null;uniqueIndex:idx_rating_user_game"`
	GameID    string `gorm:"size:36;not null;uniqueIndex:idx_rating_user_game;index"`
	Rating    int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Review    string
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
	Game Game `gorm:"foreignKey:GameID"`
}
