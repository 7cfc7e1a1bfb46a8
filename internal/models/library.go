package models

import "time"

// LibraryStatus describes how a user relates to a saved game.
type LibraryStatus string

const (
	StatusOwned     LibraryStatus = "owned"
	StatusWishlist  LibraryStatus = "wishlist"
	StatusPlaying   LibraryStatus = "playing"
	StatusCompleted LibraryStatus = "completed"
)

func (s LibraryStatus) Valid() bool {
	switch s {
	case StatusOwned, StatusWishlist, StatusPlaying, StatusCompleted:
		return true
	}
	return false
}

// LibraryEntry links a user to a saved game.
// The primary key is a composite of (UserID, GameID) to ensure uniqueness.
type LibraryEntry struct {
	UserID     string        `gorm:"primaryKey;size:36"`
	GameID     string        `gorm:"primaryKey;size:36;index"`
	Status     LibraryStatus `gorm:"type:varchar(20);not null;default:'owned'"`
	AddedAt    time.Time     `gorm:"not null;index"`
	LastPlayed *time.Time
	PlayTime   int64 `gorm:"not null;default:0"`

	User User `gorm:"foreignKey:UserID;references:ID"`
	Game Game `gorm:"foreignKey:GameID;references:ID"`
}

func (LibraryEntry) TableName() string {
	return "user_library"
}
