package models

import (
	"time"
)

// User represents an account. Users are never hard-deleted; IsActive is
// cleared instead so historical games, ratings and messages keep their author.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"size:20;uniqueIndex;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	IsActive     bool   `gorm:"not null;default:true;index"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	ProfileImage string `gorm:"size:512"`
	Bio          string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// UserView is the credential-free projection of a User handed to callers.
type UserView struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	IsAdmin      bool       `json:"is_admin"`
	IsActive     bool       `json:"is_active"`
	ProfileImage string     `json:"profile_image,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func (u User) View() UserView {
	return UserView{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		IsAdmin:      u.IsAdmin,
		IsActive:     u.IsActive,
		ProfileImage: u.ProfileImage,
		Bio:          u.Bio,
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}
