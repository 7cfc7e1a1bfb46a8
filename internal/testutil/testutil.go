// Package testutil provides in-memory database fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"gdsgames/backend/internal/config"
	"gdsgames/backend/internal/database"
	"gdsgames/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const Password = "senha123"

// NewDB returns a migrated in-memory SQLite database with the default
// categories seeded.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DriverSQLite, ":memory:", logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedCategories(db))
	t.Cleanup(func() { _ = database.Close(db) })

	return db
}

// CreateUser inserts an active user whose password is Password.
func CreateUser(t testing.TB, db *gorm.DB, username string, admin bool) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@gds.test",
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      admin,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateGame inserts an active game in the first seeded category.
func CreateGame(t testing.TB, db *gorm.DB, authorID, title, description string) models.Game {
	t.Helper()

	var category models.Category
	require.NoError(t, db.Order("id").First(&category).Error)

	game := models.Game{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		CategoryID:  category.ID,
		ImageURL:    "https://img.gds.test/" + title + ".png",
		GameURL:     "https://play.gds.test/" + title,
		AddedBy:     authorID,
		IsActive:    true,
		// distinct timestamps keep newest-first ordering deterministic
		CreatedAt: time.Now().UTC().Add(time.Duration(gameSeq(db)) * time.Millisecond),
	}
	require.NoError(t, db.Omit(clause.Associations).Create(&game).Error)
	return game
}

func gameSeq(db *gorm.DB) int64 {
	var n int64
	db.Model(&models.Game{}).Count(&n)
	return n
}
