package store

import (
	"context"
	"time"

	"gdsgames/backend/internal/apperr"
	"gdsgames/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LibraryStore owns the per-user game library.
type LibraryStore struct {
	db *gorm.DB
}

func NewLibraryStore(db *gorm.DB) *LibraryStore {
	return &LibraryStore{db: db}
}

func activeGameExists(tx *gorm.DB, gameID string) (bool, error) {
	var n int64
	err := tx.Model(&models.Game{}).Where("id = ? AND is_active = ?", gameID, true).Count(&n).Error
	return n > 0, err
}

// AddToLibrary saves an active game to userID's library. An empty status
// means owned. Adding a game twice is an error.
func (s *LibraryStore) AddToLibrary(ctx context.Context, userID, gameID string, status models.LibraryStatus) (models.LibraryEntry, error) {
	if status == "" {
		status = models.StatusOwned
	}
	if !status.Valid() {
		return models.LibraryEntry{}, ErrInvalidStatus
	}

	entry := models.LibraryEntry{
		UserID:  userID,
		GameID:  gameID,
		Status:  status,
		AddedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := activeGameExists(tx, gameID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrGameNotFound
		}

		var n int64
		if err := tx.Model(&models.LibraryEntry{}).Where("user_id = ? AND game_id = ?", userID, gameID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyInLibrary
		}
		return tx.Omit(clause.Associations).Create(&entry).Error
	})
	switch {
	case err == nil:
		return entry, nil
	case apperr.KindOf(err) != apperr.KindInternal:
		return models.LibraryEntry{}, err
	case isDuplicateKey(err):
		return models.LibraryEntry{}, ErrAlreadyInLibrary.Wrap(err)
	default:
		return models.LibraryEntry{}, apperr.Internal(err)
	}
}

// RemoveFromLibrary deletes an entry. Ownership is checked by the caller.
func (s *LibraryStore) RemoveFromLibrary(ctx context.Context, userID, gameID string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Delete(&models.LibraryEntry{})
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ListLibrary returns userID's entries for active games, most recently
// added first.
func (s *LibraryStore) ListLibrary(ctx context.Context, userID string) ([]models.LibraryEntry, error) {
	var entries []models.LibraryEntry
	err := s.db.WithContext(ctx).
		Joins("JOIN games ON games.id = user_library.game_id AND games.is_active = ?", true).
		Preload("Game.Category").
		Preload("Game.Author").
		Where("user_library.user_id = ?", userID).
		Order("user_library.added_at DESC").
		Order("user_library.game_id").
		Find(&entries).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}

func (s *LibraryStore) UpdateLibraryStatus(ctx context.Context, userID, gameID string, status models.LibraryStatus) (models.LibraryEntry, error) {
	if !status.Valid() {
		return models.LibraryEntry{}, ErrInvalidStatus
	}

	var entry models.LibraryEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND game_id = ?", userID, gameID).First(&entry).Error; err != nil {
			return err
		}
		if err := tx.Model(&entry).Update("status", status).Error; err != nil {
			return err
		}
		entry.Status = status
		return nil
	})
	if isNotFound(err) {
		return models.LibraryEntry{}, ErrEntryNotFound
	}
	if err != nil {
		return models.LibraryEntry{}, apperr.Internal(err)
	}
	return entry, nil
}

// TouchLibrary records a play of gameID by userID: the game is added to the
// library when missing and last_played is set.
func (s *LibraryStore) TouchLibrary(ctx context.Context, userID, gameID string) error {
	now := time.Now().UTC()
	entry := models.LibraryEntry{
		UserID:     userID,
		GameID:     gameID,
		Status:     models.StatusOwned,
		AddedAt:    now,
		LastPlayed: &now,
	}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_played"}),
	}).Create(&entry).Error
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
