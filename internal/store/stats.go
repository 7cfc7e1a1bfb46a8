package store

import (
	"context"

	"gdsgames/backend/internal/apperr"
	"gdsgames/backend/internal/models"
)

type PopularGame struct {
	Title     string `json:"title"`
	PlayCount int64  `json:"play_count"`
}

type Stats struct {
	TotalUsers    int64        `json:"total_users"`
	TotalGames    int64        `json:"total_games"`
	TotalMessages int64        `json:"total_messages"`
	PopularGame   *PopularGame `json:"popular_game"`
}

// Stats summarizes active users, active games, visible chat messages and the
// most played game.
func (s *CatalogStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&st.TotalUsers).Error; err != nil {
		return Stats{}, apperr.Internal(err)
	}
	if err := db.Model(&models.Game{}).Where("is_active = ?", true).Count(&st.TotalGames).Error; err != nil {
		return Stats{}, apperr.Internal(err)
	}
	if err := db.Model(&models.ChatMessage{}).Count(&st.TotalMessages).Error; err != nil {
		return Stats{}, apperr.Internal(err)
	}

	var top models.Game
	err := db.Select("title", "play_count").
		Where("is_active = ?", true).
		Order("play_count DESC").Order("created_at").
		First(&top).Error
	switch {
	case err == nil:
		st.PopularGame = &PopularGame{Title: top.Title, PlayCount: top.PlayCount}
	case isNotFound(err):
	default:
		return Stats{}, apperr.Internal(err)
	}

	return st, nil
}
