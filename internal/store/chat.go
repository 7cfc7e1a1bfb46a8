package store

import (
	"context"
	"strings"
	"unicode/utf8"

	"gdsgames/backend/internal/apperr"
	"gdsgames/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const MaxMessageLength = 1000

// ChatStore owns community chat messages. Deletion is soft.
type ChatStore struct {
	db *gorm.DB
}

func NewChatStore(db *gorm.DB) *ChatStore {
	return &ChatStore{db: db}
}

// PostMessage stores a trimmed message and returns it with its author.
func (s *ChatStore) PostMessage(ctx context.Context, userID, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return models.ChatMessage{}, ErrMessageTooLong
	}

	msg := models.ChatMessage{UserID: userID, Message: text}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&msg).Error; err != nil {
			return err
		}
		return tx.Preload("User").First(&msg, msg.ID).Error
	})
	if err != nil {
		return models.ChatMessage{}, apperr.Internal(err)
	}
	return msg, nil
}

// ListMessages returns the newest limit visible messages in ascending order.
func (s *ChatStore) ListMessages(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	limit, _ = clampPage(limit, 0, 50)

	var messages []models.ChatMessage
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetMessage returns a visible message.
func (s *ChatStore) GetMessage(ctx context.Context, id uint) (models.ChatMessage, error) {
	var msg models.ChatMessage
	err := s.db.WithContext(ctx).Preload("User").First(&msg, id).Error
	if isNotFound(err) {
		return models.ChatMessage{}, ErrMessageNotFound
	}
	if err != nil {
		return models.ChatMessage{}, apperr.Internal(err)
	}
	return msg, nil
}

// DeleteMessage hides a message from listings. Ownership is checked by the
// caller.
func (s *ChatStore) DeleteMessage(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.ChatMessage{}, id)
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
