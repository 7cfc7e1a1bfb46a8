package store

import (
	"errors"
	"strings"

	"gdsgames/backend/internal/apperr"

	"gorm.io/gorm"
)

var (
	ErrDuplicateUsername = apperr.Conflict("duplicate_username", "username already taken")
	ErrDuplicateEmail    = apperr.Conflict("duplicate_email", "email already registered")
	ErrInvalidFormat     = apperr.Validation("invalid_format", "invalid registration data")
	ErrUserNotFound      = apperr.NotFound("user_not_found", "user not found")
	ErrBadCredential     = apperr.New(apperr.KindAuth, "bad_credential", "invalid credentials")
	ErrInactive          = apperr.New(apperr.KindAuth, "inactive_account", "account is inactive")

	ErrGameNotFound    = apperr.NotFound("game_not_found", "game not found")
	ErrInvalidCategory = apperr.Validation("invalid_category", "category does not exist")
	ErrInvalidFields   = apperr.Validation("invalid_fields", "missing or invalid game fields")
	ErrDuplicateGame   = apperr.Conflict("duplicate_game", "you already added a game with this title")
	ErrInvalidRating   = apperr.Validation("invalid_rating", "rating must be between 1 and 5")

	ErrAlreadyInLibrary = apperr.Conflict("already_exists", "game already in library")
	ErrEntryNotFound    = apperr.NotFound("library_entry_not_found", "game not in library")
	ErrInvalidStatus    = apperr.Validation("invalid_status", "invalid library status")

	ErrEmptyMessage    = apperr.Validation("empty_message", "message cannot be empty")
	ErrMessageTooLong  = apperr.Validation("message_too_long", "message too long")
	ErrMessageNotFound = apperr.NotFound("message_not_found", "message not found")
)

// isDuplicateKey reports whether err is a unique constraint violation. Drivers
// without an error translator still mention the constraint in the message.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

// clampPage bounds limit to [1, 100] with def for non-positive input, and
// offset to >= 0.
func clampPage(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

const MaxPageSize = 100
