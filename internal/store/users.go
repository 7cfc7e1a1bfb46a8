package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gdsgames/backend/internal/apperr"
	"gdsgames/backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

type registration struct {
	Username string `validate:"required,username"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=6,max=72"`
}

// UserStore owns user records and credentials.
type UserStore struct {
	db       *gorm.DB
	cost     int
	validate *validator.Validate
}

func NewUserStore(db *gorm.DB, bcryptCost int) *UserStore {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserStore{db: db, cost: bcryptCost, validate: newValidator()}
}

func (s *UserStore) checkRegistration(r registration) error {
	err := s.validate.Struct(r)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return ErrInvalidFormat.Wrap(err)
	}
	var msg string
	switch verrs[0].Field() {
	case "Username":
		msg = "username must be 3-20 characters of letters, digits or underscore"
	case "Email":
		msg = "invalid email address"
	default:
		if verrs[0].Tag() == "max" {
			msg = "password must be at most 72 characters"
		} else {
			msg = "password must be at least 6 characters"
		}
	}
	return apperr.Validation(ErrInvalidFormat.Code, msg)
}

// Register creates an account and returns it as stored.
func (s *UserStore) Register(ctx context.Context, username, email, password string) (models.UserView, error) {
	r := registration{
		Username: strings.TrimSpace(username),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if err := s.checkRegistration(r); err != nil {
		return models.UserView{}, err
	}

	hash, err := s.hash(r.Password)
	if err != nil {
		return models.UserView{}, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.insert(ctx, &user); err != nil {
		return models.UserView{}, err
	}
	return user.View(), nil
}

func (s *UserStore) hash(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.Validation(ErrInvalidFormat.Code, "password is too long")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}
	return hash, nil
}

func (s *UserStore) insert(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateUsername
		}
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateEmail
		}
		return tx.Create(user).Error
	})
	switch {
	case err == nil:
		return nil
	case apperr.KindOf(err) == apperr.KindConflict:
		return err
	case isDuplicateKey(err):
		// lost a race with a concurrent registration
		return s.duplicateError(ctx, user, err)
	default:
		return apperr.Internal(err)
	}
}

// duplicateError tells which unique column a failed insert collided with.
// Username wins when both are taken, as in the pre-insert check.
func (s *UserStore) duplicateError(ctx context.Context, user *models.User, cause error) error {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", user.Username).Count(&n).Error
	if err != nil {
		return apperr.Internal(err)
	}
	if n > 0 {
		return ErrDuplicateUsername.Wrap(cause)
	}
	err = s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", user.Email).Count(&n).Error
	if err != nil {
		return apperr.Internal(err)
	}
	if n > 0 {
		return ErrDuplicateEmail.Wrap(cause)
	}
	return ErrDuplicateUsername.Wrap(cause)
}

// Authenticate verifies login (username or email) and password, and records
// the login time.
func (s *UserStore) Authenticate(ctx context.Context, login, password string) (models.UserView, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return models.UserView{}, ErrBadCredential
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&user).Error
	if isNotFound(err) {
		return models.UserView{}, ErrUserNotFound
	}
	if err != nil {
		return models.UserView{}, apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.UserView{}, ErrBadCredential
	}
	if !user.IsActive {
		return models.UserView{}, ErrInactive
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		return models.UserView{}, apperr.Internal(err)
	}
	user.LastLogin = &now

	return user.View(), nil
}

// GetUser returns an active user.
func (s *UserStore) GetUser(ctx context.Context, id string) (models.UserView, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if isNotFound(err) {
		return models.UserView{}, ErrUserNotFound
	}
	if err != nil {
		return models.UserView{}, apperr.Internal(err)
	}
	return user.View(), nil
}

// ListUsers returns every account, active or not, newest first.
func (s *UserStore) ListUsers(ctx context.Context, limit, offset int) ([]models.UserView, int64, error) {
	limit, offset = clampPage(limit, offset, 50)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err)
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("created_at DESC").Order("id").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}

	views := make([]models.UserView, len(users))
	for i, u := range users {
		views[i] = u.View()
	}
	return views, total, nil
}

func (s *UserStore) SetAdmin(ctx context.Context, id string, isAdmin bool) (models.UserView, error) {
	return s.setFlag(ctx, id, "is_admin", isAdmin)
}

// SetActive toggles soft deactivation. Callers are expected to drop the
// user's sessions when deactivating.
func (s *UserStore) SetActive(ctx context.Context, id string, isActive bool) (models.UserView, error) {
	return s.setFlag(ctx, id, "is_active", isActive)
}

func (s *UserStore) setFlag(ctx context.Context, id, column string, value bool) (models.UserView, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update(column, value).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&user).Error
	})
	if isNotFound(err) {
		return models.UserView{}, ErrUserNotFound
	}
	if err != nil {
		return models.UserView{}, apperr.Internal(err)
	}
	return user.View(), nil
}

// SeedAdmin creates the default admin account unless a user with that
// username already exists. It reports whether an account was created.
func (s *UserStore) SeedAdmin(ctx context.Context, username, email, password string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return false, apperr.Internal(err)
	}
	if n > 0 {
		return false, nil
	}

	r := registration{Username: username, Email: strings.ToLower(email), Password: password}
	if err := s.checkRegistration(r); err != nil {
		return false, err
	}
	hash, err := s.hash(password)
	if err != nil {
		return false, err
	}

	admin := models.User{
		ID:           uuid.NewString(),
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      true,
	}
	if err := s.insert(ctx, &admin); err != nil {
		return false, err
	}
	return true, nil
}
