package store

import (
	"context"
	"strings"

	"gdsgames/backend/internal/apperr"
	"gdsgames/backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameFilter narrows ListGames. Zero values mean no filter.
type GameFilter struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}

// NewGame carries the user-supplied fields of a game. Category is a category
// name or slug.
type NewGame struct {
	Title       string `validate:"required,max=255"`
	Description string `validate:"required"`
	Category    string `validate:"required"`
	ImageURL    string `validate:"required,link,max=1024"`
	GameURL     string `validate:"required,link,max=1024"`
}

// CatalogStore owns games, categories and ratings.
type CatalogStore struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db, validate: newValidator()}
}

func (s *CatalogStore) withGameRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Category").Preload("Author")
}

// ListGames returns active games, newest first. A search matches title or
// description case-insensitively and ranks title matches first. An unknown
// category yields no games.
func (s *CatalogStore) ListGames(ctx context.Context, f GameFilter) ([]models.Game, error) {
	limit, offset := clampPage(f.Limit, f.Offset, 20)

	q := s.withGameRelations(s.db.WithContext(ctx)).Where("games.is_active = ?", true)

	if c := strings.TrimSpace(f.Category); c != "" {
		category, err := s.FindCategory(ctx, c)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindValidation {
				return []models.Game{}, nil
			}
			return nil, err
		}
		q = q.Where("games.category_id = ?", category.ID)
	}

	order := clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: "games", Name: "created_at"}, Desc: true},
		{Column: clause.Column{Table: "games", Name: "id"}, Desc: true},
	}}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := likePattern(search)
		q = q.Where(`(games.title_search LIKE ? ESCAPE '\' OR games.description_search LIKE ? ESCAPE '\')`, pattern, pattern)
		order = clause.OrderBy{Expression: clause.Expr{
			SQL:                `CASE WHEN games.title_search LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, games.created_at DESC, games.id DESC`,
			Vars:               []interface{}{pattern},
			WithoutParentheses: true,
		}}
	}

	var games []models.Game
	err := q.Order(order).
		Limit(limit).Offset(offset).
		Find(&games).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return games, nil
}

// GetGame returns an active game with its category and author.
func (s *CatalogStore) GetGame(ctx context.Context, id string) (models.Game, error) {
	var game models.Game
	err := s.withGameRelations(s.db.WithContext(ctx)).
		Where("games.id = ? AND games.is_active = ?", id, true).
		First(&game).Error
	if isNotFound(err) {
		return models.Game{}, ErrGameNotFound
	}
	if err != nil {
		return models.Game{}, apperr.Internal(err)
	}
	return game, nil
}

// AddGame stores a game authored by authorID. The category must already
// exist.
func (s *CatalogStore) AddGame(ctx context.Context, in NewGame, authorID string) (models.Game, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.GameURL = strings.TrimSpace(in.GameURL)

	if err := s.validate.Struct(in); err != nil {
		return models.Game{}, ErrInvalidFields.Wrap(err)
	}

	category, err := s.FindCategory(ctx, in.Category)
	if err != nil {
		return models.Game{}, err
	}

	game := models.Game{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  category.ID,
		ImageURL:    in.ImageURL,
		GameURL:     in.GameURL,
		AddedBy:     authorID,
		IsActive:    true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&models.Game{}).
			Where("added_by = ? AND title_search = ?", authorID, strings.ToLower(in.Title)).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateGame
		}
		if err := tx.Omit(clause.Associations).Create(&game).Error; err != nil {
			return err
		}
		return s.withGameRelations(tx).Where("games.id = ?", game.ID).First(&game).Error
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return models.Game{}, err
		}
		return models.Game{}, apperr.Internal(err)
	}
	return game, nil
}

// RecordPlay counts one play of an active game and returns the updated game.
func (s *CatalogStore) RecordPlay(ctx context.Context, id string) (models.Game, error) {
	res := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ? AND is_active = ?", id, true).
		UpdateColumn("play_count", gorm.Expr("play_count + ?", 1))
	if res.Error != nil {
		return models.Game{}, apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Game{}, ErrGameNotFound
	}
	return s.GetGame(ctx, id)
}

// DeactivateGame hides a game from every listing. Library entries and
// ratings are kept.
func (s *CatalogStore) DeactivateGame(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

// FindCategory matches a category by case-insensitive name or by slug.
func (s *CatalogStore) FindCategory(ctx context.Context, nameOrSlug string) (models.Category, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return models.Category{}, err
	}
	want := slug.Make(nameOrSlug)
	for _, c := range categories {
		if strings.EqualFold(c.Name, nameOrSlug) || (want != "" && c.Slug == want) {
			return c, nil
		}
	}
	return models.Category{}, ErrInvalidCategory
}

// RateGame records userID's rating of an active game, replacing an earlier
// one, and refreshes the game's average.
func (s *CatalogStore) RateGame(ctx context.Context, userID, gameID string, rating int, review string) (models.GameRating, float64, error) {
	if rating < 1 || rating > 5 {
		return models.GameRating{}, 0, ErrInvalidRating
	}

	var (
		saved models.GameRating
		avg   float64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Game{}).Where("id = ? AND is_active = ?", gameID, true).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrGameNotFound
		}

		row := models.GameRating{
			UserID: userID,
			GameID: gameID,
			Rating: rating,
			Review: strings.TrimSpace(review),
		}
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "game_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "review"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		if err := tx.Model(&models.GameRating{}).
			Select("COALESCE(AVG(rating), 0)").
			Where("game_id = ?", gameID).
			Scan(&avg).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Game{}).Where("id = ?", gameID).UpdateColumn("rating", avg).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND game_id = ?", userID, gameID).First(&saved).Error
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return models.GameRating{}, 0, err
		}
		return models.GameRating{}, 0, apperr.Internal(err)
	}
	return saved, avg, nil
}

// GameOwner returns the author id of a game, active or not.
func (s *CatalogStore) GameOwner(ctx context.Context, id string) (string, error) {
	var game models.Game
	err := s.db.WithContext(ctx).Select("id", "added_by").Where("id = ?", id).First(&game).Error
	if isNotFound(err) {
		return "", ErrGameNotFound
	}
	if err != nil {
		return "", apperr.Internal(err)
	}
	return game.AddedBy, nil
}
