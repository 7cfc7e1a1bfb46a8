package store

import (
	"context"
	"testing"

	"gdsgames/backend/internal/apperr"
	"gdsgames/backend/internal/models"
	"gdsgames/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGame(title string) NewGame {
	return NewGame{
		Title:       title,
		Description: "Um jogo de teste",
		Category:    "RPG",
		ImageURL:    "https://img.gds.test/x.png",
		GameURL:     "https://play.gds.test/x",
	}
}

func TestAddGame(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewCatalogStore(db)
	author := testutil.CreateUser(t, db, "ana", false)

	game, err := s.AddGame(ctx, validGame("Zelda"), author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zelda", game.Title)
	assert.Equal(t, "RPG", game.Category.Name)
	assert.Equal(t, "ana", game.Author.Username)
	assert.True(t, game.IsActive)
	assert.Zero(t, game.PlayCount)
}

func TestAddGame_CategoryMatching(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewCatalogStore(db)
	author := testutil.CreateUser(t, db, "ana", false)

	for i, category := range []string{"rpg", "ação", "ACAO", "simulacao"} {
		in := validGame("Game " + string(rune('A'+i)))
		in.Category = category
		_, err := s.AddGame(ctx, in, author.ID)
		assert.NoError(t, err, category)
	}
}

func TestAddGame_Invalid(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewCatalogStore(db)
	author := testutil.CreateUser(t, db, "ana", false)

	in := validGame("Zelda")
	in.Category = "Foo"
	_, err := s.AddGame(ctx, in, author.ID)
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	in = validGame("  ")
	_, err = s.AddGame(ctx, in, author.ID)
	assert.ErrorIs(t, err, ErrInvalidFields)

	in = validGame("Zelda")
	in.GameURL = "not a url"
	_, err = s.AddGame(ctx, in, author.ID)
	assert.ErrorIs(t, err, ErrInvalidFields)

	var n int64
	db.Model(&models.Game{}).Count(&n)
	assert.Zero(t, n, "no row inserted")
}

func TestAddGame_DuplicateTitleSameAuthor(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewCatalogStore(db)
	ana := testutil.CreateUser(t, db, "ana", false)
	bia := testutil.CreateUser(t, db, "bia", false)

	_, err := s.AddGame(ctx, validGame("Zelda"), ana.ID)
	require.NoError(t, err)

	_, err = s.AddGame(ctx, validGame("zelda"), ana.ID)
	assert.ErrorIs(t, err, ErrDuplicateGame)

	_, err = s.AddGame(ctx, validGame("Zelda"), bia.ID)
	assert.NoError(t, err)
}

func TestListGames(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewCatalogStore(db)
	author := testutil.CreateUser(t, db, "ana", false)

	first := testutil.CreateGame(t, db, author.ID, "Mario", "plataforma com cogumelos")
	second := testutil.CreateGame(t, db, author.ID, "Tetris", "blocos caindo, parecido com zelda")
	third := testutil.CreateGame(t, db, author.ID, "The Legend of ZELDA", "aventura")
	hidden := testutil.CreateGame(t, db, author.ID, "Zelda II", "antigo")
	require.NoError(t, s.DeactivateGame(ctx, hidden.ID))

	t.Run("newest first", func(t *testing.T) {
		games, err := s.ListGames(ctx, GameFilter{})
		require.NoError(t, err)
		require.Len(t, games, 3)
		assert.Equal(t, third.ID, games[0].ID)
		assert.Equal(t, second.ID, games[1].ID)
		assert.Equal(t, first.ID, games[2].ID)
	})

	t.Run("search ranks title matches first", func(t *testing.T) {
		games, err := s.ListGames(ctx, GameFilter{Search: "Zelda"})
		require.NoError(t, err)
		require.Len(t, games, 2)
		assert.Equal(t, third.ID, games[0].ID)
		assert.Equal(t, second.ID, games[1].ID)
	})

	t.Run("search escapes wildcards", func(t *testing.T) {
		games, err := s.ListGames(ctx, GameFilter{Search: "%"})
		require.NoError(t, err)
		assert.Empty(t, games)
	})

	t.Run("pagination", func(t *testing.T) {
		page1, err := s.ListGames(ctx, GameFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		page2, err := s.ListGames(ctx, GameFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.Equal(t, first.ID, page2[0].ID)

		again, err := s.ListGames(ctx, GameFilter{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, page1[0].ID, again[0].ID)
		assert.Equal(t, page1[1].ID, again[1].ID)
	})

	t.Run("category filter", func(t *testing.T) {
		games, err := s.ListGames(ctx, GameFilter{Category: "acao"})
		require.NoError(t, err)
		assert.Len(t, games, 3)

		games, err = s.ListGames(ctx, GameFilter{Category: "Puzzle"})
		require.NoError(t, err)
		assert.Empty(t, games)

		games, err = s.ListGames(ctx, GameFilter{Category: "Foo"})
		require.NoError(t, err)
		assert.Empty(t, games)
	})
}

func TestListGames_AccentedSearch(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewCatalogStore(db)
	author := testutil.CreateUser(t, db, "ana", false)

	upper := testutil.CreateGame(t, db, author.ID, "AÇÃO TOTAL", "tiroteio")
	lower := testutil.CreateGame(t, db, author.ID, "ação total dois", "sequência")
	byDescription := testutil.CreateGame(t, db, author.ID, "Corrida", "muita AÇÃO na pista")

	for _, query := range []string{"ação", "AÇÃO", "Ação"} {
		t.Run(query, func(t *testing.T) {
			games, err := s.ListGames(ctx, GameFilter{Search: query})
			require.NoError(t, err)
			require.Len(t, games, 3)
			assert.Equal(t, lower.ID, games[0].ID)
			assert.Equal(t, upper.ID, games[1].ID)
			assert.Equal(t, byDescription.ID, games[2].ID)
		})
	}
}

func TestAddGame_DuplicateAccentedTitle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewCatalogStore(db)
	ana := testutil.CreateUser(t, db, "ana", false)

	_, err := s.AddGame(ctx, validGame("épico"), ana.ID)
	require.NoError(t, err)

	_, err = s.AddGame(ctx, validGame("ÉPICO"), ana.ID)
	assert.ErrorIs(t, err, ErrDuplicateGame)
}

func TestRecordPlay(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewCatalogStore(db)
	author := testutil.CreateUser(t, db, "ana", false)
	game := testutil.CreateGame(t, db, author.ID, "Mario", "plataforma")

	for i := 1; i <= 3; i++ {
		updated, err := s.RecordPlay(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i), updated.PlayCount)
	}

	_, err := s.RecordPlay(ctx, "missing")
	assert.ErrorIs(t, err, ErrGameNotFound)

	require.NoError(t, s.DeactivateGame(ctx, game.ID))
	_, err = s.RecordPlay(ctx, game.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestDeactivateGame(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewCatalogStore(db)
	author := testutil.CreateUser(t, db, "ana", false)
	game := testutil.CreateGame(t, db, author.ID, "Mario", "plataforma")

	owner, err := s.GameOwner(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, owner)

	require.NoError(t, s.DeactivateGame(ctx, game.ID))
	_, err = s.GetGame(ctx, game.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)

	assert.ErrorIs(t, s.DeactivateGame(ctx, game.ID), ErrGameNotFound)
}

func TestListCategories(t *testing.T) {
	s := NewCatalogStore(testutil.NewDB(t))

	categories, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 8)
	for i := 1; i < len(categories); i++ {
		assert.LessOrEqual(t, categories[i-1].Name, categories[i].Name)
	}
}

func TestRateGame(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewCatalogStore(db)
	ana := testutil.CreateUser(t, db, "ana", false)
	bia := testutil.CreateUser(t, db, "bia", false)
	game := testutil.CreateGame(t, db, ana.ID, "Mario", "plataforma")

	_, avg, err := s.RateGame(ctx, ana.ID, game.ID, 5, "ótimo")
	require.NoError(t, err)
	assert.Equal(t, 5.0, avg)

	_, avg, err = s.RateGame(ctx, bia.ID, game.ID, 2, "")
	require.NoError(t, err)
	assert.Equal(t, 3.5, avg)

	// a second rating by the same user replaces the first
	rating, avg, err := s.RateGame(ctx, ana.ID, game.ID, 4, "bom")
	require.NoError(t, err)
	assert.Equal(t, 4, rating.Rating)
	assert.Equal(t, "bom", rating.Review)
	assert.Equal(t, 3.0, avg)

	var rows int64
	db.Model(&models.GameRating{}).Where("game_id = ?", game.ID).Count(&rows)
	assert.Equal(t, int64(2), rows)

	stored, err := s.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stored.Rating)

	_, _, err = s.RateGame(ctx, ana.ID, game.ID, 6, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, _, err = s.RateGame(ctx, ana.ID, "missing", 3, "")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewCatalogStore(db)
	chat := NewChatStore(db)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.TotalUsers)
	assert.Nil(t, st.PopularGame)

	ana := testutil.CreateUser(t, db, "ana", false)
	mario := testutil.CreateGame(t, db, ana.ID, "Mario", "plataforma")
	testutil.CreateGame(t, db, ana.ID, "Tetris", "blocos")
	_, err = s.RecordPlay(ctx, mario.ID)
	require.NoError(t, err)

	msg, err := chat.PostMessage(ctx, ana.ID, "oi")
	require.NoError(t, err)
	_, err = chat.PostMessage(ctx, ana.ID, "tchau")
	require.NoError(t, err)
	require.NoError(t, chat.DeleteMessage(ctx, msg.ID))

	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.TotalUsers)
	assert.Equal(t, int64(2), st.TotalGames)
	assert.Equal(t, int64(1), st.TotalMessages)
	require.NotNil(t, st.PopularGame)
	assert.Equal(t, "Mario", st.PopularGame.Title)
	assert.Equal(t, int64(1), st.PopularGame.PlayCount)
}
