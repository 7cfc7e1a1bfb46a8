package handler

import (
	"net/http"
	"strings"
	"time"

	"gdsgames/backend/internal/auth"
	"gdsgames/backend/internal/models"
	"gdsgames/backend/internal/response"
	"gdsgames/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type GameInput struct {
	Title       string `json:"title" binding:"required" example:"Super Mario"`
	Description string `json:"description" binding:"required" example:"Plataforma clássico"`
	Category    string `json:"category" binding:"required" example:"Aventura"`
	ImageURL    string `json:"image_url" binding:"required" example:"https://example.com/mario.png"`
	GameURL     string `json:"game_url" binding:"required" example:"https://example.com/mario"`
}

type GameResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CategoryID      uint      `json:"category_id"`
	CategoryName    string    `json:"category_name"`
	CategoryColor   string    `json:"category_color"`
	ImageURL        string    `json:"image_url"`
	GameURL         string    `json:"game_url"`
	AddedBy         string    `json:"added_by"`
	AddedByUsername string    `json:"added_by_username"`
	PlayCount       int64     `json:"play_count"`
	Rating          float64   `json:"rating"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newGameResponse(game models.Game) GameResponse {
	return GameResponse{
		ID:              game.ID,
		Title:           game.Title,
		Description:     game.Description,
		CategoryID:      game.CategoryID,
		CategoryName:    game.Category.Name,
		CategoryColor:   game.Category.Color,
		ImageURL:        game.ImageURL,
		GameURL:         game.GameURL,
		AddedBy:         game.AddedBy,
		AddedByUsername: game.Author.Username,
		PlayCount:       game.PlayCount,
		Rating:          game.Rating,
		CreatedAt:       game.CreatedAt,
		UpdatedAt:       game.UpdatedAt,
	}
}

type GameListResponse struct {
	Games    []GameResponse `json:"games"`
	Count    int            `json:"count"`
	Search   string         `json:"search"`
	Category string         `json:"category"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
}

type GameEnvelope struct {
	Game GameResponse `json:"game"`
}

type PlayResponse struct {
	GameURL   string `json:"game_url"`
	Title     string `json:"title"`
	PlayCount int64  `json:"play_count"`
}

type RatingInput struct {
	Rating int    `json:"rating" binding:"required" example:"5"`
	Review string `json:"review" example:"Muito bom"`
}

type RatingResponse struct {
	GameID  string  `json:"game_id"`
	Rating  int     `json:"rating"`
	Review  string  `json:"review"`
	Average float64 `json:"average"`
}

// endregion

// region --- Public Handlers ---

// GetGames godoc
// @Summary      List games
// @Description  Lists active games, newest first. A search matches title or description; title matches come first.
// @Tags         games
// @Produce      json
// @Param        search   query     string  false  "Search in title and description"
// @Param        category query     string  false  "Category name or slug"
// @Param        limit    query     int     false  "Max items (1-100)" default(20)
// @Param        offset   query     int     false  "Items to skip" default(0)
// @Success      200      {object}  response.Envelope{data=GameListResponse}
// @Router       /games [get]
func (h *Handler) GetGames(c *gin.Context) {
	filter := store.GameFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		Limit:    clampLimit(queryInt(c, "limit", defaultPageSize), defaultPageSize),
		Offset:   queryInt(c, "offset", 0),
	}

	games, err := h.catalog.ListGames(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]GameResponse, len(games))
	for i, g := range games {
		out[i] = newGameResponse(g)
	}

	response.OK(c, http.StatusOK, "games found", GameListResponse{
		Games:    out,
		Count:    len(out),
		Search:   filter.Search,
		Category: filter.Category,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

// GetGameByID godoc
// @Summary      Get a game
// @Tags         games
// @Produce      json
// @Param        id   path      string  true  "Game ID"
// @Success      200  {object}  response.Envelope{data=GameEnvelope}
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func (h *Handler) GetGameByID(c *gin.Context) {
	game, err := h.catalog.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "game found", GameEnvelope{Game: newGameResponse(game)})
}

// endregion

// region --- Authenticated Handlers ---

// CreateGame godoc
// @Summary      Add a game
// @Description  Adds a game to the catalog. The category must exist.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  response.Envelope{data=GameEnvelope}
// @Failure      400  {object}  ErrorResponse "Invalid fields or unknown category"
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Title already added by this user"
// @Router       /games [post]
func (h *Handler) CreateGame(c *gin.Context) {
	user, err := auth.Authorize(auth.CurrentUser(c), auth.Authenticated())
	if err != nil {
		response.Error(c, err)
		return
	}

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	game, err := h.catalog.AddGame(c.Request.Context(), store.NewGame{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		GameURL:     input.GameURL,
	}, user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.log.Printf("[Games] %s added %q", user.Username, game.Title)
	response.OK(c, http.StatusCreated, "game added", GameEnvelope{Game: newGameResponse(game)})
}

// PlayGame godoc
// @Summary      Play a game
// @Description  Counts a play, records it in the caller's library and returns the game URL.
// @Tags         games
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Game ID"
// @Success      200  {object}  response.Envelope{data=PlayResponse}
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/play [post]
func (h *Handler) PlayGame(c *gin.Context) {
	user, err := auth.Authorize(auth.CurrentUser(c), auth.Authenticated())
	if err != nil {
		response.Error(c, err)
		return
	}

	game, err := h.catalog.RecordPlay(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.library.TouchLibrary(c.Request.Context(), user.ID, game.ID); err != nil {
		h.log.Printf("[Games] failed to record play of %s for %s: %v", game.ID, user.ID, err)
	}

	response.OK(c, http.StatusOK, "play recorded", PlayResponse{
		GameURL:   game.GameURL,
		Title:     game.Title,
		PlayCount: game.PlayCount,
	})
}

// DeleteGame godoc
// @Summary      Remove a game
// @Description  Deactivates a game. Only its author or an admin may do this.
// @Tags         games
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Game ID"
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not the author"
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [delete]
func (h *Handler) DeleteGame(c *gin.Context) {
	caller := auth.CurrentUser(c)
	if _, err := auth.Authorize(caller, auth.Authenticated()); err != nil {
		response.Error(c, err)
		return
	}

	id := c.Param("id")
	owner, err := h.catalog.GameOwner(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := auth.Authorize(caller, auth.Owner(owner)); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.catalog.DeactivateGame(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	h.log.Printf("[Games] %s removed game %s", caller.Username, id)
	response.OK(c, http.StatusOK, "game removed", nil)
}

// RateGame godoc
// @Summary      Rate a game
// @Description  Sets the caller's 1-5 rating for a game, replacing an earlier one.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path  string       true  "Game ID"
// @Param        input body  RatingInput  true  "Rating"
// @Success      200  {object}  response.Envelope{data=RatingResponse}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/ratings [post]
func (h *Handler) RateGame(c *gin.Context) {
	user, err := auth.Authorize(auth.CurrentUser(c), auth.Authenticated())
	if err != nil {
		response.Error(c, err)
		return
	}

	var input RatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	rating, avg, err := h.catalog.RateGame(c.Request.Context(), user.ID, c.Param("id"), input.Rating, input.Review)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "rating saved", RatingResponse{
		GameID:  rating.GameID,
		Rating:  rating.Rating,
		Review:  rating.Review,
		Average: avg,
	})
}

// endregion
