package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"gdsgames/backend/internal/auth"
	"gdsgames/backend/internal/models"
	"gdsgames/backend/internal/response"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type LibraryInput struct {
	Status models.LibraryStatus `json:"status" example:"owned"`
}

type LibraryEntryResponse struct {
	GameResponse
	Status     models.LibraryStatus `json:"status"`
	AddedAt    time.Time            `json:"added_at"`
	LastPlayed *time.Time           `json:"last_played,omitempty"`
	PlayTime   int64                `json:"play_time"`
}

func newLibraryEntryResponse(entry models.LibraryEntry) LibraryEntryResponse {
	return LibraryEntryResponse{
		GameResponse: newGameResponse(entry.Game),
		Status:       entry.Status,
		AddedAt:      entry.AddedAt,
		LastPlayed:   entry.LastPlayed,
		PlayTime:     entry.PlayTime,
	}
}

type LibraryResponse struct {
	Games []LibraryEntryResponse `json:"games"`
	Count int                    `json:"count"`
}

type LibraryStatusResponse struct {
	GameID string               `json:"game_id"`
	Status models.LibraryStatus `json:"status"`
}

// endregion

func (h *Handler) writeLibrary(c *gin.Context, userID string) {
	entries, err := h.library.ListLibrary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]LibraryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = newLibraryEntryResponse(e)
	}
	response.OK(c, http.StatusOK, "library found", LibraryResponse{Games: out, Count: len(out)})
}

func (h *Handler) removeFromLibrary(c *gin.Context, userID string) {
	if err := h.library.RemoveFromLibrary(c.Request.Context(), userID, c.Param("game_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "game removed from library", nil)
}

// region --- Own Library Handlers ---

// GetLibrary godoc
// @Summary      Get my library
// @Description  Lists the caller's saved games, most recently added first.
// @Tags         library
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  response.Envelope{data=LibraryResponse}
// @Failure      401  {object}  ErrorResponse
// @Router       /library [get]
func (h *Handler) GetLibrary(c *gin.Context) {
	user, err := auth.Authorize(auth.CurrentUser(c), auth.Authenticated())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.writeLibrary(c, user.ID)
}

// AddToLibrary godoc
// @Summary      Save a game
// @Description  Adds a game to the caller's library. Status defaults to owned; adding twice is a conflict.
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        game_id path  string        true   "Game ID"
// @Param        input   body  LibraryInput  false  "Status"
// @Success      201  {object}  response.Envelope{data=LibraryStatusResponse}
// @Failure      400  {object}  ErrorResponse "Invalid status"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Failure      409  {object}  ErrorResponse "Already in library"
// @Router       /library/{game_id} [post]
func (h *Handler) AddToLibrary(c *gin.Context) {
	user, err := auth.Authorize(auth.CurrentUser(c), auth.Authenticated())
	if err != nil {
		response.Error(c, err)
		return
	}

	var input LibraryInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err)
		return
	}

	entry, err := h.library.AddToLibrary(c.Request.Context(), user.ID, c.Param("game_id"), input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "game added to library", LibraryStatusResponse{GameID: entry.GameID, Status: entry.Status})
}

// UpdateLibraryEntry godoc
// @Summary      Change a saved game's status
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        game_id path  string        true  "Game ID"
// @Param        input   body  LibraryInput  true  "Status"
// @Success      200  {object}  response.Envelope{data=LibraryStatusResponse}
// @Failure      400  {object}  ErrorResponse "Invalid status"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not in library"
// @Router       /library/{game_id} [put]
func (h *Handler) UpdateLibraryEntry(c *gin.Context) {
	user, err := auth.Authorize(auth.CurrentUser(c), auth.Authenticated())
	if err != nil {
		response.Error(c, err)
		return
	}

	var input LibraryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	entry, err := h.library.UpdateLibraryStatus(c.Request.Context(), user.ID, c.Param("game_id"), input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "library updated", LibraryStatusResponse{GameID: entry.GameID, Status: entry.Status})
}

// RemoveFromLibrary godoc
// @Summary      Remove a saved game
// @Tags         library
// @Produce      json
// @Security     SessionCookie
// @Param        game_id path  string  true  "Game ID"
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not in library"
// @Router       /library/{game_id} [delete]
func (h *Handler) RemoveFromLibrary(c *gin.Context) {
	user, err := auth.Authorize(auth.CurrentUser(c), auth.Authenticated())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.removeFromLibrary(c, user.ID)
}

// endregion

// region --- Per-User Library Handlers ---

// GetUserLibrary godoc
// @Summary      Get a user's library
// @Description  Only the owner or an admin may read it.
// @Tags         library
// @Produce      json
// @Security     SessionCookie
// @Param        user_id path  string  true  "User ID"
// @Success      200  {object}  response.Envelope{data=LibraryResponse}
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /users/{user_id}/library [get]
func (h *Handler) GetUserLibrary(c *gin.Context) {
	owner := c.Param("user_id")
	if _, err := auth.Authorize(auth.CurrentUser(c), auth.Owner(owner)); err != nil {
		response.Error(c, err)
		return
	}
	h.writeLibrary(c, owner)
}

// RemoveFromUserLibrary godoc
// @Summary      Remove a game from a user's library
// @Description  Only the owner or an admin may do this. Non-owners are refused before the entry is looked up.
// @Tags         library
// @Produce      json
// @Security     SessionCookie
// @Param        user_id path  string  true  "User ID"
// @Param        game_id path  string  true  "Game ID"
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not in library"
// @Router       /users/{user_id}/library/{game_id} [delete]
func (h *Handler) RemoveFromUserLibrary(c *gin.Context) {
	owner := c.Param("user_id")
	if _, err := auth.Authorize(auth.CurrentUser(c), auth.Owner(owner)); err != nil {
		response.Error(c, err)
		return
	}
	h.removeFromLibrary(c, owner)
}

// endregion
