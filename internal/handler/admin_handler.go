package handler

import (
	"net/http"

	"gdsgames/backend/internal/apperr"
	"gdsgames/backend/internal/auth"
	"gdsgames/backend/internal/models"
	"gdsgames/backend/internal/response"

	"github.com/gin-gonic/gin"
)

type AdminFlagInput struct {
	IsAdmin *bool `json:"is_admin" binding:"required" example:"true"`
}

type ActiveFlagInput struct {
	IsActive *bool `json:"is_active" binding:"required" example:"false"`
}

// PaginatedUserResponse defines the structure for a paginated list of users.
type PaginatedUserResponse struct {
	Data []models.UserView `json:"data"`
	Meta PaginationMeta    `json:"meta"`
}

var errSelfChange = apperr.Validation("self_change", "admins cannot change their own flags")

// ListUsers godoc
// @Summary      List users
// @Description  Lists every account, including deactivated ones, newest first.
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        limit  query  int  false  "Items per page (1-100)" default(20)
// @Param        offset query  int  false  "Items to skip" default(0)
// @Success      200  {object}  response.Envelope{data=PaginatedUserResponse}
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	limit := clampLimit(queryInt(c, "limit", defaultPageSize), defaultPageSize)
	offset := queryInt(c, "offset", 0)

	users, total, err := h.users.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "users found", NewPaginatedResponse(users, total, limit, offset))
}

// SetUserAdmin godoc
// @Summary      Grant or revoke admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path  string          true  "User ID"
// @Param        input body  AdminFlagInput  true  "Flag"
// @Success      200  {object}  response.Envelope{data=models.UserView}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /admin/users/{id}/admin [put]
func (h *Handler) SetUserAdmin(c *gin.Context) {
	caller, err := auth.Authorize(auth.CurrentUser(c), auth.Admin())
	if err != nil {
		response.Error(c, err)
		return
	}

	var input AdminFlagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	id := c.Param("id")
	if id == caller.ID {
		response.Error(c, errSelfChange)
		return
	}

	user, err := h.users.SetAdmin(c.Request.Context(), id, *input.IsAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.log.Printf("[Admin] %s set is_admin=%t on %s", caller.Username, user.IsAdmin, user.Username)
	response.OK(c, http.StatusOK, "user updated", user)
}

// SetUserActive godoc
// @Summary      Activate or deactivate a user
// @Description  Deactivated users cannot log in and their sessions end immediately.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path  string           true  "User ID"
// @Param        input body  ActiveFlagInput  true  "Flag"
// @Success      200  {object}  response.Envelope{data=models.UserView}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /admin/users/{id}/active [put]
func (h *Handler) SetUserActive(c *gin.Context) {
	caller, err := auth.Authorize(auth.CurrentUser(c), auth.Admin())
	if err != nil {
		response.Error(c, err)
		return
	}

	var input ActiveFlagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	id := c.Param("id")
	if id == caller.ID {
		response.Error(c, errSelfChange)
		return
	}

	user, err := h.users.SetActive(c.Request.Context(), id, *input.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !user.IsActive {
		n := h.auth.InvalidateUser(user.ID)
		h.log.Printf("[Admin] %s deactivated %s, %d sessions ended", caller.Username, user.Username, n)
	}

	response.OK(c, http.StatusOK, "user updated", user)
}
