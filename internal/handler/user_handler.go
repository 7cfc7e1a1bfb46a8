package handler

import (
	"net/http"

	"gdsgames/backend/internal/apperr"
	"gdsgames/backend/internal/auth"
	"gdsgames/backend/internal/models"
	"gdsgames/backend/internal/response"
	"gdsgames/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username string `json:"username" binding:"required" example:"ana"`
	Email    string `json:"email" binding:"required" example:"ana@x.com"`
	Password string `json:"password" binding:"required" example:"senha123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"ana"`
	Password string `json:"password" binding:"required" example:"senha123"`
}

type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username" example:"ana"`
}

type LoginResponse struct {
	User models.UserView `json:"user"`
}

type MeResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *models.UserView `json:"user,omitempty"`
}

// endregion

// region --- Auth Handlers ---

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new account. Usernames are 3-20 letters, digits or underscores; passwords need 6 characters.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  response.Envelope{data=RegisterResponse}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Username or email already exists"
// @Router       /register [post]
func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.log.Printf("[Auth] registered user %s", user.Username)
	response.OK(c, http.StatusCreated, "user registered", RegisterResponse{UserID: user.ID, Username: user.Username})
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates with username or email and password and sets the session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  response.Envelope{data=LoginResponse}
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials or inactive account"
// @Router       /login [post]
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), input.Login, input.Password)
	if err != nil {
		// unknown logins look like wrong passwords
		if apperr.KindOf(err) == apperr.KindNotFound {
			err = store.ErrBadCredential
		}
		response.Error(c, err)
		return
	}

	if _, err := h.auth.StartSession(c, user.ID); err != nil {
		response.Error(c, apperr.Internal(err))
		return
	}

	response.OK(c, http.StatusOK, "login successful", LoginResponse{User: user})
}

// Logout godoc
// @Summary      Log out
// @Description  Invalidates the current session and clears the cookie. Safe to call when anonymous.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /logout [post]
func (h *Handler) Logout(c *gin.Context) {
	h.auth.EndSession(c)
	response.OK(c, http.StatusOK, "logged out", nil)
}

// Me godoc
// @Summary      Get current user's info
// @Description  Returns the session's user, or authenticated=false for anonymous callers.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Envelope{data=MeResponse}
// @Router       /me [get]
func (h *Handler) Me(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.OK(c, http.StatusOK, "anonymous", MeResponse{Authenticated: false})
		return
	}
	response.OK(c, http.StatusOK, "authenticated", MeResponse{Authenticated: true, User: user})
}

// endregion
