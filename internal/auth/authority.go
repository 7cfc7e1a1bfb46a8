package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gdsgames/backend/internal/models"
	"gdsgames/backend/internal/session"
	"gdsgames/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const CookieName = "gds_session"

// UserLookup returns an active user by id.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (models.UserView, error)
}

// Authority issues session cookies and resolves them back to users.
type Authority struct {
	sessions     *session.Manager
	users        UserLookup
	secret       []byte
	secureCookie bool
}

func NewAuthority(sessions *session.Manager, users UserLookup, secret string, secureCookie bool) *Authority {
	return &Authority{
		sessions:     sessions,
		users:        users,
		secret:       []byte(secret),
		secureCookie: secureCookie,
	}
}

// StartSession creates a session for userID, sets the session cookie and
// returns the signed token.
func (a *Authority) StartSession(c *gin.Context, userID string) (string, error) {
	s := a.sessions.Create(userID)

	token, err := jwt.GenerateToken(s.ID, a.secret, s.ExpiresAt)
	if err != nil {
		a.sessions.Invalidate(s.ID)
		return "", fmt.Errorf("sign session token: %w", err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(time.Until(s.ExpiresAt).Seconds()), "/", "", a.secureCookie, true)

	return token, nil
}

// EndSession invalidates the caller's session, if any, and clears the cookie.
func (a *Authority) EndSession(c *gin.Context) {
	if sid, err := jwt.ParseToken(tokenFromRequest(c), a.secret); err == nil {
		a.sessions.Invalidate(sid)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", a.secureCookie, true)
}

// Resolve maps a token to its active user. Any failure resolves to anonymous.
func (a *Authority) Resolve(ctx context.Context, token string) (models.UserView, bool) {
	if token == "" {
		return models.UserView{}, false
	}
	sid, err := jwt.ParseToken(token, a.secret)
	if err != nil {
		return models.UserView{}, false
	}
	s, ok := a.sessions.Lookup(sid)
	if !ok {
		return models.UserView{}, false
	}
	user, err := a.users.GetUser(ctx, s.UserID)
	if err != nil {
		return models.UserView{}, false
	}
	return user, true
}

// InvalidateUser drops every session of userID.
func (a *Authority) InvalidateUser(userID string) int {
	return a.sessions.InvalidateUser(userID)
}

// tokenFromRequest reads the session cookie, falling back to a bearer token.
func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(CookieName); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return ""
}
