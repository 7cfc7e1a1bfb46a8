package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gdsgames/backend/internal/models"
	"gdsgames/backend/internal/response"
	"gdsgames/backend/internal/session"
	"gdsgames/backend/internal/store"
	"gdsgames/backend/internal/testutil"
	"gdsgames/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) GetUser(ctx context.Context, id string) (models.UserView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.UserView), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuthority(t *testing.T, users UserLookup) (*Authority, *session.Manager) {
	sessions := session.NewManager(time.Hour, testutil.TestLogger(t))
	return NewAuthority(sessions, users, testSecret, false), sessions
}

// newRouter mounts a /whoami endpoint behind the optional middleware plus the
// given guard.
func newRouter(a *Authority, guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(a.OptionalAuthMiddleware())
	handlers := append(guards, func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.OK(c, http.StatusOK, "anonymous", nil)
			return
		}
		response.OK(c, http.StatusOK, user.Username, nil)
	})
	r.GET("/whoami", handlers...)
	return r
}

func whoami(t *testing.T, r *gin.Engine, setup func(*http.Request)) (int, string) {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if setup != nil {
		setup(req)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr.Code, env.Message
}

func TestStartSession_SetsCookie(t *testing.T) {
	users := &MockUserLookup{}
	defer users.AssertExpectations(t)
	a, sessions := newTestAuthority(t, users)

	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/login", nil)

	token, err := a.StartSession(c, "ana")
	require.NoError(t, err)
	assert.Equal(t, 1, sessions.Len())

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, "/", cookies[0].Path)

	sid, err := jwt.ParseToken(token, []byte(testSecret))
	require.NoError(t, err)
	s, ok := sessions.Lookup(sid)
	require.True(t, ok)
	assert.Equal(t, "ana", s.UserID)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	ana := models.UserView{ID: "ana-id", Username: "ana"}

	t.Run("cookie resolves user", func(t *testing.T) {
		users := &MockUserLookup{}
		defer users.AssertExpectations(t)
		users.On("GetUser", mock.Anything, "ana-id").Return(ana, nil).Once()

		a, sessions := newTestAuthority(t, users)
		s := sessions.Create("ana-id")
		token, err := jwt.GenerateToken(s.ID, []byte(testSecret), s.ExpiresAt)
		require.NoError(t, err)

		code, msg := whoami(t, newRouter(a), func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ana", msg)
	})

	t.Run("bearer token resolves user", func(t *testing.T) {
		users := &MockUserLookup{}
		defer users.AssertExpectations(t)
		users.On("GetUser", mock.Anything, "ana-id").Return(ana, nil).Once()

		a, sessions := newTestAuthority(t, users)
		s := sessions.Create("ana-id")
		token, err := jwt.GenerateToken(s.ID, []byte(testSecret), s.ExpiresAt)
		require.NoError(t, err)

		_, msg := whoami(t, newRouter(a), func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		})
		assert.Equal(t, "ana", msg)
	})

	anonymousCases := []struct {
		name  string
		token func(a *Authority, sessions *session.Manager) string
	}{
		{"no token", func(*Authority, *session.Manager) string { return "" }},
		{"garbage", func(*Authority, *session.Manager) string { return "garbage" }},
		{"forged signature", func(_ *Authority, sessions *session.Manager) string {
			s := sessions.Create("ana-id")
			token, _ := jwt.GenerateToken(s.ID, []byte("attacker"), s.ExpiresAt)
			return token
		}},
		{"unknown session", func(*Authority, *session.Manager) string {
			token, _ := jwt.GenerateToken("not-a-session", []byte(testSecret), time.Now().Add(time.Hour))
			return token
		}},
		{"invalidated session", func(_ *Authority, sessions *session.Manager) string {
			s := sessions.Create("ana-id")
			token, _ := jwt.GenerateToken(s.ID, []byte(testSecret), s.ExpiresAt)
			sessions.Invalidate(s.ID)
			return token
		}},
		{"expired token", func(_ *Authority, sessions *session.Manager) string {
			s := sessions.Create("ana-id")
			token, _ := jwt.GenerateToken(s.ID, []byte(testSecret), time.Now().Add(-time.Minute))
			return token
		}},
	}

	for _, tt := range anonymousCases {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUserLookup{}
			defer users.AssertExpectations(t)

			a, sessions := newTestAuthority(t, users)
			token := tt.token(a, sessions)

			code, msg := whoami(t, newRouter(a), func(r *http.Request) {
				if token != "" {
					r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
				}
			})
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, "anonymous", msg)
			users.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
		})
	}

	t.Run("inactive user is anonymous", func(t *testing.T) {
		users := &MockUserLookup{}
		defer users.AssertExpectations(t)
		users.On("GetUser", mock.Anything, "ana-id").Return(models.UserView{}, store.ErrUserNotFound).Once()

		a, sessions := newTestAuthority(t, users)
		s := sessions.Create("ana-id")
		token, err := jwt.GenerateToken(s.ID, []byte(testSecret), s.ExpiresAt)
		require.NoError(t, err)

		_, msg := whoami(t, newRouter(a), func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		})
		assert.Equal(t, "anonymous", msg)
	})
}

func TestGuards(t *testing.T) {
	ana := models.UserView{ID: "ana-id", Username: "ana"}
	admin := models.UserView{ID: "admin-id", Username: "admin", IsAdmin: true}

	tests := []struct {
		name     string
		guard    gin.HandlerFunc
		user     *models.UserView
		wantCode int
	}{
		{"auth anonymous", AuthMiddleware(), nil, http.StatusUnauthorized},
		{"auth user", AuthMiddleware(), &ana, http.StatusOK},
		{"admin anonymous", AdminMiddleware(), nil, http.StatusUnauthorized},
		{"admin regular user", AdminMiddleware(), &ana, http.StatusForbidden},
		{"admin admin", AdminMiddleware(), &admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUserLookup{}
			defer users.AssertExpectations(t)
			a, sessions := newTestAuthority(t, users)

			var token string
			if tt.user != nil {
				users.On("GetUser", mock.Anything, tt.user.ID).Return(*tt.user, nil).Once()
				s := sessions.Create(tt.user.ID)
				var err error
				token, err = jwt.GenerateToken(s.ID, []byte(testSecret), s.ExpiresAt)
				require.NoError(t, err)
			}

			code, _ := whoami(t, newRouter(a, tt.guard), func(r *http.Request) {
				if token != "" {
					r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
				}
			})
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestEndSession(t *testing.T) {
	users := &MockUserLookup{}
	a, sessions := newTestAuthority(t, users)
	s := sessions.Create("ana-id")
	token, err := jwt.GenerateToken(s.ID, []byte(testSecret), s.ExpiresAt)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: token})

	a.EndSession(c)

	_, ok := sessions.Lookup(s.ID)
	assert.False(t, ok)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)

	// ending again is harmless
	assert.NotPanics(t, func() { a.EndSession(c) })
}

func TestInvalidateUser(t *testing.T) {
	a, sessions := newTestAuthority(t, &MockUserLookup{})
	sessions.Create("ana-id")
	sessions.Create("ana-id")

	assert.Equal(t, 2, a.InvalidateUser("ana-id"))
	assert.Zero(t, sessions.Len())
}
