package response

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"gdsgames/backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	var env Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestOK(t *testing.T) {
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)

	OK(c, http.StatusCreated, "created", gin.H{"id": 1})

	assert.Equal(t, http.StatusCreated, rr.Code)
	env := decode(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, "created", env.Message)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, env.Data)
	assert.False(t, env.Timestamp.IsZero())
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperr.Validation("invalid_format", "bad"), http.StatusBadRequest, "invalid_format"},
		{"conflict", apperr.Conflict("duplicate_username", "taken"), http.StatusConflict, "duplicate_username"},
		{"not found", apperr.NotFound("game_not_found", "missing"), http.StatusNotFound, "game_not_found"},
		{"auth", apperr.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"plain error", errors.New("db exploded"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			Error(c, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.True(t, c.IsAborted())
			env := decode(t, rr)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.NotContains(t, env.Message, "db exploded")
		})
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(log.New(io.Discard, "", 0)))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
	env := decode(t, rr)
	assert.False(t, env.Success)
	assert.Equal(t, "internal", env.Code)
}
