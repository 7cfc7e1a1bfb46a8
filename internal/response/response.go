// Package response writes the JSON envelope every API endpoint answers with.
package response

import (
	"log"
	"net/http"
	"time"

	"gdsgames/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message" example:"ok"`
	Data      interface{} `json:"data,omitempty"`
	Code      string      `json:"code,omitempty" example:"duplicate_username"`
	Timestamp time.Time   `json:"timestamp"`
}

func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// Error aborts the request with the envelope for err. Errors outside the
// apperr taxonomy are logged and reported as a generic internal error.
func Error(c *gin.Context, err error) {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		log.Printf("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(e.Kind.StatusCode(), Envelope{
		Success:   false,
		Message:   e.Message,
		Code:      e.Code,
		Timestamp: time.Now().UTC(),
	})
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(c *gin.Context, err error) {
	msg := "invalid request"
	if err != nil {
		msg = err.Error()
	}
	Error(c, apperr.Validation("bad_request", msg))
}

// Recovery turns a panic into a 500 envelope.
func Recovery(logger *log.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(logger.Writer(), func(c *gin.Context, recovered interface{}) {
		c.Header("Connection", "close")
		Error(c, apperr.Internal(nil))
	})
}

// NotFound answers unknown routes with the envelope.
func NotFound(c *gin.Context) {
	Error(c, apperr.NotFound("route_not_found", http.StatusText(http.StatusNotFound)))
}
