package router

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatStream(t *testing.T) {
	app := newTestApp(t)
	app.register("ana")
	cookie := app.login("ana")

	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/chat/stream", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")
	require.Eventually(t, func() bool { return app.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	rr, _ := app.do(http.MethodPost, "/api/chat/messages", gin.H{"message": "ao vivo"}, cookie)
	require.Equal(t, http.StatusCreated, rr.Code)

	lines := make(chan string, 64)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	var data string
	for data == "" {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed early")
			if strings.HasPrefix(line, "data:") {
				data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		case <-ctx.Done():
			t.Fatal("no event received")
		}
	}

	assert.Contains(t, data, `"type":"message:new"`)
	assert.Contains(t, data, `"message":"ao vivo"`)

	cancel()
	assert.Eventually(t, func() bool { return app.hub.Len() == 0 }, time.Second, 10*time.Millisecond)
}
