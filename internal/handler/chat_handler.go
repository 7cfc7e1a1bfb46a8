package handler

import (
	"net/http"
	"strconv"
	"time"

	"gdsgames/backend/internal/apperr"
	"gdsgames/backend/internal/auth"
	"gdsgames/backend/internal/hub"
	"gdsgames/backend/internal/models"
	"gdsgames/backend/internal/response"

	"github.com/gin-gonic/gin"
)

const streamBuffer = 16

// region --- DTOs ---

type MessageInput struct {
	Message string `json:"message" example:"Olá pessoal!"`
}

type MessageResponse struct {
	ID        uint      `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func newMessageResponse(msg models.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		UserID:    msg.UserID,
		Username:  msg.User.Username,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
	}
}

type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
	Count    int               `json:"count"`
}

type MessageEnvelope struct {
	Message MessageResponse `json:"message"`
}

// endregion

// GetMessages godoc
// @Summary      Recent chat messages
// @Description  Returns the newest messages in chronological order.
// @Tags         chat
// @Produce      json
// @Param        limit query  int  false  "Max messages (1-100)" default(50)
// @Success      200  {object}  response.Envelope{data=MessageListResponse}
// @Router       /chat/messages [get]
func (h *Handler) GetMessages(c *gin.Context) {
	messages, err := h.chat.ListMessages(c.Request.Context(), clampLimit(queryInt(c, "limit", 50), 50))
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]MessageResponse, len(messages))
	for i, m := range messages {
		out[i] = newMessageResponse(m)
	}
	response.OK(c, http.StatusOK, "messages found", MessageListResponse{Messages: out, Count: len(out)})
}

// PostMessage godoc
// @Summary      Send a chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        input body MessageInput true "Message"
// @Success      201  {object}  response.Envelope{data=MessageEnvelope}
// @Failure      400  {object}  ErrorResponse "Empty or too long"
// @Failure      401  {object}  ErrorResponse
// @Router       /chat/messages [post]
func (h *Handler) PostMessage(c *gin.Context) {
	user, err := auth.Authorize(auth.CurrentUser(c), auth.Authenticated())
	if err != nil {
		response.Error(c, err)
		return
	}

	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	msg, err := h.chat.PostMessage(c.Request.Context(), user.ID, input.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := newMessageResponse(msg)
	h.broadcast(hub.Event{Type: hub.EventMessageNew, Payload: out})
	response.OK(c, http.StatusCreated, "message sent", MessageEnvelope{Message: out})
}

// DeleteMessage godoc
// @Summary      Delete a chat message
// @Description  Hides a message. Only its author or an admin may do this.
// @Tags         chat
// @Produce      json
// @Security     SessionCookie
// @Param        id   path  int  true  "Message ID"
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Message not found"
// @Router       /chat/messages/{id} [delete]
func (h *Handler) DeleteMessage(c *gin.Context) {
	caller := auth.CurrentUser(c)
	if _, err := auth.Authorize(caller, auth.Authenticated()); err != nil {
		response.Error(c, err)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, apperr.Validation("invalid_id", "invalid message id"))
		return
	}

	msg, err := h.chat.GetMessage(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := auth.Authorize(caller, auth.Owner(msg.UserID)); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.chat.DeleteMessage(c.Request.Context(), msg.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.broadcast(hub.Event{Type: hub.EventMessageDeleted, Payload: gin.H{"id": msg.ID}})
	response.OK(c, http.StatusOK, "message deleted", nil)
}

// StreamChat godoc
// @Summary      Chat event stream
// @Description  Server-Sent Events carrying message:new and message:deleted events as JSON.
// @Tags         chat
// @Produce      text/event-stream
// @Success      200  {string}  string  "event stream"
// @Router       /chat/stream [get]
func (h *Handler) StreamChat(c *gin.Context) {
	client := hub.NewClient(streamBuffer)
	h.hub.Subscribe(client)
	defer h.hub.Unsubscribe(client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case msg, ok := <-client:
			if !ok {
				return
			}
			c.SSEvent("message", string(msg))
			c.Writer.Flush()
		}
	}
}

func (h *Handler) broadcast(event hub.Event) {
	if err := h.hub.Broadcast(event); err != nil {
		h.log.Printf("[Chat] broadcast failed: %v", err)
	}
}
