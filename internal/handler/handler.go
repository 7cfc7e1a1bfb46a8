package handler

import (
	"log"
	"strconv"

	"gdsgames/backend/internal/auth"
	"gdsgames/backend/internal/hub"
	"gdsgames/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler serves the REST API on top of the stores.
type Handler struct {
	users   *store.UserStore
	catalog *store.CatalogStore
	library *store.LibraryStore
	chat    *store.ChatStore
	auth    *auth.Authority
	hub     *hub.Hub
	log     *log.Logger
}

type Deps struct {
	Users   *store.UserStore
	Catalog *store.CatalogStore
	Library *store.LibraryStore
	Chat    *store.ChatStore
	Auth    *auth.Authority
	Hub     *hub.Hub
	Log     *log.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		users:   d.Users,
		catalog: d.Catalog,
		library: d.Library,
		chat:    d.Chat,
		auth:    d.Auth,
		hub:     d.Hub,
		log:     d.Log,
	}
}

// ErrorResponse documents the failure envelope.
type ErrorResponse struct {
	Success   bool   `json:"success" example:"false"`
	Message   string `json:"message" example:"An error message"`
	Code      string `json:"code" example:"validation"`
	Timestamp string `json:"timestamp" example:"2025-01-01T00:00:00Z"`
}

// queryInt reads a non-negative integer query parameter, falling back to def.
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}
