package handler

import (
	"net/http"

	"gdsgames/backend/internal/models"
	"gdsgames/backend/internal/response"

	"github.com/gin-gonic/gin"
)

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func newCategoryResponse(category models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Color:       category.Color,
	}
}

// GetCategories godoc
// @Summary      Get all categories
// @Description  Retrieves every game category ordered by name.
// @Tags         categories
// @Produce      json
// @Success      200  {object}  response.Envelope{data=[]CategoryResponse}
// @Router       /categories [get]
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		out[i] = newCategoryResponse(category)
	}
	response.OK(c, http.StatusOK, "categories found", out)
}

// GetStats godoc
// @Summary      Site statistics
// @Description  Active users, active games, visible chat messages and the most played game.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  response.Envelope{data=store.Stats}
// @Router       /stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.catalog.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "system statistics", stats)
}
