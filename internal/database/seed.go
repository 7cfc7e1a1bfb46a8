package database

import (
	"fmt"

	"gdsgames/backend/internal/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCategories is the category set created on first boot.
var DefaultCategories = []models.Category{
	{Name: "Ação", Description: "Jogos de ação e aventura", Color: "#e74c3c"},
	{Name: "Aventura", Description: "Jogos de aventura e exploração", Color: "#3498db"},
	{Name: "Estratégia", Description: "Jogos de estratégia e planejamento", Color: "#9b59b6"},
	{Name: "Corrida", Description: "Jogos de corrida e velocidade", Color: "#f39c12"},
	{Name: "Puzzle", Description: "Jogos de quebra-cabeça e lógica", Color: "#2ecc71"},
	{Name: "RPG", Description: "Jogos de interpretação de papéis", Color: "#e67e22"},
	{Name: "Esporte", Description: "Jogos esportivos", Color: "#1abc9c"},
	{Name: "Simulação", Description: "Jogos de simulação", Color: "#34495e"},
}

// SeedCategories inserts the default categories once. A database that
// already holds categories is left untouched.
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	categories := make([]models.Category, len(DefaultCategories))
	for i, c := range DefaultCategories {
		c.Slug = slug.Make(c.Name)
		categories[i] = c
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}
