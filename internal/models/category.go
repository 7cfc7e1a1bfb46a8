package models

// Category groups games (e.g., "Ação", "RPG"). The set is seeded at first boot.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
	Color       string `gorm:"size:16;not null;default:'#6c5ce7'" json:"color"`
}
