package models

import "gorm.io/gorm"

// IngredientFamily groups ingredients under a designer-chosen world identifier.
// WorldID is immutable after creation; the denormalized copy stored on each
// Ingredient relies on that.
type IngredientFamily struct {
	gorm.Model
	WorldID     string `gorm:"uniqueIndex;not null" json:"world_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `json:"category"`
	ImagePath   string `json:"image_path"`
}
