package models

import (
	"gorm.io/gorm"
)

type Ingredient struct {
	gorm.Model
	WorldID string `gorm:"uniqueIndex;not null" json:"world_id"`
	Name    string `gorm:"not null" json:"name"`

	// --- Family Link ---
	// FamilyWorldID is a denormalized copy of the family's world identifier,
	// refreshed whenever the link is written. Safe because world identifiers
	// never change after creation.
	FamilyID      uint              `gorm:"not null;index" json:"family_id"`
	FamilyWorldID string            `gorm:"not null" json:"family_world_id"`
	Family        *IngredientFamily `gorm:"foreignKey:FamilyID" json:"family,omitempty"`

	Rarity      string `json:"rarity"`
	Description string `gorm:"type:text" json:"description"`
	ImagePath   string `json:"image_path"`

	Physical PhysicalProperties `gorm:"embedded;embeddedPrefix:physical_" json:"physical"`
	Gameplay GameplayProperties `gorm:"embedded;embeddedPrefix:gameplay_" json:"gameplay"`

	Molecules []CompositionEntry `gorm:"foreignKey:IngredientID" json:"molecules"`
}

// PhysicalProperties is the physical sub-record of an ingredient.
type PhysicalProperties struct {
	State     string  `json:"state"`
	Stability float64 `json:"stability"`
	Organic   bool    `json:"organic"`
}

// GameplayProperties is the gameplay sub-record of an ingredient.
type GameplayProperties struct {
	Value      float64 `json:"value"`
	Toxicity   float64 `json:"toxicity"`
	Volatility float64 `json:"volatility"`
}

// CompositionEntry names one candidate molecule of an ingredient's bill of
// composition together with its weight-percent range. The molecule reference
// is soft: a MoleculeWorldID with no matching Molecule record is accepted,
// since molecules may be authored after the ingredients citing them.
type CompositionEntry struct {
	gorm.Model
	IngredientID    uint    `gorm:"not null;index" json:"ingredient_id"`
	Position        int     `gorm:"not null" json:"position"`
	MoleculeWorldID string  `json:"molecule_world_id"`
	MoleculeName    string  `json:"molecule_name"`
	MinWtPercent    float64 `gorm:"not null" json:"min_wt_percent"`
	MaxWtPercent    float64 `gorm:"not null" json:"max_wt_percent"`
}
