package models

import "gorm.io/gorm"

// Molecule is a catalog record describing one chemical species of the game
// world. Bounded numeric properties (polarity, hydrogen bonding, stability,
// reactivity) live on a 0-100 scale and are nullable: an absent value is
// distinct from zero and falls back to a documented default where consumed.
type Molecule struct {
	gorm.Model
	WorldID            string   `gorm:"uniqueIndex;not null" json:"world_id"`
	Name               string   `gorm:"not null" json:"name"`
	ActualMoleculeName string   `json:"actual_molecule_name"`
	Description        string   `gorm:"type:text" json:"description"`
	ImageURL           string   `json:"image_url"`
	MolarMass          *float64 `json:"molar_mass"`
	MeltingPoint       *float64 `json:"melting_point"`
	BoilingPoint       *float64 `json:"boiling_point"`
	PolarityAffinity   *float64 `json:"polarity_affinity"`
	HydrogenBonding    *float64 `json:"hydrogen_bonding"`
	IonicType          string   `json:"ionic_type"`
	Stability          *float64 `json:"stability"`
	Reactivity         *float64 `json:"reactivity"`
	Rarity             string   `json:"rarity"`
	Known              bool     `json:"known"`
	Smell              string   `json:"smell"`
	Color              string   `json:"color"`
	Taste              string   `json:"taste"`

	// FunctionalGroups is curated by hand only. Bulk import always resets it
	// to empty so an import can never clobber curator-maintained tags.
	FunctionalGroups []FunctionalGroup `gorm:"foreignKey:MoleculeID" json:"functional_groups"`
}

// FunctionalGroup holds one curated tag on a Molecule. Position preserves the
// curator's insertion order for display.
type FunctionalGroup struct {
	gorm.Model
	MoleculeID uint   `gorm:"not null;index" json:"molecule_id"`
	Position   int    `gorm:"not null" json:"position"`
	Tag        string `gorm:"not null" json:"tag"`
}
