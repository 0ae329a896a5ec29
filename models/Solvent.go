package models

import "gorm.io/gorm"

type Solvent struct {
	gorm.Model
	WorldID           string   `gorm:"uniqueIndex;not null" json:"world_id"`
	Name              string   `gorm:"not null" json:"name"`
	ActualSolventName string   `json:"actual_solvent_name"`
	SolventType       string   `json:"solvent_type"`
	Description       string   `gorm:"type:text" json:"description"`
	ImagePath         string   `json:"image_path"`
	PolarityIndex     *float64 `json:"polarity_index"`
	Volatility        *float64 `json:"volatility"`
	Toxicity          *float64 `json:"toxicity"`
	Flammability      *float64 `json:"flammability"`
	BoilingPoint      *float64 `json:"boiling_point"`
	FreezingPoint     *float64 `json:"freezing_point"`
	IsProtic          bool     `json:"is_protic"`
	IsExperimental    bool     `json:"is_experimental"`
}
