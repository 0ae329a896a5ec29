package catalog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"chemworld/models"
)

// exportVersion tags the snapshot schema.
const exportVersion = 1

var nowFunc = time.Now

// ExportMeta describes one snapshot.
type ExportMeta struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
}

// ExportPayload is the full-catalog snapshot: one array per entity type,
// internal bookkeeping stripped, keys matching the bulk-import format so a
// snapshot can be re-imported.
type ExportPayload struct {
	Meta               ExportMeta         `json:"meta"`
	IngredientFamilies []FamilyExport     `json:"ingredientFamilies"`
	Ingredients        []IngredientExport `json:"ingredients"`
	Molecules          []MoleculeExport   `json:"molecules"`
	Solvents           []SolventExport    `json:"solvents"`
}

type FamilyExport struct {
	WorldID     string `json:"worldId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ImagePath   string `json:"imagePath,omitempty"`
}

type IngredientExport struct {
	WorldID       string                   `json:"worldId"`
	Name          string                   `json:"name"`
	FamilyWorldID string                   `json:"familyWorldId"`
	Rarity        string                   `json:"rarity,omitempty"`
	Description   string                   `json:"description,omitempty"`
	ImagePath     string                   `json:"imagePath,omitempty"`
	Physical      PhysicalExport           `json:"physical"`
	Gameplay      GameplayExport           `json:"gameplay"`
	Molecules     []CompositionEntryExport `json:"molecules"`
}

type PhysicalExport struct {
	State     string  `json:"state"`
	Stability float64 `json:"stability"`
	Organic   bool    `json:"organic"`
}

type GameplayExport struct {
	Value      float64 `json:"value"`
	Toxicity   float64 `json:"toxicity"`
	Volatility float64 `json:"volatility"`
}

type CompositionEntryExport struct {
	MoleculeWorldID string  `json:"moleculeWorldId,omitempty"`
	MoleculeName    string  `json:"moleculeName,omitempty"`
	MinWtPercent    float64 `json:"minWtPercent"`
	MaxWtPercent    float64 `json:"maxWtPercent"`
}

type MoleculeExport struct {
	WorldID            string   `json:"worldId"`
	Name               string   `json:"name"`
	ActualMoleculeName string   `json:"actualMoleculeName,omitempty"`
	Description        string   `json:"description,omitempty"`
	ImageURL           string   `json:"imageUrl,omitempty"`
	MolarMass          *float64 `json:"molarMass"`
	MeltingPoint       *float64 `json:"meltingPoint"`
	BoilingPoint       *float64 `json:"boilingPoint"`
	PolarityAffinity   *float64 `json:"polarityAffinity"`
	HydrogenBonding    *float64 `json:"hydrogenBonding"`
	IonicType          string   `json:"ionicType"`
	Stability          *float64 `json:"stability"`
	Reactivity         *float64 `json:"reactivity"`
	Rarity             string   `json:"rarity"`
	Known              bool     `json:"known"`
	FunctionalGroups   []string `json:"functionalGroups"`
	Smell              string   `json:"smell,omitempty"`
	Color              string   `json:"color,omitempty"`
	Taste              string   `json:"taste,omitempty"`
}

type SolventExport struct {
	WorldID           string   `json:"worldId"`
	Name              string   `json:"name"`
	ActualSolventName string   `json:"actualSolventName,omitempty"`
	SolventType       string   `json:"solventType"`
	Description       string   `json:"description,omitempty"`
	ImagePath         string   `json:"imagePath,omitempty"`
	PolarityIndex     *float64 `json:"polarityIndex"`
	Volatility        *float64 `json:"volatility"`
	Toxicity          *float64 `json:"toxicity"`
	Flammability      *float64 `json:"flammability"`
	BoilingPoint      *float64 `json:"boilingPoint"`
	FreezingPoint     *float64 `json:"freezingPoint"`
	IsProtic          bool     `json:"isProtic"`
	IsExperimental    bool     `json:"isExperimental"`
}

// ExportSnapshot scans all four collections and assembles the snapshot.
func ExportSnapshot(ctx context.Context, database *gorm.DB) (ExportPayload, error) {
	payload := ExportPayload{
		Meta: ExportMeta{Version: exportVersion, ExportedAt: nowFunc().UTC()},
	}
	if database == nil {
		return payload, gorm.ErrInvalidDB
	}

	var families []models.IngredientFamily
	if err := database.WithContext(ctx).Order("world_id asc").Find(&families).Error; err != nil {
		return payload, fmt.Errorf("scan ingredient families: %w", err)
	}
	payload.IngredientFamilies = make([]FamilyExport, 0, len(families))
	for _, family := range families {
		payload.IngredientFamilies = append(payload.IngredientFamilies, FamilyExport{
			WorldID:     family.WorldID,
			Name:        family.Name,
			Description: family.Description,
			Category:    family.Category,
			ImagePath:   family.ImagePath,
		})
	}

	var ingredients []models.Ingredient
	if err := database.WithContext(ctx).
		Preload("Molecules", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Order("world_id asc").
		Find(&ingredients).Error; err != nil {
		return payload, fmt.Errorf("scan ingredients: %w", err)
	}
	payload.Ingredients = make([]IngredientExport, 0, len(ingredients))
	for _, ingredient := range ingredients {
		entries := make([]CompositionEntryExport, 0, len(ingredient.Molecules))
		for _, entry := range ingredient.Molecules {
			entries = append(entries, CompositionEntryExport{
				MoleculeWorldID: entry.MoleculeWorldID,
				MoleculeName:    entry.MoleculeName,
				MinWtPercent:    entry.MinWtPercent,
				MaxWtPercent:    entry.MaxWtPercent,
			})
		}
		payload.Ingredients = append(payload.Ingredients, IngredientExport{
			WorldID:       ingredient.WorldID,
			Name:          ingredient.Name,
			FamilyWorldID: ingredient.FamilyWorldID,
			Rarity:        ingredient.Rarity,
			Description:   ingredient.Description,
			ImagePath:     ingredient.ImagePath,
			Physical: PhysicalExport{
				State:     ingredient.Physical.State,
				Stability: ingredient.Physical.Stability,
				Organic:   ingredient.Physical.Organic,
			},
			Gameplay: GameplayExport{
				Value:      ingredient.Gameplay.Value,
				Toxicity:   ingredient.Gameplay.Toxicity,
				Volatility: ingredient.Gameplay.Volatility,
			},
			Molecules: entries,
		})
	}

	var molecules []models.Molecule
	if err := database.WithContext(ctx).
		Preload("FunctionalGroups", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Order("world_id asc").
		Find(&molecules).Error; err != nil {
		return payload, fmt.Errorf("scan molecules: %w", err)
	}
	payload.Molecules = make([]MoleculeExport, 0, len(molecules))
	for _, molecule := range molecules {
		groups := make([]string, 0, len(molecule.FunctionalGroups))
		for _, group := range molecule.FunctionalGroups {
			groups = append(groups, group.Tag)
		}
		payload.Molecules = append(payload.Molecules, MoleculeExport{
			WorldID:            molecule.WorldID,
			Name:               molecule.Name,
			ActualMoleculeName: molecule.ActualMoleculeName,
			Description:        molecule.Description,
			ImageURL:           molecule.ImageURL,
			MolarMass:          molecule.MolarMass,
			MeltingPoint:       molecule.MeltingPoint,
			BoilingPoint:       molecule.BoilingPoint,
			PolarityAffinity:   molecule.PolarityAffinity,
			HydrogenBonding:    molecule.HydrogenBonding,
			IonicType:          molecule.IonicType,
			Stability:          molecule.Stability,
			Reactivity:         molecule.Reactivity,
			Rarity:             molecule.Rarity,
			Known:              molecule.Known,
			FunctionalGroups:   groups,
			Smell:              molecule.Smell,
			Color:              molecule.Color,
			Taste:              molecule.Taste,
		})
	}

	var solvents []models.Solvent
	if err := database.WithContext(ctx).Order("world_id asc").Find(&solvents).Error; err != nil {
		return payload, fmt.Errorf("scan solvents: %w", err)
	}
	payload.Solvents = make([]SolventExport, 0, len(solvents))
	for _, solvent := range solvents {
		payload.Solvents = append(payload.Solvents, SolventExport{
			WorldID:           solvent.WorldID,
			Name:              solvent.Name,
			ActualSolventName: solvent.ActualSolventName,
			SolventType:       solvent.SolventType,
			Description:       solvent.Description,
			ImagePath:         solvent.ImagePath,
			PolarityIndex:     solvent.PolarityIndex,
			Volatility:        solvent.Volatility,
			Toxicity:          solvent.Toxicity,
			Flammability:      solvent.Flammability,
			BoilingPoint:      solvent.BoilingPoint,
			FreezingPoint:     solvent.FreezingPoint,
			IsProtic:          solvent.IsProtic,
			IsExperimental:    solvent.IsExperimental,
		})
	}

	return payload, nil
}
