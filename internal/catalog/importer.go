package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	applog "chemworld/internal/log"
	"chemworld/models"
)

// IngredientImportItem is one record of the ingredient bulk-import format.
// worldId, name and familyWorldId are the required minimum.
type IngredientImportItem struct {
	WorldID       string                `json:"worldId"`
	Name          string                `json:"name"`
	FamilyWorldID string                `json:"familyWorldId"`
	Rarity        string                `json:"rarity"`
	Description   string                `json:"description"`
	ImagePath     string                `json:"imagePath"`
	Physical      *PhysicalImport       `json:"physical"`
	Gameplay      *GameplayImport       `json:"gameplay"`
	Molecules     []RawCompositionEntry `json:"molecules"`
}

// PhysicalImport mirrors the physical sub-record of the import format.
type PhysicalImport struct {
	State     string `json:"state"`
	Stability Number `json:"stability"`
	Organic   bool   `json:"organic"`
}

// GameplayImport mirrors the gameplay sub-record of the import format.
type GameplayImport struct {
	Value      Number `json:"value"`
	Toxicity   Number `json:"toxicity"`
	Volatility Number `json:"volatility"`
}

// MoleculeImportItem is one record of the molecule bulk-import format.
// worldId (or the legacy "id" key) and name are the required minimum.
// functionalGroups in the input is ignored: tags are curated by hand and
// import always resets them to empty.
type MoleculeImportItem struct {
	WorldID            string `json:"worldId"`
	LegacyID           string `json:"id"`
	Name               string `json:"name"`
	ActualMoleculeName string `json:"actualMoleculeName"`
	Description        string `json:"description"`
	ImageURL           string `json:"imageUrl"`
	MolarMass          Number `json:"molarMass"`
	MeltingPoint       Number `json:"meltingPoint"`
	BoilingPoint       Number `json:"boilingPoint"`
	PolarityAffinity   Number `json:"polarityAffinity"`
	HydrogenBonding    Number `json:"hydrogenBonding"`
	IonicType          string `json:"ionicType"`
	Stability          Number `json:"stability"`
	Reactivity         Number `json:"reactivity"`
	Rarity             string `json:"rarity"`
	Known              bool   `json:"known"`
	Smell              string `json:"smell"`
	Color              string `json:"color"`
	Taste              string `json:"taste"`
}

// SkippedRecord names one import record that was not written, and why.
type SkippedRecord struct {
	WorldID string `json:"world_id"`
	Reason  string `json:"reason"`
}

// ImportSummary reports the outcome of one import run. Imports are
// sequential and non-atomic: records written before a failure stay written,
// and nothing is skipped without being counted here.
type ImportSummary struct {
	RunID          string          `json:"run_id"`
	Created        int             `json:"created"`
	Updated        int             `json:"updated"`
	Skipped        []SkippedRecord `json:"skipped"`
	EntriesDropped int             `json:"entries_dropped"`
}

// Imported is the total number of records upserted in the run.
func (s ImportSummary) Imported() int {
	return s.Created + s.Updated
}

// ParseIngredientPayload decodes a bulk-import payload that may be a single
// object or an array of objects. Anything else fails with ErrMalformedInput
// before any write happens.
func ParseIngredientPayload(data []byte) ([]IngredientImportItem, error) {
	var items []IngredientImportItem
	if err := parseObjectOrArray(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ParseMoleculePayload decodes a molecule bulk-import payload, object or
// array.
func ParseMoleculePayload(data []byte) ([]MoleculeImportItem, error) {
	var items []MoleculeImportItem
	if err := parseObjectOrArray(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func parseObjectOrArray(data []byte, out any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty payload", ErrMalformedInput)
	}

	if trimmed[0] == '{' {
		trimmed = append(append([]byte("["), trimmed...), ']')
	} else if trimmed[0] != '[' {
		return fmt.Errorf("%w: expected a JSON object or array", ErrMalformedInput)
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return nil
}

// ImportIngredients upserts ingredient records keyed by world identifier.
// The family index and the existing-ingredient index are each built from one
// scan per run. A record with an unresolvable family, missing required
// fields, or an overflowing composition is skipped and counted; defective
// composition entries inside an accepted record are dropped and counted.
func ImportIngredients(ctx context.Context, database *gorm.DB, items []IngredientImportItem) (ImportSummary, error) {
	summary := ImportSummary{RunID: uuid.NewString()}
	if database == nil {
		return summary, gorm.ErrInvalidDB
	}

	families, err := LoadFamilyIndex(ctx, database)
	if err != nil {
		return summary, err
	}

	var existing []models.Ingredient
	if err := database.WithContext(ctx).Find(&existing).Error; err != nil {
		return summary, fmt.Errorf("scan ingredients: %w", err)
	}
	idByWorldID := make(map[string]uint, len(existing))
	for _, record := range existing {
		if record.WorldID != "" {
			idByWorldID[record.WorldID] = record.ID
		}
	}

	for _, item := range items {
		worldID := strings.TrimSpace(item.WorldID)
		name := strings.TrimSpace(item.Name)
		if worldID == "" || name == "" || strings.TrimSpace(item.FamilyWorldID) == "" {
			summary.Skipped = append(summary.Skipped, SkippedRecord{WorldID: worldID, Reason: "missing worldId, name or familyWorldId"})
			applog.Warn(ctx, "import skipped invalid ingredient", "runId", summary.RunID, "worldId", worldID)
			continue
		}

		family, err := families.Resolve(item.FamilyWorldID)
		if err != nil {
			summary.Skipped = append(summary.Skipped, SkippedRecord{WorldID: worldID, Reason: fmt.Sprintf("unknown familyWorldId %q", strings.TrimSpace(item.FamilyWorldID))})
			applog.Warn(ctx, "import skipped ingredient with unknown family", "runId", summary.RunID, "worldId", worldID, "familyWorldId", item.FamilyWorldID)
			continue
		}

		composition, dropped, err := NormalizeComposition(item.Molecules)
		summary.EntriesDropped += dropped
		if err != nil {
			summary.Skipped = append(summary.Skipped, SkippedRecord{WorldID: worldID, Reason: err.Error()})
			applog.Warn(ctx, "import skipped ingredient with overflowing composition", "runId", summary.RunID, "worldId", worldID)
			continue
		}

		record := models.Ingredient{
			WorldID:       worldID,
			Name:          name,
			FamilyID:      family.ID,
			FamilyWorldID: family.WorldID,
			Rarity:        models.NormalizeRarity(item.Rarity),
			Description:   strings.TrimSpace(item.Description),
			ImagePath:     strings.TrimSpace(item.ImagePath),
			Physical:      normalizePhysical(item.Physical),
			Gameplay:      normalizeGameplay(item.Gameplay),
		}

		existingID := idByWorldID[worldID]
		err = database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if existingID != 0 {
				record.ID = existingID
				if err := tx.Model(&models.Ingredient{Model: gorm.Model{ID: existingID}}).Updates(ingredientUpdates(record)).Error; err != nil {
					return fmt.Errorf("update ingredient %q: %w", worldID, err)
				}
				if err := tx.Where("ingredient_id = ?", existingID).Delete(&models.CompositionEntry{}).Error; err != nil {
					return fmt.Errorf("clear composition for %q: %w", worldID, err)
				}
			} else {
				if err := tx.Create(&record).Error; err != nil {
					return fmt.Errorf("create ingredient %q: %w", worldID, err)
				}
			}

			for position, entry := range composition.Entries {
				row := models.CompositionEntry{
					IngredientID:    record.ID,
					Position:        position,
					MoleculeWorldID: entry.MoleculeWorldID,
					MoleculeName:    entry.MoleculeName,
					MinWtPercent:    entry.MinWtPercent,
					MaxWtPercent:    entry.MaxWtPercent,
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("write composition entry for %q: %w", worldID, err)
				}
			}
			return nil
		})
		if err != nil {
			return summary, err
		}

		if existingID != 0 {
			summary.Updated++
		} else {
			summary.Created++
			idByWorldID[worldID] = record.ID
		}
	}

	applog.Info(ctx, "ingredient import finished",
		"runId", summary.RunID,
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", len(summary.Skipped),
		"entriesDropped", summary.EntriesDropped,
	)
	return summary, nil
}

// ImportMolecules upserts molecule records keyed by world identifier (legacy
// "id" accepted). Functional groups are always reset to empty: the import
// never clobbers curator-maintained tags, it clears them for re-curation.
func ImportMolecules(ctx context.Context, database *gorm.DB, items []MoleculeImportItem) (ImportSummary, error) {
	summary := ImportSummary{RunID: uuid.NewString()}
	if database == nil {
		return summary, gorm.ErrInvalidDB
	}

	var existing []models.Molecule
	if err := database.WithContext(ctx).Find(&existing).Error; err != nil {
		return summary, fmt.Errorf("scan molecules: %w", err)
	}
	idByWorldID := make(map[string]uint, len(existing))
	for _, record := range existing {
		if record.WorldID != "" {
			idByWorldID[record.WorldID] = record.ID
		}
	}

	for _, item := range items {
		worldID := strings.TrimSpace(item.WorldID)
		if worldID == "" {
			worldID = strings.TrimSpace(item.LegacyID)
		}
		name := strings.TrimSpace(item.Name)
		if worldID == "" || name == "" {
			summary.Skipped = append(summary.Skipped, SkippedRecord{WorldID: worldID, Reason: "missing worldId or name"})
			applog.Warn(ctx, "import skipped invalid molecule", "runId", summary.RunID, "worldId", worldID)
			continue
		}

		record := models.Molecule{
			WorldID:            worldID,
			Name:               name,
			ActualMoleculeName: strings.TrimSpace(item.ActualMoleculeName),
			Description:        strings.TrimSpace(item.Description),
			ImageURL:           strings.TrimSpace(item.ImageURL),
			MolarMass:          item.MolarMass.Ptr(),
			MeltingPoint:       item.MeltingPoint.Ptr(),
			BoilingPoint:       item.BoilingPoint.Ptr(),
			PolarityAffinity:   item.PolarityAffinity.Ptr(),
			HydrogenBonding:    item.HydrogenBonding.Ptr(),
			IonicType:          models.NormalizeIonicType(item.IonicType),
			Stability:          item.Stability.Ptr(),
			Reactivity:         item.Reactivity.Ptr(),
			Rarity:             models.NormalizeRarity(item.Rarity),
			Known:              item.Known,
			Smell:              strings.TrimSpace(item.Smell),
			Color:              strings.TrimSpace(item.Color),
			Taste:              strings.TrimSpace(item.Taste),
		}

		existingID := idByWorldID[worldID]
		err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if existingID != 0 {
				record.ID = existingID
				if err := tx.Model(&models.Molecule{Model: gorm.Model{ID: existingID}}).Updates(moleculeUpdates(record)).Error; err != nil {
					return fmt.Errorf("update molecule %q: %w", worldID, err)
				}
				// Force-empty on import, by the curation rule above.
				if err := tx.Where("molecule_id = ?", existingID).Delete(&models.FunctionalGroup{}).Error; err != nil {
					return fmt.Errorf("clear functional groups for %q: %w", worldID, err)
				}
				return nil
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("create molecule %q: %w", worldID, err)
			}
			return nil
		})
		if err != nil {
			return summary, err
		}

		if existingID != 0 {
			summary.Updated++
		} else {
			summary.Created++
			idByWorldID[worldID] = record.ID
		}
	}

	applog.Info(ctx, "molecule import finished",
		"runId", summary.RunID,
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", len(summary.Skipped),
	)
	return summary, nil
}

func normalizePhysical(raw *PhysicalImport) models.PhysicalProperties {
	if raw == nil {
		return models.PhysicalProperties{State: models.DefaultState}
	}
	stability, _ := raw.Stability.Float()
	return models.PhysicalProperties{
		State:     models.NormalizeState(raw.State),
		Stability: stability,
		Organic:   raw.Organic,
	}
}

func normalizeGameplay(raw *GameplayImport) models.GameplayProperties {
	if raw == nil {
		return models.GameplayProperties{}
	}
	value, _ := raw.Value.Float()
	toxicity, _ := raw.Toxicity.Float()
	volatility, _ := raw.Volatility.Float()
	return models.GameplayProperties{Value: value, Toxicity: toxicity, Volatility: volatility}
}

func ingredientUpdates(record models.Ingredient) map[string]any {
	return map[string]any{
		"name":                record.Name,
		"family_id":           record.FamilyID,
		"family_world_id":     record.FamilyWorldID,
		"rarity":              record.Rarity,
		"description":         record.Description,
		"image_path":          record.ImagePath,
		"physical_state":      record.Physical.State,
		"physical_stability":  record.Physical.Stability,
		"physical_organic":    record.Physical.Organic,
		"gameplay_value":      record.Gameplay.Value,
		"gameplay_toxicity":   record.Gameplay.Toxicity,
		"gameplay_volatility": record.Gameplay.Volatility,
	}
}

func moleculeUpdates(record models.Molecule) map[string]any {
	return map[string]any{
		"name":                 record.Name,
		"actual_molecule_name": record.ActualMoleculeName,
		"description":          record.Description,
		"image_url":            record.ImageURL,
		"molar_mass":           record.MolarMass,
		"melting_point":        record.MeltingPoint,
		"boiling_point":        record.BoilingPoint,
		"polarity_affinity":    record.PolarityAffinity,
		"hydrogen_bonding":     record.HydrogenBonding,
		"ionic_type":           record.IonicType,
		"stability":            record.Stability,
		"reactivity":           record.Reactivity,
		"rarity":               record.Rarity,
		"known":                record.Known,
		"smell":                record.Smell,
		"color":                record.Color,
		"taste":                record.Taste,
	}
}
