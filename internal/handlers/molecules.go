package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"chemworld/internal/catalog"
	applog "chemworld/internal/log"
	"chemworld/models"
)

type moleculeResponse struct {
	ID                 uint      `json:"id"`
	WorldID            string    `json:"world_id"`
	Name               string    `json:"name"`
	ActualMoleculeName string    `json:"actual_molecule_name"`
	Description        string    `json:"description"`
	ImageURL           string    `json:"image_url"`
	MolarMass          *float64  `json:"molar_mass"`
	MeltingPoint       *float64  `json:"melting_point"`
	BoilingPoint       *float64  `json:"boiling_point"`
	PolarityAffinity   *float64  `json:"polarity_affinity"`
	HydrogenBonding    *float64  `json:"hydrogen_bonding"`
	IonicType          string    `json:"ionic_type"`
	Stability          *float64  `json:"stability"`
	Reactivity         *float64  `json:"reactivity"`
	Rarity             string    `json:"rarity"`
	Known              bool      `json:"known"`
	FunctionalGroups   []string  `json:"functional_groups"`
	Smell              string    `json:"smell"`
	Color              string    `json:"color"`
	Taste              string    `json:"taste"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type moleculeRequest struct {
	WorldID            string   `json:"world_id"`
	Name               string   `json:"name"`
	ActualMoleculeName string   `json:"actual_molecule_name"`
	Description        string   `json:"description"`
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
	FunctionalGroups   []string `json:"functional_groups"`
	Smell              string   `json:"smell"`
	Color              string   `json:"color"`
	Taste              string   `json:"taste"`
}

// MoleculeResource handles REST-style interactions for molecule records,
// including the read-only solubility preview sub-resource.
func MoleculeResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "molecule request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	segments := resourcePath(r, "/api/molecules")
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listMolecules(w, r)
		case http.MethodPost:
			createMolecule(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	moleculeID, ok := parseRecordID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid molecule identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	if len(segments) > 1 && segments[1] == "solubility" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		moleculeSolubility(w, r, moleculeID)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showMolecule(w, r, moleculeID)
	case http.MethodPut:
		updateMolecule(w, r, moleculeID)
	case http.MethodDelete:
		deleteMolecule(w, r, moleculeID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listMolecules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.Molecule
	query := database.WithContext(ctx).
		Preload("FunctionalGroups", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Order("name asc")
	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list molecules", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load molecules")
		return
	}

	responses := make([]moleculeResponse, 0, len(results))
	for _, molecule := range results {
		if !moleculeVisible(r, molecule) {
			continue
		}
		responses = append(responses, projectMolecule(molecule))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showMolecule(w http.ResponseWriter, r *http.Request, moleculeID uint) {
	molecule, ok := loadMolecule(w, r, moleculeID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projectMolecule(molecule))
}

func createMolecule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload moleculeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid molecule payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	worldID := strings.TrimSpace(payload.WorldID)
	name := strings.TrimSpace(payload.Name)
	if worldID == "" || name == "" {
		writeJSONError(w, http.StatusBadRequest, "world_id and name are required")
		return
	}
	if message, ok := validateMoleculeBounds(payload); !ok {
		writeJSONError(w, http.StatusBadRequest, message)
		return
	}

	if err := catalog.EnsureWorldIDFree(ctx, database, &models.Molecule{}, worldID); err != nil {
		if errors.Is(err, catalog.ErrDuplicateIdentifier) {
			writeJSONError(w, http.StatusConflict, "world_id is already in use")
			return
		}
		applog.Error(ctx, "failed to check molecule world id", "error", err, "worldId", worldID)
		writeJSONError(w, http.StatusInternalServerError, "unable to create molecule")
		return
	}

	molecule := models.Molecule{
		WorldID:            worldID,
		Name:               name,
		ActualMoleculeName: strings.TrimSpace(payload.ActualMoleculeName),
		Description:        strings.TrimSpace(payload.Description),
		ImageURL:           strings.TrimSpace(payload.ImageURL),
		MolarMass:          payload.MolarMass,
		MeltingPoint:       payload.MeltingPoint,
		BoilingPoint:       payload.BoilingPoint,
		PolarityAffinity:   payload.PolarityAffinity,
		HydrogenBonding:    payload.HydrogenBonding,
		IonicType:          models.NormalizeIonicType(payload.IonicType),
		Stability:          payload.Stability,
		Reactivity:         payload.Reactivity,
		Rarity:             models.NormalizeRarity(payload.Rarity),
		Known:              payload.Known,
		Smell:              strings.TrimSpace(payload.Smell),
		Color:              strings.TrimSpace(payload.Color),
		Taste:              strings.TrimSpace(payload.Taste),
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&molecule).Error; err != nil {
			return err
		}
		return replaceFunctionalGroups(ctx, tx, molecule.ID, payload.FunctionalGroups)
	})
	if err != nil {
		applog.Error(ctx, "failed to create molecule", "error", err, "worldId", worldID)
		writeJSONError(w, http.StatusInternalServerError, "unable to create molecule")
		return
	}

	reloaded, ok := loadMolecule(w, r, molecule.ID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, projectMolecule(reloaded))
}

func updateMolecule(w http.ResponseWriter, r *http.Request, moleculeID uint) {
	ctx := r.Context()
	molecule, ok := loadMolecule(w, r, moleculeID)
	if !ok {
		return
	}

	var payload moleculeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid molecule update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if worldID := strings.TrimSpace(payload.WorldID); worldID != "" && worldID != molecule.WorldID {
		writeJSONError(w, http.StatusBadRequest, "world_id cannot be changed")
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}
	if message, ok := validateMoleculeBounds(payload); !ok {
		writeJSONError(w, http.StatusBadRequest, message)
		return
	}

	updates := map[string]any{
		"name":                 name,
		"actual_molecule_name": strings.TrimSpace(payload.ActualMoleculeName),
		"description":          strings.TrimSpace(payload.Description),
		"image_url":            strings.TrimSpace(payload.ImageURL),
		"molar_mass":           payload.MolarMass,
		"melting_point":        payload.MeltingPoint,
		"boiling_point":        payload.BoilingPoint,
		"polarity_affinity":    payload.PolarityAffinity,
		"hydrogen_bonding":     payload.HydrogenBonding,
		"ionic_type":           models.NormalizeIonicType(payload.IonicType),
		"stability":            payload.Stability,
		"reactivity":           payload.Reactivity,
		"rarity":               models.NormalizeRarity(payload.Rarity),
		"known":                payload.Known,
		"smell":                strings.TrimSpace(payload.Smell),
		"color":                strings.TrimSpace(payload.Color),
		"taste":                strings.TrimSpace(payload.Taste),
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Molecule{Model: gorm.Model{ID: moleculeID}}).Updates(updates).Error; err != nil {
			return err
		}
		return replaceFunctionalGroups(ctx, tx, moleculeID, payload.FunctionalGroups)
	})
	if err != nil {
		applog.Error(ctx, "failed to update molecule", "error", err, "id", moleculeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update molecule")
		return
	}

	reloaded, ok := loadMolecule(w, r, moleculeID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projectMolecule(reloaded))
}

func deleteMolecule(w http.ResponseWriter, r *http.Request, moleculeID uint) {
	ctx := r.Context()
	molecule, ok := loadMolecule(w, r, moleculeID)
	if !ok {
		return
	}

	// Composition entries reference molecules by world identifier, not by
	// row, so deleting a molecule never breaks an ingredient.
	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("molecule_id = ?", moleculeID).Delete(&models.FunctionalGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&molecule).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete molecule", "error", err, "id", moleculeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete molecule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func loadMolecule(w http.ResponseWriter, r *http.Request, moleculeID uint) (models.Molecule, bool) {
	ctx := r.Context()
	var molecule models.Molecule
	err := database.WithContext(ctx).
		Preload("FunctionalGroups", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		First(&molecule, moleculeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return models.Molecule{}, false
		}
		applog.Error(ctx, "failed to load molecule", "error", err, "id", moleculeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load molecule")
		return models.Molecule{}, false
	}
	return molecule, true
}

func validateMoleculeBounds(payload moleculeRequest) (string, bool) {
	bounded := map[string]*float64{
		"polarity_affinity": payload.PolarityAffinity,
		"hydrogen_bonding":  payload.HydrogenBonding,
		"stability":         payload.Stability,
		"reactivity":        payload.Reactivity,
	}
	for field, value := range bounded {
		if value != nil && (*value < 0 || *value > 100) {
			return fmt.Sprintf("%s must be between 0 and 100", field), false
		}
	}
	return "", true
}

func replaceFunctionalGroups(ctx context.Context, tx *gorm.DB, moleculeID uint, tags []string) error {
	if err := tx.WithContext(ctx).Where("molecule_id = ?", moleculeID).Delete(&models.FunctionalGroup{}).Error; err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(tags))
	position := 0
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}

		row := models.FunctionalGroup{MoleculeID: moleculeID, Position: position, Tag: trimmed}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
		position++
	}
	return nil
}

func projectMolecule(molecule models.Molecule) moleculeResponse {
	groups := make([]string, 0, len(molecule.FunctionalGroups))
	for _, group := range molecule.FunctionalGroups {
		groups = append(groups, group.Tag)
	}

	return moleculeResponse{
		ID:                 molecule.ID,
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
		CreatedAt:          molecule.CreatedAt,
		UpdatedAt:          molecule.UpdatedAt,
	}
}
