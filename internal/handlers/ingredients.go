package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"chemworld/internal/catalog"
	applog "chemworld/internal/log"
	"chemworld/models"
)

type compositionEntryPayload struct {
	MoleculeWorldID string   `json:"molecule_world_id"`
	MoleculeName    string   `json:"molecule_name"`
	MinWtPercent    *float64 `json:"min_wt_percent"`
	MaxWtPercent    *float64 `json:"max_wt_percent"`
}

type physicalPayload struct {
	State     string  `json:"state"`
	Stability float64 `json:"stability"`
	Organic   bool    `json:"organic"`
}

type gameplayPayload struct {
	Value      float64 `json:"value"`
	Toxicity   float64 `json:"toxicity"`
	Volatility float64 `json:"volatility"`
}

type ingredientRequest struct {
	WorldID       string                    `json:"world_id"`
	Name          string                    `json:"name"`
	FamilyWorldID string                    `json:"family_world_id"`
	Rarity        string                    `json:"rarity"`
	Description   string                    `json:"description"`
	ImagePath     string                    `json:"image_path"`
	Physical      physicalPayload           `json:"physical"`
	Gameplay      gameplayPayload           `json:"gameplay"`
	Molecules     []compositionEntryPayload `json:"molecules"`
}

type compositionEntryResponse struct {
	MoleculeWorldID string  `json:"molecule_world_id"`
	MoleculeName    string  `json:"molecule_name"`
	MinWtPercent    float64 `json:"min_wt_percent"`
	MaxWtPercent    float64 `json:"max_wt_percent"`
}

type ingredientResponse struct {
	ID            uint                       `json:"id"`
	WorldID       string                     `json:"world_id"`
	Name          string                     `json:"name"`
	FamilyID      uint                       `json:"family_id"`
	FamilyWorldID string                     `json:"family_world_id"`
	FamilyName    string                     `json:"family_name,omitempty"`
	Rarity        string                     `json:"rarity"`
	Description   string                     `json:"description"`
	ImagePath     string                     `json:"image_path"`
	Physical      physicalPayload            `json:"physical"`
	Gameplay      gameplayPayload            `json:"gameplay"`
	Molecules     []compositionEntryResponse `json:"molecules"`
	SumMaxPercent float64                    `json:"sum_max_percent"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// IngredientResource handles REST-style interactions for ingredient records.
// Writes go through the strict composition validator: nothing is persisted
// unless every entry is sound and the family reference resolves.
func IngredientResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "ingredient request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	segments := resourcePath(r, "/api/ingredients")
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listIngredients(w, r)
		case http.MethodPost:
			createIngredient(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	ingredientID, ok := parseRecordID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid ingredient identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showIngredient(w, r, ingredientID)
	case http.MethodPut:
		updateIngredient(w, r, ingredientID)
	case http.MethodDelete:
		deleteIngredient(w, r, ingredientID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.Ingredient
	query := database.WithContext(ctx).
		Preload("Family").
		Preload("Molecules", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Order("name asc")
	if family := strings.TrimSpace(r.URL.Query().Get("family")); family != "" {
		query = query.Where("family_world_id = ?", family)
	}
	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list ingredients", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredients")
		return
	}

	responses := make([]ingredientResponse, 0, len(results))
	for _, ingredient := range results {
		responses = append(responses, projectIngredient(ingredient))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ingredient, ok := loadIngredient(w, r, ingredientID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(ingredient))
}

func createIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload ingredientRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid ingredient payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	worldID := strings.TrimSpace(payload.WorldID)
	name := strings.TrimSpace(payload.Name)
	if worldID == "" || name == "" {
		writeJSONError(w, http.StatusBadRequest, "world_id and name are required")
		return
	}

	family, composition, ok := validateIngredientWrite(w, r, payload)
	if !ok {
		return
	}

	if err := catalog.EnsureWorldIDFree(ctx, database, &models.Ingredient{}, worldID); err != nil {
		if errors.Is(err, catalog.ErrDuplicateIdentifier) {
			writeJSONError(w, http.StatusConflict, "world_id is already in use")
			return
		}
		applog.Error(ctx, "failed to check ingredient world id", "error", err, "worldId", worldID)
		writeJSONError(w, http.StatusInternalServerError, "unable to create ingredient")
		return
	}

	ingredient := models.Ingredient{
		WorldID:       worldID,
		Name:          name,
		FamilyID:      family.ID,
		FamilyWorldID: family.WorldID,
		Rarity:        models.NormalizeRarity(payload.Rarity),
		Description:   strings.TrimSpace(payload.Description),
		ImagePath:     strings.TrimSpace(payload.ImagePath),
		Physical: models.PhysicalProperties{
			State:     models.NormalizeState(payload.Physical.State),
			Stability: payload.Physical.Stability,
			Organic:   payload.Physical.Organic,
		},
		Gameplay: models.GameplayProperties{
			Value:      payload.Gameplay.Value,
			Toxicity:   payload.Gameplay.Toxicity,
			Volatility: payload.Gameplay.Volatility,
		},
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ingredient).Error; err != nil {
			return err
		}
		return writeCompositionEntries(ctx, tx, ingredient.ID, composition)
	})
	if err != nil {
		applog.Error(ctx, "failed to create ingredient", "error", err, "worldId", worldID)
		writeJSONError(w, http.StatusInternalServerError, "unable to create ingredient")
		return
	}

	reloaded, ok := loadIngredient(w, r, ingredient.ID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, projectIngredient(reloaded))
}

func updateIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ctx := r.Context()
	ingredient, ok := loadIngredient(w, r, ingredientID)
	if !ok {
		return
	}

	var payload ingredientRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid ingredient update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if worldID := strings.TrimSpace(payload.WorldID); worldID != "" && worldID != ingredient.WorldID {
		writeJSONError(w, http.StatusBadRequest, "world_id cannot be changed")
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	family, composition, ok := validateIngredientWrite(w, r, payload)
	if !ok {
		return
	}

	updates := map[string]any{
		"name":                name,
		"family_id":           family.ID,
		"family_world_id":     family.WorldID,
		"rarity":              models.NormalizeRarity(payload.Rarity),
		"description":         strings.TrimSpace(payload.Description),
		"image_path":          strings.TrimSpace(payload.ImagePath),
		"physical_state":      models.NormalizeState(payload.Physical.State),
		"physical_stability":  payload.Physical.Stability,
		"physical_organic":    payload.Physical.Organic,
		"gameplay_value":      payload.Gameplay.Value,
		"gameplay_toxicity":   payload.Gameplay.Toxicity,
		"gameplay_volatility": payload.Gameplay.Volatility,
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Ingredient{Model: gorm.Model{ID: ingredientID}}).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("ingredient_id = ?", ingredientID).Delete(&models.CompositionEntry{}).Error; err != nil {
			return err
		}
		return writeCompositionEntries(ctx, tx, ingredientID, composition)
	})
	if err != nil {
		applog.Error(ctx, "failed to update ingredient", "error", err, "id", ingredientID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update ingredient")
		return
	}

	reloaded, ok := loadIngredient(w, r, ingredientID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(reloaded))
}

func deleteIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ctx := r.Context()
	ingredient, ok := loadIngredient(w, r, ingredientID)
	if !ok {
		return
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", ingredientID).Delete(&models.CompositionEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ingredient).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete ingredient", "error", err, "id", ingredientID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete ingredient")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateIngredientWrite resolves the family reference and runs the strict
// composition validator, translating failures into client responses.
func validateIngredientWrite(w http.ResponseWriter, r *http.Request, payload ingredientRequest) (catalog.FamilyRef, catalog.Composition, bool) {
	ctx := r.Context()

	families, err := catalog.LoadFamilyIndex(ctx, database)
	if err != nil {
		applog.Error(ctx, "failed to load family index", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to resolve ingredient family")
		return catalog.FamilyRef{}, catalog.Composition{}, false
	}

	family, err := families.Resolve(payload.FamilyWorldID)
	if err != nil {
		applog.Debug(ctx, "unresolved family reference", "familyWorldId", payload.FamilyWorldID)
		writeJSONError(w, http.StatusBadRequest, "family_world_id does not match any ingredient family")
		return catalog.FamilyRef{}, catalog.Composition{}, false
	}

	raw := make([]catalog.RawCompositionEntry, 0, len(payload.Molecules))
	for _, entry := range payload.Molecules {
		converted := catalog.RawCompositionEntry{
			MoleculeWorldID: entry.MoleculeWorldID,
			MoleculeName:    entry.MoleculeName,
		}
		if entry.MinWtPercent != nil {
			converted.MinWtPercent = catalog.NumberOf(*entry.MinWtPercent)
		}
		if entry.MaxWtPercent != nil {
			converted.MaxWtPercent = catalog.NumberOf(*entry.MaxWtPercent)
		}
		raw = append(raw, converted)
	}

	composition, err := catalog.ValidateComposition(raw)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrCompositionOverflow),
			errors.Is(err, catalog.ErrDuplicateMoleculeReference),
			errors.Is(err, catalog.ErrInvalidRange):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		default:
			applog.Error(ctx, "failed to validate composition", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "unable to validate composition")
		}
		return catalog.FamilyRef{}, catalog.Composition{}, false
	}

	return family, composition, true
}

func writeCompositionEntries(ctx context.Context, tx *gorm.DB, ingredientID uint, composition catalog.Composition) error {
	for position, entry := range composition.Entries {
		row := models.CompositionEntry{
			IngredientID:    ingredientID,
			Position:        position,
			MoleculeWorldID: entry.MoleculeWorldID,
			MoleculeName:    entry.MoleculeName,
			MinWtPercent:    entry.MinWtPercent,
			MaxWtPercent:    entry.MaxWtPercent,
		}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func loadIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) (models.Ingredient, bool) {
	ctx := r.Context()
	var ingredient models.Ingredient
	err := database.WithContext(ctx).
		Preload("Family").
		Preload("Molecules", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		First(&ingredient, ingredientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return models.Ingredient{}, false
		}
		applog.Error(ctx, "failed to load ingredient", "error", err, "id", ingredientID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient")
		return models.Ingredient{}, false
	}
	return ingredient, true
}

func projectIngredient(ingredient models.Ingredient) ingredientResponse {
	entries := make([]compositionEntryResponse, 0, len(ingredient.Molecules))
	sumMax := 0.0
	for _, entry := range ingredient.Molecules {
		sumMax += entry.MaxWtPercent
		entries = append(entries, compositionEntryResponse{
			MoleculeWorldID: entry.MoleculeWorldID,
			MoleculeName:    entry.MoleculeName,
			MinWtPercent:    entry.MinWtPercent,
			MaxWtPercent:    entry.MaxWtPercent,
		})
	}

	familyName := ""
	if ingredient.Family != nil {
		familyName = ingredient.Family.Name
	}

	return ingredientResponse{
		ID:            ingredient.ID,
		WorldID:       ingredient.WorldID,
		Name:          ingredient.Name,
		FamilyID:      ingredient.FamilyID,
		FamilyWorldID: ingredient.FamilyWorldID,
		FamilyName:    familyName,
		Rarity:        ingredient.Rarity,
		Description:   ingredient.Description,
		ImagePath:     ingredient.ImagePath,
		Physical: physicalPayload{
			State:     ingredient.Physical.State,
			Stability: ingredient.Physical.Stability,
			Organic:   ingredient.Physical.Organic,
		},
		Gameplay: gameplayPayload{
			Value:      ingredient.Gameplay.Value,
			Toxicity:   ingredient.Gameplay.Toxicity,
			Volatility: ingredient.Gameplay.Volatility,
		},
		Molecules:     entries,
		SumMaxPercent: sumMax,
		CreatedAt:     ingredient.CreatedAt,
		UpdatedAt:     ingredient.UpdatedAt,
	}
}
