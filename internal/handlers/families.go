package handlers

import (
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

type familyResponse struct {
	ID          uint      `json:"id"`
	WorldID     string    `json:"world_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ImagePath   string    `json:"image_path"`
	Ingredients int64     `json:"ingredient_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type familyRequest struct {
	WorldID     string `json:"world_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImagePath   string `json:"image_path"`
}

// FamilyResource handles REST-style interactions for ingredient family
// records.
func FamilyResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "family request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	segments := resourcePath(r, "/api/families")
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listFamilies(w, r)
		case http.MethodPost:
			createFamily(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	familyID, ok := parseRecordID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid family identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showFamily(w, r, familyID)
	case http.MethodPut:
		updateFamily(w, r, familyID)
	case http.MethodDelete:
		deleteFamily(w, r, familyID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listFamilies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.IngredientFamily
	if err := database.WithContext(ctx).Order("name asc").Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list ingredient families", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient families")
		return
	}

	responses := make([]familyResponse, 0, len(results))
	for _, family := range results {
		responses = append(responses, projectFamily(r, family))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showFamily(w http.ResponseWriter, r *http.Request, familyID uint) {
	ctx := r.Context()
	var family models.IngredientFamily
	if err := database.WithContext(ctx).First(&family, familyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load ingredient family", "error", err, "id", familyID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient family")
		return
	}
	writeJSON(w, http.StatusOK, projectFamily(r, family))
}

func createFamily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload familyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid family payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	worldID := strings.TrimSpace(payload.WorldID)
	name := strings.TrimSpace(payload.Name)
	if worldID == "" || name == "" {
		writeJSONError(w, http.StatusBadRequest, "world_id and name are required")
		return
	}

	if err := catalog.EnsureWorldIDFree(ctx, database, &models.IngredientFamily{}, worldID); err != nil {
		if errors.Is(err, catalog.ErrDuplicateIdentifier) {
			writeJSONError(w, http.StatusConflict, "world_id is already in use")
			return
		}
		applog.Error(ctx, "failed to check family world id", "error", err, "worldId", worldID)
		writeJSONError(w, http.StatusInternalServerError, "unable to create ingredient family")
		return
	}

	family := models.IngredientFamily{
		WorldID:     worldID,
		Name:        name,
		Description: strings.TrimSpace(payload.Description),
		Category:    models.NormalizeCategory(payload.Category),
		ImagePath:   strings.TrimSpace(payload.ImagePath),
	}
	if err := database.WithContext(ctx).Create(&family).Error; err != nil {
		applog.Error(ctx, "failed to create ingredient family", "error", err, "worldId", worldID)
		writeJSONError(w, http.StatusInternalServerError, "unable to create ingredient family")
		return
	}

	writeJSON(w, http.StatusCreated, projectFamily(r, family))
}

func updateFamily(w http.ResponseWriter, r *http.Request, familyID uint) {
	ctx := r.Context()
	var family models.IngredientFamily
	if err := database.WithContext(ctx).First(&family, familyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load ingredient family for update", "error", err, "id", familyID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient family")
		return
	}

	var payload familyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid family update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	// World identifiers are permanent: ingredients denormalize them.
	if worldID := strings.TrimSpace(payload.WorldID); worldID != "" && worldID != family.WorldID {
		writeJSONError(w, http.StatusBadRequest, "world_id cannot be changed")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	updates := map[string]any{
		"name":        name,
		"description": strings.TrimSpace(payload.Description),
		"category":    models.NormalizeCategory(payload.Category),
		"image_path":  strings.TrimSpace(payload.ImagePath),
	}
	if err := database.WithContext(ctx).Model(&family).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update ingredient family", "error", err, "id", familyID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update ingredient family")
		return
	}

	if err := database.WithContext(ctx).First(&family, familyID).Error; err != nil {
		applog.Error(ctx, "failed to reload ingredient family after update", "error", err, "id", familyID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load updated record")
		return
	}
	writeJSON(w, http.StatusOK, projectFamily(r, family))
}

func deleteFamily(w http.ResponseWriter, r *http.Request, familyID uint) {
	ctx := r.Context()
	var family models.IngredientFamily
	if err := database.WithContext(ctx).First(&family, familyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load ingredient family for delete", "error", err, "id", familyID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient family")
		return
	}

	var linked int64
	if err := database.WithContext(ctx).Model(&models.Ingredient{}).Where("family_id = ?", familyID).Count(&linked).Error; err != nil {
		applog.Error(ctx, "failed to count linked ingredients", "error", err, "id", familyID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete ingredient family")
		return
	}
	if linked > 0 {
		applog.Debug(ctx, "delete denied: family still referenced", "id", familyID, "ingredients", linked)
		writeJSONError(w, http.StatusConflict, "family is still referenced by ingredients")
		return
	}

	if err := database.WithContext(ctx).Delete(&family).Error; err != nil {
		applog.Error(ctx, "failed to delete ingredient family", "error", err, "id", familyID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete ingredient family")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func projectFamily(r *http.Request, family models.IngredientFamily) familyResponse {
	var linked int64
	if err := database.WithContext(r.Context()).Model(&models.Ingredient{}).Where("family_id = ?", family.ID).Count(&linked).Error; err != nil {
		applog.Debug(r.Context(), "failed to count family ingredients", "error", err, "id", family.ID)
	}

	return familyResponse{
		ID:          family.ID,
		WorldID:     family.WorldID,
		Name:        family.Name,
		Description: family.Description,
		Category:    family.Category,
		ImagePath:   family.ImagePath,
		Ingredients: linked,
		CreatedAt:   family.CreatedAt,
		UpdatedAt:   family.UpdatedAt,
	}
}
