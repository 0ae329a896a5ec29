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

type solventResponse struct {
	ID                uint      `json:"id"`
	WorldID           string    `json:"world_id"`
	Name              string    `json:"name"`
	ActualSolventName string    `json:"actual_solvent_name"`
	SolventType       string    `json:"solvent_type"`
	Description       string    `json:"description"`
	ImagePath         string    `json:"image_path"`
	PolarityIndex     *float64  `json:"polarity_index"`
	Volatility        *float64  `json:"volatility"`
	Toxicity          *float64  `json:"toxicity"`
	Flammability      *float64  `json:"flammability"`
	BoilingPoint      *float64  `json:"boiling_point"`
	FreezingPoint     *float64  `json:"freezing_point"`
	IsProtic          bool      `json:"is_protic"`
	IsExperimental    bool      `json:"is_experimental"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type solventRequest struct {
	WorldID           string   `json:"world_id"`
	Name              string   `json:"name"`
	ActualSolventName string   `json:"actual_solvent_name"`
	SolventType       string   `json:"solvent_type"`
	Description       string   `json:"description"`
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

// SolventResource handles REST-style interactions for solvent records.
func SolventResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "solvent request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	segments := resourcePath(r, "/api/solvents")
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listSolvents(w, r)
		case http.MethodPost:
			createSolvent(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	solventID, ok := parseRecordID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid solvent identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showSolvent(w, r, solventID)
	case http.MethodPut:
		updateSolvent(w, r, solventID)
	case http.MethodDelete:
		deleteSolvent(w, r, solventID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listSolvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.Solvent
	if err := database.WithContext(ctx).Order("name asc").Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list solvents", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load solvents")
		return
	}

	responses := make([]solventResponse, 0, len(results))
	for _, solvent := range results {
		responses = append(responses, projectSolvent(solvent))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showSolvent(w http.ResponseWriter, r *http.Request, solventID uint) {
	ctx := r.Context()
	var solvent models.Solvent
	if err := database.WithContext(ctx).First(&solvent, solventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load solvent", "error", err, "id", solventID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load solvent")
		return
	}
	writeJSON(w, http.StatusOK, projectSolvent(solvent))
}

func createSolvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload solventRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid solvent payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	worldID := strings.TrimSpace(payload.WorldID)
	name := strings.TrimSpace(payload.Name)
	if worldID == "" || name == "" {
		writeJSONError(w, http.StatusBadRequest, "world_id and name are required")
		return
	}

	solventType := strings.TrimSpace(payload.SolventType)
	if solventType != "" && !models.ValidSolventType(solventType) {
		writeJSONError(w, http.StatusBadRequest, "solvent_type must be non_polar, polar_aprotic or polar_protic")
		return
	}

	if err := catalog.EnsureWorldIDFree(ctx, database, &models.Solvent{}, worldID); err != nil {
		if errors.Is(err, catalog.ErrDuplicateIdentifier) {
			writeJSONError(w, http.StatusConflict, "world_id is already in use")
			return
		}
		applog.Error(ctx, "failed to check solvent world id", "error", err, "worldId", worldID)
		writeJSONError(w, http.StatusInternalServerError, "unable to create solvent")
		return
	}

	solvent := models.Solvent{
		WorldID:           worldID,
		Name:              name,
		ActualSolventName: strings.TrimSpace(payload.ActualSolventName),
		SolventType:       solventType,
		Description:       strings.TrimSpace(payload.Description),
		ImagePath:         strings.TrimSpace(payload.ImagePath),
		PolarityIndex:     payload.PolarityIndex,
		Volatility:        payload.Volatility,
		Toxicity:          payload.Toxicity,
		Flammability:      payload.Flammability,
		BoilingPoint:      payload.BoilingPoint,
		FreezingPoint:     payload.FreezingPoint,
		IsProtic:          payload.IsProtic,
		IsExperimental:    payload.IsExperimental,
	}
	if err := database.WithContext(ctx).Create(&solvent).Error; err != nil {
		applog.Error(ctx, "failed to create solvent", "error", err, "worldId", worldID)
		writeJSONError(w, http.StatusInternalServerError, "unable to create solvent")
		return
	}

	writeJSON(w, http.StatusCreated, projectSolvent(solvent))
}

func updateSolvent(w http.ResponseWriter, r *http.Request, solventID uint) {
	ctx := r.Context()
	var solvent models.Solvent
	if err := database.WithContext(ctx).First(&solvent, solventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load solvent for update", "error", err, "id", solventID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load solvent")
		return
	}

	var payload solventRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid solvent update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if worldID := strings.TrimSpace(payload.WorldID); worldID != "" && worldID != solvent.WorldID {
		writeJSONError(w, http.StatusBadRequest, "world_id cannot be changed")
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	solventType := strings.TrimSpace(payload.SolventType)
	if solventType != "" && !models.ValidSolventType(solventType) {
		writeJSONError(w, http.StatusBadRequest, "solvent_type must be non_polar, polar_aprotic or polar_protic")
		return
	}

	updates := map[string]any{
		"name":                name,
		"actual_solvent_name": strings.TrimSpace(payload.ActualSolventName),
		"solvent_type":        solventType,
		"description":         strings.TrimSpace(payload.Description),
		"image_path":          strings.TrimSpace(payload.ImagePath),
		"polarity_index":      payload.PolarityIndex,
		"volatility":          payload.Volatility,
		"toxicity":            payload.Toxicity,
		"flammability":        payload.Flammability,
		"boiling_point":       payload.BoilingPoint,
		"freezing_point":      payload.FreezingPoint,
		"is_protic":           payload.IsProtic,
		"is_experimental":     payload.IsExperimental,
	}
	if err := database.WithContext(ctx).Model(&solvent).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update solvent", "error", err, "id", solventID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update solvent")
		return
	}

	if err := database.WithContext(ctx).First(&solvent, solventID).Error; err != nil {
		applog.Error(ctx, "failed to reload solvent after update", "error", err, "id", solventID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load updated record")
		return
	}
	writeJSON(w, http.StatusOK, projectSolvent(solvent))
}

func deleteSolvent(w http.ResponseWriter, r *http.Request, solventID uint) {
	ctx := r.Context()
	var solvent models.Solvent
	if err := database.WithContext(ctx).First(&solvent, solventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load solvent for delete", "error", err, "id", solventID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load solvent")
		return
	}

	if err := database.WithContext(ctx).Delete(&solvent).Error; err != nil {
		applog.Error(ctx, "failed to delete solvent", "error", err, "id", solventID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete solvent")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func projectSolvent(solvent models.Solvent) solventResponse {
	return solventResponse{
		ID:                solvent.ID,
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
		CreatedAt:         solvent.CreatedAt,
		UpdatedAt:         solvent.UpdatedAt,
	}
}
