package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"chemworld/models"
)

func TestSolventCreate(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	body := []byte(`{
		"world_id": "solv_purified_rain",
		"name": "Purified Rain",
		"solvent_type": "polar_protic",
		"polarity_index": 75,
		"is_protic": true
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/solvents", bytes.NewReader(body))
	w := httptest.NewRecorder()
	SolventResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created solventResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.SolventType != models.SolventPolarProtic || !created.IsProtic {
		t.Fatalf("unexpected response: %+v", created)
	}
	if created.PolarityIndex == nil || *created.PolarityIndex != 75 {
		t.Fatalf("unexpected polarity index: %+v", created.PolarityIndex)
	}
}

func TestSolventCreateRejectsUnknownType(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	body := []byte(`{"world_id": "solv_odd", "name": "Odd", "solvent_type": "plasma"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/solvents", bytes.NewReader(body))
	w := httptest.NewRecorder()
	SolventResource(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown solvent type, got %d", w.Code)
	}

	// an empty type is allowed: the estimate falls back to no adjustment
	body = []byte(`{"world_id": "solv_blank", "name": "Blank"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/solvents", bytes.NewReader(body))
	w = httptest.NewRecorder()
	SolventResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for empty solvent type, got %d", w.Code)
	}
}

func TestSolventUpdateAndDelete(t *testing.T) {
	db, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	solvent := models.Solvent{WorldID: "solv_naphtha", Name: "Naphtha", SolventType: models.SolventNonPolar}
	if err := db.Create(&solvent).Error; err != nil {
		t.Fatalf("failed to create solvent: %v", err)
	}

	body := []byte(`{"name": "Refined Naphtha", "solvent_type": "non_polar", "is_experimental": true}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/solvents/%d", solvent.ID), bytes.NewReader(body))
	w := httptest.NewRecorder()
	SolventResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated solventResponse
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if updated.Name != "Refined Naphtha" || !updated.IsExperimental {
		t.Fatalf("unexpected response: %+v", updated)
	}

	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/solvents/%d", solvent.ID), nil)
	w = httptest.NewRecorder()
	SolventResource(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}

	var count int64
	if err := db.Model(&models.Solvent{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count solvents: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected solvent to be deleted, found %d", count)
	}
}
