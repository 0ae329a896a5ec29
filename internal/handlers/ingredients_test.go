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

func TestIngredientCreateWithComposition(t *testing.T) {
	db, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	createTestFamily(t, db, "family_animal_derived", "Animal Derived")

	body := []byte(`{
		"world_id": "ing_viper_gland",
		"name": "Viper Gland",
		"family_world_id": "family_animal_derived",
		"rarity": "rare",
		"physical": {"state": "solid", "stability": 62, "organic": true},
		"gameplay": {"value": 140, "toxicity": 80, "volatility": 10},
		"molecules": [
			{"molecule_world_id": "mol_venom_base", "min_wt_percent": 10, "max_wt_percent": 40},
			{"molecule_world_id": "mol_aqua_vitae", "min_wt_percent": 5, "max_wt_percent": 30}
		]
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ingredients", bytes.NewReader(body))
	w := httptest.NewRecorder()
	IngredientResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created ingredientResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.FamilyWorldID != "family_animal_derived" || created.FamilyID == 0 {
		t.Fatalf("expected resolved family link: %+v", created)
	}
	if len(created.Molecules) != 2 || created.Molecules[0].MoleculeWorldID != "mol_venom_base" {
		t.Fatalf("unexpected composition: %+v", created.Molecules)
	}
	if created.SumMaxPercent != 70 {
		t.Fatalf("expected sum_max_percent 70, got %g", created.SumMaxPercent)
	}
}

func TestIngredientCreateRejectsUnknownFamily(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	body := []byte(`{"world_id": "ing_orphan", "name": "Orphan", "family_world_id": "family_missing"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ingredients", bytes.NewReader(body))
	w := httptest.NewRecorder()
	IngredientResource(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown family, got %d", w.Code)
	}
}

func TestIngredientCreateRejectsBadComposition(t *testing.T) {
	db, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	createTestFamily(t, db, "family_animal_derived", "Animal Derived")

	cases := []struct {
		name      string
		molecules string
	}{
		{
			"overflow",
			`[{"molecule_world_id": "mol_a", "min_wt_percent": 0, "max_wt_percent": 70},
			  {"molecule_world_id": "mol_b", "min_wt_percent": 0, "max_wt_percent": 50}]`,
		},
		{
			"duplicate reference",
			`[{"molecule_world_id": "mol_a", "min_wt_percent": 0, "max_wt_percent": 10},
			  {"molecule_world_id": "mol_a", "min_wt_percent": 0, "max_wt_percent": 10}]`,
		},
		{
			"inverted range",
			`[{"molecule_world_id": "mol_a", "min_wt_percent": 40, "max_wt_percent": 10}]`,
		},
		{
			"missing bounds",
			`[{"molecule_world_id": "mol_a"}]`,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(fmt.Sprintf(`{
				"world_id": "ing_bad",
				"name": "Bad",
				"family_world_id": "family_animal_derived",
				"molecules": %s
			}`, tt.molecules))
			req := httptest.NewRequest(http.MethodPost, "/api/ingredients", bytes.NewReader(body))
			w := httptest.NewRecorder()
			IngredientResource(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}

			var count int64
			if err := database.Model(&models.Ingredient{}).Count(&count).Error; err != nil {
				t.Fatalf("failed to count ingredients: %v", err)
			}
			if count != 0 {
				t.Fatalf("expected nothing persisted, found %d records", count)
			}
		})
	}
}

func TestIngredientUpdateReplacesComposition(t *testing.T) {
	db, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	family := createTestFamily(t, db, "family_animal_derived", "Animal Derived")
	ingredient := models.Ingredient{
		WorldID:       "ing_viper_gland",
		Name:          "Viper Gland",
		FamilyID:      family.ID,
		FamilyWorldID: family.WorldID,
		Molecules: []models.CompositionEntry{
			{Position: 0, MoleculeWorldID: "mol_old", MinWtPercent: 1, MaxWtPercent: 2},
		},
	}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}

	body := []byte(`{
		"name": "Viper Gland",
		"family_world_id": "family_animal_derived",
		"molecules": [
			{"molecule_world_id": "mol_new", "min_wt_percent": 5, "max_wt_percent": 25}
		]
	}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/ingredients/%d", ingredient.ID), bytes.NewReader(body))
	w := httptest.NewRecorder()
	IngredientResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated ingredientResponse
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(updated.Molecules) != 1 || updated.Molecules[0].MoleculeWorldID != "mol_new" {
		t.Fatalf("expected composition to be replaced: %+v", updated.Molecules)
	}
}

func TestIngredientUpdateKeepsWorldID(t *testing.T) {
	db, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	family := createTestFamily(t, db, "family_animal_derived", "Animal Derived")
	ingredient := models.Ingredient{
		WorldID:       "ing_viper_gland",
		Name:          "Viper Gland",
		FamilyID:      family.ID,
		FamilyWorldID: family.WorldID,
	}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}

	body := []byte(`{"world_id": "ing_renamed", "name": "Viper Gland", "family_world_id": "family_animal_derived"}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/ingredients/%d", ingredient.ID), bytes.NewReader(body))
	w := httptest.NewRecorder()
	IngredientResource(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 when changing world_id, got %d", w.Code)
	}
}

func TestIngredientListFilterByFamily(t *testing.T) {
	db, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	animal := createTestFamily(t, db, "family_animal_derived", "Animal Derived")
	mineral := createTestFamily(t, db, "family_crystalline", "Crystalline")
	for _, spec := range []struct {
		worldID string
		family  models.IngredientFamily
	}{
		{"ing_viper_gland", animal},
		{"ing_umbral_shard", mineral},
	} {
		record := models.Ingredient{
			WorldID:       spec.worldID,
			Name:          spec.worldID,
			FamilyID:      spec.family.ID,
			FamilyWorldID: spec.family.WorldID,
		}
		if err := db.Create(&record).Error; err != nil {
			t.Fatalf("failed to create ingredient: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/ingredients?family=family_crystalline", nil)
	w := httptest.NewRecorder()
	IngredientResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var results []ingredientResponse
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results) != 1 || results[0].WorldID != "ing_umbral_shard" {
		t.Fatalf("unexpected filter result: %+v", results)
	}
}
