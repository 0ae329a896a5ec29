package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"chemworld/internal/catalog"
	applog "chemworld/internal/log"
	"chemworld/models"
)

type solubilityEntryResponse struct {
	SolventID      uint          `json:"solvent_id"`
	SolventWorldID string        `json:"solvent_world_id"`
	SolventName    string        `json:"solvent_name"`
	SolventType    string        `json:"solvent_type"`
	Score          int           `json:"score"`
	Label          catalog.Label `json:"label"`
}

type solubilityResponse struct {
	MoleculeID      uint                      `json:"molecule_id"`
	MoleculeWorldID string                    `json:"molecule_world_id"`
	MoleculeName    string                    `json:"molecule_name"`
	Solvents        []solubilityEntryResponse `json:"solvents"`
}

// moleculeSolubility ranks every solvent against the molecule. The optional
// top query parameter truncates the ranking.
func moleculeSolubility(w http.ResponseWriter, r *http.Request, moleculeID uint) {
	ctx := r.Context()
	molecule, ok := loadMolecule(w, r, moleculeID)
	if !ok {
		return
	}

	var solvents []models.Solvent
	if err := database.WithContext(ctx).Order("name asc").Find(&solvents).Error; err != nil {
		applog.Error(ctx, "failed to list solvents for solubility", "error", err, "moleculeID", moleculeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load solvents")
		return
	}

	ranked := catalog.RankSolvents(&molecule, solvents)

	if raw := strings.TrimSpace(r.URL.Query().Get("top")); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil || top < 1 {
			writeJSONError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		if top < len(ranked) {
			ranked = ranked[:top]
		}
	}

	response := solubilityResponse{
		MoleculeID:      molecule.ID,
		MoleculeWorldID: molecule.WorldID,
		MoleculeName:    molecule.Name,
		Solvents:        make([]solubilityEntryResponse, 0, len(ranked)),
	}
	for _, entry := range ranked {
		response.Solvents = append(response.Solvents, solubilityEntryResponse{
			SolventID:      entry.Solvent.ID,
			SolventWorldID: entry.Solvent.WorldID,
			SolventName:    entry.Solvent.Name,
			SolventType:    entry.Solvent.SolventType,
			Score:          entry.Score,
			Label:          entry.Label,
		})
	}
	writeJSON(w, http.StatusOK, response)
}
