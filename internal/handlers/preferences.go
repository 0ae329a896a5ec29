package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"chemworld/internal/catalog"
	applog "chemworld/internal/log"
	"chemworld/models"
)

const (
	sessionActiveFamilyKey = "workspace:family"
	sessionHideUnknownKey  = "workspace:hide_unknown"
)

type preferencesResponse struct {
	ActiveFamily string `json:"active_family"`
	HideUnknown  bool   `json:"hide_unknown"`
}

type preferencesRequest struct {
	ActiveFamily *string `json:"active_family"`
	HideUnknown  *bool   `json:"hide_unknown"`
}

// Preferences reads and writes per-session workspace preferences: the family
// the editor is focused on and whether unknown molecules are hidden from
// selection lists.
func Preferences(w http.ResponseWriter, r *http.Request) {
	if sessionManager == nil {
		applog.Debug(r.Context(), "preferences request without session manager")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showPreferences(w, r)
	case http.MethodPut, http.MethodPost:
		updatePreferences(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func showPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, preferencesResponse{
		ActiveFamily: sessionManager.GetString(r.Context(), sessionActiveFamilyKey),
		HideUnknown:  sessionManager.GetBool(r.Context(), sessionHideUnknownKey),
	})
}

func updatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid preferences payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if payload.ActiveFamily != nil {
		family := strings.TrimSpace(*payload.ActiveFamily)
		if family != "" && database != nil {
			index, err := catalog.LoadFamilyIndex(ctx, database)
			if err != nil {
				applog.Error(ctx, "failed to load family index for preferences", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "unable to save preferences")
				return
			}
			if _, err := index.Resolve(family); err != nil {
				writeJSONError(w, http.StatusBadRequest, "active_family does not match any ingredient family")
				return
			}
		}
		sessionManager.Put(ctx, sessionActiveFamilyKey, family)
	}
	if payload.HideUnknown != nil {
		sessionManager.Put(ctx, sessionHideUnknownKey, *payload.HideUnknown)
	}

	showPreferences(w, r)
}

// moleculeVisible reports whether a molecule should appear in selection
// lists under the current session preferences.
func moleculeVisible(r *http.Request, molecule models.Molecule) bool {
	if sessionManager == nil {
		return true
	}
	if sessionManager.GetBool(r.Context(), sessionHideUnknownKey) && !molecule.Known {
		return false
	}
	return true
}
