package handlers

import (
	"io"
	"net/http"

	"chemworld/internal/catalog"
	applog "chemworld/internal/log"
)

// maxImportPayload bounds bulk upload bodies at 16 MiB.
const maxImportPayload = 16 << 20

// ToolsImportIngredients ingests an ingredient bulk-import payload, a single
// JSON object or an array, and responds with the run summary.
func ToolsImportIngredients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportPayload))
	if err != nil {
		applog.Error(ctx, "failed to read ingredient import body", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to read request body")
		return
	}

	items, err := catalog.ParseIngredientPayload(body)
	if err != nil {
		applog.Debug(ctx, "malformed ingredient import payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := catalog.ImportIngredients(ctx, database, items)
	if err != nil {
		applog.Error(ctx, "ingredient import failed", "error", err, "runId", summary.RunID)
		writeJSONError(w, http.StatusInternalServerError, "import failed; records written before the failure were kept")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ToolsImportMolecules ingests a molecule bulk-import payload and responds
// with the run summary.
func ToolsImportMolecules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportPayload))
	if err != nil {
		applog.Error(ctx, "failed to read molecule import body", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to read request body")
		return
	}

	items, err := catalog.ParseMoleculePayload(body)
	if err != nil {
		applog.Debug(ctx, "malformed molecule import payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := catalog.ImportMolecules(ctx, database, items)
	if err != nil {
		applog.Error(ctx, "molecule import failed", "error", err, "runId", summary.RunID)
		writeJSONError(w, http.StatusInternalServerError, "import failed; records written before the failure were kept")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ToolsExport streams a full-catalog snapshot in the bulk-import key format.
func ToolsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	payload, err := catalog.ExportSnapshot(ctx, database)
	if err != nil {
		applog.Error(ctx, "failed to build export snapshot", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to build export snapshot")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="chemworld-export.json"`)
	writeJSON(w, http.StatusOK, payload)
}
