package server

import (
	"context"
	"net/http"

	"chemworld/internal/handlers"
	applog "chemworld/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/api/families", handlers.FamilyResource)
	mux.HandleFunc("/api/families/", handlers.FamilyResource)
	mux.HandleFunc("/api/ingredients", handlers.IngredientResource)
	mux.HandleFunc("/api/ingredients/", handlers.IngredientResource)
	mux.HandleFunc("/api/molecules", handlers.MoleculeResource)
	mux.HandleFunc("/api/molecules/", handlers.MoleculeResource)
	mux.HandleFunc("/api/solvents", handlers.SolventResource)
	mux.HandleFunc("/api/solvents/", handlers.SolventResource)
	mux.HandleFunc("/api/tools/import/ingredients", handlers.ToolsImportIngredients)
	mux.HandleFunc("/api/tools/import/molecules", handlers.ToolsImportMolecules)
	mux.HandleFunc("/api/tools/export", handlers.ToolsExport)
	mux.HandleFunc("/api/preferences", handlers.Preferences)
	applog.Debug(context.Background(), "http routes registered")
	return mux
}
