package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chemworld/models"
)

func withTestDatabase(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	original := database
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.IngredientFamily{},
		&models.Ingredient{},
		&models.CompositionEntry{},
		&models.Molecule{},
		&models.FunctionalGroup{},
		&models.Solvent{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	database = db
	return db, func() {
		database = original
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func withTestSessionManager(t *testing.T) (*scs.SessionManager, func()) {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	return sm, func() {
		sessionManager = original
	}
}

func sessionRequest(t *testing.T, sm *scs.SessionManager, req *http.Request) *http.Request {
	t.Helper()
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	return req.WithContext(ctx)
}

func createTestFamily(t *testing.T, db *gorm.DB, worldID, name string) models.IngredientFamily {
	t.Helper()
	family := models.IngredientFamily{WorldID: worldID, Name: name, Category: models.DefaultCategory}
	if err := db.Create(&family).Error; err != nil {
		t.Fatalf("failed to create family: %v", err)
	}
	return family
}
