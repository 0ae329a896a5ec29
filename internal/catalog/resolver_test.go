package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chemworld/models"
)

// newTestDatabase opens a private in-memory database and migrates the full
// schema. Each call gets its own store, so tests can run in parallel.
func newTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&models.IngredientFamily{},
		&models.Ingredient{},
		&models.CompositionEntry{},
		&models.Molecule{},
		&models.FunctionalGroup{},
		&models.Solvent{},
	))
	return database
}

func seedFamily(t *testing.T, database *gorm.DB, worldID, name string) models.IngredientFamily {
	t.Helper()

	family := models.IngredientFamily{WorldID: worldID, Name: name, Category: models.DefaultCategory}
	require.NoError(t, database.Create(&family).Error)
	return family
}

func TestFamilyIndexResolve(t *testing.T) {
	t.Parallel()

	index := BuildFamilyIndex([]models.IngredientFamily{
		{Model: gorm.Model{ID: 7}, WorldID: "family_animal_derived", Name: "Animal Derived"},
		{Model: gorm.Model{ID: 9}, WorldID: "", Name: "Unkeyed"},
	})

	ref, err := index.Resolve("family_animal_derived")
	require.NoError(t, err)
	assert.Equal(t, uint(7), ref.ID)
	assert.Equal(t, "family_animal_derived", ref.WorldID)

	// Identifiers are matched after trimming.
	ref, err = index.Resolve("  family_animal_derived  ")
	require.NoError(t, err)
	assert.Equal(t, uint(7), ref.ID)

	_, err = index.Resolve("family_missing")
	require.ErrorIs(t, err, ErrReferenceNotFound)

	_, err = index.Resolve("")
	require.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestLoadFamilyIndex(t *testing.T) {
	t.Parallel()

	database := newTestDatabase(t)
	seedFamily(t, database, "family_crystalline", "Crystalline")
	seedFamily(t, database, "family_animal_derived", "Animal Derived")

	index, err := LoadFamilyIndex(context.Background(), database)
	require.NoError(t, err)
	require.Len(t, index, 2)

	ref, err := index.Resolve("family_crystalline")
	require.NoError(t, err)
	assert.NotZero(t, ref.ID)
}

func TestLoadMoleculeCatalog(t *testing.T) {
	t.Parallel()

	database := newTestDatabase(t)
	require.NoError(t, database.Create(&models.Molecule{WorldID: "mol_umbral_salt", Name: "Umbral Salt"}).Error)
	require.NoError(t, database.Create(&models.Molecule{WorldID: "mol_aqua_vitae", Name: "Aqua Vitae"}).Error)

	catalog, err := LoadMoleculeCatalog(context.Background(), database)
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	ref, ok := catalog.Lookup("mol_umbral_salt")
	require.True(t, ok)
	assert.Equal(t, "Umbral Salt", ref.Name)

	_, ok = catalog.Lookup("mol_unknown")
	assert.False(t, ok)
}

func TestEnsureWorldIDFree(t *testing.T) {
	t.Parallel()

	database := newTestDatabase(t)
	seedFamily(t, database, "family_crystalline", "Crystalline")

	ctx := context.Background()
	require.NoError(t, EnsureWorldIDFree(ctx, database, &models.IngredientFamily{}, "family_new"))

	err := EnsureWorldIDFree(ctx, database, &models.IngredientFamily{}, "family_crystalline")
	require.ErrorIs(t, err, ErrDuplicateIdentifier)

	// Scoped per collection: the same identifier is free for molecules.
	require.NoError(t, EnsureWorldIDFree(ctx, database, &models.Molecule{}, "family_crystalline"))
}
