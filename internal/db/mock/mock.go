package mock

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "chemworld/internal/log"
	"chemworld/models"
)

// New returns an in-memory sqlite database seeded with a representative slice
// of the game world, enough to drive every authoring screen locally.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := gorm.Open(sqlite.Open("file:chemworld-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&models.IngredientFamily{},
		&models.Ingredient{},
		&models.CompositionEntry{},
		&models.Molecule{},
		&models.FunctionalGroup{},
		&models.Solvent{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func num(v float64) *float64 {
	return &v
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	animal := models.IngredientFamily{
		WorldID:     "family_animal_derived",
		Name:        "Animal Derived",
		Description: "Materials harvested from fauna across the world.",
		Category:    models.CategoryAnimal,
	}
	mineral := models.IngredientFamily{
		WorldID:     "family_crystalline",
		Name:        "Crystalline Minerals",
		Description: "Mined crystal stock for alchemical grinding.",
		Category:    models.CategoryMineral,
	}

	families := []*models.IngredientFamily{&animal, &mineral}
	for _, family := range families {
		if err := database.WithContext(ctx).Create(family).Error; err != nil {
			return err
		}
	}

	molecules := []models.Molecule{
		{
			WorldID:            "mol_aqua_vitae",
			Name:               "Aqua Vitae",
			ActualMoleculeName: "ethanol",
			PolarityAffinity:   num(72),
			HydrogenBonding:    num(80),
			IonicType:          models.IonicNeutral,
			Stability:          num(65),
			Reactivity:         num(35),
			Rarity:             models.RarityCommon,
			Known:              true,
			Smell:              "sharp",
			Color:              "clear",
		},
		{
			WorldID:            "mol_umbral_salt",
			Name:               "Umbral Salt",
			ActualMoleculeName: "sodium chloride",
			PolarityAffinity:   num(95),
			HydrogenBonding:    num(10),
			IonicType:          models.IonicIonic,
			Stability:          num(90),
			Reactivity:         num(15),
			Rarity:             models.RarityUncommon,
			Known:              false,
			Color:              "violet-white",
		},
	}
	for idx := range molecules {
		if err := database.WithContext(ctx).Create(&molecules[idx]).Error; err != nil {
			return err
		}
	}

	groups := []models.FunctionalGroup{
		{MoleculeID: molecules[0].ID, Position: 0, Tag: "hydroxyl"},
		{MoleculeID: molecules[0].ID, Position: 1, Tag: "volatile"},
	}
	for idx := range groups {
		if err := database.WithContext(ctx).Create(&groups[idx]).Error; err != nil {
			return err
		}
	}

	venomGland := models.Ingredient{
		WorldID:       "ing_viper_gland",
		Name:          "Viper Gland",
		FamilyID:      animal.ID,
		FamilyWorldID: animal.WorldID,
		Rarity:        models.RarityRare,
		Description:   "A potent gland, unstable once excised.",
		Physical:      models.PhysicalProperties{State: models.StateSolid, Stability: 35, Organic: true},
		Gameplay:      models.GameplayProperties{Value: 120, Toxicity: 85, Volatility: 40},
	}
	if err := database.WithContext(ctx).Create(&venomGland).Error; err != nil {
		return err
	}

	entries := []models.CompositionEntry{
		{
			IngredientID:    venomGland.ID,
			Position:        0,
			MoleculeWorldID: "mol_aqua_vitae",
			MinWtPercent:    10,
			MaxWtPercent:    30,
		},
		{
			IngredientID:    venomGland.ID,
			Position:        1,
			MoleculeWorldID: "mol_umbral_salt",
			MinWtPercent:    5,
			MaxWtPercent:    20,
		},
	}
	for idx := range entries {
		if err := database.WithContext(ctx).Create(&entries[idx]).Error; err != nil {
			return err
		}
	}

	solvents := []models.Solvent{
		{
			WorldID:           "solv_purified_rain",
			Name:              "Purified Rain",
			ActualSolventName: "water",
			SolventType:       models.SolventPolarProtic,
			PolarityIndex:     num(90),
			Volatility:        num(20),
			Toxicity:          num(0),
			Flammability:      num(0),
			BoilingPoint:      num(100),
			FreezingPoint:     num(0),
			IsProtic:          true,
		},
		{
			WorldID:           "solv_naphtha",
			Name:              "Grey Naphtha",
			ActualSolventName: "hexane",
			SolventType:       models.SolventNonPolar,
			PolarityIndex:     num(8),
			Volatility:        num(85),
			Toxicity:          num(55),
			Flammability:      num(95),
			BoilingPoint:      num(69),
			FreezingPoint:     num(-95),
			IsExperimental:    true,
		},
	}
	for idx := range solvents {
		if err := database.WithContext(ctx).Create(&solvents[idx]).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
