package catalog

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"chemworld/models"
)

// FamilyRef is the resolved handle of an ingredient family: the document id
// plus the world identifier that is denormalized onto every linked
// ingredient.
type FamilyRef struct {
	ID      uint
	WorldID string
}

// FamilyIndex maps family world identifiers to handles. Build it once per
// operation or import batch, not once per record.
type FamilyIndex map[string]FamilyRef

// BuildFamilyIndex indexes the given families by world identifier. Records
// without one are ignored.
func BuildFamilyIndex(families []models.IngredientFamily) FamilyIndex {
	index := make(FamilyIndex, len(families))
	for _, family := range families {
		worldID := strings.TrimSpace(family.WorldID)
		if worldID == "" {
			continue
		}
		index[worldID] = FamilyRef{ID: family.ID, WorldID: worldID}
	}
	return index
}

// LoadFamilyIndex scans the full family collection once and indexes it.
func LoadFamilyIndex(ctx context.Context, database *gorm.DB) (FamilyIndex, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}

	var families []models.IngredientFamily
	if err := database.WithContext(ctx).Find(&families).Error; err != nil {
		return nil, fmt.Errorf("scan ingredient families: %w", err)
	}
	return BuildFamilyIndex(families), nil
}

// Resolve translates a family world identifier into its handle. The caller
// must treat a failure as fatal for the record being written: skip it during
// import, reject the save during interactive editing. Never fall back to an
// unlinked ingredient.
func (index FamilyIndex) Resolve(worldID string) (FamilyRef, error) {
	worldID = strings.TrimSpace(worldID)
	if worldID == "" {
		return FamilyRef{}, fmt.Errorf("%w: empty family world id", ErrReferenceNotFound)
	}
	ref, ok := index[worldID]
	if !ok {
		return FamilyRef{}, fmt.Errorf("%w: family %q", ErrReferenceNotFound, worldID)
	}
	return ref, nil
}

// MoleculeRef is the resolved handle of a molecule record.
type MoleculeRef struct {
	ID      uint
	WorldID string
	Name    string
}

// MoleculeCatalog maps molecule world identifiers to handles. Used to
// populate selection lists. Composition entries citing an identifier missing
// from the catalog are still accepted: molecules may be authored after the
// ingredients that reference them.
type MoleculeCatalog map[string]MoleculeRef

// LoadMoleculeCatalog scans the full molecule collection once.
func LoadMoleculeCatalog(ctx context.Context, database *gorm.DB) (MoleculeCatalog, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}

	var molecules []models.Molecule
	if err := database.WithContext(ctx).Find(&molecules).Error; err != nil {
		return nil, fmt.Errorf("scan molecules: %w", err)
	}

	index := make(MoleculeCatalog, len(molecules))
	for _, molecule := range molecules {
		worldID := strings.TrimSpace(molecule.WorldID)
		if worldID == "" {
			continue
		}
		index[worldID] = MoleculeRef{ID: molecule.ID, WorldID: worldID, Name: molecule.Name}
	}
	return index, nil
}

// Lookup returns the handle for a molecule world identifier, if present.
func (index MoleculeCatalog) Lookup(worldID string) (MoleculeRef, bool) {
	ref, ok := index[strings.TrimSpace(worldID)]
	return ref, ok
}

// EnsureWorldIDFree fails with ErrDuplicateIdentifier when a record of the
// given model already carries the world identifier. Used on interactive
// creation paths; bulk import upserts by world identifier instead.
func EnsureWorldIDFree(ctx context.Context, database *gorm.DB, model any, worldID string) error {
	if database == nil {
		return gorm.ErrInvalidDB
	}

	worldID = strings.TrimSpace(worldID)
	if worldID == "" {
		return fmt.Errorf("%w: empty world id", ErrReferenceNotFound)
	}

	var count int64
	if err := database.WithContext(ctx).Model(model).Where("world_id = ?", worldID).Count(&count).Error; err != nil {
		return fmt.Errorf("check world id %q: %w", worldID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateIdentifier, worldID)
	}
	return nil
}
