package models

import "strings"

// Family categories.
const (
	CategoryBiological = "biological"
	CategoryMineral    = "mineral"
	CategoryAnimal     = "animal"
	CategorySynthetic  = "synthetic"

	DefaultCategory = CategoryBiological
)

// Rarity tiers shared by ingredients and molecules.
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityLegendary = "legendary"

	DefaultRarity = RarityCommon
)

// Physical states.
const (
	StateSolid  = "solid"
	StateLiquid = "liquid"
	StateGas    = "gas"

	DefaultState = StateSolid
)

// Molecule ionic types.
const (
	IonicNeutral = "neutral"
	IonicAcidic  = "acidic"
	IonicBasic   = "basic"
	IonicIonic   = "ionic"

	DefaultIonicType = IonicNeutral
)

// Solvent types.
const (
	SolventNonPolar     = "non_polar"
	SolventPolarAprotic = "polar_aprotic"
	SolventPolarProtic  = "polar_protic"
)

// ValidCategory reports whether the provided value is a known family category.
func ValidCategory(value string) bool {
	switch value {
	case CategoryBiological, CategoryMineral, CategoryAnimal, CategorySynthetic:
		return true
	}
	return false
}

// NormalizeCategory trims the value and falls back to the default category
// when it is not a known one.
func NormalizeCategory(value string) string {
	value = strings.TrimSpace(value)
	if ValidCategory(value) {
		return value
	}
	return DefaultCategory
}

// ValidRarity reports whether the provided value is a known rarity tier.
func ValidRarity(value string) bool {
	switch value {
	case RarityCommon, RarityUncommon, RarityRare, RarityLegendary:
		return true
	}
	return false
}

// NormalizeRarity trims the value and falls back to the default rarity when
// it is not a known tier.
func NormalizeRarity(value string) string {
	value = strings.TrimSpace(value)
	if ValidRarity(value) {
		return value
	}
	return DefaultRarity
}

// ValidState reports whether the provided value is a known physical state.
func ValidState(value string) bool {
	switch value {
	case StateSolid, StateLiquid, StateGas:
		return true
	}
	return false
}

// NormalizeState trims the value and falls back to solid when it is not a
// known state.
func NormalizeState(value string) string {
	value = strings.TrimSpace(value)
	if ValidState(value) {
		return value
	}
	return DefaultState
}

// ValidIonicType reports whether the provided value is a known ionic type.
func ValidIonicType(value string) bool {
	switch value {
	case IonicNeutral, IonicAcidic, IonicBasic, IonicIonic:
		return true
	}
	return false
}

// NormalizeIonicType trims the value and falls back to neutral when it is not
// a known ionic type.
func NormalizeIonicType(value string) string {
	value = strings.TrimSpace(value)
	if ValidIonicType(value) {
		return value
	}
	return DefaultIonicType
}

// ValidSolventType reports whether the provided value is a known solvent type.
// There is no normalizing fallback: the solubility heuristic treats an empty
// type differently from any concrete one, so callers validate instead.
func ValidSolventType(value string) bool {
	switch value {
	case SolventNonPolar, SolventPolarAprotic, SolventPolarProtic:
		return true
	}
	return false
}
