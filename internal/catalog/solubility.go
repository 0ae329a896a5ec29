package catalog

import (
	"math"
	"sort"
	"strings"

	"chemworld/models"
)

// Label is the discrete, human-readable solubility bucket shown to
// designers.
type Label string

const (
	LabelVeryHigh   Label = "VERY_HIGH"
	LabelHigh       Label = "HIGH"
	LabelMedium     Label = "MEDIUM"
	LabelLow        Label = "LOW"
	LabelVeryLow    Label = "VERY_LOW"
	LabelAlmostNone Label = "ALMOST_NONE"
)

// Solubility is the bounded compatibility estimate of one molecule in one
/// solvent. Preview only: it is never persisted and never authoritative for
// gameplay.
type Solubility struct {
	Score int   `json:"score"`
	Label Label `json:"label"`
}

const defaultChemScale = 50

// EstimateSolubility computes the deterministic compatibility score of a
// molecule in a solvent and maps it to a label. Missing numeric properties
/// fall back to the midpoint of their 0-100 scale. Pure: identical inputs
// always yield identical output.
func EstimateSolubility(molecule *models.Molecule, solvent *models.Solvent) Solubility {
	var molPol, hb, solPol float64 = defaultChemScale, defaultChemScale, defaultChemScale
	protic := false
	solventType := ""

	if molecule != nil {
		if molecule.PolarityAffinity != nil {
			molPol = *molecule.PolarityAffinity
		}
		if molecule.HydrogenBonding != nil {
			hb = *molecule.HydrogenBonding
		}
	}
	if solvent != nil {
		if solvent.PolarityIndex != nil {
			solPol = *solvent.PolarityIndex
		}
		protic = solvent.IsProtic
		solventType = solvent.SolventType
	}

	score := 100 - math.Abs(solPol-molPol)

	if protic {
		score += (hb - defaultChemScale) * 0.15
	} else {
		score -= (hb - defaultChemScale) * 0.08
	}

	kind := strings.ToLower(strings.TrimSpace(solventType))
	if strings.Contains(kind, "polar") {
		if strings.Contains(kind, "non") {
			score -= (molPol - defaultChemScale) * 0.08
		} else {
			score += (molPol - defaultChemScale) * 0.08
		}
	}

	rounded := int(math.Round(score))
	if rounded < 0 {
		rounded = 0
	}
	if rounded > 100 {
		rounded = 100
	}

	return Solubility{Score: rounded, Label: ScoreLabel(rounded)}
}

// ScoreLabel maps a score to its label by fixed thresholds. The thresholds
// leave no gaps or overlaps: 85 is VERY_HIGH, 84 is HIGH, and so on.
func ScoreLabel(score int) Label {
	switch {
	case score >= 85:
		return LabelVeryHigh
	case score >= 70:
		return LabelHigh
	case score >= 55:
		return LabelMedium
	case score >= 40:
		return LabelLow
	case score >= 25:
		return LabelVeryLow
	default:
		return LabelAlmostNone
	}
}

// RankedSolvent pairs one solvent with its estimate for a fixed molecule.
type RankedSolvent struct {
	Solvent models.Solvent
	Score   int
	Label   Label
}

// RankSolvents scores every solvent against the molecule and orders the
// result descending by score, ties broken by solvent name ascending
// (case-sensitive). The ordering is total and stable, so repeated calls over
// the same unordered set produce identical output.
func RankSolvents(molecule *models.Molecule, solvents []models.Solvent) []RankedSolvent {
	ranked := make([]RankedSolvent, 0, len(solvents))
	for _, solvent := range solvents {
		solvent := solvent
		estimate := EstimateSolubility(molecule, &solvent)
		ranked = append(ranked, RankedSolvent{Solvent: solvent, Score: estimate.Score, Label: estimate.Label})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Solvent.Name < ranked[j].Solvent.Name
	})

	return ranked
}
