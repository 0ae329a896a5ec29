package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chemworld/models"
)

func testMolecule(polarity, hydrogenBonding float64) *models.Molecule {
	return &models.Molecule{
		WorldID:          "mol_test",
		Name:             "Test Molecule",
		PolarityAffinity: &polarity,
		HydrogenBonding:  &hydrogenBonding,
	}
}

func testSolvent(name string, polarityIndex float64, protic bool, kind string) models.Solvent {
	return models.Solvent{
		WorldID:       "solv_" + name,
		Name:          name,
		SolventType:   kind,
		PolarityIndex: &polarityIndex,
		IsProtic:      protic,
	}
}

func TestEstimateSolubilityProticPolarSolvent(t *testing.T) {
	t.Parallel()

	molecule := testMolecule(80, 70)
	solvent := testSolvent("Purified Rain", 75, true, models.SolventPolarProtic)

	// base 95, hydrogen bonding +3, polar-type affinity +2.4: clamped to 100.
	got := EstimateSolubility(molecule, &solvent)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, LabelVeryHigh, got.Label)
}

func TestEstimateSolubilityAproticPenalty(t *testing.T) {
	t.Parallel()

	molecule := testMolecule(50, 90)
	solvent := testSolvent("Naphtha", 50, false, "")

	// base 100, aprotic penalty -(90-50)*0.08 = -3.2, no type adjustment.
	got := EstimateSolubility(molecule, &solvent)
	assert.Equal(t, 97, got.Score)
	assert.Equal(t, LabelVeryHigh, got.Label)
}

func TestEstimateSolubilityNonPolarInvertsTypeAdjustment(t *testing.T) {
	t.Parallel()

	molecule := testMolecule(90, 50)
	polar := testSolvent("Polar", 80, false, models.SolventPolarAprotic)
	nonPolar := testSolvent("NonPolar", 80, false, models.SolventNonPolar)

	// Identical except for solvent type: (90-50)*0.08 = 3.2 swings sign.
	gotPolar := EstimateSolubility(molecule, &polar)
	gotNonPolar := EstimateSolubility(molecule, &nonPolar)
	assert.Equal(t, 93, gotPolar.Score)
	assert.Equal(t, 87, gotNonPolar.Score)
}

func TestEstimateSolubilityDefaultsMissingProperties(t *testing.T) {
	t.Parallel()

	molecule := &models.Molecule{WorldID: "mol_blank", Name: "Blank"}
	solvent := models.Solvent{WorldID: "solv_blank", Name: "Blank"}

	// Everything defaults to the midpoint, so the estimate is a perfect match.
	got := EstimateSolubility(molecule, &solvent)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, LabelVeryHigh, got.Label)
}

func TestEstimateSolubilityClampsToBounds(t *testing.T) {
	t.Parallel()

	molecule := testMolecule(0, 100)
	solvent := testSolvent("Opposed", 100, false, "")

	// base 0, aprotic penalty -4: clamped to 0.
	got := EstimateSolubility(molecule, &solvent)
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, LabelAlmostNone, got.Label)
}

func TestEstimateSolubilityIsDeterministic(t *testing.T) {
	t.Parallel()

	molecule := testMolecule(63, 27)
	solvent := testSolvent("Repeat", 41, true, models.SolventPolarProtic)

	first := EstimateSolubility(molecule, &solvent)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, EstimateSolubility(molecule, &solvent))
	}
}

func TestScoreLabelThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score int
		want  Label
	}{
		{100, LabelVeryHigh},
		{85, LabelVeryHigh},
		{84, LabelHigh},
		{70, LabelHigh},
		{69, LabelMedium},
		{55, LabelMedium},
		{54, LabelLow},
		{40, LabelLow},
		{39, LabelVeryLow},
		{25, LabelVeryLow},
		{24, LabelAlmostNone},
		{0, LabelAlmostNone},
	}

	for _, tt := range cases {
		assert.Equal(t, tt.want, ScoreLabel(tt.score), "score %d", tt.score)
	}
}

func TestRankSolventsOrdersByScoreThenName(t *testing.T) {
	t.Parallel()

	molecule := testMolecule(80, 50)
	solvents := []models.Solvent{
		testSolvent("Zeta", 80, false, ""),
		testSolvent("Alpha", 80, false, ""),
		testSolvent("Close", 75, false, ""),
		testSolvent("Far", 10, false, ""),
	}

	ranked := RankSolvents(molecule, solvents)
	require.Len(t, ranked, 4)

	// Equal scores fall back to name order.
	assert.Equal(t, "Alpha", ranked[0].Solvent.Name)
	assert.Equal(t, "Zeta", ranked[1].Solvent.Name)
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, "Close", ranked[2].Solvent.Name)
	assert.Equal(t, "Far", ranked[3].Solvent.Name)
	assert.Greater(t, ranked[1].Score, ranked[2].Score)
}

func TestRankSolventsStableAcrossInputOrder(t *testing.T) {
	t.Parallel()

	molecule := testMolecule(60, 40)
	forward := []models.Solvent{
		testSolvent("A", 55, true, models.SolventPolarProtic),
		testSolvent("B", 30, false, models.SolventNonPolar),
		testSolvent("C", 75, false, models.SolventPolarAprotic),
	}
	backward := []models.Solvent{forward[2], forward[1], forward[0]}

	first := RankSolvents(molecule, forward)
	second := RankSolvents(molecule, backward)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Solvent.WorldID, second[i].Solvent.WorldID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}
