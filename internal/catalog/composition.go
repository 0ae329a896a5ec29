package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// overflowTolerance absorbs floating-point drift in the aggregate check.
const overflowTolerance = 1e-4

// Number decodes a JSON value that should be a number but may arrive as a
// number, a numeric string, null, or not at all. Absent and non-numeric both
// decode to a nil value so the validators can apply their documented
// defaults and diagnostics instead of aborting the whole decode.
type Number struct {
	value *float64
}

// NumberOf wraps a concrete value, mostly for tests and programmatic callers.
func NumberOf(v float64) Number {
	return Number{value: &v}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		n.value = nil
		return nil
	}

	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			n.value = nil
			return nil
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			n.value = nil
			return nil
		}
	}

	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		n.value = nil
		return nil
	}
	n.value = &parsed
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if n.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.value)
}

// Float returns the value and whether one is present.
func (n Number) Float() (float64, bool) {
	if n.value == nil {
		return 0, false
	}
	return *n.value, true
}

// Ptr returns the value as a nullable pointer.
func (n Number) Ptr() *float64 {
	if n.value == nil {
		return nil
	}
	v := *n.value
	return &v
}

// RawCompositionEntry is one caller-supplied row of an ingredient's bill of
// composition, before validation. The JSON tags follow the bulk import
// format.
type RawCompositionEntry struct {
	MoleculeWorldID string `json:"moleculeWorldId"`
	MoleculeName    string `json:"moleculeName"`
	MinWtPercent    Number `json:"minWtPercent"`
	MaxWtPercent    Number `json:"maxWtPercent"`
}

/// CompositionEntry is a validated row: identifiers trimmed, percentages
// concrete and within range.
type CompositionEntry struct {
	MoleculeWorldID string
	MoleculeName    string
	MinWtPercent    float64
	MaxWtPercent    float64
}

// Composition is the cleaned result of validating a bill of composition.
// SumMax is returned for display; the validator has already checked it
// against the 100% budget.
type Composition struct {
	Entries []CompositionEntry
	SumMax  float64
}

/// ValidateComposition is the strict, interactive-edit path: any defect in
// any entry fails the whole operation with a precise diagnostic, before
// anything is written.
//
// Rows with no molecule reference at all are placeholder rows from the
// editing surface and are silently dropped. Weight percentages are ranges,
/// not point values, and their maxima may sum to less than 100: the remaining
// mass is unmodeled filler, which lets a composition stay partially
// specified while content is still being designed.
func ValidateComposition(raw []RawCompositionEntry) (Composition, error) {
	entries := make([]CompositionEntry, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	sumMax := 0.0

	for _, row := range raw {
		worldID := strings.TrimSpace(row.MoleculeWorldID)
		name := strings.TrimSpace(row.MoleculeName)
		if worldID == "" && name == "" {
			continue
		}

		if worldID != "" {
			if _, dup := seen[worldID]; dup {
				return Composition{}, fmt.Errorf("%w: %q", ErrDuplicateMoleculeReference, worldID)
			}
			seen[worldID] = struct{}{}
		}

		minVal, minOK := row.MinWtPercent.Float()
		maxVal, maxOK := row.MaxWtPercent.Float()
		if !minOK || !maxOK {
			return Composition{}, fmt.Errorf("%w: molecule %q: min and max are required", ErrInvalidRange, entryLabel(worldID, name))
		}
		if minVal < 0 || maxVal < 0 || minVal > 100 || maxVal > 100 || minVal > maxVal {
			return Composition{}, fmt.Errorf("%w: molecule %q: min must be <= max, both within 0-100", ErrInvalidRange, entryLabel(worldID, name))
		}

		sumMax += maxVal
		entries = append(entries, CompositionEntry{
			MoleculeWorldID: worldID,
			MoleculeName:    name,
			MinWtPercent:    minVal,
			MaxWtPercent:    maxVal,
		})
	}

	if sumMax > 100+overflowTolerance {
		return Composition{}, fmt.Errorf("%w: sum of max concentrations is %g%%", ErrCompositionOverflow, sumMax)
	}

	return Composition{Entries: entries, SumMax: sumMax}, nil
}

// NormalizeComposition is the lenient bulk-import path. A per-entry defect
// (duplicate reference, missing pair, out-of-range pair) drops that entry and
// counts it instead of failing the ingredient, and a missing min is backfilled
// from max and vice versa. Only the aggregate budget remains fatal: a
// composition whose maxima exceed 100% skips the whole ingredient.
func NormalizeComposition(raw []RawCompositionEntry) (Composition, int, error) {
	entries := make([]CompositionEntry, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	sumMax := 0.0
	dropped := 0

	for _, row := range raw {
		worldID := strings.TrimSpace(row.MoleculeWorldID)
		name := strings.TrimSpace(row.MoleculeName)
		if worldID == "" && name == "" {
			continue
		}

		if worldID != "" {
			if _, dup := seen[worldID]; dup {
				dropped++
				continue
			}
		}

		minVal, minOK := row.MinWtPercent.Float()
		maxVal, maxOK := row.MaxWtPercent.Float()
		switch {
		case !minOK && !maxOK:
			dropped++
			continue
		case !minOK:
			minVal = maxVal
		case !maxOK:
			maxVal = minVal
		}

		if minVal < 0 || maxVal < 0 || minVal > 100 || maxVal > 100 || minVal > maxVal {
			dropped++
			continue
		}

		if worldID != "" {
			seen[worldID] = struct{}{}
		}
		sumMax += maxVal
		entries = append(entries, CompositionEntry{
			MoleculeWorldID: worldID,
			MoleculeName:    name,
			MinWtPercent:    minVal,
			MaxWtPercent:    maxVal,
		})
	}

	if sumMax > 100+overflowTolerance {
		return Composition{}, dropped, fmt.Errorf("%w: sum of max concentrations is %g%%", ErrCompositionOverflow, sumMax)
	}

	return Composition{Entries: entries, SumMax: sumMax}, dropped, nil
}

func entryLabel(worldID, name string) string {
	if worldID != "" {
		return worldID
	}
	return name
}
