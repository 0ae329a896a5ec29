// Package catalog implements the reference, validation and scoring rules of
// the chemworld authoring data set: world-identifier resolution, bill-of-
// composition validation, bulk import/export, and the solubility preview
// heuristic.
package catalog

import "errors"

var (
	// ErrReferenceNotFound reports a world identifier that does not resolve
	// to an existing record. Fatal for the record that carries it.
	ErrReferenceNotFound = errors.New("catalog: reference not found")

	// ErrDuplicateIdentifier reports an attempted creation with a world
	// identifier that is already taken.
	ErrDuplicateIdentifier = errors.New("catalog: world identifier already exists")

	// ErrDuplicateMoleculeReference reports two composition entries of one
	// ingredient citing the same molecule.
	ErrDuplicateMoleculeReference = errors.New("catalog: duplicate molecule reference")

	// ErrInvalidRange reports a composition entry whose weight-percent pair
	// is missing, non-numeric, outside [0,100], or inverted.
	ErrInvalidRange = errors.New("catalog: invalid weight percent range")

	// ErrCompositionOverflow reports a composition whose summed maximum
	// weight percentages exceed 100.
	ErrCompositionOverflow = errors.New("catalog: composition exceeds 100 percent")

	// ErrMalformedInput reports an import payload that is not valid JSON or
	// not the expected object/array shape. Aborts an import before any write.
	ErrMalformedInput = errors.New("catalog: malformed import payload")
)
