package data

import "math"

// Validate checks the four parallel per-point arrays before anything is encoded.
// Checks run in order: equal lengths and usable shapes, finite coordinates,
// then finite colors, predictions and ground truth labels. The first failure
// is returned as a *ValidationError wrapping one of ErrShapeMismatch,
// ErrInvalidCoordinate or ErrInvalidValue. Empty inputs are valid.
func Validate(coords, colors, pred, segment *Array) error {
	if err := validateShapes(coords, colors, pred, segment); err != nil {
		return err
	}

	for i, v := range coords.Data {
		if math.IsNaN(v) {
			return newValidationError(ErrInvalidCoordinate, "coords", i, "NaN value")
		}
		if math.IsInf(v, 0) {
			return newValidationError(ErrInvalidCoordinate, "coords", i, "infinite value %v", v)
		}
	}

	for _, named := range []struct {
		name string
		arr  *Array
	}{
		{"colors", colors},
		{"pred", pred},
		{"segment", segment},
	} {
		if i, ok := firstNonFinite(named.arr.Data); ok {
			return newValidationError(ErrInvalidValue, named.name, i, "non finite value %v", named.arr.Data[i])
		}
	}

	return nil
}

func validateShapes(coords, colors, pred, segment *Array) error {
	for _, named := range []struct {
		name string
		arr  *Array
	}{
		{"coords", coords},
		{"colors", colors},
		{"pred", pred},
		{"segment", segment},
	} {
		if named.arr == nil || named.arr.Rank() == 0 {
			return newValidationError(ErrShapeMismatch, named.name, -1, "missing or scalar array")
		}
	}

	n := coords.Len()
	if colors.Len() != n || pred.Len() != n || segment.Len() != n {
		return newValidationError(ErrShapeMismatch, "inputs", -1,
			"data length mismatch: coords=%d colors=%d pred=%d segment=%d",
			coords.Len(), colors.Len(), pred.Len(), segment.Len())
	}

	if coords.Rank() != 2 || coords.Shape[1] != 3 {
		return newValidationError(ErrShapeMismatch, "coords", -1, "shape %v, want (N, 3)", coords.Shape)
	}
	if pred.RowSize() != 1 {
		return newValidationError(ErrShapeMismatch, "pred", -1, "shape %v, want one label per point", pred.Shape)
	}
	if segment.RowSize() != 1 {
		return newValidationError(ErrShapeMismatch, "segment", -1, "shape %v, want one label per point", segment.Shape)
	}
	return nil
}

func firstNonFinite(values []float64) (int, bool) {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i, true
		}
	}
	return -1, false
}
