package data

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Array is a dense row-major numeric array as loaded from a .npy file.
// Values of every dtype are widened to float64.
type Array struct {
	Shape []int
	Data  []float64
}

// NewArray wraps data with the given shape, checking that the element count matches.
func NewArray(data []float64, shape ...int) (*Array, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: scalar arrays are not supported", ErrShapeMismatch)
	}
	n := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension in shape %v", ErrShapeMismatch, shape)
		}
		n *= d
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d elements, got %d", ErrShapeMismatch, shape, n, len(data))
	}
	return &Array{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Vector builds a rank 1 array.
func Vector(values ...float64) *Array {
	return &Array{Shape: []int{len(values)}, Data: values}
}

// Matrix builds a rank 2 array from equal length rows.
func Matrix(cols int, rows ...[]float64) *Array {
	d := make([]float64, 0, len(rows)*cols)
	for _, r := range rows {
		d = append(d, r...)
	}
	return &Array{Shape: []int{len(rows), cols}, Data: d}
}

func (a *Array) Rank() int {
	return len(a.Shape)
}

// Len returns the size of the leading axis, i.e. the number of points.
func (a *Array) Len() int {
	if a == nil || len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[0]
}

// RowSize returns the number of values per point.
func (a *Array) RowSize() int {
	if a.Len() == 0 {
		n := 1
		for _, d := range a.Shape[1:] {
			n *= d
		}
		return n
	}
	return len(a.Data) / a.Shape[0]
}

// Row returns a view of the values of point i.
func (a *Array) Row(i int) []float64 {
	w := a.RowSize()
	return a.Data[i*w : (i+1)*w]
}

// ReduceArgmax turns a per-point class score array into one label per point
// by picking the index of the highest score. The first maximum wins on ties.
// Rank 1 and nil arrays are returned unchanged. A row holding a non finite
// score gets a NaN label, which Validate reports after the length checks.
func ReduceArgmax(pred *Array) (*Array, error) {
	if pred == nil || pred.Rank() <= 1 {
		return pred, nil
	}
	if pred.Rank() > 2 {
		return nil, fmt.Errorf("%w: prediction array has rank %d, want 1 or 2", ErrShapeMismatch, pred.Rank())
	}
	if pred.Len() > 0 && pred.Shape[1] == 0 {
		return nil, fmt.Errorf("%w: prediction array has no class axis values", ErrShapeMismatch)
	}

	labels := make([]float64, pred.Len())
	for i := range labels {
		row := pred.Row(i)
		if _, bad := firstNonFinite(row); bad {
			labels[i] = math.NaN()
			continue
		}
		labels[i] = float64(floats.MaxIdx(row))
	}
	return Vector(labels...), nil
}

// Bounds is the axis aligned extent of a set of coordinates.
type Bounds struct {
	Min [3]float64
	Max [3]float64
}

// CoordinateBounds computes the extent of an N x 3 coordinate array.
// The second return value is false for an empty array.
func CoordinateBounds(coords *Array) (Bounds, bool) {
	var b Bounds
	n := coords.Len()
	if n == 0 {
		return b, false
	}
	axis := make([]float64, n)
	for c := 0; c < 3; c++ {
		for i := 0; i < n; i++ {
			axis[i] = coords.Data[i*3+c]
		}
		b.Min[c] = floats.Min(axis)
		b.Max[c] = floats.Max(axis)
	}
	return b, true
}
