package data

import (
	"math"
)

// BuildRecords zips the per-point arrays into Points in input order.
//
// The display color of every point comes from palette, looked up by the
// predicted label. The colors array only takes part in the length check and
// is never written out. Class score predictions (N x C) are reduced with
// ReduceArgmax first. Labels are truncated toward zero and must fit in 16
// bits, positions must fit in float32; anything else fails with ErrFieldOverflow.
func BuildRecords(coords, colors, pred, segment *Array, palette *Palette) ([]Point, error) {
	pred, err := ReduceArgmax(pred)
	if err != nil {
		return nil, err
	}
	if err := validateShapes(coords, colors, pred, segment); err != nil {
		return nil, err
	}
	if palette == nil {
		palette = DefaultPalette()
	}

	points := make([]Point, coords.Len())
	for i := range points {
		xyz := coords.Row(i)
		var pos [3]float32
		for c := 0; c < 3; c++ {
			if math.Abs(xyz[c]) > math.MaxFloat32 && !math.IsInf(xyz[c], 0) {
				return nil, newValidationError(ErrFieldOverflow, "coords", i*3+c, "%v does not fit in float32", xyz[c])
			}
			pos[c] = float32(xyz[c])
		}

		predLabel, err := labelAt(pred, "pred", i)
		if err != nil {
			return nil, err
		}
		gtLabel, err := labelAt(segment, "segment", i)
		if err != nil {
			return nil, err
		}

		points[i] = NewPoint(pos[0], pos[1], pos[2], palette.ColorFor(predLabel), uint16(predLabel), uint16(gtLabel))
	}
	return points, nil
}

func labelAt(arr *Array, name string, i int) (int, error) {
	v := arr.Data[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, newValidationError(ErrInvalidValue, name, i, "non finite label %v", v)
	}
	t := math.Trunc(v)
	if t < 0 || t > math.MaxUint16 {
		return 0, newValidationError(ErrFieldOverflow, name, i, "label %v does not fit in uint16", v)
	}
	return int(t), nil
}

// LabelHistogram counts points per predicted label.
func LabelHistogram(points []Point) map[int]int {
	hist := make(map[int]int)
	for _, p := range points {
		hist[int(p.PredLabel)]++
	}
	return hist
}
