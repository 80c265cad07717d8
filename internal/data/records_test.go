package data

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecords_ColorsComeFromPredictedLabel(t *testing.T) {
	coords := Matrix(3, []float64{1, 2, 3}, []float64{-1.5, 0, 2.25}, []float64{0, 0, 0})
	// raw colors must never reach the output
	colors := Matrix(3, []float64{1, 1, 1}, []float64{2, 2, 2}, []float64{3, 3, 3})
	pred := Vector(7, 0, 42)
	segment := Vector(2, 12, 5)

	points, err := BuildRecords(coords, colors, pred, segment, DefaultPalette())
	require.NoError(t, err)

	want := []Point{
		{X: 1, Y: 2, Z: 3, R: 188, G: 189, B: 35, PredLabel: 7, GtLabel: 2},
		{X: -1.5, Y: 0, Z: 2.25, R: 158, G: 218, B: 228, PredLabel: 0, GtLabel: 12},
		{X: 0, Y: 0, Z: 0, R: 0, G: 0, B: 0, PredLabel: 42, GtLabel: 5},
	}
	if diff := cmp.Diff(want, points); diff != "" {
		t.Errorf("BuildRecords mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRecords_GroundTruthDoesNotColor(t *testing.T) {
	coords := Matrix(3, []float64{0, 0, 0})
	points, err := BuildRecords(coords, Matrix(3, []float64{0, 0, 0}), Vector(1), Vector(6), nil)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, Color{151, 223, 137}, points[0].Color())
	assert.Equal(t, uint16(6), points[0].GtLabel)
}

func TestBuildRecords_ArgmaxPrediction(t *testing.T) {
	coords := Matrix(3, []float64{0, 0, 0}, []float64{1, 1, 1})
	colors := Matrix(3, []float64{0, 0, 0}, []float64{0, 0, 0})
	scores := Matrix(4,
		[]float64{0.1, 0.2, 3.5, -1},
		[]float64{9, 0, 0, 9},
	)
	points, err := BuildRecords(coords, colors, scores, Vector(0, 0), DefaultPalette())
	require.NoError(t, err)

	assert.Equal(t, uint16(2), points[0].PredLabel)
	assert.Equal(t, Color{174, 198, 232}, points[0].Color())
	assert.Equal(t, uint16(0), points[1].PredLabel)
}

func TestBuildRecords_TruncatesFloatLabels(t *testing.T) {
	coords := Matrix(3, []float64{0, 0, 0})
	colors := Matrix(3, []float64{0, 0, 0})
	points, err := BuildRecords(coords, colors, Vector(7.9), Vector(2.2), nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(7), points[0].PredLabel)
	assert.Equal(t, uint16(2), points[0].GtLabel)
}

func TestBuildRecords_FieldOverflow(t *testing.T) {
	tests := []struct {
		name    string
		coords  []float64
		pred    float64
		segment float64
	}{
		{"negative pred", []float64{0, 0, 0}, -1, 0},
		{"pred too large", []float64{0, 0, 0}, 65536, 0},
		{"segment too large", []float64{0, 0, 0}, 0, 70000},
		{"coordinate beyond float32", []float64{0, 1e39, 0}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRecords(Matrix(3, tt.coords), Matrix(3, []float64{0, 0, 0}),
				Vector(tt.pred), Vector(tt.segment), nil)
			assert.ErrorIs(t, err, ErrFieldOverflow)
			assert.Equal(t, "FieldOverflow", ErrorKind(err))
		})
	}
}

func TestBuildRecords_LabelBoundaries(t *testing.T) {
	points, err := BuildRecords(Matrix(3, []float64{0, 0, 0}), Matrix(3, []float64{0, 0, 0}),
		Vector(65535), Vector(0), nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(math.MaxUint16), points[0].PredLabel)
}

func TestBuildRecords_LengthMismatch(t *testing.T) {
	_, err := BuildRecords(Matrix(3, []float64{0, 0, 0}), Matrix(3, []float64{0, 0, 0}),
		Vector(1, 2), Vector(0), nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestBuildRecords_Empty(t *testing.T) {
	points, err := BuildRecords(&Array{Shape: []int{0, 3}}, &Array{Shape: []int{0, 3}}, Vector(), Vector(), nil)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestLabelHistogram(t *testing.T) {
	points := []Point{{PredLabel: 1}, {PredLabel: 1}, {PredLabel: 7}}
	assert.Equal(t, map[int]int{1: 2, 7: 1}, LabelHistogram(points))
}
