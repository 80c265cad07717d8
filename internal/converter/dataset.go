package converter

import (
	"fmt"

	"github.com/ecopia-map/seg2ply/internal/data"
	"github.com/ecopia-map/seg2ply/internal/loader"
)

// Dataset names the four input arrays of one scene and its output file.
type Dataset struct {
	Name           string
	Index          int
	CoordPath      string
	ColorPath      string
	SegmentPath    string
	PredictionPath string
	OutputPath     string
}

// Input holds the loaded per-point arrays of one dataset.
type Input struct {
	Coords  *data.Array
	Colors  *data.Array
	Pred    *data.Array
	Segment *data.Array
}

// LoadInput reads the four .npy files of ds.
func LoadInput(ds Dataset) (*Input, error) {
	var in Input
	for _, f := range []struct {
		path string
		dst  **data.Array
	}{
		{ds.CoordPath, &in.Coords},
		{ds.ColorPath, &in.Colors},
		{ds.SegmentPath, &in.Segment},
		{ds.PredictionPath, &in.Pred},
	} {
		arr, err := loader.LoadArray(f.path)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
		*f.dst = arr
	}
	return &in, nil
}
