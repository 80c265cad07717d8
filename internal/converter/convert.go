package converter

import (
	"fmt"
	"strings"

	"github.com/ecopia-map/seg2ply/internal/data"
	"github.com/ecopia-map/seg2ply/internal/ply"
	"github.com/golang/glog"
	"github.com/shopspring/decimal"
)

// Result describes the outcome of converting one dataset
type Result struct {
	Dataset   Dataset
	NumPoints int
	Bytes     int64
	Histogram map[int]int
	Bounds    data.Bounds
	HasBounds bool
	Sample    *data.Point
	Err       error
}

func (r *Result) Succeeded() bool {
	return r.Err == nil
}

// Convert validates the input arrays, recolors every point by its predicted
// label and writes the binary PLY file at outputPath. Nothing is written when
// validation or record assembly fails.
func Convert(in *Input, outputPath string, palette *data.Palette) (*Result, error) {
	pred, err := data.ReduceArgmax(in.Pred)
	if err != nil {
		return nil, err
	}
	if pred != in.Pred {
		glog.V(1).Infof("reduced class scores %v to labels by argmax", in.Pred.Shape)
	}

	if err := data.Validate(in.Coords, in.Colors, pred, in.Segment); err != nil {
		return nil, err
	}

	points, err := data.BuildRecords(in.Coords, in.Colors, pred, in.Segment, palette)
	if err != nil {
		return nil, err
	}

	n, err := ply.WritePlyFile(outputPath, points)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Dataset:   Dataset{OutputPath: outputPath},
		NumPoints: len(points),
		Bytes:     n,
		Histogram: data.LabelHistogram(points),
	}
	res.Bounds, res.HasBounds = data.CoordinateBounds(in.Coords)
	if len(points) > 0 {
		sample := points[0]
		res.Sample = &sample
	}
	return res, nil
}

// ConvertDataset loads ds from disk and converts it. The returned Result is
// never nil; its Err field carries the failure.
func ConvertDataset(ds Dataset, palette *data.Palette) *Result {
	in, err := LoadInput(ds)
	if err != nil {
		return &Result{Dataset: ds, Err: err}
	}

	res, err := Convert(in, ds.OutputPath, palette)
	if err != nil {
		return &Result{Dataset: ds, Err: fmt.Errorf("dataset %s: %w", ds.Name, err)}
	}
	res.Dataset = ds
	return res
}

// FormatSampleVertex renders a point as [x y z r g b pred gt] with
// coordinates in fixed six decimal notation.
func FormatSampleVertex(p data.Point) string {
	c := p.Color()
	fields := []string{
		decimal.NewFromFloat32(p.X).StringFixed(6),
		decimal.NewFromFloat32(p.Y).StringFixed(6),
		decimal.NewFromFloat32(p.Z).StringFixed(6),
		decimal.NewFromInt(int64(c[0])).String(),
		decimal.NewFromInt(int64(c[1])).String(),
		decimal.NewFromInt(int64(c[2])).String(),
		decimal.NewFromInt(int64(p.PredLabel)).String(),
		decimal.NewFromInt(int64(p.GtLabel)).String(),
	}
	return "[" + strings.Join(fields, " ") + "]"
}
