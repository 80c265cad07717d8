package pkg

import (
	"fmt"
	"path/filepath"

	"github.com/ecopia-map/seg2ply/internal/converter"
	"github.com/ecopia-map/seg2ply/internal/data"
	"github.com/ecopia-map/seg2ply/tools"
)

// Converts the single dataset described by opts, without any folder conventions
func RunConvert(opts *converter.ConvertOptions) (*converter.Result, error) {
	ds := opts.Dataset
	if ds.Name == "" {
		ds.Name = filepath.Base(ds.CoordPath)
	}

	if dir := filepath.Dir(ds.OutputPath); dir != "" {
		if err := tools.CreateDirectoryIfDoesNotExist(dir); err != nil {
			return nil, fmt.Errorf("%w: %w", data.ErrIOFailure, err)
		}
	}

	palette := opts.Palette
	if palette == nil {
		palette = data.DefaultPalette()
	}

	res := converter.ConvertDataset(ds, palette)
	logResult(res)
	if !res.Succeeded() {
		return res, res.Err
	}
	return res, nil
}
