package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ecopia-map/seg2ply/internal/converter"
)

type DatasetFinder interface {
	GetDatasetsToProcess(opts *converter.BatchOptions) ([]converter.Dataset, error)
}

type StandardDatasetFinder struct{}

func NewStandardDatasetFinder() DatasetFinder {
	return &StandardDatasetFinder{}
}

func (f *StandardDatasetFinder) GetDatasetsToProcess(opts *converter.BatchOptions) ([]converter.Dataset, error) {
	// In range mode datasets are numbered and their folders are derived from the layout patterns,
	// in folder mode every subfolder of the data root holding a coordinate file is a dataset
	switch opts.Discovery {
	case converter.DiscoveryRange:
		return f.getDatasetsFromRange(opts), nil
	case converter.DiscoveryFolder:
		return f.getDatasetsFromDataRoot(opts)
	}
	return nil, fmt.Errorf("unknown discovery mode %q", opts.Discovery)
}

func (f *StandardDatasetFinder) getDatasetsFromRange(opts *converter.BatchOptions) []converter.Dataset {
	datasets := make([]converter.Dataset, 0, opts.LastIndex-opts.FirstIndex+1)
	for i := opts.FirstIndex; i <= opts.LastIndex; i++ {
		name := expandPattern(opts.Layout.DatasetDirPattern, i, "")
		datasets = append(datasets, NewDataset(opts.Layout, name, i))
	}
	return datasets
}

func (f *StandardDatasetFinder) getDatasetsFromDataRoot(opts *converter.BatchOptions) ([]converter.Dataset, error) {
	entries, err := os.ReadDir(opts.Layout.DataRoot)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if FileExists(filepath.Join(opts.Layout.DataRoot, e.Name(), opts.Layout.CoordFile)) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	datasets := make([]converter.Dataset, 0, len(names))
	for pos, name := range names {
		index, ok := trailingNumber(name)
		if !ok {
			index = pos + 1
		}
		datasets = append(datasets, NewDataset(opts.Layout, name, index))
	}
	return datasets, nil
}

// Resolves the input and output paths of the dataset stored in subfolder name
func NewDataset(layout converter.Layout, name string, index int) converter.Dataset {
	dir := filepath.Join(layout.DataRoot, name)
	return converter.Dataset{
		Name:           name,
		Index:          index,
		CoordPath:      filepath.Join(dir, layout.CoordFile),
		ColorPath:      filepath.Join(dir, layout.ColorFile),
		SegmentPath:    filepath.Join(dir, layout.SegmentFile),
		PredictionPath: filepath.Join(layout.PredictionsRoot, expandPattern(layout.PredictionPattern, index, name)),
		OutputPath:     filepath.Join(layout.OutputDir, expandPattern(layout.OutputPattern, index, name)),
	}
}

func expandPattern(pattern string, index int, name string) string {
	s := strings.ReplaceAll(pattern, converter.PlaceholderIndex, strconv.Itoa(index))
	return strings.ReplaceAll(s, converter.PlaceholderName, name)
}

// trailingNumber parses the digits after the last '-' or '_' of name, e.g. 3 for validation-3
func trailingNumber(name string) (int, bool) {
	i := strings.LastIndexAny(name, "-_")
	if i < 0 || i == len(name)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
