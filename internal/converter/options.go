package converter

import (
	"strings"

	"github.com/ecopia-map/seg2ply/internal/data"
)

type DiscoveryMode string

const (
	// Datasets are numbered FirstIndex..LastIndex and paths are built from the layout patterns.
	DiscoveryRange DiscoveryMode = "RANGE"

	// Every direct subfolder of DataRoot holding a coordinate file is a dataset.
	DiscoveryFolder DiscoveryMode = "FOLDER"
)

func (m DiscoveryMode) String() string {
	if m == DiscoveryRange {
		return "RANGE"
	} else if m == DiscoveryFolder {
		return "FOLDER"
	}
	return ""
}

func ParseDiscoveryMode(value string) DiscoveryMode {
	normalizedValue := strings.Trim(strings.ToUpper(value), " ")
	if normalizedValue == "RANGE" {
		return DiscoveryRange
	} else if normalizedValue == "FOLDER" {
		return DiscoveryFolder
	}
	return ""
}

// Placeholders understood by the Layout path patterns
const (
	PlaceholderIndex = "{index}"
	PlaceholderName  = "{name}"
)

// Describes where per dataset inputs live and where outputs go
type Layout struct {
	DataRoot          string // Folder containing one subfolder per dataset
	PredictionsRoot   string // Folder containing prediction files
	OutputDir         string // Folder where ply files are written
	DatasetDirPattern string // Dataset subfolder name, e.g. validation-{index}
	PredictionPattern string // Prediction file name, e.g. Validation-{name}_pred.npy
	OutputPattern     string // Output file name, e.g. pred_{index}.ply
	CoordFile         string // Coordinate file name inside a dataset folder
	ColorFile         string // Color file name inside a dataset folder
	SegmentFile       string // Ground truth label file name inside a dataset folder
}

func DefaultLayout() Layout {
	return Layout{
		DataRoot:          "data",
		PredictionsRoot:   "predictions",
		OutputDir:         "outputs",
		DatasetDirPattern: "validation-{index}",
		PredictionPattern: "Validation-{name}_pred.npy",
		OutputPattern:     "pred_{index}.ply",
		CoordFile:         "coord.npy",
		ColorFile:         "color.npy",
		SegmentFile:       "segment.npy",
	}
}

// Contains the options needed for a batch conversion
type BatchOptions struct {
	Layout     Layout
	Discovery  DiscoveryMode
	FirstIndex int    // First dataset number in RANGE mode
	LastIndex  int    // Last dataset number in RANGE mode, inclusive
	Workers    int    // Number of datasets converted concurrently
	FailFast   bool   // Stop submitting datasets after the first failure
	ReportPath string // Optional YAML run report
	Palette    *data.Palette
}

func DefaultBatchOptions() *BatchOptions {
	return &BatchOptions{
		Layout:     DefaultLayout(),
		Discovery:  DiscoveryRange,
		FirstIndex: 1,
		LastIndex:  4,
		Workers:    1,
		Palette:    data.DefaultPalette(),
	}
}

func (opt *BatchOptions) Copy() *BatchOptions {
	newOpt := *opt
	return &newOpt
}

// Contains the options needed to convert one explicitly named dataset
type ConvertOptions struct {
	Dataset Dataset
	Palette *data.Palette
}
