package tools

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ecopia-map/seg2ply/internal/converter"
	"github.com/ecopia-map/seg2ply/internal/data"
	"github.com/golang/glog"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Environment variables override config file values, e.g. SEG2PLY_WORKERS=4
const EnvPrefix = "SEG2PLY"

const (
	keyDataRoot          = "data_root"
	keyPredictionsRoot   = "predictions_root"
	keyOutputDir         = "output_dir"
	keyDatasetDirPattern = "dataset_dir_pattern"
	keyPredictionPattern = "prediction_pattern"
	keyOutputPattern     = "output_pattern"
	keyCoordFile         = "coord_file"
	keyColorFile         = "color_file"
	keySegmentFile       = "segment_file"
	keyDiscovery         = "discovery"
	keyFirstIndex        = "first_index"
	keyLastIndex         = "last_index"
	keyWorkers           = "workers"
	keyFailFast          = "fail_fast"
	keyReport            = "report"
	keyPalette           = "palette"
)

// NewConfig builds a viper instance holding the batch defaults, overlaid with
// the YAML file at configFile (if not empty) and SEG2PLY_* environment variables.
func NewConfig(configFile string) (*viper.Viper, error) {
	def := converter.DefaultBatchOptions()

	v := viper.New()
	v.SetDefault(keyDataRoot, def.Layout.DataRoot)
	v.SetDefault(keyPredictionsRoot, def.Layout.PredictionsRoot)
	v.SetDefault(keyOutputDir, def.Layout.OutputDir)
	v.SetDefault(keyDatasetDirPattern, def.Layout.DatasetDirPattern)
	v.SetDefault(keyPredictionPattern, def.Layout.PredictionPattern)
	v.SetDefault(keyOutputPattern, def.Layout.OutputPattern)
	v.SetDefault(keyCoordFile, def.Layout.CoordFile)
	v.SetDefault(keyColorFile, def.Layout.ColorFile)
	v.SetDefault(keySegmentFile, def.Layout.SegmentFile)
	v.SetDefault(keyDiscovery, def.Discovery.String())
	v.SetDefault(keyFirstIndex, def.FirstIndex)
	v.SetDefault(keyLastIndex, def.LastIndex)
	v.SetDefault(keyWorkers, def.Workers)
	v.SetDefault(keyFailFast, def.FailFast)
	v.SetDefault(keyReport, def.ReportPath)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		glog.Infof("Using config file: %v", v.ConfigFileUsed())
	}
	return v, nil
}

// ApplyBatchFlags copies the explicitly given command line flags over the config values.
func ApplyBatchFlags(v *viper.Viper, flags FlagsForCommandBatch) {
	if flags.Visited["data"] {
		v.Set(keyDataRoot, *flags.DataRoot)
	}
	if flags.Visited["predictions"] {
		v.Set(keyPredictionsRoot, *flags.PredictionsRoot)
	}
	if flags.Visited["output"] {
		v.Set(keyOutputDir, *flags.Output)
	}
	if flags.Visited["first"] {
		v.Set(keyFirstIndex, *flags.FirstIndex)
	}
	if flags.Visited["last"] {
		v.Set(keyLastIndex, *flags.LastIndex)
	}
	if flags.Visited["folder"] && *flags.Folder {
		v.Set(keyDiscovery, converter.DiscoveryFolder.String())
	}
	if flags.Visited["workers"] {
		v.Set(keyWorkers, *flags.Workers)
	}
	if flags.Visited["fail-fast"] {
		v.Set(keyFailFast, *flags.FailFast)
	}
	if flags.Visited["report"] {
		v.Set(keyReport, *flags.Report)
	}
}

// BatchOptionsFromConfig reads the batch options out of v.
func BatchOptionsFromConfig(v *viper.Viper) (*converter.BatchOptions, error) {
	opts := converter.DefaultBatchOptions()
	opts.Layout = converter.Layout{
		DataRoot:          v.GetString(keyDataRoot),
		PredictionsRoot:   v.GetString(keyPredictionsRoot),
		OutputDir:         v.GetString(keyOutputDir),
		DatasetDirPattern: v.GetString(keyDatasetDirPattern),
		PredictionPattern: v.GetString(keyPredictionPattern),
		OutputPattern:     v.GetString(keyOutputPattern),
		CoordFile:         v.GetString(keyCoordFile),
		ColorFile:         v.GetString(keyColorFile),
		SegmentFile:       v.GetString(keySegmentFile),
	}
	opts.Discovery = converter.ParseDiscoveryMode(v.GetString(keyDiscovery))
	opts.FirstIndex = v.GetInt(keyFirstIndex)
	opts.LastIndex = v.GetInt(keyLastIndex)
	opts.Workers = v.GetInt(keyWorkers)
	opts.FailFast = v.GetBool(keyFailFast)
	opts.ReportPath = v.GetString(keyReport)

	palette, err := PaletteFromConfig(v)
	if err != nil {
		return nil, err
	}
	opts.Palette = palette

	if msg, ok := ValidateBatchOptions(opts); !ok {
		return nil, fmt.Errorf("invalid batch options: %s", msg)
	}
	return opts, nil
}

// Validates the batch options, returning a message describing the first problem
func ValidateBatchOptions(opts *converter.BatchOptions) (string, bool) {
	if opts.Discovery == "" {
		return "discovery should be either RANGE or FOLDER", false
	}
	if opts.Discovery == converter.DiscoveryRange && opts.FirstIndex > opts.LastIndex {
		return "last dataset number cannot be lower than first dataset number", false
	}
	if opts.Workers < 1 {
		return "workers should be at least 1", false
	}
	if opts.Layout.OutputDir == "" {
		return "output folder not set", false
	}
	if !strings.HasSuffix(strings.ToLower(opts.Layout.OutputPattern), ".ply") {
		return "output pattern should end in .ply", false
	}
	return "", true
}

// PaletteFromConfig returns the palette configured under "palette" as a map
// of label to [r, g, b], or the default palette when the key is absent.
func PaletteFromConfig(v *viper.Viper) (*data.Palette, error) {
	if !v.IsSet(keyPalette) {
		return data.DefaultPalette(), nil
	}

	raw, err := cast.ToStringMapE(v.Get(keyPalette))
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}

	entries := make(map[int]data.Color, len(raw))
	for key, value := range raw {
		label, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("palette label %q is not an integer", key)
		}
		channels, err := cast.ToIntSliceE(value)
		if err != nil || len(channels) != 3 {
			return nil, fmt.Errorf("palette label %d: want [r, g, b], got %v", label, value)
		}
		var c data.Color
		for i, ch := range channels {
			if ch < 0 || ch > 255 {
				return nil, fmt.Errorf("palette label %d: channel value %d out of range 0..255", label, ch)
			}
			c[i] = uint8(ch)
		}
		entries[label] = c
	}
	palette, err := data.NewPalette(entries)
	if err != nil {
		return nil, err
	}
	glog.Infof("Using palette from config with %d labels", palette.Len())
	return palette, nil
}
