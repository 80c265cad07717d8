package tools

import (
	"flag"

	"github.com/golang/glog"
)

const (
	CommandConvert = "convert"
	CommandBatch   = "batch"
	CommandPalette = "palette"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

type LogFlags struct {
	Silent       *bool `json:"silent"`
	LogTimestamp *bool `json:"timestamp"`
}

type FlagsForCommandConvert struct {
	LogFlags
	Coord   *string `json:"coord"`
	Color   *string `json:"color"`
	Segment *string `json:"segment"`
	Pred    *string `json:"pred"`
	Output  *string `json:"output"`
	Config  *string `json:"config"`
}

type FlagsForCommandBatch struct {
	LogFlags
	Config          *string `json:"config"`
	DataRoot        *string `json:"data_root"`
	PredictionsRoot *string `json:"predictions_root"`
	Output          *string `json:"output_dir"`
	FirstIndex      *int    `json:"first_index"`
	LastIndex       *int    `json:"last_index"`
	Folder          *bool   `json:"folder"`
	Workers         *int    `json:"workers"`
	FailFast        *bool   `json:"fail_fast"`
	Report          *string `json:"report"`

	// long names of the flags given on the command line
	Visited map[string]bool `json:"-"`
}

type FlagsForCommandPalette struct {
	Config *string `json:"config"`
}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "", false, "Displays the version of seg2ply.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func ParseFlagsForCommandConvert(args []string) FlagsForCommandConvert {
	glog.V(1).Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-convert", flag.ExitOnError)

	coord := defineStringFlagCommand(flagCommand, "coord", "c", "", "Specifies the N x 3 coordinate .npy file.")
	color := defineStringFlagCommand(flagCommand, "color", "l", "", "Specifies the N x 3 color .npy file. Only used for consistency checks.")
	segment := defineStringFlagCommand(flagCommand, "segment", "s", "", "Specifies the ground truth label .npy file.")
	pred := defineStringFlagCommand(flagCommand, "pred", "p", "", "Specifies the prediction .npy file, either one label per point or N x C class scores.")
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output .ply file.")
	config := defineStringFlagCommand(flagCommand, "config", "", "", "Optional YAML config file, only the palette is used by this command.")
	silent := defineBoolFlagCommand(flagCommand, "silent", "", false, "Use to suppress all the non-error messages.")
	logTimestamp := defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages.")

	flagCommand.Parse(args)

	return FlagsForCommandConvert{
		LogFlags: LogFlags{
			Silent:       silent,
			LogTimestamp: logTimestamp,
		},
		Coord:   coord,
		Color:   color,
		Segment: segment,
		Pred:    pred,
		Output:  output,
		Config:  config,
	}
}

func ParseFlagsForCommandBatch(args []string) FlagsForCommandBatch {
	glog.V(1).Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-batch", flag.ExitOnError)

	config := defineStringFlagCommand(flagCommand, "config", "", "", "Optional YAML config file with layout, palette and worker settings.")
	dataRoot := defineStringFlagCommand(flagCommand, "data", "d", "data", "Specifies the folder containing one subfolder per dataset.")
	predictionsRoot := defineStringFlagCommand(flagCommand, "predictions", "p", "predictions", "Specifies the folder containing the prediction files.")
	output := defineStringFlagCommand(flagCommand, "output", "o", "outputs", "Specifies the folder where ply files are written. Created if missing.")
	firstIndex := defineIntFlagCommand(flagCommand, "first", "", 1, "First dataset number when datasets are numbered.")
	lastIndex := defineIntFlagCommand(flagCommand, "last", "", 4, "Last dataset number when datasets are numbered, inclusive.")
	folder := defineBoolFlagCommand(flagCommand, "folder", "f", false, "Converts every subfolder of the data folder that holds a coordinate file instead of a numbered range.")
	workers := defineIntFlagCommand(flagCommand, "workers", "w", 1, "Number of datasets converted concurrently.")
	failFast := defineBoolFlagCommand(flagCommand, "fail-fast", "", false, "Stops at the first dataset that fails.")
	report := defineStringFlagCommand(flagCommand, "report", "r", "", "Writes a YAML report of the run to the given file.")
	silent := defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages.")
	logTimestamp := defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages.")

	flagCommand.Parse(args)

	visited := make(map[string]bool)
	shortHands := map[string]string{"d": "data", "p": "predictions", "o": "output", "f": "folder", "w": "workers", "r": "report"}
	flagCommand.Visit(func(f *flag.Flag) {
		if long, ok := shortHands[f.Name]; ok {
			visited[long] = true
			return
		}
		visited[f.Name] = true
	})

	return FlagsForCommandBatch{
		LogFlags: LogFlags{
			Silent:       silent,
			LogTimestamp: logTimestamp,
		},
		Config:          config,
		DataRoot:        dataRoot,
		PredictionsRoot: predictionsRoot,
		Output:          output,
		FirstIndex:      firstIndex,
		LastIndex:       lastIndex,
		Folder:          folder,
		Workers:         workers,
		FailFast:        failFast,
		Report:          report,
		Visited:         visited,
	}
}

func ParseFlagsForCommandPalette(args []string) FlagsForCommandPalette {
	flagCommand := flag.NewFlagSet("command-palette", flag.ExitOnError)
	config := defineStringFlagCommand(flagCommand, "config", "", "", "Optional YAML config file whose palette is printed instead of the default one.")
	flagCommand.Parse(args)

	return FlagsForCommandPalette{Config: config}
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}
