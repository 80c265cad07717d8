/*
 * This file is part of the Go Cesium Point Cloud Tiler distribution (https://github.com/mfbonfigli/gocesiumtiler).
 * Copyright (c) 2019 Massimo Federico Bonfigli - m.federico.bonfigli@gmail.com
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 *
 * This software also uses third party components. You can find information
 * on their credits and licensing in the file LICENSE-3RD-PARTIES.md that
 * you should have received togheter with the source code.
 */

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ecopia-map/seg2ply/internal/converter"
	"github.com/ecopia-map/seg2ply/pkg"
	"github.com/ecopia-map/seg2ply/tools"
	"github.com/golang/glog"
)

const VERSION = "1.0.0"

const logo = `
                 ___        _
  ___  ___  __ _|_  )_ __  | |_  _
 (_-< / -_)/ _` + "`" + ` |/ /| '_ \ | | || |
 /__/ \___|\__, /___| .__/ |_|\_, |
           |___/    |_|       |__/
  Semantic segmentation predictions to binary PLY
`

func main() {
	// log to stderr unless the user asks otherwise
	_ = flag.Set("logtostderr", "true")

	flagsGlobal := tools.ParseFlagsGlobal()
	defer glog.Flush()

	if *flagsGlobal.Help {
		showHelp()
		return
	}
	if *flagsGlobal.Version {
		printVersion()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		exit("Please specify a subcommand [convert|batch|palette].")
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case tools.CommandConvert:
		mainCommandConvert(args)
	case tools.CommandBatch:
		mainCommandBatch(args)
	case tools.CommandPalette:
		mainCommandPalette(args)
	default:
		exit(fmt.Sprintf("Unrecognized command [%q]. Command must be one of [convert|batch|palette]", cmd))
	}
}

func mainCommandConvert(args []string) {
	flags := tools.ParseFlagsForCommandConvert(args)
	setupLogger(flags.LogFlags)

	v, err := tools.NewConfig(*flags.Config)
	if err != nil {
		exit("Error reading config: " + err.Error())
	}
	palette, err := tools.PaletteFromConfig(v)
	if err != nil {
		exit("Error reading palette: " + err.Error())
	}

	// Put args inside a ConvertOptions struct
	opts := converter.ConvertOptions{
		Dataset: converter.Dataset{
			CoordPath:      *flags.Coord,
			ColorPath:      *flags.Color,
			SegmentPath:    *flags.Segment,
			PredictionPath: *flags.Pred,
			OutputPath:     *flags.Output,
		},
		Palette: palette,
	}

	if msg, res := validateOptionsForCommandConvert(&opts); !res {
		exit("Error parsing input parameters: " + msg)
	}

	defer timeTrack(time.Now(), "conversion")
	if _, err := pkg.RunConvert(&opts); err != nil {
		exit("Error while converting: " + err.Error())
	}
	tools.LogOutput("Conversion Completed")
}

// Validates the input options provided to the convert command checking
// that the input files exist and an output file is given
func validateOptionsForCommandConvert(opts *converter.ConvertOptions) (string, bool) {
	ds := opts.Dataset
	for _, in := range []struct{ flag, path string }{
		{"coord", ds.CoordPath},
		{"color", ds.ColorPath},
		{"segment", ds.SegmentPath},
		{"pred", ds.PredictionPath},
	} {
		if in.path == "" {
			return "-" + in.flag + " is required", false
		}
		if !tools.FileExists(in.path) {
			return "Input file not found: " + in.path, false
		}
	}
	if ds.OutputPath == "" {
		return "-output is required", false
	}
	if !strings.HasSuffix(strings.ToLower(ds.OutputPath), ".ply") {
		return "Output file should have the .ply extension", false
	}
	return "", true
}

func mainCommandBatch(args []string) {
	flags := tools.ParseFlagsForCommandBatch(args)
	setupLogger(flags.LogFlags)

	v, err := tools.NewConfig(*flags.Config)
	if err != nil {
		exit("Error reading config: " + err.Error())
	}
	tools.ApplyBatchFlags(v, flags)

	opts, err := tools.BatchOptionsFromConfig(v)
	if err != nil {
		exit("Error parsing input parameters: " + err.Error())
	}
	if _, err := os.Stat(opts.Layout.DataRoot); os.IsNotExist(err) {
		exit("Data folder not found: " + opts.Layout.DataRoot)
	}

	defer timeTrack(time.Now(), "batch")
	if _, err := pkg.NewBatch(tools.NewStandardDatasetFinder()).RunBatch(opts); err != nil {
		exit("Error while converting: " + err.Error())
	}
	tools.LogOutput("Conversion Completed")
}

func mainCommandPalette(args []string) {
	flags := tools.ParseFlagsForCommandPalette(args)

	v, err := tools.NewConfig(*flags.Config)
	if err != nil {
		exit("Error reading config: " + err.Error())
	}
	palette, err := tools.PaletteFromConfig(v)
	if err != nil {
		exit("Error reading palette: " + err.Error())
	}
	for _, label := range palette.Labels() {
		c := palette.ColorFor(label)
		fmt.Printf("%3d: %3d %3d %3d\n", label, c[0], c[1], c[2])
	}
}

func setupLogger(flags tools.LogFlags) {
	if *flags.Silent {
		tools.DisableLogger()
	} else {
		tools.EnableLogger()
		printLogo()
	}
	if *flags.LogTimestamp {
		tools.EnableLoggerTimestamp()
	} else {
		tools.DisableLoggerTimestamp()
	}
}

func exit(msg string) {
	glog.Error(msg)
	glog.Flush()
	log.SetFlags(0)
	log.Fatal(msg)
}

func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	glog.Infof("%s took %s", name, elapsed)
}

func printLogo() {
	fmt.Print(logo)
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("seg2ply converts per point coordinates and predicted labels of a semantic segmentation model into binary PLY files colored by predicted class")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Usage: seg2ply [global flags] convert|batch|palette [command flags]")
	fmt.Println("Global flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
