package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcward/glidetrack/pipeline"
)

func main() {
	var (
		inPath    = flag.String("in", "", "Path to input .gpx or .fit file")
		outDir    = flag.String("out", "", "Output directory")
		tuning    = flag.String("tuning", "", "Optional TOML tuning override file")
		units     = flag.String("units", "", "Display units when no tuning file is given: imperial|metric")
		format    = flag.String("format", "parquet", "Samples artifact format: parquet|csv")
		overwrite = flag.Bool("overwrite", true, "Allow writing into existing output directories")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --in track.gpx --out outdir [--tuning tuning.toml] [--units imperial|metric] [--format parquet|csv]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*inPath) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}

	result, err := pipeline.Run(pipeline.Options{
		InputPath:  *inPath,
		OutDir:     *outDir,
		TuningPath: *tuning,
		Units:      *units,
		Format:     *format,
		Overwrite:  *overwrite,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "glide_analyze failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("glide_analyze complete\n")
	fmt.Printf("Output dir:        %s\n", result.OutputDir)
	fmt.Printf("manifest.json:     %s\n", result.ManifestPath)
	fmt.Printf("samples:           %s\n", result.SamplesPath)
	if result.LoopsPath != "" {
		fmt.Printf("loops.json:        %s\n", result.LoopsPath)
	}
	fmt.Printf("session summary:   %s\n", result.SessionSummaryPath)
	fmt.Printf("report:            %s\n", result.ReportPath)
	fmt.Printf("samples=%d laps=%d\n", result.SampleCount, result.LoopCount)
}
