// Package pipeline replays a recorded track file through the analysis engine
// and writes the artifact bundle consumed by reporting tools: a manifest,
// the per-fix sample table, loop records, a session summary and an HTML
// report.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marcward/glidetrack"
	"github.com/marcward/glidetrack/fitio"
	"github.com/marcward/glidetrack/gpx"
	"github.com/marcward/glidetrack/track"
)

// Run executes the full glide_analyze pipeline and writes all artifacts.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return nil, fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}

	tuning, err := loadTuning(opts)
	if err != nil {
		return nil, err
	}

	fixes, err := readFixes(opts.InputPath)
	if err != nil {
		return nil, err
	}
	if len(fixes) == 0 {
		return nil, fmt.Errorf("no track points found in %s", opts.InputPath)
	}

	if err := prepareOutDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	session, err := glidetrack.NewSession(tuning)
	if err != nil {
		return nil, err
	}
	samples := make([]glidetrack.Sample, 0, len(fixes))
	for _, f := range fixes {
		samples = append(samples, session.ProcessFix(f))
	}
	loops := session.Loops()
	summary := session.Summary()

	samplesPath := filepath.Join(opts.OutDir, "samples."+format)
	switch format {
	case "csv":
		err = writeSamplesCSV(samplesPath, samples)
	case "parquet":
		err = writeSamplesParquet(samplesPath, samples)
	}
	if err != nil {
		return nil, fmt.Errorf("write samples: %w", err)
	}

	loopsPath := ""
	if len(loops) > 0 {
		loopsPath = filepath.Join(opts.OutDir, "loops.json")
		if err := writeJSON(loopsPath, loopsFile{Loops: loops}); err != nil {
			return nil, fmt.Errorf("write loops.json: %w", err)
		}
	}

	summaryPath := filepath.Join(opts.OutDir, "session_summary.json")
	if err := writeJSON(summaryPath, summary); err != nil {
		return nil, fmt.Errorf("write session_summary.json: %w", err)
	}

	reportPath := filepath.Join(opts.OutDir, "report.html")
	if err := writeReport(reportPath, opts.InputPath, samples, summary); err != nil {
		return nil, fmt.Errorf("write report.html: %w", err)
	}

	sourceHash, err := fileSHA256(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("hash source file: %w", err)
	}
	artifacts := []string{filepath.Base(samplesPath), "session_summary.json", "report.html"}
	if loopsPath != "" {
		artifacts = append(artifacts, "loops.json")
	}
	manifest := Manifest{
		RunID:          uuid.NewString(),
		SourceFile:     filepath.Base(opts.InputPath),
		SourceSHA256:   sourceHash,
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Units:          tuning.Units,
		Format:         format,
		SampleCount:    len(samples),
		LoopCount:      len(loops),
		Artifacts:      artifacts,
	}
	manifestPath := filepath.Join(opts.OutDir, "manifest.json")
	if err := writeJSON(manifestPath, manifest); err != nil {
		return nil, fmt.Errorf("write manifest.json: %w", err)
	}

	return &Result{
		OutputDir:          opts.OutDir,
		ManifestPath:       manifestPath,
		SamplesPath:        samplesPath,
		LoopsPath:          loopsPath,
		SessionSummaryPath: summaryPath,
		ReportPath:         reportPath,
		SampleCount:        len(samples),
		LoopCount:          len(loops),
	}, nil
}

type loopsFile struct {
	Loops []track.Loop `json:"loops"`
}

func loadTuning(opts Options) (glidetrack.Tuning, error) {
	if strings.TrimSpace(opts.TuningPath) != "" {
		return glidetrack.LoadTuning(opts.TuningPath)
	}
	switch opts.Units {
	case "", glidetrack.UnitsImperial:
		return glidetrack.DefaultTuning(), nil
	case glidetrack.UnitsMetric:
		return glidetrack.MetricTuning(), nil
	default:
		return glidetrack.Tuning{}, fmt.Errorf("unsupported units %q", opts.Units)
	}
}

func readFixes(path string) ([]track.Fix, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		doc, err := gpx.Parse(path)
		if err != nil {
			return nil, err
		}
		return doc.Fixes(), nil
	case ".fit":
		return fitio.ReadFile(path)
	default:
		return nil, fmt.Errorf("unsupported input %q (expected .gpx or .fit)", path)
	}
}

func prepareOutDir(dir string, overwrite bool) error {
	if _, err := os.Stat(dir); err == nil && !overwrite {
		return fmt.Errorf("output directory %s already exists (use overwrite)", dir)
	}
	return os.MkdirAll(dir, 0o755)
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
