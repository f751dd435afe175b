package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcward/glidetrack"
	"github.com/marcward/glidetrack/geo"
	"github.com/marcward/glidetrack/gpx"
)

// writeSquareCourseGPX builds a synthetic session of three circuits around a
// 40 m square at one fix per second and saves it as a GPX file.
func writeSquareCourseGPX(t *testing.T) string {
	t.Helper()

	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	const speed = 160.0 / 60.0
	points := make([]gpx.Point, 0, 180)
	for i := 0; i < 180; i++ {
		d := math.Mod(speed*float64(i), 160)
		var x, y float64
		switch {
		case d < 40:
			x, y = d, 0
		case d < 80:
			x, y = 40, d-40
		case d < 120:
			x, y = 120-d, 40
		default:
			x, y = 0, 160-d
		}
		points = append(points, gpx.Point{
			Lat:       y / geo.MetersPerDegree,
			Lon:       x / geo.MetersPerDegree,
			Elevation: 1500 - float64(i)*0.1,
			Time:      start.Add(time.Duration(i) * time.Second),
		})
	}

	doc := &gpx.GPX{
		Version: "1.1",
		Creator: "glidetrack-test",
		Tracks: []gpx.Track{{
			Name:     "square course",
			Segments: []gpx.Segment{{Points: points}},
		}},
	}
	path := filepath.Join(t.TempDir(), "square.gpx")
	if err := doc.Write(path); err != nil {
		t.Fatalf("write gpx fixture: %v", err)
	}
	return path
}

func TestRunOnSquareCourseGPX(t *testing.T) {
	inPath := writeSquareCourseGPX(t)
	outDir := filepath.Join(t.TempDir(), "out")

	res, err := Run(Options{
		InputPath: inPath,
		OutDir:    outDir,
		Format:    "csv",
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.SampleCount != 180 {
		t.Fatalf("sample count = %d, want 180", res.SampleCount)
	}
	if res.LoopCount != 3 {
		t.Fatalf("loop count = %d, want 3", res.LoopCount)
	}

	// samples.csv has the expected header and one row per fix.
	f, err := os.Open(res.SamplesPath)
	if err != nil {
		t.Fatalf("open samples: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read samples csv: %v", err)
	}
	if len(rows) != 181 {
		t.Fatalf("got %d csv rows, want header + 180", len(rows))
	}
	for i, col := range sampleHeader {
		if rows[0][i] != col {
			t.Fatalf("header column %d = %q, want %q", i, rows[0][i], col)
		}
	}

	var manifest Manifest
	data, err := os.ReadFile(res.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if manifest.RunID == "" || len(manifest.SourceSHA256) != 64 {
		t.Fatalf("manifest identity incomplete: %+v", manifest)
	}
	if manifest.SampleCount != 180 || manifest.LoopCount != 3 {
		t.Fatalf("manifest counts wrong: %+v", manifest)
	}

	var summary glidetrack.Summary
	data, err = os.ReadFile(res.SessionSummaryPath)
	if err != nil {
		t.Fatalf("read session summary: %v", err)
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("unmarshal session summary: %v", err)
	}
	if summary.LoopCount != 3 || summary.DistanceM < 400 {
		t.Fatalf("summary implausible: %+v", summary)
	}

	loopsData, err := os.ReadFile(res.LoopsPath)
	if err != nil {
		t.Fatalf("read loops.json: %v", err)
	}
	var loops struct {
		Loops []json.RawMessage `json:"loops"`
	}
	if err := json.Unmarshal(loopsData, &loops); err != nil {
		t.Fatalf("unmarshal loops.json: %v", err)
	}
	if len(loops.Loops) != 3 {
		t.Fatalf("loops.json has %d loops, want 3", len(loops.Loops))
	}

	report, err := os.ReadFile(res.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if len(report) == 0 {
		t.Fatal("report.html is empty")
	}
}

func TestRunRefusesExistingOutDir(t *testing.T) {
	inPath := writeSquareCourseGPX(t)
	outDir := t.TempDir() // already exists

	if _, err := Run(Options{InputPath: inPath, OutDir: outDir, Format: "csv"}); err == nil {
		t.Fatal("expected error for existing output directory without overwrite")
	}
	if _, err := Run(Options{InputPath: inPath, OutDir: outDir, Format: "csv", Overwrite: true}); err != nil {
		t.Fatalf("Run with overwrite: %v", err)
	}
}

func TestRunValidatesOptions(t *testing.T) {
	inPath := writeSquareCourseGPX(t)

	if _, err := Run(Options{OutDir: "x"}); err == nil {
		t.Fatal("expected error for missing input path")
	}
	if _, err := Run(Options{InputPath: inPath}); err == nil {
		t.Fatal("expected error for missing output directory")
	}
	if _, err := Run(Options{InputPath: inPath, OutDir: "x", Format: "xlsx"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, err := Run(Options{InputPath: "track.kml", OutDir: "x"}); err == nil {
		t.Fatal("expected error for unsupported input extension")
	}
}

func TestRunMetricUnits(t *testing.T) {
	inPath := writeSquareCourseGPX(t)
	outDir := filepath.Join(t.TempDir(), "out")

	res, err := Run(Options{InputPath: inPath, OutDir: outDir, Format: "csv", Units: "metric"})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var manifest Manifest
	data, err := os.ReadFile(res.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if manifest.Units != "metric" {
		t.Fatalf("manifest units = %q, want metric", manifest.Units)
	}
}
