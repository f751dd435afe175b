package glidetrack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcward/glidetrack/smooth"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}
	return path
}

func TestLoadTuningPartialOverride(t *testing.T) {
	path := writeTuning(t, `
[velocity]
absolute_max = 40.0
`)
	got, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if got.Velocity.AbsoluteMax != 40 {
		t.Fatalf("absolute_max = %v, want 40", got.Velocity.AbsoluteMax)
	}
	// Untouched fields keep the imperial defaults.
	if got.Velocity.Alpha != 0.6 || got.Units != UnitsImperial {
		t.Fatalf("defaults not preserved: %+v", got)
	}
	if got.Buckets != DefaultBucketConfig() {
		t.Fatalf("bucket defaults not preserved: %+v", got.Buckets)
	}
}

func TestLoadTuningMetricSwitchesSpeedDefaults(t *testing.T) {
	path := writeTuning(t, `units = "metric"`)
	got, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if got.Velocity != smooth.MetricVelocityConfig() {
		t.Fatalf("velocity config = %+v, want metric defaults", got.Velocity)
	}
	if got.Buckets != MetricBucketConfig() {
		t.Fatalf("bucket config = %+v, want metric defaults", got.Buckets)
	}
}

func TestLoadTuningRejectsInvalidValues(t *testing.T) {
	path := writeTuning(t, `
[elevation]
alpha_min = -0.5
`)
	if _, err := LoadTuning(path); err == nil {
		t.Fatal("expected validation error for negative alpha_min")
	}

	path = writeTuning(t, `units = "nautical"`)
	if _, err := LoadTuning(path); err == nil {
		t.Fatal("expected validation error for unknown units")
	}
}

func TestBucketClassification(t *testing.T) {
	cfg := DefaultBucketConfig()
	tests := []struct {
		speed, delta float64
		want         string
	}{
		{0.5, 0, "idle_uphill"},
		{5, -1, "easy_downhill"},
		{12, 2, "medium_uphill"},
		{20, -3, "hard_downhill"},
		{20, 0, "hard_uphill"},
	}
	for _, tc := range tests {
		if got := classify(cfg, tc.speed, tc.delta).String(); got != tc.want {
			t.Fatalf("classify(%v, %v) = %q, want %q", tc.speed, tc.delta, got, tc.want)
		}
	}
}
