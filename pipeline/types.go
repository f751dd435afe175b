package pipeline

// Options configures the glide_analyze pipeline.
type Options struct {
	// InputPath is a .gpx or .fit track file.
	InputPath string
	// OutDir receives the artifact bundle. It must not already exist unless
	// Overwrite is set.
	OutDir string
	// TuningPath optionally points at a TOML tuning override file.
	TuningPath string
	// Units selects the display unit system ("imperial"|"metric") when no
	// tuning file is given. Empty means imperial.
	Units string
	// Format chooses the samples artifact encoding: parquet (default) or csv.
	Format    string
	Overwrite bool
}

// Result returns generated output paths.
type Result struct {
	OutputDir          string `json:"output_dir"`
	ManifestPath       string `json:"manifest_path"`
	SamplesPath        string `json:"samples_path"`
	LoopsPath          string `json:"loops_path,omitempty"`
	SessionSummaryPath string `json:"session_summary_path"`
	ReportPath         string `json:"report_path"`

	SampleCount int `json:"sample_count"`
	LoopCount   int `json:"loop_count"`
}

// Manifest describes one pipeline run and its artifacts.
type Manifest struct {
	RunID          string   `json:"run_id"`
	SourceFile     string   `json:"source_file"`
	SourceSHA256   string   `json:"source_sha256"`
	GeneratedAtUTC string   `json:"generated_at_utc"`
	Units          string   `json:"units"`
	Format         string   `json:"format"`
	SampleCount    int      `json:"sample_count"`
	LoopCount      int      `json:"loop_count"`
	Artifacts      []string `json:"artifacts"`
}
