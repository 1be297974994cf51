//nolint:lll
package config

// Config represents the complete configuration for the omr application.
// It supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Sheet layout
	Sheet SheetConfig `mapstructure:"sheet" yaml:"sheet" json:"sheet"`

	// Input documents
	Input InputConfig `mapstructure:"input" yaml:"input" json:"input"`

	// Field decoding
	Decode DecodeConfig `mapstructure:"decode" yaml:"decode" json:"decode"`

	// Image preprocessing
	Image ImageConfig `mapstructure:"image" yaml:"image" json:"image"`

	// Output files
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Parallel processing
	Parallel ParallelConfig `mapstructure:"parallel" yaml:"parallel" json:"parallel"`
}

// SheetConfig describes the printed sheet revision.
type SheetConfig struct {
	Questions int `mapstructure:"questions" yaml:"questions" json:"questions"`
	Choices   int `mapstructure:"choices" yaml:"choices" json:"choices"`
}

// InputConfig controls how documents are turned into pages.
type InputConfig struct {
	DPI        float64 `mapstructure:"dpi" yaml:"dpi" json:"dpi"`
	Source     string  `mapstructure:"source" yaml:"source" json:"source"`
	Pages      string  `mapstructure:"pages" yaml:"pages" json:"pages"`
	Password   string  `mapstructure:"password" yaml:"password" json:"-"`
	PopplerBin string  `mapstructure:"poppler_bin" yaml:"poppler_bin" json:"poppler_bin"`
}

// DecodeConfig holds the bubble decoding thresholds.
type DecodeConfig struct {
	MinScoreGrade          float64 `mapstructure:"min_score_grade" yaml:"min_score_grade" json:"min_score_grade"`
	MinScoreClass          float64 `mapstructure:"min_score_class" yaml:"min_score_class" json:"min_score_class"`
	MinScoreSeat           float64 `mapstructure:"min_score_seat" yaml:"min_score_seat" json:"min_score_seat"`
	MinScoreChoice         float64 `mapstructure:"min_score_choice" yaml:"min_score_choice" json:"min_score_choice"`
	AmbiguityDeltaIdentity float64 `mapstructure:"ambiguity_delta_identity" yaml:"ambiguity_delta_identity" json:"ambiguity_delta_identity"`
	AmbiguityDeltaChoice   float64 `mapstructure:"ambiguity_delta_choice" yaml:"ambiguity_delta_choice" json:"ambiguity_delta_choice"`
	MultiRatio             float64 `mapstructure:"multi_ratio" yaml:"multi_ratio" json:"multi_ratio"`
	FaintRatio             float64 `mapstructure:"faint_ratio" yaml:"faint_ratio" json:"faint_ratio"`
	SecondFloor            float64 `mapstructure:"second_floor" yaml:"second_floor" json:"second_floor"`
	SeatConvention         string  `mapstructure:"seat_convention" yaml:"seat_convention" json:"seat_convention"`
}

// ImageConfig controls preprocessing before scoring.
type ImageConfig struct {
	CLAHE      bool    `mapstructure:"clahe" yaml:"clahe" json:"clahe"`
	CLAHEClip  float64 `mapstructure:"clahe_clip" yaml:"clahe_clip" json:"clahe_clip"`
	CLAHETiles int     `mapstructure:"clahe_tiles" yaml:"clahe_tiles" json:"clahe_tiles"`
}

// OutputConfig names the files written by a scan.
type OutputConfig struct {
	Dir         string `mapstructure:"dir" yaml:"dir" json:"dir"`
	Results     string `mapstructure:"results" yaml:"results" json:"results"`
	Ambiguity   string `mapstructure:"ambiguity" yaml:"ambiguity" json:"ambiguity"`
	Annotated   string `mapstructure:"annotated" yaml:"annotated" json:"annotated"`
	OverlayDir  string `mapstructure:"overlay_dir" yaml:"overlay_dir" json:"overlay_dir"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file" json:"metrics_file"`
	Summary     bool   `mapstructure:"summary" yaml:"summary" json:"summary"`
}

// ParallelConfig contains parallel processing settings.
type ParallelConfig struct {
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers" json:"max_workers"`
}
