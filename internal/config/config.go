package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/MeKo-Tech/omr/internal/decode"
	"github.com/MeKo-Tech/omr/internal/pdf"
	"github.com/MeKo-Tech/omr/internal/pipeline"
	"github.com/MeKo-Tech/omr/internal/seat"
	"github.com/MeKo-Tech/omr/internal/utils"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	th := decode.DefaultThresholds()
	clahe := utils.DefaultCLAHEConfig()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Sheet: SheetConfig{
			Questions: 50,
			Choices:   4,
		},
		Input: InputConfig{
			DPI:        0,
			Source:     string(pdf.ModeAuto),
			PopplerBin: pdf.DefaultPopplerBin,
		},
		Decode: DecodeConfig{
			MinScoreGrade:          th.Grade.MinScore,
			MinScoreClass:          th.Class.MinScore,
			MinScoreSeat:           th.Seat.MinScore,
			MinScoreChoice:         th.Choice.MinScore,
			AmbiguityDeltaIdentity: th.Grade.AmbDelta,
			AmbiguityDeltaChoice:   th.Choice.AmbDelta,
			MultiRatio:             th.Choice.MultiRatio,
			FaintRatio:             th.Choice.FaintRatio,
			SecondFloor:            th.Choice.SecondFloor,
			SeatConvention:         seat.AscendingNormal.String(),
		},
		Image: ImageConfig{
			CLAHE:      true,
			CLAHEClip:  clahe.ClipLimit,
			CLAHETiles: clahe.Tiles,
		},
		Output: OutputConfig{
			Dir:       ".",
			Results:   "results.csv",
			Ambiguity: "ambiguity.csv",
			Annotated: "annotated.pdf",
		},
		Parallel: ParallelConfig{
			MaxWorkers: 0,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.Input.DPI < 0 {
		return fmt.Errorf("invalid input dpi: %v (must not be negative)", c.Input.DPI)
	}
	mode, err := pdf.ParseMode(c.Input.Source)
	if err != nil {
		return err
	}
	if mode == pdf.ModePoppler && c.Input.DPI == 0 {
		return fmt.Errorf("invalid input dpi: source %s needs a positive dpi", mode)
	}
	if c.Input.Pages != "" {
		if _, err := pdf.ParsePageRange(c.Input.Pages); err != nil {
			return fmt.Errorf("invalid input pages %q: %w", c.Input.Pages, err)
		}
	}

	thresholds := map[string]float64{
		"decode.min_score_grade":          c.Decode.MinScoreGrade,
		"decode.min_score_class":          c.Decode.MinScoreClass,
		"decode.min_score_seat":           c.Decode.MinScoreSeat,
		"decode.min_score_choice":         c.Decode.MinScoreChoice,
		"decode.ambiguity_delta_identity": c.Decode.AmbiguityDeltaIdentity,
		"decode.ambiguity_delta_choice":   c.Decode.AmbiguityDeltaChoice,
	}
	for _, name := range sortedKeys(thresholds) {
		if err := validateThreshold(thresholds[name], name); err != nil {
			return err
		}
	}
	ratios := map[string]float64{
		"decode.multi_ratio":  c.Decode.MultiRatio,
		"decode.faint_ratio":  c.Decode.FaintRatio,
		"decode.second_floor": c.Decode.SecondFloor,
	}
	for _, name := range sortedKeys(ratios) {
		if err := validateRatio(ratios[name], name); err != nil {
			return err
		}
	}
	if _, err := seat.ParseConvention(c.Decode.SeatConvention); err != nil {
		return err
	}

	if c.Image.CLAHE {
		if c.Image.CLAHEClip < 0 {
			return fmt.Errorf("invalid image.clahe_clip: %v (must not be negative)", c.Image.CLAHEClip)
		}
		if c.Image.CLAHETiles <= 0 {
			return fmt.Errorf("invalid image.clahe_tiles: %d (must be positive)", c.Image.CLAHETiles)
		}
	}

	if c.Parallel.MaxWorkers < 0 {
		return fmt.Errorf("invalid parallel max workers: %d (must not be negative)", c.Parallel.MaxWorkers)
	}
	return nil
}

// Thresholds returns the decoding parameters per field kind.
func (c *Config) Thresholds() decode.Thresholds {
	params := func(minScore, delta float64) decode.Params {
		return decode.Params{
			MinScore:    minScore,
			AmbDelta:    delta,
			MultiRatio:  c.Decode.MultiRatio,
			FaintRatio:  c.Decode.FaintRatio,
			SecondFloor: c.Decode.SecondFloor,
		}
	}
	identity := c.Decode.AmbiguityDeltaIdentity
	return decode.Thresholds{
		Grade:  params(c.Decode.MinScoreGrade, identity),
		Class:  params(c.Decode.MinScoreClass, identity),
		Seat:   params(c.Decode.MinScoreSeat, identity),
		Choice: params(c.Decode.MinScoreChoice, c.Decode.AmbiguityDeltaChoice),
	}
}

// ToPipelineConfig converts the config to the internal pipeline configuration format.
func (c *Config) ToPipelineConfig() (pipeline.Config, error) {
	conv, err := seat.ParseConvention(c.Decode.SeatConvention)
	if err != nil {
		return pipeline.Config{}, err
	}
	cfg := pipeline.DefaultConfig()
	cfg.Questions = c.Sheet.Questions
	cfg.Choices = c.Sheet.Choices
	cfg.Thresholds = c.Thresholds()
	cfg.SeatConvention = conv
	cfg.CLAHE = c.Image.CLAHE
	cfg.CLAHEConfig = utils.CLAHEConfig{ClipLimit: c.Image.CLAHEClip, Tiles: c.Image.CLAHETiles}
	cfg.Parallel.MaxWorkers = c.Parallel.MaxWorkers
	return cfg, nil
}

// SourceOptions returns the options for opening input documents.
func (c *Config) SourceOptions() (pdf.Options, error) {
	mode, err := pdf.ParseMode(c.Input.Source)
	if err != nil {
		return pdf.Options{}, err
	}
	return pdf.Options{
		Mode:       mode,
		DPI:        c.Input.DPI,
		PageRange:  c.Input.Pages,
		Password:   c.Input.Password,
		PopplerBin: c.Input.PopplerBin,
	}, nil
}

// OutputPath resolves an output file name against the output directory.
// Absolute names and empty names are returned unchanged.
func (c *Config) OutputPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Output.Dir, name)
}

// validateThreshold validates that a value is between 0.0 and 1.0.
func validateThreshold(value float64, name string) error {
	if value < 0.0 || value > 1.0 {
		return fmt.Errorf("invalid %s: %.3f (must be between 0.0 and 1.0)", name, value)
	}
	return nil
}

// validateRatio validates that a value is in (0, 1].
func validateRatio(value float64, name string) error {
	if value <= 0.0 || value > 1.0 {
		return fmt.Errorf("invalid %s: %.3f (must be in (0, 1])", name, value)
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
