package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "omr"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "OMR"
)

// legacyEnv maps configuration keys to the environment variable names used by
// earlier deployments of the scanner.
var legacyEnv = map[string]string{
	"decode.min_score_grade":  "ANSWER_SHEET_MIN_SCORE_GRADE",
	"decode.min_score_class":  "ANSWER_SHEET_MIN_SCORE_CLASS",
	"decode.min_score_seat":   "ANSWER_SHEET_MIN_SCORE_SEAT",
	"decode.min_score_choice": "ANSWER_SHEET_MIN_SCORE_CHOICE",
}

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance, so flags bound by
// the root command take part in resolution.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// NewLoaderWithViper creates a loader on a private viper instance.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{v: v}
}

// Load loads configuration from files, environment variables, and defaults,
// and validates the result.
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithFile("")
}

// LoadWithFile loads configuration from a specific file path. An empty path
// searches the standard locations; a missing file there is not an error.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
	} else {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
	}

	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if config.Verbose {
		config.LogLevel = "debug"
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// Set sets a value in the configuration.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for flag binding.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	for _, p := range GetConfigSearchPaths() {
		l.v.AddConfigPath(p)
	}
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = l.v.BindEnv(key, prefixed, legacy)
	}
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	l.v.SetDefault("sheet.questions", defaults.Sheet.Questions)
	l.v.SetDefault("sheet.choices", defaults.Sheet.Choices)

	l.v.SetDefault("input.dpi", defaults.Input.DPI)
	l.v.SetDefault("input.source", defaults.Input.Source)
	l.v.SetDefault("input.pages", defaults.Input.Pages)
	l.v.SetDefault("input.password", defaults.Input.Password)
	l.v.SetDefault("input.poppler_bin", defaults.Input.PopplerBin)

	l.v.SetDefault("decode.min_score_grade", defaults.Decode.MinScoreGrade)
	l.v.SetDefault("decode.min_score_class", defaults.Decode.MinScoreClass)
	l.v.SetDefault("decode.min_score_seat", defaults.Decode.MinScoreSeat)
	l.v.SetDefault("decode.min_score_choice", defaults.Decode.MinScoreChoice)
	l.v.SetDefault("decode.ambiguity_delta_identity", defaults.Decode.AmbiguityDeltaIdentity)
	l.v.SetDefault("decode.ambiguity_delta_choice", defaults.Decode.AmbiguityDeltaChoice)
	l.v.SetDefault("decode.multi_ratio", defaults.Decode.MultiRatio)
	l.v.SetDefault("decode.faint_ratio", defaults.Decode.FaintRatio)
	l.v.SetDefault("decode.second_floor", defaults.Decode.SecondFloor)
	l.v.SetDefault("decode.seat_convention", defaults.Decode.SeatConvention)

	l.v.SetDefault("image.clahe", defaults.Image.CLAHE)
	l.v.SetDefault("image.clahe_clip", defaults.Image.CLAHEClip)
	l.v.SetDefault("image.clahe_tiles", defaults.Image.CLAHETiles)

	l.v.SetDefault("output.dir", defaults.Output.Dir)
	l.v.SetDefault("output.results", defaults.Output.Results)
	l.v.SetDefault("output.ambiguity", defaults.Output.Ambiguity)
	l.v.SetDefault("output.annotated", defaults.Output.Annotated)
	l.v.SetDefault("output.overlay_dir", defaults.Output.OverlayDir)
	l.v.SetDefault("output.metrics_file", defaults.Output.MetricsFile)
	l.v.SetDefault("output.summary", defaults.Output.Summary)

	l.v.SetDefault("parallel.max_workers", defaults.Parallel.MaxWorkers)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
		paths = append(paths, filepath.Join(home, ".config", "omr"))
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "omr"))
	}

	paths = append(paths, "/etc/omr")

	return paths
}
