package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MeKo-Tech/omr/internal/config"
	"github.com/MeKo-Tech/omr/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	loader  *config.Loader
	cfg     *config.Config
	cfgFile string
}

// NewRootCommand builds the command tree on v. Every call returns an
// independent tree, so tests can execute commands repeatedly.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	a := &app{loader: config.NewLoaderWithViper(v)}

	rootCmd := &cobra.Command{
		Use:   "omr",
		Short: "Optical mark recognition for scanned answer sheets",
		Long: `Reads scanned bubble answer sheets and produces a results table per
respondent, an ambiguity report of fields that need human review, and an
annotated PDF showing what was read on every page.

Examples:
  omr scan scans.pdf --questions 40 --choices 4
  omr scan page1.png page2.png --dpi 300 --out results/
  omr layout --questions 40 --format json`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is search in ., $HOME, $HOME/.config/omr, /etc/omr)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	_ = v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := a.loader.LoadWithFile(a.cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		a.cfg = cfg
		setupLogging(cmd, cfg.LogLevel)
		if used := a.loader.GetConfigFileUsed(); used != "" {
			slog.Debug("configuration loaded", "file", used)
		}
		return nil
	}

	rootCmd.AddCommand(newScanCommand(a, v))
	rootCmd.AddCommand(newLayoutCommand(a))
	return rootCmd
}

// setupLogging installs a JSON slog handler on stderr at the configured level.
func setupLogging(cmd *cobra.Command, level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// Execute runs the root command on the global viper instance and exits
// non-zero on failure. Interrupts cancel the running scan.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand(viper.GetViper()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
