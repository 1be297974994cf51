package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/MeKo-Tech/omr/internal/assemble"
	"github.com/MeKo-Tech/omr/internal/pdf"
	"github.com/MeKo-Tech/omr/internal/pipeline"
	"github.com/MeKo-Tech/omr/internal/seat"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// scanFlags maps command-line flags to configuration keys.
var scanFlags = map[string]string{
	"questions":       "sheet.questions",
	"choices":         "sheet.choices",
	"dpi":             "input.dpi",
	"source":          "input.source",
	"pages":           "input.pages",
	"password":        "input.password",
	"poppler-bin":     "input.poppler_bin",
	"seat-convention": "decode.seat_convention",
	"clahe":           "image.clahe",
	"out":             "output.dir",
	"results":         "output.results",
	"ambiguity":       "output.ambiguity",
	"annotated":       "output.annotated",
	"overlay-dir":     "output.overlay_dir",
	"metrics-file":    "output.metrics_file",
	"summary":         "output.summary",
	"workers":         "parallel.max_workers",
}

func newScanCommand(a *app, v *viper.Viper) *cobra.Command {
	var progress bool

	scanCmd := &cobra.Command{
		Use:   "scan <input...>",
		Short: "Decode answer sheets from a scanned PDF or page images",
		Long: `Decode every page of a scanned PDF (or a list of page images, or a
directory of them) into identity fields and answers. Writes the results table, the ambiguity report
and the annotated PDF into the output directory. Nothing is written when
any page fails to decode.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, a, args, progress)
		},
	}

	f := scanCmd.Flags()
	f.Int("questions", 50, "number of questions on the sheet")
	f.Int("choices", 4, "answer choices per question (3-5)")
	f.Float64("dpi", 0, "scan resolution of image inputs (0 estimates it from the page size); pdftoppm resolution (0 means 200)")
	f.String("source", string(pdf.ModeAuto), "page source: "+joinModes())
	f.String("pages", "", "page range for PDF input, e.g. 1-3,5")
	f.String("password", "", "password for encrypted PDF input")
	f.String("poppler-bin", pdf.DefaultPopplerBin, "path to the pdftoppm binary")
	f.String("seat-convention", seat.AscendingNormal.String(), "seat-number encoding preferred on ties: "+joinConventions())
	f.Bool("clahe", true, "apply CLAHE contrast enhancement before scoring")
	f.String("out", ".", "output directory")
	f.String("results", "results.csv", "results table file name")
	f.String("ambiguity", "ambiguity.csv", "ambiguity report file name")
	f.String("annotated", "annotated.pdf", "annotated PDF file name (empty disables)")
	f.String("overlay-dir", "", "also write one annotated PNG per page to this directory")
	f.String("metrics-file", "", "write Prometheus metrics in text format to this file")
	f.Bool("summary", false, "print a YAML document summary to stdout")
	f.Int("workers", 0, "parallel page workers (0 uses all CPUs)")
	f.BoolVar(&progress, "progress", false, "show a progress bar on stderr")

	for flag, key := range scanFlags {
		_ = v.BindPFlag(key, f.Lookup(flag))
	}
	return scanCmd
}

func runScan(cmd *cobra.Command, a *app, args []string, progress bool) error {
	cfg := a.cfg
	ctx := cmd.Context()
	start := time.Now()

	pcfg, err := cfg.ToPipelineConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	builder := pipeline.NewBuilderWithConfig(pcfg)
	if progress {
		builder = builder.WithProgressCallback(pipeline.NewConsoleProgressCallback(cmd.ErrOrStderr(), "Decoding "))
	}
	p, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	opts, err := cfg.SourceOptions()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	inputs, err := pdf.ExpandInputs(args)
	if err != nil {
		return err
	}
	src, err := pdf.Open(inputs, opts)
	if err != nil {
		return err
	}

	slog.Info("scan started", "inputs", len(inputs), "source", opts.Mode, "questions", pcfg.Questions, "choices", pcfg.Choices)
	result, err := p.Run(ctx, src)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if err := writeOutputs(cmd.OutOrStdout(), a, result); err != nil {
		return err
	}

	slog.Info("scan finished",
		"pages", len(result.Document.Pages),
		"persons", len(result.Document.Persons),
		"ambiguities", len(result.Document.Ambiguities),
		"duration", time.Since(start).String())
	return nil
}

// writeOutputs writes every configured output of a completed run.
func writeOutputs(stdout io.Writer, a *app, result *pipeline.Result) error {
	cfg := a.cfg
	doc := result.Document

	resultsPath := cfg.OutputPath(cfg.Output.Results)
	if resultsPath != "" {
		if err := assemble.WriteFile(resultsPath, doc.WriteResults); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		slog.Info("results written", "path", resultsPath)
	}

	ambiguityPath := cfg.OutputPath(cfg.Output.Ambiguity)
	if ambiguityPath != "" {
		if err := assemble.WriteFile(ambiguityPath, doc.WriteAmbiguity); err != nil {
			return fmt.Errorf("write ambiguity report: %w", err)
		}
		slog.Info("ambiguity report written", "path", ambiguityPath, "rows", len(doc.Ambiguities))
	}

	annotatedPath := cfg.OutputPath(cfg.Output.Annotated)
	if annotatedPath != "" {
		err := assemble.WriteFile(annotatedPath, func(w io.Writer) error {
			return pdf.WriteAnnotated(w, result.Annotated)
		})
		if err != nil {
			return fmt.Errorf("write annotated pdf: %w", err)
		}
		slog.Info("annotated pdf written", "path", annotatedPath)
	}

	if dir := cfg.OutputPath(cfg.Output.OverlayDir); dir != "" {
		paths, err := pdf.WriteOverlays(dir, result.Overlays())
		if err != nil {
			return fmt.Errorf("write overlays: %w", err)
		}
		slog.Info("overlays written", "dir", dir, "count", len(paths))
	}

	if path := cfg.OutputPath(cfg.Output.MetricsFile); path != "" {
		if err := pipeline.WriteMetrics(path); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if cfg.Output.Summary {
		if err := doc.WriteSummary(stdout); err != nil {
			return err
		}
	}
	return nil
}

func joinModes() string {
	modes := pdf.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, "|")
}

func joinConventions() string {
	names := make([]string, 0, len(seat.Conventions))
	for _, c := range seat.Conventions {
		names = append(names, c.String())
	}
	return strings.Join(names, "|")
}
