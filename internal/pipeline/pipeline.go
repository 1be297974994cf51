// Package pipeline runs the page stages (corner location, normalization,
// page decoding) over a document and assembles the results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/omr/internal/assemble"
	"github.com/MeKo-Tech/omr/internal/corners"
	"github.com/MeKo-Tech/omr/internal/decode"
	"github.com/MeKo-Tech/omr/internal/layout"
	"github.com/MeKo-Tech/omr/internal/pdf"
	"github.com/MeKo-Tech/omr/internal/rectify"
	"github.com/MeKo-Tech/omr/internal/seat"
	"github.com/MeKo-Tech/omr/internal/sheet"
	"github.com/MeKo-Tech/omr/internal/utils"
)

// Config holds configuration for the OMR pipeline and its components.
type Config struct {
	Questions      int
	Choices        int
	Thresholds     decode.Thresholds
	SeatConvention seat.Convention
	Corners        corners.Config

	// CLAHE enables local contrast boost before scoring.
	CLAHE       bool
	CLAHEConfig utils.CLAHEConfig

	Parallel ParallelConfig
}

// DefaultConfig returns a default pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		Questions:      50,
		Choices:        4,
		Thresholds:     decode.DefaultThresholds(),
		SeatConvention: seat.AscendingNormal,
		Corners:        corners.DefaultConfig(),
		CLAHE:          true,
		CLAHEConfig:    utils.DefaultCLAHEConfig(),
		Parallel:       DefaultParallelConfig(),
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg Config
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// NewBuilderWithConfig creates a builder starting from cfg.
func NewBuilderWithConfig(cfg Config) *Builder { return &Builder{cfg: cfg} }

// WithSheet sets the question and choice counts.
func (b *Builder) WithSheet(questions, choices int) *Builder {
	b.cfg.Questions = questions
	b.cfg.Choices = choices
	return b
}

// WithThresholds replaces the decoding thresholds.
func (b *Builder) WithThresholds(t decode.Thresholds) *Builder {
	b.cfg.Thresholds = t
	return b
}

// WithSeatConvention sets the preferred seat convention.
func (b *Builder) WithSeatConvention(c seat.Convention) *Builder {
	b.cfg.SeatConvention = c
	return b
}

// WithCornerConfig overrides the mark search parameters.
func (b *Builder) WithCornerConfig(c corners.Config) *Builder {
	b.cfg.Corners = c
	return b
}

// WithCLAHE toggles the contrast boost. Non-positive tiles keep the default.
func (b *Builder) WithCLAHE(enabled bool, clip float64, tiles int) *Builder {
	b.cfg.CLAHE = enabled
	b.cfg.CLAHEConfig.ClipLimit = clip
	if tiles > 0 {
		b.cfg.CLAHEConfig.Tiles = tiles
	}
	return b
}

// WithParallelWorkers sets the number of page workers (0 = NumCPU).
func (b *Builder) WithParallelWorkers(workers int) *Builder {
	if workers >= 0 {
		b.cfg.Parallel.MaxWorkers = workers
	}
	return b
}

// WithProgressCallback sets the per-page progress reporter.
func (b *Builder) WithProgressCallback(callback ProgressCallback) *Builder {
	b.cfg.Parallel.ProgressCallback = callback
	return b
}

// Config returns a copy of the current configuration.
func (b *Builder) Config() Config { return b.cfg }

// Build validates the configuration and constructs the pipeline. A layout
// whose rows would be too tight is rejected here, before any page is read.
func (b *Builder) Build() (*Pipeline, error) {
	l, err := layout.New(b.cfg.Questions, b.cfg.Choices)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	proc := sheet.NewProcessor(l)
	proc.Thresholds = b.cfg.Thresholds
	proc.Seat = seat.NewResolver(b.cfg.Thresholds.Seat, b.cfg.SeatConvention)
	proc.CLAHE = nil
	if b.cfg.CLAHE {
		clahe := b.cfg.CLAHEConfig
		proc.CLAHE = &clahe
	}

	return &Pipeline{cfg: b.cfg, layout: l, processor: proc}, nil
}

// Pipeline processes documents page by page. It is safe for concurrent use.
type Pipeline struct {
	cfg       Config
	layout    *layout.Layout
	processor *sheet.Processor
}

// Layout returns the clamped layout the pipeline decodes against.
func (p *Pipeline) Layout() *layout.Layout { return p.layout }

// ProcessPage calibrates, normalizes and decodes one page.
func (p *Pipeline) ProcessPage(ctx context.Context, page pdf.Page) (assemble.PageResult, error) {
	if err := ctx.Err(); err != nil {
		return assemble.PageResult{}, err
	}
	if page.Image == nil || page.Image.Bounds().Empty() {
		return assemble.PageResult{}, &pdf.RasterizeError{Page: page.Index, Err: errors.New("empty page image")}
	}
	zoom := pageZoom(page)

	start := time.Now()
	set := corners.Locate(page.Image, p.cfg.Corners)
	if !set.Complete() {
		slog.Warn("calibration fallback, decoding page as scanned",
			"page", page.Index, "corners", set.Count())
	}
	norm := rectify.Normalize(page.Image, set, zoom)
	pg := p.processor.Process(norm.Image, zoom)
	mode := norm.Transform.Mode()
	elapsed := time.Since(start)

	observePage(mode, pg.Flags, elapsed)
	slog.Debug("page decoded",
		"page", page.Index,
		"calibration", mode,
		"flags", len(pg.Flags),
		"duration", elapsed)

	return assemble.PageResult{Index: page.Index, Page: pg, Calibration: mode}, nil
}

func pageZoom(page pdf.Page) float64 {
	if page.Zoom > 0 {
		return page.Zoom
	}
	return pdf.EstimateZoom(page.Image.Bounds())
}

// Result is a fully processed document.
type Result struct {
	Document *assemble.Document
	// Annotated holds the annotated canonical image of every page, in order.
	Annotated []pdf.AnnotatedPage
}

// Overlays returns the annotated images in page order.
func (r *Result) Overlays() []image.Image {
	out := make([]image.Image, len(r.Annotated))
	for i, a := range r.Annotated {
		out[i] = a.Image
	}
	return out
}

// ProcessDocument processes every page and assembles the document. Any page
// error aborts the whole document.
func (p *Pipeline) ProcessDocument(ctx context.Context, pages []pdf.Page) (*Result, error) {
	if len(pages) == 0 {
		return nil, pdf.ErrNoPages
	}
	results, err := p.ProcessPages(ctx, pages)
	if err != nil {
		return nil, err
	}

	doc := assemble.Assemble(p.layout.Questions, results)
	annotated := make([]pdf.AnnotatedPage, len(results))
	for i, r := range results {
		annotated[i] = pdf.AnnotatedPage{Image: r.Page.Overlay, Zoom: pageZoom(pages[i])}
	}
	documentsProcessed.Inc()
	slog.Info("document processed",
		"pages", len(results),
		"persons", len(doc.Persons),
		"flags", len(doc.Ambiguities))
	return &Result{Document: doc, Annotated: annotated}, nil
}

// Run reads every page from src and processes the document.
func (p *Pipeline) Run(ctx context.Context, src pdf.Source) (*Result, error) {
	pages, err := src.Pages(ctx)
	if err != nil {
		return nil, err
	}
	return p.ProcessDocument(ctx, pages)
}
