package pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/omr/internal/utils"
)

// Mode selects how input documents are turned into pages.
type Mode string

const (
	ModeAuto      Mode = "auto"
	ModePDFImages Mode = "pdf-images"
	ModePoppler   Mode = "poppler"
	ModeImages    Mode = "images"
)

// Modes lists the accepted source modes.
func Modes() []Mode { return []Mode{ModeAuto, ModePDFImages, ModePoppler, ModeImages} }

// ParseMode validates a mode name; empty means auto.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	for _, m := range Modes() {
		if string(m) == strings.ToLower(s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown source mode %q", s)
}

// DefaultRenderDPI is the pdftoppm resolution used when the automatic
// fallback renders a page and no DPI was configured.
const DefaultRenderDPI = 200

// Options configures Open.
type Options struct {
	Mode Mode
	// DPI is the scan resolution of image inputs and the pdftoppm resolution.
	// Zero estimates the scale of image pages from their size; poppler mode
	// needs a positive value.
	DPI        float64
	PageRange  string
	Password   string
	PopplerBin string
}

// IsPDF reports whether path has a .pdf extension.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Open picks a Source for the inputs: either one PDF or any number of
// image files.
func Open(inputs []string, opts Options) (Source, error) {
	if len(inputs) == 0 {
		return nil, ErrNoPages
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeAuto
	}

	pdfs := 0
	for _, in := range inputs {
		switch {
		case IsPDF(in):
			pdfs++
		case !utils.IsSupportedImage(in):
			return nil, fmt.Errorf("unsupported input %q", in)
		}
	}
	if pdfs > 0 && len(inputs) > 1 {
		return nil, errors.New("a PDF input must be the only input")
	}

	if pdfs == 0 {
		if mode != ModeAuto && mode != ModeImages {
			return nil, fmt.Errorf("source mode %q needs a PDF input", mode)
		}
		return &ImageSource{Paths: inputs, DPI: opts.DPI}, nil
	}

	if opts.DPI < 0 || (mode == ModePoppler && opts.DPI == 0) {
		return nil, fmt.Errorf("source mode %q needs a positive dpi, got %v", mode, opts.DPI)
	}
	renderDPI := opts.DPI
	if renderDPI == 0 {
		renderDPI = DefaultRenderDPI
	}
	scan := &ScanSource{Path: inputs[0], PageRange: opts.PageRange, Password: opts.Password}
	poppler := &PopplerSource{
		Path:      inputs[0],
		DPI:       renderDPI,
		PageRange: opts.PageRange,
		Password:  opts.Password,
		Bin:       opts.PopplerBin,
	}
	switch mode {
	case ModePDFImages:
		return scan, nil
	case ModePoppler:
		return poppler, nil
	case ModeImages:
		return nil, errors.New("source mode images does not accept a PDF input")
	}
	if !PopplerAvailable(opts.PopplerBin) {
		return scan, nil
	}
	return &fallbackSource{primary: scan, secondary: poppler}, nil
}

// fallbackSource tries the embedded scans first and renders the document
// instead when some page has no usable image.
type fallbackSource struct {
	primary   Source
	secondary Source
}

func (s *fallbackSource) Pages(ctx context.Context) ([]Page, error) {
	pages, err := s.primary.Pages(ctx)
	if err == nil || !errors.Is(err, ErrNoImage) {
		return pages, err
	}
	slog.Info("pdf has pages without embedded scans, rendering with poppler", "error", err)
	return s.secondary.Pages(ctx)
}
