// Package pdf turns input documents into page images and writes the
// annotated audit PDF.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/MeKo-Tech/omr/internal/layout"
)

// ErrNoPages is returned when an input yields no pages at all.
var ErrNoPages = errors.New("pdf: document has no pages")

// ErrNoImage is wrapped by RasterizeError when a page carries no scan image.
var ErrNoImage = errors.New("page has no embedded scan image")

// RasterizeError reports a page that could not be turned into an image.
// Page is 1-based; 0 means the whole document.
type RasterizeError struct {
	Page int
	Err  error
}

func (e *RasterizeError) Error() string {
	if e.Page == 0 {
		return fmt.Sprintf("rasterize document: %v", e.Err)
	}
	return fmt.Sprintf("rasterize page %d: %v", e.Page, e.Err)
}

func (e *RasterizeError) Unwrap() error { return e.Err }

// Page is one rasterized page. Zoom is the pixels-per-point scale the image
// was produced at; Index is the 1-based page number in the source document,
// so a page range keeps the numbers of the selected pages.
type Page struct {
	Index int
	Image image.Image
	Zoom  float64
}

// Source produces every page of a document. Implementations either return
// all pages or an error; there are no partial results.
type Source interface {
	Pages(ctx context.Context) ([]Page, error)
}

// ZoomForDPI converts a rendering resolution into pixels per point.
func ZoomForDPI(dpi float64) float64 { return dpi / 72.0 }

// EstimateZoom infers pixels per point from an A4 page image, taking the
// smaller axis.
func EstimateZoom(b image.Rectangle) float64 {
	return math.Min(float64(b.Dx())/layout.PageWidthPt, float64(b.Dy())/layout.PageHeightPt)
}
