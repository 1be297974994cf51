// Package rectify maps a scanned page onto the canonical page frame using the
// located corner marks.
package rectify

import (
	"image"
	"log/slog"

	"github.com/MeKo-Tech/omr/internal/corners"
	"github.com/MeKo-Tech/omr/internal/layout"
	"github.com/MeKo-Tech/omr/internal/utils"
)

// CanonicalSize returns the pixel size of an A4 page at zoom.
func CanonicalSize(zoom float64) (int, int) {
	return int(layout.PageWidthPt * zoom), int(layout.PageHeightPt * zoom)
}

// CanonicalMarks returns where the mark centres land in the canonical frame.
func CanonicalMarks(zoom float64) [4]utils.Point {
	var out [4]utils.Point
	for i, c := range layout.CornerMarkCenters() {
		out[i] = utils.Point{X: c[0] * zoom, Y: c[1] * zoom}
	}
	return out
}

// Result is a page in the canonical frame together with the transform that
// produced it.
type Result struct {
	Image     *image.RGBA
	Transform Transform
}

// Normalize warps img into the canonical frame at zoom. When set is not
// complete, or its points are degenerate, the page is copied unchanged and
// the Identity transform is returned.
func Normalize(img image.Image, set *corners.Set, zoom float64) Result {
	src := utils.CloneRGBA(img)
	if set == nil || !set.Complete() {
		return Result{Image: src, Transform: Identity{}}
	}

	t, ok := NewComputed(set.Points(), CanonicalMarks(zoom))
	if !ok {
		slog.Warn("corner marks are degenerate, using page as scanned")
		return Result{Image: src, Transform: Identity{}}
	}
	_, t.Reconstructed = set.Reconstructed()

	w, h := CanonicalSize(zoom)
	return Result{Image: warpPerspective(src, t, w, h), Transform: t}
}
