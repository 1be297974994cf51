// Package bubble converts printed bubbles into pixel regions and measures how
// strongly each one is filled.
package bubble

import (
	"image"
	"math"

	"github.com/MeKo-Tech/omr/internal/layout"
)

// Scoring geometry relative to the measured bubble radius.
const (
	InnerRatio      = 0.55 // inner disc sampled for ink
	AnnulusInner    = 1.05 // background ring starts just outside the printed outline
	AnnulusOuter    = 1.45
	MinSamples      = 16 // pixels required in each region
	boxPadPx        = 2
	radiusShrinkPx  = 2.0
	minUsableRadius = 1.0
)

// Region is a layout bubble together with its pixel box at one zoom.
type Region struct {
	Circle layout.Circle
	Box    image.Rectangle
}

// RegionAt places c on a canonical page rendered at zoom pixels per point.
// Layout coordinates are y-up; the box is in y-down pixels.
func RegionAt(c layout.Circle, zoom float64) Region {
	x := c.X * zoom
	y := (layout.PageHeightPt - c.Y) * zoom
	r := c.R * zoom
	return Region{
		Circle: c,
		Box: image.Rect(
			int(x-r-boxPadPx), int(y-r-boxPadPx),
			int(x+r+boxPadPx), int(y+r+boxPadPx),
		),
	}
}

// Regions places every circle at zoom.
func Regions(cs []layout.Circle, zoom float64) []Region {
	out := make([]Region, len(cs))
	for i, c := range cs {
		out[i] = RegionAt(c, zoom)
	}
	return out
}

// Score returns the fill score of the bubble inside box: how much darker the
// inner disc is than the ring of paper just outside the printed outline,
// scaled to [0, 1]. Degenerate boxes and regions with too few pixels score 0.
func Score(gray *image.Gray, box image.Rectangle) float64 {
	cx := float64(box.Min.X+box.Max.X) / 2
	cy := float64(box.Min.Y+box.Max.Y) / 2
	r := float64(min(box.Dx(), box.Dy()))/2 - radiusShrinkPx
	if r <= minUsableRadius {
		return 0
	}

	bgR1 := r * AnnulusInner
	bgR2 := r * AnnulusOuter
	innerR := math.Max(1, r*InnerRatio)

	b := gray.Bounds()
	x0 := max(b.Min.X, int(cx-bgR2))
	y0 := max(b.Min.Y, int(cy-bgR2))
	x1 := min(b.Max.X, int(cx+bgR2))
	y1 := min(b.Max.Y, int(cy+bgR2))
	if x1 <= x0 || y1 <= y0 {
		return 0
	}

	inner2, bg1, bg2 := innerR*innerR, bgR1*bgR1, bgR2*bgR2
	var innerSum, bgSum float64
	var innerN, bgN int
	for y := y0; y < y1; y++ {
		row := gray.Pix[(y-gray.Rect.Min.Y)*gray.Stride:]
		dy := float64(y) - cy
		for x := x0; x < x1; x++ {
			dx := float64(x) - cx
			d2 := dx*dx + dy*dy
			v := float64(row[x-gray.Rect.Min.X])
			if d2 <= inner2 {
				innerSum += v
				innerN++
			}
			if d2 >= bg1 && d2 <= bg2 {
				bgSum += v
				bgN++
			}
		}
	}
	if innerN < MinSamples || bgN < MinSamples {
		return 0
	}

	score := (bgSum/float64(bgN) - innerSum/float64(innerN)) / 255
	return math.Min(1, math.Max(0, score))
}

// ScoreAll scores every region.
func ScoreAll(gray *image.Gray, regions []Region) []float64 {
	out := make([]float64, len(regions))
	for i, r := range regions {
		out[i] = Score(gray, r.Box)
	}
	return out
}
