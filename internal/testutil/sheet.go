package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/MeKo-Tech/omr/internal/layout"
	"github.com/disintegration/imaging"
)

// Sheet describes a synthetic answer sheet to render.
type Sheet struct {
	Questions int
	Choices   int
	Zoom      float64 // pixels per point; 200 dpi is 200/72

	Grade   string   // one of 7..12, empty for blank
	Class   string   // every digit in the string is filled, empty for blank
	Seat    string   // top row then bottom row in ascending order; a space leaves a row blank
	Answers []string // per question; "AC" fills two bubbles, "" none

	Ink       uint8   // gray level of filled marks, 0 is black
	FillRatio float64 // filled disc radius relative to the bubble, default 0.8

	// MissingCorner hides one alignment mark (0..3 TL, TR, BR, BL); -1 keeps all.
	MissingCorner int
	// NoCorners drops every alignment mark.
	NoCorners bool

	Border int     // white padding added around the page, in pixels
	Rotate float64 // counter-clockwise rotation in degrees
}

// DefaultSheet returns a blank 3-question, 4-choice sheet at 100 dpi.
func DefaultSheet() Sheet {
	return Sheet{
		Questions:     3,
		Choices:       4,
		Zoom:          100.0 / 72.0,
		FillRatio:     0.8,
		MissingCorner: -1,
	}
}

// PageSize returns the pixel size of the unpadded page at zoom.
func PageSize(zoom float64) (int, int) {
	return int(layout.PageWidthPt * zoom), int(layout.PageHeightPt * zoom)
}

// ToPixel converts a y-up point coordinate to y-down pixels at zoom.
func ToPixel(x, y, zoom float64) (float64, float64) {
	return x * zoom, (layout.PageHeightPt - y) * zoom
}

// RenderSheet draws s as a white page with black alignment marks and filled
// bubbles at their layout positions.
func RenderSheet(s Sheet) (image.Image, error) {
	if s.Zoom <= 0 {
		s.Zoom = 100.0 / 72.0
	}
	if s.FillRatio <= 0 {
		s.FillRatio = 0.8
	}
	l, err := layout.New(s.Questions, s.Choices)
	if err != nil {
		return nil, err
	}

	w, h := PageSize(s.Zoom)
	page := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(page, page.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if !s.NoCorners {
		for i, c := range layout.CornerMarkCenters() {
			if i == s.MissingCorner {
				continue
			}
			half := layout.CornerMarkSize * s.Zoom / 2
			cx, cy := c[0]*s.Zoom, c[1]*s.Zoom
			r := image.Rect(int(cx-half), int(cy-half), int(cx+half), int(cy+half))
			draw.Draw(page, r, image.NewUniform(color.Black), image.Point{}, draw.Src)
		}
	}

	ink := color.Gray{Y: s.Ink}
	mark := func(c layout.Circle) {
		x, y := ToPixel(c.X, c.Y, s.Zoom)
		fillDisc(page, x, y, c.R*s.Zoom*s.FillRatio, ink)
	}

	if s.Grade != "" {
		for i, lbl := range layout.GradeLabels() {
			if lbl == s.Grade {
				mark(layout.GradeBubbles()[i])
			}
		}
	}
	for _, d := range s.Class {
		if d >= '0' && d <= '9' {
			mark(layout.ClassBubbles()[d-'0'])
		}
	}
	if len(s.Seat) == 2 {
		rows := [2][]layout.Circle{layout.SeatRow(true), layout.SeatRow(false)}
		for i, d := range []byte(s.Seat) {
			if d >= '0' && d <= '9' {
				mark(rows[i][d-'0'])
			}
		}
	}
	for q, ans := range s.Answers {
		bubbles := l.Question(q + 1)
		for i, letter := range l.Choices {
			if bubbles != nil && strings.Contains(ans, letter) {
				mark(bubbles[i])
			}
		}
	}

	var out image.Image = page
	if s.Border > 0 {
		canvas := imaging.New(w+2*s.Border, h+2*s.Border, color.White)
		out = imaging.Paste(canvas, page, image.Pt(s.Border, s.Border))
	}
	if s.Rotate != 0 {
		out = imaging.Rotate(out, s.Rotate, color.White)
	}
	return out, nil
}

func fillDisc(dst *image.Gray, cx, cy, r float64, c color.Gray) {
	r2 := r * r
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r2 {
				dst.SetGray(x, y, c)
			}
		}
	}
}
