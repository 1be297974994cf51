package bubble

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/MeKo-Tech/omr/internal/layout"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func paper(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func disc(g *image.Gray, cx, cy, r float64, v uint8) {
	for y := int(cy - r - 1); y <= int(cy+r+1); y++ {
		for x := int(cx - r - 1); x <= int(cx+r+1); x++ {
			if math.Hypot(float64(x)-cx, float64(y)-cy) <= r {
				g.SetGray(x, y, color.Gray{Y: v})
			}
		}
	}
}

func TestRegionAt(t *testing.T) {
	r := RegionAt(layout.Circle{X: 100, Y: 742, R: 6}, 2)
	// centre (200, 200), radius 12 px, padded by 2
	assert.Equal(t, image.Rect(186, 186, 214, 214), r.Box)
	assert.Len(t, Regions([]layout.Circle{{X: 1, Y: 1, R: 1}, {X: 2, Y: 2, R: 1}}, 1), 2)
}

func TestScore_FilledVersusEmpty(t *testing.T) {
	g := paper(100, 100, 255)
	box := image.Rect(30, 30, 58, 58) // r = 12
	assert.InDelta(t, 0.0, Score(g, box), 1e-9)

	disc(g, 44, 44, 10, 0)
	assert.Greater(t, Score(g, box), 0.9)
}

func TestScore_RelativeToLocalBackground(t *testing.T) {
	// A uniformly dark scan is not a filled bubble.
	g := paper(100, 100, 70)
	box := image.Rect(30, 30, 58, 58)
	assert.InDelta(t, 0.0, Score(g, box), 1e-9)

	// A mark on dark paper still registers against that paper.
	disc(g, 44, 44, 10, 10)
	s := Score(g, box)
	assert.InDelta(t, 60.0/255.0, s, 0.02)
}

func TestScore_LighterInsideClampsToZero(t *testing.T) {
	g := paper(100, 100, 0)
	disc(g, 44, 44, 8, 255)
	assert.Equal(t, 0.0, Score(g, image.Rect(30, 30, 58, 58)))
}

func TestScore_Degenerate(t *testing.T) {
	g := paper(50, 50, 255)
	assert.Equal(t, 0.0, Score(g, image.Rect(10, 10, 15, 15)), "radius too small")
	assert.Equal(t, 0.0, Score(g, image.Rect(200, 200, 240, 240)), "outside the image")
	assert.Equal(t, 0.0, Score(g, image.Rect(10, 10, 18, 18)), "too few inner samples")
}

func TestScore_BoundsProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("score is within [0,1] for any box and content", prop.ForAll(
		func(x, y, size int, bg, ink uint8) bool {
			g := paper(80, 80, bg)
			disc(g, float64(x)+float64(size)/2, float64(y)+float64(size)/2, float64(size)/3, ink)
			s := Score(g, image.Rect(x, y, x+size, y+size))
			return s >= 0 && s <= 1
		},
		gen.IntRange(-20, 90),
		gen.IntRange(-20, 90),
		gen.IntRange(0, 60),
		gen.UInt8(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
