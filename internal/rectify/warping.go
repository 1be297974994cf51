package rectify

import (
	"image"

	"github.com/MeKo-Tech/omr/internal/utils"
)

// warpPerspective fills a dstW x dstH canvas by mapping every destination
// pixel back through t and sampling src bilinearly. Samples outside src are
// black.
func warpPerspective(src *image.RGBA, t Transform, dstW, dstH int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	for y := range dstH {
		row := out.Pix[y*out.Stride:]
		for x := range dstW {
			s := t.ToSource(utils.Point{X: float64(x), Y: float64(y)})
			r, g, b := bilinearSample(src, s.X, s.Y)
			i := x * 4
			row[i], row[i+1], row[i+2], row[i+3] = r, g, b, 255
		}
	}
	return out
}

// bilinearSample reads src at a fractional position. src must be anchored at
// the origin.
func bilinearSample(src *image.RGBA, x, y float64) (uint8, uint8, uint8) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if x < 0 || y < 0 || x > float64(w-1) || y > float64(h-1) {
		return 0, 0, 0
	}
	x0, y0 := int(x), int(y)
	x1, y1 := min(x0+1, w-1), min(y0+1, h-1)
	fx, fy := x-float64(x0), y-float64(y0)

	p00 := src.Pix[y0*src.Stride+x0*4:]
	p10 := src.Pix[y0*src.Stride+x1*4:]
	p01 := src.Pix[y1*src.Stride+x0*4:]
	p11 := src.Pix[y1*src.Stride+x1*4:]
	var c [3]uint8
	for k := range 3 {
		top := lerp(float64(p00[k]), float64(p10[k]), fx)
		bot := lerp(float64(p01[k]), float64(p11[k]), fx)
		c[k] = uint8(lerp(top, bot, fy) + 0.5)
	}
	return c[0], c[1], c[2]
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
