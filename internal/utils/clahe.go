package utils

import (
	"image"
	"math"
)

// CLAHEConfig controls contrast-limited adaptive histogram equalisation.
type CLAHEConfig struct {
	ClipLimit float64 // relative to a flat histogram; <=0 disables clipping
	Tiles     int     // tiles per axis
}

// DefaultCLAHEConfig returns the settings used before bubble scoring.
func DefaultCLAHEConfig() CLAHEConfig {
	return CLAHEConfig{ClipLimit: 2.0, Tiles: 16}
}

// CLAHE boosts local contrast of a gray image. Each tile gets a clipped
// equalisation LUT and pixels are bilinearly blended between the four nearest
// tile LUTs, so faint marks separate from paper without amplifying noise on
// flat regions.
func CLAHE(src *image.Gray, cfg CLAHEConfig) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	tx := max(1, min(cfg.Tiles, w))
	ty := max(1, min(cfg.Tiles, h))
	tileW := (w + tx - 1) / tx
	tileH := (h + ty - 1) / ty
	// Recount so that no trailing tile is empty.
	tx = (w + tileW - 1) / tileW
	ty = (h + tileH - 1) / tileH

	luts := make([][256]uint8, tx*ty)
	for j := range ty {
		for i := range tx {
			r := image.Rect(i*tileW, j*tileH, min((i+1)*tileW, w), min((j+1)*tileH, h))
			luts[j*tx+i] = tileLUT(src, b.Min, r, cfg.ClipLimit)
		}
	}

	invW := 1.0 / float64(tileW)
	invH := 1.0 / float64(tileH)
	for y := range h {
		fy := float64(y)*invH - 0.5
		y1 := int(math.Floor(fy))
		ya := fy - float64(y1)
		y2 := y1 + 1
		y1 = clampInt(y1, 0, ty-1)
		y2 = clampInt(y2, 0, ty-1)

		srcRow := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride:]
		dstRow := out.Pix[y*out.Stride:]
		for x := range w {
			fx := float64(x)*invW - 0.5
			x1 := int(math.Floor(fx))
			xa := fx - float64(x1)
			x2 := x1 + 1
			x1 = clampInt(x1, 0, tx-1)
			x2 = clampInt(x2, 0, tx-1)

			v := srcRow[x+b.Min.X-src.Rect.Min.X]
			top := (1-xa)*float64(luts[y1*tx+x1][v]) + xa*float64(luts[y1*tx+x2][v])
			bot := (1-xa)*float64(luts[y2*tx+x1][v]) + xa*float64(luts[y2*tx+x2][v])
			res := (1-ya)*top + ya*bot
			dstRow[x] = uint8(math.Min(255, math.Max(0, math.Round(res))))
		}
	}
	return out
}

func tileLUT(src *image.Gray, origin image.Point, r image.Rectangle, clip float64) [256]uint8 {
	var hist [256]int
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := src.Pix[(y+origin.Y-src.Rect.Min.Y)*src.Stride:]
		for x := r.Min.X; x < r.Max.X; x++ {
			hist[row[x+origin.X-src.Rect.Min.X]]++
		}
	}
	area := r.Dx() * r.Dy()

	if clip > 0 {
		limit := max(1, int(clip*float64(area)/256))
		excess := 0
		for i := range hist {
			if hist[i] > limit {
				excess += hist[i] - limit
				hist[i] = limit
			}
		}
		add := excess / 256
		residual := excess - add*256
		for i := range hist {
			hist[i] += add
		}
		if residual > 0 {
			step := max(1, 256/residual)
			for i := 0; i < 256 && residual > 0; i += step {
				hist[i]++
				residual--
			}
		}
	}

	var lut [256]uint8
	scale := 255.0 / float64(area)
	sum := 0
	for i := range hist {
		sum += hist[i]
		lut[i] = uint8(math.Min(255, math.Round(float64(sum)*scale)))
	}
	return lut
}
