package corners

import "image"

// otsuThreshold returns the gray level that maximises between-class variance.
// Pixels <= the threshold belong to the dark class.
func otsuThreshold(g *image.Gray) uint8 {
	b := g.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 127
	}

	var histogram [256]int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-g.Rect.Min.Y)*g.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			histogram[row[x-g.Rect.Min.X]]++
		}
	}

	var sumAll float64
	for i, n := range histogram {
		sumAll += float64(i) * float64(n)
	}

	var maxVariance, sumB float64
	best := 0
	wB := 0
	for t := range 256 {
		wB += histogram[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(histogram[t])
		meanB := sumB / float64(wB)
		meanF := (sumAll - sumB) / float64(wF)

		// Between-class variance
		d := meanB - meanF
		variance := float64(wB) * float64(wF) * d * d
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}
	return uint8(best)
}

// binarizeInv marks pixels at or below t as foreground, like an inverse
// binary threshold. The mask comes from mempool and must be returned.
func binarizeInv(g *image.Gray, t uint8, mask []bool) {
	b := g.Bounds()
	w := b.Dx()
	for y := range b.Dy() {
		row := g.Pix[y*g.Stride:]
		for x := range w {
			if row[x] <= t {
				mask[y*w+x] = true
			}
		}
	}
}
