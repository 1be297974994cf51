package corners

// dilate sets a pixel when any pixel in its k x k neighbourhood is set.
func dilate(src, dst []bool, w, h, k int) {
	half := k / 2
	for y := range h {
		for x := range w {
			v := false
			for ky := -half; ky <= half && !v; ky++ {
				for kx := -half; kx <= half; kx++ {
					nx, ny := x+kx, y+ky
					if nx >= 0 && nx < w && ny >= 0 && ny < h && src[ny*w+nx] {
						v = true
						break
					}
				}
			}
			dst[y*w+x] = v
		}
	}
}

// erode keeps a pixel only when its whole in-bounds neighbourhood is set.
func erode(src, dst []bool, w, h, k int) {
	half := k / 2
	for y := range h {
		for x := range w {
			v := true
			for ky := -half; ky <= half && v; ky++ {
				for kx := -half; kx <= half; kx++ {
					nx, ny := x+kx, y+ky
					if nx >= 0 && nx < w && ny >= 0 && ny < h && !src[ny*w+nx] {
						v = false
						break
					}
				}
			}
			dst[y*w+x] = v
		}
	}
}

// closeMask fills small gaps (dilate then erode). tmp must be len(mask).
func closeMask(mask, tmp []bool, w, h, k int) {
	dilate(mask, tmp, w, h, k)
	erode(tmp, mask, w, h, k)
}

// medianMask replaces each pixel with the majority of its k x k window, the
// binary equivalent of a median filter. Borders replicate the edge pixel.
func medianMask(mask, tmp []bool, w, h, k int) {
	half := k / 2
	need := k*k/2 + 1
	for y := range h {
		for x := range w {
			n := 0
			for ky := -half; ky <= half; ky++ {
				ny := min(max(y+ky, 0), h-1)
				for kx := -half; kx <= half; kx++ {
					nx := min(max(x+kx, 0), w-1)
					if mask[ny*w+nx] {
						n++
					}
				}
			}
			tmp[y*w+x] = n >= need
		}
	}
	copy(mask, tmp)
}
