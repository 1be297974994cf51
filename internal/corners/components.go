package corners

import (
	"github.com/MeKo-Tech/omr/internal/mempool"
)

// blob is a 4-connected foreground component.
type blob struct {
	count                  int
	minX, minY, maxX, maxY int
}

func (b blob) width() float64  { return float64(b.maxX - b.minX + 1) }
func (b blob) height() float64 { return float64(b.maxY - b.minY + 1) }

func (b blob) center() (float64, float64) {
	return float64(b.minX) + b.width()/2, float64(b.minY) + b.height()/2
}

// fill is the share of the bounding box covered by the component.
func (b blob) fill() float64 {
	return float64(b.count) / (b.width() * b.height())
}

// connectedComponents labels 4-connected foreground regions of mask with a
// breadth-first flood fill.
func connectedComponents(mask []bool, w, h int) []blob {
	labels := mempool.GetInt32(w * h)
	defer mempool.PutInt32(labels)

	var blobs []blob
	queue := make([]int, 0, 256)
	label := int32(0)
	for start, set := range mask {
		if !set || labels[start] != 0 {
			continue
		}
		label++
		sx, sy := start%w, start/w
		st := blob{minX: sx, minY: sy, maxX: sx, maxY: sy}
		labels[start] = label
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			ci := queue[0]
			queue = queue[1:]
			cx, cy := ci%w, ci/w
			st.grow(cx, cy)
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := cx+d[0], cy+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				ni := ny*w + nx
				if mask[ni] && labels[ni] == 0 {
					labels[ni] = label
					queue = append(queue, ni)
				}
			}
		}
		blobs = append(blobs, st)
	}
	return blobs
}

func (b *blob) grow(x, y int) {
	b.count++
	b.minX = min(b.minX, x)
	b.minY = min(b.minY, y)
	b.maxX = max(b.maxX, x)
	b.maxY = max(b.maxY, y)
}
