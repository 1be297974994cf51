package corners

import (
	"image"
	"log/slog"
	"math"

	"github.com/MeKo-Tech/omr/internal/layout"
	"github.com/MeKo-Tech/omr/internal/mempool"
	"github.com/MeKo-Tech/omr/internal/utils"
	"github.com/disintegration/imaging"
)

// Config tunes the mark search.
type Config struct {
	ROIFraction float64 // share of page width/height searched per corner
	BlurSigma   float64 // Gaussian blur before thresholding, 0 disables
	KernelSize  int     // close and median window
	MinAspect   float64 // exclusive bounds on width/height
	MaxAspect   float64
	MinSide     float64 // side bounds relative to the expected mark size
	MaxSide     float64
	MinArea     float64 // relative to expected size squared
	MinFill     float64 // component pixels / bounding box area
}

// DefaultConfig returns the search parameters tuned for the printed marks.
func DefaultConfig() Config {
	return Config{
		ROIFraction: 0.25,
		BlurSigma:   1.1, // 5x5 kernel
		KernelSize:  5,
		MinAspect:   0.6,
		MaxAspect:   1.4,
		MinSide:     0.55,
		MaxSide:     2.0,
		MinArea:     0.15,
		MinFill:     0.6,
	}
}

// EstimateZoom returns the pixels-per-point scale implied by the image size,
// choosing the smaller axis so cropped or padded scans stay conservative.
func EstimateZoom(width, height int) float64 {
	return math.Min(float64(width)/layout.PageWidthPt, float64(height)/layout.PageHeightPt)
}

// Locate searches each page quadrant for its alignment mark. A single missing
// mark is reconstructed; the returned set is complete only when calibration
// is possible.
func Locate(img image.Image, cfg Config) *Set {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	set := &Set{}
	if w == 0 || h == 0 {
		return set
	}

	zoom := EstimateZoom(w, h)
	expected := math.Max(8, layout.CornerMarkSize*zoom)
	center := (layout.CornerMarkMargin + layout.CornerMarkSize/2) * zoom

	rx := int(float64(w) * cfg.ROIFraction)
	ry := int(float64(h) * cfg.ROIFraction)
	rois := [4]image.Rectangle{
		TopLeft:     image.Rect(0, 0, rx, ry),
		TopRight:    image.Rect(w-rx, 0, w, ry),
		BottomRight: image.Rect(w-rx, h-ry, w, h),
		BottomLeft:  image.Rect(0, h-ry, rx, h),
	}

	for _, c := range Corners {
		roi := rois[c]
		if roi.Empty() {
			continue
		}
		target := targetIn(c, roi.Dx(), roi.Dy(), center)
		crop := utils.CropImageRect(img, roi.Add(b.Min))
		p, ok := findMark(crop, expected, target, cfg)
		if !ok {
			continue
		}
		set.Put(c, utils.Point{X: p.X + float64(roi.Min.X), Y: p.Y + float64(roi.Min.Y)})
	}

	found := set.Count()
	if found == 3 {
		set.FillMissing()
	}
	slog.Debug("corner marks located", "found", found, "complete", set.Complete(), "zoom", zoom)
	return set
}

// targetIn returns where the mark centre is expected inside a corner ROI.
func targetIn(c Corner, roiW, roiH int, center float64) utils.Point {
	maxX := float64(max(0, roiW-1))
	maxY := float64(max(0, roiH-1))
	ox := math.Min(math.Max(center, 0), maxX)
	oy := math.Min(math.Max(center, 0), maxY)
	switch c {
	case TopRight:
		return utils.Point{X: maxX - ox, Y: oy}
	case BottomRight:
		return utils.Point{X: maxX - ox, Y: maxY - oy}
	case BottomLeft:
		return utils.Point{X: ox, Y: maxY - oy}
	default:
		return utils.Point{X: ox, Y: oy}
	}
}

// findMark returns the centre of the best square-ish dark blob in roi.
func findMark(roi image.Image, expected float64, target utils.Point, cfg Config) (utils.Point, bool) {
	if cfg.BlurSigma > 0 {
		roi = imaging.Blur(roi, cfg.BlurSigma)
	}
	gray := utils.ToGray(roi)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w == 0 || h == 0 {
		return utils.Point{}, false
	}

	mask := mempool.GetBool(w * h)
	defer mempool.PutBool(mask)
	tmp := mempool.GetBool(w * h)
	defer mempool.PutBool(tmp)

	binarizeInv(gray, otsuThreshold(gray), mask)
	if cfg.KernelSize > 1 {
		closeMask(mask, tmp, w, h, cfg.KernelSize)
		medianMask(mask, tmp, w, h, cfg.KernelSize)
	}

	minSide := expected * cfg.MinSide
	maxSide := expected * cfg.MaxSide
	minArea := expected * expected * cfg.MinArea

	bestScore := -1.0
	var best utils.Point
	for _, bl := range connectedComponents(mask, w, h) {
		area := float64(bl.count)
		if area < minArea {
			continue
		}
		bw, bh := bl.width(), bl.height()
		ar := bw / bh
		if ar <= cfg.MinAspect || ar >= cfg.MaxAspect {
			continue
		}
		if bw < minSide || bh < minSide || bw > maxSide || bh > maxSide {
			continue
		}
		fill := bl.fill()
		if fill < cfg.MinFill {
			continue
		}
		cx, cy := bl.center()
		p := utils.Point{X: cx, Y: cy}
		score := area * fill / (1 + p.Dist(target))
		if score > bestScore {
			bestScore = score
			best = p
		}
	}
	return best, bestScore >= 0
}
