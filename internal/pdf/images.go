package pdf

import (
	"context"

	"github.com/MeKo-Tech/omr/internal/utils"
)

// ImageSource reads one page per image file, in the given order.
type ImageSource struct {
	Paths []string
	// DPI of the scans. When zero the scale is estimated from the image size.
	DPI float64
}

// Pages implements Source.
func (s *ImageSource) Pages(ctx context.Context) ([]Page, error) {
	if len(s.Paths) == 0 {
		return nil, ErrNoPages
	}
	pages := make([]Page, 0, len(s.Paths))
	for i, path := range s.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, _, err := utils.LoadImage(path)
		if err != nil {
			return nil, &RasterizeError{Page: i + 1, Err: err}
		}
		zoom := ZoomForDPI(s.DPI)
		if s.DPI <= 0 {
			zoom = EstimateZoom(img.Bounds())
		}
		pages = append(pages, Page{Index: i + 1, Image: img, Zoom: zoom})
	}
	return pages, nil
}
