package pdf

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// OverlayName is the file name of the PNG overlay for a 1-based page index.
func OverlayName(page int) string {
	return fmt.Sprintf("page_%03d.png", page)
}

// WriteOverlays saves one PNG per image into dir and returns the paths.
func WriteOverlays(dir string, images []image.Image) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create overlay directory: %w", err)
	}
	paths := make([]string, 0, len(images))
	for i, img := range images {
		path := filepath.Join(dir, OverlayName(i+1))
		if err := imaging.Save(img, path); err != nil {
			return nil, fmt.Errorf("save overlay %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
