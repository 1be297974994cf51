package pdf

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // extracted DCT streams
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	_ "golang.org/x/image/tiff" // extracted CCITT/TIFF streams
)

// ScanSource reads a scanned PDF where every page carries one embedded scan
// image, typically what a document scanner produces.
type ScanSource struct {
	Path      string
	PageRange string
	Password  string
}

// Pages implements Source. Every selected page must yield an image.
func (s *ScanSource) Pages(ctx context.Context) ([]Page, error) {
	selection, err := ParsePageRange(s.PageRange)
	if err != nil {
		return nil, fmt.Errorf("invalid page range %q: %w", s.PageRange, err)
	}

	path, cleanup, err := Decrypt(s.Path, s.Password)
	if err != nil {
		return nil, &RasterizeError{Err: err}
	}
	defer cleanup()

	info, err := ReadInfo(path)
	if err != nil {
		return nil, &RasterizeError{Err: err}
	}
	if len(info.Pages) == 0 {
		return nil, ErrNoPages
	}
	wanted, err := selectPages(selection, len(info.Pages))
	if err != nil {
		return nil, &RasterizeError{Err: err}
	}

	images, err := extractImages(ctx, path, wanted)
	if err != nil {
		return nil, &RasterizeError{Err: err}
	}

	pages := make([]Page, 0, len(wanted))
	for _, n := range wanted {
		img := largest(images[n])
		if img == nil {
			return nil, &RasterizeError{Page: n, Err: ErrNoImage}
		}
		box := info.Pages[n-1]
		pages = append(pages, Page{
			Index: n,
			Image: img,
			Zoom:  float64(img.Bounds().Dx()) / box.Width,
		})
	}
	slog.Debug("extracted scan images", "file", s.Path, "pages", len(pages))
	return pages, nil
}

// extractImages runs pdfcpu's image extraction into a temporary directory and
// groups the decoded images by page number.
func extractImages(ctx context.Context, path string, pages []int) (map[int][]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "omr-extract-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	selected := make([]string, len(pages))
	for i, p := range pages {
		selected[i] = strconv.Itoa(p)
	}
	if err := api.ExtractImagesFile(path, tempDir, selected, nil); err != nil {
		return nil, fmt.Errorf("failed to extract images from PDF: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := strings.TrimSuffix(filepath.Base(path), ".pdf")
	return collectExtractedImages(tempDir, prefix)
}

// collectExtractedImages loads every image in dir whose name carries a page
// number and groups them by page.
func collectExtractedImages(dir, prefix string) (map[int][]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	result := make(map[int][]image.Image)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		pageNum, err := parsePageFromFilename(e.Name(), prefix)
		if err != nil {
			continue
		}
		img, err := loadImageFile(filepath.Join(dir, e.Name()))
		if err != nil {
			slog.Debug("skipping unreadable extracted image", "file", e.Name(), "error", err)
			continue
		}
		result[pageNum] = append(result[pageNum], img)
	}
	return result, nil
}

func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from our own temp dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	return img, err
}

// parsePageFromFilename extracts the page number from an extracted image
// name of the form <prefix>_<page>_<id>.<ext>. Older pdfcpu releases use
// "page" as the prefix.
func parsePageFromFilename(filename, prefix string) (int, error) {
	rest, ok := strings.CutPrefix(filename, prefix+"_")
	if !ok {
		rest, ok = strings.CutPrefix(filename, "page_")
	}
	if !ok {
		return 0, errors.New("not a page file")
	}
	num, _, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, errors.New("invalid filename format")
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return 0, errors.New("invalid page number")
	}
	return n, nil
}

// largest returns the image with the most pixels, the scan itself rather
// than any logo or thumbnail on the same page.
func largest(imgs []image.Image) image.Image {
	var best image.Image
	bestArea := 0
	for _, img := range imgs {
		b := img.Bounds()
		if a := b.Dx() * b.Dy(); a > bestArea {
			best, bestArea = img, a
		}
	}
	return best
}
