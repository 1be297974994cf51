package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/omr/internal/utils"
)

// DefaultPopplerBin is the poppler rasterizer looked up on PATH.
const DefaultPopplerBin = "pdftoppm"

// PopplerSource renders every page of a PDF with pdftoppm at a fixed DPI.
// It serves vector PDFs and scans whose embedded images pdfcpu cannot decode.
type PopplerSource struct {
	Path      string
	DPI       float64
	PageRange string
	Password  string
	Bin       string
}

// PopplerAvailable reports whether bin (or pdftoppm) can be executed.
func PopplerAvailable(bin string) bool {
	if bin == "" {
		bin = DefaultPopplerBin
	}
	_, err := exec.LookPath(bin)
	return err == nil
}

// Pages implements Source.
func (s *PopplerSource) Pages(ctx context.Context) ([]Page, error) {
	if s.DPI <= 0 {
		return nil, &RasterizeError{Err: fmt.Errorf("invalid dpi %v", s.DPI)}
	}
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

	workDir, err := os.MkdirTemp("", "omr-render-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	pages := make([]Page, 0, len(wanted))
	for _, n := range wanted {
		file, err := s.renderPage(ctx, path, workDir, n)
		if err != nil {
			return nil, &RasterizeError{Page: n, Err: err}
		}
		img, _, err := utils.LoadImage(file)
		if err != nil {
			return nil, &RasterizeError{Page: n, Err: err}
		}
		pages = append(pages, Page{Index: n, Image: img, Zoom: ZoomForDPI(s.DPI)})
	}
	return pages, nil
}

func (s *PopplerSource) renderPage(ctx context.Context, path, workDir string, page int) (string, error) {
	bin := s.Bin
	if bin == "" {
		bin = DefaultPopplerBin
	}
	prefix := filepath.Join(workDir, fmt.Sprintf("p%d", page))
	args := []string{
		"-png",
		"-r", strconv.FormatFloat(s.DPI, 'f', -1, 64),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		path,
		prefix,
	}
	cmd := exec.CommandContext(ctx, bin, args...) //nolint:gosec // G204: binary is operator configured
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", bin, err, strings.TrimSpace(string(out)))
	}
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", ErrNoImage
	}
	// pdftoppm zero-pads the page suffix to the document's page count width.
	sort.Slice(matches, func(i, j int) bool {
		return pageIndexFromName(matches[i]) < pageIndexFromName(matches[j])
	})
	return matches[0], nil
}

// pageIndexFromName returns the numeric suffix of a pdftoppm output name
// such as "p3-03.png", or -1.
func pageIndexFromName(name string) int {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	idx := strings.LastIndex(base, "-")
	if idx < 0 {
		return -1
	}
	n, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return -1
	}
	return n
}
