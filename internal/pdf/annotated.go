package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"codeberg.org/go-pdf/fpdf"
)

// AnnotatedPage is one page of the audit PDF. Zoom is the pixels-per-point
// scale the image was rendered at.
type AnnotatedPage struct {
	Image image.Image
	Zoom  float64
}

// WriteAnnotated writes one PDF page per image. Each page is sized so the
// image maps back to its physical size: pixels / zoom points, which is
// pixels / dpi * 72.
func WriteAnnotated(w io.Writer, pages []AnnotatedPage) error {
	if len(pages) == 0 {
		return ErrNoPages
	}

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	opts := fpdf.ImageOptions{ImageType: "PNG"}

	for i, p := range pages {
		if p.Image == nil || p.Zoom <= 0 {
			return fmt.Errorf("page %d: missing image or invalid zoom %v", i+1, p.Zoom)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, p.Image); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
		b := p.Image.Bounds()
		wPt := float64(b.Dx()) / p.Zoom
		hPt := float64(b.Dy()) / p.Zoom

		name := fmt.Sprintf("page%d", i+1)
		doc.AddPageFormat("P", fpdf.SizeType{Wd: wPt, Ht: hPt})
		doc.RegisterImageOptionsReader(name, opts, &buf)
		doc.ImageOptions(name, 0, 0, wPt, hPt, false, opts, 0, "")
		if err := doc.Error(); err != nil {
			return fmt.Errorf("add page %d: %w", i+1, err)
		}
	}
	return doc.Output(w)
}
