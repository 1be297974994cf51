package pdf

import (
	"fmt"

	"github.com/dslipak/pdf"
)

// PageBox is a page size in points.
type PageBox struct {
	Width  float64
	Height float64
}

// Info describes the pages of a PDF.
type Info struct {
	Pages []PageBox
}

// ReadInfo returns the page count and media box of every page.
func ReadInfo(path string) (*Info, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	n := r.NumPage()
	info := &Info{Pages: make([]PageBox, n)}
	for i := 1; i <= n; i++ {
		info.Pages[i-1] = mediaBox(r.Page(i))
	}
	return info, nil
}

// mediaBox reads the page's MediaBox, following the inherited value on
// parent page-tree nodes. A4 is assumed when none is present.
func mediaBox(p pdf.Page) PageBox {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return PageBox{Width: w, Height: h}
			}
		}
	}
	return PageBox{Width: 595, Height: 842}
}
