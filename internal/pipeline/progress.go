package pipeline

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/MeKo-Tech/omr/internal/assemble"
)

// ProgressCallback receives page events while a document is decoded. With
// several workers, OnPage and OnError are called in completion order.
type ProgressCallback interface {
	OnStart(pages int)
	// OnPage is called after every decoded page; done counts finished pages.
	OnPage(done, total int, res assemble.PageResult)
	OnComplete()
	// OnError reports the source page number of a page that failed.
	OnError(page int, err error)
}

// ConsoleProgressCallback draws a single-line page bar with running counts
// of flagged fields and pages decoded without all four corner marks.
type ConsoleProgressCallback struct {
	mu       sync.Mutex
	w        io.Writer
	prefix   string
	width    int
	start    time.Time
	flagged  int
	fallback int
}

// NewConsoleProgressCallback reports to w, prefixing every line with prefix.
func NewConsoleProgressCallback(w io.Writer, prefix string) *ConsoleProgressCallback {
	return &ConsoleProgressCallback{w: w, prefix: prefix, width: 30}
}

func (c *ConsoleProgressCallback) OnStart(pages int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = time.Now()
	c.flagged, c.fallback = 0, 0
	_, _ = fmt.Fprintf(c.w, "%s0/%d pages\n", c.prefix, pages)
}

func (c *ConsoleProgressCallback) OnPage(done, total int, res assemble.PageResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if res.Page != nil {
		c.flagged += len(res.Page.Flags)
	}
	if res.Calibration != "computed" {
		c.fallback++
	}
	if total <= 0 {
		return
	}
	filled := c.width * done / total
	bar := strings.Repeat("#", filled) + strings.Repeat(".", c.width-filled)
	_, _ = fmt.Fprintf(c.w, "\r%s[%s] %d/%d pages, %d flagged, %d corner fallbacks",
		c.prefix, bar, done, total, c.flagged, c.fallback)
}

func (c *ConsoleProgressCallback) OnComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, "\n%sdecoded in %v\n", c.prefix, time.Since(c.start).Round(time.Millisecond))
}

func (c *ConsoleProgressCallback) OnError(page int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, "\n%spage %d failed: %v\n", c.prefix, page, err)
}
