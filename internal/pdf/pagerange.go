package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// PageSpan is an inclusive run of 1-based page numbers.
type PageSpan struct {
	First int
	Last  int
}

// ParsePageRange parses a page selection like "1-5" or "1,3,5-7".
// An empty string selects every page and returns nil. Spans are only
// expanded once the document's page count is known.
func ParsePageRange(pageRange string) ([]PageSpan, error) {
	if strings.TrimSpace(pageRange) == "" {
		return nil, nil
	}

	var spans []PageSpan
	for _, part := range strings.Split(pageRange, ",") {
		span, err := parseRangeToken(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}
	return spans, nil
}

// parseRangeToken parses either a single page ("3") or a range ("1-5").
func parseRangeToken(part string) (PageSpan, error) {
	if startStr, endStr, ok := strings.Cut(part, "-"); ok {
		if strings.Contains(endStr, "-") {
			return PageSpan{}, fmt.Errorf("invalid range format: %s", part)
		}
		start, err := strconv.Atoi(strings.TrimSpace(startStr))
		if err != nil || start < 1 {
			return PageSpan{}, fmt.Errorf("invalid start page: %s", startStr)
		}
		end, err := strconv.Atoi(strings.TrimSpace(endStr))
		if err != nil {
			return PageSpan{}, fmt.Errorf("invalid end page: %s", endStr)
		}
		if start > end {
			return PageSpan{}, fmt.Errorf("start page %d greater than end page %d", start, end)
		}
		return PageSpan{First: start, Last: end}, nil
	}
	page, err := strconv.Atoi(part)
	if err != nil || page < 1 {
		return PageSpan{}, fmt.Errorf("invalid page number: %s", part)
	}
	return PageSpan{First: page, Last: page}, nil
}

// selectPages applies a parsed selection to a document of total pages.
// Every span is checked against total before any page list is built.
func selectPages(spans []PageSpan, total int) ([]int, error) {
	if len(spans) == 0 {
		spans = []PageSpan{{First: 1, Last: total}}
	}
	n := 0
	for _, s := range spans {
		if s.Last > total {
			return nil, fmt.Errorf("page %d out of range (document has %d pages)", s.Last, total)
		}
		n += s.Last - s.First + 1
	}
	out := make([]int, 0, n)
	for _, s := range spans {
		for p := s.First; p <= s.Last; p++ {
			out = append(out, p)
		}
	}
	return out, nil
}
