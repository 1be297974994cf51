// Package assemble turns decoded pages into the document outputs: person ids,
// the transposed results table and the ambiguity report.
package assemble

import (
	"sort"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/omr/internal/sheet"
)

// PageResult is one decoded page in document order. Index is 1-based.
type PageResult struct {
	Index int
	Page  *sheet.Page
	// Calibration names the transform used: computed, reconstructed or identity.
	Calibration string
}

// Person is a page with its resolved, unique person id.
type Person struct {
	ID     string
	Page   int
	Record sheet.Record
}

// normalizeSeat turns a seat number into an id base: digits lose their
// leading zeros ("05" -> "5"), anything else is kept trimmed.
func normalizeSeat(seatNo string) string {
	s := strings.TrimSpace(seatNo)
	if s == "" {
		return ""
	}
	if isDigits(s) {
		trimmed := strings.TrimLeft(s, "0")
		if trimmed == "" {
			return "0"
		}
		return trimmed
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AssignIDs derives a unique id per page in page order: the normalised seat
// number when present, else page_<N>. Collisions get _2, _3 ... suffixes.
func AssignIDs(pages []PageResult) []Person {
	used := make(map[string]bool, len(pages))
	out := make([]Person, len(pages))
	for i, p := range pages {
		base := normalizeSeat(p.Page.Record.Seat)
		if base == "" {
			base = "page_" + strconv.Itoa(p.Index)
		}
		id := base
		for n := 2; used[id]; n++ {
			id = base + "_" + strconv.Itoa(n)
		}
		used[id] = true
		out[i] = Person{ID: id, Page: p.Index, Record: p.Page.Record}
	}
	return out
}

// sortKey orders seat-based ids numerically, then page_N fallbacks, then
// anything else by raw string.
type sortKey struct {
	group  int
	base   int
	suffix int
	raw    string
}

func parseNumericWithSuffix(v string) (int, int, bool) {
	head, tail, hasTail := strings.Cut(v, "_")
	if !isDigits(head) {
		return 0, 0, false
	}
	base, err := strconv.Atoi(head)
	if err != nil {
		return 0, 0, false
	}
	suffix := 0
	if hasTail && isDigits(tail) {
		suffix, _ = strconv.Atoi(tail)
	}
	return base, suffix, true
}

func keyOf(id string) sortKey {
	if base, suffix, ok := parseNumericWithSuffix(id); ok {
		return sortKey{group: 0, base: base, suffix: suffix, raw: id}
	}
	if rest, ok := strings.CutPrefix(id, "page_"); ok {
		if base, suffix, ok := parseNumericWithSuffix(rest); ok {
			return sortKey{group: 1, base: base, suffix: suffix, raw: id}
		}
	}
	return sortKey{group: 2, raw: id}
}

func (a sortKey) less(b sortKey) bool {
	if a.group != b.group {
		return a.group < b.group
	}
	if a.base != b.base {
		return a.base < b.base
	}
	if a.suffix != b.suffix {
		return a.suffix < b.suffix
	}
	return a.raw < b.raw
}

// SortPersons orders persons by id in place.
func SortPersons(ps []Person) {
	sort.SliceStable(ps, func(i, j int) bool { return keyOf(ps[i].ID).less(keyOf(ps[j].ID)) })
}
