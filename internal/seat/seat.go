// Package seat combines the two seat-number digit rows into a seat number.
//
// Sheet revisions differ in whether digit 0 is the first or the last bubble
// of a row and in whether the top row holds tens or ones. The resolver reads
// both rows under every combination and keeps the best scoring reading.
package seat

import (
	"fmt"
	"strconv"

	"github.com/MeKo-Tech/omr/internal/decode"
)

// Convention is one digit ordering and row assignment.
type Convention struct {
	Legacy  bool // digits 1..9 then 0, instead of 0..9
	Swapped bool // top row holds ones, instead of tens
}

// Named conventions.
var (
	AscendingNormal  = Convention{}
	AscendingSwapped = Convention{Swapped: true}
	LegacyNormal     = Convention{Legacy: true}
	LegacySwapped    = Convention{Legacy: true, Swapped: true}
)

// Conventions lists every named convention.
var Conventions = []Convention{AscendingNormal, AscendingSwapped, LegacyNormal, LegacySwapped}

func (c Convention) String() string {
	order, rows := "ascending", "normal"
	if c.Legacy {
		order = "legacy"
	}
	if c.Swapped {
		rows = "swapped"
	}
	return order + "-" + rows
}

// ParseConvention parses a name produced by Convention.String.
func ParseConvention(s string) (Convention, error) {
	for _, c := range Conventions {
		if c.String() == s {
			return c, nil
		}
	}
	return Convention{}, fmt.Errorf("seat: unknown convention %q", s)
}

// Labels returns the digit labels of a row in bubble order.
func Labels(legacy bool) []string {
	out := make([]string, 10)
	for i := range 10 {
		d := i
		if legacy {
			d = (i + 1) % 10
		}
		out[i] = strconv.Itoa(d)
	}
	return out
}

// swapPenalty breaks ties against readings that disagree with the preferred
// row assignment.
const swapPenalty = 0.001

// Candidate is one evaluated reading. Top and Bottom are the physical rows.
type Candidate struct {
	Convention Convention
	Top        decode.Result
	Bottom     decode.Result
	Seat       string // empty when no seat could be formed
	Status     decode.Status
	Score      float64
}

// Tens and Ones return the rows in digit-place order.
func (c Candidate) Tens() decode.Result {
	if c.Convention.Swapped {
		return c.Bottom
	}
	return c.Top
}

func (c Candidate) Ones() decode.Result {
	if c.Convention.Swapped {
		return c.Top
	}
	return c.Bottom
}

// Resolution is the winning reading plus every evaluated candidate in
// evaluation order.
type Resolution struct {
	Chosen     Candidate
	Candidates []Candidate
}

// Resolver reads seat numbers.
type Resolver struct {
	Params decode.Params
	// Prefer is evaluated first and wins ties. The zero value reproduces the
	// historical default of ascending digits with the top row as tens.
	Prefer Convention
}

// NewResolver returns a resolver with the given row parameters and preference.
func NewResolver(p decode.Params, prefer Convention) *Resolver {
	return &Resolver{Params: p, Prefer: prefer}
}

// order lists the four conventions, preferred digit order first and the
// preferred row assignment first within each digit order.
func (r *Resolver) order() []Convention {
	legacy := []bool{r.Prefer.Legacy, !r.Prefer.Legacy}
	swapped := []bool{r.Prefer.Swapped, !r.Prefer.Swapped}
	out := make([]Convention, 0, 4)
	for _, l := range legacy {
		for _, s := range swapped {
			out = append(out, Convention{Legacy: l, Swapped: s})
		}
	}
	return out
}

// Resolve evaluates every convention over the top and bottom row scores and
// returns the highest scoring one. A later candidate replaces the current
// choice only when it scores strictly higher.
func (r *Resolver) Resolve(top, bottom []float64) Resolution {
	var res Resolution
	bestScore := -1.0
	rows := map[bool][2]decode.Result{}
	for _, conv := range r.order() {
		pair, ok := rows[conv.Legacy]
		if !ok {
			labels := Labels(conv.Legacy)
			pair = [2]decode.Result{r.decodeRow(top, labels), r.decodeRow(bottom, labels)}
			rows[conv.Legacy] = pair
		}
		cand := evaluate(conv, pair[0], pair[1])
		if conv.Swapped != r.Prefer.Swapped {
			cand.Score -= swapPenalty
		}
		res.Candidates = append(res.Candidates, cand)
		if cand.Score > bestScore {
			bestScore = cand.Score
			res.Chosen = cand
		}
	}
	return res
}

// decodeRow runs the multi-select decoder on a digit row. Unlike answers, an
// ambiguous row keeps its top digit for display.
func (r *Resolver) decodeRow(scores []float64, labels []string) decode.Result {
	res := decode.PickMulti(scores, labels, r.Params)
	if res.Status == decode.StatusAmbiguous {
		res.Value = res.BestLabel
	}
	return res
}

func evaluate(conv Convention, top, bottom decode.Result) Candidate {
	c := Candidate{Convention: conv, Top: top, Bottom: bottom}
	tens, ones := c.Tens(), c.Ones()

	switch {
	case tens.Status == decode.StatusOK && ones.Status == decode.StatusOK && tens.Value != "" && ones.Value != "":
		c.Seat = tens.Value + ones.Value
	case ones.Status == decode.StatusBlank && usable(tens):
		c.Seat = tens.Value
	case tens.Status == decode.StatusBlank && usable(ones):
		c.Seat = ones.Value
	}

	sum := tens.BestScore + ones.BestScore
	switch {
	case c.Seat != "":
		c.Status = decode.StatusOK
		c.Score = sum
	case tens.Status == decode.StatusAmbiguous || ones.Status == decode.StatusAmbiguous:
		c.Status = decode.StatusAmbiguous
		c.Score = 0.5 * sum
	default:
		c.Status = decode.StatusBlank
	}
	return c
}

// usable reports whether a single row can stand in for the whole seat: a
// clean digit, or two marks in one row read as both digits.
func usable(r decode.Result) bool {
	switch r.Status {
	case decode.StatusOK:
		return r.Value != ""
	case decode.StatusMulti:
		return len(r.Value) == 2
	default:
		return false
	}
}
