// Package layout is the geometry contract shared with the sheet generator.
// All coordinates are PDF points (1/72 inch) on an A4 page with the origin at
// the bottom-left corner (y grows upwards), exactly as the generator draws them.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// Page and alignment mark geometry.
const (
	PageWidthPt  = 595.0
	PageHeightPt = 842.0

	CornerMarkMargin = 18.0
	CornerMarkSize   = 24.0
)

// Question and choice limits. Out-of-range requests are clamped, not rejected.
const (
	MinQuestions   = 1
	MaxQuestions   = 100
	MinChoices     = 3
	MaxChoices     = 5
	DefaultChoices = 4
)

// ErrRowSpacing reports a sheet definition whose rows would overlap.
var ErrRowSpacing = errors.New("row spacing below bubble clearance")

// ConfigError describes a structurally broken sheet definition.
type ConfigError struct {
	RowStep float64
	MinStep float64
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("layout: row spacing too small: %.2f < %.2f", e.RowStep, e.MinStep)
}

func (e *ConfigError) Unwrap() error { return ErrRowSpacing }

// Geometry holds the answer-box parameters the wrapping rule is derived from.
type Geometry struct {
	BoxX0, BoxX1 float64
	BoxY0, BoxY1 float64
	BoxPad       float64
	Columns      int
	Capacity     int     // questions the box is dimensioned for
	BubbleRadius float64 // answer bubble radius
	NumberWidth  float64 // question-number gutter
	NumberGap    float64 // gap between gutter and the first choice
	Clearance    float64 // extra space required between two bubble rows
}

// DefaultGeometry returns the geometry printed by the sheet generator.
func DefaultGeometry() Geometry {
	return Geometry{
		BoxX0:        25,
		BoxX1:        PageWidthPt - 25,
		BoxY0:        55,
		BoxY1:        DividerY - 12,
		BoxPad:       10,
		Columns:      3,
		Capacity:     MaxQuestions,
		BubbleRadius: 6.0,
		NumberWidth:  30,
		NumberGap:    10,
		Clearance:    1.0,
	}
}

// Circle is a printed bubble.
type Circle struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	R float64 `yaml:"r" json:"r"`
}

// Layout is the immutable answer-area layout for one (questions, choices) pair.
type Layout struct {
	Questions     int         `yaml:"questions" json:"questions"`
	Choices       []string    `yaml:"choices" json:"choices"`
	Columns       int         `yaml:"columns" json:"columns"`
	RowsPerColumn int         `yaml:"rows_per_column" json:"rows_per_column"`
	FirstRowY     float64     `yaml:"first_row_y" json:"first_row_y"`
	RowStep       float64     `yaml:"row_step" json:"row_step"`
	BubbleRadius  float64     `yaml:"bubble_radius" json:"bubble_radius"`
	BubbleXs      [][]float64 `yaml:"bubble_xs" json:"bubble_xs"`
	NumberRightX  []float64   `yaml:"number_right_x" json:"number_right_x"`
}

// ClampQuestions bounds a requested question count to [MinQuestions, MaxQuestions].
func ClampQuestions(n int) int { return clamp(n, MinQuestions, MaxQuestions) }

// ClampChoices bounds a requested choice count to [MinChoices, MaxChoices].
func ClampChoices(n int) int { return clamp(n, MinChoices, MaxChoices) }

// MakeChoices returns the choice letters A, B, C... for n choices (clamped).
func MakeChoices(n int) []string {
	n = ClampChoices(n)
	out := make([]string, n)
	for i := range n {
		out[i] = string(rune('A' + i))
	}
	return out
}

// New computes the default-geometry layout.
func New(questions, choices int) (*Layout, error) {
	return Compute(DefaultGeometry(), questions, choices)
}

// Compute derives the layout from g. Rows per column depend only on
// g.Capacity, never on the requested count, so question k sits at the same
// spot on every sheet that has at least k questions.
func Compute(g Geometry, questions, choices int) (*Layout, error) {
	questions = ClampQuestions(questions)
	letters := MakeChoices(choices)
	cols := g.Columns
	if cols < 1 {
		cols = 1
	}

	colW := (g.BoxX1 - g.BoxX0) / float64(cols)
	rows := int(math.Ceil(float64(g.Capacity) / float64(cols)))

	innerY0 := g.BoxY0 + g.BoxPad
	innerY1 := g.BoxY1 - g.BoxPad
	firstRowY := innerY1 - 30
	usable := firstRowY - (innerY0 + g.BubbleRadius)

	rowStep := 0.0
	if rows > 1 {
		rowStep = usable / float64(rows-1)
		minStep := 2*g.BubbleRadius + g.Clearance
		if rowStep < minStep {
			return nil, &ConfigError{RowStep: rowStep, MinStep: minStep}
		}
	}

	l := &Layout{
		Questions:     questions,
		Choices:       letters,
		Columns:       cols,
		RowsPerColumn: rows,
		FirstRowY:     firstRowY,
		RowStep:       rowStep,
		BubbleRadius:  g.BubbleRadius,
		BubbleXs:      make([][]float64, cols),
		NumberRightX:  make([]float64, cols),
	}
	for c := range cols {
		x0 := g.BoxX0 + float64(c)*colW
		innerLeft := x0 + g.BoxPad
		innerRight := x0 + colW - g.BoxPad

		numRight := innerLeft + g.NumberWidth
		first := numRight + g.NumberGap + g.BubbleRadius
		last := innerRight - g.BubbleRadius
		step := (last - first) / float64(len(letters)-1)

		xs := make([]float64, len(letters))
		for i := range letters {
			xs[i] = first + float64(i)*step
		}
		l.BubbleXs[c] = xs
		l.NumberRightX[c] = numRight
	}
	return l, nil
}

// Cell returns the column and row (both 0-based) of question q (1-based).
func (l *Layout) Cell(q int) (col, row int) {
	return (q - 1) / l.RowsPerColumn, (q - 1) % l.RowsPerColumn
}

// RowY returns the baseline y of a row.
func (l *Layout) RowY(row int) float64 {
	return l.FirstRowY - float64(row)*l.RowStep
}

// Question returns the choice bubbles of question q (1-based) in choice order.
// It returns nil for q outside [1, Questions].
func (l *Layout) Question(q int) []Circle {
	if q < 1 || q > l.Questions {
		return nil
	}
	col, row := l.Cell(q)
	y := l.RowY(row)
	out := make([]Circle, len(l.Choices))
	for i, x := range l.BubbleXs[col] {
		out[i] = Circle{X: x, Y: y, R: l.BubbleRadius}
	}
	return out
}

// NumberAnchor returns the right edge of the question-number gutter and the
// row baseline for question q.
func (l *Layout) NumberAnchor(q int) (x, y float64) {
	col, row := l.Cell(q)
	return l.NumberRightX[col], l.RowY(row)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
