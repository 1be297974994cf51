package decode

import (
	"strconv"

	"github.com/MeKo-Tech/omr/internal/layout"
)

// Kind enumerates the fixed set of field kinds on a sheet.
type Kind int

const (
	KindGrade Kind = iota
	KindClass
	KindSeatTens
	KindSeatOnes
	KindQuestion
)

func (k Kind) String() string {
	switch k {
	case KindGrade:
		return "grade"
	case KindClass:
		return "class"
	case KindSeatTens, KindSeatOnes:
		return "seat"
	case KindQuestion:
		return "question"
	default:
		return "unknown"
	}
}

// Mode selects the decoder used for a field.
type Mode int

const (
	ModeSingle Mode = iota
	ModeMulti
)

// Field identifies one decodable field. Question is set only for KindQuestion.
type Field struct {
	Kind     Kind
	Question int
}

// Grade, Class, SeatTens, SeatOnes and Question construct fields.
var (
	Grade    = Field{Kind: KindGrade}
	Class    = Field{Kind: KindClass}
	SeatTens = Field{Kind: KindSeatTens}
	SeatOnes = Field{Kind: KindSeatOnes}
)

// Question returns the field for question q (1-based).
func Question(q int) Field { return Field{Kind: KindQuestion, Question: q} }

// Name is the field name used in ambiguity reports.
func (f Field) Name() string {
	switch f.Kind {
	case KindGrade:
		return "grade"
	case KindClass:
		return "class_no"
	case KindSeatTens:
		return "seat_tens"
	case KindSeatOnes:
		return "seat_ones"
	case KindQuestion:
		return "Q" + strconv.Itoa(f.Question)
	default:
		return "unknown"
	}
}

// QuestionLabel is the question number as text, empty for identity fields.
func (f Field) QuestionLabel() string {
	if f.Kind != KindQuestion {
		return ""
	}
	return strconv.Itoa(f.Question)
}

// Mode returns the decoder the field uses.
func (f Field) Mode() Mode {
	switch f.Kind {
	case KindQuestion, KindSeatTens, KindSeatOnes:
		return ModeMulti
	default:
		return ModeSingle
	}
}

// Thresholds groups the per-kind decoding parameters.
type Thresholds struct {
	Grade  Params
	Class  Params
	Seat   Params
	Choice Params
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	identity := func(min float64) Params {
		return Params{MinScore: min, AmbDelta: 0.02, MultiRatio: 0.65, FaintRatio: 0.55, SecondFloor: 0.85}
	}
	choice := identity(0.025)
	choice.AmbDelta = 0.03
	return Thresholds{
		Grade:  identity(0.05),
		Class:  identity(0.05),
		Seat:   identity(0.06),
		Choice: choice,
	}
}

// For returns the parameters for f.
func (t Thresholds) For(f Field) Params {
	switch f.Kind {
	case KindGrade:
		return t.Grade
	case KindClass:
		return t.Class
	case KindSeatTens, KindSeatOnes:
		return t.Seat
	default:
		return t.Choice
	}
}

// Spec is a field with its candidate bubbles and labels in position order.
type Spec struct {
	Field   Field
	Bubbles []layout.Circle
	Labels  []string
}

// Decode runs the decoder for the field's mode over scores.
func (s Spec) Decode(scores []float64, t Thresholds) Result {
	p := t.For(s.Field)
	if s.Field.Mode() == ModeMulti {
		return PickMulti(scores, s.Labels, p)
	}
	return PickOne(scores, s.Labels, p)
}

// IdentitySpecs returns the grade and class field specs.
func IdentitySpecs() []Spec {
	return []Spec{
		{Field: Grade, Bubbles: layout.GradeBubbles(), Labels: layout.GradeLabels()},
		{Field: Class, Bubbles: layout.ClassBubbles(), Labels: layout.ClassLabels()},
	}
}

// QuestionSpecs returns one spec per question of l.
func QuestionSpecs(l *layout.Layout) []Spec {
	out := make([]Spec, l.Questions)
	for q := 1; q <= l.Questions; q++ {
		out[q-1] = Spec{Field: Question(q), Bubbles: l.Question(q), Labels: l.Choices}
	}
	return out
}
