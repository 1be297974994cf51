// Package sheet decodes every field of one canonical page and draws the
// audit overlay.
package sheet

import (
	"image"

	"github.com/MeKo-Tech/omr/internal/bubble"
	"github.com/MeKo-Tech/omr/internal/decode"
	"github.com/MeKo-Tech/omr/internal/layout"
	"github.com/MeKo-Tech/omr/internal/seat"
	"github.com/MeKo-Tech/omr/internal/utils"
)

// Flag records a field that did not decode cleanly.
type Flag struct {
	Field       decode.Field
	Status      decode.Status
	BestLabel   string
	SecondLabel string
}

// Record is the decoded content of one page. Grade and Class are set only
// when their status is OK.
type Record struct {
	Grade       string
	GradeStatus decode.Status
	Class       string
	ClassStatus decode.Status
	Seat        string
	SeatStatus  decode.Status
	// SeatConvention is the reading the resolver picked.
	SeatConvention seat.Convention
	// Answers holds one entry per question: letters for OK and MULTI, else "".
	Answers      []string
	AnswerStatus []decode.Status
}

// Mark is one rectangle of the audit overlay.
type Mark struct {
	Box    image.Rectangle
	Text   string
	Status decode.Status
}

// Page is the outcome of processing one canonical page.
type Page struct {
	Record  Record
	Flags   []Flag
	Marks   []Mark
	Overlay *image.RGBA
}

// Processor decodes pages printed from one layout.
type Processor struct {
	Layout     *layout.Layout
	Thresholds decode.Thresholds
	Seat       *seat.Resolver
	// CLAHE, when set, boosts local contrast before scoring.
	CLAHE *utils.CLAHEConfig
}

// NewProcessor returns a processor with default thresholds and contrast boost.
func NewProcessor(l *layout.Layout) *Processor {
	th := decode.DefaultThresholds()
	clahe := utils.DefaultCLAHEConfig()
	return &Processor{
		Layout:     l,
		Thresholds: th,
		Seat:       seat.NewResolver(th.Seat, seat.AscendingNormal),
		CLAHE:      &clahe,
	}
}

// Process decodes a canonical page rendered at zoom pixels per point.
func (p *Processor) Process(canonical image.Image, zoom float64) *Page {
	gray := utils.ToGray(canonical)
	if p.CLAHE != nil {
		gray = utils.CLAHE(gray, *p.CLAHE)
	}
	pg := &Page{}

	p.grade(pg, gray, zoom)
	p.class(pg, gray, zoom)
	p.seat(pg, gray, zoom)
	p.questions(pg, gray, zoom)

	pg.Overlay = utils.CloneRGBA(canonical)
	Annotate(pg.Overlay, pg.Marks)
	return pg
}

func (p *Processor) grade(pg *Page, gray *image.Gray, zoom float64) {
	regions := bubble.Regions(layout.GradeBubbles(), zoom)
	labels := layout.GradeLabels()
	res := decode.PickOne(bubble.ScoreAll(gray, regions), labels, p.Thresholds.For(decode.Grade))

	pg.Record.GradeStatus = res.Status
	if res.Status == decode.StatusOK {
		pg.Record.Grade = res.Value
	}
	pg.Marks = append(pg.Marks, Mark{Box: regions[res.BestIndex].Box, Text: "G:" + res.Value, Status: res.Status})
	pg.flag(decode.Grade, res, res.BestLabel)
}

// class decodes the class digit. A leading "0" bubble is reserved and never
// picked.
func (p *Processor) class(pg *Page, gray *image.Gray, zoom float64) {
	regions := bubble.Regions(layout.ClassBubbles(), zoom)
	labels := layout.ClassLabels()
	scores := bubble.ScoreAll(gray, regions)
	offset := 0
	if len(labels) > 0 && labels[0] == "0" {
		offset = 1
	}
	res := decode.PickOne(scores[offset:], labels[offset:], p.Thresholds.For(decode.Class))

	pg.Record.ClassStatus = res.Status
	if res.Status == decode.StatusOK {
		pg.Record.Class = res.Value
	}
	pg.Marks = append(pg.Marks, Mark{Box: regions[res.BestIndex+offset].Box, Text: "C:" + res.Value, Status: res.Status})
	pg.flag(decode.Class, res, res.BestLabel)
}

func (p *Processor) seat(pg *Page, gray *image.Gray, zoom float64) {
	top := bubble.Regions(layout.SeatRow(true), zoom)
	bottom := bubble.Regions(layout.SeatRow(false), zoom)
	res := p.Seat.Resolve(bubble.ScoreAll(gray, top), bubble.ScoreAll(gray, bottom))
	chosen := res.Chosen

	pg.Record.Seat = chosen.Seat
	pg.Record.SeatStatus = chosen.Status
	pg.Record.SeatConvention = chosen.Convention

	// The physical rows are always labelled T: and O:, whatever the reading.
	pg.markField(top, chosen.Top, "T:")
	pg.markField(bottom, chosen.Bottom, "O:")
	pg.flag(decode.SeatTens, chosen.Top, chosen.Top.BestLabel)
	pg.flag(decode.SeatOnes, chosen.Bottom, chosen.Bottom.BestLabel)
}

func (p *Processor) questions(pg *Page, gray *image.Gray, zoom float64) {
	specs := decode.QuestionSpecs(p.Layout)
	pg.Record.Answers = make([]string, len(specs))
	pg.Record.AnswerStatus = make([]decode.Status, len(specs))
	for i, spec := range specs {
		regions := bubble.Regions(spec.Bubbles, zoom)
		res := spec.Decode(bubble.ScoreAll(gray, regions), p.Thresholds)

		if res.Status == decode.StatusOK || res.Status == decode.StatusMulti {
			pg.Record.Answers[i] = res.Value
		}
		pg.Record.AnswerStatus[i] = res.Status
		pg.markField(regions, res, spec.Field.QuestionLabel()+":")

		if res.Status == decode.StatusMulti {
			pg.Flags = append(pg.Flags, Flag{Field: spec.Field, Status: res.Status, BestLabel: res.Value})
			continue
		}
		pg.flag(spec.Field, res, res.BestLabel)
	}
}

// markField adds overlay marks for a decoded field: every selected bubble of
// a multi-select, with the text on the strongest, or the best bubble otherwise.
func (pg *Page) markField(regions []bubble.Region, res decode.Result, prefix string) {
	if res.Status != decode.StatusMulti {
		pg.Marks = append(pg.Marks, Mark{Box: regions[res.BestIndex].Box, Text: prefix + res.Value, Status: res.Status})
		return
	}
	for _, i := range res.Picked {
		m := Mark{Box: regions[i].Box, Status: res.Status}
		if i == res.BestIndex {
			m.Text = prefix + res.Value
		}
		pg.Marks = append(pg.Marks, m)
	}
}

func (pg *Page) flag(f decode.Field, res decode.Result, best string) {
	if res.Status == decode.StatusOK {
		return
	}
	pg.Flags = append(pg.Flags, Flag{Field: f, Status: res.Status, BestLabel: best, SecondLabel: res.SecondLabel})
}
