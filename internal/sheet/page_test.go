package sheet

import (
	"image"
	"testing"

	"github.com/MeKo-Tech/omr/internal/bubble"
	"github.com/MeKo-Tech/omr/internal/decode"
	"github.com/MeKo-Tech/omr/internal/layout"
	"github.com/MeKo-Tech/omr/internal/seat"
	"github.com/MeKo-Tech/omr/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, s testutil.Sheet) image.Image {
	t.Helper()
	img, err := testutil.RenderSheet(s)
	require.NoError(t, err)
	return img
}

func newProcessor(t *testing.T, questions, choices int) *Processor {
	t.Helper()
	l, err := layout.New(questions, choices)
	require.NoError(t, err)
	return NewProcessor(l)
}

func TestProcess_CleanPage(t *testing.T) {
	s := testutil.DefaultSheet()
	s.Grade = "8"
	s.Class = "2"
	s.Seat = "05"
	s.Answers = []string{"A", "C", ""}

	pg := newProcessor(t, 3, 4).Process(render(t, s), s.Zoom)
	rec := pg.Record
	assert.Equal(t, "8", rec.Grade)
	assert.Equal(t, decode.StatusOK, rec.GradeStatus)
	assert.Equal(t, "2", rec.Class)
	assert.Equal(t, "05", rec.Seat)
	assert.Equal(t, decode.StatusOK, rec.SeatStatus)
	assert.Equal(t, seat.AscendingNormal, rec.SeatConvention)
	assert.Equal(t, []string{"A", "C", ""}, rec.Answers)
	assert.Equal(t, []decode.Status{decode.StatusOK, decode.StatusOK, decode.StatusBlank}, rec.AnswerStatus)

	require.Len(t, pg.Flags, 1)
	f := pg.Flags[0]
	assert.Equal(t, "Q3", f.Field.Name())
	assert.Equal(t, decode.StatusBlank, f.Status)
	assert.Equal(t, "A", f.BestLabel)

	require.NotNil(t, pg.Overlay)
	assert.Equal(t, render(t, s).Bounds().Size(), pg.Overlay.Bounds().Size())
}

func TestProcess_MultiSelectAndBlankIdentity(t *testing.T) {
	s := testutil.DefaultSheet()
	s.Answers = []string{"BD", "A", "C"}

	pg := newProcessor(t, 3, 4).Process(render(t, s), s.Zoom)
	rec := pg.Record
	assert.Equal(t, []string{"BD", "A", "C"}, rec.Answers)
	assert.Equal(t, decode.StatusMulti, rec.AnswerStatus[0])
	assert.Empty(t, rec.Grade)
	assert.Empty(t, rec.Seat)
	assert.Equal(t, decode.StatusBlank, rec.SeatStatus)

	byName := map[string]Flag{}
	for _, f := range pg.Flags {
		byName[f.Field.Name()] = f
	}
	assert.Contains(t, byName, "grade")
	assert.Contains(t, byName, "class_no")
	assert.Contains(t, byName, "seat_tens")
	assert.Contains(t, byName, "seat_ones")
	require.Contains(t, byName, "Q1")
	assert.Equal(t, decode.StatusMulti, byName["Q1"].Status)
	assert.Equal(t, "BD", byName["Q1"].BestLabel)
	assert.Empty(t, byName["Q1"].SecondLabel)

	// Both selected bubbles are boxed, only one carries text.
	var multi []Mark
	for _, m := range pg.Marks {
		if m.Status == decode.StatusMulti {
			multi = append(multi, m)
		}
	}
	require.Len(t, multi, 2)
	texts := 0
	for _, m := range multi {
		if m.Text != "" {
			texts++
			assert.Equal(t, "1:BD", m.Text)
		}
	}
	assert.Equal(t, 1, texts)
}

func TestProcess_ClassZeroIsReserved(t *testing.T) {
	s := testutil.DefaultSheet()
	s.Class = "0"
	pg := newProcessor(t, 3, 4).Process(render(t, s), s.Zoom)
	assert.Empty(t, pg.Record.Class)
	assert.Equal(t, decode.StatusBlank, pg.Record.ClassStatus)
}

func TestProcess_AmbiguousClass(t *testing.T) {
	s := testutil.DefaultSheet()
	s.Class = "37"
	pg := newProcessor(t, 3, 4).Process(render(t, s), s.Zoom)
	assert.Empty(t, pg.Record.Class)
	assert.Equal(t, decode.StatusAmbiguous, pg.Record.ClassStatus)
	for _, f := range pg.Flags {
		if f.Field == decode.Class {
			assert.ElementsMatch(t, []string{"3", "7"}, []string{f.BestLabel, f.SecondLabel})
		}
	}
}

func TestProcess_OverlayColours(t *testing.T) {
	s := testutil.DefaultSheet()
	s.Answers = []string{"A"}
	pg := newProcessor(t, 3, 4).Process(render(t, s), s.Zoom)

	l, err := layout.New(3, 4)
	require.NoError(t, err)
	box := bubble.RegionAt(l.Question(1)[0], s.Zoom).Box
	assert.Equal(t, ColorOK, pg.Overlay.RGBAAt(box.Min.X, box.Min.Y))

	box = bubble.RegionAt(l.Question(2)[0], s.Zoom).Box
	assert.Equal(t, ColorBlank, pg.Overlay.RGBAAt(box.Min.X, box.Min.Y))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, ColorOK, StatusColor(decode.StatusOK))
	assert.Equal(t, ColorAmbiguous, StatusColor(decode.StatusAmbiguous))
	assert.Equal(t, ColorMulti, StatusColor(decode.StatusMulti))
	assert.Equal(t, ColorBlank, StatusColor(decode.StatusBlank))
}
