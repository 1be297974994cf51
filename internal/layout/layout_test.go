package layout

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultGeometry(t *testing.T) {
	l, err := New(50, 4)
	require.NoError(t, err)

	assert.Equal(t, 50, l.Questions)
	assert.Equal(t, []string{"A", "B", "C", "D"}, l.Choices)
	assert.Equal(t, 3, l.Columns)
	assert.Equal(t, 34, l.RowsPerColumn)
	assert.InDelta(t, 570.0, l.FirstRowY, 1e-9)
	assert.InDelta(t, 499.0/33.0, l.RowStep, 1e-9)
	require.Len(t, l.BubbleXs, 3)
	for c, xs := range l.BubbleXs {
		require.Len(t, xs, 4)
		colX0 := 25 + float64(c)*545.0/3
		assert.InDelta(t, colX0+10+30+10+6, xs[0], 1e-9, "first choice sits after the gutter")
		assert.InDelta(t, colX0+545.0/3-10-6, xs[3], 1e-9, "last choice sits at the inner margin")
		assert.InDelta(t, colX0+10+30, l.NumberRightX[c], 1e-9)
	}
}

func TestNew_ClampsCounts(t *testing.T) {
	l, err := New(0, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Questions)
	assert.Len(t, l.Choices, MaxChoices)

	l, err = New(500, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxQuestions, l.Questions)
	assert.Equal(t, []string{"A", "B", "C"}, l.Choices)
}

func TestCompute_RowSpacingTooSmall(t *testing.T) {
	g := DefaultGeometry()
	g.BoxY0 = 400 // squeeze the answer box

	_, err := Compute(g, 10, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRowSpacing))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Less(t, cfgErr.RowStep, cfgErr.MinStep)
	assert.InDelta(t, 13.0, cfgErr.MinStep, 1e-9)
}

func TestQuestion_WrapsColumns(t *testing.T) {
	l, err := New(100, 5)
	require.NoError(t, err)

	col, row := l.Cell(1)
	assert.Equal(t, 0, col)
	assert.Equal(t, 0, row)

	col, row = l.Cell(34)
	assert.Equal(t, 0, col)
	assert.Equal(t, 33, row)

	col, row = l.Cell(35)
	assert.Equal(t, 1, col)
	assert.Equal(t, 0, row)

	q35 := l.Question(35)
	require.Len(t, q35, 5)
	assert.InDelta(t, l.FirstRowY, q35[0].Y, 1e-9)
	assert.InDelta(t, l.BubbleXs[1][0], q35[0].X, 1e-9)

	assert.Nil(t, l.Question(0))
	assert.Nil(t, l.Question(101))
}

func TestIdentityBubbles(t *testing.T) {
	assert.Equal(t, []string{"7", "8", "9", "10", "11", "12"}, GradeLabels())
	assert.Len(t, GradeBubbles(), 6)
	assert.Equal(t, "0", ClassLabels()[0])
	assert.Len(t, ClassBubbles(), 10)

	top, bottom := SeatRow(true), SeatRow(false)
	require.Len(t, top, SeatDigits)
	require.Len(t, bottom, SeatDigits)
	assert.InDelta(t, 677.0, top[0].Y, 1e-9)
	assert.InDelta(t, 655.0, bottom[0].Y, 1e-9)
	assert.InDelta(t, 376.0, top[0].X, 1e-9)
	assert.InDelta(t, 376.0+9*16, top[9].X, 1e-9)
}

func TestPrefixInvariance_Property(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("earlier questions keep their position", prop.ForAll(
		func(n1, n2, choices int) bool {
			if n1 > n2 {
				n1, n2 = n2, n1
			}
			l1, err1 := New(n1, choices)
			l2, err2 := New(n2, choices)
			if err1 != nil || err2 != nil {
				return false
			}
			for q := 1; q <= l1.Questions; q++ {
				a, b := l1.Question(q), l2.Question(q)
				if len(a) != len(b) {
					return false
				}
				for i := range a {
					if a[i] != b[i] {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, MaxQuestions),
		gen.IntRange(1, MaxQuestions),
		gen.IntRange(MinChoices, MaxChoices),
	))

	properties.TestingRun(t)
}
