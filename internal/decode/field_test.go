package decode

import (
	"testing"

	"github.com/MeKo-Tech/omr/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldNames(t *testing.T) {
	assert.Equal(t, "grade", Grade.Name())
	assert.Equal(t, "class_no", Class.Name())
	assert.Equal(t, "seat_tens", SeatTens.Name())
	assert.Equal(t, "seat_ones", SeatOnes.Name())
	assert.Equal(t, "Q12", Question(12).Name())
	assert.Equal(t, "12", Question(12).QuestionLabel())
	assert.Empty(t, Grade.QuestionLabel())
}

func TestFieldModes(t *testing.T) {
	assert.Equal(t, ModeSingle, Grade.Mode())
	assert.Equal(t, ModeSingle, Class.Mode())
	assert.Equal(t, ModeMulti, SeatTens.Mode())
	assert.Equal(t, ModeMulti, Question(1).Mode())
}

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	assert.InDelta(t, 0.05, th.For(Grade).MinScore, 1e-12)
	assert.InDelta(t, 0.05, th.For(Class).MinScore, 1e-12)
	assert.InDelta(t, 0.06, th.For(SeatOnes).MinScore, 1e-12)
	assert.InDelta(t, 0.025, th.For(Question(3)).MinScore, 1e-12)
	assert.InDelta(t, 0.02, th.For(Grade).AmbDelta, 1e-12)
	assert.InDelta(t, 0.03, th.For(Question(3)).AmbDelta, 1e-12)
	assert.InDelta(t, 0.65, th.Choice.MultiRatio, 1e-12)
}

func TestSpecs(t *testing.T) {
	ids := IdentitySpecs()
	require.Len(t, ids, 2)
	assert.Len(t, ids[0].Bubbles, len(ids[0].Labels))
	assert.Len(t, ids[1].Bubbles, 10)

	l, err := layout.New(5, 3)
	require.NoError(t, err)
	qs := QuestionSpecs(l)
	require.Len(t, qs, 5)
	assert.Equal(t, Question(5), qs[4].Field)
	assert.Equal(t, []string{"A", "B", "C"}, qs[4].Labels)

	r := qs[0].Decode([]float64{0.5, 0.6, 0}, DefaultThresholds())
	assert.Equal(t, StatusMulti, r.Status)
	r = ids[0].Decode([]float64{0, 0.5, 0.49, 0, 0, 0}, DefaultThresholds())
	assert.Equal(t, StatusAmbiguous, r.Status)
	assert.Equal(t, "8", r.Value)
}
