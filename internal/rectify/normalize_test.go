package rectify

import (
	"image"
	"testing"

	"github.com/MeKo-Tech/omr/internal/corners"
	"github.com/MeKo-Tech/omr/internal/layout"
	"github.com/MeKo-Tech/omr/internal/testutil"
	"github.com/MeKo-Tech/omr/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_RemovesBorderOffset(t *testing.T) {
	s := testutil.DefaultSheet()
	s.Border = 40
	s.Answers = []string{"B"}
	img, err := testutil.RenderSheet(s)
	require.NoError(t, err)

	set := corners.Locate(img, corners.DefaultConfig())
	require.True(t, set.Complete())

	res := Normalize(img, set, s.Zoom)
	require.True(t, res.Transform.Calibrated())
	w, h := CanonicalSize(s.Zoom)
	assert.Equal(t, image.Rect(0, 0, w, h), res.Image.Bounds())

	// The Q1 "B" bubble must be dark at its layout position in the canonical frame.
	l, err := layout.New(s.Questions, s.Choices)
	require.NoError(t, err)
	b := l.Question(1)[1]
	x, y := testutil.ToPixel(b.X, b.Y, s.Zoom)
	assert.Less(t, res.Image.RGBAAt(int(x), int(y)).R, uint8(60))

	a := l.Question(1)[0]
	x, y = testutil.ToPixel(a.X, a.Y, s.Zoom)
	assert.Greater(t, res.Image.RGBAAt(int(x), int(y)).R, uint8(200))
}

func TestNormalize_DegradedIsIdentityCopy(t *testing.T) {
	s := testutil.DefaultSheet()
	s.NoCorners = true
	img, err := testutil.RenderSheet(s)
	require.NoError(t, err)

	set := corners.Locate(img, corners.DefaultConfig())
	res := Normalize(img, set, s.Zoom)
	assert.False(t, res.Transform.Calibrated())
	assert.Equal(t, "identity", res.Transform.Mode())
	assert.Equal(t, img.Bounds().Size(), res.Image.Bounds().Size())

	// The result is a copy.
	res.Image.Pix[0] = 1
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestNormalize_NilSet(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	res := Normalize(img, nil, 1)
	assert.IsType(t, Identity{}, res.Transform)
}

func TestCanonicalMarks(t *testing.T) {
	m := CanonicalMarks(2)
	assert.Equal(t, utils.Point{X: 60, Y: 60}, m[0])
	assert.Equal(t, utils.Point{X: 1130, Y: 1624}, m[2])
}
