package testutil

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/omr/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayAt(img image.Image, x, y float64) uint8 {
	r, _, _, _ := img.At(int(x), int(y)).RGBA()
	return uint8(r >> 8)
}

func TestRenderSheet_MarksAndCorners(t *testing.T) {
	s := DefaultSheet()
	s.Answers = []string{"A", "", "BD"}
	s.Seat = "05"
	img, err := RenderSheet(s)
	require.NoError(t, err)

	w, h := PageSize(s.Zoom)
	assert.Equal(t, image.Rect(0, 0, w, h), img.Bounds())

	tl := layout.CornerMarkCenters()[0]
	assert.Equal(t, uint8(0), grayAt(img, tl[0]*s.Zoom, tl[1]*s.Zoom))

	l, err := layout.New(3, 4)
	require.NoError(t, err)
	q1 := l.Question(1)
	x, y := ToPixel(q1[0].X, q1[0].Y, s.Zoom)
	assert.Equal(t, uint8(0), grayAt(img, x, y), "Q1 A filled")
	x, y = ToPixel(q1[1].X, q1[1].Y, s.Zoom)
	assert.Equal(t, uint8(255), grayAt(img, x, y), "Q1 B blank")

	seatTop := layout.SeatRow(true)[0]
	x, y = ToPixel(seatTop.X, seatTop.Y, s.Zoom)
	assert.Equal(t, uint8(0), grayAt(img, x, y))
}

func TestRenderSheet_MissingCornerAndBorder(t *testing.T) {
	s := DefaultSheet()
	s.MissingCorner = 2
	s.Border = 10
	img, err := RenderSheet(s)
	require.NoError(t, err)

	w, h := PageSize(s.Zoom)
	assert.Equal(t, w+20, img.Bounds().Dx())
	assert.Equal(t, h+20, img.Bounds().Dy())

	br := layout.CornerMarkCenters()[2]
	assert.Equal(t, uint8(255), grayAt(img, br[0]*s.Zoom+10, br[1]*s.Zoom+10))
}

func TestWriteSheet(t *testing.T) {
	dir := t.TempDir()
	path := WriteSheet(t, dir, "p1.png", DefaultSheet())
	assert.Equal(t, filepath.Join(dir, "p1.png"), path)
	assert.True(t, FileExists(path))
}

func TestGetProjectRoot(t *testing.T) {
	root, err := GetProjectRoot()
	require.NoError(t, err)
	assert.True(t, FileExists(filepath.Join(root, "go.mod")))
}
