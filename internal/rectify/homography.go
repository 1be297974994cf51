package rectify

import (
	"math"

	"github.com/MeKo-Tech/omr/internal/utils"
)

// Matrix is a row-major 3x3 projective transform with m[8] normalised to 1.
type Matrix [9]float64

// IdentityMatrix returns the identity transform.
func IdentityMatrix() Matrix { return Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1} }

// Apply maps p through m. A point on the line at infinity maps far outside
// any image so samplers treat it as out of bounds.
func (m Matrix) Apply(p utils.Point) utils.Point {
	denom := m[6]*p.X + m[7]*p.Y + m[8]
	if denom == 0 {
		return utils.Point{X: -1e9, Y: -1e9}
	}
	return utils.Point{
		X: (m[0]*p.X + m[1]*p.Y + m[2]) / denom,
		Y: (m[3]*p.X + m[4]*p.Y + m[5]) / denom,
	}
}

// computeHomography returns the matrix mapping src[i] to dst[i].
func computeHomography(src, dst [4]utils.Point) (Matrix, bool) {
	// Two rows per correspondence for the eight unknowns h00..h21:
	//   x' (h20 X + h21 Y + 1) = h00 X + h01 Y + h02
	//   y' (h20 X + h21 Y + 1) = h10 X + h11 Y + h12
	var a [8][8]float64
	var b [8]float64
	for i := range 4 {
		X, Y := src[i].X, src[i].Y
		x, y := dst[i].X, dst[i].Y
		r := 2 * i
		a[r] = [8]float64{X, Y, 1, 0, 0, 0, -X * x, -Y * x}
		b[r] = x
		a[r+1] = [8]float64{0, 0, 0, X, Y, 1, -X * y, -Y * y}
		b[r+1] = y
	}

	h, ok := solve8x8(a, b)
	if !ok {
		return Matrix{}, false
	}
	return Matrix{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, true
}

// solve8x8 runs Gauss-Jordan elimination with partial pivoting.
func solve8x8(a [8][8]float64, b [8]float64) ([8]float64, bool) {
	for col := range 8 {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return [8]float64{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		div := a[col][col]
		for c := col; c < 8; c++ {
			a[col][c] /= div
		}
		b[col] /= div

		for r := range 8 {
			f := a[r][col]
			if r == col || f == 0 {
				continue
			}
			for c := col; c < 8; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}
	return b, true
}
