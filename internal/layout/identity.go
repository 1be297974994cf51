package layout

import "strconv"

// Identity area geometry, mirrored from the sheet generator.
const (
	leftX       = 45.0
	rightX      = PageWidthPt - 45
	nameLineX0  = leftX + 40
	identityR   = 6.2
	gradeY      = PageHeightPt - 174
	gradeStep   = 26.0
	classY      = PageHeightPt - 199
	classStep   = 21.0
	seatBoxW    = 200.0
	seatBoxX0   = rightX - seatBoxW
	seatBoxY0   = PageHeightPt - 205
	seatR       = 6.0
	seatStep    = 16.0
	seatStartX  = seatBoxX0 + 26
	seatTopY    = seatBoxY0 + 40
	seatBottomY = seatBoxY0 + 18

	// DividerY separates the identity area from the answer box.
	DividerY = PageHeightPt - 220
)

// SeatDigits is the number of bubbles in each seat-number row.
const SeatDigits = 10

var gradeValues = []int{7, 8, 9, 10, 11, 12}

// GradeLabels returns the grade values in bubble order.
func GradeLabels() []string {
	out := make([]string, len(gradeValues))
	for i, v := range gradeValues {
		out[i] = strconv.Itoa(v)
	}
	return out
}

// GradeBubbles returns the grade bubbles in label order.
func GradeBubbles() []Circle {
	return row(nameLineX0, gradeStep, gradeY, identityR, len(gradeValues))
}

// ClassLabels returns the class digits 0..9 in bubble order.
func ClassLabels() []string { return digits() }

// ClassBubbles returns the class bubbles in label order.
func ClassBubbles() []Circle {
	return row(nameLineX0, classStep, classY, identityR, 10)
}

// SeatRow returns the ten bubbles of the top or bottom seat-number row.
func SeatRow(top bool) []Circle {
	y := seatBottomY
	if top {
		y = seatTopY
	}
	return row(seatStartX, seatStep, y, seatR, SeatDigits)
}

// CornerMarkCenters returns the centres of the four alignment marks in
// top-left, top-right, bottom-right, bottom-left order, in y-down points.
func CornerMarkCenters() [4][2]float64 {
	c := CornerMarkMargin + CornerMarkSize/2
	return [4][2]float64{
		{c, c},
		{PageWidthPt - c, c},
		{PageWidthPt - c, PageHeightPt - c},
		{c, PageHeightPt - c},
	}
}

func row(x0, step, y, r float64, n int) []Circle {
	out := make([]Circle, n)
	for i := range n {
		out[i] = Circle{X: x0 + float64(i)*step, Y: y, R: r}
	}
	return out
}

func digits() []string {
	out := make([]string, 10)
	for i := range 10 {
		out[i] = strconv.Itoa(i)
	}
	return out
}
