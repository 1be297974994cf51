// Package corners finds the four printed alignment marks on a scanned page.
package corners

import (
	"github.com/MeKo-Tech/omr/internal/utils"
)

// Corner names one of the four alignment marks.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// Corners lists the marks in the order used by perspective transforms.
var Corners = [4]Corner{TopLeft, TopRight, BottomRight, BottomLeft}

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "tl"
	case TopRight:
		return "tr"
	case BottomRight:
		return "br"
	case BottomLeft:
		return "bl"
	default:
		return "unknown"
	}
}

// opposite returns the corner diagonally across from c.
func (c Corner) opposite() Corner { return (c + 2) % 4 }

// Set holds up to four located corner points in pixel space.
type Set struct {
	points [4]utils.Point
	found  [4]bool
	filled Corner // reconstructed corner, valid when reconstructed is true

	reconstructed bool
}

// Put records the location of corner c.
func (s *Set) Put(c Corner, p utils.Point) {
	s.points[c] = p
	s.found[c] = true
}

// Get returns the location of corner c and whether it is known.
func (s *Set) Get(c Corner) (utils.Point, bool) {
	return s.points[c], s.found[c]
}

// Count returns how many corners are known.
func (s *Set) Count() int {
	n := 0
	for _, ok := range s.found {
		if ok {
			n++
		}
	}
	return n
}

// Complete reports whether all four corners are known.
func (s *Set) Complete() bool { return s.Count() == 4 }

// Reconstructed reports which corner, if any, was inferred by FillMissing.
func (s *Set) Reconstructed() (Corner, bool) { return s.filled, s.reconstructed }

// Points returns the corners in TL, TR, BR, BL order. Only meaningful when Complete.
func (s *Set) Points() [4]utils.Point { return s.points }

// FillMissing infers a single missing corner assuming the marks form a
// parallelogram: the missing point is the sum of its two neighbours minus the
// corner opposite it. It reports whether the set is complete afterwards.
func (s *Set) FillMissing() bool {
	switch s.Count() {
	case 4:
		return true
	case 3:
	default:
		return false
	}
	for _, c := range Corners {
		if s.found[c] {
			continue
		}
		prev := s.points[(c+3)%4]
		next := s.points[(c+1)%4]
		opp := s.points[c.opposite()]
		s.Put(c, prev.Add(next).Sub(opp))
		s.filled = c
		s.reconstructed = true
	}
	return true
}
