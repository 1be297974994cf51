package rectify

import "github.com/MeKo-Tech/omr/internal/utils"

// Transform maps source pixel coordinates into the canonical frame. It is
// either Identity (no calibration) or Computed from located corner marks.
type Transform interface {
	// ToCanonical maps a source pixel to the canonical frame.
	ToCanonical(p utils.Point) utils.Point
	// ToSource maps a canonical pixel back to the source image.
	ToSource(p utils.Point) utils.Point
	// Calibrated reports whether the transform came from corner marks.
	Calibrated() bool
	// Mode names the transform for logs and metrics.
	Mode() string
}

// Identity is used in degraded mode, when fewer than three marks were found.
type Identity struct{}

func (Identity) ToCanonical(p utils.Point) utils.Point { return p }
func (Identity) ToSource(p utils.Point) utils.Point    { return p }
func (Identity) Calibrated() bool                      { return false }
func (Identity) Mode() string                          { return "identity" }

// Computed is a perspective transform solved from four corner pairs.
type Computed struct {
	Forward Matrix // source -> canonical
	Inverse Matrix // canonical -> source
	// Reconstructed is true when one corner was inferred rather than found.
	Reconstructed bool
}

func (c Computed) ToCanonical(p utils.Point) utils.Point { return c.Forward.Apply(p) }
func (c Computed) ToSource(p utils.Point) utils.Point    { return c.Inverse.Apply(p) }
func (Computed) Calibrated() bool                        { return true }

func (c Computed) Mode() string {
	if c.Reconstructed {
		return "reconstructed"
	}
	return "computed"
}

// NewComputed solves the transform mapping src corners onto dst corners.
// It fails when the points are degenerate (three or more collinear).
func NewComputed(src, dst [4]utils.Point) (Computed, bool) {
	fwd, ok := computeHomography(src, dst)
	if !ok {
		return Computed{}, false
	}
	inv, ok := computeHomography(dst, src)
	if !ok {
		return Computed{}, false
	}
	return Computed{Forward: fwd, Inverse: inv}, true
}
