// Package chart computes donut-chart segment geometry for the category
// analytics screen. It converts an ordered list of category shares into
// renderable wedge boundaries and carries no dependencies beyond basic
// trigonometry; drawing is left to the caller (see svg.go for the
// built-in SVG surface).
package chart

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DegreesPerPercent converts a percentage share into sweep degrees.
	DegreesPerPercent = 3.6 // 360° / 100%

	// startReference puts index 0 at the 12-o'clock position. Angles
	// increase clockwise in the y-down screen coordinate system.
	startReference = -90.0

	// DefaultInnerRatio is the inner/outer radius ratio defining the
	// donut's ring thickness.
	DefaultInnerRatio = 0.6

	// DefaultMargin is the edge margin between the outer radius and the
	// viewport boundary, in presentation units.
	DefaultMargin = 8.0
)

var (
	ErrInvalidShare    = errors.New("invalid category share")
	ErrInvalidViewport = errors.New("invalid viewport")
	ErrInvalidLayout   = errors.New("invalid layout")
)

// CategoryShare is one input record for the donut. Name is unique within
// one chart's dataset. Percentage is a share in [0, 100]; the dataset is
// expected, but not required, to sum to roughly 100. Color and
// AmountCents are display-only and carry no meaning to the geometry.
type CategoryShare struct {
	Name        string
	Percentage  float64
	Color       Color
	AmountCents int64
}

// WedgeGeometry is the derived boundary of one donut wedge. Angles are
// in degrees, measured from 12 o'clock (-90°) increasing clockwise, with
// EndAngle >= StartAngle. Values are pure functions of the input
// sequence, index and viewport; they hold no identity.
type WedgeGeometry struct {
	StartAngle  float64
	EndAngle    float64
	OuterRadius float64
	InnerRadius float64
}

// Sweep returns the angular width of the wedge in degrees.
func (w WedgeGeometry) Sweep() float64 {
	return w.EndAngle - w.StartAngle
}

// Layout holds the presentation constants of the donut.
type Layout struct {
	Margin     float64 // edge margin subtracted from the outer radius
	InnerRatio float64 // inner radius as a fraction of the outer radius
}

// DefaultLayout returns the standard donut layout.
func DefaultLayout() Layout {
	return Layout{Margin: DefaultMargin, InnerRatio: DefaultInnerRatio}
}

func (l Layout) validate() error {
	if math.IsNaN(l.Margin) || math.IsInf(l.Margin, 0) || l.Margin < 0 {
		return fmt.Errorf("%w: margin %v", ErrInvalidLayout, l.Margin)
	}
	if math.IsNaN(l.InnerRatio) || l.InnerRatio < 0 || l.InnerRatio >= 1 {
		return fmt.Errorf("%w: inner ratio %v must be in [0, 1)", ErrInvalidLayout, l.InnerRatio)
	}
	return nil
}

// Wedges computes one WedgeGeometry per share such that the wedges tile
// the circle contiguously in input order, starting at 12 o'clock and
// proceeding clockwise.
//
// No normalization is performed: shares summing below 100 leave a
// visible gap after the last wedge, shares summing above 100 overlap
// past a full revolution. A zero-percentage share yields a zero-width
// wedge that keeps its list position for drawing order. An empty input
// yields an empty output, but only after the layout and viewport pass
// validation: an unusable viewport is rejected whether or not there is
// data to draw.
//
// Each wedge's angles derive from a prefix sum recomputed from index 0,
// never from the previous wedge's stored value, so adjacent seams align
// to floating-point precision and rounding errors do not accumulate
// across the sequence.
func (l Layout) Wedges(shares []CategoryShare, width, height float64) ([]WedgeGeometry, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	if err := validateViewport(width, height); err != nil {
		return nil, err
	}
	outer := math.Min(width, height)/2 - l.Margin
	if outer <= 0 {
		return nil, fmt.Errorf("%w: %vx%v leaves no radius after margin %v", ErrInvalidViewport, width, height, l.Margin)
	}
	for i, s := range shares {
		if math.IsNaN(s.Percentage) || math.IsInf(s.Percentage, 0) || s.Percentage < 0 {
			return nil, fmt.Errorf("%w: share %d (%q) has percentage %v", ErrInvalidShare, i, s.Name, s.Percentage)
		}
	}
	if len(shares) == 0 {
		return []WedgeGeometry{}, nil
	}
	inner := outer * l.InnerRatio

	prefix := prefixSums(shares)
	wedges := make([]WedgeGeometry, len(shares))
	for i := range shares {
		wedges[i] = WedgeGeometry{
			StartAngle:  startReference + prefix[i]*DegreesPerPercent,
			EndAngle:    startReference + prefix[i+1]*DegreesPerPercent,
			OuterRadius: outer,
			InnerRadius: inner,
		}
	}
	return wedges, nil
}

// prefixSums folds the shares into cumulative percentage totals.
// prefix[i] is the sum of percentages before index i, so prefix has
// len(shares)+1 entries and prefix[len(shares)] is the grand total.
func prefixSums(shares []CategoryShare) []float64 {
	prefix := make([]float64, len(shares)+1)
	for i, s := range shares {
		prefix[i+1] = prefix[i] + s.Percentage
	}
	return prefix
}

func validateViewport(width, height float64) error {
	for _, v := range [2]float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %vx%v", ErrInvalidViewport, width, height)
		}
	}
	return nil
}
