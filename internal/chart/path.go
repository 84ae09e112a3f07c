package chart

import "math"

// PathVerb identifies one drawing primitive of a wedge boundary.
type PathVerb string

const (
	MoveTo    PathVerb = "move"
	LineTo    PathVerb = "line"
	ArcTo     PathVerb = "arc"
	ClosePath PathVerb = "close"
)

// PathElement is a single move/line/arc/close instruction. X/Y carry the
// target point for MoveTo and LineTo. ArcTo traces a circular arc around
// (CX, CY) at Radius from StartAngle to EndAngle in degrees; an EndAngle
// below StartAngle sweeps counter-clockwise.
type PathElement struct {
	Verb       PathVerb `json:"verb"`
	X          float64  `json:"x,omitempty"`
	Y          float64  `json:"y,omitempty"`
	CX         float64  `json:"cx,omitempty"`
	CY         float64  `json:"cy,omitempty"`
	Radius     float64  `json:"radius,omitempty"`
	StartAngle float64  `json:"startAngle,omitempty"`
	EndAngle   float64  `json:"endAngle,omitempty"`
}

// Path is a closed wedge boundary as an ordered list of primitives,
// consumable by any 2D rendering surface.
type Path []PathElement

// WedgePath builds the closed boundary of a wedge centered on (cx, cy):
// outer arc forward, radial edge inward, inner arc backward, close. The
// result is non-self-intersecting provided InnerRadius < OuterRadius and
// EndAngle >= StartAngle.
func WedgePath(w WedgeGeometry, cx, cy float64) Path {
	outerStartX, outerStartY := pointOnCircle(cx, cy, w.OuterRadius, w.StartAngle)
	innerEndX, innerEndY := pointOnCircle(cx, cy, w.InnerRadius, w.EndAngle)

	return Path{
		{Verb: MoveTo, X: outerStartX, Y: outerStartY},
		{Verb: ArcTo, CX: cx, CY: cy, Radius: w.OuterRadius, StartAngle: w.StartAngle, EndAngle: w.EndAngle},
		{Verb: LineTo, X: innerEndX, Y: innerEndY},
		{Verb: ArcTo, CX: cx, CY: cy, Radius: w.InnerRadius, StartAngle: w.EndAngle, EndAngle: w.StartAngle},
		{Verb: ClosePath},
	}
}

// pointOnCircle returns the point at angleDeg on the circle of radius r
// around (cx, cy). With y growing downward, increasing angles move
// clockwise and -90° points to 12 o'clock.
func pointOnCircle(cx, cy, r, angleDeg float64) (x, y float64) {
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return cx + cos*r, cy + sin*r
}
