package chart

import (
	"math"
	"testing"
)

func TestWedgePathShape(t *testing.T) {
	w := WedgeGeometry{StartAngle: -90, EndAngle: 126, OuterRadius: 90, InnerRadius: 54}
	p := WedgePath(w, 100, 100)

	wantVerbs := []PathVerb{MoveTo, ArcTo, LineTo, ArcTo, ClosePath}
	if len(p) != len(wantVerbs) {
		t.Fatalf("expected %d elements, got %d", len(wantVerbs), len(p))
	}
	for i, verb := range wantVerbs {
		if p[i].Verb != verb {
			t.Fatalf("element %d: expected %s, got %s", i, verb, p[i].Verb)
		}
	}

	// Path opens at the outer-arc start point: 12 o'clock at outer radius.
	if math.Abs(p[0].X-100) > 1e-9 || math.Abs(p[0].Y-10) > 1e-9 {
		t.Fatalf("expected start (100, 10), got (%v, %v)", p[0].X, p[0].Y)
	}

	// Outer arc sweeps forward, inner arc sweeps back.
	if p[1].StartAngle != w.StartAngle || p[1].EndAngle != w.EndAngle || p[1].Radius != w.OuterRadius {
		t.Fatalf("outer arc mismatch: %+v", p[1])
	}
	if p[3].StartAngle != w.EndAngle || p[3].EndAngle != w.StartAngle || p[3].Radius != w.InnerRadius {
		t.Fatalf("inner arc mismatch: %+v", p[3])
	}

	// Radial edge lands on the inner circle at the end angle.
	ix, iy := pointOnCircle(100, 100, w.InnerRadius, w.EndAngle)
	if p[2].X != ix || p[2].Y != iy {
		t.Fatalf("expected radial edge to (%v, %v), got (%v, %v)", ix, iy, p[2].X, p[2].Y)
	}
}

func TestAdjacentWedgePathsShareSeamPoints(t *testing.T) {
	shares := sharesOf(60, 40)
	wedges, err := DefaultLayout().Wedges(shares, 200, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	left := WedgePath(wedges[0], 100, 100)
	right := WedgePath(wedges[1], 100, 100)

	// The first wedge's end angle and the second's start angle are the
	// same float, so the boundary points must be bit-identical.
	lx, ly := pointOnCircle(100, 100, wedges[0].OuterRadius, wedges[0].EndAngle)
	rx, ry := pointOnCircle(100, 100, wedges[1].OuterRadius, wedges[1].StartAngle)
	if lx != rx || ly != ry {
		t.Fatalf("outer seam points differ: (%v, %v) vs (%v, %v)", lx, ly, rx, ry)
	}
	if right[0].X != rx || right[0].Y != ry {
		t.Fatalf("second wedge does not open at the shared seam")
	}
	_ = left
}

func TestPointOnCircleReference(t *testing.T) {
	cases := []struct {
		angle float64
		x, y  float64
	}{
		{-90, 0, -1}, // 12 o'clock
		{0, 1, 0},    // 3 o'clock
		{90, 0, 1},   // 6 o'clock
		{180, -1, 0}, // 9 o'clock
	}
	for _, tc := range cases {
		x, y := pointOnCircle(0, 0, 1, tc.angle)
		if math.Abs(x-tc.x) > 1e-12 || math.Abs(y-tc.y) > 1e-12 {
			t.Fatalf("angle %v: expected (%v, %v), got (%v, %v)", tc.angle, tc.x, tc.y, x, y)
		}
	}
}
