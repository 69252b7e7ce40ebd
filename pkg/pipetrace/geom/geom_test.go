package geom

import (
	"math"
	"testing"
)

func TestDist(t *testing.T) {
	d := Dist(XY{X: 0, Y: 0}, XY{X: 3, Y: 4})
	if d != 5 {
		t.Errorf("expected 5, got %f", d)
	}
}

func TestSlopeAngleHorizontal(t *testing.T) {
	s := Seg{A: XY{X: 0, Y: 0}, B: XY{X: 10, Y: 0}}
	if a := s.SlopeAngle(); a != 0 {
		t.Errorf("horizontal segment should have slope angle 0, got %f", a)
	}
	// Orientation must not matter for the slope comparison
	if a := s.Reverse().SlopeAngle(); a != 0 {
		t.Errorf("reversed horizontal segment should have slope angle 0, got %f", a)
	}
}

func TestSlopeAngleVertical(t *testing.T) {
	s := Seg{A: XY{X: 10, Y: 0}, B: XY{X: 10, Y: 10}}
	if a := s.SlopeAngle(); a != 90 {
		t.Errorf("vertical segment should resolve to 90, got %f", a)
	}
	if a := s.Reverse().SlopeAngle(); a != 90 {
		t.Errorf("reversed vertical segment should resolve to 90, got %f", a)
	}
}

func TestAngleBetween(t *testing.T) {
	h := Seg{A: XY{X: 0, Y: 0}, B: XY{X: 10, Y: 0}}
	v := Seg{A: XY{X: 10, Y: 0}, B: XY{X: 10, Y: 10}}
	diag := Seg{A: XY{X: 0, Y: 0}, B: XY{X: 10, Y: 10}}

	if a := math.Abs(AngleBetween(h, v)); a != 90 {
		t.Errorf("horizontal vs vertical should differ by 90, got %f", a)
	}
	if a := math.Abs(AngleBetween(h, diag)); math.Abs(a-45) > 1e-9 {
		t.Errorf("horizontal vs diagonal should differ by 45, got %f", a)
	}
	if a := AngleBetween(h, h); a != 0 {
		t.Errorf("identical segments should differ by 0, got %f", a)
	}
}

func TestNearestOnSeg(t *testing.T) {
	s := Seg{A: XY{X: 0, Y: 0}, B: XY{X: 10, Y: 0}}

	// Projection onto the interior
	n := NearestOnSeg(XY{X: 5, Y: 3}, s)
	if n.X != 5 || n.Y != 0 {
		t.Errorf("expected (5,0), got (%f,%f)", n.X, n.Y)
	}

	// Clamped to an endpoint
	n = NearestOnSeg(XY{X: -4, Y: 0}, s)
	if n != s.A {
		t.Errorf("expected clamp to start, got (%f,%f)", n.X, n.Y)
	}

	// Degenerate zero-length segment
	z := Seg{A: XY{X: 1, Y: 1}, B: XY{X: 1, Y: 1}}
	if n := NearestOnSeg(XY{X: 9, Y: 9}, z); n != z.A {
		t.Errorf("degenerate segment should return its endpoint, got (%f,%f)", n.X, n.Y)
	}
}

func TestDistToSeg(t *testing.T) {
	s := Seg{A: XY{X: 0, Y: 0}, B: XY{X: 10, Y: 0}}
	if d := DistToSeg(XY{X: 5, Y: 2}, s); d != 2 {
		t.Errorf("expected 2, got %f", d)
	}
	if d := DistToSeg(XY{X: 13, Y: 4}, s); d != 5 {
		t.Errorf("expected 5 past the endpoint, got %f", d)
	}
}
