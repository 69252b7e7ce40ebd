// Package geom provides the 2-D primitives the topology engine works with:
// points, elementary segments, distances and the slope-based angle
// comparison used to tell collinear runs from real direction changes.
package geom

import "math"

// XY is a 2-D coordinate.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Seg is a straight segment between two coordinates.
type Seg struct {
	A XY
	B XY
}

// Dist returns the euclidean distance between two coordinates.
func Dist(a, b XY) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Reverse returns the segment with its endpoints swapped.
func (s Seg) Reverse() Seg {
	return Seg{A: s.B, B: s.A}
}

// Length returns the segment's length.
func (s Seg) Length() float64 {
	return Dist(s.A, s.B)
}

// SlopeAngle returns the segment's slope angle in degrees, in (-90, 90].
// Vertical segments resolve to 90 regardless of orientation, which makes
// the comparison insensitive to segment direction.
func (s Seg) SlopeAngle() float64 {
	dx := s.B.X - s.A.X
	dy := s.B.Y - s.A.Y
	if dx == 0 {
		return 90
	}
	return math.Atan(dy/dx) * 180 / math.Pi
}

// AngleBetween returns the difference between the slope angles of two
// segments in degrees. The result is signed; callers compare its absolute
// value against a threshold.
func AngleBetween(l1, l2 Seg) float64 {
	return l1.SlopeAngle() - l2.SlopeAngle()
}

// DistToSeg returns the distance from p to the closest point of s,
// including the segment interior.
func DistToSeg(p XY, s Seg) float64 {
	return Dist(p, NearestOnSeg(p, s))
}

// NearestOnSeg returns the point of s closest to p.
func NearestOnSeg(p XY, s Seg) XY {
	dx := s.B.X - s.A.X
	dy := s.B.Y - s.A.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return s.A
	}
	t := ((p.X-s.A.X)*dx + (p.Y-s.A.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return XY{X: s.A.X + t*dx, Y: s.A.Y + t*dy}
}
