// Package topology reconstructs a connected pipe-network graph from
// disjoint, tolerance-positioned line segments.
//
// The passes run strictly in order over a single Graph: decomposition,
// touching resolution, mid-span tap splitting, attachment snapping,
// junction classification, chain walking and direction propagation. Each
// pass depends on the invariants the previous one established.
package topology

import (
	"fmt"

	"github.com/gridwise/pipetrace/pkg/pipetrace/config"
	"github.com/gridwise/pipetrace/pkg/pipetrace/geom"
	"github.com/gridwise/pipetrace/pkg/pipetrace/internalerr"
)

// PointID indexes a point in the graph arena.
type PointID int

// SegmentID indexes a segment in the graph arena.
type SegmentID int

// Role is a point's position on its owning segment.
type Role int

const (
	RoleNone Role = iota
	RoleStart
	RoleEnd
)

// Class is the classification a point receives during tap detection and
// junction classification.
type Class int

const (
	// ClassNone marks an unclassified point: a free line end or a plain
	// pass-through continuation.
	ClassNone Class = iota
	// ClassMidTap marks a point lying on the interior of a foreign segment;
	// it is resolved into a branch by splitting that segment.
	ClassMidTap
	// ClassBranch marks a true three-way junction point.
	ClassBranch
	// ClassSameAngle marks a junction candidate whose two partners run in
	// the same direction: a collinear duplicate, reported as a warning.
	ClassSameAngle
	// ClassClosedEnd marks a leg closed at a junction or attachment so
	// traversal does not re-open it.
	ClassClosedEnd
)

func (c Class) String() string {
	switch c {
	case ClassMidTap:
		return "mid-tap"
	case ClassBranch:
		return "branch"
	case ClassSameAngle:
		return "same-angle"
	case ClassClosedEnd:
		return "closed-end"
	default:
		return "none"
	}
}

// Point is one endpoint of an elementary segment.
type Point struct {
	ID         PointID
	Pos        geom.XY
	Role       Role
	Segment    SegmentID
	Touching   []PointID // symmetric relation, at most two partners
	Class      Class
	Junction   int       // 1-based junction number, 0 when none
	Attachment int       // index into Graph.Attachments, -1 when none
	TapSegment SegmentID // foreign segment a mid-tap lies on, -1 when none

	processed bool
}

// Segment is an elementary straight piece of an input line.
type Segment struct {
	ID      SegmentID
	Start   PointID
	End     PointID
	Attr    string // size class used for adapter detection
	Feature string // originating input feature
}

// Junction is a discovered branch location.
type Junction struct {
	Nr    int
	Pos   geom.XY
	Point PointID   // the classified point
	Legs  []PointID // incident points, in discovery order
}

// Adapter joins two chains whose attributes differ.
type Adapter struct {
	Nr       int
	Pos      geom.XY
	FromAttr string
	ToAttr   string
}

// AttachKind distinguishes producer and consumer attachments.
type AttachKind int

const (
	AttachProducer AttachKind = iota
	AttachConsumer
)

func (k AttachKind) String() string {
	if k == AttachConsumer {
		return "consumer"
	}
	return "producer"
}

// Attachment is an external producer or consumer snapped onto the network.
type Attachment struct {
	Kind  AttachKind
	Name  string
	Power float64
	Pos   geom.XY
	Point PointID // nearest network point, -1 when nothing is in range
}

// Graph owns the point and segment arenas and the append-only result
// collections. All cross-references are arena indices, never pointers keyed
// by coordinates.
type Graph struct {
	cfg config.Config

	Points   []*Point
	Segments []*Segment

	Junctions   []*Junction
	Adapters    []*Adapter
	Attachments []*Attachment
	Chains      []*Chain
	Warnings    []Warning

	junctionSeq int
}

// NewGraph creates an empty graph using the given configuration.
func NewGraph(cfg config.Config) *Graph {
	return &Graph{cfg: cfg}
}

// AddLine decomposes an input polyline into elementary two-point segments.
// Interior vertices never become shared points: each segment owns a fresh
// start and end point, and coincidence is resolved later by proximity.
func (g *Graph) AddLine(coords []geom.XY, attr, feature string) error {
	if len(coords) < 2 {
		return fmt.Errorf("%w: line %q needs at least two coordinates", internalerr.ErrInvalidInput, feature)
	}
	for i := 0; i+1 < len(coords); i++ {
		g.addSegment(coords[i], coords[i+1], attr, feature)
	}
	return nil
}

// AddAttachment registers a producer or consumer location. Snapping onto
// the network happens in SnapAttachments.
func (g *Graph) AddAttachment(kind AttachKind, name string, power float64, pos geom.XY) int {
	g.Attachments = append(g.Attachments, &Attachment{
		Kind:  kind,
		Name:  name,
		Power: power,
		Pos:   pos,
		Point: -1,
	})
	return len(g.Attachments) - 1
}

func (g *Graph) addSegment(a, b geom.XY, attr, feature string) *Segment {
	sid := SegmentID(len(g.Segments))
	ps := g.addPoint(a, RoleStart, sid)
	pe := g.addPoint(b, RoleEnd, sid)
	s := &Segment{ID: sid, Start: ps.ID, End: pe.ID, Attr: attr, Feature: feature}
	g.Segments = append(g.Segments, s)
	return s
}

func (g *Graph) addPoint(pos geom.XY, role Role, seg SegmentID) *Point {
	p := &Point{
		ID:         PointID(len(g.Points)),
		Pos:        pos,
		Role:       role,
		Segment:    seg,
		Attachment: -1,
		TapSegment: -1,
	}
	g.Points = append(g.Points, p)
	return p
}

func (g *Graph) nextJunction() int {
	g.junctionSeq++
	return g.junctionSeq
}

// segShape returns the segment's geometry oriented start to end.
func (g *Graph) segShape(s *Segment) geom.Seg {
	return geom.Seg{A: g.Points[s.Start].Pos, B: g.Points[s.End].Pos}
}

// outwardSeg returns the segment of p oriented to point away from p.
func (g *Graph) outwardSeg(p *Point) (geom.Seg, error) {
	sh := g.segShape(g.Segments[p.Segment])
	switch p.Role {
	case RoleStart:
		return sh, nil
	case RoleEnd:
		return sh.Reverse(), nil
	default:
		return geom.Seg{}, fmt.Errorf("%w: point %d has neither start nor end role", internalerr.ErrUnresolvedPointRole, p.ID)
	}
}

// otherEnd returns the opposite endpoint of p's segment.
func (g *Graph) otherEnd(p *Point) (*Point, error) {
	s := g.Segments[p.Segment]
	switch p.Role {
	case RoleStart:
		return g.Points[s.End], nil
	case RoleEnd:
		return g.Points[s.Start], nil
	default:
		return nil, fmt.Errorf("%w: point %d has neither start nor end role", internalerr.ErrUnresolvedPointRole, p.ID)
	}
}

// CheckConsistency verifies the structural invariants between the point and
// segment arenas: every segment owns exactly two points of opposite roles,
// and every point is listed by the segment it references.
func (g *Graph) CheckConsistency() error {
	for _, s := range g.Segments {
		if int(s.Start) >= len(g.Points) || int(s.End) >= len(g.Points) {
			return fmt.Errorf("%w: segment %d references missing points", internalerr.ErrInconsistentTopology, s.ID)
		}
		start, end := g.Points[s.Start], g.Points[s.End]
		if start.Segment != s.ID || end.Segment != s.ID {
			return fmt.Errorf("%w: segment %d has a point that references another segment", internalerr.ErrInconsistentTopology, s.ID)
		}
		if start.Role != RoleStart || end.Role != RoleEnd {
			return fmt.Errorf("%w: segment %d does not own a start and an end point", internalerr.ErrInconsistentTopology, s.ID)
		}
	}
	for _, p := range g.Points {
		if int(p.Segment) >= len(g.Segments) {
			return fmt.Errorf("%w: point %d references missing segment", internalerr.ErrInconsistentTopology, p.ID)
		}
		s := g.Segments[p.Segment]
		if s.Start != p.ID && s.End != p.ID {
			return fmt.Errorf("%w: point %d is not listed by its segment %d", internalerr.ErrInconsistentTopology, p.ID, s.ID)
		}
	}
	return nil
}

// Processed reports whether the walker has visited the point. Exposed for
// tests and debug layers.
func (p *Point) Processed() bool { return p.processed }
