package topology

import (
	"fmt"

	"github.com/gridwise/pipetrace/pkg/pipetrace/geom"
	"github.com/gridwise/pipetrace/pkg/pipetrace/internalerr"
)

// ResolveTouching computes the symmetric touching relation between segment
// endpoints: two points touch when their distance is below the configured
// tolerance. The pass is quadratic over the point count; that is an accepted
// boundary, a spatial index could be substituted without changing behavior.
//
// Fails with ErrUnsupportedBranching as soon as any point would collect more
// than two touching partners, before any traversal output exists.
func (g *Graph) ResolveTouching() error {
	tol := g.cfg.TouchTolerance
	for i, p1 := range g.Points {
		for _, p2 := range g.Points[i+1:] {
			if geom.Dist(p1.Pos, p2.Pos) >= tol {
				continue
			}
			g.addTouching(p1, p2.ID)
			g.addTouching(p2, p1.ID)
		}
	}
	for _, p := range g.Points {
		if len(p.Touching) > 2 {
			return fmt.Errorf("%w: point %d at (%g, %g) has %d touching partners, at most 2 are supported",
				internalerr.ErrUnsupportedBranching, p.ID, p.Pos.X, p.Pos.Y, len(p.Touching))
		}
	}
	return nil
}

func (g *Graph) addTouching(p *Point, id PointID) {
	for _, t := range p.Touching {
		if t == id {
			return
		}
	}
	p.Touching = append(p.Touching, id)
}

// detectTaps finds points that touch no other endpoint but lie within the
// tolerance of a foreign segment's interior. Each such point gets a junction
// number up front; the split pass turns it into a closed three-leg joint.
func (g *Graph) detectTaps() []*Point {
	tol := g.cfg.TouchTolerance
	var taps []*Point
	for _, p := range g.Points {
		if len(p.Touching) > 0 || p.Class != ClassNone {
			continue
		}
		for _, s := range g.Segments {
			if s.ID == p.Segment {
				continue
			}
			if geom.DistToSeg(p.Pos, g.segShape(s)) >= tol {
				continue
			}
			p.Class = ClassMidTap
			p.TapSegment = s.ID
			p.Junction = g.nextJunction()
			g.Junctions = append(g.Junctions, &Junction{
				Nr:    p.Junction,
				Pos:   p.Pos,
				Point: p.ID,
				Legs:  []PointID{p.ID},
			})
			taps = append(taps, p)
			break
		}
	}
	return taps
}

// SnapAttachments links each producer/consumer attachment to the nearest
// network point within the snap tolerance. Attachments with nothing in range
// stay unlinked and are reported as warnings, not errors.
func (g *Graph) SnapAttachments() {
	tol := g.cfg.SnapTolerance()
	for i, att := range g.Attachments {
		best := PointID(-1)
		bestDist := tol
		for _, p := range g.Points {
			if d := geom.Dist(att.Pos, p.Pos); d < bestDist {
				best = p.ID
				bestDist = d
			}
		}
		if best < 0 {
			g.warn(WarnAttachmentUnsnapped, att.Pos,
				fmt.Sprintf("%s %q has no network point within %g", att.Kind, att.Name, tol))
			continue
		}
		att.Point = best
		if g.Points[best].Attachment < 0 {
			g.Points[best].Attachment = i
		}
	}
}
