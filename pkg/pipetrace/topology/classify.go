package topology

import (
	"fmt"
	"math"

	"github.com/gridwise/pipetrace/pkg/pipetrace/geom"
	"github.com/gridwise/pipetrace/pkg/pipetrace/internalerr"
)

// Classify labels every point by the cardinality of its touching relation.
//
// Zero partners is a free line end and one partner a plain continuation;
// both are handled implicitly by the walker, except that a continuation next
// to a producer/consumer attachment is closed as a terminal-end pair so the
// leg terminates at the attachment instead of merging through it.
//
// Two partners is a junction candidate: the point and both partners get a
// fresh junction number and the partners are closed so traversal does not
// re-open them. The angle check between the two partner legs then decides
// between a real branch and a collinear duplicate; a duplicate keeps its
// junction (the legs still need to terminate there) but is labeled
// same-angle and reported as a warning.
//
// More than two partners is unsupported and aborts the run.
func (g *Graph) Classify() error {
	for _, p := range g.Points {
		switch len(p.Touching) {
		case 0:
			// free line end

		case 1:
			if p.Class != ClassNone {
				continue
			}
			partner := g.Points[p.Touching[0]]
			if partner.Class != ClassNone {
				continue
			}
			if p.Attachment >= 0 || partner.Attachment >= 0 {
				p.Class = ClassClosedEnd
				partner.Class = ClassClosedEnd
			}

		case 2:
			if p.Class != ClassNone {
				continue
			}
			nr := g.nextJunction()
			p.Junction = nr
			legs := []PointID{p.ID}
			for _, pid := range p.Touching {
				q := g.Points[pid]
				q.Class = ClassClosedEnd
				q.Junction = nr
				legs = append(legs, pid)
			}

			distinct, err := g.distinctDirections(p)
			if err != nil {
				return err
			}
			if distinct {
				p.Class = ClassBranch
			} else {
				p.Class = ClassSameAngle
				g.warn(WarnSameAngle, p.Pos,
					fmt.Sprintf("legs at junction %d run in the same direction, likely duplicate lines", nr))
			}
			g.Junctions = append(g.Junctions, &Junction{
				Nr:    nr,
				Pos:   p.Pos,
				Point: p.ID,
				Legs:  legs,
			})

		default:
			return fmt.Errorf("%w: point %d at (%g, %g) has %d touching partners, at most 2 are supported",
				internalerr.ErrUnsupportedBranching, p.ID, p.Pos.X, p.Pos.Y, len(p.Touching))
		}
	}
	return nil
}

// distinctDirections reports whether the two legs touching p leave it in
// clearly different directions. Both angles are measured against p's own
// segment, so the comparison reduces to the slope difference between the
// two partner legs.
func (g *Graph) distinctDirections(p *Point) (bool, error) {
	angles := make([]float64, 0, 2)
	for _, pid := range p.Touching {
		a, err := g.angleBetweenPoints(p, g.Points[pid])
		if err != nil {
			return false, err
		}
		angles = append(angles, a)
	}
	return math.Abs(angles[0]-angles[1]) > g.cfg.AngleDistinct, nil
}

// angleBetweenPoints measures the slope-angle difference between the
// segments of two points, each oriented to point away from its endpoint.
func (g *Graph) angleBetweenPoints(p1, p2 *Point) (float64, error) {
	l1, err := g.outwardSeg(p1)
	if err != nil {
		return 0, err
	}
	l2, err := g.outwardSeg(p2)
	if err != nil {
		return 0, err
	}
	return geom.AngleBetween(l1, l2), nil
}
