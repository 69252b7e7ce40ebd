package topology

import "github.com/gridwise/pipetrace/pkg/pipetrace/geom"

// SplitTaps splits segments at detected mid-span tap points until no tap
// remains. Detection runs again after every round because splitting changes
// the segment store the next detection pass reads: a second tap on an
// already-split segment must split the correct half.
func (g *Graph) SplitTaps() error {
	for {
		taps := g.detectTaps()
		if len(taps) == 0 {
			return nil
		}
		for _, p := range taps {
			g.splitAt(p)
		}
	}
}

// splitAt replaces the tapped segment with two segments meeting at a pair of
// synthetic points placed on the tap point's location. The tap point loses
// its mid-tap status and becomes the junction point of the new three-leg
// joint; all three points end up touching each other pairwise around it.
func (g *Graph) splitAt(p *Point) {
	s := g.Segments[g.resolveTapSegment(p)]
	oldEnd := g.Points[s.End]

	// End point of the shortened first half.
	newEnd := g.addPoint(p.Pos, RoleEnd, s.ID)
	newEnd.Class = ClassClosedEnd
	newEnd.Junction = p.Junction

	// Start point of the second half.
	newSegID := SegmentID(len(g.Segments))
	newStart := g.addPoint(p.Pos, RoleStart, newSegID)
	newStart.Class = ClassClosedEnd
	newStart.Junction = p.Junction

	newEnd.Touching = []PointID{p.ID, newStart.ID}
	newStart.Touching = []PointID{p.ID, newEnd.ID}

	g.Segments = append(g.Segments, &Segment{
		ID:      newSegID,
		Start:   newStart.ID,
		End:     oldEnd.ID,
		Attr:    s.Attr,
		Feature: s.Feature,
	})
	oldEnd.Segment = newSegID
	s.End = newEnd.ID

	p.Class = ClassBranch
	p.TapSegment = -1
	p.Touching = []PointID{newEnd.ID, newStart.ID}

	j := g.Junctions[g.junctionByNr(p.Junction)]
	j.Legs = append(j.Legs, newEnd.ID, newStart.ID)
}

// resolveTapSegment re-checks a tap's segment reference right before the
// split. An earlier split in the same round may have shortened the recorded
// segment past the tap; the tap then lies on one of the halves instead.
func (g *Graph) resolveTapSegment(p *Point) SegmentID {
	tol := g.cfg.TouchTolerance
	if geom.DistToSeg(p.Pos, g.segShape(g.Segments[p.TapSegment])) < tol {
		return p.TapSegment
	}
	for _, s := range g.Segments {
		if s.ID == p.Segment {
			continue
		}
		if geom.DistToSeg(p.Pos, g.segShape(s)) < tol {
			return s.ID
		}
	}
	return p.TapSegment
}

func (g *Graph) junctionByNr(nr int) int {
	for i, j := range g.Junctions {
		if j.Nr == nr {
			return i
		}
	}
	return -1
}
