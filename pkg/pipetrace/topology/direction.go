package topology

import (
	"fmt"

	"github.com/gridwise/pipetrace/pkg/pipetrace/geom"
)

// PropagateDirections assigns flow directions to chains. Chains whose ends
// touch a producer or consumer attachment are seeded first, then directions
// relax across adapters until nothing changes. Forward means flow from the
// chain's first coordinate to its last.
//
// A chain's direction is never overwritten: the first assignment wins, and
// a later derivation that disagrees is surfaced as a direction-conflict
// warning instead of an error.
func (g *Graph) PropagateDirections() {
	byAdapter := make(map[int][]*Chain)
	for _, ch := range g.Chains {
		if ch.Start.Kind == EndAdapter {
			byAdapter[ch.Start.Nr] = append(byAdapter[ch.Start.Nr], ch)
		}
		if ch.End.Kind == EndAdapter {
			byAdapter[ch.End.Nr] = append(byAdapter[ch.End.Nr], ch)
		}
	}

	var work []*Chain
	for _, ch := range g.Chains {
		if d := g.seedDirection(ch); d != DirUnset {
			ch.Dir = d
			work = append(work, ch)
		}
	}

	// Relaxation terminates even on malformed cyclic input: a chain enters
	// the work list only on its unset-to-set transition.
	for len(work) > 0 {
		ch := work[0]
		work = work[1:]
		for _, end := range []Endpoint{ch.Start, ch.End} {
			if end.Kind != EndAdapter {
				continue
			}
			for _, next := range byAdapter[end.Nr] {
				if next == ch {
					continue
				}
				d := deriveDirection(ch, next, end.Nr)
				if next.Dir == DirUnset {
					next.Dir = d
					work = append(work, next)
				} else if next.Dir != d {
					g.warn(WarnDirectionConflict, adapterPos(g, end.Nr),
						fmt.Sprintf("chain %d keeps direction %s, adapter %d derives %s", next.Nr, next.Dir, end.Nr, d))
				}
			}
		}
	}
}

// seedDirection inspects a chain's attachment ends. A producer feeding the
// start pushes flow forward; a producer at the end pushes it backward, and
// consumers mirror that. When both ends are attached and disagree, the
// start wins and the conflict is reported.
func (g *Graph) seedDirection(ch *Chain) Direction {
	fromStart := DirUnset
	if ch.Start.Kind == EndAttachment {
		if g.Attachments[ch.Start.Attachment].Kind == AttachProducer {
			fromStart = DirForward
		} else {
			fromStart = DirReversed
		}
	}
	fromEnd := DirUnset
	if ch.End.Kind == EndAttachment {
		if g.Attachments[ch.End.Attachment].Kind == AttachProducer {
			fromEnd = DirReversed
		} else {
			fromEnd = DirForward
		}
	}

	switch {
	case fromStart == DirUnset:
		return fromEnd
	case fromEnd == DirUnset || fromEnd == fromStart:
		return fromStart
	default:
		g.warn(WarnDirectionConflict, ch.Points[0],
			fmt.Sprintf("chain %d has attachments implying both directions, keeping %s", ch.Nr, fromStart))
		return fromStart
	}
}

// deriveDirection carries a direction across an adapter. When the adapter
// links one chain's end to the other's start the flow continues through, so
// the direction is preserved; when it links two like ends the chains run
// against each other and the direction inverts.
func deriveDirection(from, to *Chain, adapterNr int) Direction {
	fromAtEnd := from.End.Kind == EndAdapter && from.End.Nr == adapterNr
	toAtEnd := to.End.Kind == EndAdapter && to.End.Nr == adapterNr
	if fromAtEnd != toAtEnd {
		return from.Dir
	}
	return from.Dir.invert()
}

func (d Direction) invert() Direction {
	switch d {
	case DirForward:
		return DirReversed
	case DirReversed:
		return DirForward
	default:
		return DirUnset
	}
}

func adapterPos(g *Graph, nr int) geom.XY {
	for _, ad := range g.Adapters {
		if ad.Nr == nr {
			return ad.Pos
		}
	}
	return geom.XY{}
}
