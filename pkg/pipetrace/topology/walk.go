package topology

import (
	"fmt"
	"math"

	"github.com/gridwise/pipetrace/pkg/pipetrace/geom"
)

// Direction is the flow direction of a finished chain relative to its
// coordinate order.
type Direction int

const (
	DirUnset Direction = iota
	DirForward
	DirReversed
)

func (d Direction) String() string {
	switch d {
	case DirForward:
		return "forward"
	case DirReversed:
		return "reversed"
	default:
		return "unset"
	}
}

// EndKind describes what terminates a chain.
type EndKind int

const (
	// EndLine is a free line end with nothing attached.
	EndLine EndKind = iota
	// EndJunction terminates at a numbered junction.
	EndJunction
	// EndAdapter terminates at a numbered size-change adapter.
	EndAdapter
	// EndAttachment terminates at an external producer or consumer.
	EndAttachment
)

// Endpoint describes one end of a chain.
type Endpoint struct {
	Kind       EndKind
	Nr         int // junction or adapter number
	Attachment int // index into Graph.Attachments for EndAttachment
}

// Chain is a run of direction-aligned segments with a constant attribute,
// the "pipe" of the resulting network.
type Chain struct {
	Nr     int
	Points []geom.XY
	Start  Endpoint
	End    Endpoint
	Attr   string
	Dir    Direction
}

// Walk traverses the segment graph and merges consecutive aligned segments
// into chains. Junctions are processed in discovery order and their legs in
// touching-insertion order; that ordering is part of the contract so runs
// over identical input reproduce identical chain numbering. Components
// without any junction are seeded afterwards from their terminal points.
func (g *Graph) Walk() error {
	for _, j := range g.Junctions {
		if err := g.walkFrom(j.Point); err != nil {
			return err
		}
		for _, leg := range g.Points[j.Point].Touching {
			if err := g.walkFrom(leg); err != nil {
				return err
			}
		}
	}
	for _, p := range g.Points {
		if p.processed {
			continue
		}
		if len(p.Touching) == 0 || (p.Junction == 0 && p.Class == ClassClosedEnd) {
			if err := g.walkFrom(p.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// walkFrom drains one traversal front. The stack holds pending chain start
// points; junction legs are pushed in reverse so pop order matches the
// recursive depth-first order of discovery.
func (g *Graph) walkFrom(first PointID) error {
	stack := []PointID{first}
	for len(stack) > 0 {
		pid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p := g.Points[pid]
		if p.processed {
			continue
		}
		legs, err := g.traceChain(p)
		if err != nil {
			return err
		}
		for i := len(legs) - 1; i >= 0; i-- {
			stack = append(stack, legs[i])
		}
	}
	return nil
}

// traceChain follows the segment graph from a chain start point until a
// terminating condition: a free end, an attachment-closed pair, an attribute
// change (adapter) or a junction. It returns the legs of a terminating
// junction that still need their own chains.
func (g *Graph) traceChain(start *Point) ([]PointID, error) {
	ch := g.newChainAt(start)
	p := start
	for {
		s := g.Segments[p.Segment]
		other, err := g.otherEnd(p)
		if err != nil {
			return nil, err
		}
		g.appendPoint(ch, other.Pos)
		p.processed = true
		other.processed = true

		switch len(other.Touching) {
		case 0:
			ch.End = g.openEndpoint(other)
			g.emit(ch)
			return nil, nil

		case 1:
			partner := g.Points[other.Touching[0]]
			if other.Junction > 0 {
				ch.End = Endpoint{Kind: EndJunction, Nr: other.Junction}
				g.emit(ch)
				return other.Touching, nil
			}
			if partner.Class == ClassClosedEnd && partner.Junction > 0 {
				// the far side of this pair is a closed junction leg
				ch.End = Endpoint{Kind: EndJunction, Nr: partner.Junction}
				g.emit(ch)
				return nil, nil
			}
			if other.Class == ClassClosedEnd || partner.Class == ClassClosedEnd {
				// terminal-end pair closed at an attachment
				ch.End = g.attachmentEndpoint(other, partner)
				g.emit(ch)
				return nil, nil
			}
			next := g.Segments[partner.Segment]
			if !g.cfg.JoinDifferentAttrs && next.Attr != s.Attr {
				ad := g.newAdapter(other.Pos, s.Attr, next.Attr)
				ch.End = Endpoint{Kind: EndAdapter, Nr: ad.Nr}
				g.emit(ch)
				ch = &Chain{
					Points: []geom.XY{partner.Pos},
					Start:  Endpoint{Kind: EndAdapter, Nr: ad.Nr},
					Attr:   next.Attr,
				}
			}
			p = partner

		default:
			ch.End = Endpoint{Kind: EndJunction, Nr: other.Junction}
			g.emit(ch)
			return other.Touching, nil
		}
	}
}

func (g *Graph) newChainAt(p *Point) *Chain {
	ch := &Chain{
		Points: []geom.XY{p.Pos},
		Attr:   g.Segments[p.Segment].Attr,
	}
	switch {
	case p.Junction > 0:
		ch.Start = Endpoint{Kind: EndJunction, Nr: p.Junction}
	default:
		ch.Start = g.openEndpoint(p)
	}
	return ch
}

// openEndpoint describes a chain end at a point with no junction: either an
// external attachment or a bare line end.
func (g *Graph) openEndpoint(p *Point) Endpoint {
	if idx := g.attachmentOf(p); idx >= 0 {
		return Endpoint{Kind: EndAttachment, Attachment: idx}
	}
	return Endpoint{Kind: EndLine, Attachment: -1}
}

func (g *Graph) attachmentEndpoint(a, b *Point) Endpoint {
	if idx := g.attachmentOf(a); idx >= 0 {
		return Endpoint{Kind: EndAttachment, Attachment: idx}
	}
	if idx := g.attachmentOf(b); idx >= 0 {
		return Endpoint{Kind: EndAttachment, Attachment: idx}
	}
	return Endpoint{Kind: EndLine, Attachment: -1}
}

// attachmentOf returns the attachment linked to p, looking through a
// single touching partner as well: the snap may have landed on either point
// of a coincident pair.
func (g *Graph) attachmentOf(p *Point) int {
	if p.Attachment >= 0 {
		return p.Attachment
	}
	if len(p.Touching) == 1 {
		if q := g.Points[p.Touching[0]]; q.Attachment >= 0 {
			return q.Attachment
		}
	}
	return -1
}

func (g *Graph) newAdapter(pos geom.XY, from, to string) *Adapter {
	ad := &Adapter{Nr: len(g.Adapters) + 1, Pos: pos, FromAttr: from, ToAttr: to}
	g.Adapters = append(g.Adapters, ad)
	g.warn(WarnAdapterInserted, pos, fmt.Sprintf("adapter %d connects %q to %q", ad.Nr, from, to))
	return ad
}

func (g *Graph) emit(ch *Chain) {
	ch.Nr = len(g.Chains) + 1
	g.Chains = append(g.Chains, ch)
}

// appendPoint records the next chain coordinate. When simplification is on
// and the last two recorded segments run in the same direction, the middle
// point is replaced instead, so collinear runs collapse into one span
// without moving the chain's logical endpoints.
func (g *Graph) appendPoint(ch *Chain, pos geom.XY) {
	pts := ch.Points
	if g.cfg.SimplifyChains && len(pts) > 1 {
		l1 := geom.Seg{A: pts[len(pts)-2], B: pts[len(pts)-1]}
		l2 := geom.Seg{A: pts[len(pts)-1], B: pos}
		if math.Abs(geom.AngleBetween(l1, l2)) < g.cfg.AngleDistinct {
			pts = pts[:len(pts)-1]
		}
	}
	ch.Points = append(pts, pos)
}
