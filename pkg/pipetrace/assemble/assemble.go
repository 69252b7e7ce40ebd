// Package assemble converts a traced topology into calls against an
// abstract asset-model builder.
package assemble

import (
	"context"
	"fmt"

	"github.com/gridwise/pipetrace/pkg/pipetrace/internalerr"
	"github.com/gridwise/pipetrace/pkg/pipetrace/model"
	"github.com/gridwise/pipetrace/pkg/pipetrace/topology"
)

// Assembler drives a model.Builder from a finished graph. Junction, adapter
// and terminal nodes are created exactly once, on first use, and looked up
// from the handle maps afterwards.
type Assembler struct {
	b model.Builder

	junctionNodes map[int]model.NodeHandle
	adapterNodes  map[int]model.NodeHandle
	terminalNodes map[int]model.NodeHandle
	done          bool
}

// New creates an assembler writing to b.
func New(b model.Builder) *Assembler {
	return &Assembler{
		b:             b,
		junctionNodes: make(map[int]model.NodeHandle),
		adapterNodes:  make(map[int]model.NodeHandle),
		terminalNodes: make(map[int]model.NodeHandle),
	}
}

// Assemble emits one edge per chain and wires each chain end to the node it
// terminates at. Chain starts connect to a node's out port and chain ends
// to a node's in port, so a forward chain flows out of its start node and
// into its end node. Free line ends get no node.
func (a *Assembler) Assemble(ctx context.Context, g *topology.Graph) error {
	if a.b == nil {
		return internalerr.ErrBuilderUnavailable
	}
	if a.done {
		return internalerr.ErrDuplicateAssembly
	}
	a.done = true

	for _, ch := range g.Chains {
		edge, err := a.b.ChainEdge(ctx, ch.Points, ch.Attr, ch.Dir)
		if err != nil {
			return fmt.Errorf("chain %d: %w", ch.Nr, err)
		}
		if err := a.connectEnd(ctx, g, edge, model.AtStart, ch.Start); err != nil {
			return fmt.Errorf("chain %d start: %w", ch.Nr, err)
		}
		if err := a.connectEnd(ctx, g, edge, model.AtEnd, ch.End); err != nil {
			return fmt.Errorf("chain %d end: %w", ch.Nr, err)
		}
	}
	return nil
}

func (a *Assembler) connectEnd(ctx context.Context, g *topology.Graph, edge model.EdgeHandle, at model.EdgeEnd, ep topology.Endpoint) error {
	var (
		node model.NodeHandle
		err  error
	)
	switch ep.Kind {
	case topology.EndLine:
		return nil
	case topology.EndJunction:
		node, err = a.junctionNode(ctx, g, ep.Nr)
	case topology.EndAdapter:
		node, err = a.adapterNode(ctx, g, ep.Nr)
	case topology.EndAttachment:
		node, err = a.terminalNode(ctx, g, ep.Attachment)
	}
	if err != nil {
		return err
	}

	// flow convention: out of the start-side node, into the end-side node
	port := model.PortOut
	if at == model.AtEnd {
		port = model.PortIn
	}
	return a.b.ConnectPorts(ctx, edge, at, node, port)
}

func (a *Assembler) junctionNode(ctx context.Context, g *topology.Graph, nr int) (model.NodeHandle, error) {
	if h, ok := a.junctionNodes[nr]; ok {
		return h, nil
	}
	for _, j := range g.Junctions {
		if j.Nr != nr {
			continue
		}
		h, err := a.b.JunctionNode(ctx, j.Pos)
		if err != nil {
			return "", err
		}
		a.junctionNodes[nr] = h
		return h, nil
	}
	return "", fmt.Errorf("%w: chain references unknown junction %d", internalerr.ErrInconsistentTopology, nr)
}

func (a *Assembler) adapterNode(ctx context.Context, g *topology.Graph, nr int) (model.NodeHandle, error) {
	if h, ok := a.adapterNodes[nr]; ok {
		return h, nil
	}
	for _, ad := range g.Adapters {
		if ad.Nr != nr {
			continue
		}
		h, err := a.b.AdapterNode(ctx, ad.Pos)
		if err != nil {
			return "", err
		}
		a.adapterNodes[nr] = h
		return h, nil
	}
	return "", fmt.Errorf("%w: chain references unknown adapter %d", internalerr.ErrInconsistentTopology, nr)
}

func (a *Assembler) terminalNode(ctx context.Context, g *topology.Graph, idx int) (model.NodeHandle, error) {
	if h, ok := a.terminalNodes[idx]; ok {
		return h, nil
	}
	if idx < 0 || idx >= len(g.Attachments) {
		return "", fmt.Errorf("%w: chain references unknown attachment %d", internalerr.ErrInconsistentTopology, idx)
	}
	att := g.Attachments[idx]
	h, err := a.b.TerminalNode(ctx, att.Pos, att.Name)
	if err != nil {
		return "", err
	}
	a.terminalNodes[idx] = h
	return h, nil
}
