// Package model defines the abstract asset-model builder the traced
// topology is handed to. The engine emits structural graph facts only:
// nodes for junctions, adapters and terminals, edges for chains, and
// port-to-port connections between them.
package model

import (
	"context"

	"github.com/gridwise/pipetrace/pkg/pipetrace/geom"
	"github.com/gridwise/pipetrace/pkg/pipetrace/topology"
)

// NodeHandle identifies a created node inside the asset model.
type NodeHandle string

// EdgeHandle identifies a created edge inside the asset model.
type EdgeHandle string

// NodeKind is the structural role of a node.
type NodeKind string

const (
	NodeJunction NodeKind = "junction"
	NodeAdapter  NodeKind = "adapter"
	NodeTerminal NodeKind = "terminal"
)

// EdgeEnd selects one end of an edge when connecting ports.
type EdgeEnd int

const (
	AtStart EdgeEnd = iota
	AtEnd
)

func (e EdgeEnd) String() string {
	if e == AtEnd {
		return "end"
	}
	return "start"
}

// Port selects a node-side port. By convention flow enters a node through
// its in port and leaves through its out port.
type Port int

const (
	PortIn Port = iota
	PortOut
)

func (p Port) String() string {
	if p == PortOut {
		return "out"
	}
	return "in"
}

// Builder receives the assembled network. Implementations own persistence
// and any model-specific attribute enrichment; the engine only calls the
// four structural operations below.
type Builder interface {
	// JunctionNode creates a node for a branch joint.
	JunctionNode(ctx context.Context, loc geom.XY) (NodeHandle, error)

	// AdapterNode creates a node joining two pipe sizes.
	AdapterNode(ctx context.Context, loc geom.XY) (NodeHandle, error)

	// TerminalNode creates a node for an external producer or consumer
	// attachment. Name may be empty when the input carried none.
	TerminalNode(ctx context.Context, loc geom.XY, name string) (NodeHandle, error)

	// ChainEdge creates an edge for a traced chain with its ordered
	// coordinates, constant attribute and resolved direction.
	ChainEdge(ctx context.Context, pts []geom.XY, attr string, dir topology.Direction) (EdgeHandle, error)

	// ConnectPorts connects one end of an edge to a node port.
	ConnectPorts(ctx context.Context, edge EdgeHandle, at EdgeEnd, node NodeHandle, port Port) error

	Close() error
}
