// Package memmodel is an in-memory model.Builder used by tests and by
// callers that only want to inspect the assembled network.
package memmodel

import (
	"context"
	"fmt"
	"sync"

	"github.com/gridwise/pipetrace/pkg/pipetrace/geom"
	"github.com/gridwise/pipetrace/pkg/pipetrace/model"
	"github.com/gridwise/pipetrace/pkg/pipetrace/topology"
)

// Node is a created node with its structural attributes.
type Node struct {
	Handle model.NodeHandle
	Kind   model.NodeKind
	Pos    geom.XY
	Name   string
}

// Edge is a created edge with its geometry.
type Edge struct {
	Handle model.EdgeHandle
	Points []geom.XY
	Attr   string
	Dir    topology.Direction
}

// Connection is one recorded port wiring.
type Connection struct {
	Edge model.EdgeHandle
	At   model.EdgeEnd
	Node model.NodeHandle
	Port model.Port
}

// Builder implements model.Builder in memory.
type Builder struct {
	mu    sync.Mutex
	seq   int
	nodes []Node
	edges []Edge
	conns []Connection
}

// New creates an empty in-memory builder.
func New() *Builder {
	return &Builder{}
}

// Close implements model.Builder.
func (b *Builder) Close() error { return nil }

// JunctionNode implements model.Builder.
func (b *Builder) JunctionNode(ctx context.Context, loc geom.XY) (model.NodeHandle, error) {
	return b.addNode(model.NodeJunction, loc, "")
}

// AdapterNode implements model.Builder.
func (b *Builder) AdapterNode(ctx context.Context, loc geom.XY) (model.NodeHandle, error) {
	return b.addNode(model.NodeAdapter, loc, "")
}

// TerminalNode implements model.Builder.
func (b *Builder) TerminalNode(ctx context.Context, loc geom.XY, name string) (model.NodeHandle, error) {
	return b.addNode(model.NodeTerminal, loc, name)
}

func (b *Builder) addNode(kind model.NodeKind, loc geom.XY, name string) (model.NodeHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	h := model.NodeHandle(fmt.Sprintf("n%d", b.seq))
	b.nodes = append(b.nodes, Node{Handle: h, Kind: kind, Pos: loc, Name: name})
	return h, nil
}

// ChainEdge implements model.Builder.
func (b *Builder) ChainEdge(ctx context.Context, pts []geom.XY, attr string, dir topology.Direction) (model.EdgeHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	h := model.EdgeHandle(fmt.Sprintf("e%d", b.seq))
	cp := make([]geom.XY, len(pts))
	copy(cp, pts)
	b.edges = append(b.edges, Edge{Handle: h, Points: cp, Attr: attr, Dir: dir})
	return h, nil
}

// ConnectPorts implements model.Builder.
func (b *Builder) ConnectPorts(ctx context.Context, edge model.EdgeHandle, at model.EdgeEnd, node model.NodeHandle, port model.Port) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.conns = append(b.conns, Connection{Edge: edge, At: at, Node: node, Port: port})
	return nil
}

// Nodes returns the created nodes in creation order.
func (b *Builder) Nodes() []Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Node(nil), b.nodes...)
}

// Edges returns the created edges in creation order.
func (b *Builder) Edges() []Edge {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Edge(nil), b.edges...)
}

// Connections returns the recorded port wirings in call order.
func (b *Builder) Connections() []Connection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Connection(nil), b.conns...)
}
