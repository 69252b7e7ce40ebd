// Package pipetrace reconstructs pipe-network topology from loose line
// geometry: it merges near-coincident endpoints, splits mid-span taps,
// classifies junctions, walks out simplified chains and propagates flow
// direction from producers and consumers.
package pipetrace

import (
	"context"

	"github.com/gridwise/pipetrace/pkg/pipetrace/assemble"
	"github.com/gridwise/pipetrace/pkg/pipetrace/config"
	"github.com/gridwise/pipetrace/pkg/pipetrace/ingest"
	"github.com/gridwise/pipetrace/pkg/pipetrace/model"
	"github.com/gridwise/pipetrace/pkg/pipetrace/topology"
)

// Engine is the main topology reconstruction facade
type Engine struct {
	cfg config.Config
}

// New creates an Engine with the given configuration
func New(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Input bundles the line and attachment features of one run
type Input struct {
	Lines     []ingest.LineFeature
	Producers []ingest.PointFeature
	Consumers []ingest.PointFeature
}

// Stats summarizes one reconstruction run
type Stats struct {
	Lines       int
	Segments    int
	Points      int
	Junctions   int
	Adapters    int
	Chains      int
	Attachments int
	Warnings    int
}

// Result holds the reconstructed network
type Result struct {
	Graph     *topology.Graph
	Chains    []*topology.Chain
	Junctions []*topology.Junction
	Adapters  []*topology.Adapter
	Warnings  []topology.Warning
	Stats     Stats
}

// Trace runs the full pass sequence over the input and returns the
// reconstructed network. The graph in the result can be fed to Assemble
// or to the export debug layers.
func (e *Engine) Trace(in Input) (*Result, error) {
	g := topology.NewGraph(e.cfg)

	for _, l := range in.Lines {
		if err := g.AddLine(l.Coords, l.Attr, l.ID); err != nil {
			return nil, err
		}
	}
	for _, p := range in.Producers {
		g.AddAttachment(topology.AttachProducer, p.Name, p.Power, p.Pos)
	}
	for _, c := range in.Consumers {
		g.AddAttachment(topology.AttachConsumer, c.Name, c.Power, c.Pos)
	}

	if err := g.ResolveTouching(); err != nil {
		return nil, err
	}
	if err := g.SplitTaps(); err != nil {
		return nil, err
	}
	if err := g.CheckConsistency(); err != nil {
		return nil, err
	}
	g.SnapAttachments()
	if err := g.Classify(); err != nil {
		return nil, err
	}
	if err := g.Walk(); err != nil {
		return nil, err
	}
	g.PropagateDirections()

	return &Result{
		Graph:     g,
		Chains:    g.Chains,
		Junctions: g.Junctions,
		Adapters:  g.Adapters,
		Warnings:  g.Warnings,
		Stats: Stats{
			Lines:       len(in.Lines),
			Segments:    len(g.Segments),
			Points:      len(g.Points),
			Junctions:   len(g.Junctions),
			Adapters:    len(g.Adapters),
			Chains:      len(g.Chains),
			Attachments: len(g.Attachments),
			Warnings:    len(g.Warnings),
		},
	}, nil
}

// Assemble emits the traced network through the given model builder,
// connecting chain ends to junction, adapter and terminal nodes.
func (e *Engine) Assemble(ctx context.Context, res *Result, b model.Builder) error {
	return assemble.New(b).Assemble(ctx, res.Graph)
}
