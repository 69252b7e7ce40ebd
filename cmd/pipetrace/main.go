package main

import (
	"context"
	"flag"
	"log"

	"github.com/gridwise/pipetrace/pkg/pipetrace"
	"github.com/gridwise/pipetrace/pkg/pipetrace/config"
	"github.com/gridwise/pipetrace/pkg/pipetrace/export"
	"github.com/gridwise/pipetrace/pkg/pipetrace/ingest"
	"github.com/gridwise/pipetrace/pkg/pipetrace/model/sqlitemodel"
	"github.com/gridwise/pipetrace/pkg/pipetrace/topology"
)

func main() {
	var (
		linesPath     = flag.String("lines", "", "Pipe lines GeoJSON (required)")
		producersPath = flag.String("producers", "", "Producer points GeoJSON (optional)")
		consumersPath = flag.String("consumers", "", "Consumer points GeoJSON (optional)")
		configPath    = flag.String("config", "", "YAML configuration file (optional)")
		outPath       = flag.String("out", "", "SQLite model output path (optional)")
		debugDir      = flag.String("debug", "", "Directory for GeoJSON debug layers (optional)")
	)
	flag.Parse()

	if *linesPath == "" {
		log.Fatal("--lines required")
	}

	ctx := context.Background()

	// Load configuration
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("Failed to load configuration:", err)
		}
		cfg = loaded
	}

	// Read input features
	lines, err := ingest.ReadLines(*linesPath, cfg.AttributeKey)
	if err != nil {
		log.Fatal("Failed to read lines:", err)
	}
	var producers, consumers []ingest.PointFeature
	if *producersPath != "" {
		if producers, err = ingest.ReadPoints(*producersPath); err != nil {
			log.Fatal("Failed to read producers:", err)
		}
	}
	if *consumersPath != "" {
		if consumers, err = ingest.ReadPoints(*consumersPath); err != nil {
			log.Fatal("Failed to read consumers:", err)
		}
	}

	// Trace the network
	eng, err := pipetrace.New(cfg)
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	res, err := eng.Trace(pipetrace.Input{
		Lines:     lines,
		Producers: producers,
		Consumers: consumers,
	})
	if err != nil {
		log.Fatal("Trace failed:", err)
	}

	log.Printf("traced %d lines: %d segments, %d junctions, %d adapters, %d chains",
		res.Stats.Lines, res.Stats.Segments, res.Stats.Junctions, res.Stats.Adapters, res.Stats.Chains)
	for _, w := range res.Warnings {
		log.Printf("warning: %s: %s", w.Kind, w.Message)
	}

	unset := 0
	for _, c := range res.Chains {
		if c.Dir == topology.DirUnset {
			unset++
		}
	}
	if unset > 0 {
		log.Printf("%d of %d chains have no flow direction", unset, len(res.Chains))
	}

	// Write debug layers
	if *debugDir != "" {
		if err := export.WriteLayers(*debugDir, res.Graph); err != nil {
			log.Fatal("Failed to write debug layers:", err)
		}
		log.Printf("debug layers written to %s", *debugDir)
	}

	// Assemble into the SQLite model
	if *outPath != "" {
		builder, err := sqlitemodel.Open(ctx, *outPath)
		if err != nil {
			log.Fatal("Failed to open model database:", err)
		}
		if err := eng.Assemble(ctx, res, builder); err != nil {
			builder.Close()
			log.Fatal("Assembly failed:", err)
		}
		if err := builder.Close(); err != nil {
			log.Fatal("Failed to close model database:", err)
		}
		log.Printf("model written to %s", *outPath)
	}
}
