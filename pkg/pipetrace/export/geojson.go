// Package export writes debug layers of a traced network as GeoJSON, one
// file per layer. The layers exist for inspecting a run in a GIS viewer,
// they are not part of the assembled model.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	geojson "github.com/paulmach/go.geojson"

	"github.com/gridwise/pipetrace/pkg/pipetrace/topology"
)

// JunctionLayer renders every junction as a point feature with its number,
// classification and leg count.
func JunctionLayer(g *topology.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, j := range g.Junctions {
		f := geojson.NewPointFeature([]float64{j.Pos.X, j.Pos.Y})
		f.SetProperty("junction", j.Nr)
		f.SetProperty("legs", len(j.Legs))
		if j.Point >= 0 && int(j.Point) < len(g.Points) {
			f.SetProperty("class", g.Points[j.Point].Class.String())
		}
		fc.AddFeature(f)
	}
	return fc
}

// ChainLayer renders every traced chain as a line feature carrying its
// number, attribute, flow direction and endpoint kinds.
func ChainLayer(g *topology.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range g.Chains {
		coords := make([][]float64, len(c.Points))
		for i, p := range c.Points {
			coords[i] = []float64{p.X, p.Y}
		}
		f := geojson.NewLineStringFeature(coords)
		f.SetProperty("chain", c.Nr)
		f.SetProperty("attr", c.Attr)
		f.SetProperty("direction", c.Dir.String())
		f.SetProperty("start", endpointLabel(c.Start))
		f.SetProperty("end", endpointLabel(c.End))
		fc.AddFeature(f)
	}
	return fc
}

// AdapterLayer renders every inserted adapter as a point feature with the
// two attributes it joins.
func AdapterLayer(g *topology.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range g.Adapters {
		f := geojson.NewPointFeature([]float64{a.Pos.X, a.Pos.Y})
		f.SetProperty("adapter", a.Nr)
		f.SetProperty("from", a.FromAttr)
		f.SetProperty("to", a.ToAttr)
		fc.AddFeature(f)
	}
	return fc
}

// WarningLayer renders warnings that carry a location, so same-angle
// duplicates and unsnapped attachments show up where they happened.
func WarningLayer(g *topology.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, w := range g.Warnings {
		f := geojson.NewPointFeature([]float64{w.Pos.X, w.Pos.Y})
		f.SetProperty("kind", w.Kind.String())
		f.SetProperty("message", w.Message)
		fc.AddFeature(f)
	}
	return fc
}

// WriteLayers writes all debug layers into dir, creating it if needed.
func WriteLayers(dir string, g *topology.Graph) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	layers := map[string]*geojson.FeatureCollection{
		"junctions.geojson": JunctionLayer(g),
		"chains.geojson":    ChainLayer(g),
		"adapters.geojson":  AdapterLayer(g),
		"warnings.geojson":  WarningLayer(g),
	}
	for name, fc := range layers {
		if err := WriteLayer(filepath.Join(dir, name), fc); err != nil {
			return err
		}
	}
	return nil
}

// WriteLayer marshals one feature collection to path.
func WriteLayer(path string, fc *geojson.FeatureCollection) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

func endpointLabel(e topology.Endpoint) string {
	switch e.Kind {
	case topology.EndJunction:
		return fmt.Sprintf("junction %d", e.Nr)
	case topology.EndAdapter:
		return fmt.Sprintf("adapter %d", e.Nr)
	case topology.EndAttachment:
		return fmt.Sprintf("attachment %d", e.Attachment)
	default:
		return "open"
	}
}
