// Package ingest reads pipe line features and producer/consumer point
// features from GeoJSON. The topology engine never sees GeoJSON itself,
// only the decoded features.
package ingest

import (
	"fmt"
	"os"

	"github.com/oklog/ulid/v2"
	geojson "github.com/paulmach/go.geojson"

	"github.com/gridwise/pipetrace/pkg/pipetrace/geom"
	"github.com/gridwise/pipetrace/pkg/pipetrace/internalerr"
)

// LineFeature is one input polyline with its size-class attribute.
type LineFeature struct {
	ID     string
	Coords []geom.XY
	Attr   string
}

// PointFeature is one producer or consumer location.
type PointFeature struct {
	ID    string
	Pos   geom.XY
	Name  string
	Power float64
}

// ReadLines loads a GeoJSON file of LineString/MultiLineString features.
// attrKey names the property carrying the size class; features without it
// get an empty attribute rather than failing.
func ReadLines(path, attrKey string) ([]LineFeature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return DecodeLines(data, attrKey)
}

// DecodeLines decodes line features from GeoJSON bytes. A MultiLineString
// produces one LineFeature per part, all sharing the source feature's ID.
func DecodeLines(data []byte, attrKey string) ([]LineFeature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}

	var out []LineFeature
	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, fmt.Errorf("%w: feature %d has no geometry", internalerr.ErrInvalidInput, i)
		}
		attr := ""
		if v, ok := f.Properties[attrKey]; ok {
			attr = fmt.Sprint(v)
		}
		id := featureID(f)

		switch {
		case f.Geometry.IsLineString():
			coords, err := toXY(f.Geometry.LineString)
			if err != nil {
				return nil, fmt.Errorf("feature %q: %w", id, err)
			}
			out = append(out, LineFeature{ID: id, Coords: coords, Attr: attr})
		case f.Geometry.IsMultiLineString():
			for _, part := range f.Geometry.MultiLineString {
				coords, err := toXY(part)
				if err != nil {
					return nil, fmt.Errorf("feature %q: %w", id, err)
				}
				out = append(out, LineFeature{ID: id, Coords: coords, Attr: attr})
			}
		default:
			return nil, fmt.Errorf("%w: feature %q has geometry type %s, expected a line",
				internalerr.ErrInvalidInput, id, f.Geometry.Type)
		}
	}
	return out, nil
}

// ReadPoints loads a GeoJSON file of Point features with optional name and
// power properties.
func ReadPoints(path string) ([]PointFeature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}
	return DecodePoints(data)
}

// DecodePoints decodes point features from GeoJSON bytes. Missing name or
// power properties degrade to zero values.
func DecodePoints(data []byte) ([]PointFeature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}

	var out []PointFeature
	for i, f := range fc.Features {
		if f.Geometry == nil || !f.Geometry.IsPoint() {
			return nil, fmt.Errorf("%w: feature %d is not a point", internalerr.ErrInvalidInput, i)
		}
		if len(f.Geometry.Point) < 2 {
			return nil, fmt.Errorf("%w: feature %d has a malformed point", internalerr.ErrInvalidInput, i)
		}
		pf := PointFeature{
			ID:  featureID(f),
			Pos: geom.XY{X: f.Geometry.Point[0], Y: f.Geometry.Point[1]},
		}
		if name, err := f.PropertyString("name"); err == nil {
			pf.Name = name
		}
		if power, err := f.PropertyFloat64("power"); err == nil {
			pf.Power = power
		}
		out = append(out, pf)
	}
	return out, nil
}

// featureID returns the feature's own ID, or a fresh ULID when the input
// carries none, so every feature has a stable reference for the run.
func featureID(f *geojson.Feature) string {
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	return ulid.Make().String()
}

func toXY(coords [][]float64) ([]geom.XY, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("%w: line needs at least two coordinates", internalerr.ErrInvalidInput)
	}
	out := make([]geom.XY, len(coords))
	for i, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("%w: coordinate %d is malformed", internalerr.ErrInvalidInput, i)
		}
		out[i] = geom.XY{X: c[0], Y: c[1]}
	}
	return out, nil
}
