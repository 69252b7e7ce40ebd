package ingest

import (
	"errors"
	"testing"

	"github.com/gridwise/pipetrace/pkg/pipetrace/internalerr"
)

const linesDoc = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "main-1",
      "geometry": {"type": "LineString", "coordinates": [[0, 0], [10, 0], [20, 0]]},
      "properties": {"diameter": "DN100"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "MultiLineString", "coordinates": [[[0, 5], [5, 5]], [[5, 5], [10, 5]]]},
      "properties": {}
    }
  ]
}`

func TestDecodeLines(t *testing.T) {
	lines, err := DecodeLines([]byte(linesDoc), "diameter")
	if err != nil {
		t.Fatalf("DecodeLines: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d line features, want 3", len(lines))
	}
	if lines[0].ID != "main-1" {
		t.Errorf("id = %q, want main-1", lines[0].ID)
	}
	if lines[0].Attr != "DN100" {
		t.Errorf("attr = %q, want DN100", lines[0].Attr)
	}
	if len(lines[0].Coords) != 3 {
		t.Errorf("got %d coords, want 3", len(lines[0].Coords))
	}
	if lines[0].Coords[1].X != 10 || lines[0].Coords[1].Y != 0 {
		t.Errorf("coord 1 = %v, want (10,0)", lines[0].Coords[1])
	}
	// MultiLineString parts share a generated ID and have no attribute.
	if lines[1].ID == "" || lines[1].ID != lines[2].ID {
		t.Errorf("multi-part ids %q and %q should match and be non-empty", lines[1].ID, lines[2].ID)
	}
	if lines[1].Attr != "" {
		t.Errorf("attr = %q, want empty", lines[1].Attr)
	}
}

func TestDecodeLinesRejectsPoints(t *testing.T) {
	doc := `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [1, 2]}, "properties": {}}
  ]
}`
	_, err := DecodeLines([]byte(doc), "diameter")
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDecodeLinesRejectsShortLine(t *testing.T) {
	doc := `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[1, 2]]}, "properties": {}}
  ]
}`
	_, err := DecodeLines([]byte(doc), "diameter")
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDecodePoints(t *testing.T) {
	doc := `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "plant",
      "geometry": {"type": "Point", "coordinates": [3.5, -1]},
      "properties": {"name": "plant-west", "power": 2500}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [8, 8]},
      "properties": {}
    }
  ]
}`
	pts, err := DecodePoints([]byte(doc))
	if err != nil {
		t.Fatalf("DecodePoints: %v", err)
	}
	if len(pts) != 2 {
		t.Fatalf("got %d point features, want 2", len(pts))
	}
	if pts[0].ID != "plant" || pts[0].Name != "plant-west" || pts[0].Power != 2500 {
		t.Errorf("unexpected point: %+v", pts[0])
	}
	if pts[0].Pos.X != 3.5 || pts[0].Pos.Y != -1 {
		t.Errorf("pos = %v, want (3.5,-1)", pts[0].Pos)
	}
	if pts[1].ID == "" {
		t.Error("feature without id should get a generated one")
	}
	if pts[1].Name != "" || pts[1].Power != 0 {
		t.Errorf("missing properties should be zero, got %+v", pts[1])
	}
}
