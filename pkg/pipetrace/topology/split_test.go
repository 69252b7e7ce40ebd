package topology

import (
	"testing"

	"github.com/gridwise/pipetrace/pkg/pipetrace/config"
)

// A line ending on the interior of a foreign segment is a mid-span tap: the
// foreign segment is split in two and the tap point becomes the junction of
// the resulting tee.
func TestMidTapSplit(t *testing.T) {
	g := NewGraph(config.Default())
	mustAddLine(t, g, "DN100", xy(0, 0), xy(10, 0))
	mustAddLine(t, g, "DN50", xy(5, 0), xy(5, 5))
	if err := g.ResolveTouching(); err != nil {
		t.Fatal(err)
	}
	if err := g.SplitTaps(); err != nil {
		t.Fatal(err)
	}

	if len(g.Segments) != 3 {
		t.Fatalf("expected 3 segments after the split, got %d", len(g.Segments))
	}
	if err := g.CheckConsistency(); err != nil {
		t.Fatalf("split broke consistency: %v", err)
	}
	if len(g.Junctions) != 1 {
		t.Fatalf("expected 1 junction, got %d", len(g.Junctions))
	}
	j := g.Junctions[0]
	if j.Pos != xy(5, 0) {
		t.Errorf("junction should sit at the tap location, got (%g,%g)", j.Pos.X, j.Pos.Y)
	}
	if len(j.Legs) != 3 {
		t.Errorf("expected 3 legs, got %d", len(j.Legs))
	}

	tap := g.Points[j.Point]
	if tap.Class != ClassBranch {
		t.Errorf("tap point should have become a branch, got %s", tap.Class)
	}
	if tap.TapSegment != -1 {
		t.Error("tap point should have lost its mid-tap segment reference")
	}
	if len(tap.Touching) != 2 {
		t.Errorf("tap point should touch both synthetic points, got %d", len(tap.Touching))
	}

	// both halves keep the original attribute and feature reference
	first, second := g.Segments[0], g.Segments[2]
	if first.Attr != "DN100" || second.Attr != "DN100" {
		t.Error("split halves should keep the original attribute")
	}
	if first.Feature != second.Feature {
		t.Error("split halves should reference the same input feature")
	}
}

// Two taps on the same segment need a second detection round: after the
// first split the second tap lies on one of the halves, not on the original.
func TestSplitRunsToFixedPoint(t *testing.T) {
	g := NewGraph(config.Default())
	mustAddLine(t, g, "DN100", xy(0, 0), xy(10, 0))
	mustAddLine(t, g, "DN50", xy(3, 0), xy(3, 5))
	mustAddLine(t, g, "DN50", xy(7, 0), xy(7, 5))
	runPasses(t, g)

	if len(g.Segments) != 5 {
		t.Fatalf("expected 5 segments after both splits, got %d", len(g.Segments))
	}
	if len(g.Junctions) != 2 {
		t.Fatalf("expected 2 junctions, got %d", len(g.Junctions))
	}
	if err := g.CheckConsistency(); err != nil {
		t.Fatalf("splits broke consistency: %v", err)
	}
	// 5 chains: the three spans of the main run plus the two tap legs
	if len(g.Chains) != 5 {
		t.Errorf("expected 5 chains, got %d", len(g.Chains))
	}
}

func TestTapOnOwnSegmentIgnored(t *testing.T) {
	g := NewGraph(config.Default())
	// a short segment: both endpoints are near the interior of their own
	// segment only, which must not count as a tap
	mustAddLine(t, g, "DN100", xy(0, 0), xy(0.01, 0))
	if err := g.ResolveTouching(); err != nil {
		t.Fatal(err)
	}
	if err := g.SplitTaps(); err != nil {
		t.Fatal(err)
	}
	if len(g.Segments) != 1 {
		t.Errorf("no split expected, got %d segments", len(g.Segments))
	}
}
