package topology

import "github.com/gridwise/pipetrace/pkg/pipetrace/geom"

// WarningKind identifies a non-fatal diagnostic.
type WarningKind int

const (
	// WarnSameAngle reports a junction candidate whose legs run in the same
	// direction: overlapping duplicate input lines, not a real branch.
	WarnSameAngle WarningKind = iota
	// WarnAdapterInserted reports a size-change adapter inserted between two
	// chains with differing attributes.
	WarnAdapterInserted
	// WarnDirectionConflict reports a chain whose direction was derived a
	// second time with a different value. The first assignment wins.
	WarnDirectionConflict
	// WarnAttachmentUnsnapped reports a producer or consumer with no network
	// point within the snap tolerance.
	WarnAttachmentUnsnapped
)

func (k WarningKind) String() string {
	switch k {
	case WarnSameAngle:
		return "same-angle"
	case WarnAdapterInserted:
		return "adapter-inserted"
	case WarnDirectionConflict:
		return "direction-conflict"
	case WarnAttachmentUnsnapped:
		return "attachment-unsnapped"
	default:
		return "unknown"
	}
}

// Warning is a structured, non-fatal diagnostic surfaced on the result.
type Warning struct {
	Kind    WarningKind
	Message string
	Pos     geom.XY
}

func (g *Graph) warn(kind WarningKind, pos geom.XY, msg string) {
	g.Warnings = append(g.Warnings, Warning{Kind: kind, Message: msg, Pos: pos})
}

// WarningsOf returns the warnings of one kind, in emission order.
func (g *Graph) WarningsOf(kind WarningKind) []Warning {
	var out []Warning
	for _, w := range g.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}
