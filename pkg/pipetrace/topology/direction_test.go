package topology

import (
	"testing"

	"github.com/gridwise/pipetrace/pkg/pipetrace/config"
)

func TestSeedProducerAtStart(t *testing.T) {
	g := NewGraph(config.Default())
	mustAddLine(t, g, "DN100", xy(0, 0), xy(10, 0))
	g.AddAttachment(AttachProducer, "plant", 500, xy(0, 0))
	runPasses(t, g)

	if len(g.Chains) != 1 {
		t.Fatalf("expected 1 chain, got %d", len(g.Chains))
	}
	ch := g.Chains[0]
	if ch.Start.Kind != EndAttachment {
		t.Fatalf("chain should start at the attachment, got %+v", ch.Start)
	}
	if ch.Dir != DirForward {
		t.Errorf("producer at the start should seed forward, got %s", ch.Dir)
	}
}

func TestSeedConsumerAtEnd(t *testing.T) {
	g := NewGraph(config.Default())
	mustAddLine(t, g, "DN100", xy(0, 0), xy(10, 0))
	g.AddAttachment(AttachConsumer, "house", 10, xy(10, 0))
	runPasses(t, g)

	ch := g.Chains[0]
	if ch.End.Kind != EndAttachment {
		t.Fatalf("chain should end at the attachment, got %+v", ch.End)
	}
	if ch.Dir != DirForward {
		t.Errorf("consumer at the end should seed forward, got %s", ch.Dir)
	}
}

func TestSeedProducerAtEnd(t *testing.T) {
	g := NewGraph(config.Default())
	mustAddLine(t, g, "DN100", xy(0, 0), xy(10, 0))
	g.AddAttachment(AttachProducer, "plant", 500, xy(10, 0))
	runPasses(t, g)

	if got := g.Chains[0].Dir; got != DirReversed {
		t.Errorf("producer at the end should seed reversed, got %s", got)
	}
}

// A direction seeded on one side of an adapter relaxes onto the chain on
// the other side; an end-to-start link preserves the direction.
func TestAdapterPropagation(t *testing.T) {
	g := NewGraph(config.Default())
	mustAddLine(t, g, "DN100", xy(0, 0), xy(10, 0))
	mustAddLine(t, g, "DN50", xy(10, 0), xy(20, 0))
	g.AddAttachment(AttachProducer, "plant", 500, xy(0, 0))
	runPasses(t, g)

	if len(g.Chains) != 2 {
		t.Fatalf("expected 2 chains, got %d", len(g.Chains))
	}
	first, second := g.Chains[0], g.Chains[1]
	if first.Dir != DirForward {
		t.Fatalf("seeded chain should be forward, got %s", first.Dir)
	}
	if second.Dir != DirForward {
		t.Errorf("adapter should carry forward across an end-to-start link, got %s", second.Dir)
	}

	// idempotence: a second propagation changes nothing and adds no warnings
	warnings := len(g.Warnings)
	dirs := []Direction{first.Dir, second.Dir}
	g.PropagateDirections()
	if first.Dir != dirs[0] || second.Dir != dirs[1] {
		t.Error("re-running propagation changed chain directions")
	}
	if len(g.Warnings) != warnings {
		t.Errorf("re-running propagation emitted %d extra warnings", len(g.Warnings)-warnings)
	}
}

// Conflicting seeds across an adapter keep the first assignment and surface
// a latent-conflict warning instead of aborting.
func TestDirectionConflictWarning(t *testing.T) {
	g := NewGraph(config.Default())
	mustAddLine(t, g, "DN100", xy(0, 0), xy(10, 0))
	mustAddLine(t, g, "DN50", xy(10, 0), xy(20, 0))
	g.AddAttachment(AttachProducer, "plant-a", 500, xy(0, 0))
	g.AddAttachment(AttachProducer, "plant-b", 500, xy(20, 0))
	runPasses(t, g)

	first, second := g.Chains[0], g.Chains[1]
	if first.Dir != DirForward {
		t.Errorf("first chain should keep its seed, got %s", first.Dir)
	}
	if second.Dir != DirReversed {
		t.Errorf("second chain should keep its seed, got %s", second.Dir)
	}
	if len(g.WarningsOf(WarnDirectionConflict)) == 0 {
		t.Error("expected a direction-conflict warning")
	}
}

func TestUnattachedChainStaysUnset(t *testing.T) {
	g := NewGraph(config.Default())
	mustAddLine(t, g, "DN100", xy(0, 0), xy(10, 0))
	runPasses(t, g)

	if got := g.Chains[0].Dir; got != DirUnset {
		t.Errorf("chain without attachments should stay unset, got %s", got)
	}
}

func TestAttachmentSnapWarning(t *testing.T) {
	g := NewGraph(config.Default())
	mustAddLine(t, g, "DN100", xy(0, 0), xy(10, 0))
	g.AddAttachment(AttachConsumer, "house", 10, xy(50, 50))
	runPasses(t, g)

	if len(g.WarningsOf(WarnAttachmentUnsnapped)) != 1 {
		t.Error("expected an unsnapped-attachment warning")
	}
	if g.Attachments[0].Point != -1 {
		t.Error("unsnapped attachment should stay unlinked")
	}
}
