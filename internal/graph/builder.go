package graph

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/raphaelgruber/relmap/internal/resolve"
)

// FallbackPolicy decides where emotion evidence goes when an utterance
// resolves to nothing but the Center.
type FallbackPolicy int

const (
	// FallbackOmit draws nothing for center-only utterances.
	FallbackOmit FallbackPolicy = iota
	// FallbackRecent attaches the emotions to the most recent role in recency memory.
	FallbackRecent
	// FallbackCenter draws Center → emotion edges.
	FallbackCenter
)

// String returns the policy name used in flags and config.
func (p FallbackPolicy) String() string {
	switch p {
	case FallbackOmit:
		return "omit"
	case FallbackRecent:
		return "recent"
	case FallbackCenter:
		return "center"
	default:
		return fmt.Sprintf("FallbackPolicy(%d)", int(p))
	}
}

// ParseFallbackPolicy parses a policy name.
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "omit":
		return FallbackOmit, nil
	case "recent":
		return FallbackRecent, nil
	case "center":
		return FallbackCenter, nil
	default:
		return FallbackOmit, fmt.Errorf("unknown fallback policy %q (want omit, recent or center)", s)
	}
}

// PolarityLookup is the sentiment lexicon as seen by the builder.
type PolarityLookup interface {
	Polarity(word string) (float64, bool)
}

// RecentTargets supplies the fallback target for FallbackRecent.
type RecentTargets interface {
	RecentTarget() (string, bool)
}

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	Center   string
	Fallback FallbackPolicy
	// UnresolvedAsPerson collapses literal pronoun nodes into the person kind.
	UnresolvedAsPerson bool
	// Recent is required for FallbackRecent and ignored otherwise.
	Recent RecentTargets
	Logger *slog.Logger
}

// Builder materializes a Graph from per-utterance resolutions.
type Builder struct {
	graph   *Graph
	lexicon PolarityLookup
	opts    BuilderOptions
	logger  *slog.Logger
}

// NewBuilder creates a builder over a fresh graph.
func NewBuilder(lexicon PolarityLookup, opts BuilderOptions) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Center == "" {
		opts.Center = resolve.DefaultCenter
	}
	return &Builder{
		graph:   New(),
		lexicon: lexicon,
		opts:    opts,
		logger:  logger,
	}
}

// Graph returns the graph being built.
func (b *Builder) Graph() *Graph {
	return b.graph
}

// Center returns the center node ID.
func (b *Builder) Center() string {
	return b.opts.Center
}

// Ingest upserts the nodes and edges for one utterance. Calling it again with
// the same arguments leaves the graph unchanged.
func (b *Builder) Ingest(at int, entities []resolve.Entity, emotions []string) {
	center := b.opts.Center
	b.graph.EnsureNode(center, NodeCenter, at)

	targets := b.targets(entities)
	if len(targets) == 0 {
		targets = b.fallbackTargets(at, emotions)
	}

	for _, t := range targets {
		if t.ID == center {
			continue
		}
		b.graph.EnsureNode(t.ID, t.Kind, at)
		b.graph.EnsureEdge(center, t.ID, at)
	}

	if len(targets) == 0 {
		return
	}

	for _, emo := range emotions {
		b.graph.EnsureNode(emo, NodeEmotion, at)
		polarity, _ := b.lexicon.Polarity(emo)
		b.graph.SetPolarity(emo, polarity)

		for _, t := range targets {
			b.graph.EnsureEdge(t.ID, emo, at)
		}
	}
}

type target struct {
	ID   string
	Kind NodeKind
}

// targets returns the non-center entities as graph targets.
func (b *Builder) targets(entities []resolve.Entity) []target {
	var out []target
	for _, e := range entities {
		if e.Name == "" || e.Name == b.opts.Center {
			continue
		}
		kind := NodePerson
		if e.Kind == resolve.KindUnresolved && !b.opts.UnresolvedAsPerson {
			kind = NodeUnresolved
		}
		out = append(out, target{ID: e.Name, Kind: kind})
	}
	return out
}

// fallbackTargets applies the policy for center-only utterances.
func (b *Builder) fallbackTargets(at int, emotions []string) []target {
	if len(emotions) == 0 {
		return nil
	}

	switch b.opts.Fallback {
	case FallbackRecent:
		if b.opts.Recent == nil {
			return nil
		}
		name, ok := b.opts.Recent.RecentTarget()
		if !ok || name == b.opts.Center {
			return nil
		}
		b.logger.Debug("attaching emotions to recent target", "utterance", at, "target", name)
		return []target{{ID: name, Kind: NodePerson}}
	case FallbackCenter:
		// The center node is already ensured; only the emotion edges remain.
		return []target{{ID: b.opts.Center, Kind: NodeCenter}}
	default:
		return nil
	}
}
