package graph

import (
	"sync"
)

type edgeKey struct {
	from, to string
}

// Graph is a directed graph with unique node IDs and idempotent upserts.
// Attributes are first-writer-wins, except emotion polarity, which SetPolarity
// always overwrites. All methods are thread-safe.
type Graph struct {
	mu    sync.RWMutex
	nodes []*Node
	index map[string]int
	edges []Edge
	seen  map[edgeKey]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
		seen:  make(map[edgeKey]struct{}),
	}
}

// EnsureNode creates a node if absent. An existing node is left untouched,
// so a second caller cannot change its kind. Returns true if it was created.
func (g *Graph) EnsureNode(id string, kind NodeKind, at int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ensureNode(id, kind, at)
}

// ensureNode requires the write lock.
func (g *Graph) ensureNode(id string, kind NodeKind, at int) bool {
	if _, ok := g.index[id]; ok {
		return false
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, &Node{
		ID:        id,
		Kind:      kind,
		Class:     kindClass(kind),
		FirstSeen: at,
	})
	return true
}

// SetPolarity records the lexicon polarity of an emotion node. Unlike other
// attributes it is always overwritten and the node class follows it.
// Nodes of other kinds are ignored.
func (g *Graph) SetPolarity(id string, polarity float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i, ok := g.index[id]
	if !ok {
		return
	}
	n := g.nodes[i]
	if n.Kind != NodeEmotion {
		return
	}
	p := polarity
	n.Polarity = &p
	n.Class = PolarityClass(polarity)
}

// EnsureEdge creates from → to if absent. Self-loops and edges between
// unknown nodes are rejected. Returns true if the edge was created.
func (g *Graph) EnsureEdge(from, to string, at int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if from == to {
		return false
	}
	if _, ok := g.index[from]; !ok {
		return false
	}
	if _, ok := g.index[to]; !ok {
		return false
	}
	key := edgeKey{from: from, to: to}
	if _, ok := g.seen[key]; ok {
		return false
	}
	g.seen[key] = struct{}{}
	g.edges = append(g.edges, Edge{From: from, To: to, FirstSeen: at})
	return true
}

// HasNode reports whether a node exists.
func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.index[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Snapshot returns a deep copy of the graph.
func (g *Graph) Snapshot(center string) Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snap := Snapshot{
		Center: center,
		Nodes:  make([]Node, len(g.nodes)),
		Edges:  make([]Edge, len(g.edges)),
	}
	for i, n := range g.nodes {
		c := *n
		if n.Polarity != nil {
			p := *n.Polarity
			c.Polarity = &p
		}
		snap.Nodes[i] = c
	}
	copy(snap.Edges, g.edges)
	return snap
}
