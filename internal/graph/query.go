package graph

import (
	"errors"
	"fmt"
)

// Query depth limits.
const (
	DefaultPathDepth  = 5
	MaxPathDepth      = 20
	DefaultFocusDepth = 2
	MaxFocusDepth     = 10
)

// ErrNodeNotFound is returned by queries naming a node the graph lacks.
var ErrNodeNotFound = errors.New("node not found")

// Path returns the shortest directed path from → to, endpoints included, or
// nil if there is none within maxDepth edges. A maxDepth of 0 means
// DefaultPathDepth. Ties are broken by edge insertion order.
func (s Snapshot) Path(from, to string, maxDepth int) ([]string, error) {
	maxDepth, err := checkDepth(maxDepth, DefaultPathDepth, MaxPathDepth)
	if err != nil {
		return nil, err
	}
	if err := s.require(from, to); err != nil {
		return nil, err
	}
	if from == to {
		return []string{from}, nil
	}

	adj := s.adjacency(false)
	prev := map[string]string{from: ""}
	frontier := []string{from}
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, succ := range adj[id] {
				if _, seen := prev[succ]; seen {
					continue
				}
				prev[succ] = id
				if succ == to {
					return tracePath(prev, from, to), nil
				}
				next = append(next, succ)
			}
		}
		frontier = next
	}
	return nil, nil
}

// Neighborhood returns the subgraph of nodes within depth edges of start,
// following edges in both directions. Node and edge order are preserved and
// the center is kept as the snapshot's center only if it is included.
func (s Snapshot) Neighborhood(start string, depth int) (Snapshot, error) {
	depth, err := checkDepth(depth, DefaultFocusDepth, MaxFocusDepth)
	if err != nil {
		return Snapshot{}, err
	}
	if err := s.require(start); err != nil {
		return Snapshot{}, err
	}

	adj := s.adjacency(true)
	keep := map[string]bool{start: true}
	frontier := []string{start}
	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []string
		for _, id := range frontier {
			for _, n := range adj[id] {
				if !keep[n] {
					keep[n] = true
					next = append(next, n)
				}
			}
		}
		frontier = next
	}

	out := Snapshot{Nodes: []Node{}, Edges: []Edge{}}
	if keep[s.Center] {
		out.Center = s.Center
	}
	for _, n := range s.Nodes {
		if keep[n.ID] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range s.Edges {
		if keep[e.From] && keep[e.To] {
			out.Edges = append(out.Edges, e)
		}
	}
	return out, nil
}

func (s Snapshot) require(ids ...string) error {
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty id", ErrNodeNotFound)
		}
		if _, ok := s.Node(id); !ok {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
	}
	return nil
}

func (s Snapshot) adjacency(undirected bool) map[string][]string {
	adj := make(map[string][]string, len(s.Nodes))
	for _, e := range s.Edges {
		adj[e.From] = append(adj[e.From], e.To)
		if undirected {
			adj[e.To] = append(adj[e.To], e.From)
		}
	}
	return adj
}

func tracePath(prev map[string]string, from, to string) []string {
	var rev []string
	for id := to; id != from; id = prev[id] {
		rev = append(rev, id)
	}
	rev = append(rev, from)
	path := make([]string, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}

func checkDepth(depth, def, max int) (int, error) {
	if depth == 0 {
		return def, nil
	}
	if depth < 0 || depth > max {
		return 0, fmt.Errorf("depth must be between 1 and %d, got %d", max, depth)
	}
	return depth, nil
}
