// Package graph builds the directed relation graph: center → person → emotion.
package graph

// NodeKind tags what a node represents.
type NodeKind string

const (
	NodeCenter     NodeKind = "center"
	NodePerson     NodeKind = "person"
	NodeUnresolved NodeKind = "unresolved"
	NodeEmotion    NodeKind = "emotion"
)

// Shape classes handed to renderers. They carry meaning only; mapping them
// to colors and shapes is the renderer's business.
const (
	ClassCenter   = "center"
	ClassPerson   = "person"
	ClassUnknown  = "unknown"
	ClassPositive = "positive"
	ClassNegative = "negative"
	ClassNeutral  = "neutral"
)

// Node is a graph vertex.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Kind     NodeKind `json:"kind" yaml:"kind"`
	Class    string   `json:"class" yaml:"class"`
	Polarity *float64 `json:"polarity,omitempty" yaml:"polarity,omitempty"`
	// FirstSeen is the index of the utterance that created the node.
	FirstSeen int `json:"firstSeen" yaml:"first_seen"`
}

// Edge is a directed graph edge.
type Edge struct {
	From      string `json:"from" yaml:"from"`
	To        string `json:"to" yaml:"to"`
	FirstSeen int    `json:"firstSeen" yaml:"first_seen"`
}

// Snapshot is a frozen copy of a graph, in insertion order.
type Snapshot struct {
	Center string `json:"center" yaml:"center"`
	Nodes  []Node `json:"nodes" yaml:"nodes"`
	Edges  []Edge `json:"edges" yaml:"edges"`
}

// Node returns the node with the given ID.
func (s Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// HasEdge reports whether the snapshot contains from → to.
func (s Snapshot) HasEdge(from, to string) bool {
	for _, e := range s.Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// Successors returns the targets of edges leaving id, in insertion order.
func (s Snapshot) Successors(id string) []string {
	var out []string
	for _, e := range s.Edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// PolarityClass maps a polarity score onto a shape class.
func PolarityClass(p float64) string {
	switch {
	case p > 0:
		return ClassPositive
	case p < 0:
		return ClassNegative
	default:
		return ClassNeutral
	}
}

func kindClass(k NodeKind) string {
	switch k {
	case NodeCenter:
		return ClassCenter
	case NodePerson:
		return ClassPerson
	case NodeUnresolved:
		return ClassUnknown
	default:
		return ClassNeutral
	}
}
