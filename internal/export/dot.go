package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/raphaelgruber/relmap/internal/graph"
)

// Style is how a node class is drawn.
type Style struct {
	Shape string
	Color string
}

var styles = map[string]Style{
	graph.ClassCenter:   {Shape: "doublecircle", Color: "#ffd700"},
	graph.ClassPerson:   {Shape: "ellipse", Color: "#87ceeb"},
	graph.ClassUnknown:  {Shape: "diamond", Color: "#e0e0e0"},
	graph.ClassPositive: {Shape: "box", Color: "#b3e5fc"},
	graph.ClassNegative: {Shape: "box", Color: "#ff9999"},
	graph.ClassNeutral:  {Shape: "box", Color: "#d3d3d3"},
}

// StyleFor returns the drawing style of a node class.
func StyleFor(class string) Style {
	if s, ok := styles[class]; ok {
		return s
	}
	return styles[graph.ClassNeutral]
}

// DOT writes the graph in Graphviz DOT syntax.
func DOT(w io.Writer, snap graph.Snapshot) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph relmap {")
	fmt.Fprintln(bw, "  rankdir=LR;")
	fmt.Fprintln(bw, `  node [style=filled, fontname="sans-serif"];`)

	for _, n := range snap.Nodes {
		s := StyleFor(n.Class)
		label := n.ID
		if n.Polarity != nil {
			label = fmt.Sprintf("%s (%s)", n.ID, strconv.FormatFloat(*n.Polarity, 'f', -1, 64))
		}
		fmt.Fprintf(bw, "  %s [label=%s, shape=%s, fillcolor=%s];\n",
			strconv.Quote(n.ID), strconv.Quote(label), s.Shape, strconv.Quote(s.Color))
	}
	for _, e := range snap.Edges {
		fmt.Fprintf(bw, "  %s -> %s;\n", strconv.Quote(e.From), strconv.Quote(e.To))
	}
	fmt.Fprintln(bw, "}")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}
	return nil
}
