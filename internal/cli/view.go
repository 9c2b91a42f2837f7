package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"golang.org/x/term"

	"github.com/raphaelgruber/relmap/internal/analysis"
	"github.com/raphaelgruber/relmap/internal/export"
	"github.com/raphaelgruber/relmap/internal/graph"
)

// Theme holds the color scheme for the text view outside the graph itself.
type Theme struct {
	Header lipgloss.Color
	Hint   lipgloss.Color
	Branch lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Header: lipgloss.Color("#5FAFD7"), // light blue
	Hint:   lipgloss.Color("#6C6C6C"), // dim gray
	Branch: lipgloss.Color("#3A3A3A"), // dark gray
}

// view renders a result as a styled tree. With color off every style is a
// no-op so redirected output stays plain text.
type view struct {
	theme Theme
	color bool
}

func (v view) style() lipgloss.Style {
	return lipgloss.NewStyle()
}

func (v view) headerStyle() lipgloss.Style {
	if !v.color {
		return v.style()
	}
	return v.style().Foreground(v.theme.Header).Bold(true)
}

func (v view) hintStyle() lipgloss.Style {
	if !v.color {
		return v.style()
	}
	return v.style().Foreground(v.theme.Hint).Italic(true)
}

func (v view) branchStyle() lipgloss.Style {
	if !v.color {
		return v.style().PaddingRight(1)
	}
	return v.style().Foreground(v.theme.Branch).PaddingRight(1)
}

// nodeStyle colors a node with its class color, the same palette the DOT
// export uses.
func (v view) nodeStyle(n graph.Node) lipgloss.Style {
	if !v.color {
		return v.style()
	}
	s := v.style().Foreground(lipgloss.Color(export.StyleFor(n.Class).Color))
	if n.Kind == graph.NodeCenter {
		s = s.Bold(true)
	}
	return s
}

func (v view) label(n graph.Node) string {
	text := n.ID
	switch {
	case n.Polarity != nil:
		text = fmt.Sprintf("%s (%+.2f)", n.ID, *n.Polarity)
	case n.Kind == graph.NodeUnresolved:
		text = n.ID + " (?)"
	}
	return v.nodeStyle(n).Render(text)
}

// graphTree builds the tree rooted at the center. Emotions are listed under
// every person they were drawn from; other nodes are listed once, under the
// first edge that reaches them. Nodes the center does not reach are appended
// at the top level.
func (v view) graphTree(snap graph.Snapshot) *tree.Tree {
	seen := map[string]bool{}

	var build func(id string) *tree.Tree
	build = func(id string) *tree.Tree {
		seen[id] = true
		n, ok := snap.Node(id)
		if !ok {
			n = graph.Node{ID: id, Kind: graph.NodeCenter, Class: graph.ClassCenter}
		}
		t := tree.Root(v.label(n)).EnumeratorStyle(v.branchStyle())
		for _, next := range snap.Successors(id) {
			child, _ := snap.Node(next)
			if child.Kind == graph.NodeEmotion {
				t.Child(v.label(child))
				continue
			}
			if !seen[next] {
				t.Child(build(next))
			}
		}
		return t
	}

	root := build(snap.Center)
	for _, n := range snap.Nodes {
		if !seen[n.ID] && n.Kind != graph.NodeEmotion {
			root.Child(build(n.ID))
		}
	}
	return root
}

// render writes the tree, the emotion frequency table and, if asked, the
// evidence and pass statistics.
func (v view) render(w io.Writer, res analysis.Result, opts export.Options) error {
	var b strings.Builder

	if len(res.Graph.Nodes) == 0 {
		b.WriteString(v.hintStyle().Render("No relations found.") + "\n")
	} else {
		b.WriteString(v.graphTree(res.Graph).String() + "\n")
	}

	if len(res.Cloud) > 0 {
		b.WriteString("\n" + v.headerStyle().Render("Emotions") + "\n")
		for _, d := range res.Cloud {
			fmt.Fprintf(&b, "  %-12s %d\n", d.Name, d.Value)
		}
	}

	if opts.Evidence && len(res.Evidence) > 0 {
		b.WriteString("\n" + v.headerStyle().Render("Evidence") + "\n")
		for _, e := range res.Evidence {
			fmt.Fprintf(&b, "  %s: %s\n", e.Entity, strings.Join(e.Emotions, ", "))
			for _, c := range e.Contexts {
				b.WriteString("    " + v.hintStyle().Render(c) + "\n")
			}
		}
	}

	if opts.Stats {
		s := res.Stats
		b.WriteString("\n" + v.headerStyle().Render("Stats") + "\n")
		fmt.Fprintf(&b, "  utterances %d, defaulted %d, unresolved %d, emotions %d\n",
			s.Utterances, s.Defaulted, s.Unresolved, s.Emotions)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// renderText writes res as a tree, colored when color is true.
func renderText(w io.Writer, res analysis.Result, opts export.Options, color bool) error {
	return view{theme: defaultTheme, color: color}.render(w, res, opts)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
