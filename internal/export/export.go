// Package export renders analysis results as JSON, YAML, Graphviz DOT or a
// word-cloud frequency table.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raphaelgruber/relmap/internal/analysis"
	"github.com/raphaelgruber/relmap/internal/evidence"
	"github.com/raphaelgruber/relmap/internal/graph"
)

// Format names an output format.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatDOT   Format = "dot"
	FormatCloud Format = "cloud"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatDOT, FormatCloud:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, yaml, dot or cloud)", s)
	}
}

// Options controls what is exported.
type Options struct {
	// Evidence includes the per-entity evidence section.
	Evidence bool
	// Stats includes pass statistics.
	Stats bool
}

// Document is the structured export of a pass.
type Document struct {
	Graph    graph.Snapshot      `json:"graph" yaml:"graph"`
	Counts   map[string]int      `json:"counts" yaml:"counts"`
	Evidence []evidence.Evidence `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Stats    *analysis.Stats     `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// NewDocument builds the export document for a result.
func NewDocument(res analysis.Result, opts Options) Document {
	doc := Document{
		Graph:  res.Graph,
		Counts: res.Counts,
	}
	if doc.Counts == nil {
		doc.Counts = map[string]int{}
	}
	if opts.Evidence {
		doc.Evidence = res.Evidence
	}
	if opts.Stats {
		stats := res.Stats
		doc.Stats = &stats
	}
	return doc
}

// Write renders res in the given structured format. FormatText is rendered by
// the CLI and is rejected here.
func Write(w io.Writer, format Format, res analysis.Result, opts Options) error {
	switch format {
	case FormatJSON:
		return JSON(w, NewDocument(res, opts))
	case FormatYAML:
		return YAML(w, NewDocument(res, opts))
	case FormatDOT:
		return DOT(w, res.Graph)
	case FormatCloud:
		return Cloud(w, res.Cloud)
	default:
		return fmt.Errorf("format %q is not a file export", format)
	}
}

// JSON writes an indented JSON document.
func JSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// YAML writes a YAML document.
func YAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

// Cloud writes the word-cloud entries as a JSON array of {name, value}.
func Cloud(w io.Writer, cloud []analysis.CloudDatum) error {
	if cloud == nil {
		cloud = []analysis.CloudDatum{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cloud); err != nil {
		return fmt.Errorf("encode cloud: %w", err)
	}
	return nil
}
