package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/raphaelgruber/relmap/internal/analysis"
	"github.com/raphaelgruber/relmap/internal/client"
	"github.com/raphaelgruber/relmap/internal/evidence"
	"github.com/raphaelgruber/relmap/internal/export"
	"github.com/raphaelgruber/relmap/internal/graph"
	"github.com/raphaelgruber/relmap/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	analyzeFlags    analysisFlags
	analyzeFormat   string
	analyzeOutput   string
	analyzeEvidence bool
	analyzeStats    bool
	analyzeFocus    string
	analyzeDepth    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <transcript>",
	Short: "Build the relation graph of a transcript",
	Long: `Analyze a transcript and print the relation graph.

Only lines of the selected role ("내담자 :" by default) are read. Each
sentence is tokenized, its nouns are resolved to people and its lexicon
words become emotion nodes under them.

Examples:
  relmap analyze session.txt
  relmap analyze session.txt --format json --evidence
  relmap analyze session.txt --format dot -o graph.dot
  relmap analyze session.txt --fallback recent --window 5
  relmap analyze session.txt --focus 엄마 --depth 1
  relmap analyze session.txt --publish ws://localhost:8081`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeFlags.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "output format: text, json, yaml, dot or cloud")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write to file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeEvidence, "evidence", false, "include the sentences behind each person")
	analyzeCmd.Flags().BoolVar(&analyzeStats, "stats", false, "include pass statistics and print timings to stderr")
	analyzeCmd.Flags().StringVar(&analyzeFocus, "focus", "", "only show the graph around this node")
	analyzeCmd.Flags().IntVar(&analyzeDepth, "depth", graph.DefaultFocusDepth, "hops around --focus to keep (1-10)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(analyzeFormat)
	if err != nil {
		return err
	}
	if err := analyzeFlags.apply(cmd, &cfg); err != nil {
		return err
	}

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}
	res, err := p.run(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if analyzeFocus != "" {
		if res, err = focus(res, analyzeFocus, analyzeDepth); err != nil {
			return err
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if analyzeOutput != "" {
		f, err := os.Create(analyzeOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	opts := export.Options{Evidence: analyzeEvidence, Stats: analyzeStats}
	if format == export.FormatText {
		err = renderText(out, res, opts, isTerminal(out))
	} else {
		err = export.Write(out, format, res, opts)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}

	if cfg.PublishURL != "" {
		if err := publishOnce(cmd, res); err != nil {
			return err
		}
	}

	if analyzeStats {
		printStats(cmd.ErrOrStderr(), p.metrics.Snapshot())
	}
	return nil
}

// focus narrows the graph and evidence of res to the neighborhood of id.
// Counts still cover the whole pass.
func focus(res analysis.Result, id string, depth int) (analysis.Result, error) {
	sub, err := res.Graph.Neighborhood(id, depth)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("focus: %w", err)
	}
	res.Graph = sub

	var ev []evidence.Evidence
	for _, e := range res.Evidence {
		if _, ok := sub.Node(e.Entity); ok {
			ev = append(ev, e)
		}
	}
	res.Evidence = ev
	return res, nil
}

func publishOnce(cmd *cobra.Command, res analysis.Result) error {
	pub, err := client.NewPublisher(cfg.PublishURL, logger)
	if err != nil {
		return err
	}
	defer pub.Close()

	version, err := pub.Publish(cmd.Context(), res)
	if err != nil {
		return err
	}
	logger.Info("state published", "url", cfg.PublishURL, "version", version)
	return nil
}

// printStats displays the timing and counter snapshot of a pass.
func printStats(w io.Writer, snap metrics.Snapshot) {
	fmt.Fprintf(w, "\nPass Statistics\n")
	fmt.Fprintf(w, "═══════════════════════════════════════\n")

	ops := []struct {
		name string
		op   *metrics.OperationSnapshot
	}{
		{"Lexicon load", snap.LexiconLoad},
		{"Tokenize", snap.Tokenize},
		{"Resolve", snap.Resolve},
		{"Ingest", snap.Ingest},
	}
	for _, o := range ops {
		if o.op == nil {
			continue
		}
		fmt.Fprintf(w, "%s:\n", o.name)
		printOpStats(w, o.op)
	}

	if len(snap.Counters) > 0 {
		fmt.Fprintf(w, "Counters:\n")
		for _, name := range snap.CounterNames() {
			fmt.Fprintf(w, "  %-12s %d\n", name, snap.Counters[name])
		}
	}
}

// printOpStats displays timing statistics for an operation.
func printOpStats(w io.Writer, op *metrics.OperationSnapshot) {
	fmt.Fprintf(w, "  Calls: %d, Total: %dµs\n", op.Count, op.TotalTimeUs)
	fmt.Fprintf(w, "  Time: avg %.1fµs, min %dµs, max %dµs\n",
		op.AvgTimeUs, op.MinTimeUs, op.MaxTimeUs)
}
