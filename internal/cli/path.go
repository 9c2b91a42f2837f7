package cli

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/relmap/internal/graph"
	"github.com/spf13/cobra"
)

var (
	pathFlags    analysisFlags
	pathMaxDepth int
)

var pathCmd = &cobra.Command{
	Use:   "path <transcript> <from> <to>",
	Short: "Find the shortest path between two nodes",
	Long: `Analyze a transcript and print the shortest directed path between two
nodes of its relation graph.

Examples:
  relmap path session.txt 내담자 슬프다
  relmap path session.txt 친구 무시 --max-depth 2`,
	Args: cobra.ExactArgs(3),
	RunE: runPath,
}

func init() {
	pathFlags.register(pathCmd)
	pathCmd.Flags().IntVar(&pathMaxDepth, "max-depth", graph.DefaultPathDepth, "maximum path length (1-20)")
}

func runPath(cmd *cobra.Command, args []string) error {
	if err := pathFlags.apply(cmd, &cfg); err != nil {
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

	from, to := args[1], args[2]
	path, err := res.Graph.Path(from, to, pathMaxDepth)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path == nil {
		fmt.Fprintf(out, "No path found between %s and %s within %d hops.\n", from, to, pathMaxDepth)
		return nil
	}
	fmt.Fprintf(out, "%s (%d hops)\n", strings.Join(path, " → "), len(path)-1)
	return nil
}
