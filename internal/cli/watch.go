package cli

import (
	"context"
	"time"

	"github.com/raphaelgruber/relmap/internal/client"
	"github.com/raphaelgruber/relmap/internal/watch"
	"github.com/spf13/cobra"
)

var (
	watchFlags    analysisFlags
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <transcript>",
	Short: "Republish the relation graph whenever a transcript changes",
	Long: `Watch a transcript file and rerun the analysis each time it is saved.

Every run starts from empty state, so the published graph always reflects
the whole file. Each result is sent to the relay as a new state version.

Examples:
  relmap watch session.txt
  relmap watch session.txt --publish ws://relay.local:8081
  relmap watch session.txt --debounce 1s`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a rerun")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := watchFlags.apply(cmd, &cfg); err != nil {
		return err
	}

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	pub, err := client.NewPublisher(cfg.PublishURL, logger)
	if err != nil {
		return err
	}
	defer pub.Close()

	w, err := watch.New(args[0], watchDebounce, logger)
	if err != nil {
		return err
	}

	return w.Run(cmd.Context(), func(ctx context.Context) error {
		res, err := p.run(ctx, args[0])
		if err != nil {
			return err
		}
		version, err := pub.Publish(ctx, res)
		if err != nil {
			return err
		}
		logger.Info("state published",
			"version", version,
			"nodes", len(res.Graph.Nodes),
			"edges", len(res.Graph.Edges),
		)
		return nil
	})
}
