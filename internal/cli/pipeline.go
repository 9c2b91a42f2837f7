package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/relmap/internal/analysis"
	"github.com/raphaelgruber/relmap/internal/config"
	"github.com/raphaelgruber/relmap/internal/graph"
	"github.com/raphaelgruber/relmap/internal/lexicon"
	"github.com/raphaelgruber/relmap/internal/metrics"
	"github.com/raphaelgruber/relmap/internal/resolve"
	"github.com/raphaelgruber/relmap/internal/tokenize"
	"github.com/raphaelgruber/relmap/internal/transcript"
	"github.com/spf13/cobra"
)

// analysisFlags are the flags shared by analyze and watch. They override the
// environment config only when set on the command line.
type analysisFlags struct {
	lexicon            string
	stopwords          string
	vocab              string
	role               string
	window             int
	fallback           string
	minPolarity        float64
	tokenizer          string
	unresolvedAsPerson bool
	publish            string
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.lexicon, "lexicon", "", "sentiment lexicon JSON file (default from RELMAP_LEXICON)")
	cmd.Flags().StringVar(&f.stopwords, "stopwords", "", "stopword file, one word per line")
	cmd.Flags().StringVar(&f.vocab, "vocab", "", "vocabulary YAML file (default: built-in Korean)")
	cmd.Flags().StringVar(&f.role, "role", "", "speaker whose lines are analyzed (default 내담자)")
	cmd.Flags().IntVar(&f.window, "window", 0, "how many recent roles pronouns may refer back to (default 3)")
	cmd.Flags().StringVar(&f.fallback, "fallback", "", "where to attach emotions of center-only utterances: omit, recent or center")
	cmd.Flags().Float64Var(&f.minPolarity, "min-polarity", 0, "smallest |polarity| that counts as an emotion")
	cmd.Flags().StringVar(&f.tokenizer, "tokenizer", "", "tokenizer: korean or prose")
	cmd.Flags().BoolVar(&f.unresolvedAsPerson, "unresolved-as-person", false, "draw pronouns without an antecedent as people")
	cmd.Flags().StringVar(&f.publish, "publish", "", "relay URL to publish state to, e.g. ws://localhost:8081")
}

// apply copies the flags that were set onto c and validates the result.
func (f *analysisFlags) apply(cmd *cobra.Command, c *config.Config) error {
	set := cmd.Flags().Changed
	if set("lexicon") {
		c.LexiconPath = f.lexicon
	}
	if set("stopwords") {
		c.StopwordsPath = f.stopwords
	}
	if set("vocab") {
		c.VocabPath = f.vocab
	}
	if set("role") {
		c.Role = f.role
	}
	if set("window") {
		c.Window = f.window
	}
	if set("fallback") {
		c.Fallback = f.fallback
	}
	if set("min-polarity") {
		c.MinPolarity = f.minPolarity
	}
	if set("tokenizer") {
		c.Tokenizer = f.tokenizer
	}
	if set("unresolved-as-person") {
		c.UnresolvedAsPerson = f.unresolvedAsPerson
	}
	if set("publish") {
		c.PublishURL = f.publish
	}
	return c.Validate()
}

// pipeline holds everything loaded once per command: the lexicon, the
// vocabulary and the tokenizer. Each run builds a fresh session from it.
type pipeline struct {
	options analysis.Options
	extract transcript.Options
	metrics *metrics.Collector
}

// newPipeline loads the inputs named by c.
func newPipeline(c config.Config, logger *slog.Logger) (*pipeline, error) {
	m := metrics.NewCollector()

	start := time.Now()
	lex, stats, err := lexicon.Load(c.LexiconPath)
	m.Time(metrics.OpLexiconLoad, start)
	switch {
	case errors.Is(err, lexicon.ErrEmptyLexicon):
		logger.Warn("lexicon is empty, no emotions will be found", "path", c.LexiconPath)
	case err != nil:
		return nil, err
	}
	logger.Info("lexicon loaded",
		"path", c.LexiconPath,
		"records", stats.Records,
		"words", stats.Loaded,
		"skipped", stats.Skipped,
		"coerced", stats.Coerced,
	)

	var stop lexicon.Stopwords
	if c.StopwordsPath != "" {
		if stop, err = lexicon.LoadStopwords(c.StopwordsPath); err != nil {
			return nil, err
		}
	}

	vocab, err := config.LoadVocabulary(c.VocabPath)
	if err != nil {
		return nil, err
	}

	kind, err := tokenize.ParseKind(c.Tokenizer)
	if err != nil {
		return nil, err
	}
	dictionary := append(vocab.Words(), lex.Words()...)
	tok, err := tokenize.New(kind, dictionary)
	if err != nil {
		return nil, err
	}

	fallback, err := graph.ParseFallbackPolicy(c.Fallback)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		options: analysis.Options{
			Tokenizer:          tok,
			Lexicon:            lex,
			Stopwords:          stop,
			Resolve:            resolve.Config{Vocabulary: vocab, Window: c.Window},
			Fallback:           fallback,
			MinAbsPolarity:     c.MinPolarity,
			UnresolvedAsPerson: c.UnresolvedAsPerson,
			Logger:             logger,
			Metrics:            m,
		},
		extract: transcript.Options{Role: c.Role},
		metrics: m,
	}, nil
}

// run extracts the transcript at path and analyzes it from empty state.
func (p *pipeline) run(ctx context.Context, path string) (analysis.Result, error) {
	utterances, err := transcript.ReadFile(path, p.extract)
	if err != nil {
		return analysis.Result{}, err
	}
	if len(utterances) == 0 {
		p.options.Logger.Warn("no utterances found", "path", path, "role", p.extract.Role)
	}
	res, err := analysis.Analyze(ctx, utterances, p.options)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("analyze %s: %w", path, err)
	}
	return res, nil
}
