// Package analysis folds a transcript's utterances into a relation graph.
//
// A Session owns the resolver, graph builder and evidence aggregator for one
// transcript. Utterances are fed strictly in order; Freeze returns the
// finished result and closes the session.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/raphaelgruber/relmap/internal/evidence"
	"github.com/raphaelgruber/relmap/internal/graph"
	"github.com/raphaelgruber/relmap/internal/lexicon"
	"github.com/raphaelgruber/relmap/internal/metrics"
	"github.com/raphaelgruber/relmap/internal/resolve"
	"github.com/raphaelgruber/relmap/internal/tokenize"
	"github.com/raphaelgruber/relmap/internal/transcript"
)

// ErrFrozen is returned by Feed after Freeze.
var ErrFrozen = errors.New("analysis session is frozen")

// Options configures a Session.
type Options struct {
	Tokenizer tokenize.Tokenizer
	Lexicon   *lexicon.Lexicon
	Stopwords lexicon.Stopwords
	Resolve   resolve.Config
	Fallback  graph.FallbackPolicy
	// MinAbsPolarity is the smallest |polarity| that counts as emotion evidence.
	MinAbsPolarity     float64
	UnresolvedAsPerson bool
	Logger             *slog.Logger
	Metrics            *metrics.Collector
}

// CloudDatum is one word-cloud entry.
type CloudDatum struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// Stats summarizes a pass.
type Stats struct {
	Utterances int `json:"utterances" yaml:"utterances"`
	Defaulted  int `json:"defaulted" yaml:"defaulted"`
	Unresolved int `json:"unresolved" yaml:"unresolved"`
	Emotions   int `json:"emotions" yaml:"emotions"`
}

// Result is the frozen outcome of a pass.
type Result struct {
	Graph    graph.Snapshot      `json:"graph" yaml:"graph"`
	Evidence []evidence.Evidence `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	// Counts is how often each emotion word occurred, duplicates included.
	Counts map[string]int `json:"counts" yaml:"counts"`
	Cloud  []CloudDatum   `json:"cloudData" yaml:"cloud_data"`
	Stats  Stats          `json:"stats" yaml:"stats"`
}

// Session is a single-transcript analysis pass. Feed and Freeze may be called
// from several goroutines; utterances never interleave.
type Session struct {
	mu       sync.Mutex
	opts     Options
	resolver *resolve.Resolver
	builder  *graph.Builder
	evidence *evidence.Aggregator
	counts   map[string]int
	stats    Stats
	frozen   bool
	logger   *slog.Logger
}

// NewSession creates a session with empty state.
func NewSession(opts Options) (*Session, error) {
	if opts.Tokenizer == nil {
		return nil, errors.New("analysis: tokenizer is required")
	}
	if opts.Lexicon == nil {
		return nil, errors.New("analysis: lexicon is required")
	}
	if opts.Resolve.Vocabulary.Center == "" {
		opts.Resolve.Vocabulary.Center = resolve.DefaultCenter
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	resolver := resolve.NewResolver(opts.Resolve, logger)
	builder := graph.NewBuilder(opts.Lexicon, graph.BuilderOptions{
		Center:             opts.Resolve.Vocabulary.Center,
		Fallback:           opts.Fallback,
		UnresolvedAsPerson: opts.UnresolvedAsPerson,
		Recent:             resolver,
		Logger:             logger,
	})

	return &Session{
		opts:     opts,
		resolver: resolver,
		builder:  builder,
		evidence: evidence.NewAggregator(),
		counts:   make(map[string]int),
		logger:   logger,
	}, nil
}

// Feed processes one utterance. Blank utterances are skipped.
func (s *Session) Feed(u transcript.Utterance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return ErrFrozen
	}
	text := strings.TrimSpace(u.Text)
	if text == "" {
		return nil
	}

	start := time.Now()
	tokens, err := s.opts.Tokenizer.Tokenize(text)
	s.opts.Metrics.Time(metrics.OpTokenize, start)
	if err != nil {
		return fmt.Errorf("tokenize utterance %d: %w", u.Index, err)
	}

	nouns := tokenize.Nouns(tokens, s.opts.Stopwords)
	emotions := s.emotions(tokens)

	start = time.Now()
	res := s.resolver.Resolve(nouns)
	s.opts.Metrics.Time(metrics.OpResolve, start)

	start = time.Now()
	s.builder.Ingest(u.Index, res.Entities, emotions)
	for _, e := range res.Entities {
		s.evidence.Record(e.Name, emotions, text)
	}
	s.opts.Metrics.Time(metrics.OpIngest, start)

	s.stats.Utterances++
	s.opts.Metrics.Add(metrics.CounterUtterances, 1)
	if res.Defaulted {
		s.stats.Defaulted++
		s.opts.Metrics.Add(metrics.CounterDefaulted, 1)
	}
	s.stats.Unresolved += len(res.Unresolved)
	s.opts.Metrics.Add(metrics.CounterUnresolved, int64(len(res.Unresolved)))

	s.logger.Debug("utterance",
		"index", u.Index,
		"line", u.Line,
		"nouns", nouns,
		"entities", entityNames(res.Entities),
		"defaulted", res.Defaulted,
		"emotions", emotions,
	)
	return nil
}

// emotions returns the distinct emotion words of an utterance in order and
// counts every occurrence.
func (s *Session) emotions(tokens []tokenize.Token) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, t := range tokens {
		if !s.opts.Lexicon.IsEvidence(t.Surface, s.opts.MinAbsPolarity) {
			continue
		}
		s.counts[t.Surface]++
		s.stats.Emotions++
		s.opts.Metrics.Add(metrics.CounterEmotions, 1)
		if _, ok := seen[t.Surface]; ok {
			continue
		}
		seen[t.Surface] = struct{}{}
		out = append(out, t.Surface)
	}
	return out
}

// Freeze closes the session and returns its result. Later Feed calls fail
// with ErrFrozen; Freeze itself may be called again.
func (s *Session) Freeze() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.frozen {
		s.frozen = true
		g := s.builder.Graph()
		s.logger.Info("analysis complete",
			"utterances", s.stats.Utterances,
			"nodes", g.NodeCount(),
			"edges", g.EdgeCount(),
			"defaulted", s.stats.Defaulted,
			"unresolved", s.stats.Unresolved,
		)
	}

	counts := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		counts[k] = v
	}
	return Result{
		Graph:    s.builder.Graph().Snapshot(s.builder.Center()),
		Evidence: s.evidence.All(),
		Counts:   counts,
		Cloud:    CloudData(counts),
		Stats:    s.stats,
	}
}

// Analyze runs a full pass over utterances.
func Analyze(ctx context.Context, utterances []transcript.Utterance, opts Options) (Result, error) {
	s, err := NewSession(opts)
	if err != nil {
		return Result{}, err
	}
	for _, u := range utterances {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := s.Feed(u); err != nil {
			return Result{}, err
		}
	}
	return s.Freeze(), nil
}

// CloudData converts emotion counts into word-cloud entries sorted by count
// descending, then by word.
func CloudData(counts map[string]int) []CloudDatum {
	out := make([]CloudDatum, 0, len(counts))
	for name, v := range counts {
		out = append(out, CloudDatum{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func entityNames(entities []resolve.Entity) []string {
	names := make([]string, len(entities))
	for i, e := range entities {
		names[i] = e.Name
	}
	return names
}
