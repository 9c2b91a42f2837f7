package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/relmap/internal/config"
	"github.com/raphaelgruber/relmap/internal/export"
	"github.com/raphaelgruber/relmap/internal/graph"
	"github.com/raphaelgruber/relmap/internal/metrics"
)

const testTranscript = "내담자 : 나는 친구 때문에 슬펐다.\n" +
	"상담사 : 그랬군요.\n" +
	"내담자 : 그는 나를 무시했다.\n"

const testLexicon = `[
  {"word": "슬프다", "polarity": -0.6},
  {"word": "무시", "polarity": "-0.5"},
  {"word": "기쁘다", "polarity": 0.8}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(t *testing.T, lexiconPath string) config.Config {
	t.Helper()
	c := config.FromEnv()
	c.LexiconPath = lexiconPath
	c.LogFile = ""
	require.NoError(t, c.Validate())
	return c
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestAnalysisFlags_Apply(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, c config.Config)
		wantErr bool
	}{
		{
			name: "unset flags keep config",
			args: nil,
			check: func(t *testing.T, c config.Config) {
				assert.Equal(t, 3, c.Window)
				assert.Equal(t, "omit", c.Fallback)
				assert.Equal(t, "korean", c.Tokenizer)
			},
		},
		{
			name: "set flags override",
			args: []string{"--window", "5", "--fallback", "recent", "--unresolved-as-person", "--min-polarity", "0.3"},
			check: func(t *testing.T, c config.Config) {
				assert.Equal(t, 5, c.Window)
				assert.Equal(t, "recent", c.Fallback)
				assert.True(t, c.UnresolvedAsPerson)
				assert.InDelta(t, 0.3, c.MinPolarity, 1e-9)
			},
		},
		{name: "bad fallback", args: []string{"--fallback", "sideways"}, wantErr: true},
		{name: "zero window", args: []string{"--window", "0"}, wantErr: true},
		{name: "bad publish url", args: []string{"--publish", "not a url"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f analysisFlags
			cmd := &cobra.Command{Use: "test"}
			f.register(cmd)
			require.NoError(t, cmd.ParseFlags(tt.args))

			c := testConfig(t, "lexicon.json")
			err := f.apply(cmd, &c)
			if tt.wantErr {
				assert.True(t, errors.Is(err, config.ErrInvalidConfig), "err = %v", err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestPipeline_Run(t *testing.T) {
	c := testConfig(t, writeFile(t, "lexicon.json", testLexicon))
	transcriptPath := writeFile(t, "session.txt", testTranscript)

	p, err := newPipeline(c, discardLogger())
	require.NoError(t, err)

	res, err := p.run(context.Background(), transcriptPath)
	require.NoError(t, err)

	assert.True(t, res.Graph.HasEdge("내담자", "친구"))
	assert.True(t, res.Graph.HasEdge("친구", "슬프다"))
	assert.True(t, res.Graph.HasEdge("친구", "무시"))
	assert.Equal(t, map[string]int{"슬프다": 1, "무시": 1}, res.Counts)
	assert.Equal(t, 2, res.Stats.Utterances)

	snap := p.metrics.Snapshot()
	require.NotNil(t, snap.LexiconLoad)
	assert.Equal(t, int64(1), snap.LexiconLoad.Count)
	assert.Equal(t, int64(2), snap.Counters[metrics.CounterUtterances])

	// A second run starts from empty state and gives the same graph.
	again, err := p.run(context.Background(), transcriptPath)
	require.NoError(t, err)
	assert.Equal(t, res.Graph, again.Graph)
}

func TestPipeline_EmptyLexicon(t *testing.T) {
	c := testConfig(t, writeFile(t, "lexicon.json", "[]"))
	p, err := newPipeline(c, discardLogger())
	require.NoError(t, err)

	res, err := p.run(context.Background(), writeFile(t, "session.txt", testTranscript))
	require.NoError(t, err)
	assert.Empty(t, res.Counts)
}

func TestPipeline_Errors(t *testing.T) {
	t.Run("missing lexicon", func(t *testing.T) {
		c := testConfig(t, filepath.Join(t.TempDir(), "missing.json"))
		_, err := newPipeline(c, discardLogger())
		assert.Error(t, err)
	})

	t.Run("missing transcript", func(t *testing.T) {
		c := testConfig(t, writeFile(t, "lexicon.json", testLexicon))
		p, err := newPipeline(c, discardLogger())
		require.NoError(t, err)
		_, err = p.run(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	})
}

func TestRenderText(t *testing.T) {
	c := testConfig(t, writeFile(t, "lexicon.json", testLexicon))
	p, err := newPipeline(c, discardLogger())
	require.NoError(t, err)
	res, err := p.run(context.Background(), writeFile(t, "session.txt", testTranscript))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderText(&buf, res, export.Options{Evidence: true, Stats: true}, false))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "내담자"), "tree should start at the center:\n%s", out)
	for _, want := range []string{"친구", "슬프다 (-0.60)", "무시 (-0.50)", "Emotions", "Evidence", "그는 나를 무시했다", "utterances 2"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[", "plain output must not contain escape codes")
}

func TestRenderText_Empty(t *testing.T) {
	c := testConfig(t, writeFile(t, "lexicon.json", testLexicon))
	p, err := newPipeline(c, discardLogger())
	require.NoError(t, err)
	res, err := p.run(context.Background(), writeFile(t, "session.txt", "상담사 : 어떠세요?\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderText(&buf, res, export.Options{}, false))
	assert.Contains(t, buf.String(), "No relations found.")
}

func TestFocus(t *testing.T) {
	c := testConfig(t, writeFile(t, "lexicon.json", testLexicon))
	p, err := newPipeline(c, discardLogger())
	require.NoError(t, err)
	res, err := p.run(context.Background(), writeFile(t, "session.txt", testTranscript))
	require.NoError(t, err)

	got, err := focus(res, "슬프다", 1)
	require.NoError(t, err)
	assert.Len(t, got.Graph.Nodes, 2)
	assert.True(t, got.Graph.HasEdge("친구", "슬프다"))
	assert.Empty(t, got.Graph.Center)
	for _, e := range got.Evidence {
		assert.Equal(t, "친구", e.Entity)
	}
	assert.Equal(t, res.Counts, got.Counts)

	_, err = focus(res, "아빠", 1)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}

func TestCommands(t *testing.T) {
	t.Setenv("RELMAP_LOG_FILE", filepath.Join(t.TempDir(), "relmap.log"))
	t.Setenv("RELMAP_LOG_LEVEL", "ERROR")

	lexiconPath := writeFile(t, "lexicon.json", testLexicon)
	transcriptPath := writeFile(t, "session.txt", testTranscript)

	t.Run("analyze json", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"analyze", transcriptPath, "--lexicon", lexiconPath, "--format", "json", "--evidence"})
		require.NoError(t, rootCmd.ExecuteContext(context.Background()))

		var doc export.Document
		require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
		assert.Equal(t, "내담자", doc.Graph.Center)
		assert.True(t, doc.Graph.HasEdge("친구", "슬프다"))
		assert.NotEmpty(t, doc.Evidence)
	})

	t.Run("vocab", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"vocab"})
		require.NoError(t, rootCmd.ExecuteContext(context.Background()))

		assert.Contains(t, out.String(), "center: 내담자")
		assert.Contains(t, out.String(), "친구")
	})

	t.Run("path", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"path", transcriptPath, "내담자", "무시", "--lexicon", lexiconPath})
		require.NoError(t, rootCmd.ExecuteContext(context.Background()))
		assert.Equal(t, "내담자 → 친구 → 무시 (2 hops)\n", out.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"analyze", transcriptPath, "--format", "pdf"})
		assert.Error(t, rootCmd.ExecuteContext(context.Background()))
	})
}
