// Package lexicon loads the sentiment lexicon and the stopword list.
package lexicon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrEmptyLexicon indicates the file decoded but held no usable records.
var ErrEmptyLexicon = errors.New("lexicon has no entries")

// record is one lexicon entry as stored on disk. Fields are kept raw so a bad
// polarity can be coerced instead of failing the whole load.
type record struct {
	Word     json.RawMessage `json:"word"`
	Polarity json.RawMessage `json:"polarity"`
}

// LoadStats summarizes a lexicon load.
type LoadStats struct {
	Records int // records in the file
	Loaded  int // distinct words kept
	Skipped int // records without a usable word
	Coerced int // polarities that were not numeric and became 0.0
}

// Lexicon maps words to polarity scores in [-1, 1].
type Lexicon struct {
	words map[string]float64
}

// New creates a lexicon from a word → polarity map.
func New(words map[string]float64) *Lexicon {
	l := &Lexicon{words: make(map[string]float64, len(words))}
	for w, p := range words {
		l.words[w] = p
	}
	return l
}

// Load reads a JSON lexicon file.
func Load(path string) (*Lexicon, LoadStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("read lexicon: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a JSON array of {"word", "polarity"} records.
// Malformed polarities are coerced to 0.0; records without a word are skipped.
// Duplicate words keep the last value.
func Parse(r io.Reader) (*Lexicon, LoadStats, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, LoadStats{}, fmt.Errorf("decode lexicon: %w", err)
	}

	stats := LoadStats{Records: len(records)}
	words := make(map[string]float64, len(records))
	for _, rec := range records {
		word, ok := decodeWord(rec.Word)
		if !ok {
			stats.Skipped++
			continue
		}
		p, ok := coercePolarity(rec.Polarity)
		if !ok {
			stats.Coerced++
		}
		words[word] = p
	}
	stats.Loaded = len(words)

	l := &Lexicon{words: words}
	if len(words) == 0 {
		return l, stats, ErrEmptyLexicon
	}
	return l, stats, nil
}

func decodeWord(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// coercePolarity accepts a JSON number or a numeric string. Anything else
// yields 0.0 and false.
func coercePolarity(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return clamp(f), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) {
			return clamp(f), true
		}
	}
	return 0, false
}

func clamp(f float64) float64 {
	return math.Max(-1, math.Min(1, f))
}

// Polarity returns the score for a word.
func (l *Lexicon) Polarity(word string) (float64, bool) {
	p, ok := l.words[word]
	return p, ok
}

// Contains reports whether a word is in the lexicon.
func (l *Lexicon) Contains(word string) bool {
	_, ok := l.words[word]
	return ok
}

// IsEvidence reports whether a word counts as emotion evidence: it must be in
// the lexicon with an absolute polarity of at least minAbs.
func (l *Lexicon) IsEvidence(word string, minAbs float64) bool {
	p, ok := l.words[word]
	if !ok {
		return false
	}
	return math.Abs(p) >= minAbs
}

// Words returns every word in sorted order.
func (l *Lexicon) Words() []string {
	words := make([]string, 0, len(l.words))
	for w := range l.words {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Len returns the number of words.
func (l *Lexicon) Len() int {
	return len(l.words)
}
