// Package tokenize turns utterance text into part-of-speech tagged tokens.
//
// Two adapters are provided: Korean, a rule-based particle stripper backed by a
// user dictionary, and Prose, which wraps the prose English tagger.
package tokenize

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/relmap/internal/lexicon"
)

// Category is the coarse part of speech of a token.
type Category string

const (
	Noun        Category = "Noun"
	Pronoun     Category = "Pronoun"
	Verb        Category = "Verb"
	Adjective   Category = "Adjective"
	Josa        Category = "Josa" // postposition / particle
	Punctuation Category = "Punctuation"
	Other       Category = "Other"
)

// Token is one morpheme with its category.
type Token struct {
	Surface  string   `json:"surface"`
	Category Category `json:"category"`
}

// Tokenizer splits text into tokens.
type Tokenizer interface {
	Tokenize(text string) ([]Token, error)
}

// Func adapts a plain function to the Tokenizer interface.
type Func func(text string) ([]Token, error)

// Tokenize calls f.
func (f Func) Tokenize(text string) ([]Token, error) {
	return f(text)
}

// Nouns returns the surfaces of noun and pronoun tokens in order, skipping
// stopwords.
func Nouns(tokens []Token, stopwords lexicon.Stopwords) []string {
	var out []string
	for _, t := range tokens {
		if t.Category != Noun && t.Category != Pronoun {
			continue
		}
		if stopwords.Contains(t.Surface) {
			continue
		}
		out = append(out, t.Surface)
	}
	return out
}

// Surfaces returns every token surface in order.
func Surfaces(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Surface
	}
	return out
}

// Kind names a tokenizer implementation.
type Kind string

const (
	KindKorean Kind = "korean"
	KindProse  Kind = "prose"
)

// ParseKind parses a tokenizer name.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindKorean:
		return KindKorean, nil
	case KindProse:
		return KindProse, nil
	default:
		return "", fmt.Errorf("unknown tokenizer %q (want korean or prose)", s)
	}
}

// New creates a tokenizer of the given kind. dictionary holds words that must
// be kept whole (roles, pronouns, lexicon entries).
func New(kind Kind, dictionary []string) (Tokenizer, error) {
	switch kind {
	case KindKorean, "":
		return NewKorean(dictionary), nil
	case KindProse:
		return NewProse(dictionary), nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", kind)
	}
}
