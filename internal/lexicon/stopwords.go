package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Stopwords is a set of words excluded from noun extraction.
type Stopwords map[string]struct{}

// NewStopwords builds a set from a word list.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// LoadStopwords reads a newline-separated stopword file.
func LoadStopwords(path string) (Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopwords: %w", err)
	}
	defer f.Close()
	return ParseStopwords(f)
}

// ParseStopwords reads one word per line, ignoring blank lines and # comments.
func ParseStopwords(r io.Reader) (Stopwords, error) {
	s := make(Stopwords)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stopwords: %w", err)
	}
	return s, nil
}

// Contains reports whether w is a stopword. A nil set contains nothing.
func (s Stopwords) Contains(w string) bool {
	_, ok := s[w]
	return ok
}
