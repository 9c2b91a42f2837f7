// Package transcript extracts one speaker's utterances from a turn-labeled transcript.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// DefaultRole is the speaker whose lines are analyzed.
const DefaultRole = "내담자"

// maxLineSize bounds a single transcript line.
const maxLineSize = 1024 * 1024

// Utterance is one sentence spoken by the selected role.
type Utterance struct {
	Index int    `json:"index"` // position in the utterance stream
	Line  int    `json:"line"`  // 1-based transcript line where the sentence starts
	Role  string `json:"role"`
	Text  string `json:"text"`
}

// Options configures extraction.
type Options struct {
	// Role selects lines starting with "<Role> :".
	Role string
}

// DefaultOptions returns options for the client role.
func DefaultOptions() Options {
	return Options{Role: DefaultRole}
}

// Marker returns the line prefix for a role.
func Marker(role string) string {
	return role + " :"
}

// ReadFile extracts utterances from a transcript file.
func ReadFile(path string, opts Options) ([]Utterance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return Extract(f, opts)
}

// Extract keeps the lines of the selected role and splits their text into
// sentences. Text from consecutive role lines is joined with a space before
// splitting, so a sentence may continue onto the next line of the same role.
// Blank sentences are dropped.
func Extract(r io.Reader, opts Options) ([]Utterance, error) {
	if opts.Role == "" {
		opts.Role = DefaultRole
	}
	marker := Marker(opts.Role)

	sp := splitter{role: opts.Role}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if !strings.HasPrefix(line, marker) {
			continue
		}
		// Everything after the last marker is the utterance text.
		text := strings.TrimSpace(line[strings.LastIndex(line, marker)+len(marker):])
		if text == "" {
			continue
		}
		sp.feed(text, lineNo)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	sp.flush()
	return sp.out, nil
}

// splitter accumulates role text and cuts it into sentences.
type splitter struct {
	role    string
	current strings.Builder
	start   int
	out     []Utterance
}

func (s *splitter) feed(text string, line int) {
	if s.current.Len() > 0 {
		s.current.WriteRune(' ')
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if s.current.Len() == 0 {
			s.start = line
		}
		s.current.WriteRune(r)

		// A terminator ends the sentence when followed by space or end of text.
		// Runs like "?!" or "..." end only at their last rune.
		if isTerminator(r) && (i+1 >= len(runes) || unicode.IsSpace(runes[i+1])) {
			s.flush()
		}
	}
}

func (s *splitter) flush() {
	sentence := strings.TrimSpace(s.current.String())
	s.current.Reset()

	sentence = strings.TrimRightFunc(sentence, isTerminator)
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return
	}
	s.out = append(s.out, Utterance{
		Index: len(s.out),
		Line:  s.start,
		Role:  s.role,
		Text:  sentence,
	})
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
