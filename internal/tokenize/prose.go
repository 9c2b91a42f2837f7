package tokenize

import (
	"fmt"
	"strings"

	"github.com/tsawler/prose/v3"
)

// Prose tokenizes English text with the prose part-of-speech tagger.
// Surfaces are lowercased except for proper nouns, and words in the user
// dictionary are always tagged as nouns so roles and pronouns reach the
// resolver.
type Prose struct {
	dict map[string]struct{}
}

// NewProse creates an English tokenizer with a user dictionary.
func NewProse(dictionary []string) *Prose {
	p := &Prose{dict: make(map[string]struct{}, len(dictionary))}
	for _, w := range dictionary {
		if w = strings.TrimSpace(w); w != "" {
			p.dict[strings.ToLower(w)] = struct{}{}
		}
	}
	return p
}

// Tokenize tags text and maps Penn Treebank tags onto categories.
func (p *Prose) Tokenize(text string) ([]Token, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose tokenize: %w", err)
	}

	var tokens []Token
	for _, tok := range doc.Tokens() {
		cat := proseCategory(tok.Tag)
		surface := tok.Text
		if cat != Noun || !strings.HasPrefix(tok.Tag, "NNP") {
			surface = strings.ToLower(surface)
		}
		if _, ok := p.dict[strings.ToLower(tok.Text)]; ok {
			surface = strings.ToLower(tok.Text)
			if cat != Pronoun {
				cat = Noun
			}
		}
		tokens = append(tokens, Token{Surface: surface, Category: cat})
	}
	return tokens, nil
}

// proseCategory maps a Penn Treebank tag onto a Category.
func proseCategory(tag string) Category {
	switch {
	case strings.HasPrefix(tag, "NN"):
		return Noun
	case strings.HasPrefix(tag, "PRP"), tag == "WP", tag == "WP$":
		return Pronoun
	case strings.HasPrefix(tag, "VB"), tag == "MD":
		return Verb
	case strings.HasPrefix(tag, "JJ"), strings.HasPrefix(tag, "RB"):
		return Adjective
	case tag == "IN", tag == "TO", tag == "POS", tag == "RP":
		return Josa
	case tag == ".", tag == ",", tag == ":", tag == "``", tag == "''",
		tag == "(", tag == ")", tag == "-LRB-", tag == "-RRB-", tag == "#", tag == "$":
		return Punctuation
	default:
		return Other
	}
}
