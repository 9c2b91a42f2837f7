// Package resolve maps the nouns of an utterance onto the people it is about.
//
// Resolution is a bounded-recency heuristic: role nouns ("friend", "mother")
// are remembered in a short event log, recency-tracked pronouns point at the
// most recent role, and a few fixed pronouns are bound to a counterpart role.
// It is deliberately not general coreference resolution.
package resolve

// Default Korean vocabulary, matching the counselling transcripts the tool was
// built for.
const (
	DefaultCenter      = "내담자"
	DefaultCounterpart = "상담사"
)

// Vocabulary configures which noun tokens name people.
type Vocabulary struct {
	// Center is the entity the graph is organized around (the speaker).
	Center string `yaml:"center" json:"center"`
	// SelfTokens are literal tokens that refer to the Center.
	SelfTokens []string `yaml:"self_tokens" json:"self_tokens"`
	// Roles are person-role nouns that become entities and antecedents.
	Roles []string `yaml:"roles" json:"roles"`
	// TrackingPronouns resolve to the most recently mentioned role.
	TrackingPronouns []string `yaml:"tracking_pronouns" json:"tracking_pronouns"`
	// FixedPronouns are bound to a fixed entity, e.g. second person → counterpart.
	FixedPronouns map[string]string `yaml:"fixed_pronouns" json:"fixed_pronouns"`
}

// DefaultVocabulary returns the built-in Korean vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Center:     DefaultCenter,
		SelfTokens: []string{DefaultCenter},
		Roles: []string{
			"친구", "엄마", "아빠", "선생님", "남편", "아내",
			"형", "동생", "언니", "오빠", "누나",
		},
		TrackingPronouns: []string{"그", "그녀", "재"},
		FixedPronouns:    map[string]string{"너": DefaultCounterpart},
	}
}

// tokenClass is the partition a noun token falls into.
type tokenClass int

const (
	classOther tokenClass = iota
	classRole
	classPronoun
	classSelf
)

// classifier is a precomputed lookup over a Vocabulary.
type classifier struct {
	classes map[string]tokenClass
}

func newClassifier(v Vocabulary) classifier {
	c := classifier{classes: make(map[string]tokenClass)}

	// Later assignments win so a token listed both as a role and a pronoun
	// behaves as a role, and the self token beats both.
	for _, p := range v.TrackingPronouns {
		c.classes[p] = classPronoun
	}
	for p := range v.FixedPronouns {
		c.classes[p] = classPronoun
	}
	for _, r := range v.Roles {
		c.classes[r] = classRole
	}
	for _, s := range v.SelfTokens {
		c.classes[s] = classSelf
	}
	return c
}

func (c classifier) classify(token string) tokenClass {
	return c.classes[token]
}

// Words returns every token the vocabulary recognizes, in a stable order.
// Tokenizers use it as a user dictionary so these words are never split.
func (v Vocabulary) Words() []string {
	seen := make(map[string]struct{})
	var words []string
	add := func(w string) {
		if w == "" {
			return
		}
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}

	for _, s := range v.SelfTokens {
		add(s)
	}
	for _, r := range v.Roles {
		add(r)
	}
	for _, p := range v.TrackingPronouns {
		add(p)
	}
	for _, p := range sortedKeys(v.FixedPronouns) {
		add(p)
	}
	return words
}
