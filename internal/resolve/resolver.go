package resolve

import (
	"log/slog"
)

// EntityKind tags what a resolved entity is.
type EntityKind string

const (
	KindCenter     EntityKind = "center"
	KindPerson     EntityKind = "person"
	KindUnresolved EntityKind = "unresolved" // pronoun with no antecedent yet
)

// Entity is a resolved referent of an utterance.
type Entity struct {
	Name string     `json:"name"`
	Kind EntityKind `json:"kind"`
}

// Resolution is the outcome of resolving one utterance.
type Resolution struct {
	// Entities the utterance is about, in order of first occurrence.
	Entities []Entity
	// Defaulted is true when nothing resolved and Entities is {Center}.
	Defaulted bool
	// Unresolved lists pronouns that had no antecedent.
	Unresolved []string
}

// IsCenterOnly reports whether the utterance resolved to nothing but the Center.
func (r Resolution) IsCenterOnly() bool {
	for _, e := range r.Entities {
		if e.Kind != KindCenter {
			return false
		}
	}
	return true
}

// Config configures a Resolver.
type Config struct {
	Vocabulary Vocabulary
	// Window is the RecencyMemory capacity K.
	Window int
}

// DefaultConfig returns the default Korean vocabulary with a window of 3.
func DefaultConfig() Config {
	return Config{
		Vocabulary: DefaultVocabulary(),
		Window:     3,
	}
}

// Resolver resolves noun tokens to entities, carrying recency state from one
// utterance to the next. It is not safe for concurrent use; callers feed
// utterances strictly in transcript order.
type Resolver struct {
	vocab    Vocabulary
	classes  classifier
	recency  *RecencyMemory
	pronouns *PronounMap
	logger   *slog.Logger
}

// NewResolver creates a resolver with empty state.
func NewResolver(cfg Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		vocab:    cfg.Vocabulary,
		classes:  newClassifier(cfg.Vocabulary),
		recency:  NewRecencyMemory(cfg.Window),
		pronouns: NewPronounMap(),
		logger:   logger,
	}
}

// Center returns the center entity name.
func (r *Resolver) Center() string {
	return r.vocab.Center
}

// Recency exposes the recency memory (read it, don't mutate it).
func (r *Resolver) Recency() *RecencyMemory {
	return r.recency
}

// Pronouns exposes the pronoun map (read it, don't mutate it).
func (r *Resolver) Pronouns() *PronounMap {
	return r.pronouns
}

// RecentTarget returns the most recently mentioned role, if any.
func (r *Resolver) RecentTarget() (string, bool) {
	return r.recency.Last()
}

// Reset clears recency and pronoun state so the resolver can start a new transcript.
func (r *Resolver) Reset() {
	r.recency.Reset()
	r.pronouns.Reset()
}

// Resolve determines the entities an utterance is about from its noun tokens
// and updates recency state as a side effect.
func (r *Resolver) Resolve(nouns []string) Resolution {
	// Record role mentions first so pronouns later in the same utterance
	// already see them. Only the last role drives the pronoun map.
	var roles int
	for _, n := range nouns {
		if r.classes.classify(n) == classRole {
			r.recency.Push(n)
			roles++
		}
	}
	if roles > 0 {
		if last, ok := r.recency.Last(); ok {
			for _, p := range r.vocab.TrackingPronouns {
				r.pronouns.Set(p, last)
			}
		}
		for p, target := range r.vocab.FixedPronouns {
			r.pronouns.Set(p, target)
		}
	}

	var res Resolution
	seen := make(map[string]struct{})
	emit := func(e Entity) {
		if e.Name == "" {
			return
		}
		if _, ok := seen[e.Name]; ok {
			return
		}
		seen[e.Name] = struct{}{}
		res.Entities = append(res.Entities, e)
	}

	for _, n := range nouns {
		switch r.classes.classify(n) {
		case classRole:
			emit(Entity{Name: n, Kind: KindPerson})
		case classPronoun:
			target, ok := r.pronouns.Get(n)
			if !ok {
				res.Unresolved = append(res.Unresolved, n)
				emit(Entity{Name: n, Kind: KindUnresolved})
				continue
			}
			kind := KindPerson
			if target == r.vocab.Center {
				kind = KindCenter
			}
			emit(Entity{Name: target, Kind: kind})
		case classSelf:
			emit(Entity{Name: r.vocab.Center, Kind: KindCenter})
		}
	}

	if len(res.Entities) == 0 {
		res.Entities = []Entity{{Name: r.vocab.Center, Kind: KindCenter}}
		res.Defaulted = true
	}

	if len(res.Unresolved) > 0 {
		r.logger.Debug("pronoun without antecedent", "pronouns", res.Unresolved)
	}

	return res
}
