// Package evidence keeps the per-entity trail behind each graph edge: which
// emotion words were seen with an entity and which utterances produced them.
package evidence

// Evidence is what was observed for one entity.
type Evidence struct {
	Entity   string   `json:"entity" yaml:"entity"`
	Emotions []string `json:"emotions" yaml:"emotions"`
	Contexts []string `json:"contexts" yaml:"contexts"`
}

type entry struct {
	emotions []string
	seen     map[string]struct{}
	contexts []string
}

// Aggregator accumulates evidence per entity. It is append-only.
type Aggregator struct {
	order   []string
	entries map[string]*entry
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{entries: make(map[string]*entry)}
}

// Record adds emotions (as a set union) and the source utterance text
// (as an ordered append) to an entity's evidence.
func (a *Aggregator) Record(entity string, emotions []string, text string) {
	e, ok := a.entries[entity]
	if !ok {
		e = &entry{seen: make(map[string]struct{})}
		a.entries[entity] = e
		a.order = append(a.order, entity)
	}

	for _, emo := range emotions {
		if _, dup := e.seen[emo]; dup {
			continue
		}
		e.seen[emo] = struct{}{}
		e.emotions = append(e.emotions, emo)
	}
	e.contexts = append(e.contexts, text)
}

// Get returns a copy of an entity's evidence.
func (a *Aggregator) Get(entity string) (Evidence, bool) {
	e, ok := a.entries[entity]
	if !ok {
		return Evidence{}, false
	}
	return Evidence{
		Entity:   entity,
		Emotions: append([]string{}, e.emotions...),
		Contexts: append([]string{}, e.contexts...),
	}, true
}

// All returns every entity's evidence in order of first record.
func (a *Aggregator) All() []Evidence {
	out := make([]Evidence, 0, len(a.order))
	for _, name := range a.order {
		ev, _ := a.Get(name)
		out = append(out, ev)
	}
	return out
}

// Len returns the number of entities with evidence.
func (a *Aggregator) Len() int {
	return len(a.order)
}
