package resolve

import (
	"reflect"
	"testing"
)

func names(entities []Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Name
	}
	return out
}

func TestRecencyMemory_EvictsOldest(t *testing.T) {
	m := NewRecencyMemory(3)
	for _, n := range []string{"a", "b", "c", "d"} {
		m.Push(n)
	}

	if got, want := m.Items(), []string{"b", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
	if last, ok := m.Last(); !ok || last != "d" {
		t.Errorf("Last() = %q, %v, want %q, true", last, ok, "d")
	}
}

func TestRecencyMemory_RepeatsAreEvents(t *testing.T) {
	m := NewRecencyMemory(3)
	m.Push("친구")
	m.Push("친구")
	m.Push("엄마")

	if got, want := m.Items(), []string{"친구", "친구", "엄마"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
}

func TestRecencyMemory_ClampsCapacity(t *testing.T) {
	m := NewRecencyMemory(0)
	if m.Cap() != 1 {
		t.Fatalf("Cap() = %d, want 1", m.Cap())
	}
	m.Push("a")
	m.Push("b")
	if got := m.Items(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Items() = %v, want [b]", got)
	}

	m.Reset()
	if _, ok := m.Last(); ok || m.Len() != 0 {
		t.Errorf("after Reset: Len() = %d, Last ok = %v", m.Len(), ok)
	}
}

func TestResolve_Partitions(t *testing.T) {
	tests := []struct {
		name      string
		nouns     []string
		want      []string
		wantKind  []EntityKind
		defaulted bool
	}{
		{
			name:     "role noun",
			nouns:    []string{"나", "친구", "때문"},
			want:     []string{"친구"},
			wantKind: []EntityKind{KindPerson},
		},
		{
			name:     "self token",
			nouns:    []string{"내담자", "오늘"},
			want:     []string{DefaultCenter},
			wantKind: []EntityKind{KindCenter},
		},
		{
			name:      "nothing resolvable",
			nouns:     []string{"오늘", "날씨"},
			want:      []string{DefaultCenter},
			wantKind:  []EntityKind{KindCenter},
			defaulted: true,
		},
		{
			name:      "no tokens",
			nouns:     nil,
			want:      []string{DefaultCenter},
			wantKind:  []EntityKind{KindCenter},
			defaulted: true,
		},
		{
			name:     "duplicates collapse",
			nouns:    []string{"엄마", "아빠", "엄마"},
			want:     []string{"엄마", "아빠"},
			wantKind: []EntityKind{KindPerson, KindPerson},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(DefaultConfig(), nil)
			res := r.Resolve(tt.nouns)

			if got := names(res.Entities); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() entities = %v, want %v", got, tt.want)
			}
			for i, e := range res.Entities {
				if e.Kind != tt.wantKind[i] {
					t.Errorf("entity[%d].Kind = %q, want %q", i, e.Kind, tt.wantKind[i])
				}
			}
			if res.Defaulted != tt.defaulted {
				t.Errorf("Defaulted = %v, want %v", res.Defaulted, tt.defaulted)
			}
		})
	}
}

func TestResolve_PronounFollowsLastRole(t *testing.T) {
	r := NewResolver(DefaultConfig(), nil)

	r.Resolve([]string{"친구"})
	res := r.Resolve([]string{"그", "나"})
	if got := names(res.Entities); !reflect.DeepEqual(got, []string{"친구"}) {
		t.Fatalf("Resolve(그) = %v, want [친구]", got)
	}

	// Multiple roles in one utterance: the last one wins.
	r.Resolve([]string{"엄마", "아빠"})
	res = r.Resolve([]string{"그녀"})
	if got := names(res.Entities); !reflect.DeepEqual(got, []string{"아빠"}) {
		t.Errorf("Resolve(그녀) = %v, want [아빠]", got)
	}
}

func TestResolve_RecencyCorrectness(t *testing.T) {
	// However often earlier entities repeat, the pronoun resolves to the latest mention.
	mentions := []string{"엄마", "엄마", "엄마", "친구", "엄마", "엄마", "형"}

	for _, window := range []int{1, 3, 10} {
		r := NewResolver(Config{Vocabulary: DefaultVocabulary(), Window: window}, nil)
		for i, m := range mentions {
			r.Resolve([]string{m})
			res := r.Resolve([]string{"그"})
			if got := names(res.Entities); !reflect.DeepEqual(got, []string{mentions[i]}) {
				t.Errorf("window=%d after %v: Resolve(그) = %v, want [%s]", window, mentions[:i+1], got, mentions[i])
			}
		}
	}
}

func TestResolve_SameUtteranceAntecedent(t *testing.T) {
	r := NewResolver(DefaultConfig(), nil)

	// The pronoun precedes the role in token order but roles are pushed first.
	res := r.Resolve([]string{"그", "친구"})
	if got := names(res.Entities); !reflect.DeepEqual(got, []string{"친구"}) {
		t.Errorf("Resolve() = %v, want [친구]", got)
	}
}

func TestResolve_UnmappedPronounIsLiteral(t *testing.T) {
	r := NewResolver(DefaultConfig(), nil)

	res := r.Resolve([]string{"그"})
	if len(res.Entities) != 1 {
		t.Fatalf("Resolve() = %v, want one entity", res.Entities)
	}
	if res.Entities[0] != (Entity{Name: "그", Kind: KindUnresolved}) {
		t.Errorf("Resolve() = %+v, want literal unresolved 그", res.Entities[0])
	}
	if !reflect.DeepEqual(res.Unresolved, []string{"그"}) {
		t.Errorf("Unresolved = %v, want [그]", res.Unresolved)
	}
	if res.Defaulted {
		t.Error("Defaulted = true, want false")
	}
}

func TestResolve_FixedBindingNeedsRoleFirst(t *testing.T) {
	r := NewResolver(DefaultConfig(), nil)

	res := r.Resolve([]string{"너"})
	if res.Entities[0].Kind != KindUnresolved {
		t.Errorf("before any role: 너 kind = %q, want unresolved", res.Entities[0].Kind)
	}

	r.Resolve([]string{"선생님"})
	res = r.Resolve([]string{"너"})
	if got := names(res.Entities); !reflect.DeepEqual(got, []string{DefaultCounterpart}) {
		t.Errorf("after role: Resolve(너) = %v, want [%s]", got, DefaultCounterpart)
	}
}

func TestResolve_Reset(t *testing.T) {
	r := NewResolver(DefaultConfig(), nil)
	r.Resolve([]string{"친구"})
	r.Reset()

	if r.Recency().Len() != 0 || r.Pronouns().Len() != 0 {
		t.Fatalf("Reset() left state: recency=%d pronouns=%d", r.Recency().Len(), r.Pronouns().Len())
	}
	res := r.Resolve([]string{"그"})
	if res.Entities[0].Kind != KindUnresolved {
		t.Errorf("after Reset: kind = %q, want unresolved", res.Entities[0].Kind)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	script := [][]string{
		{"그"}, {"친구", "엄마"}, {"그녀", "너"}, {"오늘"}, {"내담자", "형"}, {"재"},
	}
	run := func() [][]Entity {
		r := NewResolver(DefaultConfig(), nil)
		var out [][]Entity
		for _, nouns := range script {
			out = append(out, r.Resolve(nouns).Entities)
		}
		return out
	}

	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Errorf("two runs differ:\n%v\n%v", a, b)
	}
}

func TestVocabularyWords(t *testing.T) {
	v := Vocabulary{
		Center:           "me",
		SelfTokens:       []string{"me"},
		Roles:            []string{"friend", "me"},
		TrackingPronouns: []string{"he"},
		FixedPronouns:    map[string]string{"you": "therapist", "ya": "therapist"},
	}

	want := []string{"me", "friend", "he", "ya", "you"}
	if got := v.Words(); !reflect.DeepEqual(got, want) {
		t.Errorf("Words() = %v, want %v", got, want)
	}
}
