package resolve

import "sort"

// RecencyMemory is a bounded event log of role mentions.
// Every mention pushes a new slot, so repeats of the same name are kept;
// once full, the oldest mention is evicted.
type RecencyMemory struct {
	buf   []string
	start int
	size  int
}

// NewRecencyMemory creates a memory holding the last k mentions.
// k below 1 is treated as 1.
func NewRecencyMemory(k int) *RecencyMemory {
	if k < 1 {
		k = 1
	}
	return &RecencyMemory{buf: make([]string, k)}
}

// Cap returns the window size K.
func (m *RecencyMemory) Cap() int {
	return len(m.buf)
}

// Len returns how many mentions are currently held.
func (m *RecencyMemory) Len() int {
	return m.size
}

// Push records a mention, evicting the oldest one when full.
func (m *RecencyMemory) Push(name string) {
	k := len(m.buf)
	if m.size < k {
		m.buf[(m.start+m.size)%k] = name
		m.size++
		return
	}
	m.buf[m.start] = name
	m.start = (m.start + 1) % k
}

// Last returns the most recent mention.
func (m *RecencyMemory) Last() (string, bool) {
	if m.size == 0 {
		return "", false
	}
	return m.buf[(m.start+m.size-1)%len(m.buf)], true
}

// Items returns the held mentions, oldest first.
func (m *RecencyMemory) Items() []string {
	items := make([]string, m.size)
	for i := range m.size {
		items[i] = m.buf[(m.start+i)%len(m.buf)]
	}
	return items
}

// Reset empties the memory, keeping its capacity.
func (m *RecencyMemory) Reset() {
	clear(m.buf)
	m.start = 0
	m.size = 0
}

// PronounMap maps pronoun tokens to the entity they currently stand for.
type PronounMap struct {
	m map[string]string
}

// NewPronounMap creates an empty pronoun map.
func NewPronounMap() *PronounMap {
	return &PronounMap{m: make(map[string]string)}
}

// Get returns the entity a pronoun is bound to.
func (p *PronounMap) Get(pronoun string) (string, bool) {
	v, ok := p.m[pronoun]
	return v, ok
}

// Set binds a pronoun, overwriting any previous binding.
func (p *PronounMap) Set(pronoun, entity string) {
	p.m[pronoun] = entity
}

// Len returns the number of bound pronouns.
func (p *PronounMap) Len() int {
	return len(p.m)
}

// Bindings returns a copy of the current bindings.
func (p *PronounMap) Bindings() map[string]string {
	out := make(map[string]string, len(p.m))
	for k, v := range p.m {
		out[k] = v
	}
	return out
}

// Reset removes every binding.
func (p *PronounMap) Reset() {
	clear(p.m)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
