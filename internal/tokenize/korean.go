package tokenize

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// particles are postpositions stripped from the end of a word, longest first.
var particles = sortByLength([]string{
	"으로부터", "에게서", "한테서", "으로서", "으로써", "이라도", "이랑",
	"으로", "에서", "보다", "께서", "에게", "한테", "까지", "부터", "마저", "조차",
	"마다", "라도", "이나", "든지", "처럼", "같이", "하고",
	"은", "는", "을", "를", "도", "와", "과", "랑", "께", "뿐",
	"이", "가", "의", "에", "만", "로",
})

// weakParticles also end many plain nouns ("아이", "나라"), so they are only
// stripped from words with at least two syllables left over.
var weakParticles = map[string]bool{
	"이": true, "가": true, "의": true, "에": true, "도": true, "만": true, "로": true,
}

// haEndings are conjugated forms of the light verb 하다.
var haEndings = sortByLength([]string{
	"했습니다", "했었다", "했어요", "했는데", "했지만", "합니다",
	"했다", "한다", "해요", "했어", "했네", "했군", "해서", "하다",
})

// predicateEndings are sentence-final endings whose stem is looked up as "<stem>다".
var predicateEndings = sortByLength([]string{
	"습니다", "습니까", "어요", "아요", "네요", "지요", "죠", "다", "요",
})

// Hangul syllable arithmetic.
const (
	hangulBase = 0xAC00
	hangulLast = 0xD7A3
	jungCount  = 21
	jongCount  = 28
	choIEung   = 11 // ㅇ
	jongBieup  = 17 // ㅂ
	jongSsang  = 20 // ㅆ
	jungA      = 0  // ㅏ
	jungEo     = 4  // ㅓ
	jungYeo    = 6  // ㅕ
	jungO      = 8  // ㅗ
	jungWa     = 9  // ㅘ
	jungU      = 13 // ㅜ
	jungWo     = 14 // ㅝ
	jungEu     = 18 // ㅡ
	jungI      = 20 // ㅣ
)

// vowelRestore maps the fused vowel of a conjugated stem back to the vowel of
// the dictionary form (슬펐 → 슬프, 느꼈 → 느끼, 봤 → 보).
var vowelRestore = map[int][]int{
	jungEo:  {jungEu},
	jungA:   {jungEu},
	jungYeo: {jungI},
	jungWa:  {jungO},
	jungWo:  {jungU},
}

// Korean is a rule-based Korean tokenizer. Words in its dictionary are kept
// whole; other words lose a trailing particle, 하다 compounds split into a
// noun and 하다, and predicates are reduced to their "-다" form, preferring a
// dictionary entry when one of the candidate forms is known.
type Korean struct {
	dict map[string]struct{}
}

// NewKorean creates a Korean tokenizer with a user dictionary.
func NewKorean(dictionary []string) *Korean {
	k := &Korean{dict: make(map[string]struct{}, len(dictionary))}
	for _, w := range dictionary {
		if w = strings.TrimSpace(w); w != "" {
			k.dict[w] = struct{}{}
		}
	}
	return k
}

// Tokenize splits text on whitespace and punctuation and analyzes each word.
func (k *Korean) Tokenize(text string) ([]Token, error) {
	var tokens []Token
	for _, word := range strings.FieldsFunc(text, isSeparator) {
		tokens = append(tokens, k.word(word)...)
	}
	return tokens, nil
}

func (k *Korean) known(w string) bool {
	_, ok := k.dict[w]
	return ok
}

func (k *Korean) word(w string) []Token {
	if k.known(w) {
		return []Token{{Surface: w, Category: dictCategory(w)}}
	}
	if !hasLetter(w) {
		return []Token{{Surface: w, Category: Other}}
	}

	for _, end := range haEndings {
		if stem, ok := strings.CutSuffix(w, end); ok && stem != "" {
			return append(k.noun(stem), Token{Surface: "하다", Category: Verb})
		}
	}

	if lemma, ok := k.lemma(w); ok {
		return []Token{{Surface: lemma, Category: Verb}}
	}

	return k.noun(w)
}

// noun splits a trailing particle off a noun phrase.
func (k *Korean) noun(w string) []Token {
	if k.known(w) {
		return []Token{{Surface: w, Category: Noun}}
	}

	// A particle after a dictionary word always splits.
	for _, p := range particles {
		if stem, ok := strings.CutSuffix(w, p); ok && stem != "" && k.known(stem) {
			return []Token{{Surface: stem, Category: Noun}, {Surface: p, Category: Josa}}
		}
	}

	for _, p := range particles {
		stem, ok := strings.CutSuffix(w, p)
		if !ok || stem == "" {
			continue
		}
		if weakParticles[p] && utf8.RuneCountInString(stem) < 2 {
			continue
		}
		return []Token{{Surface: stem, Category: Noun}, {Surface: p, Category: Josa}}
	}

	return []Token{{Surface: w, Category: Noun}}
}

// lemma reduces a conjugated predicate to its "-다" form.
func (k *Korean) lemma(w string) (string, bool) {
	var body string
	for _, end := range predicateEndings {
		if stem, ok := strings.CutSuffix(w, end); ok && stem != "" {
			body = stem
			break
		}
	}
	if body == "" {
		return "", false
	}

	candidates := stemCandidates(body)
	for _, c := range candidates {
		if k.known(c) {
			return c, true
		}
	}
	return candidates[0], true
}

// stemCandidates lists plausible dictionary forms for a predicate body, most
// likely first. Every candidate ends in 다.
func stemCandidates(body string) []string {
	runes := []rune(body)
	last := runes[len(runes)-1]
	prefix := string(runes[:len(runes)-1])

	cho, jung, jong, ok := decompose(last)
	if !ok {
		return []string{body + "다"}
	}

	var out []string
	add := func(s string) {
		for _, o := range out {
			if o == s {
				return
			}
		}
		out = append(out, s)
	}

	if jong == jongSsang {
		// 먹었 → 먹, 잡았 → 잡
		if cho == choIEung && (jung == jungEo || jung == jungA) && prefix != "" {
			add(prefix + "다")
		}
		// 외로웠 → 외롭
		if cho == choIEung && jung == jungWo && prefix != "" {
			if p, ok := addFinal(prefix, jongBieup); ok {
				add(p + "다")
			}
		}
		add(prefix + string(compose(cho, jung, 0)) + "다")
		for _, v := range vowelRestore[jung] {
			add(prefix + string(compose(cho, v, 0)) + "다")
		}
		return out
	}

	if jong == 0 {
		if cho == choIEung && jung == jungWo && prefix != "" {
			if p, ok := addFinal(prefix, jongBieup); ok {
				add(p + "다")
			}
		}
		for _, v := range vowelRestore[jung] {
			add(prefix + string(compose(cho, v, 0)) + "다")
		}
	}
	add(body + "다")
	return out
}

func decompose(r rune) (cho, jung, jong int, ok bool) {
	if r < hangulBase || r > hangulLast {
		return 0, 0, 0, false
	}
	n := int(r - hangulBase)
	return n / (jungCount * jongCount), (n % (jungCount * jongCount)) / jongCount, n % jongCount, true
}

func compose(cho, jung, jong int) rune {
	return rune(hangulBase + (cho*jungCount+jung)*jongCount + jong)
}

// addFinal adds a final consonant to the last syllable of s when it has none.
func addFinal(s string, jong int) (string, bool) {
	runes := []rune(s)
	cho, jung, cur, ok := decompose(runes[len(runes)-1])
	if !ok || cur != 0 {
		return "", false
	}
	runes[len(runes)-1] = compose(cho, jung, jong)
	return string(runes), true
}

func dictCategory(w string) Category {
	if strings.HasSuffix(w, "다") {
		return Verb
	}
	return Noun
}

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case ',', '.', '!', '?', '~', '(', ')', '[', ']', '"', '\'', '“', '”', '‘', '’', '·', '…', ';', ':':
		return true
	}
	return false
}

func hasLetter(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func sortByLength(words []string) []string {
	sort.SliceStable(words, func(i, j int) bool {
		return utf8.RuneCountInString(words[i]) > utf8.RuneCountInString(words[j])
	})
	return words
}
