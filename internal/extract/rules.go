package extract

import (
	"github.com/cloudflare/ahocorasick"
)

// rule maps keywords to a result. A rule hits when any keyword occurs in the
// text, or every keyword when requireAll is set.
type rule[T any] struct {
	keywords   []string
	requireAll bool
	value      T
}

// table is an ordered, immutable rule list backed by one Aho-Corasick
// automaton over all of its keywords.
type table[T any] struct {
	rules      []rule[T]
	dictionary []string
	owners     [][]ruleRef
	matcher    *ahocorasick.Matcher
}

type ruleRef struct {
	rule    int
	keyword int
}

func newTable[T any](rules ...rule[T]) *table[T] {
	t := &table[T]{rules: rules}
	positions := make(map[string]int)
	for ri, r := range rules {
		for ki, kw := range r.keywords {
			pos, ok := positions[kw]
			if !ok {
				pos = len(t.dictionary)
				positions[kw] = pos
				t.dictionary = append(t.dictionary, kw)
				t.owners = append(t.owners, nil)
			}
			t.owners[pos] = append(t.owners[pos], ruleRef{rule: ri, keyword: ki})
		}
	}
	t.matcher = ahocorasick.NewStringMatcher(t.dictionary)
	return t
}

// hits reports, per rule, whether it matched the lowercased text.
func (t *table[T]) hits(text string) []bool {
	seen := make([][]bool, len(t.rules))
	for i, r := range t.rules {
		seen[i] = make([]bool, len(r.keywords))
	}
	for _, idx := range t.matcher.MatchThreadSafe([]byte(text)) {
		if idx < 0 || idx >= len(t.owners) {
			continue
		}
		for _, ref := range t.owners[idx] {
			seen[ref.rule][ref.keyword] = true
		}
	}

	out := make([]bool, len(t.rules))
	for i, r := range t.rules {
		out[i] = evaluate(seen[i], r.requireAll)
	}
	return out
}

func evaluate(found []bool, requireAll bool) bool {
	if len(found) == 0 {
		return false
	}
	for _, ok := range found {
		if ok && !requireAll {
			return true
		}
		if !ok && requireAll {
			return false
		}
	}
	return requireAll
}

// first returns the value of the first rule, in table order, that matches.
func (t *table[T]) first(text string) (T, bool) {
	for i, ok := range t.hits(text) {
		if ok {
			return t.rules[i].value, true
		}
	}
	var zero T
	return zero, false
}

// all returns the values of every matching rule in table order.
func (t *table[T]) all(text string) []T {
	out := make([]T, 0, len(t.rules))
	for i, ok := range t.hits(text) {
		if ok {
			out = append(out, t.rules[i].value)
		}
	}
	return out
}
