package lang

import (
	"sort"
	"strings"
	"testing"
	"unicode/utf8"
)

// ownUnits lists, per active code, what only that code's merge group carries:
// top words of two or more characters for word profiles, single letters for
// letter-only ones. Units are sorted so texts grow deterministically.
func ownUnits(d *FrequencyDetector) map[string][]string {
	canonical := make(map[string]string)
	for _, r := range d.merge {
		for _, src := range r.sources {
			canonical[src] = r.canonical
		}
	}
	group := func(code string) string {
		if c, ok := canonical[code]; ok {
			return c
		}
		return code
	}
	ownedElsewhere := func(code string, has func(p *Profile) bool) bool {
		for i, other := range d.codes {
			if group(other) != group(code) && has(&d.profiles[i]) {
				return true
			}
		}
		return false
	}

	out := make(map[string][]string, len(d.codes))
	for i, code := range d.codes {
		p := &d.profiles[i]
		var units []string
		if len(p.TopWords) > 0 {
			for w := range p.TopWords {
				if utf8.RuneCountInString(w) < 2 {
					continue
				}
				if ownedElsewhere(code, func(q *Profile) bool { _, ok := q.TopWords[w]; return ok }) {
					continue
				}
				units = append(units, w)
			}
		} else {
			for r := range p.TopLetters {
				if ownedElsewhere(code, func(q *Profile) bool { _, ok := q.TopLetters[r]; return ok }) {
					continue
				}
				units = append(units, string(r))
			}
		}
		sort.Strings(units)
		out[code] = units
	}
	return out
}

// assertOwnVocabularyKeepsLead grows a text one own unit at a time for every
// language and checks that no language trailing it before a step is ahead of
// it after that step.
func assertOwnVocabularyKeepsLead(t *testing.T, d *FrequencyDetector) {
	t.Helper()
	canonical := make(map[string]string)
	for _, r := range d.merge {
		for _, src := range r.sources {
			canonical[src] = r.canonical
		}
	}

	for code, units := range ownUnits(d) {
		lead := code
		if c, ok := canonical[code]; ok {
			lead = c
		}
		var text []string
		var prev map[string]float64
		for _, u := range units {
			text = append(text, u)
			cur := d.Scores(strings.Join(text, " "))
			for other, v := range cur {
				if other == lead || prev == nil {
					continue
				}
				if prev[other] < prev[lead] && v > cur[lead] {
					t.Errorf("%s: adding %q let %s (%.3f) overtake %s (%.3f)", code, u, other, v, lead, cur[lead])
				}
			}
			prev = cur
		}
	}
}
