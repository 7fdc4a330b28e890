package lang

import (
	"cmp"
	"slices"

	"github.com/sirupsen/logrus"
)

// DefaultMinimumRatio is the share of the top score a candidate must reach to
// stay in the result list.
const DefaultMinimumRatio = 0.8

type candidate struct {
	code  string
	score float64
}

// rank returns the positive scores sorted from best to worst. Equal scores
// are ordered by code so identical input always yields identical output.
func rank(scores map[string]float64) []candidate {
	out := make([]candidate, 0, len(scores))
	for code, s := range scores {
		if s > 0 {
			out = append(out, candidate{code: code, score: s})
		}
	}
	slices.SortFunc(out, func(a, b candidate) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.code, b.code)
	})
	return out
}

// selectLanguages applies the ratio threshold and, when groups is non-empty,
// keeps only the best member of each similar group.
func selectLanguages(scores map[string]float64, minimumRatio float64, groups [][]string, log *logrus.Entry) []string {
	ranked := rank(scores)
	if len(ranked) == 0 {
		return []string{}
	}

	floor := minimumRatio * ranked[0].score
	kept := ranked[:0]
	for _, c := range ranked {
		if c.score < floor {
			break
		}
		kept = append(kept, c)
	}

	drop := make(map[string]struct{})
	for _, group := range groups {
		members := toSet(group)
		winner := ""
		for _, c := range kept {
			if _, ok := members[c.code]; !ok {
				continue
			}
			if winner == "" {
				winner = c.code
				continue
			}
			drop[c.code] = struct{}{}
			if log != nil {
				log.WithFields(logrus.Fields{"kept": winner, "dropped": c.code}).
					Debug("similar language collapsed")
			}
		}
	}

	out := make([]string, 0, len(kept))
	for _, c := range kept {
		if _, ok := drop[c.code]; ok {
			continue
		}
		out = append(out, c.code)
	}
	return out
}
