package lang

import (
	"slices"
	"sort"

	"github.com/sirupsen/logrus"
)

// DefaultMergeRules folds script and alphabet variants into one language.
func DefaultMergeRules() map[string][]string {
	return map[string][]string{
		"zh": {"zh", "zhs", "zht"},
		"bn": {"bn", "bnr"},
		"hi": {"hi", "hir"},
	}
}

// DefaultDatasetMerge folds the auxiliary corpora into English.
func DefaultDatasetMerge() map[string]Fold {
	return map[string]Fold{
		"code": {Target: "en", Weight: 0.5},
		"misc": {Target: "en", Weight: 0.1},
	}
}

// mergeVariants collapses variant scores into their canonical code, keeping
// the strongest variant.
func mergeVariants(scores map[string]float64, rules []mergeRule) {
	for _, rule := range rules {
		best, found := 0.0, false
		for _, src := range rule.sources {
			v, ok := scores[src]
			if !ok {
				continue
			}
			if !found || v > best {
				best = v
			}
			found = true
		}
		if !found {
			continue
		}
		for _, src := range rule.sources {
			if src != rule.canonical {
				delete(scores, src)
			}
		}
		scores[rule.canonical] = best
	}
}

type mergeRule struct {
	canonical string
	sources   []string
}

// compileMergeRules keeps only the sources present in the active set and
// orders rules by canonical code so merging is deterministic. An active
// canonical code always competes with its variants, listed or not.
func compileMergeRules(rules map[string][]string, active map[string]struct{}, log *logrus.Entry) []mergeRule {
	out := make([]mergeRule, 0, len(rules))
	for canonical, sources := range rules {
		r := mergeRule{canonical: canonical}
		if _, ok := active[canonical]; ok && !slices.Contains(sources, canonical) {
			r.sources = append(r.sources, canonical)
		}
		for _, src := range sources {
			if _, ok := active[src]; !ok {
				log.WithFields(logrus.Fields{"canonical": canonical, "source": src}).
					Debug("merge source not in dataset, skipped")
				continue
			}
			r.sources = append(r.sources, src)
		}
		if len(r.sources) == 0 {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].canonical < out[j].canonical })
	return out
}

// foldDatasets merges the word tables of auxiliary profiles into their target
// and drops them from the working set. The target's word table is cloned
// first; the caller's Dataset is never written to.
func foldDatasets(profiles map[string]Profile, folds map[string]Fold, log *logrus.Entry) {
	sources := make([]string, 0, len(folds))
	for src := range folds {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	cloned := make(map[string]bool)
	for _, src := range sources {
		f := folds[src]
		aux, ok := profiles[src]
		if !ok {
			log.WithField("source", src).Debug("dataset fold source missing, skipped")
			continue
		}
		target, ok := profiles[f.Target]
		if !ok {
			log.WithFields(logrus.Fields{"source": src, "target": f.Target}).
				Debug("dataset fold target missing, skipped")
			continue
		}
		if !cloned[f.Target] {
			target = target.clone()
			cloned[f.Target] = true
		}
		for word, w := range aux.TopWords {
			target.TopWords[word] += w * f.Weight
		}
		profiles[f.Target] = target
		delete(profiles, src)
		log.WithFields(logrus.Fields{"source": src, "target": f.Target, "words": len(aux.TopWords)}).
			Debug("dataset folded")
	}
}
