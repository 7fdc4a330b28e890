package lang

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyDataset    = errors.New("lang: dataset has no profiles")
	ErrUnknownLanguage = errors.New("lang: unknown language")
)

// Options configures a FrequencyDetector. The zero value activates every
// dataset language with no merging, no folding and no similar-language
// collapsing; DefaultOptions returns the shipped configuration.
type Options struct {
	// Languages restricts the active set. An empty list activates every
	// dataset code.
	Languages []string
	// Merge maps a canonical code to the variant codes folded into it.
	Merge map[string][]string
	// DatasetMerge folds auxiliary pseudo-profiles into a real language.
	DatasetMerge map[string]Fold
	// Similar enables collapsing of mutually confusable languages.
	Similar bool
	// MinimumRatio defaults to DefaultMinimumRatio when zero.
	MinimumRatio float64
	Calibration  Calibration
	// Parallel scores languages concurrently within one call.
	Parallel bool
	Debug    bool
	Logger   *logrus.Entry
}

// DefaultOptions returns the merge rules, dataset folds, calibration and
// threshold used by the service.
func DefaultOptions() Options {
	return Options{
		Merge:        DefaultMergeRules(),
		DatasetMerge: DefaultDatasetMerge(),
		Similar:      true,
		MinimumRatio: DefaultMinimumRatio,
		Calibration:  DefaultCalibration(),
	}
}

// FrequencyDetector scores text against per-language frequency profiles.
//
// A detector owns its derived profile set, built once from the dataset it was
// given, and never mutates it afterwards. It is safe for concurrent use.
type FrequencyDetector struct {
	codes    []string
	profiles []Profile
	traits   []languageTraits

	merge        []mergeRule
	similar      [][]string
	minimumRatio float64
	calibration  Calibration
	parallel     bool
	debug        bool
	log          *logrus.Entry
}

// NewFrequencyDetector derives a detector from ds. The dataset is treated as
// an immutable snapshot: folding writes to cloned tables only.
func NewFrequencyDetector(ds Dataset, opts Options) (*FrequencyDetector, error) {
	if len(ds) == 0 {
		return nil, ErrEmptyDataset
	}
	ratio := opts.MinimumRatio
	if ratio == 0 {
		ratio = DefaultMinimumRatio
	}
	if ratio < 0 || ratio > 1 {
		return nil, fmt.Errorf("lang: minimum ratio %v outside (0, 1]", ratio)
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "detector")

	working := make(map[string]Profile, len(ds))
	if len(opts.Languages) == 0 {
		for code, p := range ds {
			working[code] = p
		}
	} else {
		for _, code := range opts.Languages {
			p, ok := ds[code]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
			}
			working[code] = p
		}
	}

	foldDatasets(working, opts.DatasetMerge, log)

	cal := opts.Calibration.withDefaults()
	d := &FrequencyDetector{
		minimumRatio: ratio,
		calibration:  cal,
		parallel:     opts.Parallel,
		debug:        opts.Debug,
		log:          log,
	}

	d.codes = make([]string, 0, len(working))
	for code := range working {
		d.codes = append(d.codes, code)
	}
	sort.Strings(d.codes)

	lettersOnly := toSet(cal.LettersOnly)
	letterDriven := toSet(cal.LetterDriven)
	compact := toSet(cal.Compact)
	noASCII := toSet(cal.NoASCII)
	d.profiles = make([]Profile, len(d.codes))
	d.traits = make([]languageTraits, len(d.codes))
	for i, code := range d.codes {
		p := working[code]
		d.profiles[i] = p
		_, lo := lettersOnly[code]
		_, ld := letterDriven[code]
		_, cp := compact[code]
		_, na := noASCII[code]
		d.traits[i] = languageTraits{
			lettersOnly:  lo,
			letterDriven: ld,
			compact:      cp,
			noASCII:      na || p.NoASCII,
		}
	}

	d.merge = compileMergeRules(opts.Merge, toSet(d.codes), log)
	if opts.Similar {
		d.similar = cal.Similar
	}

	log.WithFields(logrus.Fields{
		"languages":   len(d.codes),
		"merge_rules": len(d.merge),
		"similar":     opts.Similar,
	}).Info("language detector ready")
	return d, nil
}

// Languages returns the detected languages, most confident first, using the
// configured minimum ratio. An empty slice means no language was detected.
func (d *FrequencyDetector) Languages(text string) []string {
	return d.LanguagesWithRatio(text, d.minimumRatio)
}

// LanguagesWithRatio is Languages with an explicit minimum ratio.
func (d *FrequencyDetector) LanguagesWithRatio(text string, minimumRatio float64) []string {
	return d.Detect(text, minimumRatio).Languages
}

// Detect returns the selected languages together with the scores they were
// selected from. A ratio outside (0, 1] falls back to the configured one.
func (d *FrequencyDetector) Detect(text string, minimumRatio float64) Result {
	if minimumRatio <= 0 || minimumRatio > 1 {
		minimumRatio = d.minimumRatio
	}
	scores := d.Scores(text)
	return Result{
		Languages: selectLanguages(scores, minimumRatio, d.similar, d.debugLog()),
		Scores:    scores,
	}
}

// Scores returns the post-merge score of every active language, including
// non-positive ones.
func (d *FrequencyDetector) Scores(text string) map[string]float64 {
	tokens := Tokenize(text)
	scored := scoredTokens(tokens)

	values := make([]float64, len(d.codes))
	if d.parallel && len(tokens) > 0 {
		var wg sync.WaitGroup
		wg.Add(len(d.codes))
		for i := range d.codes {
			go func(i int) {
				defer wg.Done()
				values[i] = scoreLanguage(&d.profiles[i], d.traits[i], &d.calibration, scored, len(tokens))
			}(i)
		}
		wg.Wait()
	} else {
		for i := range d.codes {
			values[i] = scoreLanguage(&d.profiles[i], d.traits[i], &d.calibration, scored, len(tokens))
		}
	}

	scores := make(map[string]float64, len(d.codes))
	for i, code := range d.codes {
		scores[code] = values[i]
	}
	mergeVariants(scores, d.merge)

	if d.debug {
		d.log.WithFields(logrus.Fields{"tokens": len(tokens), "scored": len(scored)}).Debug("text scored")
	}
	return scores
}

// SupportedLanguages lists the codes results can carry: active languages with
// merged variants replaced by their canonical code.
func (d *FrequencyDetector) SupportedLanguages() []string {
	set := toSet(d.codes)
	for _, rule := range d.merge {
		for _, src := range rule.sources {
			delete(set, src)
		}
		set[rule.canonical] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for code := range set {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func (d *FrequencyDetector) debugLog() *logrus.Entry {
	if d.debug {
		return d.log
	}
	return nil
}
