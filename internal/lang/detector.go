package lang

import (
	"sort"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector is what the service needs from a detection backend.
type Detector interface {
	Languages(text string) []string
	Scores(text string) map[string]float64
	// Detect scores text once and selects from those scores. A minimumRatio
	// outside (0, 1] uses the detector's configured ratio.
	Detect(text string, minimumRatio float64) Result
	SupportedLanguages() []string
}

// Result is the outcome of one detection: the selected languages, best
// first, and the post-merge score of every active language.
type Result struct {
	Languages []string
	Scores    map[string]float64
}

var (
	_ Detector = (*FrequencyDetector)(nil)
	_ Detector = (*linguaDetector)(nil)
)

// linguaDetector adapts lingua-go's n-gram models to Detector. It serves as
// an alternative backend and as a reference to compare frequency scores with.
type linguaDetector struct {
	detector     lingua.LanguageDetector
	langs        []lingua.Language
	minimumRatio float64
}

func NewLinguaDetector(minimumRatio float64, langs ...lingua.Language) *linguaDetector {
	if len(langs) == 0 {
		langs = []lingua.Language{
			lingua.English,
			lingua.Russian,
			lingua.German,
		}
	}
	if minimumRatio <= 0 || minimumRatio > 1 {
		minimumRatio = DefaultMinimumRatio
	}
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(langs...).
		WithMinimumRelativeDistance(0.0).
		Build()
	return &linguaDetector{detector: d, langs: langs, minimumRatio: minimumRatio}
}

// LinguaLanguages resolves ISO 639-1 codes to lingua languages, skipping the
// ones lingua does not know.
func LinguaLanguages(codes []string) []lingua.Language {
	out := make([]lingua.Language, 0, len(codes))
	for _, code := range codes {
		iso := lingua.GetIsoCode639_1FromValue(strings.ToUpper(strings.TrimSpace(code)))
		if iso == lingua.UnknownIsoCode639_1 {
			continue
		}
		if l := lingua.GetLanguageFromIsoCode639_1(iso); l != lingua.Unknown {
			out = append(out, l)
		}
	}
	return out
}

func (l *linguaDetector) Languages(text string) []string {
	return l.Detect(text, 0).Languages
}

func (l *linguaDetector) Detect(text string, minimumRatio float64) Result {
	if minimumRatio <= 0 || minimumRatio > 1 {
		minimumRatio = l.minimumRatio
	}
	scores := l.Scores(text)
	return Result{Languages: selectLanguages(scores, minimumRatio, nil, nil), Scores: scores}
}

func (l *linguaDetector) Scores(text string) map[string]float64 {
	out := make(map[string]float64, len(l.langs))
	for _, lg := range l.langs {
		out[isoCode(lg)] = 0
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return out
	}
	for _, cv := range l.detector.ComputeLanguageConfidenceValues(trimmed) {
		out[isoCode(cv.Language())] = cv.Value()
	}
	return out
}

func (l *linguaDetector) SupportedLanguages() []string {
	out := make([]string, 0, len(l.langs))
	for _, lg := range l.langs {
		out = append(out, isoCode(lg))
	}
	sort.Strings(out)
	return out
}

func isoCode(lg lingua.Language) string {
	iso := strings.ToLower(lg.IsoCode639_1().String())
	if iso != "" && iso != "unknown" {
		return iso
	}
	return strings.ToLower(lg.String())
}
