package lang

// Profile holds the frequency statistics of one language.
//
// TopWords maps lowercase tokens to a relative-frequency weight and TopLetters
// does the same for single characters. TopLettersTotal is a per-mille signal
// telling how much the language is identified by its letters; it classifies
// the language but never enters a score directly.
type Profile struct {
	TopWords        map[string]float64
	TopLetters      map[rune]float64
	TopLettersTotal float64
	NoASCII         bool
}

// LetterOnly reports whether the profile has no vocabulary table, as is the
// case for logographic scripts without word segmentation.
func (p Profile) LetterOnly() bool {
	return len(p.TopWords) == 0
}

// Degenerate reports whether the profile carries no signal at all.
func (p Profile) Degenerate() bool {
	return len(p.TopWords) == 0 && len(p.TopLetters) == 0
}

func (p Profile) clone() Profile {
	out := p
	out.TopWords = make(map[string]float64, len(p.TopWords))
	for w, v := range p.TopWords {
		out.TopWords[w] = v
	}
	return out
}

// Dataset is the loaded, read-only collection of profiles keyed by language code.
type Dataset map[string]Profile

// Codes returns the language codes of the dataset in no particular order.
func (ds Dataset) Codes() []string {
	out := make([]string, 0, len(ds))
	for code := range ds {
		out = append(out, code)
	}
	return out
}

// Fold describes how an auxiliary pseudo-profile (e.g. "code" or "misc") is
// folded into a real language at construction time.
type Fold struct {
	Target string
	Weight float64
}
