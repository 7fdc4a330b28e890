package lang

import (
	"unicode/utf8"
)

// Scoring constants. The letter-ratio tiers are empirically tuned; only their
// ordering matters: stronger letter evidence earns a strictly larger bonus.
const (
	// maxOccurrences is how many times one distinct token may score.
	maxOccurrences = 2

	// letterOnlyScale lifts letter-only scores into the range of word scores.
	letterOnlyScale = 100.0

	// maxLetterWordLength caps the length factor of a letter-bearing word.
	maxLetterWordLength = 4

	fullBonusRatio    = 0.5
	halfBonusRatio    = 0.3
	quarterBonusRatio = 0.2

	// sparseLetterWords is the unmatched-tokens-per-letter-word ratio above
	// which missing letters count against a letter-driven language.
	sparseLetterWords = 10.0
)

// languageTraits is the per-language view of the calibration, resolved once at
// construction.
type languageTraits struct {
	lettersOnly  bool
	letterDriven bool
	compact      bool
	noASCII      bool
}

// scoredTokens applies the occurrence cap. The cap is identical for every
// language so it is computed once per call.
func scoredTokens(tokens []string) []string {
	seen := make(map[string]int, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if seen[tok] >= maxOccurrences {
			continue
		}
		seen[tok]++
		out = append(out, tok)
	}
	return out
}

// scoreLanguage computes the raw score of one profile. It reads only its own
// profile and the shared, read-only token slices.
func scoreLanguage(p *Profile, t languageTraits, cal *Calibration, tokens []string, totalTokens int) float64 {
	if p.Degenerate() || totalTokens == 0 {
		return 0
	}
	if t.lettersOnly || p.LetterOnly() {
		return scoreLetters(p, t, cal, tokens)
	}
	return scoreWords(p, t, cal, tokens, totalTokens)
}

func scoreWords(p *Profile, t languageTraits, cal *Calibration, tokens []string, totalTokens int) float64 {
	var (
		raw     float64
		matched int
		ev      letterEvidence
	)
	collect := t.letterDriven && len(p.TopLetters) > 0 && p.TopLettersTotal >= cal.LetterRatioFloor

	for _, tok := range tokens {
		n := utf8.RuneCountInString(tok)
		if n >= 2 {
			if w, ok := p.TopWords[tok]; ok {
				l := float64(n - 1)
				raw += w * l * l
				matched++
				if collect {
					ev.totalLetters += n
				}
				continue
			}
		}
		if collect {
			ev.add(p, t, tok)
		}
	}

	score := raw * float64(matched*matched) / float64(totalTokens)
	if collect {
		score += ev.adjustment(p.TopLettersTotal)
	}
	return score
}

// letterEvidence accumulates characteristic-letter hits over the tokens that
// did not match a top word.
type letterEvidence struct {
	totalLetters   int
	matchedLetters int
	letterWords    int
	matchedWords   int
	score          float64
}

func (e *letterEvidence) add(p *Profile, t languageTraits, tok string) {
	if t.noASCII {
		tok = stripASCII(tok)
	}
	n := utf8.RuneCountInString(tok)
	if n == 0 {
		return
	}
	e.totalLetters += n
	e.letterWords++

	var best float64
	for _, r := range tok {
		if v := p.TopLetters[r]; v > 0 {
			best = max(best, v)
			e.matchedLetters++
		}
	}
	if best > 0 {
		l := float64(min(maxLetterWordLength, n-1))
		e.score += best * l * l
		e.matchedWords++
	}
}

// adjustment turns the evidence into a bonus or penalty relative to the
// expected per-mille share of characteristic letters.
func (e *letterEvidence) adjustment(expected float64) float64 {
	if e.totalLetters == 0 || expected <= 0 {
		return 0
	}
	seen := float64(e.matchedLetters) / float64(e.totalLetters) * 1000
	bonus := e.score * float64(e.matchedLetters) / float64(e.totalLetters)

	switch {
	case seen >= expected*fullBonusRatio:
		return bonus
	case seen >= expected*halfBonusRatio:
		return bonus / 2
	case seen >= expected*quarterBonusRatio:
		return bonus / 4
	}
	if e.matchedWords == 0 || float64(e.letterWords)/float64(e.matchedWords) > sparseLetterWords {
		return -expected * float64(e.totalLetters) / 1000
	}
	return 0
}

func scoreLetters(p *Profile, t languageTraits, cal *Calibration, tokens []string) float64 {
	var (
		score   float64
		matched int
		total   int
	)
	for _, tok := range tokens {
		if t.noASCII {
			tok = stripASCII(tok)
		}
		for _, r := range tok {
			total++
			if v := p.TopLetters[r]; v > 0 {
				score += v
				matched++
			}
		}
	}
	if total == 0 {
		return 0
	}

	final := score * float64(matched) / float64(total) * letterOnlyScale
	if t.compact {
		final *= cal.CompactBonus
	}
	return final
}
