package lang

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxTokens bounds the number of tokens scored per call. Longer inputs are
// judged on their first MaxTokens tokens only.
const MaxTokens = 2048

var (
	reURL = regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.\-]*://\S+`)

	// font test strings and filler left behind by obfuscated or templated text
	reGlyphNoise = regexp.MustCompile(`(?i)mmmwwllii0(?:fi|ﬁ)(?:fl|ﬂ)o&1|besbswy`)

	// replaced by a space so that they keep separating words
	reSeparators = regexp.MustCompile(`[\-/\\,&'’‘´` + "`" +
		`\x{00B6}\x{00B7}\x{05BE}\x{2010}-\x{2015}\x{2022}\x{2026}\x{2E00}-\x{2E7F}` +
		eastAsianPunct + `]+`)

	// removed outright
	reNoise = regexp.MustCompile(`[0-9!"#$%()*+.:;<=>?@\[\]^_{|}~` +
		`\p{Sc}\p{Sm}\p{No}` +
		`“”„‟«»‹›‚˝¿¡°º¸¯¨` +
		`\x{0591}-\x{05BD}\x{05BF}-\x{05C7}\x{05F3}\x{05F4}` +
		`零一二三四五六七八九十百两千〇` +
		`\x{200B}-\x{200F}\x{2060}-\x{206F}\x{FEFF}\x{2588}\x{E000}-\x{F8FF}\x{FE00}-\x{FE0F}]`)

	// RE2 has no Extended_Pictographic property; these ranges cover it.
	reEmoji = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2300}-\x{23FF}` +
		`\x{2B00}-\x{2BFF}\x{2190}-\x{21FF}\x{25A0}-\x{25FF}\x{00A9}\x{00AE}\x{203C}\x{2049}` +
		`\x{2122}\x{2139}\x{3030}\x{303D}\x{3297}\x{3299}\x{200D}\x{20E3}\x{E0020}-\x{E007F}]`)
)

// East-Asian sentence punctuation: periods, commas, brackets, list markers and
// their fullwidth ASCII forms.
const eastAsianPunct = `\x{3001}-\x{3003}\x{3008}-\x{3011}\x{3014}-\x{301F}\x{30FB}` +
	`\x{FF01}-\x{FF0F}\x{FF1A}-\x{FF20}\x{FF3B}-\x{FF40}\x{FF5B}-\x{FF65}`

const fillerRun = "word word word word "

// Tokenize turns raw text into the bounded, lowercased token sequence the
// scorer works on. It returns an empty slice when nothing qualifies.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	s := reURL.ReplaceAllString(text, " ")
	s = reGlyphNoise.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, fillerRun, "")
	s = reSeparators.ReplaceAllString(s, " ")
	s = reNoise.ReplaceAllString(s, "")
	s = reEmoji.ReplaceAllString(s, "")
	s = strings.TrimSpace(cases.Lower(language.Und).String(s))
	if s == "" {
		return nil
	}

	fields := strings.FieldsFunc(s, unicode.IsSpace)
	tokens := make([]string, 0, min(len(fields), MaxTokens))
	for _, tok := range fields {
		if !keepToken(tok) {
			continue
		}
		tokens = append(tokens, tok)
		if len(tokens) == MaxTokens {
			break
		}
	}
	return tokens
}

func keepToken(tok string) bool {
	if tok == "" || !utf8.ValidString(tok) || strings.ContainsRune(tok, utf8.RuneError) {
		return false
	}
	if utf8.RuneCountInString(tok) == 1 {
		r, _ := utf8.DecodeRuneInString(tok)
		return !unicode.Is(unicode.Latin, r)
	}
	return true
}

// stripASCII drops printable ASCII so that only native-script runes remain.
func stripASCII(tok string) string {
	return strings.Map(func(r rune) rune {
		if r >= '!' && r <= '~' {
			return -1
		}
		return r
	}, tok)
}
