package lang

import (
	"io"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func letters(m map[string]float64) map[rune]float64 {
	out := make(map[rune]float64, len(m))
	for k, v := range m {
		out[[]rune(k)[0]] = v
	}
	return out
}

// testDataset is a miniature dataset whose scores can be worked out by hand.
func testDataset() Dataset {
	return Dataset{
		"en": {
			TopWords: map[string]float64{
				"the": 60, "is": 30, "this": 20, "and": 40, "of": 35, "an": 10, "english": 2,
				"text": 3, "to": 30, "in": 25, "it": 15, "you": 15, "that": 15, "language": 3,
				"written": 1, "quick": 1, "brown": 1, "fox": 1, "jumps": 1, "over": 2, "lazy": 1,
				"dog": 1, "with": 10, "for": 12, "are": 10, "was": 10,
			},
		},
		"fr": {
			TopWords: map[string]float64{
				"le": 40, "la": 40, "les": 30, "de": 50, "et": 30, "est": 20, "un": 20, "une": 15,
				"je": 15, "pas": 12, "avec": 8, "pour": 10, "très": 3, "français": 2, "texte": 2,
				"écrit": 1, "bonjour": 2, "monde": 2, "tout": 3,
			},
			TopLetters:      letters(map[string]float64{"é": 120, "è": 30, "à": 25, "ç": 10, "ê": 8}),
			TopLettersTotal: 210,
		},
		"es": {
			TopWords: map[string]float64{
				"el": 40, "la": 40, "de": 50, "que": 30, "en": 25, "los": 20, "es": 20, "un": 15,
				"una": 15, "por": 12, "con": 10, "para": 10, "texto": 2, "escrito": 1,
				"español": 2, "hola": 2, "mundo": 2, "gracias": 1,
			},
			TopLetters:      letters(map[string]float64{"ñ": 10, "á": 5, "ó": 5}),
			TopLettersTotal: 50,
		},
		"ca": {
			TopWords: map[string]float64{
				"el": 35, "la": 35, "de": 45, "que": 25, "els": 20, "es": 15, "amb": 12, "per": 12,
				"una": 15, "un": 15, "aquest": 3, "text": 2, "català": 2, "hola": 1, "món": 1,
			},
		},
		"gl": {
			TopWords: map[string]float64{
				"de": 45, "que": 25, "os": 15, "unha": 15, "un": 15, "con": 10, "para": 10,
				"texto": 2, "galego": 2, "ola": 1, "mundo": 1,
			},
		},
		"zhs": {
			TopLetters: letters(map[string]float64{
				"的": 50, "是": 30, "我": 25, "这": 20, "中": 15, "文": 12, "国": 10, "们": 10,
				"说": 8, "个": 8, "简": 3, "体": 3,
			}),
			TopLettersTotal: 900,
			NoASCII:         true,
		},
		"zht": {
			TopLetters: letters(map[string]float64{
				"的": 50, "是": 30, "我": 25, "這": 20, "中": 15, "文": 12, "國": 10, "們": 10,
				"說": 8, "個": 8, "繁": 3, "體": 3,
			}),
			TopLettersTotal: 900,
			NoASCII:         true,
		},
		"ja": {
			TopLetters: letters(map[string]float64{
				"の": 50, "は": 30, "に": 25, "を": 25, "た": 20, "が": 20, "で": 15, "て": 15,
				"す": 10, "ま": 10, "本": 5, "日": 5, "語": 5,
			}),
			TopLettersTotal: 900,
		},
		"bn": {
			TopWords: map[string]float64{"আমি": 10, "এবং": 20, "বাংলা": 5, "ভাষা": 5, "একটি": 8},
		},
		"bnr": {
			TopWords: map[string]float64{"ami": 5, "ebong": 5, "bangla": 5, "bhasha": 5, "ekti": 3},
		},
		"code": {
			TopWords: map[string]float64{"function": 5, "return": 10, "var": 3, "const": 3, "english": 20},
		},
		"misc": {
			TopWords: map[string]float64{"lorem": 10, "ipsum": 10, "ok": 20, "english": 30},
		},
	}
}

func newTestDetector(opts Options) (*FrequencyDetector, error) {
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	return NewFrequencyDetector(testDataset(), opts)
}

func defaultTestOptions() Options {
	opts := DefaultOptions()
	opts.Logger = quietLogger()
	return opts
}
