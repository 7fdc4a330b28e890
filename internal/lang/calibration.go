package lang

// Calibration is the corpus-derived tuning data the scorer consults. It is
// kept apart from the algorithm so a deployment can swap it (see
// dataset.LoadCalibration) without touching code.
type Calibration struct {
	// LetterDriven lists word-based languages whose characteristic letters
	// add to (or subtract from) their word score.
	LetterDriven []string `yaml:"letter_driven"`
	// LettersOnly forces letter scoring even when a vocabulary table exists.
	LettersOnly []string `yaml:"letters_only"`
	// Compact lists scripts conveying a lot of meaning in few characters.
	Compact []string `yaml:"compact"`
	// NoASCII lists languages whose tokens are stripped of ASCII before
	// letter matching, in addition to profiles flagged NoASCII.
	NoASCII []string `yaml:"no_ascii"`
	// Similar groups languages prone to mutual false positives.
	Similar [][]string `yaml:"similar"`

	CompactBonus     float64 `yaml:"compact_bonus"`
	LetterRatioFloor float64 `yaml:"letter_ratio_floor"`
}

// DefaultCalibration returns the tuning lists shipped with the default dataset.
func DefaultCalibration() Calibration {
	return Calibration{
		LetterDriven: []string{
			"az", "bg", "bn", "cs", "el", "et", "fa", "fr", "he", "hu", "is", "ka", "kk",
			"lt", "lv", "mk", "mn", "pl", "ro", "ru", "sk", "sr", "sv", "tr", "uk", "vi",
		},
		LettersOnly: []string{"ja", "th", "ko", "zh", "zhs", "zht", "km"},
		Compact:     []string{"ja", "ko", "zh", "zhs", "zht"},
		NoASCII: []string{
			"ja", "zh", "te", "he", "ko", "ml", "my", "ne", "pa", "ps", "sa", "si", "ta",
			"th", "zhs", "zht",
		},
		Similar: [][]string{
			{"es", "ca", "gl"},
			{"id", "ms"},
			{"no", "nb"},
			{"zh", "ja"},
			{"nl", "af"},
			{"tr", "az"},
		},
		CompactBonus:     1.2,
		LetterRatioFloor: 200,
	}
}

func (c Calibration) withDefaults() Calibration {
	if c.CompactBonus <= 0 {
		c.CompactBonus = 1.2
	}
	if c.LetterRatioFloor <= 0 {
		c.LetterRatioFloor = 200
	}
	return c
}

func toSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}
