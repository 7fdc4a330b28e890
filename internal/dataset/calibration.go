package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Zifeldev/langback/internal/lang"
)

// LoadCalibration reads tuning lists from a YAML file. Keys absent from the
// file keep their default values.
//
//	letter_driven: [fr, ru, tr]
//	compact: [ja, zh]
//	similar:
//	  - [es, ca, gl]
//	compact_bonus: 1.2
func LoadCalibration(path string) (lang.Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return lang.Calibration{}, fmt.Errorf("dataset: read calibration %s: %w", path, err)
	}
	return ParseCalibration(data)
}

// ParseCalibration is LoadCalibration over an in-memory document.
func ParseCalibration(data []byte) (lang.Calibration, error) {
	cal := lang.DefaultCalibration()
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return lang.Calibration{}, fmt.Errorf("dataset: decode calibration: %w", err)
	}
	for i, group := range cal.Similar {
		if len(group) < 2 {
			return lang.Calibration{}, fmt.Errorf("dataset: similar group %d: %w: needs at least two codes", i, ErrInvalid)
		}
	}
	if cal.CompactBonus < 0 || cal.LetterRatioFloor < 0 {
		return lang.Calibration{}, fmt.Errorf("dataset: %w: negative calibration constant", ErrInvalid)
	}
	return cal, nil
}
