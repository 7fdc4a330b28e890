// Package dataset loads language frequency profiles and calibration data.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/Zifeldev/langback/internal/lang"
)

//go:embed data/languages.json
var defaultDataset []byte

var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalid      = errors.New("invalid profile")
)

// Record is one language profile as stored on disk or in the database.
// TopLettersTotal is a pointer so an absent value can be told from zero.
type Record struct {
	Code            string             `json:"-"`
	TopWords        map[string]float64 `json:"topWords"`
	TopLetters      map[string]float64 `json:"topLetters"`
	TopLettersTotal *float64           `json:"topLettersTotal"`
	NoASCII         bool               `json:"noASCII,omitempty"`
}

// Default returns the dataset embedded in the binary.
func Default() (lang.Dataset, error) {
	return Parse(defaultDataset)
}

// LoadFile reads a JSON dataset from path.
func LoadFile(path string) (lang.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a JSON document of the form {"en": {"topWords": {...},
// "topLetters": {...}, "topLettersTotal": 12}, ...}.
func Load(r io.Reader) (lang.Dataset, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return nil, err
	}
	return FromRecords(records)
}

// ReadRecords decodes a dataset document into records ordered by code,
// without validating them.
func ReadRecords(r io.Reader) ([]Record, error) {
	var raw map[string]Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("dataset: decode: %w", err)
	}
	records := make([]Record, 0, len(raw))
	for code, rec := range raw {
		rec.Code = code
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Code < records[j].Code })
	return records, nil
}

// DefaultRecords returns the embedded dataset as records.
func DefaultRecords() ([]Record, error) {
	return ReadRecords(bytes.NewReader(defaultDataset))
}

// Parse is Load over an in-memory document.
func Parse(data []byte) (lang.Dataset, error) {
	return Load(bytes.NewReader(data))
}

// FromRecords validates records and converts them into a dataset. Missing
// tables become empty tables; a missing topLettersTotal is an error.
func FromRecords(records []Record) (lang.Dataset, error) {
	ds := make(lang.Dataset, len(records))
	for _, rec := range records {
		p, err := rec.profile()
		if err != nil {
			return nil, err
		}
		if _, dup := ds[rec.Code]; dup {
			return nil, fmt.Errorf("dataset: language %q: %w: duplicate code", rec.Code, ErrInvalid)
		}
		ds[rec.Code] = p
	}
	return ds, nil
}

func (rec Record) profile() (lang.Profile, error) {
	if rec.Code == "" {
		return lang.Profile{}, fmt.Errorf("dataset: %w: empty language code", ErrInvalid)
	}
	if rec.TopLettersTotal == nil {
		return lang.Profile{}, fmt.Errorf("dataset: language %q: %w: topLettersTotal", rec.Code, ErrMissingField)
	}
	if *rec.TopLettersTotal < 0 {
		return lang.Profile{}, fmt.Errorf("dataset: language %q: %w: negative topLettersTotal", rec.Code, ErrInvalid)
	}

	p := lang.Profile{
		TopWords:        make(map[string]float64, len(rec.TopWords)),
		TopLetters:      make(map[rune]float64, len(rec.TopLetters)),
		TopLettersTotal: *rec.TopLettersTotal,
		NoASCII:         rec.NoASCII,
	}
	for w, v := range rec.TopWords {
		if v < 0 {
			return lang.Profile{}, fmt.Errorf("dataset: language %q: %w: negative weight for word %q", rec.Code, ErrInvalid, w)
		}
		p.TopWords[w] = v
	}
	for k, v := range rec.TopLetters {
		r, size := utf8.DecodeRuneInString(k)
		if r == utf8.RuneError || size != len(k) {
			return lang.Profile{}, fmt.Errorf("dataset: language %q: %w: letter key %q is not a single character", rec.Code, ErrInvalid, k)
		}
		if v < 0 {
			return lang.Profile{}, fmt.Errorf("dataset: language %q: %w: negative weight for letter %q", rec.Code, ErrInvalid, k)
		}
		p.TopLetters[r] = v
	}
	return p, nil
}
