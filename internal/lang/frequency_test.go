package lang

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyDetector_English(t *testing.T) {
	d, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"en"}, d.Languages("This is an English text."))

	// english carries its own weight plus the folded code and misc weights
	scores := d.Scores("This is an English text.")
	assert.InDelta(t, 3935.0, scores["en"], 1e-6)
	assert.InDelta(t, 3.6, scores["ca"], 1e-6)
	assert.Less(t, scores["fr"], 0.0)
}

func TestFrequencyDetector_NoSignal(t *testing.T) {
	d, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)

	for _, text := range []string{"", " 1 222 !@#", "😀😀", "https://example.com/path"} {
		got := d.Languages(text)
		assert.NotNil(t, got, "text %q", text)
		assert.Empty(t, got, "text %q", text)
	}
}

func TestFrequencyDetector_RepeatedTokenCap(t *testing.T) {
	d, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)

	// two of five occurrences score: 2*60*2^2 * 2^2 / 5
	assert.InDelta(t, 384.0, d.Scores("the the the the the")["en"], 1e-9)
	assert.Equal(t, []string{"en"}, d.Languages("the the the the the"))
}

func TestFrequencyDetector_ChineseVariantsMerge(t *testing.T) {
	d, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"zh"}, d.Languages("这是简体中文的文本"))
	assert.Equal(t, []string{"zh"}, d.Languages("這是繁體中文的文本"))

	scores := d.Scores("这是简体中文的文本")
	assert.InDelta(t, 15466.666, scores["zh"], 1e-2)
	assert.NotContains(t, scores, "zhs")
	assert.NotContains(t, scores, "zht")
}

func TestFrequencyDetector_ChineseVariantsUnmerged(t *testing.T) {
	opts := defaultTestOptions()
	opts.Merge = nil
	d, err := newTestDetector(opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"zhs"}, d.Languages("这是简体中文的文本"))
	assert.Equal(t, []string{"zht"}, d.Languages("這是繁體中文的文本"))

	scores := d.Scores("这是简体中文的文本")
	assert.InDelta(t, 15466.666, scores["zhs"], 1e-2)
	assert.InDelta(t, 7933.333, scores["zht"], 1e-2)
}

func TestFrequencyDetector_RomanizedVariantMerge(t *testing.T) {
	d, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)

	scores := d.Scores("ami bangla bhasha")
	assert.InDelta(t, 810.0, scores["bn"], 1e-9)
	assert.NotContains(t, scores, "bnr")
	assert.Equal(t, []string{"bn"}, d.Languages("ami bangla bhasha"))
}

func TestFrequencyDetector_SupportedLanguages(t *testing.T) {
	d, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"bn", "ca", "en", "es", "fr", "gl", "ja", "zh"}, d.SupportedLanguages())

	plain, err := newTestDetector(Options{})
	require.NoError(t, err)
	got := plain.SupportedLanguages()
	for _, code := range []string{"zhs", "zht", "bnr", "code", "misc"} {
		assert.Contains(t, got, code)
	}
	assert.NotContains(t, got, "zh")
}

func TestFrequencyDetector_PartialFold(t *testing.T) {
	opts := defaultTestOptions()
	opts.DatasetMerge = map[string]Fold{"code": {Target: "en", Weight: 0.5}}
	d, err := newTestDetector(opts)
	require.NoError(t, err)

	assert.Contains(t, d.SupportedLanguages(), "misc")
	assert.NotContains(t, d.SupportedLanguages(), "code")
	// english: (2 + 20*0.5) * 6^2 in the word sum
	assert.InDelta(t, (180+30+10+12*36+27)*25/5.0, d.Scores("This is an English text.")["en"], 1e-6)
}

func TestFrequencyDetector_DatasetIsNotMutated(t *testing.T) {
	ds := testDataset()
	_, err := NewFrequencyDetector(ds, defaultTestOptions())
	require.NoError(t, err)

	assert.Equal(t, 2.0, ds["en"].TopWords["english"])
	assert.Contains(t, ds, "code")
	assert.Contains(t, ds, "misc")

	again, err := NewFrequencyDetector(ds, defaultTestOptions())
	require.NoError(t, err)
	assert.InDelta(t, 3935.0, again.Scores("This is an English text.")["en"], 1e-6)
}

func TestFrequencyDetector_RestrictedLanguages(t *testing.T) {
	opts := defaultTestOptions()
	opts.Languages = []string{"es", "ca", "gl"}
	d, err := newTestDetector(opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"ca", "es", "gl"}, d.SupportedLanguages())
	assert.Empty(t, d.Languages("the quick brown fox"))
}

func TestFrequencyDetector_Errors(t *testing.T) {
	_, err := NewFrequencyDetector(Dataset{}, defaultTestOptions())
	assert.ErrorIs(t, err, ErrEmptyDataset)

	opts := defaultTestOptions()
	opts.Languages = []string{"en", "xx"}
	_, err = newTestDetector(opts)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	assert.Contains(t, err.Error(), `"xx"`)

	for _, ratio := range []float64{-0.1, 1.5} {
		opts := defaultTestOptions()
		opts.MinimumRatio = ratio
		_, err := newTestDetector(opts)
		assert.Error(t, err, "ratio %v", ratio)
	}
}

func thresholdDataset() Dataset {
	return Dataset{
		"aa": {TopWords: map[string]float64{"foo": 10}},
		"bb": {TopWords: map[string]float64{"foo": 9}},
		"cc": {TopWords: map[string]float64{"foo": 5}},
		"dd": {},
	}
}

func TestFrequencyDetector_Threshold(t *testing.T) {
	d, err := NewFrequencyDetector(thresholdDataset(), Options{Logger: quietLogger()})
	require.NoError(t, err)

	scores := d.Scores("foo")
	assert.Equal(t, map[string]float64{"aa": 40, "bb": 36, "cc": 20, "dd": 0}, scores)

	assert.Equal(t, []string{"aa", "bb"}, d.Languages("foo"))
	assert.Equal(t, []string{"aa", "bb", "cc"}, d.LanguagesWithRatio("foo", 0.5))
	assert.Equal(t, []string{"aa"}, d.LanguagesWithRatio("foo", 1))
}

func TestFrequencyDetector_SimilarGroups(t *testing.T) {
	opts := Options{
		Similar:     true,
		Calibration: Calibration{Similar: [][]string{{"aa", "bb"}}},
		Logger:      quietLogger(),
	}
	d, err := NewFrequencyDetector(thresholdDataset(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"aa"}, d.Languages("foo"))
	assert.Equal(t, []string{"aa", "cc"}, d.LanguagesWithRatio("foo", 0.5))

	opts.Similar = false
	d, err = NewFrequencyDetector(thresholdDataset(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"aa", "bb"}, d.Languages("foo"))
}

func TestFrequencyDetector_TiesOrderedByCode(t *testing.T) {
	ds := Dataset{
		"yy": {TopWords: map[string]float64{"bar": 1}},
		"xx": {TopWords: map[string]float64{"bar": 1}},
	}
	d, err := NewFrequencyDetector(ds, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, []string{"xx", "yy"}, d.Languages("bar"))
}

func TestFrequencyDetector_ParallelMatchesSerial(t *testing.T) {
	serial, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)
	opts := defaultTestOptions()
	opts.Parallel = true
	parallel, err := newTestDetector(opts)
	require.NoError(t, err)

	for _, text := range []string{
		"This is an English text.",
		"le texte est écrit en français",
		"这是简体中文的文本",
		"",
	} {
		assert.Equal(t, serial.Scores(text), parallel.Scores(text), "text %q", text)
		assert.Equal(t, serial.Languages(text), parallel.Languages(text), "text %q", text)
	}
}

func TestFrequencyDetector_Idempotent(t *testing.T) {
	d, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)

	text := "El texto está escrito en español, hola mundo"
	first := d.Languages(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, d.Languages(text))
	}
}

func TestFrequencyDetector_LowerRatioIsSuperset(t *testing.T) {
	d, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)

	text := "hola mundo texto para con que de la"
	strict := d.LanguagesWithRatio(text, 0.9)
	loose := d.LanguagesWithRatio(text, 0.1)
	for _, code := range strict {
		assert.Contains(t, loose, code)
	}
}

func TestFrequencyDetector_ConcurrentUse(t *testing.T) {
	d, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"en"}, d.Languages("This is an English text."))
		}()
	}
	wg.Wait()
}

func TestSelectLanguages_Empty(t *testing.T) {
	got := selectLanguages(map[string]float64{"aa": 0, "bb": -3}, 0.8, nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMergeVariants_UsesStrongest(t *testing.T) {
	scores := map[string]float64{"zhs": 10, "zht": 30, "en": 5}
	mergeVariants(scores, []mergeRule{{canonical: "zh", sources: []string{"zhs", "zht"}}})
	assert.Equal(t, map[string]float64{"zh": 30, "en": 5}, scores)
}

func TestFrequencyDetector_Detect(t *testing.T) {
	d, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)

	res := d.Detect("This is an English text.", 0)
	assert.Equal(t, []string{"en"}, res.Languages)
	assert.Equal(t, d.Scores("This is an English text."), res.Scores)

	thr, err := NewFrequencyDetector(thresholdDataset(), Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, []string{"aa", "bb", "cc"}, thr.Detect("foo", 0.5).Languages)
	assert.Equal(t, []string{"aa", "bb"}, thr.Detect("foo", 0).Languages)
}

func TestMergeVariants_CanonicalCompetesWhenUnlisted(t *testing.T) {
	ds := Dataset{
		"aa": {TopWords: map[string]float64{"foo": 10}},
		"bb": {TopWords: map[string]float64{"bar": 1}},
	}
	d, err := NewFrequencyDetector(ds, Options{Merge: map[string][]string{"aa": {"bb"}}, Logger: quietLogger()})
	require.NoError(t, err)

	// 2 * 10*2^2 * 2^2 / 2
	assert.Equal(t, map[string]float64{"aa": 160}, d.Scores("foo foo"))
	assert.Equal(t, []string{"aa"}, d.Languages("foo foo"))
	assert.Equal(t, map[string]float64{"aa": 16}, d.Scores("bar bar"))
	assert.Equal(t, []string{"aa"}, d.SupportedLanguages())
}

func TestFrequencyDetector_OutOfRangeRatioUsesConfigured(t *testing.T) {
	d, err := NewFrequencyDetector(thresholdDataset(), Options{Logger: quietLogger()})
	require.NoError(t, err)

	for _, ratio := range []float64{-5, -0.1, 1.5} {
		assert.Equal(t, []string{"aa", "bb"}, d.LanguagesWithRatio("foo", ratio), "ratio %v", ratio)
		assert.Equal(t, []string{"aa", "bb"}, d.Detect("foo", ratio).Languages, "ratio %v", ratio)
	}
}

func TestFrequencyDetector_EmptyLanguageListActivatesAll(t *testing.T) {
	d, err := NewFrequencyDetector(thresholdDataset(), Options{Languages: []string{}, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, []string{"aa", "bb", "cc", "dd"}, d.SupportedLanguages())
	assert.Equal(t, []string{"aa", "bb"}, d.Languages("foo"))
}

func TestFrequencyDetector_OwnVocabularyKeepsLead(t *testing.T) {
	d, err := newTestDetector(defaultTestOptions())
	require.NoError(t, err)
	assertOwnVocabularyKeepsLead(t, d)
}
