package lang_test

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Zifeldev/langback/internal/dataset"
	"github.com/Zifeldev/langback/internal/lang"
)

func TestEmbeddedDataset_OwnVocabularyKeepsLead(t *testing.T) {
	ds, err := dataset.Default()
	require.NoError(t, err)

	l := logrus.New()
	l.SetOutput(io.Discard)
	opts := lang.DefaultOptions()
	opts.Logger = logrus.NewEntry(l)
	d, err := lang.NewFrequencyDetector(ds, opts)
	require.NoError(t, err)

	lang.AssertOwnVocabularyKeepsLead(t, d)
}
