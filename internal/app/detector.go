// Package app assembles the detector from configuration. It is shared by the
// HTTP server and the command line tool.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Zifeldev/langback/internal/config"
	"github.com/Zifeldev/langback/internal/dataset"
	"github.com/Zifeldev/langback/internal/lang"
)

var ErrNoProfileStore = errors.New("dataset source postgres needs a profile store")

// ProfileLoader is the read side of the profile store.
type ProfileLoader interface {
	LoadDataset(ctx context.Context) (lang.Dataset, error)
}

// LoadDataset reads profiles from the configured source. store is only used
// for the postgres source and may be nil otherwise.
func LoadDataset(ctx context.Context, cfg config.DetectorConfig, store ProfileLoader) (lang.Dataset, error) {
	switch cfg.DatasetSource {
	case config.SourceFile:
		return dataset.LoadFile(cfg.DatasetPath)
	case config.SourcePostgres:
		if store == nil {
			return nil, ErrNoProfileStore
		}
		return store.LoadDataset(ctx)
	default:
		return dataset.Default()
	}
}

// FrequencyOptions maps configuration onto detector options.
func FrequencyOptions(cfg config.DetectorConfig, log *logrus.Entry) (lang.Options, error) {
	opts := lang.DefaultOptions()
	opts.Languages = cfg.Languages
	opts.Similar = cfg.Similar
	opts.MinimumRatio = cfg.MinimumRatio
	opts.Parallel = cfg.Parallel
	opts.Debug = cfg.Debug
	opts.Logger = log
	if !cfg.Merge {
		opts.Merge = nil
	}
	if !cfg.DatasetMerge {
		opts.DatasetMerge = nil
	}
	if cfg.CalibrationPath != "" {
		cal, err := dataset.LoadCalibration(cfg.CalibrationPath)
		if err != nil {
			return lang.Options{}, err
		}
		opts.Calibration = cal
	}
	return opts, nil
}

// NewDetector builds the configured backend.
func NewDetector(ctx context.Context, cfg config.DetectorConfig, store ProfileLoader, log *logrus.Entry) (lang.Detector, error) {
	if cfg.Backend == config.BackendLingua {
		langs := lang.LinguaLanguages(cfg.Languages)
		if len(cfg.Languages) > 0 && len(langs) == 0 {
			return nil, fmt.Errorf("%w: none of %v is known to lingua", lang.ErrUnknownLanguage, cfg.Languages)
		}
		log.WithField("languages", len(langs)).Info("lingua detector ready")
		return lang.NewLinguaDetector(cfg.MinimumRatio, langs...), nil
	}

	ds, err := LoadDataset(ctx, cfg, store)
	if err != nil {
		return nil, err
	}
	opts, err := FrequencyOptions(cfg, log)
	if err != nil {
		return nil, err
	}
	det, err := lang.NewFrequencyDetector(ds, opts)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"source":    cfg.DatasetSource,
		"profiles":  len(ds),
		"languages": len(det.SupportedLanguages()),
	}).Info("frequency detector ready")
	return det, nil
}

// CacheNamespace identifies a detector configuration so cached results of
// differently configured instances sharing a Redis never mix.
func CacheNamespace(cfg config.DetectorConfig) string {
	return fmt.Sprintf("%s|%s|%s|%v|m%t|d%t|s%t|r%g|%s",
		cfg.Backend, cfg.DatasetSource, cfg.DatasetPath, cfg.Languages,
		cfg.Merge, cfg.DatasetMerge, cfg.Similar, cfg.MinimumRatio, cfg.CalibrationPath)
}
