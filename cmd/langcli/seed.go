package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Zifeldev/langback/internal/dataset"
	"github.com/Zifeldev/langback/internal/db"
	"github.com/Zifeldev/langback/internal/repository"
)

// profileSaver is the write side of the profile store.
type profileSaver interface {
	EnsureSchema(ctx context.Context) error
	SaveProfile(ctx context.Context, rec dataset.Record) error
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store dataset profiles in Postgres",
		Long: `seed validates a dataset (the embedded one unless --dataset is given) and
upserts every profile into the language_profiles table, creating it if needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			records, err := seedRecords(opts.datasetPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := db.New(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()
			repo := repository.NewPostgresProfileRepo(db.NewTimeoutPool(pool, cfg.Database.QueryTimeout))

			n, err := seedProfiles(ctx, repo, records, opts.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stored %d profiles\n", n)
			return err
		},
	}
}

func seedRecords(path string) ([]dataset.Record, error) {
	var (
		records []dataset.Record
		err     error
	)
	if path == "" {
		records, err = dataset.DefaultRecords()
	} else {
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("dataset: open %s: %w", path, err)
		}
		defer f.Close()
		records, err = dataset.ReadRecords(f)
	}
	if err != nil {
		return nil, err
	}
	if _, err := dataset.FromRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

func seedProfiles(ctx context.Context, repo profileSaver, records []dataset.Record, log *logrus.Entry) (int, error) {
	if err := repo.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	for i, rec := range records {
		if err := repo.SaveProfile(ctx, rec); err != nil {
			return i, fmt.Errorf("seed %q: %w", rec.Code, err)
		}
		log.WithField("code", rec.Code).Debug("profile stored")
	}
	return len(records), nil
}
