package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Zifeldev/langback/internal/app"
	"github.com/Zifeldev/langback/internal/config"
	"github.com/Zifeldev/langback/internal/db"
	"github.com/Zifeldev/langback/internal/lang"
	"github.com/Zifeldev/langback/internal/logger"
	"github.com/Zifeldev/langback/internal/repository"
)

type rootOptions struct {
	backend     string
	source      string
	datasetPath string
	calibration string
	languages   []string
	ratio       float64
	noMerge     bool
	noSimilar   bool
	logLevel    string
	jsonOutput  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "langcli",
		Short: "Detect the language of text with frequency profiles",
		Long: `langcli scores text against per-language word and letter frequency
profiles and prints the detected languages.

Configuration is read from the same environment variables as the server;
flags override them.

Examples:
  langcli detect "Dies ist ein deutscher Text"
  echo "Ceci est un texte" | langcli scores
  langcli languages --source file --dataset profiles.json
  langcli seed --dataset profiles.json`,
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.backend, "backend", "", "detector backend (frequency, lingua)")
	f.StringVar(&opts.source, "source", "", "dataset source (embedded, file, postgres)")
	f.StringVar(&opts.datasetPath, "dataset", "", "dataset JSON file; implies --source file for detection")
	f.StringVar(&opts.calibration, "calibration", "", "calibration YAML file")
	f.StringSliceVar(&opts.languages, "languages", nil, "restrict detection to these codes")
	f.Float64Var(&opts.ratio, "ratio", 0, "minimum share of the top score (0 keeps the configured value)")
	f.BoolVar(&opts.noMerge, "no-merge", false, "report script variants separately")
	f.BoolVar(&opts.noSimilar, "no-similar", false, "keep every member of similar language groups")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	f.BoolVar(&opts.jsonOutput, "json", false, "print JSON")

	root.AddCommand(
		newDetectCmd(opts),
		newScoresCmd(opts),
		newLanguagesCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

// config merges environment configuration with command line overrides.
func (o *rootOptions) config() (cfg config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("config: %v", r)
		}
	}()
	cfg = config.MustLoad(context.Background())

	if o.backend != "" {
		cfg.Detector.Backend = strings.ToLower(o.backend)
	}
	if o.datasetPath != "" {
		cfg.Detector.DatasetPath = o.datasetPath
		cfg.Detector.DatasetSource = config.SourceFile
	}
	if o.source != "" {
		cfg.Detector.DatasetSource = strings.ToLower(o.source)
	}
	if o.calibration != "" {
		cfg.Detector.CalibrationPath = o.calibration
	}
	if len(o.languages) > 0 {
		cfg.Detector.Languages = o.languages
	}
	if o.noMerge {
		cfg.Detector.Merge = false
	}
	if o.noSimilar {
		cfg.Detector.Similar = false
	}

	switch cfg.Detector.Backend {
	case config.BackendFrequency, config.BackendLingua:
	default:
		return cfg, fmt.Errorf("unknown backend %q", cfg.Detector.Backend)
	}
	switch cfg.Detector.DatasetSource {
	case config.SourceEmbedded, config.SourceFile, config.SourcePostgres:
	default:
		return cfg, fmt.Errorf("unknown dataset source %q", cfg.Detector.DatasetSource)
	}
	return cfg, nil
}

func (o *rootOptions) logger(w io.Writer) *logrus.Entry {
	lg := logger.New()
	lg.SetOutput(w)
	lg.ApplyLevel(o.logLevel)
	return lg.Component("langcli")
}

// detector builds the configured detector. The returned func releases the
// database pool when profiles come from Postgres.
func (o *rootOptions) detector(ctx context.Context, stderr io.Writer) (lang.Detector, func(), error) {
	cfg, err := o.config()
	if err != nil {
		return nil, nil, err
	}
	log := o.logger(stderr)

	cleanup := func() {}
	var store app.ProfileLoader
	if cfg.Detector.DatasetSource == config.SourcePostgres {
		pool, err := db.New(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		cleanup = pool.Close
		store = repository.NewPostgresProfileRepo(db.NewTimeoutPool(pool, cfg.Database.QueryTimeout))
	}

	det, err := app.NewDetector(ctx, cfg.Detector, store, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return det, cleanup, nil
}

// inputText joins args, or reads stdin when there are none.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
