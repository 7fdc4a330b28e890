package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Zifeldev/langback/internal/dataset"
	"github.com/Zifeldev/langback/internal/db"
	"github.com/Zifeldev/langback/internal/lang"
)

// ProfileRepository stores language profiles outside the binary.
type ProfileRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveProfile(ctx context.Context, rec dataset.Record) error
	LoadDataset(ctx context.Context) (lang.Dataset, error)
}

// dbExecutor captures the subset of pool API we use, to enable testing/mocking.
type dbExecutor interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

type PostgresProfileRepo struct {
	pool dbExecutor
}

func NewPostgresProfileRepo(pool *db.TimeoutPool) *PostgresProfileRepo {
	return &PostgresProfileRepo{pool: pool}
}

var ErrNoProfiles = errors.New("no language profiles stored")

const createProfiles = `
CREATE TABLE IF NOT EXISTS language_profiles (
  code              TEXT PRIMARY KEY,
  top_words         JSONB NOT NULL DEFAULT '{}'::jsonb,
  top_letters       JSONB NOT NULL DEFAULT '{}'::jsonb,
  top_letters_total DOUBLE PRECISION,
  no_ascii          BOOLEAN NOT NULL DEFAULT FALSE,
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)
`

const upsertProfile = `
INSERT INTO language_profiles (code, top_words, top_letters, top_letters_total, no_ascii, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (code) DO UPDATE SET
  top_words = EXCLUDED.top_words,
  top_letters = EXCLUDED.top_letters,
  top_letters_total = EXCLUDED.top_letters_total,
  no_ascii = EXCLUDED.no_ascii,
  updated_at = now()
`

const selectProfiles = `
SELECT code, top_words, top_letters, top_letters_total, no_ascii
FROM language_profiles
ORDER BY code
`

func (r *PostgresProfileRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, createProfiles)
	return err
}

func (r *PostgresProfileRepo) SaveProfile(ctx context.Context, rec dataset.Record) error {
	if rec.Code == "" {
		return fmt.Errorf("save profile: %w", dataset.ErrInvalid)
	}
	wordsJSON, err := json.Marshal(nonNil(rec.TopWords))
	if err != nil {
		return err
	}
	lettersJSON, err := json.Marshal(nonNil(rec.TopLetters))
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, upsertProfile, rec.Code, wordsJSON, lettersJSON, rec.TopLettersTotal, rec.NoASCII)
	return err
}

// LoadDataset reads every stored profile and validates it the same way the
// JSON loader does.
func (r *PostgresProfileRepo) LoadDataset(ctx context.Context) (lang.Dataset, error) {
	rows, err := r.pool.Query(ctx, selectProfiles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []dataset.Record
	for rows.Next() {
		var rec dataset.Record
		var wordsJSON, lettersJSON []byte
		var total sql.NullFloat64

		if err := rows.Scan(&rec.Code, &wordsJSON, &lettersJSON, &total, &rec.NoASCII); err != nil {
			return nil, err
		}
		if len(wordsJSON) > 0 {
			if err := json.Unmarshal(wordsJSON, &rec.TopWords); err != nil {
				return nil, fmt.Errorf("profile %q: top_words: %w", rec.Code, err)
			}
		}
		if len(lettersJSON) > 0 {
			if err := json.Unmarshal(lettersJSON, &rec.TopLetters); err != nil {
				return nil, fmt.Errorf("profile %q: top_letters: %w", rec.Code, err)
			}
		}
		if total.Valid {
			v := total.Float64
			rec.TopLettersTotal = &v
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	if len(records) == 0 {
		return nil, ErrNoProfiles
	}
	return dataset.FromRecords(records)
}

func nonNil(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}
