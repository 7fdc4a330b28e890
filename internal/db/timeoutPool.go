package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// TimeoutPool bounds every statement by QueryTimeout. For Query and QueryRow
// the deadline stays armed until the rows are closed or the row is scanned.
type TimeoutPool struct {
	*pgxpool.Pool
	QueryTimeout time.Duration
}

func NewTimeoutPool(pool *pgxpool.Pool, timeout time.Duration) *TimeoutPool {
	return &TimeoutPool{Pool: pool, QueryTimeout: timeout}
}

func (p *TimeoutPool) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.QueryTimeout)
}

func (p *TimeoutPool) Ping(ctx context.Context) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.Pool.Ping(ctx)
}

func (p *TimeoutPool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.Pool.Exec(ctx, sql, args...)
}

func (p *TimeoutPool) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	ctx, cancel := p.withTimeout(ctx)
	rows, err := p.Pool.Query(ctx, sql, args...)
	if err != nil {
		cancel()
		return nil, err
	}
	return &cancelRows{Rows: rows, cancel: cancel}, nil
}

func (p *TimeoutPool) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	ctx, cancel := p.withTimeout(ctx)
	return &cancelRow{row: p.Pool.QueryRow(ctx, sql, args...), cancel: cancel}
}

type cancelRows struct {
	pgx.Rows
	cancel context.CancelFunc
}

func (r *cancelRows) Close() {
	r.Rows.Close()
	r.cancel()
}

type cancelRow struct {
	row    pgx.Row
	cancel context.CancelFunc
}

func (r *cancelRow) Scan(dest ...any) error {
	defer r.cancel()
	return r.row.Scan(dest...)
}
