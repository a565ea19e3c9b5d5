package infra

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLExecutor defines the contract required by repositories for executing SQL queries.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// TxExecutor is an SQLExecutor that can also run a function inside a transaction.
type TxExecutor interface {
	SQLExecutor
	WithTx(ctx context.Context, fn func(tx SQLExecutor) error) error
}

var markerRegexp = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DefaultSlowQuery is the elapsed time above which a statement is logged at warn.
const DefaultSlowQuery = 500 * time.Millisecond

// SQLRunner executes marker-tagged inline queries and logs them by marker
// with their elapsed time.
type SQLRunner struct {
	Pool      *pgxpool.Pool
	Logger    zerolog.Logger
	SlowQuery time.Duration
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{Pool: pool, Logger: logger, SlowQuery: DefaultSlowQuery}
}

func (r *SQLRunner) executor(q querier, logger zerolog.Logger) markedExecutor {
	return markedExecutor{q: q, logger: logger, slow: r.SlowQuery}
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	return r.executor(r.Pool, r.Logger).Exec(ctx, query, args...)
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return r.executor(r.Pool, r.Logger).QueryRow(ctx, query, args...)
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return r.executor(r.Pool, r.Logger).Query(ctx, query, args...)
}

// WithTx runs fn in a transaction. fn's error rolls back; otherwise it commits.
func (r *SQLRunner) WithTx(ctx context.Context, fn func(tx SQLExecutor) error) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(r.executor(tx, r.Logger.With().Bool("tx", true).Logger())); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.Logger.Error().Err(rbErr).Msg("sql rollback failed")
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type markedExecutor struct {
	q      querier
	logger zerolog.Logger
	slow   time.Duration
}

// observe logs one statement. Empty results are not errors.
func (m markedExecutor) observe(marker, op string, started time.Time, err error) {
	elapsed := time.Since(started)
	switch {
	case err != nil && !IsNoRows(err):
		m.logger.Error().Err(err).Str("sql", marker).Str("op", op).Dur("elapsed", elapsed).Msg("sql error")
	case m.slow > 0 && elapsed > m.slow:
		m.logger.Warn().Str("sql", marker).Str("op", op).Dur("elapsed", elapsed).Msg("slow sql")
	default:
		m.logger.Debug().Str("sql", marker).Str("op", op).Dur("elapsed", elapsed).Msg("sql")
	}
}

func (m markedExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	marker, body, err := extractMarker(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	started := time.Now()
	tag, err := m.q.Exec(ctx, body, args...)
	m.observe(marker, "exec", started, err)
	return tag, err
}

func (m markedExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	marker, body, err := extractMarker(query)
	if err != nil {
		return errorRow{err: err}
	}
	return observedRow{row: m.q.QueryRow(ctx, body, args...), exec: m, marker: marker, started: time.Now()}
}

func (m markedExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	marker, body, err := extractMarker(query)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	rows, err := m.q.Query(ctx, body, args...)
	m.observe(marker, "query", started, err)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// observedRow defers logging to Scan, where pgx reports the row's error.
type observedRow struct {
	row     pgx.Row
	exec    markedExecutor
	marker  string
	started time.Time
}

func (o observedRow) Scan(dest ...any) error {
	err := o.row.Scan(dest...)
	o.exec.observe(o.marker, "query_row", o.started, err)
	return err
}

type errorRow struct {
	err error
}

func (e errorRow) Scan(dest ...any) error {
	return e.err
}

// ErrMissingMarker is returned for queries without a valid leading marker line.
var ErrMissingMarker = errors.New("sql marker missing or invalid")

// ExtractMarker splits a marker-tagged query into its marker id and SQL body.
func ExtractMarker(query string) (string, string, error) {
	return extractMarker(query)
}

func extractMarker(query string) (string, string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", "", errors.New("empty query")
	}
	lines := strings.Split(trimmed, "\n")
	markerLine := strings.TrimSpace(lines[0])
	if !markerRegexp.MatchString(markerLine) {
		return "", "", ErrMissingMarker
	}
	body := strings.TrimSpace(strings.Join(lines[1:], "\n"))
	if body == "" {
		return "", "", errors.New("empty query")
	}
	return strings.TrimPrefix(markerLine, "--sql "), body, nil
}

var _ TxExecutor = (*SQLRunner)(nil)
