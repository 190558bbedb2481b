package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOptions configures a PostgreSQL handle.
type PostgresOptions struct {
	URL              string
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration
}

// Postgres executes statements over the PostgreSQL wire protocol on a single
// connection acquired at open and held until Close.
type Postgres struct {
	pool *pgxpool.Pool
	conn *pgxpool.Conn
}

// OpenPostgres parses the connection string, connects, pings, and pins one
// connection for the lifetime of the handle.
func OpenPostgres(ctx context.Context, opts PostgresOptions) (*Postgres, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidDatabaseURL)
	}

	poolCfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	poolCfg.MaxConns = 1

	if opts.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, connectionError(err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()

		return nil, connectionError(err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Release()
		pool.Close()

		return nil, connectionError(err)
	}

	p := &Postgres{pool: pool, conn: conn}

	if opts.StatementTimeout > 0 {
		if err := p.setStatementTimeout(ctx, opts.StatementTimeout); err != nil {
			p.Close(ctx) //nolint:errcheck // already failing

			return nil, err
		}
	}

	return p, nil
}

// Exec runs sql on the held connection using the simple protocol, so a
// single call may carry several statements.
func (p *Postgres) Exec(ctx context.Context, sql string) error {
	_, err := p.conn.Exec(ctx, sql)
	if err == nil {
		return nil
	}

	return classifyPgError(err, p.conn.Conn().IsClosed())
}

// PublicTables lists base tables in the public schema, sorted by name.
func (p *Postgres) PublicTables(ctx context.Context) ([]string, error) {
	rows, err := p.conn.Query(ctx,
		`SELECT table_name
		 FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		 ORDER BY table_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying public tables: %w", err)
	}

	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning public tables: %w", err)
	}

	return tables, nil
}

// Close releases the held connection and closes the pool.
// Safe to call multiple times; subsequent calls are no-ops.
func (p *Postgres) Close(_ context.Context) error {
	if p == nil || p.pool == nil {
		return nil
	}

	if p.conn != nil {
		p.conn.Release()
		p.conn = nil
	}

	p.pool.Close()
	p.pool = nil

	return nil
}

// setStatementTimeout bounds every statement on the session.
func (p *Postgres) setStatementTimeout(ctx context.Context, timeout time.Duration) error {
	sql := fmt.Sprintf("SET statement_timeout = '%dms'", timeout.Milliseconds())

	if _, err := p.conn.Exec(ctx, sql); err != nil {
		return fmt.Errorf("setting statement_timeout: %w", err)
	}

	return nil
}

// classifyPgError maps a pgx error to a StatementError, or to a connection
// failure when the session is gone: the server ended it with a FATAL error
// or the connection closed without an answer.
func classifyPgError(err error, closed bool) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if sessionEnded(pgErr) {
			return connectionError(err)
		}

		return &StatementError{Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}

	if closed {
		return connectionError(err)
	}

	return &StatementError{Message: err.Error(), Err: err}
}

// sessionEnded reports whether the server ended the session. Severity is
// localized by lc_messages; servers before 9.6 send only that field.
func sessionEnded(pgErr *pgconn.PgError) bool {
	severity := pgErr.SeverityUnlocalized
	if severity == "" {
		severity = pgErr.Severity
	}

	return severity == "FATAL" || severity == "PANIC"
}
