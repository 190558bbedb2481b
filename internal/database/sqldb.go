package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// SQL executes statements through database/sql on one pinned *sql.Conn.
type SQL struct {
	db   *sql.DB
	conn *sql.Conn
}

// OpenSQL opens a database/sql pool for driverName and pins a connection.
func OpenSQL(ctx context.Context, driverName, dsn string) (*SQL, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidDatabaseURL)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedDriver, err)
	}

	h, err := NewSQL(ctx, db)
	if err != nil {
		db.Close() //nolint:errcheck // already failing

		return nil, err
	}

	return h, nil
}

// NewSQL wraps an existing *sql.DB. The handle owns db and closes it on Close.
func NewSQL(ctx context.Context, db *sql.DB) (*SQL, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, connectionError(err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close() //nolint:errcheck // already failing

		return nil, connectionError(err)
	}

	return &SQL{db: db, conn: conn}, nil
}

// Exec runs query on the pinned connection.
func (s *SQL) Exec(ctx context.Context, query string) error {
	_, err := s.conn.ExecContext(ctx, query)
	if err == nil {
		return nil
	}

	if isBadConn(err) {
		return connectionError(err)
	}

	return &StatementError{Message: err.Error(), Err: err}
}

// Close returns the pinned connection and closes the pool.
func (s *SQL) Close(_ context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}

	if s.conn != nil {
		s.conn.Close() //nolint:errcheck // pool close below reports the meaningful error
		s.conn = nil
	}

	err := s.db.Close()
	s.db = nil

	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	return nil
}

func isBadConn(err error) bool {
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone)
}
