package database

import (
	"context"
	"fmt"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRPC      = "rpc"
)

// Handle is an open, authenticated route to the target database.
// Exec runs one unit of SQL text and returns nil, a *StatementError, or an
// error wrapping ErrConnectionFailed.
type Handle interface {
	Exec(ctx context.Context, sql string) error
}

// Closer is implemented by handles holding resources.
type Closer interface {
	Close(ctx context.Context) error
}

// Options selects and configures a handle backend.
type Options struct {
	Driver   string
	Postgres PostgresOptions
	SQLDSN   string
	RPC      RPCOptions
}

// Open creates the handle for opts.Driver. Eager backends verify connectivity
// here; the RPC backend reports connection problems on first use.
func Open(ctx context.Context, opts Options) (Handle, error) {
	switch opts.Driver {
	case DriverPostgres, "":
		return OpenPostgres(ctx, opts.Postgres)
	case DriverSQLite:
		return OpenSQL(ctx, DriverSQLite, opts.SQLDSN)
	case DriverRPC:
		return NewRPC(opts.RPC)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, opts.Driver)
	}
}

// Close releases h if it holds resources.
func Close(ctx context.Context, h Handle) error {
	if c, ok := h.(Closer); ok {
		return c.Close(ctx)
	}

	return nil
}
