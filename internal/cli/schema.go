package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqasim81/reservation-provisioner/internal/config"
	"github.com/aqasim81/reservation-provisioner/internal/database"
	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

// schemaSource picks the schema path: argument, then config, then the
// embedded default (empty string).
func schemaSource(args []string, cfg *config.Config) string {
	if len(args) > 0 {
		return args[0]
	}

	return cfg.SchemaPath
}

// loadStatements reads the statements at path, or the embedded reservation
// schema when path is empty.
func loadStatements(path string) ([]schema.Statement, error) {
	if path == "" {
		return schema.Default()
	}

	stmts, err := schema.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	return stmts, nil
}

func describeSource(path string) string {
	if path == "" {
		return "built-in reservation schema"
	}

	return path
}

// commandContext returns the command's context bounded by timeout, if set.
func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}

	return context.WithCancel(ctx)
}

func connect(ctx context.Context, cfg *config.Config, out io.Writer) (database.Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Driver == database.DriverRPC {
		fmt.Fprintf(out, "Connecting to %s (rpc %s, key %s)\n", cfg.Target(), cfg.RPC.Function, config.RedactKey(cfg.RPC.Key))
	} else {
		fmt.Fprintf(out, "Connecting to %s (%s)\n", cfg.Target(), cfg.Driver)
	}

	h, err := database.Open(ctx, cfg.DatabaseOptions())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return h, nil
}

// connectPostgres opens a PostgreSQL handle for commands that read the catalog.
func connectPostgres(ctx context.Context, cfg *config.Config, out io.Writer) (*database.Postgres, error) {
	if cfg.Driver != database.DriverPostgres {
		return nil, fmt.Errorf("%w (driver is %q)", errPostgresOnly, cfg.Driver)
	}

	h, err := connect(ctx, cfg, out)
	if err != nil {
		return nil, err
	}

	pg, ok := h.(*database.Postgres)
	if !ok {
		database.Close(ctx, h) //nolint:errcheck // unexpected handle type

		return nil, fmt.Errorf("%w (driver is %q)", errPostgresOnly, cfg.Driver)
	}

	return pg, nil
}
