package database

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDatabaseURL indicates the provided database URL could not be parsed.
var ErrInvalidDatabaseURL = errors.New("invalid database URL")

// ErrConnectionFailed indicates a connection to the database could not be established
// or was lost. It is fatal to an apply run.
var ErrConnectionFailed = errors.New("database connection failed")

// ErrUnsupportedDriver indicates the configured driver name is not known.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// ErrMissingAPIKey indicates an RPC handle was configured without a service key.
var ErrMissingAPIKey = errors.New("rpc api key is required")

// duplicateCodes are the SQLSTATE codes PostgreSQL reports when an object being
// created is already present.
var duplicateCodes = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table
	"42P04": true, // duplicate_database
	"42P06": true, // duplicate_schema
	"42P07": true, // duplicate_table
	"42701": true, // duplicate_column
	"42710": true, // duplicate_object
	"42723": true, // duplicate_function
}

// StatementError is a failure of a single statement. The connection is still
// usable after it and the run may continue.
type StatementError struct {
	Code    string // SQLSTATE or service error code, empty when unknown
	Message string
	Err     error
}

func (e *StatementError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (SQLSTATE %s)", e.Message, e.Code)
	}

	return e.Message
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// IsAlreadyExists reports whether err is a duplicate-object failure, the
// expected outcome when a non-idempotent statement is re-applied.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}

	var stmtErr *StatementError
	if errors.As(err, &stmtErr) && stmtErr.Code != "" {
		return duplicateCodes[stmtErr.Code]
	}

	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// connectionError wraps cause with ErrConnectionFailed.
func connectionError(cause error) error {
	return fmt.Errorf("%w: %w", ErrConnectionFailed, cause)
}
