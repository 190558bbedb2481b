package applier

import "errors"

// ErrNoStatements indicates Apply was called with an empty statement list.
var ErrNoStatements = errors.New("no statements to apply")

// ErrNilHandle indicates Apply was called without a database handle.
var ErrNilHandle = errors.New("database handle is nil")
