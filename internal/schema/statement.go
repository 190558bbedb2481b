// Package schema turns literal SQL, schema files and the embedded
// reservation schema into ordered statements.
package schema

import (
	"fmt"
	"strings"

	"github.com/aqasim81/reservation-provisioner/internal/parser"
)

// Statement is one unit of SQL text at a fixed position in a run.
type Statement struct {
	Ordinal int    // 1-based position in the run
	SQL     string // statement text, trimmed
	Source  string // file the statement came from, empty for literals
}

// FromStrings builds statements from literal SQL, one per argument.
// Blank entries are dropped; ordinals are assigned after dropping.
func FromStrings(sqls ...string) []Statement {
	stmts := make([]Statement, 0, len(sqls))

	for _, s := range sqls {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		stmts = append(stmts, Statement{Ordinal: len(stmts) + 1, SQL: s})
	}

	return stmts
}

// Split breaks a schema blob into statements at top-level semicolons.
func Split(blob string) ([]Statement, error) {
	return splitSource(blob, "", 0)
}

// splitSource splits blob, tags each statement with source and numbers it
// after offset.
func splitSource(blob, source string, offset int) ([]Statement, error) {
	parts, err := parser.Split(blob)
	if err != nil {
		if source != "" {
			return nil, fmt.Errorf("%s: %w", source, err)
		}

		return nil, err
	}

	stmts := make([]Statement, 0, len(parts))
	for i, p := range parts {
		stmts = append(stmts, Statement{Ordinal: offset + i + 1, SQL: p, Source: source})
	}

	return stmts, nil
}
