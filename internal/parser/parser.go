package parser //nolint:revive // intentional: does not conflict with go/parser in internal package

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// ParseResult holds the parsed AST and original SQL.
type ParseResult struct {
	Stmts []*pg_query.RawStmt
	SQL   string
}

// Parse parses a PostgreSQL SQL string and returns the AST.
// Returns an empty result (zero statements) for empty or whitespace-only input.
func Parse(sql string) (*ParseResult, error) {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return &ParseResult{SQL: sql}, nil
	}

	tree, err := pg_query.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parsing SQL: %w", err)
	}

	return &ParseResult{
		Stmts: tree.Stmts,
		SQL:   sql,
	}, nil
}

// Split breaks a SQL blob into individual statements at top-level semicolons.
// It uses the PostgreSQL scanner, so semicolons inside string literals,
// quoted identifiers, dollar-quoted bodies and comments do not split.
// Fragments made only of comments or whitespace are dropped.
func Split(sql string) ([]string, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, nil
	}

	parts, err := pg_query.SplitWithScanner(sql, true)
	if err != nil {
		return nil, fmt.Errorf("splitting SQL: %w", err)
	}

	stmts := make([]string, 0, len(parts))

	for _, part := range parts {
		empty, err := commentOnly(part)
		if err != nil {
			return nil, err
		}

		if empty {
			continue
		}

		stmts = append(stmts, part)
	}

	return stmts, nil
}

// commentOnly reports whether the fragment contains no tokens besides comments.
func commentOnly(sql string) (bool, error) {
	if strings.TrimSpace(sql) == "" {
		return true, nil
	}

	result, err := pg_query.Scan(sql)
	if err != nil {
		return false, fmt.Errorf("scanning SQL: %w", err)
	}

	for _, tok := range result.Tokens {
		if tok.Token != pg_query.Token_SQL_COMMENT && tok.Token != pg_query.Token_C_COMMENT {
			return false, nil
		}
	}

	return true, nil
}

// StripLeadingComments returns sql starting at its first non-comment token.
// Input that cannot be scanned, or holds only comments, is returned as is.
func StripLeadingComments(sql string) string {
	result, err := pg_query.Scan(sql)
	if err != nil {
		return sql
	}

	for _, tok := range result.Tokens {
		if tok.Token == pg_query.Token_SQL_COMMENT || tok.Token == pg_query.Token_C_COMMENT {
			continue
		}

		if start := int(tok.Start); start >= 0 && start <= len(sql) {
			return sql[start:]
		}

		return sql
	}

	return sql
}
