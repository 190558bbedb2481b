package database

import (
	"strings"

	"github.com/jackc/pgx/v5"
)

// DropStatements builds the statements that remove tables and functions
// ahead of a clean re-apply. Tables are dropped with CASCADE so dependent
// foreign keys and triggers go with them; order does not matter.
func DropStatements(tables, functions []string) []string {
	stmts := make([]string, 0, len(tables)+len(functions))

	for _, t := range tables {
		stmts = append(stmts, "DROP TABLE IF EXISTS "+quoteName(t)+" CASCADE")
	}

	for _, f := range functions {
		stmts = append(stmts, "DROP FUNCTION IF EXISTS "+quoteName(f)+" CASCADE")
	}

	return stmts
}

// quoteName quotes each dot-separated part of a possibly schema-qualified name.
func quoteName(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
