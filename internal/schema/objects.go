package schema

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/reservation-provisioner/internal/parser"
)

// Objects lists the tables and functions a statement set creates, in
// first-creation order without duplicates.
type Objects struct {
	Tables    []string
	Functions []string
}

// CreatedObjects parses stmts and collects the targets of CREATE TABLE and
// CREATE FUNCTION statements.
func CreatedObjects(stmts []Statement) (Objects, error) {
	var (
		objs      Objects
		seenTable = make(map[string]bool)
		seenFunc  = make(map[string]bool)
	)

	for i := range stmts {
		result, err := parser.Parse(stmts[i].SQL)
		if err != nil {
			return Objects{}, fmt.Errorf("statement %d: %w", stmts[i].Ordinal, err)
		}

		for _, raw := range result.Stmts {
			switch node := raw.Stmt.Node.(type) {
			case *pg_query.Node_CreateStmt:
				name := relationName(node.CreateStmt.Relation)
				if name != "" && !seenTable[name] {
					seenTable[name] = true
					objs.Tables = append(objs.Tables, name)
				}
			case *pg_query.Node_CreateFunctionStmt:
				name := qualifiedName(node.CreateFunctionStmt.Funcname)
				if name != "" && !seenFunc[name] {
					seenFunc[name] = true
					objs.Functions = append(objs.Functions, name)
				}
			}
		}
	}

	return objs, nil
}

func relationName(rv *pg_query.RangeVar) string {
	if rv == nil {
		return ""
	}

	if rv.Schemaname != "" {
		return rv.Schemaname + "." + rv.Relname
	}

	return rv.Relname
}

func qualifiedName(nodes []*pg_query.Node) string {
	parts := make([]string, 0, len(nodes))

	for _, n := range nodes {
		if s, ok := n.Node.(*pg_query.Node_String_); ok {
			parts = append(parts, s.String_.Sval)
		}
	}

	return strings.Join(parts, ".")
}
