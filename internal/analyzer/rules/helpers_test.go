package rules_test

import (
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
	"github.com/aqasim81/reservation-provisioner/internal/parser"
	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

// checkLast parses sqls, runs rule over the last statement with the earlier
// ones as preceding context, and returns the findings.
func checkLast(t *testing.T, rule analyzer.Rule, sqls ...string) []analyzer.Finding {
	t.Helper()

	var raws []*pg_query.RawStmt

	for _, sql := range sqls {
		result, err := parser.Parse(sql)
		require.NoError(t, err)
		require.Len(t, result.Stmts, 1)

		raws = append(raws, result.Stmts[0])
	}

	stmt := schema.Statement{Ordinal: len(sqls), SQL: sqls[len(sqls)-1]}
	ctx := &analyzer.RuleContext{Statement: &stmt, Preceding: raws[:len(raws)-1]}

	return rule.Check(raws[len(raws)-1], ctx)
}
