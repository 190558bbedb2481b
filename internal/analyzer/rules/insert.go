package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
)

// InsertRule detects INSERT without ON CONFLICT, which adds the same rows
// again on every run or fails on a unique constraint.
type InsertRule struct{}

// NewInsertRule creates a new InsertRule.
func NewInsertRule() *InsertRule { return &InsertRule{} }

// ID returns the rule identifier.
func (r *InsertRule) ID() string { return "insert-without-on-conflict" }

// Check examines a statement for INSERT without ON CONFLICT.
func (r *InsertRule) Check(stmt *pg_query.RawStmt, _ *analyzer.RuleContext) []analyzer.Finding {
	node, ok := stmt.Stmt.Node.(*pg_query.Node_InsertStmt)
	if !ok {
		return nil
	}

	ins := node.InsertStmt
	if ins.OnConflictClause != nil {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.High,
		Object:     analyzer.TableName(ins.Relation),
		Message:    "INSERT without ON CONFLICT duplicates rows on every run",
		Suggestion: "Add ON CONFLICT (...) DO NOTHING against a unique key",
	}}
}
