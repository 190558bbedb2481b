package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
)

// CreateFunctionRule detects CREATE FUNCTION and CREATE PROCEDURE without OR REPLACE.
type CreateFunctionRule struct{}

// NewCreateFunctionRule creates a new CreateFunctionRule.
func NewCreateFunctionRule() *CreateFunctionRule { return &CreateFunctionRule{} }

// ID returns the rule identifier.
func (r *CreateFunctionRule) ID() string { return "create-function-without-replace" }

// Check examines a statement for a CREATE FUNCTION that fails when the function exists.
func (r *CreateFunctionRule) Check(stmt *pg_query.RawStmt, _ *analyzer.RuleContext) []analyzer.Finding {
	node, ok := stmt.Stmt.Node.(*pg_query.Node_CreateFunctionStmt)
	if !ok {
		return nil
	}

	fn := node.CreateFunctionStmt
	if fn.Replace {
		return nil
	}

	kind := "FUNCTION"
	if fn.IsProcedure {
		kind = "PROCEDURE"
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Object:     analyzer.NameList(fn.Funcname),
		Message:    "CREATE " + kind + " fails with duplicate_function when it already exists",
		Suggestion: "Use CREATE OR REPLACE " + kind,
	}}
}
