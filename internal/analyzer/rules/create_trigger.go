package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
)

// CreateTriggerRule detects CREATE TRIGGER that is neither OR REPLACE nor
// preceded by a DROP TRIGGER IF EXISTS of the same trigger.
type CreateTriggerRule struct{}

// NewCreateTriggerRule creates a new CreateTriggerRule.
func NewCreateTriggerRule() *CreateTriggerRule { return &CreateTriggerRule{} }

// ID returns the rule identifier.
func (r *CreateTriggerRule) ID() string { return "create-trigger-without-replace" }

// Check examines a statement for a CREATE TRIGGER that fails when the trigger exists.
func (r *CreateTriggerRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	node, ok := stmt.Stmt.Node.(*pg_query.Node_CreateTrigStmt)
	if !ok {
		return nil
	}

	trig := node.CreateTrigStmt
	if trig.Replace {
		return nil
	}

	table := analyzer.TableName(trig.Relation)
	if ctx != nil && droppedBefore(ctx.Preceding, table, trig.Trigname) {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Object:     trig.Trigname + " ON " + table,
		Message:    "CREATE TRIGGER fails with duplicate_object when the trigger already exists",
		Suggestion: "Precede it with DROP TRIGGER IF EXISTS or use CREATE OR REPLACE TRIGGER (PostgreSQL 14+)",
	}}
}

// droppedBefore reports whether an earlier statement drops trigger name on
// table with IF EXISTS.
func droppedBefore(preceding []*pg_query.RawStmt, table, name string) bool {
	for _, raw := range preceding {
		node, ok := raw.Stmt.Node.(*pg_query.Node_DropStmt)
		if !ok {
			continue
		}

		drop := node.DropStmt
		if drop.RemoveType != pg_query.ObjectType_OBJECT_TRIGGER || !drop.MissingOk {
			continue
		}

		for _, obj := range dropObjectNames(drop) {
			// DROP TRIGGER names are the relation parts followed by the trigger name.
			if len(obj) < 2 || obj[len(obj)-1] != name {
				continue
			}

			if joinName(obj[:len(obj)-1]) == table {
				return true
			}
		}
	}

	return false
}
