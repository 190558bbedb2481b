package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
)

// RenameRule detects RENAME statements, which fail on the second run because
// the old name is gone.
type RenameRule struct{}

// NewRenameRule creates a new RenameRule.
func NewRenameRule() *RenameRule { return &RenameRule{} }

// ID returns the rule identifier.
func (r *RenameRule) ID() string { return "rename-not-rerunnable" }

// Check examines a statement for RENAME TABLE or RENAME COLUMN.
func (r *RenameRule) Check(stmt *pg_query.RawStmt, _ *analyzer.RuleContext) []analyzer.Finding {
	node, ok := stmt.Stmt.Node.(*pg_query.Node_RenameStmt)
	if !ok {
		return nil
	}

	rename := node.RenameStmt
	if rename == nil {
		return nil
	}

	switch rename.RenameType {
	case pg_query.ObjectType_OBJECT_TABLE:
		if rename.MissingOk {
			return nil // IF EXISTS: second run only notices the table is gone
		}

		return []analyzer.Finding{{
			Rule:       r.ID(),
			Severity:   analyzer.Low,
			Object:     analyzer.TableName(rename.Relation),
			Message:    "RENAME TABLE fails on the second run because the old table no longer exists",
			Suggestion: "Use ALTER TABLE IF EXISTS ... RENAME TO",
		}}
	case pg_query.ObjectType_OBJECT_COLUMN:
		return []analyzer.Finding{{
			Rule:       r.ID(),
			Severity:   analyzer.Low,
			Object:     analyzer.TableName(rename.Relation) + "." + rename.Subname,
			Message:    "RENAME COLUMN fails on the second run because the old column no longer exists",
			Suggestion: "Create the column with its final name, or guard the rename in a DO block",
		}}
	default:
		return nil
	}
}
