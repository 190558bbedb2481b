package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
)

// AddConstraintRule detects ALTER TABLE ADD CONSTRAINT not preceded by a
// DROP CONSTRAINT IF EXISTS of the same constraint. PostgreSQL has no
// ADD CONSTRAINT IF NOT EXISTS.
type AddConstraintRule struct{}

// NewAddConstraintRule creates a new AddConstraintRule.
func NewAddConstraintRule() *AddConstraintRule { return &AddConstraintRule{} }

// ID returns the rule identifier.
func (r *AddConstraintRule) ID() string { return "add-constraint-not-rerunnable" }

// Check examines a statement for ADD CONSTRAINT that fails when the constraint exists.
func (r *AddConstraintRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	node, ok := stmt.Stmt.Node.(*pg_query.Node_AlterTableStmt)
	if !ok {
		return nil
	}

	alt := node.AlterTableStmt
	table := analyzer.TableName(alt.Relation)

	var (
		findings []analyzer.Finding
		dropped  = make(map[string]bool)
	)

	if ctx != nil {
		for _, raw := range ctx.Preceding {
			collectDroppedConstraints(raw, table, dropped)
		}
	}

	for _, cmdNode := range alt.Cmds {
		cmd, ok := cmdNode.Node.(*pg_query.Node_AlterTableCmd)
		if !ok {
			continue
		}

		// A DROP earlier in the same ALTER TABLE counts too.
		if isDropConstraintIfExists(cmd.AlterTableCmd) {
			dropped[cmd.AlterTableCmd.Name] = true

			continue
		}

		if cmd.AlterTableCmd.Subtype != pg_query.AlterTableType_AT_AddConstraint || cmd.AlterTableCmd.Def == nil {
			continue
		}

		constraintNode, ok := cmd.AlterTableCmd.Def.Node.(*pg_query.Node_Constraint)
		if !ok {
			continue
		}

		name := constraintNode.Constraint.Conname
		if name != "" && dropped[name] {
			continue
		}

		object := table
		if name != "" {
			object = name + " ON " + table
		}

		findings = append(findings, analyzer.Finding{
			Rule:       r.ID(),
			Severity:   analyzer.Medium,
			Object:     object,
			Message:    "ADD CONSTRAINT fails with duplicate_object when the constraint already exists",
			Suggestion: "Declare the constraint in CREATE TABLE, or DROP CONSTRAINT IF EXISTS first",
		})
	}

	return findings
}

func collectDroppedConstraints(raw *pg_query.RawStmt, table string, dropped map[string]bool) {
	node, ok := raw.Stmt.Node.(*pg_query.Node_AlterTableStmt)
	if !ok || analyzer.TableName(node.AlterTableStmt.Relation) != table {
		return
	}

	for _, cmdNode := range node.AlterTableStmt.Cmds {
		cmd, ok := cmdNode.Node.(*pg_query.Node_AlterTableCmd)
		if ok && isDropConstraintIfExists(cmd.AlterTableCmd) {
			dropped[cmd.AlterTableCmd.Name] = true
		}
	}
}

func isDropConstraintIfExists(cmd *pg_query.AlterTableCmd) bool {
	return cmd.Subtype == pg_query.AlterTableType_AT_DropConstraint && cmd.MissingOk
}
