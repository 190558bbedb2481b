package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
)

// AddColumnRule detects ALTER TABLE ADD COLUMN without IF NOT EXISTS.
type AddColumnRule struct{}

// NewAddColumnRule creates a new AddColumnRule.
func NewAddColumnRule() *AddColumnRule { return &AddColumnRule{} }

// ID returns the rule identifier.
func (r *AddColumnRule) ID() string { return "add-column-without-if-not-exists" }

// Check examines a statement for ADD COLUMN that fails when the column exists.
func (r *AddColumnRule) Check(stmt *pg_query.RawStmt, _ *analyzer.RuleContext) []analyzer.Finding {
	node, ok := stmt.Stmt.Node.(*pg_query.Node_AlterTableStmt)
	if !ok {
		return nil
	}

	alt := node.AlterTableStmt
	var findings []analyzer.Finding

	for _, cmdNode := range alt.Cmds {
		cmd, ok := cmdNode.Node.(*pg_query.Node_AlterTableCmd)
		if !ok {
			continue
		}

		if cmd.AlterTableCmd.Subtype != pg_query.AlterTableType_AT_AddColumn || cmd.AlterTableCmd.MissingOk {
			continue
		}

		object := analyzer.TableName(alt.Relation)
		if col := columnName(cmd.AlterTableCmd); col != "" {
			object += "." + col
		}

		findings = append(findings, analyzer.Finding{
			Rule:       r.ID(),
			Severity:   analyzer.Medium,
			Object:     object,
			Message:    "ADD COLUMN fails with duplicate_column when the column already exists",
			Suggestion: "Use ALTER TABLE ... ADD COLUMN IF NOT EXISTS",
		})
	}

	return findings
}

// columnName returns the name of the column an ADD COLUMN command defines.
func columnName(cmd *pg_query.AlterTableCmd) string {
	if cmd.Def == nil {
		return ""
	}

	colDef, ok := cmd.Def.Node.(*pg_query.Node_ColumnDef)
	if !ok {
		return ""
	}

	return colDef.ColumnDef.Colname
}
