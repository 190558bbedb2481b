package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
)

// CreateObjectRule detects CREATE TABLE, SCHEMA, SEQUENCE and EXTENSION
// without IF NOT EXISTS.
type CreateObjectRule struct{}

// NewCreateObjectRule creates a new CreateObjectRule.
func NewCreateObjectRule() *CreateObjectRule { return &CreateObjectRule{} }

// ID returns the rule identifier.
func (r *CreateObjectRule) ID() string { return "create-without-if-not-exists" }

// Check examines a statement for a CREATE that fails when the object exists.
func (r *CreateObjectRule) Check(stmt *pg_query.RawStmt, _ *analyzer.RuleContext) []analyzer.Finding {
	var kind, object string

	switch node := stmt.Stmt.Node.(type) {
	case *pg_query.Node_CreateStmt:
		if node.CreateStmt.IfNotExists {
			return nil
		}

		kind, object = "TABLE", analyzer.TableName(node.CreateStmt.Relation)
	case *pg_query.Node_CreateSchemaStmt:
		if node.CreateSchemaStmt.IfNotExists {
			return nil
		}

		kind, object = "SCHEMA", node.CreateSchemaStmt.Schemaname
	case *pg_query.Node_CreateSeqStmt:
		if node.CreateSeqStmt.IfNotExists {
			return nil
		}

		kind, object = "SEQUENCE", analyzer.TableName(node.CreateSeqStmt.Sequence)
	case *pg_query.Node_CreateExtensionStmt:
		if node.CreateExtensionStmt.IfNotExists {
			return nil
		}

		kind, object = "EXTENSION", node.CreateExtensionStmt.Extname
	default:
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Object:     object,
		Message:    "CREATE " + kind + " fails when " + object + " already exists",
		Suggestion: "Use CREATE " + kind + " IF NOT EXISTS",
	}}
}
