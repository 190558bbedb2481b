package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
)

// CreateIndexRule detects CREATE INDEX without IF NOT EXISTS.
type CreateIndexRule struct{}

// NewCreateIndexRule creates a new CreateIndexRule.
func NewCreateIndexRule() *CreateIndexRule { return &CreateIndexRule{} }

// ID returns the rule identifier.
func (r *CreateIndexRule) ID() string { return "create-index-without-if-not-exists" }

// Check examines a statement for CREATE INDEX that fails when the index exists.
func (r *CreateIndexRule) Check(stmt *pg_query.RawStmt, _ *analyzer.RuleContext) []analyzer.Finding {
	node, ok := stmt.Stmt.Node.(*pg_query.Node_IndexStmt)
	if !ok {
		return nil
	}

	idx := node.IndexStmt
	if idx.IfNotExists {
		return nil
	}

	object := idx.Idxname
	if object == "" {
		// Unnamed indexes get a fresh generated name each run, so they
		// never collide; they pile up instead.
		return []analyzer.Finding{{
			Rule:       r.ID(),
			Severity:   analyzer.Medium,
			Object:     analyzer.TableName(idx.Relation),
			Message:    "CREATE INDEX without a name adds a duplicate index on every run",
			Suggestion: "Name the index and use CREATE INDEX IF NOT EXISTS",
		}}
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Object:     object,
		Message:    "CREATE INDEX fails with duplicate_table when the index already exists",
		Suggestion: "Use CREATE INDEX IF NOT EXISTS",
	}}
}
