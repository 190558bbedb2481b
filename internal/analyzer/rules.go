package analyzer

import (
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

// Rule inspects one parsed statement for behavior that breaks a re-run.
type Rule interface {
	// ID returns a unique kebab-case identifier for this rule.
	ID() string
	// Check examines a single parsed statement and returns any findings.
	Check(stmt *pg_query.RawStmt, ctx *RuleContext) []Finding
}

// RuleContext provides contextual information to rules during analysis.
type RuleContext struct {
	Statement *schema.Statement
	// Preceding holds every statement parsed earlier in the run, in order.
	Preceding []*pg_query.RawStmt
}

// Ordinal returns the position of the statement under analysis.
func (c *RuleContext) Ordinal() int {
	if c == nil || c.Statement == nil {
		return 0
	}

	return c.Statement.Ordinal
}

// Registry holds a collection of rules.
type Registry struct {
	rules []Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a rule to the registry.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Rules returns all registered rules.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// TableName extracts a qualified table name from a RangeVar.
func TableName(rv *pg_query.RangeVar) string {
	if rv == nil {
		return "<unknown>"
	}

	if rv.Schemaname != "" {
		return rv.Schemaname + "." + rv.Relname
	}

	return rv.Relname
}

// NameList joins the String nodes of a qualified name, e.g. a function name.
func NameList(nodes []*pg_query.Node) string {
	parts := make([]string, 0, len(nodes))

	for _, n := range nodes {
		if s, ok := n.Node.(*pg_query.Node_String_); ok {
			parts = append(parts, s.String_.Sval)
		}
	}

	return strings.Join(parts, ".")
}
