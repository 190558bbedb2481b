package rules

import (
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
)

// DropRule detects DROP statements without IF EXISTS.
type DropRule struct{}

// NewDropRule creates a new DropRule.
func NewDropRule() *DropRule { return &DropRule{} }

// ID returns the rule identifier.
func (r *DropRule) ID() string { return "drop-without-if-exists" }

// Check examines a statement for a DROP that fails once the object is gone.
func (r *DropRule) Check(stmt *pg_query.RawStmt, _ *analyzer.RuleContext) []analyzer.Finding {
	node, ok := stmt.Stmt.Node.(*pg_query.Node_DropStmt)
	if !ok {
		return nil
	}

	drop := node.DropStmt
	if drop == nil || drop.MissingOk {
		return nil
	}

	names := make([]string, 0, len(drop.Objects))
	for _, obj := range dropObjectNames(drop) {
		names = append(names, joinName(obj))
	}

	kind := objectKind(drop.RemoveType)

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Low,
		Object:     strings.Join(names, ", "),
		Message:    "DROP " + kind + " fails on the second run because the object is already gone",
		Suggestion: "Use DROP " + kind + " IF EXISTS",
	}}
}

// dropObjectNames returns each dropped object's name parts. Objects given as
// a bare String (schemas, extensions) yield a single part.
func dropObjectNames(drop *pg_query.DropStmt) [][]string {
	var names [][]string

	for _, obj := range drop.Objects {
		switch n := obj.Node.(type) {
		case *pg_query.Node_List:
			var parts []string

			for _, item := range n.List.Items {
				if s, ok := item.Node.(*pg_query.Node_String_); ok {
					parts = append(parts, s.String_.Sval)
				}
			}

			if len(parts) > 0 {
				names = append(names, parts)
			}
		case *pg_query.Node_String_:
			names = append(names, []string{n.String_.Sval})
		case *pg_query.Node_ObjectWithArgs:
			if name := analyzer.NameList(n.ObjectWithArgs.Objname); name != "" {
				names = append(names, strings.Split(name, "."))
			}
		}
	}

	return names
}

func joinName(parts []string) string {
	return strings.Join(parts, ".")
}

func objectKind(t pg_query.ObjectType) string {
	switch t {
	case pg_query.ObjectType_OBJECT_TABLE:
		return "TABLE"
	case pg_query.ObjectType_OBJECT_INDEX:
		return "INDEX"
	case pg_query.ObjectType_OBJECT_VIEW:
		return "VIEW"
	case pg_query.ObjectType_OBJECT_SEQUENCE:
		return "SEQUENCE"
	case pg_query.ObjectType_OBJECT_TRIGGER:
		return "TRIGGER"
	case pg_query.ObjectType_OBJECT_FUNCTION:
		return "FUNCTION"
	case pg_query.ObjectType_OBJECT_SCHEMA:
		return "SCHEMA"
	case pg_query.ObjectType_OBJECT_TYPE:
		return "TYPE"
	case pg_query.ObjectType_OBJECT_EXTENSION:
		return "EXTENSION"
	default:
		return "object"
	}
}
