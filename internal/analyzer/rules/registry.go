package rules

import "github.com/aqasim81/reservation-provisioner/internal/analyzer"

// NewDefaultRegistry returns a Registry with all built-in re-run rules.
func NewDefaultRegistry() *analyzer.Registry {
	r := analyzer.NewRegistry()
	r.Register(NewCreateObjectRule())
	r.Register(NewCreateIndexRule())
	r.Register(NewCreateFunctionRule())
	r.Register(NewCreateTriggerRule())
	r.Register(NewAddColumnRule())
	r.Register(NewAddConstraintRule())
	r.Register(NewRenameRule())
	r.Register(NewInsertRule())
	r.Register(NewDropRule())

	return r
}
