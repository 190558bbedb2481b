// Package analyzer checks whether a statement set can be applied more than
// once. Each registered rule looks at one parsed statement and reports what
// a second run would do with it.
package analyzer

import (
	"github.com/aqasim81/reservation-provisioner/internal/parser"
	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

// ParseErrorRule is the rule ID reported for statements that do not parse.
const ParseErrorRule = "parse-error"

const displayLen = 80

// Option configures the Analyzer.
type Option func(*Analyzer)

// Analyzer runs registered rules against parsed statements.
type Analyzer struct {
	registry *Registry
	parseFn  func(string) (*parser.ParseResult, error)
}

// New creates a new Analyzer with the given options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		registry: NewRegistry(),
		parseFn:  parser.Parse,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WithRegistry sets a custom rule registry.
func WithRegistry(r *Registry) Option {
	return func(a *Analyzer) { a.registry = r }
}

// WithParser overrides the SQL parser function (useful for testing).
func WithParser(fn func(string) (*parser.ParseResult, error)) Option {
	return func(a *Analyzer) { a.parseFn = fn }
}

// Analyze parses every statement and runs all rules over it. A statement
// that fails to parse becomes a High parse-error finding; analysis goes on
// with the next one.
func (a *Analyzer) Analyze(stmts []schema.Statement) (*Result, error) {
	res := &Result{Statements: len(stmts), MaxSeverity: Safe}
	ctx := &RuleContext{}

	for i := range stmts {
		s := &stmts[i]

		parsed, err := a.parseFn(s.SQL)
		if err != nil {
			res.add(Finding{
				Rule:       ParseErrorRule,
				Severity:   High,
				Ordinal:    s.Ordinal,
				Statement:  TruncateSQL(s.SQL, displayLen),
				Message:    err.Error(),
				Suggestion: "Fix the statement; it will fail on every run",
			})

			continue
		}

		ctx.Statement = s

		for _, raw := range parsed.Stmts {
			for _, rule := range a.registry.Rules() {
				for _, f := range rule.Check(raw, ctx) {
					f.Ordinal = s.Ordinal
					f.Statement = TruncateSQL(s.SQL, displayLen)
					res.add(f)
				}
			}

			ctx.Preceding = append(ctx.Preceding, raw)
		}
	}

	return res, nil
}

func (r *Result) add(f Finding) {
	if f.Severity > r.MaxSeverity {
		r.MaxSeverity = f.Severity
	}

	r.Findings = append(r.Findings, f)
}
