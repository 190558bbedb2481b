package applier

import (
	"time"

	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

// Result is the outcome of applying one statement.
type Result struct {
	Statement     schema.Statement
	Err           error // nil on success
	Code          string
	AlreadyExists bool
	Skipped       bool // dry run, nothing executed
	Duration      time.Duration
}

// OK reports whether the statement executed without error.
func (r Result) OK() bool {
	return r.Err == nil && !r.Skipped
}

// Failure is a statement that did not apply.
type Failure struct {
	Ordinal       int
	Message       string
	Code          string
	AlreadyExists bool
}

// Summary aggregates the results of one run.
type Summary struct {
	Attempted int
	Succeeded int
	Failures  []Failure
	Results   []Result
	Duration  time.Duration
}

// OK reports whether every attempted statement succeeded.
func (s *Summary) OK() bool {
	return len(s.Failures) == 0
}

// AlreadyExistsCount returns the number of failures caused by objects that
// were already present.
func (s *Summary) AlreadyExistsCount() int {
	n := 0

	for _, f := range s.Failures {
		if f.AlreadyExists {
			n++
		}
	}

	return n
}

// Unexpected returns the failures not explained by an object already existing.
func (s *Summary) Unexpected() []Failure {
	var out []Failure

	for _, f := range s.Failures {
		if !f.AlreadyExists {
			out = append(out, f)
		}
	}

	return out
}

// summarize folds per-statement results into a Summary.
func summarize(results []Result, elapsed time.Duration) *Summary {
	s := &Summary{Results: results, Duration: elapsed, Failures: []Failure{}}

	for _, r := range results {
		if r.Skipped {
			continue
		}

		s.Attempted++

		if r.Err == nil {
			s.Succeeded++
			continue
		}

		s.Failures = append(s.Failures, Failure{
			Ordinal:       r.Statement.Ordinal,
			Message:       failureMessage(r.Err),
			Code:          r.Code,
			AlreadyExists: r.AlreadyExists,
		})
	}

	return s
}
