package analyzer

import (
	"unicode/utf8"

	"github.com/aqasim81/reservation-provisioner/internal/parser"
)

// Finding is one statement that will not re-apply cleanly.
type Finding struct {
	Rule       string   // Rule ID (e.g., "create-without-if-not-exists")
	Severity   Severity // How badly a re-run is affected
	Ordinal    int      // Statement position in the run (1-based)
	Object     string   // Affected table, index, function or trigger
	Statement  string   // The SQL statement text (truncated for display)
	Message    string
	Suggestion string // Re-runnable alternative
}

// Result holds all findings for a statement set.
type Result struct {
	Statements  int
	Findings    []Finding
	MaxSeverity Severity // Highest severity across all findings
}

// HasHigh reports whether any finding is High severity.
func (r *Result) HasHigh() bool {
	return r.MaxSeverity >= High
}

// Rerunnable reports whether the set applies twice without any failure.
func (r *Result) Rerunnable() bool {
	return len(r.Findings) == 0
}

// CountBySeverity returns the number of findings at each severity.
func (r *Result) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for i := range r.Findings {
		counts[r.Findings[i].Severity]++
	}

	return counts
}

// TruncateSQL truncates a SQL string to maxLen characters for display.
// Leading comments are dropped and newlines collapsed so the result fits on
// one line. The cut never splits a multi-byte character.
func TruncateSQL(sql string, maxLen int) string {
	sql = oneLine(parser.StripLeadingComments(sql))

	if maxLen < 4 || utf8.RuneCountInString(sql) <= maxLen { //nolint:mnd // room for the ellipsis
		return sql
	}

	return string([]rune(sql)[:maxLen-3]) + "..."
}

func oneLine(s string) string {
	out := make([]byte, 0, len(s))
	space := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\n' || c == '\r' || c == '\t' || c == ' ' {
			if !space && len(out) > 0 {
				out = append(out, ' ')
			}

			space = true

			continue
		}

		space = false

		out = append(out, c)
	}

	if n := len(out); n > 0 && out[n-1] == ' ' {
		out = out[:n-1]
	}

	return string(out)
}
