package analyzer

// Severity ranks how badly a statement behaves when the schema is applied a
// second time.
type Severity int

const (
	// Safe indicates the statement can be re-applied without effect.
	Safe Severity = iota
	// Low indicates the statement fails on re-apply but changes nothing.
	Low
	// Medium indicates the statement fails on re-apply with a duplicate-object error.
	Medium
	// High indicates re-applying duplicates data or the statement cannot be parsed.
	High
)

// String returns the uppercase label for the severity level.
func (s Severity) String() string {
	switch s {
	case Safe:
		return "SAFE"
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// ColorReset ends a span started with Color.
const ColorReset = "\033[0m"

// Color returns an ANSI color code for terminal output.
func (s Severity) Color() string {
	switch s {
	case Safe:
		return "\033[32m" // green
	case Low:
		return "\033[36m" // cyan
	case Medium:
		return "\033[33m" // yellow
	case High:
		return "\033[31m" // red
	default:
		return ColorReset
	}
}
