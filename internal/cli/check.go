package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
	"github.com/aqasim81/reservation-provisioner/internal/analyzer/rules"
	"github.com/aqasim81/reservation-provisioner/internal/logging"
	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

var checkCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "check [schema-path]",
	Short: "Check that a schema can be applied more than once",
	Long: `Parse every schema statement with the PostgreSQL parser and report the ones
that fail or duplicate data when the schema is applied a second time, with a
re-runnable alternative for each. No database connection is made.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	checkCmd.Flags().Bool("fail-on-high", false, "exit with non-zero code if high severity findings exist")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	source := schemaSource(args, AppConfig)

	stmts, err := loadStatements(source)
	if err != nil {
		return err
	}

	result, err := checkStatements(stmts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printFindings(out, result, logging.IsTerminal(out))

	failOnHigh, _ := cmd.Flags().GetBool("fail-on-high")
	if failOnHigh && result.HasHigh() {
		return errHighSeverityFindings
	}

	return nil
}

func checkStatements(stmts []schema.Statement) (*analyzer.Result, error) {
	a := analyzer.New(analyzer.WithRegistry(rules.NewDefaultRegistry()))

	result, err := a.Analyze(stmts)
	if err != nil {
		return nil, fmt.Errorf("checking schema: %w", err)
	}

	return result, nil
}

func printFindings(out io.Writer, result *analyzer.Result, color bool) {
	for _, f := range result.Findings {
		fmt.Fprintf(out, "\n#%d [%s] %s\n", f.Ordinal, severityLabel(f.Severity, color), f.Message)

		if f.Object != "" {
			fmt.Fprintf(out, "    Object: %s\n", f.Object)
		}

		fmt.Fprintf(out, "    Rule:   %s\n", f.Rule)
		fmt.Fprintf(out, "    SQL:    %s\n", f.Statement)
		fmt.Fprintf(out, "    Fix:    %s\n", f.Suggestion)
	}

	if result.Rerunnable() {
		fmt.Fprintf(out, "All %d statement(s) can be re-applied safely.\n", result.Statements)

		return
	}

	counts := result.CountBySeverity()
	fmt.Fprintf(out, "\nFound %d finding(s) in %d statement(s): %d high, %d medium, %d low.\n",
		len(result.Findings), result.Statements,
		counts[analyzer.High], counts[analyzer.Medium], counts[analyzer.Low])
}

func severityLabel(s analyzer.Severity, color bool) string {
	if !color {
		return s.String()
	}

	return s.Color() + s.String() + analyzer.ColorReset
}
