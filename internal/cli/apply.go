package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
	"github.com/aqasim81/reservation-provisioner/internal/applier"
	"github.com/aqasim81/reservation-provisioner/internal/database"
	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

var applyCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "apply [schema-path]",
	Short: "Apply schema statements to the database",
	Long: `Apply every statement of a schema file, a directory of .sql files, or the
built-in reservation schema, in order. Failing statements are reported and
skipped; only a lost connection stops the run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	applyCmd.Flags().Bool("dry-run", false, "list the statements without executing them")
	applyCmd.Flags().Duration("pause", 0, "wait between statements (e.g., 1s)")
	applyCmd.Flags().Duration("timeout", 0, "bound the whole run (e.g., 5m)")
	applyCmd.Flags().Bool("fail-on-error", false, "exit non-zero if a statement failed for a reason other than already existing")
	rootCmd.AddCommand(applyCmd)
}

const listWidth = 100

type applyOpts struct {
	dryRun      bool
	pause       time.Duration
	failOnError bool
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg := AppConfig

	opts := applyOpts{pause: cfg.Pause}
	opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.failOnError, _ = cmd.Flags().GetBool("fail-on-error")

	if cmd.Flags().Changed("pause") {
		opts.pause, _ = cmd.Flags().GetDuration("pause")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")

	source := schemaSource(args, cfg)

	stmts, err := loadStatements(source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded %d statement(s) from %s\n", len(stmts), describeSource(source))

	ctx, cancel := commandContext(cmd, timeout)
	defer cancel()

	var h database.Handle

	if !opts.dryRun {
		h, err = connect(ctx, cfg, out)
		if err != nil {
			return err
		}
		defer database.Close(ctx, h) //nolint:errcheck // best-effort close after run
	}

	return applyStatements(ctx, out, h, stmts, opts)
}

// applyStatements runs stmts on h and prints the summary.
func applyStatements(
	ctx context.Context,
	out io.Writer,
	h database.Handle,
	stmts []schema.Statement,
	opts applyOpts,
) error {
	a := applier.New(
		applier.WithLogger(logger()),
		applier.WithPause(opts.pause),
		applier.WithDryRun(opts.dryRun),
	)

	if opts.dryRun {
		fmt.Fprintln(out, "\n--- DRY RUN (no changes will be made) ---")
	}

	summary, err := a.Apply(ctx, stmts, h)
	if err != nil {
		return fmt.Errorf("apply aborted: %w", err)
	}

	if opts.dryRun {
		for i := range summary.Results {
			s := summary.Results[i].Statement
			fmt.Fprintf(out, "  %3d  %s\n", s.Ordinal, analyzer.TruncateSQL(s.SQL, listWidth))
		}

		fmt.Fprintf(out, "\nDry run complete: %d statement(s) would be applied.\n", len(summary.Results))

		return nil
	}

	printSummary(out, summary)

	if opts.failOnError && len(summary.Unexpected()) > 0 {
		return errUnexpectedFailures
	}

	return nil
}

func printSummary(out io.Writer, summary *applier.Summary) {
	if len(summary.Failures) > 0 {
		fmt.Fprintln(out, "\nFailed statements:")

		for _, f := range summary.Failures {
			label := "error"
			if f.AlreadyExists {
				label = "exists"
			}

			if f.Code != "" {
				fmt.Fprintf(out, "  #%d [%s %s] %s\n", f.Ordinal, label, f.Code, f.Message)
			} else {
				fmt.Fprintf(out, "  #%d [%s] %s\n", f.Ordinal, label, f.Message)
			}
		}
	}

	fmt.Fprintf(out, "\nApply complete: %d/%d succeeded, %d failed (%d already existed).\n",
		summary.Succeeded, summary.Attempted, len(summary.Failures), summary.AlreadyExistsCount())
}
