package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aqasim81/reservation-provisioner/internal/database"
	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

var resetCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "reset [schema-path]",
	Short: "Drop all public tables, re-apply the schema and verify it",
	Long: `Drop every base table in the public schema together with the functions the
schema defines, apply the schema from scratch, then verify that every table it
creates exists. Intended for development databases.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReset,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	resetCmd.Flags().Bool("yes", false, "confirm dropping every table in the public schema")
	resetCmd.Flags().Duration("timeout", 0, "bound the whole run (e.g., 5m)")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return errConfirmationRequired
	}

	cfg := AppConfig

	stmts, err := loadStatements(schemaSource(args, cfg))
	if err != nil {
		return err
	}

	objs, err := schema.CreatedObjects(stmts)
	if err != nil {
		return fmt.Errorf("reading schema objects: %w", err)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := commandContext(cmd, timeout)
	defer cancel()

	out := cmd.OutOrStdout()

	pg, err := connectPostgres(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer pg.Close(ctx) //nolint:errcheck // best-effort close after run

	tables, err := pg.PublicTables(ctx)
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}

	drops := schema.FromStrings(database.DropStatements(tables, objs.Functions)...)
	if len(drops) > 0 {
		fmt.Fprintf(out, "Dropping %d table(s) and %d function(s)\n", len(tables), len(objs.Functions))

		if err := applyStatements(ctx, out, pg, drops, applyOpts{}); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\nApplying %d statement(s)\n", len(stmts))

	if err := applyStatements(ctx, out, pg, stmts, applyOpts{pause: cfg.Pause}); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nVerifying tables")

	return verifyTables(ctx, out, pg, stmts)
}
