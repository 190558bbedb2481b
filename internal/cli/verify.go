package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

var verifyCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "verify [schema-path]",
	Short: "Verify that every table the schema creates exists",
	Long: `Compare the tables created by the schema with the base tables present in the
public schema of the target PostgreSQL database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	verifyCmd.Flags().Duration("timeout", 0, "bound the whole run (e.g., 30s)")
	rootCmd.AddCommand(verifyCmd)
}

// tableLister reads the tables present in the target database.
type tableLister interface {
	PublicTables(ctx context.Context) ([]string, error)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg := AppConfig

	stmts, err := loadStatements(schemaSource(args, cfg))
	if err != nil {
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := commandContext(cmd, timeout)
	defer cancel()

	pg, err := connectPostgres(ctx, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer pg.Close(ctx) //nolint:errcheck // best-effort close after run

	return verifyTables(ctx, cmd.OutOrStdout(), pg, stmts)
}

// verifyTables checks that every table created by stmts is present.
func verifyTables(ctx context.Context, out io.Writer, lister tableLister, stmts []schema.Statement) error {
	objs, err := schema.CreatedObjects(stmts)
	if err != nil {
		return fmt.Errorf("reading schema objects: %w", err)
	}

	present, err := lister.PublicTables(ctx)
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}

	have := make(map[string]bool, len(present))
	for _, t := range present {
		have[t] = true
	}

	var missing []string

	for _, t := range objs.Tables {
		name := strings.TrimPrefix(t, "public.")
		if have[name] {
			fmt.Fprintf(out, "  ok       %s\n", name)
		} else {
			fmt.Fprintf(out, "  missing  %s\n", name)

			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		fmt.Fprintf(out, "\n%d of %d table(s) missing.\n", len(missing), len(objs.Tables))

		return fmt.Errorf("%w: %s", errMissingTables, strings.Join(missing, ", "))
	}

	fmt.Fprintf(out, "\nAll %d table(s) present.\n", len(objs.Tables))

	return nil
}
