package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shiftsql/pkg/catalog"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var (
		snapshotID string
		views      bool
	)

	cmd := &cobra.Command{
		Use:   "tables [schema]",
		Short: "List the tables (or views) of a schema",
		Long: `List the tables of a schema in catalog order. Without a schema argument the
connection's default schema is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			ctx := cmd.Context()

			schema := ""
			if len(args) == 1 {
				schema = args[0]
			}

			src, cleanup, err := cc.catalogSource(ctx, snapshotID)
			if err != nil {
				return err
			}
			defer cleanup()

			r := catalog.NewReflector(src, cc.Logger)
			var names []string
			if views {
				names, err = r.GetViewNames(ctx, schema)
			} else {
				names, err = r.GetTableNames(ctx, schema)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if ok, err := writeStructured(w, cc.Cfg.Output, names); ok {
				return err
			}
			for _, n := range names {
				_, _ = fmt.Fprintln(w, n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotID, "snapshot", "", "Read from a saved snapshot id (or \"latest\")")
	cmd.Flags().BoolVar(&views, "views", false, "List views instead of tables")

	return cmd
}
