package commands

import (
	"github.com/spf13/cobra"

	sqlcmd "github.com/leapstack-labs/shiftsql/pkg/commands"
)

// NewMViewCommand creates the mview command and its create, drop and
// refresh subcommands.
func NewMViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mview",
		Short: "Compile materialized view statements",
	}

	cmd.AddCommand(newMViewCreateCommand())
	cmd.AddCommand(newMViewDropCommand())
	cmd.AddCommand(newMViewRefreshCommand())

	return cmd
}

func newMViewCreateCommand() *cobra.Command {
	var (
		ds          distSortFlags
		replace     bool
		autoRefresh bool
	)

	cmd := &cobra.Command{
		Use:   "create <name> <select>",
		Short: "Compile CREATE MATERIALIZED VIEW",
		Example: `  shiftsql mview create analytics.order_totals "SELECT customer_id, sum(total) FROM sales.orders GROUP BY 1" \
    --auto-refresh --distkey customer_id`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parseKey(args[0])
			if err != nil {
				return err
			}
			opts := sqlcmd.DefaultMaterializedViewOptions()
			opts.Name = name
			opts.Select = args[1]
			opts.Replace = replace
			opts.AutoRefresh = autoRefresh
			opts.Backup = !ds.noBackup
			opts.DistSortOptions = ds.options()

			c, err := sqlcmd.NewCreateMaterializedView(opts)
			if err != nil {
				return err
			}
			return emit(cmd, c)
		},
	}

	ds.register(cmd)
	cmd.Flags().BoolVar(&replace, "replace", false, "Replace an existing view")
	cmd.Flags().BoolVar(&autoRefresh, "auto-refresh", false, "Refresh automatically")
	addExecuteFlag(cmd)

	return cmd
}

func newMViewDropCommand() *cobra.Command {
	var ifExists, cascade bool

	cmd := &cobra.Command{
		Use:   "drop <name>",
		Short: "Compile DROP MATERIALIZED VIEW",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parseKey(args[0])
			if err != nil {
				return err
			}
			c, err := sqlcmd.NewDropMaterializedView(name, ifExists, cascade)
			if err != nil {
				return err
			}
			return emit(cmd, c)
		},
	}

	cmd.Flags().BoolVar(&ifExists, "if-exists", false, "Do nothing if the view does not exist")
	cmd.Flags().BoolVar(&cascade, "cascade", false, "Drop dependent objects")
	addExecuteFlag(cmd)

	return cmd
}

func newMViewRefreshCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh <name>",
		Short: "Compile REFRESH MATERIALIZED VIEW",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parseKey(args[0])
			if err != nil {
				return err
			}
			c, err := sqlcmd.NewRefreshMaterializedView(name)
			if err != nil {
				return err
			}
			return emit(cmd, c)
		},
	}

	addExecuteFlag(cmd)
	return cmd
}
