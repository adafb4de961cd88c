package commands

import (
	"github.com/spf13/cobra"

	sqlcmd "github.com/leapstack-labs/shiftsql/pkg/commands"
)

// distSortFlags are the table attribute flags shared by ctas and mview create.
type distSortFlags struct {
	distStyle   string
	distKey     string
	sortKey     []string
	interleaved bool
	noBackup    bool
}

func (f *distSortFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.distStyle, "diststyle", "", "Distribution style: even, key, all")
	fl.StringVar(&f.distKey, "distkey", "", "Distribution key column")
	fl.StringSliceVar(&f.sortKey, "sortkey", nil, "Sort key columns")
	fl.BoolVar(&f.interleaved, "interleaved", false, "Use an interleaved sort key")
	fl.BoolVar(&f.noBackup, "no-backup", false, "Exclude the table from snapshots (BACKUP NO)")
}

func (f *distSortFlags) options() sqlcmd.DistSortOptions {
	o := sqlcmd.DistSortOptions{
		DistStyle: f.distStyle,
		DistKey:   f.distKey,
		SortKey:   f.sortKey,
	}
	if f.interleaved {
		o.SortKeyType = "INTERLEAVED"
	}
	return o
}

// NewCTASCommand creates the ctas command.
func NewCTASCommand() *cobra.Command {
	var (
		ds        distSortFlags
		columns   []string
		temporary bool
	)

	cmd := &cobra.Command{
		Use:   "ctas <table> <select>",
		Short: "Compile a CREATE TABLE AS statement",
		Example: `  shiftsql ctas analytics.daily_orders "SELECT order_date, count(*) FROM sales.orders GROUP BY 1" \
    --diststyle key --distkey order_date --sortkey order_date`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := parseKey(args[0])
			if err != nil {
				return err
			}
			opts := sqlcmd.DefaultCreateTableAsOptions()
			opts.Table = table
			opts.Select = args[1]
			opts.Columns = columns
			opts.Temporary = temporary
			opts.Backup = !ds.noBackup
			opts.DistSortOptions = ds.options()

			c, err := sqlcmd.NewCreateTableAs(opts)
			if err != nil {
				return err
			}
			return emit(cmd, c)
		},
	}

	ds.register(cmd)
	cmd.Flags().StringSliceVar(&columns, "column", nil, "Column names of the new table")
	cmd.Flags().BoolVar(&temporary, "temporary", false, "Create a temporary table")
	addExecuteFlag(cmd)

	return cmd
}
