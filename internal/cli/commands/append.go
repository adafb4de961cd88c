package commands

import (
	"github.com/spf13/cobra"

	sqlcmd "github.com/leapstack-labs/shiftsql/pkg/commands"
)

// NewAppendCommand creates the append command.
func NewAppendCommand() *cobra.Command {
	var fillTarget, ignoreExtra bool

	cmd := &cobra.Command{
		Use:   "append <target> <source>",
		Short: "Compile ALTER TABLE APPEND moving rows between tables",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseKey(args[0])
			if err != nil {
				return err
			}
			source, err := parseKey(args[1])
			if err != nil {
				return err
			}
			c, err := sqlcmd.NewAlterTableAppend(sqlcmd.AppendOptions{
				Target:      target,
				Source:      source,
				FillTarget:  fillTarget,
				IgnoreExtra: ignoreExtra,
			})
			if err != nil {
				return err
			}
			return emit(cmd, c)
		},
	}

	cmd.Flags().BoolVar(&fillTarget, "fill-target", false, "Fill target-only columns with defaults")
	cmd.Flags().BoolVar(&ignoreExtra, "ignore-extra", false, "Ignore source-only columns")
	addExecuteFlag(cmd)

	return cmd
}
