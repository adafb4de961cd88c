package commands

import (
	"github.com/spf13/cobra"

	sqlcmd "github.com/leapstack-labs/shiftsql/pkg/commands"
)

// NewLibraryCommand creates the library command.
func NewLibraryCommand() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "library <name> <location>",
		Short: "Compile CREATE LIBRARY installing a Python UDF library",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			creds, err := cfg.Credentials.Resolve()
			if err != nil {
				return err
			}
			c, err := sqlcmd.NewCreateLibrary(sqlcmd.LibraryOptions{
				Name:        args[0],
				Location:    args[1],
				Credentials: creds,
				Replace:     replace,
				Region:      cfg.Credentials.Region,
			})
			if err != nil {
				return err
			}
			return emit(cmd, c)
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace an existing library")
	addExecuteFlag(cmd)

	return cmd
}
