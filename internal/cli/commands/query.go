package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	// sqlite driver for snapshot database queries.
	_ "modernc.org/sqlite"
)

// openSnapshotDBReadOnly opens the snapshot database in read-only mode.
func openSnapshotDBReadOnly(path string) (*sql.DB, error) {
	return sql.Open("sqlite", "file:"+path+"?mode=ro")
}

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the snapshot database",
		Long: `Run read-only SQL against the local snapshot database.

Saved catalogs live in the snapshots, relations, columns and constraints
tables, so history can be compared across snapshots with plain SQL.`,
		Example: `  # Execute SQL directly
  shiftsql query "SELECT id, label, created_at FROM snapshots"

  # Columns whose type changed between two snapshots
  shiftsql query -i drift.sql --format json

  # List available tables
  shiftsql query tables

  # Show schema for a table
  shiftsql query schema columns`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", formatTable, "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

// snapshotPath returns the configured snapshot database, which must exist.
func snapshotPath(cmd *cobra.Command) (string, error) {
	path := NewCommandContext(cmd).Cfg.Snapshot.Path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("snapshot database not found at %s (run 'shiftsql snapshot save' first)", path)
	}
	return path, nil
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read query file: %w", err)
		}
		text = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(content)
	default:
		return fmt.Errorf("no query given: pass SQL as an argument, with --input, or on stdin")
	}

	return withSnapshotDB(cmd, func(ctx context.Context, db *sql.DB) error {
		rows, err := db.QueryContext(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to run query: %w", err)
		}
		defer func() { _ = rows.Close() }()
		return renderResults(cmd.OutOrStdout(), rows, opts.Format)
	})
}

// withSnapshotDB opens the configured snapshot database read-only for the
// duration of fn.
func withSnapshotDB(cmd *cobra.Command, fn func(context.Context, *sql.DB) error) error {
	path, err := snapshotPath(cmd)
	if err != nil {
		return err
	}
	db, err := openSnapshotDBReadOnly(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot database: %w", err)
	}
	defer func() { _ = db.Close() }()

	NewCommandContext(cmd).Logger.Debug("querying snapshot database", "path", path)
	return fn(cmd.Context(), db)
}

func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the snapshot database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSnapshotDB(cmd, func(ctx context.Context, db *sql.DB) error {
				return listTablesFromDB(ctx, cmd.OutOrStdout(), db, opts.Format)
			})
		},
	}
}

func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show the columns and indexes of a snapshot database table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshotDB(cmd, func(ctx context.Context, db *sql.DB) error {
				return showSchemaFromDB(ctx, cmd.OutOrStdout(), db, args[0], opts.Format)
			})
		},
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
