package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shiftsql/internal/snapshot"
)

// NewSnapshotCommand creates the snapshot command and its subcommands.
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and manage offline catalog snapshots",
		Long: `Capture the system catalog of the configured target into a local SQLite
database so that inspect and tables can run without a connection.`,
	}

	cmd.AddCommand(newSnapshotSaveCommand())
	cmd.AddCommand(newSnapshotListCommand())
	cmd.AddCommand(newSnapshotDeleteCommand())

	return cmd
}

func newSnapshotSaveCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Capture the target's catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			ctx := cmd.Context()

			a, cleanup, err := cc.connect(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			store, err := cc.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snap, err := store.Save(ctx, a, snapshot.SaveOptions{
				Label:  label,
				Source: cc.Cfg.Target.AdapterConfig().Endpoint(),
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if ok, err := writeStructured(w, cc.Cfg.Output, snap); ok {
				return err
			}
			_, err = fmt.Fprintf(w, "Saved snapshot %s (%d relations, %d columns, %d constraints)\n",
				snap.ID, snap.Relations, snap.Columns, snap.Constraints)
			return err
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Free-form label stored with the snapshot")
	return cmd
}

func newSnapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)

			store, err := cc.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snaps, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if snaps == nil {
				snaps = []snapshot.Snapshot{}
			}

			w := cmd.OutOrStdout()
			if ok, err := writeStructured(w, cc.Cfg.Output, snaps); ok {
				return err
			}
			renderSnapshots(w, snaps)
			return nil
		},
	}
}

func newSnapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)

			store, err := cc.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cc.Logger.Info("snapshot deleted", "id", args[0])
			return nil
		},
	}
}

func renderSnapshots(w io.Writer, snaps []snapshot.Snapshot) {
	if len(snaps) == 0 {
		_, _ = fmt.Fprintln(w, "(no snapshots)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Created", "Label", "Source", "Schema", "Relations", "Columns"})
	for _, s := range snaps {
		t.AppendRow(table.Row{
			s.ID, s.CreatedAt.Local().Format(time.DateTime), s.Label, s.Source,
			s.DefaultSchema, s.Relations, s.Columns,
		})
	}
	t.Render()
}
