package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shiftsql/pkg/catalog"
	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/ddl"
	"github.com/leapstack-labs/shiftsql/pkg/dialect"
)

// relationOutput is the structured form of inspect.
type relationOutput struct {
	ddl.Table `yaml:",inline"`

	Kind           string `json:"kind" yaml:"kind"`
	Owner          string `json:"owner,omitempty" yaml:"owner,omitempty"`
	ViewDefinition string `json:"view_definition,omitempty" yaml:"view_definition,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	var (
		snapshotID string
		showDDL    bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <table>",
		Short: "Reflect a table or view from the catalog",
		Long: `Reflect the columns, constraints and distribution attributes of a table
or view, from the live target or from a saved snapshot.`,
		Example: `  # Describe a table on the configured cluster
  shiftsql inspect sales.orders

  # Rebuild its CREATE TABLE statement from the latest snapshot
  shiftsql inspect sales.orders --snapshot latest --ddl

  # Machine readable
  shiftsql inspect sales.orders -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], snapshotID, showDDL)
		},
	}

	cmd.Flags().StringVar(&snapshotID, "snapshot", "", "Read from a saved snapshot id (or \"latest\") instead of the target")
	cmd.Flags().BoolVar(&showDDL, "ddl", false, "Print the reconstructed CREATE statement")

	return cmd
}

func runInspect(cmd *cobra.Command, ref, snapshotID string, showDDL bool) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	key, err := core.ParseRelationKey(ref)
	if err != nil {
		return fmt.Errorf("invalid relation %q: %w", ref, err)
	}

	src, cleanup, err := cc.catalogSource(ctx, snapshotID)
	if err != nil {
		return err
	}
	defer cleanup()

	r := catalog.NewReflector(src, cc.Logger)
	rel, err := r.GetRelation(ctx, key)
	if err != nil {
		return err
	}
	t, err := r.Table(ctx, key)
	if err != nil {
		return err
	}

	out := relationOutput{Table: t, Kind: kindName(rel.Kind), Owner: rel.OwnerName, ViewDefinition: rel.ViewDefinition}
	w := cmd.OutOrStdout()

	if showDDL {
		d, err := cc.targetDialect()
		if err != nil {
			return err
		}
		text, err := createStatement(d, out)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s;\n", text)
		return err
	}

	if ok, err := writeStructured(w, cc.Cfg.Output, out); ok {
		return err
	}
	renderRelation(w, out)
	return nil
}

func kindName(kind string) string {
	switch kind {
	case catalog.KindTable:
		return "table"
	case catalog.KindView:
		return "view"
	case catalog.KindMaterializedView:
		return "materialized view"
	case catalog.KindForeignTable:
		return "foreign table"
	case catalog.KindSequence:
		return "sequence"
	default:
		return kind
	}
}

func createStatement(d *dialect.Dialect, rel relationOutput) (string, error) {
	switch rel.Kind {
	case "view":
		return "CREATE VIEW " + d.QuoteRelation(rel.Key) + " AS\n" + strings.TrimSuffix(strings.TrimSpace(rel.ViewDefinition), ";"), nil
	case "materialized view":
		return "CREATE MATERIALIZED VIEW " + d.QuoteRelation(rel.Key) + " AS\n" + strings.TrimSuffix(strings.TrimSpace(rel.ViewDefinition), ";"), nil
	default:
		return ddl.CreateTable(d, rel.Table)
	}
}

func renderRelation(w io.Writer, rel relationOutput) {
	title := rel.Key.String()
	if rel.Owner != "" {
		title += " (owner " + rel.Owner + ")"
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(rel.Kind[:1])+rel.Kind[1:], title)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type", "Nullable", "Default", "Encode"})
	for _, c := range rel.Columns {
		def := c.Default
		if c.Identity != nil {
			def = c.Identity.String()
		}
		nullable := "YES"
		if !c.Nullable {
			nullable = "NO"
		}
		t.AppendRow(table.Row{c.Name, c.Type, nullable, def, c.Encode})
	}
	t.Render()

	a := rel.Attributes
	if a.DistStyle != ddl.DistStyleNone || a.DistKey != "" {
		line := "Distribution: " + string(a.DistStyle)
		if a.DistKey != "" {
			line = strings.TrimSpace(line + " (" + a.DistKey + ")")
		}
		_, _ = fmt.Fprintln(w, line)
	}
	switch {
	case a.Interleaved():
		_, _ = fmt.Fprintf(w, "Sort key: interleaved (%s)\n", strings.Join(a.InterleavedSortKey, ", "))
	case len(a.SortKey) > 0:
		_, _ = fmt.Fprintf(w, "Sort key: compound (%s)\n", strings.Join(a.SortKey, ", "))
	}
	if len(rel.PrimaryKey.Columns) > 0 {
		_, _ = fmt.Fprintf(w, "Primary key: %s (%s)\n", rel.PrimaryKey.Name, strings.Join(rel.PrimaryKey.Columns, ", "))
	}
	for _, u := range rel.UniqueConstraints {
		_, _ = fmt.Fprintf(w, "Unique: %s (%s)\n", u.Name, strings.Join(u.Columns, ", "))
	}
	for _, fk := range rel.ForeignKeys {
		_, _ = fmt.Fprintf(w, "Foreign key: %s (%s) -> %s (%s)\n",
			fk.Name, strings.Join(fk.Columns, ", "), fk.ReferredTable, strings.Join(fk.ReferredColumns, ", "))
	}
	if rel.ViewDefinition != "" {
		_, _ = fmt.Fprintf(w, "Definition:\n%s\n", rel.ViewDefinition)
	}
}
