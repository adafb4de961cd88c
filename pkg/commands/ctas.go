package commands

import (
	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/ddl"
)

// CreateTableAsOptions describes CREATE TABLE ... AS SELECT.
// Start from DefaultCreateTableAsOptions.
type CreateTableAsOptions struct {
	Table     core.RelationKey
	Select    string
	Columns   []string
	Temporary bool
	Backup    bool

	DistSortOptions
}

// DefaultCreateTableAsOptions returns options with backups enabled.
func DefaultCreateTableAsOptions() CreateTableAsOptions {
	return CreateTableAsOptions{Backup: true}
}

// CreateTableAs is a validated CREATE TABLE AS command.
type CreateTableAs struct {
	opts CreateTableAsOptions
	spec ddl.DistSortSpec
}

// NewCreateTableAs validates opts and returns the command.
func NewCreateTableAs(opts CreateTableAsOptions) (*CreateTableAs, error) {
	if opts.Table.IsZero() {
		return nil, incompatible("name", "is required")
	}
	if err := required("query", opts.Select); err != nil {
		return nil, err
	}
	if err := checkRelation("name", opts.Table); err != nil {
		return nil, err
	}
	if err := checkIdentifiers("columns", opts.Columns...); err != nil {
		return nil, err
	}
	if opts.Temporary && opts.Table.Schema != "" {
		return nil, incompatible("temporary", "tables cannot be created in schema %s", opts.Table.Schema)
	}

	spec, err := opts.spec()
	if err != nil {
		return nil, err
	}

	opts.Columns = append([]string(nil), opts.Columns...)
	return &CreateTableAs{opts: opts, spec: spec}, nil
}

// Kind returns "CREATE TABLE AS".
func (*CreateTableAs) Kind() string { return "CREATE TABLE AS" }

// Attributes returns the validated distribution and sort attributes.
func (c *CreateTableAs) Attributes() ddl.DistSortSpec { return c.spec }

func (c *Compiler) compileCreateTableAs(cmd *CreateTableAs) (string, error) {
	o := cmd.opts

	head := "CREATE "
	if o.Temporary {
		head += "TEMPORARY "
	}
	head += "TABLE " + c.dialect.QuoteRelation(o.Table)
	if len(o.Columns) > 0 {
		head += " (" + c.identList(o.Columns) + ")"
	}
	if !o.Backup {
		head += " BACKUP NO"
	}

	attrs, err := ddl.TableAttributes(c.dialect, cmd.spec)
	if err != nil {
		return "", err
	}
	if attrs != "" {
		head += " " + attrs
	}

	var s statement
	s.add(head)
	s.add("AS " + o.Select)
	return s.String(), nil
}
