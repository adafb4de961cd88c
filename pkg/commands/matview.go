package commands

import (
	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/ddl"
)

// MaterializedViewOptions describes CREATE MATERIALIZED VIEW.
// Start from DefaultMaterializedViewOptions.
type MaterializedViewOptions struct {
	Name        core.RelationKey
	Select      string
	Replace     bool
	Backup      bool
	AutoRefresh bool

	DistSortOptions
}

// DefaultMaterializedViewOptions returns options with backups enabled.
func DefaultMaterializedViewOptions() MaterializedViewOptions {
	return MaterializedViewOptions{Backup: true}
}

// CreateMaterializedView is a validated CREATE MATERIALIZED VIEW command.
type CreateMaterializedView struct {
	opts MaterializedViewOptions
	spec ddl.DistSortSpec
}

// NewCreateMaterializedView validates opts and returns the command.
func NewCreateMaterializedView(opts MaterializedViewOptions) (*CreateMaterializedView, error) {
	if opts.Name.IsZero() {
		return nil, incompatible("name", "is required")
	}
	if err := checkRelation("name", opts.Name); err != nil {
		return nil, err
	}
	if err := required("selectable", opts.Select); err != nil {
		return nil, err
	}
	spec, err := opts.spec()
	if err != nil {
		return nil, err
	}
	return &CreateMaterializedView{opts: opts, spec: spec}, nil
}

// Kind returns "CREATE MATERIALIZED VIEW".
func (*CreateMaterializedView) Kind() string { return "CREATE MATERIALIZED VIEW" }

// DropMaterializedView is DROP MATERIALIZED VIEW.
type DropMaterializedView struct {
	name     core.RelationKey
	ifExists bool
	cascade  bool
}

// NewDropMaterializedView returns a drop command for name.
func NewDropMaterializedView(name core.RelationKey, ifExists, cascade bool) (*DropMaterializedView, error) {
	if name.IsZero() {
		return nil, incompatible("name", "is required")
	}
	if err := checkRelation("name", name); err != nil {
		return nil, err
	}
	return &DropMaterializedView{name: name, ifExists: ifExists, cascade: cascade}, nil
}

// Kind returns "DROP MATERIALIZED VIEW".
func (*DropMaterializedView) Kind() string { return "DROP MATERIALIZED VIEW" }

// RefreshMaterializedView is REFRESH MATERIALIZED VIEW.
type RefreshMaterializedView struct {
	name core.RelationKey
}

// NewRefreshMaterializedView returns a refresh command for name.
func NewRefreshMaterializedView(name core.RelationKey) (*RefreshMaterializedView, error) {
	if name.IsZero() {
		return nil, incompatible("name", "is required")
	}
	if err := checkRelation("name", name); err != nil {
		return nil, err
	}
	return &RefreshMaterializedView{name: name}, nil
}

// Kind returns "REFRESH MATERIALIZED VIEW".
func (*RefreshMaterializedView) Kind() string { return "REFRESH MATERIALIZED VIEW" }

func (c *Compiler) compileCreateMaterializedView(cmd *CreateMaterializedView) (string, error) {
	o := cmd.opts

	head := "CREATE "
	if o.Replace {
		head += "OR REPLACE "
	}
	head += "MATERIALIZED VIEW " + c.dialect.QuoteRelation(o.Name)
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
	if o.AutoRefresh {
		head += " AUTO REFRESH YES"
	}

	var s statement
	s.add(head)
	s.add("AS " + o.Select)
	return s.String(), nil
}

func (c *Compiler) compileDropMaterializedView(cmd *DropMaterializedView) string {
	sql := "DROP MATERIALIZED VIEW "
	if cmd.ifExists {
		sql += "IF EXISTS "
	}
	sql += c.dialect.QuoteRelation(cmd.name)
	if cmd.cascade {
		sql += " CASCADE"
	}
	return sql
}

func (c *Compiler) compileRefreshMaterializedView(cmd *RefreshMaterializedView) string {
	return "REFRESH MATERIALIZED VIEW " + c.dialect.QuoteRelation(cmd.name)
}
