package commands

import (
	"github.com/leapstack-labs/shiftsql/pkg/core"
)

// AppendOptions describes ALTER TABLE ... APPEND FROM.
type AppendOptions struct {
	Target      core.RelationKey
	Source      core.RelationKey
	FillTarget  bool
	IgnoreExtra bool
}

// AlterTableAppend is a validated ALTER TABLE APPEND command.
type AlterTableAppend struct {
	opts AppendOptions
}

// NewAlterTableAppend validates opts and returns the command.
func NewAlterTableAppend(opts AppendOptions) (*AlterTableAppend, error) {
	if opts.Target.IsZero() {
		return nil, incompatible("target", "is required")
	}
	if opts.Source.IsZero() {
		return nil, incompatible("source", "is required")
	}
	if err := checkRelation("target", opts.Target); err != nil {
		return nil, err
	}
	if err := checkRelation("source", opts.Source); err != nil {
		return nil, err
	}
	if opts.FillTarget && opts.IgnoreExtra {
		return nil, incompatible("ignore_extra", `cannot be used with "fill_target"`)
	}
	return &AlterTableAppend{opts: opts}, nil
}

// Kind returns "ALTER TABLE APPEND".
func (*AlterTableAppend) Kind() string { return "ALTER TABLE APPEND" }

func (c *Compiler) compileAlterTableAppend(cmd *AlterTableAppend) string {
	o := cmd.opts
	sql := "ALTER TABLE " + c.dialect.QuoteRelation(o.Target) + " APPEND FROM " + c.dialect.QuoteRelation(o.Source)
	switch {
	case o.FillTarget:
		sql += " FILLTARGET"
	case o.IgnoreExtra:
		sql += " IGNOREEXTRA"
	}
	return sql
}
