// Package catalog reflects table, column and constraint metadata from the
// system catalog and caches it per connection.
package catalog

import (
	"context"

	"github.com/leapstack-labs/shiftsql/pkg/core"
)

// Relation kinds as reported by pg_class.relkind.
const (
	KindTable            = "r"
	KindView             = "v"
	KindMaterializedView = "m"
	KindSequence         = "S"
	KindForeignTable     = "f"
)

// Constraint types as reported by pg_constraint.contype.
const (
	ConstraintPrimaryKey = "p"
	ConstraintForeignKey = "f"
	ConstraintUnique     = "u"
)

// RelationInfo is one row of the relations query.
type RelationInfo struct {
	Key            core.RelationKey
	Kind           string
	DistStyle      string // EVEN, KEY, ALL or empty
	OwnerName      string
	ViewDefinition string
	Privileges     string
}

// ColumnInfo is one row of the columns query.
type ColumnInfo struct {
	Key      core.RelationKey
	Name     string
	Type     string // format_type() text
	Encode   string
	DistKey  bool
	SortKey  int // position in the sort key; negative when interleaved
	NotNull  bool
	Default  string
	Comment  string
	Position int
}

// ConstraintInfo is one row of the constraints query. A constraint spanning
// several columns yields one row per column.
type ConstraintInfo struct {
	Key        core.RelationKey
	Type       string
	Name       string
	ConKey     []int
	AttNum     int
	AttName    string
	Definition string
}

// Source runs the catalog queries. The live adapter and the offline
// snapshot store both implement it.
type Source interface {
	DefaultSchema(ctx context.Context) (string, error)
	Relations(ctx context.Context) ([]RelationInfo, error)
	Columns(ctx context.Context) ([]ColumnInfo, error)
	Constraints(ctx context.Context) ([]ConstraintInfo, error)
}
