package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/leapstack-labs/shiftsql/pkg/condef"
	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/ddl"
	"github.com/leapstack-labs/shiftsql/pkg/dialects/redshift"
)

// Index is a secondary index. The database has none, so GetIndexes always
// returns an empty list.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// GetColumns returns the columns of key with normalized types, identity
// columns recovered from their default expression and the "none" encoding
// dropped.
func (r *Reflector) GetColumns(ctx context.Context, key core.RelationKey) ([]ddl.Column, error) {
	infos, err := r.GetColumnInfo(ctx, key)
	if err != nil {
		return nil, err
	}
	cols := make([]ddl.Column, len(infos))
	for i, info := range infos {
		cols[i] = columnFromInfo(info)
	}
	return cols, nil
}

func columnFromInfo(info ColumnInfo) ddl.Column {
	col := ddl.Column{
		Name:     info.Name,
		Type:     redshift.NormalizeType(info.Type),
		Nullable: !info.NotNull,
		Default:  info.Default,
		Comment:  info.Comment,
	}
	if id, ok := ddl.ParseIdentity(info.Default); ok {
		col.Identity = &id
		col.Default = ""
	}
	if info.Encode != "" && info.Encode != "none" {
		col.Encode = info.Encode
	}
	return col
}

// GetPrimaryKey returns the primary key of key. A table without one yields
// a PrimaryKey with no columns.
func (r *Reflector) GetPrimaryKey(ctx context.Context, key core.RelationKey) (ddl.PrimaryKey, error) {
	cons, err := r.GetConstraints(ctx, key)
	if err != nil {
		return ddl.PrimaryKey{}, err
	}
	for _, con := range cons {
		if con.Type != ConstraintPrimaryKey {
			continue
		}
		cols, err := condef.ParsePrimaryKey(con.Definition)
		if err != nil {
			return ddl.PrimaryKey{}, fmt.Errorf("failed to parse primary key %s of %s: %w", con.Name, key, err)
		}
		return ddl.PrimaryKey{Name: con.Name, Columns: cols}, nil
	}
	return ddl.PrimaryKey{}, nil
}

// GetForeignKeys returns the foreign keys of key in catalog order.
func (r *Reflector) GetForeignKeys(ctx context.Context, key core.RelationKey) ([]ddl.ForeignKey, error) {
	cons, err := r.GetConstraints(ctx, key)
	if err != nil {
		return nil, err
	}

	var fks []ddl.ForeignKey
	seen := make(map[string]bool)
	for _, con := range cons {
		if con.Type != ConstraintForeignKey || seen[con.Name] {
			continue
		}
		seen[con.Name] = true

		parsed, err := condef.Parse(con.Definition)
		if err != nil {
			return nil, fmt.Errorf("failed to parse foreign key %s of %s: %w", con.Name, key, err)
		}
		if parsed.Kind != condef.ForeignKey {
			return nil, fmt.Errorf("constraint %s of %s is a %s, not a foreign key", con.Name, key, parsed.Kind)
		}
		fks = append(fks, ddl.ForeignKey{
			Name:            con.Name,
			Columns:         parsed.Columns,
			ReferredTable:   parsed.ReferredKey(),
			ReferredColumns: parsed.ReferredColumns,
		})
	}
	return fks, nil
}

// GetUniqueConstraints returns the unique constraints of key with columns
// in constraint key order.
func (r *Reflector) GetUniqueConstraints(ctx context.Context, key core.RelationKey) ([]ddl.UniqueConstraint, error) {
	cons, err := r.GetConstraints(ctx, key)
	if err != nil {
		return nil, err
	}

	type unique struct {
		conkey []int
		names  map[int]string
	}
	var order []string
	byName := make(map[string]*unique)
	for _, con := range cons {
		if con.Type != ConstraintUnique {
			continue
		}
		u, ok := byName[con.Name]
		if !ok {
			u = &unique{names: make(map[int]string)}
			byName[con.Name] = u
			order = append(order, con.Name)
		}
		u.conkey = con.ConKey
		u.names[con.AttNum] = con.AttName
	}

	uniques := make([]ddl.UniqueConstraint, 0, len(order))
	for _, name := range order {
		u := byName[name]
		cols := make([]string, 0, len(u.conkey))
		for _, attnum := range u.conkey {
			col, ok := u.names[attnum]
			if !ok {
				return nil, fmt.Errorf("unique constraint %s of %s refers to unknown column %d", name, key, attnum)
			}
			cols = append(cols, col)
		}
		uniques = append(uniques, ddl.UniqueConstraint{Name: name, Columns: cols})
	}
	return uniques, nil
}

// GetTableOptions reconstructs the distribution and sort attributes of key.
// Sort key columns are ordered by the absolute catalog position; any
// negative position makes the whole sort key interleaved.
func (r *Reflector) GetTableOptions(ctx context.Context, key core.RelationKey) (ddl.DistSortSpec, error) {
	rel, err := r.GetRelation(ctx, key)
	if err != nil {
		return ddl.DistSortSpec{}, err
	}
	cols, err := r.GetColumnInfo(ctx, key)
	if err != nil {
		return ddl.DistSortSpec{}, err
	}

	style, err := ddl.ParseDistStyle(rel.DistStyle)
	if err != nil {
		return ddl.DistSortSpec{}, fmt.Errorf("relation %s: %w", key, err)
	}
	spec := ddl.DistSortSpec{DistStyle: style}

	var sortCols []ColumnInfo
	for _, c := range cols {
		if c.DistKey && spec.DistKey == "" {
			spec.DistKey = c.Name
		}
		if c.SortKey != 0 {
			sortCols = append(sortCols, c)
		}
	}
	sort.SliceStable(sortCols, func(i, j int) bool {
		return abs(sortCols[i].SortKey) < abs(sortCols[j].SortKey)
	})

	interleaved := false
	sortKey := make([]string, 0, len(sortCols))
	for _, c := range sortCols {
		interleaved = interleaved || c.SortKey < 0
		sortKey = append(sortKey, c.Name)
	}
	if len(sortKey) > 0 {
		if interleaved {
			spec.InterleavedSortKey = sortKey
		} else {
			spec.SortKey = sortKey
		}
	}
	return spec, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// GetTableNames lists the tables of schema; an empty schema means the
// default one.
func (r *Reflector) GetTableNames(ctx context.Context, schema string) ([]string, error) {
	return r.relationNames(ctx, schema, KindTable)
}

// GetViewNames lists the views of schema; an empty schema means the
// default one.
func (r *Reflector) GetViewNames(ctx context.Context, schema string) ([]string, error) {
	return r.relationNames(ctx, schema, KindView)
}

func (r *Reflector) relationNames(ctx context.Context, schema, kind string) ([]string, error) {
	snap, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if schema == "" {
		schema = snap.defaultSchema
	}
	names := []string{}
	for _, key := range snap.order {
		if key.Schema == schema && snap.relations[key].Kind == kind {
			names = append(names, key.Name)
		}
	}
	return names, nil
}

// GetViewDefinition returns the SELECT text of a view.
func (r *Reflector) GetViewDefinition(ctx context.Context, key core.RelationKey) (string, error) {
	rel, err := r.GetRelation(ctx, key)
	if err != nil {
		return "", err
	}
	if rel.Kind != KindView && rel.Kind != KindMaterializedView {
		return "", fmt.Errorf("%s is not a view", rel.Key)
	}
	return rel.ViewDefinition, nil
}

// GetIndexes returns no indexes for an existing relation.
func (r *Reflector) GetIndexes(ctx context.Context, key core.RelationKey) ([]Index, error) {
	if _, err := r.GetRelation(ctx, key); err != nil {
		return nil, err
	}
	return []Index{}, nil
}

// Table assembles everything known about key into a renderable table.
func (r *Reflector) Table(ctx context.Context, key core.RelationKey) (ddl.Table, error) {
	rel, err := r.GetRelation(ctx, key)
	if err != nil {
		return ddl.Table{}, err
	}

	t := ddl.Table{Key: rel.Key}
	if t.Columns, err = r.GetColumns(ctx, key); err != nil {
		return ddl.Table{}, err
	}
	if t.PrimaryKey, err = r.GetPrimaryKey(ctx, key); err != nil {
		return ddl.Table{}, err
	}
	if t.UniqueConstraints, err = r.GetUniqueConstraints(ctx, key); err != nil {
		return ddl.Table{}, err
	}
	if t.ForeignKeys, err = r.GetForeignKeys(ctx, key); err != nil {
		return ddl.Table{}, err
	}
	if t.Attributes, err = r.GetTableOptions(ctx, key); err != nil {
		return ddl.Table{}, err
	}

	r.logger.Debug("table reflected",
		slog.String("table", rel.Key.String()),
		slog.Int("columns", len(t.Columns)))
	return t, nil
}
