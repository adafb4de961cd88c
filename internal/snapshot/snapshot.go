package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/shiftsql/pkg/catalog"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const insertBatchSize = 200

// Snapshot describes one saved catalog capture.
type Snapshot struct {
	ID            string    `json:"id" yaml:"id"`
	Label         string    `json:"label,omitempty" yaml:"label,omitempty"`
	Source        string    `json:"source,omitempty" yaml:"source,omitempty"`
	DefaultSchema string    `json:"default_schema" yaml:"default_schema"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	Relations     int       `json:"relations" yaml:"relations"`
	Columns       int       `json:"columns" yaml:"columns"`
	Constraints   int       `json:"constraints" yaml:"constraints"`
}

// SaveOptions annotates a new snapshot.
type SaveOptions struct {
	Label  string
	Source string // free-form origin, usually host/database
}

var (
	relationColumns = []string{
		"snapshot_id", "ordinal", "schema_name", "relation_name", "kind",
		"diststyle", "owner_name", "view_definition", "privileges",
	}
	columnColumns = []string{
		"snapshot_id", "ordinal", "schema_name", "relation_name", "column_name",
		"column_type", "encode", "distkey", "sortkey", "not_null",
		"default_expr", "comment", "position",
	}
	constraintColumns = []string{
		"snapshot_id", "ordinal", "schema_name", "relation_name", "contype",
		"conname", "conkey", "attnum", "attname", "condef",
	}
)

// Save captures every catalog row from src into a new snapshot.
func (s *Store) Save(ctx context.Context, src catalog.Source, opts SaveOptions) (*Snapshot, error) {
	if s.DB == nil {
		return nil, errNotOpen()
	}

	var (
		schema      string
		relations   []catalog.RelationInfo
		columns     []catalog.ColumnInfo
		constraints []catalog.ConstraintInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { schema, err = src.DefaultSchema(gctx); return })
	g.Go(func() (err error) { relations, err = src.Relations(gctx); return })
	g.Go(func() (err error) { columns, err = src.Columns(gctx); return })
	g.Go(func() (err error) { constraints, err = src.Constraints(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	snap := &Snapshot{
		ID:            generateID(),
		Label:         opts.Label,
		Source:        opts.Source,
		DefaultSchema: schema,
		CreatedAt:     time.Now().UTC(),
		Relations:     len(relations),
		Columns:       len(columns),
		Constraints:   len(constraints),
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := sq.Insert("snapshots").
		Columns("id", "label", "source", "default_schema", "created_at").
		Values(snap.ID, snap.Label, snap.Source, snap.DefaultSchema, snap.CreatedAt.Format(timeLayout)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build snapshot insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	rows := make([][]any, len(relations))
	for i, r := range relations {
		rows[i] = []any{
			snap.ID, i, r.Key.Schema, r.Key.Name, r.Kind,
			r.DistStyle, r.OwnerName, r.ViewDefinition, r.Privileges,
		}
	}
	if err := insertRows(ctx, tx, "relations", relationColumns, rows); err != nil {
		return nil, err
	}

	rows = make([][]any, len(columns))
	for i, c := range columns {
		rows[i] = []any{
			snap.ID, i, c.Key.Schema, c.Key.Name, c.Name,
			c.Type, c.Encode, boolInt(c.DistKey), c.SortKey, boolInt(c.NotNull),
			c.Default, c.Comment, c.Position,
		}
	}
	if err := insertRows(ctx, tx, "columns", columnColumns, rows); err != nil {
		return nil, err
	}

	rows = make([][]any, len(constraints))
	for i, c := range constraints {
		rows[i] = []any{
			snap.ID, i, c.Key.Schema, c.Key.Name, c.Type,
			c.Name, joinInts(c.ConKey), c.AttNum, c.AttName, c.Definition,
		}
	}
	if err := insertRows(ctx, tx, "constraints", constraintColumns, rows); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.Logger.Info("snapshot saved",
		slog.String("id", snap.ID),
		slog.Int("relations", snap.Relations),
		slog.Int("columns", snap.Columns),
		slog.Int("constraints", snap.Constraints))

	return snap, nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))

		b := sq.Insert(table).Columns(columns...)
		for _, row := range rows[start:end] {
			b = b.Values(row...)
		}

		query, args, err := b.ToSql()
		if err != nil {
			return fmt.Errorf("build %s insert: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func snapshotSelect() sq.SelectBuilder {
	return sq.Select(
		"s.id", "s.label", "s.source", "s.default_schema", "s.created_at",
		"(SELECT COUNT(*) FROM relations r WHERE r.snapshot_id = s.id)",
		"(SELECT COUNT(*) FROM columns c WHERE c.snapshot_id = s.id)",
		"(SELECT COUNT(*) FROM constraints k WHERE k.snapshot_id = s.id)",
	).From("snapshots s")
}

func scanSnapshot(rows *sql.Rows) (Snapshot, error) {
	var (
		snap    Snapshot
		created string
	)
	if err := rows.Scan(&snap.ID, &snap.Label, &snap.Source, &snap.DefaultSchema, &created,
		&snap.Relations, &snap.Columns, &snap.Constraints); err != nil {
		return snap, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return snap, fmt.Errorf("invalid created_at %q: %w", created, err)
	}
	snap.CreatedAt = t
	return snap, nil
}

// List returns every snapshot, newest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	query, args, err := snapshotSelect().OrderBy("s.created_at DESC", "s.rowid DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build snapshot query: %w", err)
	}

	var out []Snapshot
	err = s.ScanRows(ctx, "snapshots", query, func(rows *sql.Rows) error {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return err
		}
		out = append(out, snap)
		return nil
	}, args...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the snapshot with the given id, or the newest one when id
// is LatestID.
func (s *Store) Get(ctx context.Context, id string) (*Snapshot, error) {
	b := snapshotSelect()
	if id == LatestID {
		b = b.OrderBy("s.created_at DESC", "s.rowid DESC").Limit(1)
	} else {
		b = b.Where(sq.Eq{"s.id": id})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build snapshot query: %w", err)
	}

	var found *Snapshot
	err = s.ScanRows(ctx, "snapshots", query, func(rows *sql.Rows) error {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return err
		}
		found = &snap
		return nil
	}, args...)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return found, nil
}

// Delete removes a snapshot and all of its rows.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.DB == nil {
		return errNotOpen()
	}

	query, args, err := sq.Delete("snapshots").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build snapshot delete: %w", err)
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Source returns a catalog.Source that replays the rows of a saved
// snapshot. The id may be LatestID.
func (s *Store) Source(ctx context.Context, id string) (*Catalog, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Catalog{store: s, snap: *snap}, nil
}

// Catalog is a read-only catalog.Source backed by one snapshot.
type Catalog struct {
	store *Store
	snap  Snapshot
}

var _ catalog.Source = (*Catalog)(nil)

// Snapshot returns the metadata of the replayed snapshot.
func (c *Catalog) Snapshot() Snapshot {
	return c.snap
}

// DefaultSchema returns the schema recorded at capture time.
func (c *Catalog) DefaultSchema(context.Context) (string, error) {
	return c.snap.DefaultSchema, nil
}

func (c *Catalog) selectRows(table string, columns []string) (string, []any, error) {
	return sq.Select(columns[2:]...).
		From(table).
		Where(sq.Eq{"snapshot_id": c.snap.ID}).
		OrderBy("ordinal").
		ToSql()
}

// Relations replays the relations rows in capture order.
func (c *Catalog) Relations(ctx context.Context) ([]catalog.RelationInfo, error) {
	query, args, err := c.selectRows("relations", relationColumns)
	if err != nil {
		return nil, fmt.Errorf("build relations query: %w", err)
	}

	var out []catalog.RelationInfo
	err = c.store.ScanRows(ctx, "relations", query, func(rows *sql.Rows) error {
		var r catalog.RelationInfo
		if err := rows.Scan(&r.Key.Schema, &r.Key.Name, &r.Kind,
			&r.DistStyle, &r.OwnerName, &r.ViewDefinition, &r.Privileges); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	}, args...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Columns replays the columns rows in capture order.
func (c *Catalog) Columns(ctx context.Context) ([]catalog.ColumnInfo, error) {
	query, args, err := c.selectRows("columns", columnColumns)
	if err != nil {
		return nil, fmt.Errorf("build columns query: %w", err)
	}

	var out []catalog.ColumnInfo
	err = c.store.ScanRows(ctx, "columns", query, func(rows *sql.Rows) error {
		var (
			col              catalog.ColumnInfo
			distKey, notNull int
		)
		if err := rows.Scan(&col.Key.Schema, &col.Key.Name, &col.Name,
			&col.Type, &col.Encode, &distKey, &col.SortKey, &notNull,
			&col.Default, &col.Comment, &col.Position); err != nil {
			return err
		}
		col.DistKey = distKey != 0
		col.NotNull = notNull != 0
		out = append(out, col)
		return nil
	}, args...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Constraints replays the constraints rows in capture order.
func (c *Catalog) Constraints(ctx context.Context) ([]catalog.ConstraintInfo, error) {
	query, args, err := c.selectRows("constraints", constraintColumns)
	if err != nil {
		return nil, fmt.Errorf("build constraints query: %w", err)
	}

	var out []catalog.ConstraintInfo
	err = c.store.ScanRows(ctx, "constraints", query, func(rows *sql.Rows) error {
		var (
			con    catalog.ConstraintInfo
			conkey string
		)
		if err := rows.Scan(&con.Key.Schema, &con.Key.Name, &con.Type,
			&con.Name, &conkey, &con.AttNum, &con.AttName, &con.Definition); err != nil {
			return err
		}
		keys, err := splitInts(conkey)
		if err != nil {
			return err
		}
		con.ConKey = keys
		out = append(out, con)
		return nil
	}, args...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func errNotOpen() error {
	return errors.New("snapshot store not open")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid conkey %q: %w", s, err)
		}
		out[i] = n
	}
	return out, nil
}
