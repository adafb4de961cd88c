package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/leapstack-labs/shiftsql/pkg/core"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Reflector answers metadata questions from a cached copy of the catalog.
//
// The cache is filled on first use with the three catalog queries. Concurrent
// callers share one fill; once stored the cache is immutable and read without
// locking. A failed fill is not cached. Invalidate drops the cache as a whole.
type Reflector struct {
	source Source
	logger *slog.Logger

	cache atomic.Pointer[snapshot]
	fill  singleflight.Group
}

// snapshot is an immutable index of the catalog rows.
type snapshot struct {
	defaultSchema string
	relations     map[core.RelationKey]RelationInfo
	order         []core.RelationKey
	columns       map[core.RelationKey][]ColumnInfo
	constraints   map[core.RelationKey][]ConstraintInfo
}

// NewReflector creates a Reflector reading from source.
func NewReflector(source Source, logger *slog.Logger) *Reflector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reflector{source: source, logger: logger}
}

// Invalidate drops the cached catalog. The next lookup refetches it.
func (r *Reflector) Invalidate() {
	r.cache.Store(nil)
	r.logger.Debug("catalog cache invalidated")
}

// Refresh drops the cached catalog and fetches it again.
func (r *Reflector) Refresh(ctx context.Context) error {
	r.Invalidate()
	_, err := r.load(ctx)
	return err
}

// DefaultSchema returns the schema used for keys without one.
func (r *Reflector) DefaultSchema(ctx context.Context) (string, error) {
	snap, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	return snap.defaultSchema, nil
}

func (r *Reflector) load(ctx context.Context) (*snapshot, error) {
	if snap := r.cache.Load(); snap != nil {
		return snap, nil
	}

	v, err, _ := r.fill.Do("catalog", func() (any, error) {
		if snap := r.cache.Load(); snap != nil {
			return snap, nil
		}
		snap, err := r.fetch(ctx)
		if err != nil {
			return nil, err
		}
		r.cache.Store(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

func (r *Reflector) fetch(ctx context.Context) (*snapshot, error) {
	var (
		schema      string
		relations   []RelationInfo
		columns     []ColumnInfo
		constraints []ConstraintInfo
	)

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		schema, err = r.source.DefaultSchema(egctx)
		return err
	})
	eg.Go(func() (err error) {
		relations, err = r.source.Relations(egctx)
		return err
	})
	eg.Go(func() (err error) {
		columns, err = r.source.Columns(egctx)
		return err
	})
	eg.Go(func() (err error) {
		constraints, err = r.source.Constraints(egctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	snap := &snapshot{
		defaultSchema: schema,
		relations:     make(map[core.RelationKey]RelationInfo, len(relations)),
		order:         make([]core.RelationKey, 0, len(relations)),
		columns:       make(map[core.RelationKey][]ColumnInfo),
		constraints:   make(map[core.RelationKey][]ConstraintInfo),
	}
	for _, rel := range relations {
		if _, dup := snap.relations[rel.Key]; !dup {
			snap.order = append(snap.order, rel.Key)
		}
		snap.relations[rel.Key] = rel
	}
	for _, col := range columns {
		snap.columns[col.Key] = append(snap.columns[col.Key], col)
	}
	for _, con := range constraints {
		snap.constraints[con.Key] = append(snap.constraints[con.Key], con)
	}

	r.logger.Debug("catalog loaded",
		slog.String("default_schema", schema),
		slog.Int("relations", len(relations)),
		slog.Int("columns", len(columns)),
		slog.Int("constraints", len(constraints)))
	return snap, nil
}

// qualify fills in the default schema.
func (s *snapshot) qualify(key core.RelationKey) core.RelationKey {
	return key.WithDefaultSchema(s.defaultSchema)
}

// lookup tries key as given, then with one level of quoting removed.
func lookup[V any](m map[core.RelationKey]V, key core.RelationKey) (core.RelationKey, V, bool) {
	if v, ok := m[key]; ok {
		return key, v, true
	}
	unquoted := key.Unquoted()
	v, ok := m[unquoted]
	return unquoted, v, ok
}

// resolve returns the catalog key for a relation.
func (s *snapshot) resolve(key core.RelationKey) (core.RelationKey, error) {
	key = s.qualify(key)
	found, _, ok := lookup(s.relations, key)
	if !ok {
		return core.RelationKey{}, &core.NoSuchTableError{Key: key}
	}
	return found, nil
}

// GetRelation returns the relations row for key.
func (r *Reflector) GetRelation(ctx context.Context, key core.RelationKey) (RelationInfo, error) {
	snap, err := r.load(ctx)
	if err != nil {
		return RelationInfo{}, err
	}
	_, rel, ok := lookup(snap.relations, snap.qualify(key))
	if !ok {
		return RelationInfo{}, &core.NoSuchTableError{Key: snap.qualify(key)}
	}
	return rel, nil
}

// GetColumnInfo returns the raw column rows for key, in attribute order.
func (r *Reflector) GetColumnInfo(ctx context.Context, key core.RelationKey) ([]ColumnInfo, error) {
	snap, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	_, cols, ok := lookup(snap.columns, snap.qualify(key))
	if !ok {
		return nil, &core.NoSuchTableError{Key: snap.qualify(key)}
	}
	return append([]ColumnInfo(nil), cols...), nil
}

// GetConstraints returns the raw constraint rows for key. A relation without
// constraints yields an empty slice.
func (r *Reflector) GetConstraints(ctx context.Context, key core.RelationKey) ([]ConstraintInfo, error) {
	snap, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	found, err := snap.resolve(key)
	if err != nil {
		return nil, err
	}
	return append([]ConstraintInfo(nil), snap.constraints[found]...), nil
}
