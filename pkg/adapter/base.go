package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/shiftsql/pkg/core"
)

// ErrNotConnected is returned when a statement is issued before Connect.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter carries the database/sql handle shared by adapters and
// implements Close, Exec and Query on top of it.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// IsConnected reports whether Connect has set a handle.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Close releases the handle. It is a no-op when not connected.
func (b *BaseSQLAdapter) Close() error {
	if !b.IsConnected() {
		return nil
	}
	b.logger().Debug("closing connection", slog.String("endpoint", b.Cfg.Endpoint()))
	return b.DB.Close()
}

// Exec runs a compiled statement.
func (b *BaseSQLAdapter) Exec(ctx context.Context, stmt string) error {
	if !b.IsConnected() {
		return ErrNotConnected
	}
	b.logger().Debug("executing statement", slog.Int("bytes", len(stmt)))
	if _, err := b.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query runs a statement that returns rows. The caller closes the result
// and checks its Err after iteration.
func (b *BaseSQLAdapter) Query(ctx context.Context, stmt string) (*core.Rows, error) {
	if !b.IsConnected() {
		return nil, ErrNotConnected
	}
	rows, err := b.DB.QueryContext(ctx, stmt) //nolint:rowserrcheck
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &core.Rows{Rows: rows}, nil
}

// ScanRows runs a named catalog query and calls scan once per row.
// Every failure, including one returned by scan, is reported as a
// core.CatalogQueryError naming the query.
func (b *BaseSQLAdapter) ScanRows(ctx context.Context, name, query string, scan func(*sql.Rows) error, args ...any) error {
	if !b.IsConnected() {
		return &core.CatalogQueryError{Query: name, Err: ErrNotConnected}
	}

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return &core.CatalogQueryError{Query: name, Err: err}
	}
	defer func() { _ = rows.Close() }()

	n := 0
	for rows.Next() {
		if err := scan(rows); err != nil {
			return &core.CatalogQueryError{Query: name, Err: fmt.Errorf("failed to scan row %d: %w", n, err)}
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return &core.CatalogQueryError{Query: name, Err: err}
	}

	b.logger().Debug("catalog query finished", slog.String("query", name), slog.Int("rows", n))
	return nil
}
