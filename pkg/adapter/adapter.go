// Package adapter defines the database connection contract used to run
// compiled commands and to read the system catalog.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves with this package from init().
package adapter

import (
	"context"

	"github.com/leapstack-labs/shiftsql/pkg/catalog"
	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/dialect"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter is a live database connection.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a statement that doesn't return rows, such as a compiled COPY.
	Exec(ctx context.Context, sql string) error

	// Query executes a statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// Dialect returns the SQL dialect used to quote identifiers and literals.
	Dialect() *dialect.Dialect

	// The catalog queries, for catalog.NewReflector.
	catalog.Source
}
