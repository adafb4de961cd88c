package redshift

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"github.com/leapstack-labs/shiftsql/pkg/adapter"
	"github.com/leapstack-labs/shiftsql/pkg/catalog"
	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/dialect"
	rsdialect "github.com/leapstack-labs/shiftsql/pkg/dialects/redshift"
)

// DefaultPort is the port clusters listen on unless configured otherwise.
const DefaultPort = 5439

// Adapter implements the adapter.Adapter interface for Redshift.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new Redshift adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// NewWithDB wraps an already open connection.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Adapter {
	a := New(logger)
	a.DB = db
	return a
}

// Dialect returns the Redshift dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return rsdialect.Redshift
}

// Connect establishes a connection to the cluster.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildDSN(cfg)

	a.Logger.Debug("connecting to redshift", slog.String("endpoint", cfg.Endpoint()))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open redshift connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping redshift: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildDSN constructs a key=value connection string. TLS with full
// certificate verification is the default.
func buildDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	sslmode := cfg.Option("sslmode", "verify-full")

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		dsnValue(host), port, dsnValue(cfg.Database), dsnValue(sslmode))

	if root := cfg.Options["sslrootcert"]; root != "" {
		dsn += " sslrootcert=" + dsnValue(root)
	}
	if cfg.Username != "" {
		dsn += " user=" + dsnValue(cfg.Username)
	}
	if cfg.Password != "" {
		dsn += " password=" + dsnValue(cfg.Password)
	}

	return dsn
}

// dsnValue single-quotes v when it is empty or holds whitespace, quotes or
// backslashes, escaping quotes and backslashes with a backslash.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\r\v\f'\\") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// DefaultSchema returns the session's current schema.
func (a *Adapter) DefaultSchema(ctx context.Context) (string, error) {
	var schema string
	err := a.ScanRows(ctx, "current_schema", currentSchemaQuery, func(rows *sql.Rows) error {
		return rows.Scan(&schema)
	})
	if err != nil {
		return "", err
	}
	return schema, nil
}

// Relations returns every table, view, materialized view, sequence and
// foreign table outside the pg_* schemas.
func (a *Adapter) Relations(ctx context.Context) ([]catalog.RelationInfo, error) {
	var out []catalog.RelationInfo
	err := a.ScanRows(ctx, "relations", relationsQuery, func(rows *sql.Rows) error {
		var (
			rel                 catalog.RelationInfo
			name, schema        string
			schemaOID, relOID   sql.NullInt64
			ownerID             sql.NullInt64
			distStyle, owner    sql.NullString
			viewDef, privileges sql.NullString
		)
		if err := rows.Scan(&rel.Kind, &schemaOID, &schema, &relOID, &name, &distStyle,
			&ownerID, &owner, &viewDef, &privileges); err != nil {
			return err
		}
		rel.Key = core.NewRelationKey(name, schema)
		rel.DistStyle = distStyle.String
		rel.OwnerName = owner.String
		rel.ViewDefinition = viewDef.String
		rel.Privileges = privileges.String
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Columns returns the columns of every relation, including late-binding views.
func (a *Adapter) Columns(ctx context.Context) ([]catalog.ColumnInfo, error) {
	var out []catalog.ColumnInfo
	err := a.ScanRows(ctx, "columns", columnsQuery, func(rows *sql.Rows) error {
		var (
			col                         catalog.ColumnInfo
			schema, table, name, typ    string
			encode, comment, adsrc      sql.NullString
			formatType, def             sql.NullString
			distKey, notNull            sql.NullBool
			sortKey                     sql.NullInt64
			attnum, schemaOID, tableOID sql.NullInt64
		)
		if err := rows.Scan(&schema, &table, &name, &encode, &typ, &distKey, &sortKey, &notNull,
			&comment, &adsrc, &attnum, &formatType, &def, &schemaOID, &tableOID); err != nil {
			return err
		}
		col.Key = core.NewRelationKey(table, schema)
		col.Name = name
		col.Type = typ
		col.Encode = encode.String
		col.DistKey = distKey.Bool
		col.SortKey = int(sortKey.Int64)
		col.NotNull = notNull.Bool
		col.Comment = comment.String
		col.Default = def.String
		col.Position = int(attnum.Int64)
		out = append(out, col)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Constraints returns one row per (constraint, column) pair.
func (a *Adapter) Constraints(ctx context.Context) ([]catalog.ConstraintInfo, error) {
	var out []catalog.ConstraintInfo
	err := a.ScanRows(ctx, "constraints", constraintsQuery, func(rows *sql.Rows) error {
		var (
			con               catalog.ConstraintInfo
			schema, table     string
			conkey            []int64
			schemaOID, relOID sql.NullInt64
		)
		if err := rows.Scan(&schema, &table, &con.Type, &con.Name, pq.Array(&conkey),
			&con.AttNum, &con.AttName, &con.Definition, &schemaOID, &relOID); err != nil {
			return err
		}
		con.Key = core.NewRelationKey(table, schema)
		con.ConKey = make([]int, len(conkey))
		for i, k := range conkey {
			con.ConKey[i] = int(k)
		}
		out = append(out, con)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

var (
	_ adapter.Adapter = (*Adapter)(nil)
	_ catalog.Source  = (*Adapter)(nil)
)
