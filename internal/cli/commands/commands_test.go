package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/shiftsql/internal/config"
	"github.com/leapstack-labs/shiftsql/internal/snapshot"
	"github.com/leapstack-labs/shiftsql/internal/testutil"
	"github.com/leapstack-labs/shiftsql/pkg/adapter"
	sqlcmd "github.com/leapstack-labs/shiftsql/pkg/commands"
	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/credentials"
)

const testCredsText = testutil.KeySecretText

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestCompileCommands(t *testing.T) {
	tests := []struct {
		name string
		cmd  func() *cobra.Command
		args []string
		want string
	}{
		{
			name: "copy json",
			cmd:  NewCopyCommand,
			args: []string{"sales.orders", "s3://b/k", "--format", "json"},
			want: "COPY sales.orders FROM 's3://b/k' WITH CREDENTIALS AS '" + testCredsText + "' " +
				"FORMAT AS JSON AS 'auto' TRUNCATECOLUMNS IGNOREHEADER AS 0;",
		},
		{
			name: "copy columns from csv",
			cmd:  NewCopyCommand,
			args: []string{"orders", "s3://b/orders.csv", "--format", "csv", "--column", "id", "--column", "total", "--ignore-header", "1"},
			want: "COPY orders (id, total) FROM 's3://b/orders.csv' WITH CREDENTIALS AS '" + testCredsText + "' " +
				"FORMAT AS CSV TRUNCATECOLUMNS IGNOREHEADER AS 1;",
		},
		{
			name: "unload",
			cmd:  NewUnloadCommand,
			args: []string{"select * from venue", "s3://b/unload/"},
			want: "UNLOAD ('select * from venue') TO 's3://b/unload/' CREDENTIALS '" + testCredsText + "';",
		},
		{
			name: "unload serial",
			cmd:  NewUnloadCommand,
			args: []string{"select * from venue", "s3://b/unload/", "--parallel=false"},
			want: "UNLOAD ('select * from venue') TO 's3://b/unload/' CREDENTIALS '" + testCredsText + "' PARALLEL OFF;",
		},
		{
			name: "ctas",
			cmd:  NewCTASCommand,
			args: []string{"sales_copy", "select * from sales", "--diststyle", "key", "--distkey", "id", "--sortkey", "id"},
			want: "CREATE TABLE sales_copy DISTSTYLE KEY DISTKEY (id) SORTKEY (id) AS select * from sales;",
		},
		{
			name: "temporary ctas",
			cmd:  NewCTASCommand,
			args: []string{"sales_copy", "select * from sales", "--temporary", "--no-backup"},
			want: "CREATE TEMPORARY TABLE sales_copy BACKUP NO AS select * from sales;",
		},
		{
			name: "create materialized view",
			cmd:  NewMViewCommand,
			args: []string{"create", "analytics.mv_sales", "select id from sales"},
			want: "CREATE MATERIALIZED VIEW analytics.mv_sales AS select id from sales;",
		},
		{
			name: "drop materialized view",
			cmd:  NewMViewCommand,
			args: []string{"drop", "public.mv", "--if-exists", "--cascade"},
			want: "DROP MATERIALIZED VIEW IF EXISTS public.mv CASCADE;",
		},
		{
			name: "refresh materialized view",
			cmd:  NewMViewCommand,
			args: []string{"refresh", "select"},
			want: `REFRESH MATERIALIZED VIEW "select";`,
		},
		{
			name: "append",
			cmd:  NewAppendCommand,
			args: []string{"sales", "stage.sales_staging", "--fill-target"},
			want: "ALTER TABLE sales APPEND FROM stage.sales_staging FILLTARGET;",
		},
		{
			name: "library",
			cmd:  NewLibraryCommand,
			args: []string{"f_urlparse", "s3://b/urlparse3.zip", "--replace"},
			want: `CREATE OR REPLACE LIBRARY "f_urlparse" LANGUAGE plpythonu FROM 's3://b/urlparse3.zip' ` +
				"WITH CREDENTIALS AS '" + testCredsText + "';",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, testConfig(t), tt.cmd(), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, squash(out))
		})
	}
}

func TestCompileCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		cmd     func() *cobra.Command
		args    []string
		wantErr error
	}{
		{"unknown format", NewCopyCommand, []string{"t", "s3://b/k", "--format", "xml"}, core.ErrInvalidFormat},
		{"bad fixed width", NewCopyCommand, []string{"t", "s3://b/k", "--fixed-width", "id"}, nil},
		{"fill target with ignore extra", NewAppendCommand, []string{"a", "b", "--fill-target", "--ignore-extra"}, core.ErrIncompatibleOption},
		{"bad library name", NewLibraryCommand, []string{"my-lib", "s3://b/x.zip"}, core.ErrInvalidIdentifier},
		{"bad comp-update", NewCopyCommand, []string{"t", "s3://b/k", "--comp-update", "maybe"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, testConfig(t), tt.cmd(), tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCompileRequiresCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.Credentials.Options = credentials.Options{}

	for _, cmd := range []*cobra.Command{NewCopyCommand(), NewUnloadCommand(), NewLibraryCommand()} {
		_, err := execute(t, cfg, cmd, "t", "s3://b/k")
		assert.ErrorIs(t, err, core.ErrInvalidCredentials, cmd.Name())
	}
}

func TestCompileStructuredOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = config.OutputJSON

	out, err := execute(t, cfg, NewAppendCommand(), "sales", "stage.sales_staging")
	require.NoError(t, err)

	var got statementOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, statementOutput{
		Kind: "ALTER TABLE APPEND",
		SQL:  "ALTER TABLE sales APPEND FROM stage.sales_staging",
	}, got)

	cfg.Output = config.OutputYAML
	out, err = execute(t, cfg, NewMViewCommand(), "refresh", "public.mv")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "REFRESH MATERIALIZED VIEW public.mv", got.SQL)
	assert.False(t, got.Executed)
}

func TestUnknownTargetType(t *testing.T) {
	cfg := testConfig(t)
	cfg.Target.Type = "nope"

	_, err := execute(t, cfg, NewAppendCommand(), "sales", "stage.sales_staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no SQL dialect for target type "nope"`)
	assert.Contains(t, err.Error(), "redshift")

	_, err = execute(t, cfg, NewInspectCommand(), "sales.orders")
	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Type)
}

func TestCompileUsesTargetDialect(t *testing.T) {
	cfg := testConfig(t)
	cfg.Target.Type = "REDSHIFT"

	out, err := execute(t, cfg, NewAppendCommand(), "sales", "stage.sales_staging")
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE sales APPEND FROM stage.sales_staging;", squash(out))
}

func TestInspectFromSnapshot(t *testing.T) {
	cfg := testConfig(t)
	saveFixture(t, cfg)

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, cfg, NewInspectCommand(), "sales.orders", "--snapshot", "latest")
		require.NoError(t, err)
		assert.Contains(t, out, "Table: sales.orders (owner admin)")
		assert.Contains(t, out, "user_id")
		assert.Contains(t, out, "Distribution: KEY (user_id)")
		assert.Contains(t, out, "Sort key: compound (user_id)")
		assert.Contains(t, out, "Primary key: orders_pkey (id)")
		assert.Contains(t, out, "Foreign key: orders_user_fkey (user_id) -> public.users (id)")
	})

	t.Run("ddl", func(t *testing.T) {
		out, err := execute(t, cfg, NewInspectCommand(), "sales.orders", "--snapshot", "latest", "--ddl")
		require.NoError(t, err)
		sql := squash(out)
		assert.True(t, strings.HasPrefix(sql, "CREATE TABLE sales.orders ("), sql)
		assert.Contains(t, sql, "DISTKEY (user_id)")
		assert.True(t, strings.HasSuffix(sql, ";"), sql)
	})

	t.Run("view ddl", func(t *testing.T) {
		out, err := execute(t, cfg, NewInspectCommand(), "active_users", "--snapshot", "latest", "--ddl")
		require.NoError(t, err)
		assert.Equal(t, "CREATE VIEW public.active_users AS SELECT id FROM users;", squash(out))
	})

	t.Run("json", func(t *testing.T) {
		cfg := *cfg
		cfg.Output = config.OutputJSON
		out, err := execute(t, &cfg, NewInspectCommand(), "sales.orders", "--snapshot", "latest")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "table", got["kind"])
		assert.Equal(t, "admin", got["owner"])
		assert.Len(t, got["columns"], 3)
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := execute(t, cfg, NewInspectCommand(), "sales.missing", "--snapshot", "latest")
		assert.ErrorIs(t, err, core.ErrNoSuchTable)
	})

	t.Run("missing snapshot", func(t *testing.T) {
		_, err := execute(t, cfg, NewInspectCommand(), "sales.orders", "--snapshot", "nope")
		assert.ErrorIs(t, err, snapshot.ErrNotFound)
	})
}

func TestTablesFromSnapshot(t *testing.T) {
	cfg := testConfig(t)
	saveFixture(t, cfg)

	out, err := execute(t, cfg, NewTablesCommand(), "--snapshot", "latest")
	require.NoError(t, err)
	assert.Equal(t, "users\n", out)

	out, err = execute(t, cfg, NewTablesCommand(), "sales", "--snapshot", "latest")
	require.NoError(t, err)
	assert.Equal(t, "orders\n", out)

	out, err = execute(t, cfg, NewTablesCommand(), "--snapshot", "latest", "--views")
	require.NoError(t, err)
	assert.Equal(t, "active_users\n", out)
}

func TestSnapshotListAndDelete(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, NewSnapshotCommand(), "list")
	require.NoError(t, err)
	assert.Equal(t, "(no snapshots)\n", out)

	snap := saveFixture(t, cfg)

	out, err = execute(t, cfg, NewSnapshotCommand(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, snap.ID)
	assert.Contains(t, out, "fixture")

	jsonCfg := *cfg
	jsonCfg.Output = config.OutputJSON
	out, err = execute(t, &jsonCfg, NewSnapshotCommand(), "list")
	require.NoError(t, err)
	var snaps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snaps))
	require.Len(t, snaps, 1)
	assert.Equal(t, snap.ID, snaps[0]["id"])

	_, err = execute(t, cfg, NewSnapshotCommand(), "delete", snap.ID)
	require.NoError(t, err)

	_, err = execute(t, cfg, NewSnapshotCommand(), "delete", snap.ID)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}

func TestParseHelpers(t *testing.T) {
	widths, err := parseFixedWidth([]string{"id:8", "name:32"})
	require.NoError(t, err)
	require.Len(t, widths, 2)

	_, err = parseFixedWidth([]string{"id:x"})
	assert.Error(t, err)

	on, err := parseOnOff("stat-update", "on")
	require.NoError(t, err)
	require.NotNil(t, on)
	assert.True(t, *on)

	unset, err := parseOnOff("stat-update", "")
	require.NoError(t, err)
	assert.Nil(t, unset)

	_, err = parseKey(`"Sales".orders`)
	require.NoError(t, err)
}

func TestParseColumns(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []sqlcmd.ColumnRef
		wantErr string
	}{
		{
			name:  "bare and qualified",
			input: []string{"id", "orders.total", "sales.orders.user_id"},
			want: []sqlcmd.ColumnRef{
				{Name: "id"},
				{Table: core.NewRelationKey("orders", ""), Name: "total"},
				{Table: core.NewRelationKey("orders", "sales"), Name: "user_id"},
			},
		},
		{
			name:  "dot inside quotes",
			input: []string{`"my.table"."a.b"`},
			want:  []sqlcmd.ColumnRef{{Table: core.NewRelationKey("my.table", ""), Name: "a.b"}},
		},
		{name: "unterminated quote", input: []string{`"orders.id`}, wantErr: "unterminated"},
		{name: "empty part", input: []string{"orders."}, wantErr: "empty identifier"},
		{name: "too many parts", input: []string{"db.sales.orders.id"}, wantErr: "too many name parts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseColumns(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCopyRejectsBadColumn(t *testing.T) {
	_, err := execute(t, testConfig(t), NewCopyCommand(), "orders", "s3://b/k", "--column", "orders.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid column")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, testConfig(t), NewVersionCommand("1.2.3", "abc123", "2026-01-02"))
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc123")
}
