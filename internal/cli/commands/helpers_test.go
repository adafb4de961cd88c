package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shiftsql/internal/config"
	"github.com/leapstack-labs/shiftsql/internal/snapshot"
	"github.com/leapstack-labs/shiftsql/internal/testutil"
	"github.com/leapstack-labs/shiftsql/pkg/catalog"
	"github.com/leapstack-labs/shiftsql/pkg/core"
)

type fixtureSource struct{}

var (
	ordersKey      = core.NewRelationKey("orders", "sales")
	usersKey       = core.NewRelationKey("users", "public")
	activeUsersKey = core.NewRelationKey("active_users", "public")
)

func (fixtureSource) DefaultSchema(context.Context) (string, error) { return "public", nil }

func (fixtureSource) Relations(context.Context) ([]catalog.RelationInfo, error) {
	return []catalog.RelationInfo{
		{Key: ordersKey, Kind: catalog.KindTable, DistStyle: "KEY", OwnerName: "admin"},
		{Key: usersKey, Kind: catalog.KindTable, DistStyle: "EVEN", OwnerName: "admin"},
		{Key: activeUsersKey, Kind: catalog.KindView,
			OwnerName: "admin", ViewDefinition: "SELECT id FROM users;"},
	}, nil
}

func (fixtureSource) Columns(context.Context) ([]catalog.ColumnInfo, error) {
	return []catalog.ColumnInfo{
		{Key: ordersKey, Name: "id", Type: "bigint", Encode: "az64", NotNull: true,
			Default: `"identity"(100, 0, '1,1'::text)`, Position: 1},
		{Key: ordersKey, Name: "user_id", Type: "integer", DistKey: true, SortKey: 1, Encode: "none", Position: 2},
		{Key: ordersKey, Name: "total", Type: "numeric(12,2)", Encode: "az64", Position: 3},
		{Key: usersKey, Name: "id", Type: "integer", NotNull: true, Position: 1},
		{Key: activeUsersKey, Name: "id", Type: "integer", Position: 1},
	}, nil
}

func (fixtureSource) Constraints(context.Context) ([]catalog.ConstraintInfo, error) {
	return []catalog.ConstraintInfo{
		{Key: ordersKey, Type: catalog.ConstraintPrimaryKey, Name: "orders_pkey",
			ConKey: []int{1}, AttNum: 1, AttName: "id", Definition: "PRIMARY KEY (id)"},
		{Key: ordersKey, Type: catalog.ConstraintForeignKey, Name: "orders_user_fkey",
			ConKey: []int{2}, AttNum: 2, AttName: "user_id",
			Definition: "FOREIGN KEY (user_id) REFERENCES users(id)"},
	}, nil
}

// testConfig returns defaults pointing at a temp snapshot database and
// carrying key based credentials.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := GetConfig(context.Background())
	cfg.Snapshot.Path = filepath.Join(t.TempDir(), "snapshots.db")
	cfg.Credentials.Options = testutil.KeySecretOptions()
	return cfg
}

// saveFixture stores the fixture catalog in cfg's snapshot database.
func saveFixture(t *testing.T, cfg *config.Config) *snapshot.Snapshot {
	t.Helper()
	store, err := snapshot.Open(context.Background(), cfg.Snapshot.Path, testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	snap, err := store.Save(context.Background(), fixtureSource{}, snapshot.SaveOptions{Label: "fixture"})
	require.NoError(t, err)
	return snap
}

// execute runs cmd with args under cfg and returns what it printed.
func execute(t *testing.T, cfg *config.Config, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	ctx := WithConfig(context.Background(), cfg)
	ctx = WithLogger(ctx, testutil.NewTestLogger(t))

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}
