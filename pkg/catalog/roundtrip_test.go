package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/ddl"
	"github.com/leapstack-labs/shiftsql/pkg/dialects/redshift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// The catalog rows below are what the database reports after running the
// statement rendered from want.
func TestTableRoundTrip(t *testing.T) {
	ordersKey := core.NewRelationKey("orders", "sales")
	spec, err := ddl.NewDistSortSpec("KEY", "id", []string{"id", "placed_at"}, "compound")
	require.NoError(t, err)

	want := ddl.Table{
		Key: ordersKey,
		Columns: []ddl.Column{
			{Name: "id", Type: "INTEGER", ColumnAttributes: ddl.ColumnAttributes{Identity: &ddl.Identity{Seed: 1, Step: 1}, Encode: "az64"}},
			{Name: "placed_at", Type: "TIMESTAMP", Nullable: true, Default: "getdate()"},
			{Name: "user", Type: "VARCHAR(64)", ColumnAttributes: ddl.ColumnAttributes{Encode: "zstd"}},
			{Name: "amount", Type: "NUMERIC(12,2)", Nullable: true},
		},
		PrimaryKey: ddl.PrimaryKey{Name: "orders_pkey", Columns: []string{"id"}},
		ForeignKeys: []ddl.ForeignKey{{
			Name:            "orders_user_fkey",
			Columns:         []string{"user"},
			ReferredTable:   core.NewRelationKey("users", "crm"),
			ReferredColumns: []string{"name"},
		}},
		Attributes: spec,
	}

	src := &fakeSource{
		schema:    "public",
		relations: []RelationInfo{{Key: ordersKey, Kind: KindTable, DistStyle: "KEY"}},
		columns: []ColumnInfo{
			{Key: ordersKey, Name: "id", Type: "integer", Encode: "az64", DistKey: true, SortKey: 1, NotNull: true,
				Default: `"identity"(100234, 0, '1,1'::text)`, Position: 1},
			{Key: ordersKey, Name: "placed_at", Type: "timestamp without time zone", Encode: "none", SortKey: 2,
				Default: "getdate()", Position: 2},
			{Key: ordersKey, Name: "user", Type: "character varying(64)", Encode: "zstd", NotNull: true, Position: 3},
			{Key: ordersKey, Name: "amount", Type: "numeric(12,2)", Encode: "none", Position: 4},
		},
		constraints: []ConstraintInfo{
			{Key: ordersKey, Type: ConstraintPrimaryKey, Name: "orders_pkey", ConKey: []int{1}, AttNum: 1, AttName: "id",
				Definition: "PRIMARY KEY (id)"},
			{Key: ordersKey, Type: ConstraintForeignKey, Name: "orders_user_fkey", ConKey: []int{3}, AttNum: 3, AttName: "user",
				Definition: `FOREIGN KEY ("user") REFERENCES crm.users(name)`},
		},
	}

	r := NewReflector(src, nil)
	got, err := r.Table(context.Background(), ordersKey)
	require.NoError(t, err)

	wantSQL, err := ddl.CreateTable(redshift.Redshift, want)
	require.NoError(t, err)
	gotSQL, err := ddl.CreateTable(redshift.Redshift, got)
	require.NoError(t, err)

	assert.Equal(t, normalize(wantSQL), normalize(gotSQL))
	assert.Contains(t, gotSQL, "DISTSTYLE KEY DISTKEY (id) SORTKEY (id, placed_at)")
	assert.Contains(t, gotSQL, `FOREIGN KEY("user") REFERENCES crm.users (name)`)
}
