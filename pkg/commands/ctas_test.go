package commands

import (
	"testing"

	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/ddl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableAs(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CreateTableAsOptions)
		want   string
	}{
		{
			name: "plain",
			want: "CREATE TABLE sales_copy AS select * from sales",
		},
		{
			name: "temporary without backup",
			modify: func(o *CreateTableAsOptions) {
				o.Temporary = true
				o.Backup = false
			},
			want: "CREATE TEMPORARY TABLE sales_copy BACKUP NO AS select * from sales",
		},
		{
			name: "columns and key distribution",
			modify: func(o *CreateTableAsOptions) {
				o.Columns = []string{"id", "order"}
				o.DistStyle = "key"
				o.DistKey = "id"
				o.SortKey = []string{"id", "order"}
			},
			want: `CREATE TABLE sales_copy (id, "order") DISTSTYLE KEY DISTKEY (id) SORTKEY (id, "order") AS select * from sales`,
		},
		{
			name: "interleaved sort key",
			modify: func(o *CreateTableAsOptions) {
				o.DistStyle = "ALL"
				o.SortKey = []string{"a", "b"}
				o.SortKeyType = "interleaved"
			},
			want: "CREATE TABLE sales_copy DISTSTYLE ALL INTERLEAVED SORTKEY (a, b) AS select * from sales",
		},
		{
			name: "reserved schema and name",
			modify: func(o *CreateTableAsOptions) {
				o.Table = core.NewRelationKey("table", "case")
			},
			want: `CREATE TABLE "case"."table" AS select * from sales`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultCreateTableAsOptions()
			opts.Table = core.NewRelationKey("sales_copy", "")
			opts.Select = "select * from sales"
			if tt.modify != nil {
				tt.modify(&opts)
			}

			cmd, err := NewCreateTableAs(opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, clean(mustRender(t, cmd)))
		})
	}
}

func TestCreateTableAsRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CreateTableAsOptions)
		kind   error
	}{
		{"temporary in schema", func(o *CreateTableAsOptions) {
			o.Temporary = true
			o.Table = core.NewRelationKey("t", "s")
		}, core.ErrIncompatibleOption},
		{"key without distkey", func(o *CreateTableAsOptions) { o.DistStyle = "KEY" }, core.ErrArgumentConflict},
		{"distkey with even", func(o *CreateTableAsOptions) {
			o.DistStyle = "EVEN"
			o.DistKey = "id"
		}, core.ErrArgumentConflict},
		{"unknown diststyle", func(o *CreateTableAsOptions) { o.DistStyle = "AUTO" }, core.ErrInvalidDiststyle},
		{"unknown sort key type", func(o *CreateTableAsOptions) {
			o.SortKey = []string{"a"}
			o.SortKeyType = "random"
		}, core.ErrInvalidSortkeyType},
		{"no query", func(o *CreateTableAsOptions) { o.Select = "" }, core.ErrIncompatibleOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultCreateTableAsOptions()
			opts.Table = core.NewRelationKey("t", "")
			opts.Select = "select 1"
			tt.modify(&opts)

			_, err := NewCreateTableAs(opts)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestCreateTableAsAttributes(t *testing.T) {
	opts := DefaultCreateTableAsOptions()
	opts.Table = core.NewRelationKey("t", "")
	opts.Select = "select 1"
	opts.DistStyle = "even"

	cmd, err := NewCreateTableAs(opts)
	require.NoError(t, err)
	assert.Equal(t, ddl.DistStyleEven, cmd.Attributes().DistStyle)
}
