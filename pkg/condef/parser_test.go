package condef

import (
	"testing"

	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		def  string
		want Constraint
	}{
		{
			name: "simple foreign key",
			def:  "FOREIGN KEY(col1) REFERENCES othertable (col2)",
			want: Constraint{Kind: ForeignKey, Columns: []string{"col1"}, ReferredTable: "othertable", ReferredColumns: []string{"col2"}},
		},
		{
			name: "quoted identifiers with comma and dot",
			def:  `FOREIGN KEY("a, b") REFERENCES "my.table"("c")`,
			want: Constraint{Kind: ForeignKey, Columns: []string{"a, b"}, ReferredTable: "my.table", ReferredColumns: []string{"c"}},
		},
		{
			name: "schema qualified with several columns",
			def:  "FOREIGN KEY (id, region) REFERENCES other_schema.referenced_table (id, region)",
			want: Constraint{
				Kind:            ForeignKey,
				Columns:         []string{"id", "region"},
				ReferredSchema:  "other_schema",
				ReferredTable:   "referenced_table",
				ReferredColumns: []string{"id", "region"},
			},
		},
		{
			name: "quoted schema and escaped quote",
			def:  `FOREIGN KEY ("we""ird") REFERENCES "Sch"."order" ("id") ON DELETE CASCADE`,
			want: Constraint{Kind: ForeignKey, Columns: []string{`we"ird`}, ReferredSchema: "Sch", ReferredTable: "order", ReferredColumns: []string{"id"}},
		},
		{
			name: "dollar and unicode identifiers",
			def:  "FOREIGN KEY (col$1) REFERENCES tëst (über)",
			want: Constraint{Kind: ForeignKey, Columns: []string{"col$1"}, ReferredTable: "tëst", ReferredColumns: []string{"über"}},
		},
		{
			name: "primary key",
			def:  `PRIMARY KEY (id, "select")`,
			want: Constraint{Kind: PrimaryKey, Columns: []string{"id", "select"}},
		},
		{
			name: "unique lowercase keywords",
			def:  "unique (email)",
			want: Constraint{Kind: Unique, Columns: []string{"email"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		def  string
		pos  int
	}{
		{"malformed reference", `FOREIGN KEY("a, b") REFERENCES "my.table"."c")`, 45},
		{"unterminated quote", `PRIMARY KEY ("id)`, 13},
		{"empty column list", "PRIMARY KEY ()", 13},
		{"missing references", "FOREIGN KEY (a) othertable (b)", 16},
		{"check constraint", "CHECK (a > 0)", 0},
		{"empty", "", 0},
		{"illegal character", "PRIMARY KEY (a; b)", 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.def)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.pos, perr.Pos)
		})
	}
}

func TestParsePrimaryKey(t *testing.T) {
	tests := []struct {
		def  string
		want []string
	}{
		{"PRIMARY KEY (id)", []string{"id"}},
		{"PRIMARY KEY (a , b,c)", []string{"a", "b", "c"}},
		{`PRIMARY KEY ("a,b", c)`, []string{"a,b", "c"}},
	}
	for _, tt := range tests {
		got, err := ParsePrimaryKey(tt.def)
		require.NoError(t, err, tt.def)
		assert.Equal(t, tt.want, got, tt.def)
	}

	_, err := ParsePrimaryKey("UNIQUE (a)")
	assert.Error(t, err)
}

func TestSplitIdentifiers(t *testing.T) {
	got, err := SplitIdentifiers(`a, "b,c", "d""e"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b,c", `d"e`}, got)

	_, err = SplitIdentifiers("a b")
	assert.Error(t, err)
}

func TestReferredKey(t *testing.T) {
	c, err := Parse("FOREIGN KEY (a) REFERENCES s.t (b)")
	require.NoError(t, err)
	assert.Equal(t, core.NewRelationKey("t", "s"), c.ReferredKey())
}

func TestLexerTokens(t *testing.T) {
	l := NewLexer(`a."b"(,)`)
	want := []TokenType{TokenIdent, TokenDot, TokenQuotedIdent, TokenLParen, TokenComma, TokenRParen, TokenEOF}
	for _, tt := range want {
		assert.Equal(t, tt, l.NextToken().Type)
	}
}
