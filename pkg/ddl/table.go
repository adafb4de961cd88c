package ddl

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/shiftsql/pkg/core"
)

// Column describes one column of a table.
type Column struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Nullable bool   `json:"nullable" yaml:"nullable"`
	Default  string `json:"default,omitempty" yaml:"default,omitempty"`
	Comment  string `json:"comment,omitempty" yaml:"comment,omitempty"`

	ColumnAttributes `yaml:",inline"`
}

// PrimaryKey is a table's primary key. Name may be empty.
type PrimaryKey struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Columns []string `json:"columns" yaml:"columns"`
}

// UniqueConstraint is a named unique constraint.
type UniqueConstraint struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Columns []string `json:"columns" yaml:"columns"`
}

// ForeignKey is a foreign key constraint.
type ForeignKey struct {
	Name            string           `json:"name,omitempty" yaml:"name,omitempty"`
	Columns         []string         `json:"columns" yaml:"columns"`
	ReferredTable   core.RelationKey `json:"referred_table" yaml:"referred_table"`
	ReferredColumns []string         `json:"referred_columns" yaml:"referred_columns"`
}

// Table is everything needed to render a CREATE TABLE statement.
type Table struct {
	Key               core.RelationKey   `json:"key" yaml:"key"`
	Columns           []Column           `json:"columns" yaml:"columns"`
	PrimaryKey        PrimaryKey         `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	UniqueConstraints []UniqueConstraint `json:"unique_constraints,omitempty" yaml:"unique_constraints,omitempty"`
	ForeignKeys       []ForeignKey       `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
	Attributes        DistSortSpec       `json:"attributes" yaml:"attributes"`
}

// ColumnSpecification renders a single column definition:
// name, type, DEFAULT or IDENTITY, vendor attributes, then NOT NULL.
func ColumnSpecification(q Quoter, c Column) (string, error) {
	var b strings.Builder
	b.WriteString(q.QuoteIdentifierIfNeeded(c.Name))
	b.WriteString(" ")
	b.WriteString(c.Type)

	attrs := c.ColumnAttributes
	if c.Default != "" {
		// Identity columns are reflected as a default expression.
		if id, ok := ParseIdentity(c.Default); ok && attrs.Identity == nil {
			attrs.Identity = &id
		} else if !ok {
			b.WriteString(" DEFAULT ")
			b.WriteString(c.Default)
		}
	}

	rendered, err := RenderColumnAttributes(attrs)
	if err != nil {
		return "", fmt.Errorf("column %s: %w", c.Name, err)
	}
	if rendered != "" {
		b.WriteString(" ")
		b.WriteString(rendered)
	}

	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	return b.String(), nil
}

// CreateTable renders a CREATE TABLE statement for t, with table
// attributes after the closing parenthesis.
func CreateTable(q Quoter, t Table) (string, error) {
	if t.Key.IsZero() {
		return "", &core.CompileError{Command: "CREATE TABLE", Message: "table name is required"}
	}
	if len(t.Columns) == 0 {
		return "", &core.CompileError{Command: "CREATE TABLE", Message: fmt.Sprintf("table %s has no columns", t.Key)}
	}

	lines := make([]string, 0, len(t.Columns)+1+len(t.UniqueConstraints)+len(t.ForeignKeys))
	for _, c := range t.Columns {
		spec, err := ColumnSpecification(q, c)
		if err != nil {
			return "", err
		}
		lines = append(lines, spec)
	}

	if len(t.PrimaryKey.Columns) > 0 {
		lines = append(lines, constraintName(q, t.PrimaryKey.Name)+"PRIMARY KEY ("+quoteList(q, t.PrimaryKey.Columns)+")")
	}
	for _, u := range t.UniqueConstraints {
		lines = append(lines, constraintName(q, u.Name)+"UNIQUE ("+quoteList(q, u.Columns)+")")
	}
	for _, fk := range t.ForeignKeys {
		lines = append(lines, constraintName(q, fk.Name)+"FOREIGN KEY("+quoteList(q, fk.Columns)+") REFERENCES "+
			q.QuoteRelation(fk.ReferredTable)+" ("+quoteList(q, fk.ReferredColumns)+")")
	}

	attrs, err := TableAttributes(q, t.Attributes)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(q.QuoteRelation(t.Key))
	b.WriteString(" (\n\t")
	b.WriteString(strings.Join(lines, ",\n\t"))
	b.WriteString("\n)")
	if attrs != "" {
		b.WriteString(" ")
		b.WriteString(attrs)
	}
	return b.String(), nil
}

func constraintName(q Quoter, name string) string {
	if name == "" {
		return ""
	}
	return "CONSTRAINT " + q.QuoteIdentifierIfNeeded(name) + " "
}
