// Package commands builds vendor-specific statements (COPY, UNLOAD, CREATE
// TABLE AS, materialized views, ALTER TABLE APPEND, CREATE LIBRARY) from
// validated option structs.
//
// Every command is validated once by its constructor. A constructed command
// is immutable and Compile renders it without re-validating.
package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/dialect"
	"github.com/leapstack-labs/shiftsql/pkg/dialects/redshift"
)

// Command is implemented only by the command types of this package.
type Command interface {
	// Kind names the statement, e.g. "COPY".
	Kind() string

	command()
}

func (*Copy) command()                    {}
func (*Unload) command()                  {}
func (*CreateTableAs) command()           {}
func (*CreateMaterializedView) command()  {}
func (*DropMaterializedView) command()    {}
func (*RefreshMaterializedView) command() {}
func (*AlterTableAppend) command()        {}
func (*CreateLibrary) command()           {}

// ColumnRef names a column of a specific table.
type ColumnRef struct {
	Table core.RelationKey
	Name  string
}

// Compiler renders commands for a dialect.
type Compiler struct {
	dialect *dialect.Dialect
}

// NewCompiler returns a compiler for d. A nil dialect means Redshift.
func NewCompiler(d *dialect.Dialect) *Compiler {
	if d == nil {
		d = redshift.Redshift
	}
	return &Compiler{dialect: d}
}

var defaultCompiler = NewCompiler(nil)

// Render compiles cmd with the Redshift dialect.
func Render(cmd Command) (string, error) {
	return defaultCompiler.Compile(cmd)
}

// Compile renders cmd as SQL text.
func (c *Compiler) Compile(cmd Command) (string, error) {
	switch cmd := cmd.(type) {
	case *Copy:
		return c.compileCopy(cmd)
	case *Unload:
		return c.compileUnload(cmd)
	case *CreateTableAs:
		return c.compileCreateTableAs(cmd)
	case *CreateMaterializedView:
		return c.compileCreateMaterializedView(cmd)
	case *DropMaterializedView:
		return c.compileDropMaterializedView(cmd), nil
	case *RefreshMaterializedView:
		return c.compileRefreshMaterializedView(cmd), nil
	case *AlterTableAppend:
		return c.compileAlterTableAppend(cmd), nil
	case *CreateLibrary:
		return c.compileCreateLibrary(cmd), nil
	case nil:
		return "", &core.CompileError{Command: "<nil>", Message: "no command given"}
	default:
		return "", &core.CompileError{Command: fmt.Sprintf("%T", cmd), Message: "unsupported command"}
	}
}

// literal quotes a value for embedding as a string literal.
func (c *Compiler) literal(s string) string {
	return c.dialect.QuoteLiteral(s)
}

// selectLiteral quotes a query embedded as the UNLOAD source. Percent signs
// are doubled on this path only, because the execution layer re-interprets
// the statement as a format template.
func (c *Compiler) selectLiteral(query string) string {
	return c.dialect.QuoteLiteral(strings.ReplaceAll(query, "%", "%%"))
}

func (c *Compiler) identList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = c.dialect.QuoteIdentifierIfNeeded(n)
	}
	return strings.Join(quoted, ", ")
}

// statement accumulates clauses, one per line.
type statement []string

func (s *statement) add(clause string) {
	*s = append(*s, clause)
}

func (s *statement) addIf(cond bool, clause string) {
	if cond {
		*s = append(*s, clause)
	}
}

func (s statement) String() string {
	return strings.Join(s, "\n")
}
