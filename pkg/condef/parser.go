// Package condef parses the constraint definitions the catalog stores as
// text, e.g. FOREIGN KEY (a) REFERENCES s.t (b).
package condef

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/shiftsql/pkg/core"
)

// Kind is the constraint type.
type Kind int

// Constraint kinds.
const (
	PrimaryKey Kind = iota + 1
	ForeignKey
	Unique
)

func (k Kind) String() string {
	switch k {
	case PrimaryKey:
		return "PRIMARY KEY"
	case ForeignKey:
		return "FOREIGN KEY"
	case Unique:
		return "UNIQUE"
	default:
		return "UNKNOWN"
	}
}

// Constraint is a parsed constraint definition. Identifiers are unquoted.
type Constraint struct {
	Kind            Kind
	Columns         []string
	ReferredSchema  string
	ReferredTable   string
	ReferredColumns []string
}

// ReferredKey returns the referenced relation of a foreign key.
func (c Constraint) ReferredKey() core.RelationKey {
	return core.RelationKey{Name: c.ReferredTable, Schema: c.ReferredSchema}
}

// primaryKeyRe matches the common all-bare-identifier primary key form.
var primaryKeyRe = regexp.MustCompile(`^PRIMARY\s+KEY\s*\(\s*([A-Za-z_][A-Za-z0-9_$]*(?:\s*,\s*[A-Za-z_][A-Za-z0-9_$]*)*)\s*\)`)

// ParsePrimaryKey returns the columns of a PRIMARY KEY definition.
func ParsePrimaryKey(def string) ([]string, error) {
	if m := primaryKeyRe.FindStringSubmatch(def); m != nil {
		cols := strings.Split(m[1], ",")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		return cols, nil
	}

	c, err := Parse(def)
	if err != nil {
		return nil, err
	}
	if c.Kind != PrimaryKey {
		return nil, &ParseError{Pos: 0, Message: fmt.Sprintf("expected PRIMARY KEY, got %s", c.Kind)}
	}
	return c.Columns, nil
}

// Parse parses a PRIMARY KEY, UNIQUE or FOREIGN KEY definition. Text after
// the last column list (MATCH, ON DELETE, DEFERRABLE ...) is ignored.
func Parse(def string) (Constraint, error) {
	p := newParser(def)
	c, err := p.parseConstraint()
	if err != nil {
		return Constraint{}, err
	}
	return c, nil
}

// SplitIdentifiers splits a comma-separated identifier list such as
// `a, "b,c", "d""e"` into unquoted names.
func SplitIdentifiers(list string) ([]string, error) {
	p := newParser(list)
	var names []string
	for {
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.match(TokenComma) {
			break
		}
	}
	if !p.check(TokenEOF) {
		return nil, p.unexpected("',' or end of input")
	}
	return names, nil
}

// Parser is a recursive-descent parser over a Lexer.
type Parser struct {
	lexer *Lexer
	token Token
}

func newParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.token = p.lexer.NextToken()
}

func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

func (p *Parser) match(t TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) expect(t TokenType) error {
	if p.match(t) {
		return nil
	}
	return p.unexpected(t.String())
}

// checkKeyword reports whether the current token is the bare word kw.
func (p *Parser) checkKeyword(kw string) bool {
	return p.check(TokenIdent) && strings.EqualFold(p.token.Literal, kw)
}

func (p *Parser) expectKeyword(kw string) error {
	if p.checkKeyword(kw) {
		p.nextToken()
		return nil
	}
	return p.unexpected(kw)
}

func (p *Parser) unexpected(want string) error {
	if p.check(TokenIllegal) {
		if err := p.lexer.Err(); err != nil {
			return err
		}
	}
	got := p.token.Type.String()
	if p.token.Literal != "" {
		got = fmt.Sprintf("%s %q", got, p.token.Literal)
	}
	return &ParseError{Pos: p.token.Pos, Message: fmt.Sprintf(errUnexpectedToken, got, want)}
}

// constraint := PRIMARY KEY columns | UNIQUE columns | FOREIGN KEY columns REFERENCES relation columns
func (p *Parser) parseConstraint() (Constraint, error) {
	var c Constraint
	var err error

	switch {
	case p.checkKeyword("PRIMARY"):
		p.nextToken()
		if err = p.expectKeyword("KEY"); err != nil {
			return c, err
		}
		c.Kind = PrimaryKey
		c.Columns, err = p.parseColumnList()
		return c, err

	case p.checkKeyword("UNIQUE"):
		p.nextToken()
		c.Kind = Unique
		c.Columns, err = p.parseColumnList()
		return c, err

	case p.checkKeyword("FOREIGN"):
		p.nextToken()
		if err = p.expectKeyword("KEY"); err != nil {
			return c, err
		}
		c.Kind = ForeignKey
		if c.Columns, err = p.parseColumnList(); err != nil {
			return c, err
		}
		if err = p.expectKeyword("REFERENCES"); err != nil {
			return c, err
		}
		if c.ReferredSchema, c.ReferredTable, err = p.parseRelation(); err != nil {
			return c, err
		}
		c.ReferredColumns, err = p.parseColumnList()
		return c, err

	case p.check(TokenIdent):
		return c, &ParseError{Pos: p.token.Pos, Message: fmt.Sprintf(errUnknownConstraint, p.token.Literal)}

	default:
		return c, p.unexpected("PRIMARY KEY, UNIQUE or FOREIGN KEY")
	}
}

// columns := '(' identifier { ',' identifier } ')'
func (p *Parser) parseColumnList() ([]string, error) {
	if err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	var cols []string
	for {
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		cols = append(cols, name)
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return cols, nil
}

// relation := identifier [ '.' identifier ]
func (p *Parser) parseRelation() (schema, table string, err error) {
	first, err := p.parseIdentifier()
	if err != nil {
		return "", "", err
	}
	if !p.match(TokenDot) {
		return "", first, nil
	}
	second, err := p.parseIdentifier()
	if err != nil {
		return "", "", err
	}
	return first, second, nil
}

func (p *Parser) parseIdentifier() (string, error) {
	switch p.token.Type {
	case TokenIdent, TokenQuotedIdent:
		name := p.token.Literal
		p.nextToken()
		return name, nil
	default:
		return "", p.unexpected("identifier")
	}
}
