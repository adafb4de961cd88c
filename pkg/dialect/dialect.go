// Package dialect provides SQL dialect configuration: identifier quoting,
// literal quoting and reserved words.
//
// This package contains the public contract for dialect definitions used by the
// command compiler, the DDL compiler and the catalog engine. Concrete dialect
// implementations are registered from pkg/dialects/*/ packages.
package dialect

import (
	"strings"

	"github.com/leapstack-labs/shiftsql/pkg/core"
)

// Re-exported configuration constants so dialect definitions only import this package.
const (
	NormLowercase       = core.NormLowercase
	NormUppercase       = core.NormUppercase
	NormCaseSensitive   = core.NormCaseSensitive
	NormCaseInsensitive = core.NormCaseInsensitive
)

// NormalizationStrategy is an alias for core.NormalizationStrategy.
type NormalizationStrategy = core.NormalizationStrategy

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig
	Literals    core.LiteralConfig

	// MaxIdentifierLength is the longest identifier in bytes. Zero means unlimited.
	MaxIdentifierLength int

	reservedWords map[string]struct{}
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[strings.ToLower(word)]
	return ok
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// NeedsQuoting reports whether name must be delimited to survive a round
// trip through the server: reserved words, names with characters outside
// [A-Za-z0-9_$], names starting with a digit or $, and names whose case
// would be folded by normalization.
func (d *Dialect) NeedsQuoting(name string) bool {
	if name == "" {
		return true
	}
	if d.IsReservedWord(name) {
		return true
	}
	if c := name[0]; (c >= '0' && c <= '9') || c == '$' {
		return true
	}
	for i := 0; i < len(name); i++ {
		if !isLegalIdentChar(name[i]) {
			return true
		}
	}
	return d.NormalizeName(name) != name
}

// QuoteIdentifierIfNeeded quotes an identifier only when NeedsQuoting says so.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if d.NeedsQuoting(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

// QuoteRelation renders a possibly schema-qualified relation name.
func (d *Dialect) QuoteRelation(key core.RelationKey) string {
	if key.Schema == "" {
		return d.QuoteIdentifierIfNeeded(key.Name)
	}
	return d.QuoteIdentifierIfNeeded(key.Schema) + "." + d.QuoteIdentifierIfNeeded(key.Name)
}

// QuoteLiteral renders s as a string literal. Embedded quotes are doubled;
// backslashes are doubled when the dialect treats them as escapes.
func (d *Dialect) QuoteLiteral(s string) string {
	quote := d.Literals.Quote
	if quote == "" {
		quote = "'"
	}
	escape := d.Literals.Escape
	if escape == "" {
		escape = quote + quote
	}
	if d.Literals.BackslashEscapes {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return quote + strings.ReplaceAll(s, quote, escape) + quote
}

// IdentifierTooLong reports whether name exceeds the dialect's maximum length.
func (d *Dialect) IdentifierTooLong(name string) bool {
	return d.MaxIdentifierLength > 0 && len(name) > d.MaxIdentifierLength
}

func isLegalIdentChar(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: core.IdentifierConfig{
				Quote:         `"`,
				QuoteEnd:      `"`,
				Escape:        `""`,
				Normalization: core.NormLowercase,
			},
			Literals: core.LiteralConfig{
				Quote:  `'`,
				Escape: `''`,
			},
			reservedWords: make(map[string]struct{}),
		},
	}
}

// New creates a dialect builder from a DialectConfig.
func New(cfg *core.DialectConfig) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name:                cfg.Name,
			Identifiers:         cfg.Identifiers,
			Literals:            cfg.Literals,
			MaxIdentifierLength: cfg.MaxIdentifierLength,
			reservedWords:       make(map[string]struct{}),
		},
	}
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// Literals configures string literal quoting.
func (b *Builder) Literals(quote, escape string, backslashEscapes bool) *Builder {
	b.dialect.Literals = core.LiteralConfig{
		Quote:            quote,
		Escape:           escape,
		BackslashEscapes: backslashEscapes,
	}
	return b
}

// WithReservedWords registers words that need quoting when used as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.dialect.reservedWords[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
