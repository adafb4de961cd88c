package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data; the runtime quoting behavior lives in pkg/dialect.Dialect.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "redshift")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// Literals defines how string literals are quoted
	Literals LiteralConfig

	// MaxIdentifierLength is the longest identifier the server accepts, in bytes.
	// Zero means unlimited.
	MaxIdentifierLength int
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase.
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly.
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison.
	NormCaseInsensitive
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// LiteralConfig defines how string literals are quoted.
type LiteralConfig struct {
	Quote  string // Quote character, usually '
	Escape string // Replacement for an embedded quote, usually ''
	// BackslashEscapes is set when the server treats backslash as an escape
	// character inside literals, so backslashes must be doubled.
	BackslashEscapes bool
}
