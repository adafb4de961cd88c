// Package redshift provides the Amazon Redshift SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package redshift

import "github.com/leapstack-labs/shiftsql/pkg/core"

// Config is the Redshift dialect configuration.
// This is pure data with no connection state.
var Config = &core.DialectConfig{
	Name: "redshift",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase, // Redshift folds unquoted identifiers to lowercase
	},
	Literals: core.LiteralConfig{
		Quote:            `'`,
		Escape:           `''`,
		BackslashEscapes: true,
	},
	MaxIdentifierLength: 127,
}
