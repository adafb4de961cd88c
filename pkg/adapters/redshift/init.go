// Package redshift provides the Amazon Redshift database adapter.
//
// This file registers the adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/shiftsql/pkg/adapters/redshift"
package redshift

import (
	"log/slog"

	"github.com/leapstack-labs/shiftsql/pkg/adapter"
)

func init() {
	adapter.Register("redshift", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
