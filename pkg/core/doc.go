// Package core defines the shared language of the shiftsql system.
//
// This package contains:
//   - RelationKey, the (schema, name) pair used to key catalog lookups
//   - The error taxonomy shared by the command compiler and the catalog engine
//   - Dialect and adapter configuration types
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
