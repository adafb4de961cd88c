package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the compiler or the catalog engine
// matches exactly one of these through errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrIncompatibleOption = errors.New("incompatible option")
	ErrArgumentConflict   = errors.New("argument conflict")
	ErrInvalidDiststyle   = errors.New("invalid diststyle")
	ErrInvalidSortkeyType = errors.New("invalid sortkey type")
	ErrMixedTableColumns  = errors.New("columns from more than one table")
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrNoSuchTable        = errors.New("no such table")
	ErrCompile            = errors.New("compile error")
	ErrCatalogQuery       = errors.New("catalog query failed")
)

// OptionError reports an invalid option value or combination.
type OptionError struct {
	Kind    error
	Option  string
	Message string
}

// NewOptionError builds an OptionError of the given kind.
func NewOptionError(kind error, option, format string, args ...any) *OptionError {
	return &OptionError{Kind: kind, Option: option, Message: fmt.Sprintf(format, args...)}
}

func (e *OptionError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%v: %q %s", e.Kind, e.Option, e.Message)
}

func (e *OptionError) Unwrap() error {
	return e.Kind
}

// CompileError is raised by the renderer for states that are only detectable
// when the statement is built.
type CompileError struct {
	Command string
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("cannot compile %s: %s", e.Command, e.Message)
}

func (e *CompileError) Unwrap() error {
	return ErrCompile
}

// NoSuchTableError is returned when a relation is absent from the catalog.
type NoSuchTableError struct {
	Key RelationKey
}

func (e *NoSuchTableError) Error() string {
	return fmt.Sprintf("no such table: %s", e.Key)
}

func (e *NoSuchTableError) Unwrap() error {
	return ErrNoSuchTable
}

// CatalogQueryError wraps a transport failure from one of the catalog queries.
type CatalogQueryError struct {
	Query string
	Err   error
}

func (e *CatalogQueryError) Error() string {
	return fmt.Sprintf("catalog query %s failed: %v", e.Query, e.Err)
}

func (e *CatalogQueryError) Unwrap() []error {
	return []error{ErrCatalogQuery, e.Err}
}
