package condef

import "fmt"

// ParseError reports where a constraint definition stopped making sense.
type ParseError struct {
	Pos     int // byte offset into the definition
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("constraint definition parse error at offset %d: %s", e.Pos, e.Message)
}

// Common error messages
const (
	errUnexpectedToken   = "unexpected %s, expected %s"
	errUnterminatedQuote = "unterminated quoted identifier"
	errUnknownConstraint = "unsupported constraint %q"
)
