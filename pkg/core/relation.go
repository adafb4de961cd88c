package core

import (
	"fmt"
	"strings"
)

// RelationKey identifies a table or view by name and schema.
// Keys are comparable and are used directly as map keys by the catalog cache.
type RelationKey struct {
	Name   string `json:"name" yaml:"name"`
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// NewRelationKey returns a key for name in schema.
func NewRelationKey(name, schema string) RelationKey {
	return RelationKey{Name: name, Schema: schema}
}

// String renders the key as schema.name, or just name when no schema is set.
func (k RelationKey) String() string {
	if k.Schema == "" {
		return k.Name
	}
	return k.Schema + "." + k.Name
}

// IsZero reports whether the key has no name.
func (k RelationKey) IsZero() bool {
	return k.Name == ""
}

// WithDefaultSchema returns k with schema filled in when k has none.
func (k RelationKey) WithDefaultSchema(schema string) RelationKey {
	if k.Schema != "" {
		return k
	}
	k.Schema = schema
	return k
}

// Unquoted returns the key with one level of double quotes removed from
// both parts. The catalog stores keyword-named relations without quotes.
func (k RelationKey) Unquoted() RelationKey {
	return RelationKey{Name: Unquote(k.Name), Schema: Unquote(k.Schema)}
}

// Equal reports whether both keys name the same relation once unquoted.
func (k RelationKey) Equal(other RelationKey) bool {
	return k.Unquoted() == other.Unquoted()
}

// Unquote strips one level of double quotes from a delimited identifier
// and collapses doubled embedded quotes. Bare identifiers are returned as is.
func Unquote(ident string) string {
	if len(ident) < 2 || ident[0] != '"' || ident[len(ident)-1] != '"' {
		return ident
	}
	return strings.ReplaceAll(ident[1:len(ident)-1], `""`, `"`)
}

// SplitQualified splits a dotted reference such as sales."Order".id into
// its parts. Dots inside double quotes do not split; quotes are kept.
func SplitQualified(ref string) ([]string, error) {
	var parts []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == '.' && !inQuotes:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quoted identifier in %q", ref)
	}
	parts = append(parts, cur.String())

	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("empty identifier in %q", ref)
		}
	}
	return parts, nil
}

// ParseRelationKey splits a possibly schema-qualified reference such as
// sales."Order" into a key. Quotes are kept so that lookups can try the
// exact form first.
func ParseRelationKey(ref string) (RelationKey, error) {
	parts, err := SplitQualified(ref)
	if err != nil {
		return RelationKey{}, err
	}
	switch len(parts) {
	case 1:
		return RelationKey{Name: parts[0]}, nil
	case 2:
		return RelationKey{Schema: parts[0], Name: parts[1]}, nil
	default:
		return RelationKey{}, fmt.Errorf("too many name parts in %q", ref)
	}
}
