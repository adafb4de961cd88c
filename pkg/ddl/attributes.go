// Package ddl renders the distribution, sort and encoding attributes of
// tables and columns, and whole CREATE TABLE statements built from them.
package ddl

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/shiftsql/pkg/core"
)

// Quoter quotes identifiers for the target dialect. *dialect.Dialect implements it.
type Quoter interface {
	QuoteIdentifierIfNeeded(name string) string
	QuoteRelation(key core.RelationKey) string
}

// DistStyle is a table distribution style.
type DistStyle string

// Distribution styles. DistStyleNone leaves the choice to the server.
const (
	DistStyleNone DistStyle = ""
	DistStyleEven DistStyle = "EVEN"
	DistStyleKey  DistStyle = "KEY"
	DistStyleAll  DistStyle = "ALL"
)

// ParseDistStyle accepts EVEN, KEY or ALL in any case, or the empty string.
func ParseDistStyle(s string) (DistStyle, error) {
	style := DistStyle(strings.ToUpper(strings.TrimSpace(s)))
	switch style {
	case DistStyleNone, DistStyleEven, DistStyleKey, DistStyleAll:
		return style, nil
	default:
		return "", core.NewOptionError(core.ErrInvalidDiststyle, "diststyle", "%s is invalid", s)
	}
}

// SortKeyType selects between compound and interleaved sort keys.
type SortKeyType string

// Sort key types. The empty value means compound.
const (
	SortKeyCompound    SortKeyType = "COMPOUND"
	SortKeyInterleaved SortKeyType = "INTERLEAVED"
)

// ParseSortKeyType accepts COMPOUND or INTERLEAVED in any case.
// The empty string is compound.
func ParseSortKeyType(s string) (SortKeyType, error) {
	switch t := SortKeyType(strings.ToUpper(strings.TrimSpace(s))); t {
	case "", SortKeyCompound:
		return SortKeyCompound, nil
	case SortKeyInterleaved:
		return t, nil
	default:
		return "", core.NewOptionError(core.ErrInvalidSortkeyType, "sortkey_type",
			"must be one of %s or %s, got %q", SortKeyCompound, SortKeyInterleaved, s)
	}
}

// DistSortSpec holds the table-level distribution and sort attributes.
// SortKey and InterleavedSortKey are mutually exclusive.
type DistSortSpec struct {
	DistStyle          DistStyle `json:"diststyle,omitempty" yaml:"diststyle,omitempty"`
	DistKey            string    `json:"distkey,omitempty" yaml:"distkey,omitempty"`
	SortKey            []string  `json:"sortkey,omitempty" yaml:"sortkey,omitempty"`
	InterleavedSortKey []string  `json:"interleaved_sortkey,omitempty" yaml:"interleaved_sortkey,omitempty"`
}

// NewDistSortSpec builds a spec from loosely typed input: the diststyle is
// parsed, and sortKeyType decides which sort key slot receives sortKey.
func NewDistSortSpec(diststyle, distkey string, sortKey []string, sortKeyType string) (DistSortSpec, error) {
	style, err := ParseDistStyle(diststyle)
	if err != nil {
		return DistSortSpec{}, err
	}
	kind, err := ParseSortKeyType(sortKeyType)
	if err != nil {
		return DistSortSpec{}, err
	}

	spec := DistSortSpec{DistStyle: style, DistKey: distkey}
	if kind == SortKeyInterleaved {
		spec.InterleavedSortKey = sortKey
	} else {
		spec.SortKey = sortKey
	}
	return spec, spec.Validate()
}

// Validate checks the distribution and sort key invariants.
func (s DistSortSpec) Validate() error {
	style, err := ParseDistStyle(string(s.DistStyle))
	if err != nil {
		return err
	}
	switch {
	case style == DistStyleKey && s.DistKey == "":
		return core.NewOptionError(core.ErrArgumentConflict, "distkey", "must be set when diststyle is KEY")
	case s.DistKey != "" && style != DistStyleNone && style != DistStyleKey:
		return core.NewOptionError(core.ErrArgumentConflict, "distkey",
			"cannot be used with diststyle %s; only KEY is compatible", style)
	case len(s.SortKey) > 0 && len(s.InterleavedSortKey) > 0:
		return core.NewOptionError(core.ErrArgumentConflict, "sortkey",
			"and interleaved_sortkey are mutually exclusive; you may not specify both")
	}
	return nil
}

// IsZero reports whether no attribute is set.
func (s DistSortSpec) IsZero() bool {
	return s.DistStyle == DistStyleNone && s.DistKey == "" && len(s.SortKey) == 0 && len(s.InterleavedSortKey) == 0
}

// Interleaved reports whether the sort key is interleaved.
func (s DistSortSpec) Interleaved() bool {
	return len(s.InterleavedSortKey) > 0
}

// TableAttributes renders DISTSTYLE, DISTKEY and the sort key in that order.
// It returns the empty string when spec sets nothing.
func TableAttributes(q Quoter, spec DistSortSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	if spec.IsZero() {
		return "", nil
	}

	var parts []string
	if spec.DistStyle != DistStyleNone {
		style, _ := ParseDistStyle(string(spec.DistStyle))
		parts = append(parts, "DISTSTYLE "+string(style))
	}
	if spec.DistKey != "" {
		parts = append(parts, "DISTKEY ("+q.QuoteIdentifierIfNeeded(spec.DistKey)+")")
	}
	switch {
	case spec.Interleaved():
		parts = append(parts, "INTERLEAVED SORTKEY ("+quoteList(q, spec.InterleavedSortKey)+")")
	case len(spec.SortKey) > 0:
		parts = append(parts, "SORTKEY ("+quoteList(q, spec.SortKey)+")")
	}
	return strings.Join(parts, " "), nil
}

// Identity is an IDENTITY(seed, step) column property.
type Identity struct {
	Seed int64 `json:"seed" yaml:"seed"`
	Step int64 `json:"step" yaml:"step"`
}

func (i Identity) String() string {
	return "IDENTITY(" + strconv.FormatInt(i.Seed, 10) + "," + strconv.FormatInt(i.Step, 10) + ")"
}

// Column compression encodings accepted in ENCODE.
var encodings = map[string]struct{}{
	"raw": {}, "az64": {}, "bytedict": {}, "delta": {}, "delta32k": {},
	"lzo": {}, "mostly8": {}, "mostly16": {}, "mostly32": {}, "runlength": {},
	"text255": {}, "text32k": {}, "zstd": {},
}

// ColumnAttributes are the per-column vendor properties.
type ColumnAttributes struct {
	Identity *Identity `json:"identity,omitempty" yaml:"identity,omitempty"`
	Encode   string    `json:"encode,omitempty" yaml:"encode,omitempty"`
	DistKey  bool      `json:"distkey,omitempty" yaml:"distkey,omitempty"`
	SortKey  bool      `json:"sortkey,omitempty" yaml:"sortkey,omitempty"`
}

// Validate rejects unknown encodings.
func (a ColumnAttributes) Validate() error {
	if a.Encode == "" {
		return nil
	}
	if _, ok := encodings[strings.ToLower(a.Encode)]; !ok {
		return core.NewOptionError(core.ErrInvalidFormat, "encode", "%q is not a known column encoding", a.Encode)
	}
	return nil
}

// RenderColumnAttributes renders IDENTITY, ENCODE, DISTKEY and SORTKEY in that order.
func RenderColumnAttributes(a ColumnAttributes) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}

	var parts []string
	if a.Identity != nil {
		parts = append(parts, a.Identity.String())
	}
	if a.Encode != "" {
		parts = append(parts, "ENCODE "+strings.ToLower(a.Encode))
	}
	if a.DistKey {
		parts = append(parts, "DISTKEY")
	}
	if a.SortKey {
		parts = append(parts, "SORTKEY")
	}
	return strings.Join(parts, " "), nil
}

func quoteList(q Quoter, names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = q.QuoteIdentifierIfNeeded(n)
	}
	return strings.Join(quoted, ", ")
}
