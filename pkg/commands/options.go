package commands

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/credentials"
	"github.com/leapstack-labs/shiftsql/pkg/ddl"
	"github.com/leapstack-labs/shiftsql/pkg/dialects/redshift"
)

// Format is a data file format.
type Format string

// Formats accepted by COPY and UNLOAD. The empty format means delimited text.
const (
	FormatNone       Format = ""
	FormatCSV        Format = "CSV"
	FormatJSON       Format = "JSON"
	FormatAvro       Format = "AVRO"
	FormatORC        Format = "ORC"
	FormatParquet    Format = "PARQUET"
	FormatFixedWidth Format = "FIXEDWIDTH"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToUpper(strings.TrimSpace(s)))
	switch f {
	case FormatNone, FormatCSV, FormatJSON, FormatAvro, FormatORC, FormatParquet, FormatFixedWidth:
		return f, nil
	default:
		return "", core.NewOptionError(core.ErrInvalidFormat, "format", "%q is not one of CSV, JSON, AVRO, ORC, PARQUET, FIXEDWIDTH", s)
	}
}

// columnar reports whether f is a columnar format that takes no text options.
func (f Format) columnar() bool {
	return f == FormatParquet || f == FormatORC
}

// Compression is a file compression codec.
type Compression string

// Compression codecs. The empty value means uncompressed.
const (
	CompressionNone  Compression = ""
	CompressionGzip  Compression = "GZIP"
	CompressionLzop  Compression = "LZOP"
	CompressionBzip2 Compression = "BZIP2"
)

// ParseCompression accepts a codec name in any case.
func ParseCompression(s string) (Compression, error) {
	c := Compression(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CompressionNone, CompressionGzip, CompressionLzop, CompressionBzip2:
		return c, nil
	default:
		return "", core.NewOptionError(core.ErrInvalidFormat, "compression", "%q is not one of GZIP, LZOP, BZIP2", s)
	}
}

// Encoding is the character encoding of loaded files.
type Encoding string

// Encodings accepted by COPY.
const (
	EncodingNone    Encoding = ""
	EncodingUTF8    Encoding = "UTF8"
	EncodingUTF16   Encoding = "UTF16"
	EncodingUTF16LE Encoding = "UTF16LE"
	EncodingUTF16BE Encoding = "UTF16BE"
)

// ParseEncoding accepts an encoding name in any case.
func ParseEncoding(s string) (Encoding, error) {
	e := Encoding(strings.ToUpper(strings.TrimSpace(s)))
	switch e {
	case EncodingNone, EncodingUTF8, EncodingUTF16, EncodingUTF16LE, EncodingUTF16BE:
		return e, nil
	default:
		return "", core.NewOptionError(core.ErrInvalidFormat, "encoding", "%q is not one of UTF8, UTF16, UTF16LE, UTF16BE", s)
	}
}

// FixedWidthColumn is one (column, width) pair of a fixed-width layout.
type FixedWidthColumn struct {
	Name  string
	Width int
}

// DistSortOptions are the loosely typed table attributes accepted by
// CREATE TABLE AS and CREATE MATERIALIZED VIEW.
type DistSortOptions struct {
	DistStyle   string
	DistKey     string
	SortKey     []string
	SortKeyType string // COMPOUND (default) or INTERLEAVED
}

func (o DistSortOptions) spec() (ddl.DistSortSpec, error) {
	if err := checkIdentifiers("distkey", o.DistKey); err != nil {
		return ddl.DistSortSpec{}, err
	}
	if err := checkIdentifiers("sortkey", o.SortKey...); err != nil {
		return ddl.DistSortSpec{}, err
	}
	return ddl.NewDistSortSpec(o.DistStyle, o.DistKey, o.SortKey, o.SortKeyType)
}

// checkIdentifiers rejects names longer than the server accepts.
func checkIdentifiers(option string, names ...string) error {
	for _, n := range names {
		if redshift.Redshift.IdentifierTooLong(n) {
			return core.NewOptionError(core.ErrInvalidIdentifier, option,
				"%q is longer than %d bytes", n, redshift.Redshift.MaxIdentifierLength)
		}
	}
	return nil
}

func checkRelation(option string, key core.RelationKey) error {
	return checkIdentifiers(option, key.Schema, key.Name)
}

func incompatible(option, format string, args ...any) error {
	return core.NewOptionError(core.ErrIncompatibleOption, option, format, args...)
}

func resolveCredentials(c credentials.Credentials) (string, error) {
	return credentials.Resolve(c)
}

func singleChar(option, value string) error {
	if utf8.RuneCountInString(value) != 1 {
		return incompatible(option, "must be a single character, got %q", value)
	}
	return nil
}

func required(option, value string) error {
	if strings.TrimSpace(value) == "" {
		return incompatible(option, "is required")
	}
	return nil
}

func validateFixedWidth(spec []FixedWidthColumn) error {
	for _, col := range spec {
		if col.Name == "" || strings.ContainsAny(col.Name, ":,") {
			return incompatible("fixed_width", "column label %q must be non-empty and contain no ':' or ','", col.Name)
		}
		if col.Width <= 0 {
			return incompatible("fixed_width", "width of %q must be positive, got %d", col.Name, col.Width)
		}
	}
	return nil
}

// fixedWidthSpec renders label:width pairs separated by commas.
func fixedWidthSpec(spec []FixedWidthColumn) string {
	parts := make([]string, len(spec))
	for i, col := range spec {
		parts[i] = col.Name + ":" + strconv.Itoa(col.Width)
	}
	return strings.Join(parts, ",")
}
