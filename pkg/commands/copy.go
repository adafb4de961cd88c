package commands

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/credentials"
)

// CopyOptions describes a bulk load. Start from DefaultCopyOptions.
type CopyOptions struct {
	// Table is the target. When Columns is set it may be left empty.
	Table   core.RelationKey
	Columns []ColumnRef

	DataLocation string
	Credentials  credentials.Credentials

	Format      Format
	Quote       string // CSV only
	PathFile    string // JSON and AVRO; defaults to "auto"
	Delimiter   string
	FixedWidth  []FixedWidthColumn
	Compression Compression

	Manifest         bool
	AcceptAnyDate    bool
	AcceptInvChars   string // replacement character; empty means absent
	BlanksAsNull     bool
	DateFormat       string
	EmptyAsNull      bool
	Encoding         Encoding
	Escape           bool
	ExplicitIDs      bool
	FillRecord       bool
	IgnoreBlankLines bool
	IgnoreHeader     int

	// DangerousNullDelimiter is emitted verbatim between single quotes so
	// that sequences such as \0 reach the server unchanged.
	DangerousNullDelimiter *string

	RemoveQuotes    bool
	Roundec         bool
	TimeFormat      string
	TrimBlanks      bool
	TruncateColumns bool
	CompRows        int
	CompUpdate      *bool
	MaxError        *int
	NoLoad          bool
	StatUpdate      *bool
	Region          string
}

// DefaultCopyOptions returns the options every COPY starts from.
func DefaultCopyOptions() CopyOptions {
	return CopyOptions{
		PathFile:        "auto",
		TruncateColumns: true,
	}
}

// Copy is a validated COPY command.
type Copy struct {
	opts        CopyOptions
	table       core.RelationKey
	columns     []string
	credentials string
}

// NewCopy validates opts and returns the command.
func NewCopy(opts CopyOptions) (*Copy, error) {
	creds, err := resolveCredentials(opts.Credentials)
	if err != nil {
		return nil, err
	}
	if err := required("data_location", opts.DataLocation); err != nil {
		return nil, err
	}

	if opts.Format, err = ParseFormat(string(opts.Format)); err != nil {
		return nil, err
	}
	if opts.Compression, err = ParseCompression(string(opts.Compression)); err != nil {
		return nil, err
	}
	if opts.Encoding, err = ParseEncoding(string(opts.Encoding)); err != nil {
		return nil, err
	}

	table, columns, err := copyTarget(opts.Table, opts.Columns)
	if err != nil {
		return nil, err
	}
	if err := checkRelation("to", table); err != nil {
		return nil, err
	}
	if err := checkIdentifiers("to", columns...); err != nil {
		return nil, err
	}

	if err := validateCopyFormat(opts); err != nil {
		return nil, err
	}

	switch {
	case opts.IgnoreHeader < 0:
		return nil, incompatible("ignore_header", "must be a non-negative integer, got %d", opts.IgnoreHeader)
	case opts.CompRows < 0:
		return nil, incompatible("comp_rows", "must be a non-negative integer, got %d", opts.CompRows)
	case opts.MaxError != nil && *opts.MaxError < 0:
		return nil, incompatible("max_error", "must be a non-negative integer, got %d", *opts.MaxError)
	}

	if opts.AcceptInvChars != "" {
		if err := singleChar("accept_inv_chars", opts.AcceptInvChars); err != nil {
			return nil, err
		}
	}
	if opts.DangerousNullDelimiter != nil && strings.Contains(*opts.DangerousNullDelimiter, "'") {
		return nil, incompatible("dangerous_null_delimiter", "must not contain a single quote")
	}

	opts.Columns = append([]ColumnRef(nil), opts.Columns...)
	opts.FixedWidth = append([]FixedWidthColumn(nil), opts.FixedWidth...)

	return &Copy{
		opts:        opts,
		table:       table,
		columns:     columns,
		credentials: creds,
	}, nil
}

// Kind returns "COPY".
func (*Copy) Kind() string { return "COPY" }

// Table returns the load target.
func (c *Copy) Table() core.RelationKey { return c.table }

// copyTarget checks that every column belongs to the same table.
func copyTarget(table core.RelationKey, cols []ColumnRef) (core.RelationKey, []string, error) {
	if len(cols) == 0 {
		if table.IsZero() {
			return core.RelationKey{}, nil, incompatible("to", "a table or a list of columns is required")
		}
		return table, nil, nil
	}

	if table.IsZero() {
		table = cols[0].Table
	}
	if table.IsZero() {
		return core.RelationKey{}, nil, incompatible("to", "columns must name their table")
	}

	names := make([]string, len(cols))
	for i, col := range cols {
		// A column without a table belongs to the explicit target.
		if !col.Table.IsZero() && col.Table != table {
			return core.RelationKey{}, nil, core.NewOptionError(core.ErrMixedTableColumns, "to",
				"all columns must come from the same table: %s comes from %s, not %s", col.Name, col.Table, table)
		}
		if col.Name == "" {
			return core.RelationKey{}, nil, incompatible("to", "column names must not be empty")
		}
		names[i] = col.Name
	}
	return table, names, nil
}

func validateCopyFormat(opts CopyOptions) error {
	f := opts.Format

	if opts.Delimiter != "" {
		if f != FormatNone && f != FormatCSV {
			return incompatible("delimiter", "cannot be used with %s format", f)
		}
		if err := singleChar("delimiter", opts.Delimiter); err != nil {
			return err
		}
	}

	if opts.Quote != "" {
		if f != FormatCSV {
			return incompatible("quote", "can only be used with CSV format")
		}
		if err := singleChar("quote", opts.Quote); err != nil {
			return err
		}
	}

	if len(opts.FixedWidth) > 0 {
		if f != FormatNone && f != FormatFixedWidth {
			return incompatible("fixed_width", "cannot be used with %s format", f)
		}
		if err := validateFixedWidth(opts.FixedWidth); err != nil {
			return err
		}
	}

	if f.columnar() {
		switch {
		case opts.Compression != CompressionNone:
			return incompatible("compression", "cannot be used with %s format", f)
		case opts.IgnoreHeader != 0:
			return incompatible("ignore_header", "cannot be used with %s format", f)
		case opts.DangerousNullDelimiter != nil:
			return incompatible("dangerous_null_delimiter", "cannot be used with %s format", f)
		}
	}
	return nil
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func (c *Compiler) compileCopy(cmd *Copy) (string, error) {
	o := cmd.opts
	var s statement

	target := c.dialect.QuoteRelation(cmd.table)
	if len(cmd.columns) > 0 {
		target += " (" + c.identList(cmd.columns) + ")"
	}
	s.add("COPY " + target + " FROM " + c.literal(o.DataLocation))
	s.add("WITH CREDENTIALS AS " + c.literal(cmd.credentials))

	switch o.Format {
	case FormatCSV:
		format := "FORMAT AS CSV"
		if o.Quote != "" {
			format += " QUOTE AS " + c.literal(o.Quote)
		}
		s.add(format)
	case FormatJSON, FormatAvro:
		s.add("FORMAT AS " + string(o.Format) + " AS " + c.literal(o.PathFile))
	case FormatORC, FormatParquet:
		s.add("FORMAT AS " + string(o.Format))
	case FormatFixedWidth:
		if len(o.FixedWidth) == 0 {
			return "", &core.CompileError{Command: cmd.Kind(), Message: "'fixed_width' argument required for format 'FIXEDWIDTH'"}
		}
	}

	s.addIf(o.Delimiter != "", "DELIMITER AS "+c.literal(o.Delimiter))
	s.addIf(len(o.FixedWidth) > 0, "FIXEDWIDTH AS "+c.literal(fixedWidthSpec(o.FixedWidth)))
	s.addIf(o.Compression != CompressionNone, string(o.Compression))
	s.addIf(o.Manifest, "MANIFEST")
	s.addIf(o.AcceptAnyDate, "ACCEPTANYDATE")
	s.addIf(o.AcceptInvChars != "", "ACCEPTINVCHARS AS "+c.literal(o.AcceptInvChars))
	s.addIf(o.BlanksAsNull, "BLANKSASNULL")
	s.addIf(o.DateFormat != "", "DATEFORMAT AS "+c.literal(o.DateFormat))
	s.addIf(o.EmptyAsNull, "EMPTYASNULL")
	s.addIf(o.Encoding != EncodingNone, "ENCODING AS "+string(o.Encoding))
	s.addIf(o.Escape, "ESCAPE")
	s.addIf(o.ExplicitIDs, "EXPLICIT_IDS")
	s.addIf(o.FillRecord, "FILLRECORD")
	s.addIf(o.IgnoreBlankLines, "IGNOREBLANKLINES")
	if o.DangerousNullDelimiter != nil {
		s.add("NULL AS '" + *o.DangerousNullDelimiter + "'")
	}
	s.addIf(o.RemoveQuotes, "REMOVEQUOTES")
	s.addIf(o.Roundec, "ROUNDEC")
	s.addIf(o.TimeFormat != "", "TIMEFORMAT AS "+c.literal(o.TimeFormat))
	s.addIf(o.TrimBlanks, "TRIMBLANKS")
	s.addIf(o.CompRows > 0, "COMPROWS "+strconv.Itoa(o.CompRows))
	if o.CompUpdate != nil {
		s.add("COMPUPDATE " + onOff(*o.CompUpdate))
	}
	if o.MaxError != nil {
		s.add("MAXERROR AS " + strconv.Itoa(*o.MaxError))
	}
	s.addIf(o.NoLoad, "NOLOAD")
	if o.StatUpdate != nil {
		s.add("STATUPDATE " + onOff(*o.StatUpdate))
	}
	s.addIf(o.Region != "", "REGION "+c.literal(o.Region))

	if !o.Format.columnar() {
		s.addIf(o.TruncateColumns, "TRUNCATECOLUMNS")
		s.add("IGNOREHEADER AS " + strconv.Itoa(o.IgnoreHeader))
	}
	return s.String(), nil
}
