package commands

import (
	"github.com/spf13/cobra"

	sqlcmd "github.com/leapstack-labs/shiftsql/pkg/commands"
)

type copyFlags struct {
	columns          []string
	format           string
	quote            string
	pathFile         string
	delimiter        string
	fixedWidth       []string
	compression      string
	manifest         bool
	acceptAnyDate    bool
	acceptInvChars   string
	blanksAsNull     bool
	dateFormat       string
	emptyAsNull      bool
	encoding         string
	escape           bool
	explicitIDs      bool
	fillRecord       bool
	ignoreBlankLines bool
	ignoreHeader     int
	nullDelimiter    string
	removeQuotes     bool
	roundec          bool
	timeFormat       string
	trimBlanks       bool
	truncateColumns  bool
	compRows         int
	compUpdate       string
	maxError         int
	noLoad           bool
	statUpdate       string
}

// NewCopyCommand creates the copy command.
func NewCopyCommand() *cobra.Command {
	f := &copyFlags{}

	cmd := &cobra.Command{
		Use:   "copy <table> <data-location>",
		Short: "Compile a COPY statement loading files into a table",
		Long: `Compile a COPY statement that loads data files from S3 into a table.

Credentials come from the credentials section of shiftsql.yaml, SHIFTSQL_CREDENTIALS__*
environment variables or the --access-key-id / --iam-role-name / --iam-role-arn flags.`,
		Example: `  # Load JSON with automatic field mapping
  shiftsql copy sales.orders s3://bucket/orders/ --format json --iam-role-arn arn:aws:iam::123456789012:role/load

  # Load a subset of columns from gzipped CSV and run it
  shiftsql copy orders s3://bucket/orders.csv.gz --format csv --compression gzip --column id --column total --execute`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.build(cmd, args)
			if err != nil {
				return err
			}
			return emit(cmd, c)
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVar(&f.columns, "column", nil, "Target column; table.column names a column of another table")
	fl.StringVar(&f.format, "format", "", "File format: csv, json, avro, orc, parquet, fixedwidth")
	fl.StringVar(&f.quote, "quote", "", "CSV quote character")
	fl.StringVar(&f.pathFile, "path-file", "auto", "JSONPaths file for json and avro")
	fl.StringVar(&f.delimiter, "delimiter", "", "Field delimiter (one character)")
	fl.StringSliceVar(&f.fixedWidth, "fixed-width", nil, "Fixed width layout as name:width pairs")
	fl.StringVar(&f.compression, "compression", "", "Input compression: gzip, lzop, bzip2")
	fl.BoolVar(&f.manifest, "manifest", false, "The data location is a manifest file")
	fl.BoolVar(&f.acceptAnyDate, "accept-any-date", false, "Load unparseable dates as NULL")
	fl.StringVar(&f.acceptInvChars, "accept-inv-chars", "", "Replacement for invalid UTF-8 characters")
	fl.BoolVar(&f.blanksAsNull, "blanks-as-null", false, "Load whitespace-only fields as NULL")
	fl.StringVar(&f.dateFormat, "date-format", "", "Date format string")
	fl.BoolVar(&f.emptyAsNull, "empty-as-null", false, "Load empty fields as NULL")
	fl.StringVar(&f.encoding, "encoding", "", "File encoding: utf8, utf16, utf16le, utf16be")
	fl.BoolVar(&f.escape, "escape", false, "Treat backslash as an escape character")
	fl.BoolVar(&f.explicitIDs, "explicit-ids", false, "Load values into identity columns")
	fl.BoolVar(&f.fillRecord, "fill-record", false, "Pad short records with NULL")
	fl.BoolVar(&f.ignoreBlankLines, "ignore-blank-lines", false, "Skip blank lines")
	fl.IntVar(&f.ignoreHeader, "ignore-header", 0, "Number of header lines to skip")
	fl.StringVar(&f.nullDelimiter, "null-as", "", "String that represents NULL, passed through unescaped")
	fl.BoolVar(&f.removeQuotes, "remove-quotes", false, "Strip surrounding quotes")
	fl.BoolVar(&f.roundec, "roundec", false, "Round numeric values instead of truncating")
	fl.StringVar(&f.timeFormat, "time-format", "", "Timestamp format string")
	fl.BoolVar(&f.trimBlanks, "trim-blanks", false, "Trim trailing whitespace from varchar values")
	fl.BoolVar(&f.truncateColumns, "truncate-columns", true, "Truncate values that exceed the column width")
	fl.IntVar(&f.compRows, "comp-rows", 0, "Rows sampled for compression analysis")
	fl.StringVar(&f.compUpdate, "comp-update", "", "Compression analysis: on or off")
	fl.IntVar(&f.maxError, "max-error", 0, "Errors tolerated before the load fails")
	fl.BoolVar(&f.noLoad, "no-load", false, "Validate files without loading")
	fl.StringVar(&f.statUpdate, "stat-update", "", "Statistics update: on or off")
	addExecuteFlag(cmd)

	return cmd
}

func (f *copyFlags) build(cmd *cobra.Command, args []string) (*sqlcmd.Copy, error) {
	cfg := GetConfig(cmd.Context())

	table, err := parseKey(args[0])
	if err != nil {
		return nil, err
	}
	creds, err := cfg.Credentials.Resolve()
	if err != nil {
		return nil, err
	}

	opts := sqlcmd.DefaultCopyOptions()
	opts.Table = table
	if opts.Columns, err = parseColumns(f.columns); err != nil {
		return nil, err
	}
	opts.DataLocation = args[1]
	opts.Credentials = creds
	opts.Region = cfg.Credentials.Region

	if opts.Format, err = sqlcmd.ParseFormat(f.format); err != nil {
		return nil, err
	}
	if opts.Compression, err = sqlcmd.ParseCompression(f.compression); err != nil {
		return nil, err
	}
	if opts.Encoding, err = sqlcmd.ParseEncoding(f.encoding); err != nil {
		return nil, err
	}
	if opts.FixedWidth, err = parseFixedWidth(f.fixedWidth); err != nil {
		return nil, err
	}
	if opts.CompUpdate, err = parseOnOff("comp-update", f.compUpdate); err != nil {
		return nil, err
	}
	if opts.StatUpdate, err = parseOnOff("stat-update", f.statUpdate); err != nil {
		return nil, err
	}

	opts.Quote = f.quote
	opts.PathFile = f.pathFile
	opts.Delimiter = f.delimiter
	opts.Manifest = f.manifest
	opts.AcceptAnyDate = f.acceptAnyDate
	opts.AcceptInvChars = f.acceptInvChars
	opts.BlanksAsNull = f.blanksAsNull
	opts.DateFormat = f.dateFormat
	opts.EmptyAsNull = f.emptyAsNull
	opts.Escape = f.escape
	opts.ExplicitIDs = f.explicitIDs
	opts.FillRecord = f.fillRecord
	opts.IgnoreBlankLines = f.ignoreBlankLines
	opts.IgnoreHeader = f.ignoreHeader
	opts.RemoveQuotes = f.removeQuotes
	opts.Roundec = f.roundec
	opts.TimeFormat = f.timeFormat
	opts.TrimBlanks = f.trimBlanks
	opts.TruncateColumns = f.truncateColumns
	opts.CompRows = f.compRows
	opts.NoLoad = f.noLoad

	if cmd.Flags().Changed("null-as") {
		opts.DangerousNullDelimiter = &f.nullDelimiter
	}
	if cmd.Flags().Changed("max-error") {
		opts.MaxError = &f.maxError
	}

	return sqlcmd.NewCopy(opts)
}
