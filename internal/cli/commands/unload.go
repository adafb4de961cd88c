package commands

import (
	"github.com/spf13/cobra"

	sqlcmd "github.com/leapstack-labs/shiftsql/pkg/commands"
)

type unloadFlags struct {
	manifest       bool
	header         bool
	delimiter      string
	encrypted      bool
	fixedWidth     []string
	format         string
	compression    string
	addQuotes      bool
	null           string
	escape         bool
	allowOverwrite bool
	parallel       bool
	maxFileSize    int64
}

// NewUnloadCommand creates the unload command.
func NewUnloadCommand() *cobra.Command {
	f := &unloadFlags{}

	cmd := &cobra.Command{
		Use:   "unload <select> <location>",
		Short: "Compile an UNLOAD statement exporting a query to S3",
		Example: `  shiftsql unload "SELECT * FROM sales.orders WHERE region = 'EU'" s3://bucket/export/orders_ \
    --format csv --header --allow-overwrite --max-file-size 100000000`,
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
	fl.BoolVar(&f.manifest, "manifest", false, "Write a manifest file")
	fl.BoolVar(&f.header, "header", false, "Write a header line")
	fl.StringVar(&f.delimiter, "delimiter", "", "Field delimiter")
	fl.BoolVar(&f.encrypted, "encrypted", false, "Encrypt the output files")
	fl.StringSliceVar(&f.fixedWidth, "fixed-width", nil, "Fixed width layout as name:width pairs")
	fl.StringVar(&f.format, "format", "", "Output format: csv, parquet")
	fl.StringVar(&f.compression, "compression", "", "Output compression: gzip, bzip2")
	fl.BoolVar(&f.addQuotes, "add-quotes", false, "Quote every field")
	fl.StringVar(&f.null, "null-as", "", "String written for NULL")
	fl.BoolVar(&f.escape, "escape", false, "Escape delimiters, quotes and newlines")
	fl.BoolVar(&f.allowOverwrite, "allow-overwrite", false, "Overwrite existing files")
	fl.BoolVar(&f.parallel, "parallel", true, "Write one file per slice")
	fl.Int64Var(&f.maxFileSize, "max-file-size", 0, "Maximum file size in bytes")
	addExecuteFlag(cmd)

	return cmd
}

func (f *unloadFlags) build(cmd *cobra.Command, args []string) (*sqlcmd.Unload, error) {
	cfg := GetConfig(cmd.Context())

	creds, err := cfg.Credentials.Resolve()
	if err != nil {
		return nil, err
	}

	opts := sqlcmd.DefaultUnloadOptions()
	opts.Select = args[0]
	opts.Location = args[1]
	opts.Credentials = creds
	opts.Region = cfg.Credentials.Region

	if opts.Format, err = sqlcmd.ParseFormat(f.format); err != nil {
		return nil, err
	}
	if opts.Compression, err = sqlcmd.ParseCompression(f.compression); err != nil {
		return nil, err
	}
	if opts.FixedWidth, err = parseFixedWidth(f.fixedWidth); err != nil {
		return nil, err
	}

	opts.Manifest = f.manifest
	opts.Header = f.header
	opts.Delimiter = f.delimiter
	opts.Encrypted = f.encrypted
	opts.AddQuotes = f.addQuotes
	opts.Escape = f.escape
	opts.AllowOverwrite = f.allowOverwrite
	opts.Parallel = f.parallel
	opts.MaxFileSize = f.maxFileSize
	if cmd.Flags().Changed("null-as") {
		opts.Null = &f.null
	}

	return sqlcmd.NewUnload(opts)
}
