package commands

import (
	"fmt"

	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/credentials"
)

// Bounds of MAXFILESIZE, in bytes.
const (
	MinUnloadFileSize = 5_000_000
	MaxUnloadFileSize = 6_200_000_000
)

// UnloadOptions describes an unload of a query's result to object storage.
// Start from DefaultUnloadOptions.
type UnloadOptions struct {
	Select      string
	Location    string
	Credentials credentials.Credentials

	Manifest       bool
	Header         bool
	Delimiter      string
	Encrypted      bool
	FixedWidth     []FixedWidthColumn
	Format         Format
	Compression    Compression
	AddQuotes      bool
	Null           *string
	Escape         bool
	AllowOverwrite bool
	Parallel       bool
	Region         string
	MaxFileSize    int64 // bytes; zero means absent
}

// DefaultUnloadOptions returns the options every UNLOAD starts from.
func DefaultUnloadOptions() UnloadOptions {
	return UnloadOptions{Parallel: true}
}

// Unload is a validated UNLOAD command.
type Unload struct {
	opts        UnloadOptions
	credentials string
}

// NewUnload validates opts and returns the command.
func NewUnload(opts UnloadOptions) (*Unload, error) {
	creds, err := resolveCredentials(opts.Credentials)
	if err != nil {
		return nil, err
	}
	if err := required("select", opts.Select); err != nil {
		return nil, err
	}
	if err := required("unload_location", opts.Location); err != nil {
		return nil, err
	}

	if opts.Format, err = ParseFormat(string(opts.Format)); err != nil {
		return nil, err
	}
	if opts.Compression, err = ParseCompression(string(opts.Compression)); err != nil {
		return nil, err
	}

	if err := validateUnload(opts); err != nil {
		return nil, err
	}

	opts.FixedWidth = append([]FixedWidthColumn(nil), opts.FixedWidth...)
	return &Unload{opts: opts, credentials: creds}, nil
}

// Kind returns "UNLOAD".
func (*Unload) Kind() string { return "UNLOAD" }

type optionFlag struct {
	option string
	set    bool
}

func validateUnload(opts UnloadOptions) error {
	f := opts.Format
	switch f {
	case FormatNone, FormatCSV, FormatParquet, FormatJSON, FormatFixedWidth:
	default:
		return incompatible("format", "%s is not supported by UNLOAD", f)
	}

	if opts.Compression == CompressionLzop {
		return incompatible("compression", "LZOP is not supported by UNLOAD")
	}

	// PARQUET and JSON output take none of the text layout options.
	if f == FormatParquet || f == FormatJSON {
		forbidden := []optionFlag{
			{"delimiter", opts.Delimiter != ""},
			{"fixed_width", len(opts.FixedWidth) > 0},
			{"add_quotes", opts.AddQuotes},
			{"escape", opts.Escape},
			{"null", opts.Null != nil},
			{"header", opts.Header},
		}
		if f == FormatParquet {
			forbidden = append(forbidden, optionFlag{"compression", opts.Compression != CompressionNone})
		}
		for _, o := range forbidden {
			if o.set {
				return incompatible(o.option, "cannot be used with %s format", f)
			}
		}
	}

	if f == FormatCSV && len(opts.FixedWidth) > 0 {
		return incompatible("fixed_width", "cannot be used with CSV format")
	}

	if len(opts.FixedWidth) > 0 {
		if opts.Header {
			return incompatible("header", "cannot be used with fixed_width")
		}
		if opts.Delimiter != "" {
			return incompatible("delimiter", "cannot be used with fixed_width")
		}
		if err := validateFixedWidth(opts.FixedWidth); err != nil {
			return err
		}
	}

	if opts.Delimiter != "" {
		if err := singleChar("delimiter", opts.Delimiter); err != nil {
			return err
		}
	}

	if opts.MaxFileSize != 0 && (opts.MaxFileSize < MinUnloadFileSize || opts.MaxFileSize > MaxUnloadFileSize) {
		return incompatible("max_file_size", "must be between %d and %d bytes, got %d",
			int64(MinUnloadFileSize), int64(MaxUnloadFileSize), opts.MaxFileSize)
	}
	return nil
}

// megabytes renders a byte count as "N.N MB".
func megabytes(bytes int64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/1e6)
}

func (c *Compiler) compileUnload(cmd *Unload) (string, error) {
	o := cmd.opts
	var s statement

	if o.Format == FormatFixedWidth && len(o.FixedWidth) == 0 {
		return "", &core.CompileError{Command: cmd.Kind(), Message: "'fixed_width' argument required for format 'FIXEDWIDTH'"}
	}

	s.add("UNLOAD (" + c.selectLiteral(o.Select) + ") TO " + c.literal(o.Location))
	s.add("CREDENTIALS " + c.literal(cmd.credentials))
	s.addIf(o.Manifest, "MANIFEST")
	s.addIf(o.Header, "HEADER")
	s.addIf(o.Delimiter != "", "DELIMITER AS "+c.literal(o.Delimiter))
	s.addIf(o.Encrypted, "ENCRYPTED")
	s.addIf(len(o.FixedWidth) > 0, "FIXEDWIDTH AS "+c.literal(fixedWidthSpec(o.FixedWidth)))
	s.addIf(o.Format == FormatCSV || o.Format == FormatParquet || o.Format == FormatJSON, "FORMAT AS "+string(o.Format))
	s.addIf(o.Compression != CompressionNone, string(o.Compression))
	s.addIf(o.AddQuotes, "ADDQUOTES")
	if o.Null != nil {
		s.add("NULL AS " + c.literal(*o.Null))
	}
	s.addIf(o.Escape, "ESCAPE")
	s.addIf(o.AllowOverwrite, "ALLOWOVERWRITE")
	s.addIf(!o.Parallel, "PARALLEL OFF")
	s.addIf(o.Region != "", "REGION "+c.literal(o.Region))
	s.addIf(o.MaxFileSize != 0, "MAXFILESIZE "+megabytes(o.MaxFileSize))
	return s.String(), nil
}
