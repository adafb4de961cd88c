package commands

import (
	"regexp"

	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/leapstack-labs/shiftsql/pkg/credentials"
)

var libraryNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// LibraryOptions describes CREATE LIBRARY.
type LibraryOptions struct {
	Name        string
	Location    string
	Credentials credentials.Credentials
	Replace     bool
	Region      string
}

// CreateLibrary is a validated CREATE LIBRARY command.
type CreateLibrary struct {
	opts        LibraryOptions
	credentials string
}

// NewCreateLibrary validates opts and returns the command.
func NewCreateLibrary(opts LibraryOptions) (*CreateLibrary, error) {
	if !libraryNameRe.MatchString(opts.Name) {
		return nil, core.NewOptionError(core.ErrInvalidIdentifier, "library_name",
			"%q is not a valid identifier", opts.Name)
	}
	if err := checkIdentifiers("library_name", opts.Name); err != nil {
		return nil, err
	}
	if err := required("location", opts.Location); err != nil {
		return nil, err
	}
	creds, err := resolveCredentials(opts.Credentials)
	if err != nil {
		return nil, err
	}
	return &CreateLibrary{opts: opts, credentials: creds}, nil
}

// Kind returns "CREATE LIBRARY".
func (*CreateLibrary) Kind() string { return "CREATE LIBRARY" }

func (c *Compiler) compileCreateLibrary(cmd *CreateLibrary) string {
	o := cmd.opts
	var s statement

	head := "CREATE "
	if o.Replace {
		head += "OR REPLACE "
	}
	s.add(head + "LIBRARY " + c.dialect.QuoteIdentifier(o.Name) + " LANGUAGE plpythonu")
	s.add("FROM " + c.literal(o.Location))
	s.add("WITH CREDENTIALS AS " + c.literal(cmd.credentials))
	s.addIf(o.Region != "", "REGION "+c.literal(o.Region))
	return s.String()
}
