package commands

import (
	"fmt"
	"strconv"
	"strings"

	sqlcmd "github.com/leapstack-labs/shiftsql/pkg/commands"
	"github.com/leapstack-labs/shiftsql/pkg/core"
)

// parseKey reads a possibly schema-qualified relation argument.
func parseKey(arg string) (core.RelationKey, error) {
	key, err := core.ParseRelationKey(arg)
	if err != nil {
		return core.RelationKey{}, fmt.Errorf("invalid relation %q: %w", arg, err)
	}
	return key.Unquoted(), nil
}

// parseFixedWidth reads "name:width" pairs.
func parseFixedWidth(specs []string) ([]sqlcmd.FixedWidthColumn, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	cols := make([]sqlcmd.FixedWidthColumn, 0, len(specs))
	for _, spec := range specs {
		name, width, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("invalid fixed width column %q (want name:width)", spec)
		}
		n, err := strconv.Atoi(width)
		if err != nil {
			return nil, fmt.Errorf("invalid width in %q: %w", spec, err)
		}
		cols = append(cols, sqlcmd.FixedWidthColumn{Name: name, Width: n})
	}
	return cols, nil
}

// parseOnOff reads an ON/OFF switch; the empty string leaves it absent.
func parseOnOff(option, v string) (*bool, error) {
	switch strings.ToLower(v) {
	case "":
		return nil, nil
	case "on", "true":
		b := true
		return &b, nil
	case "off", "false":
		b := false
		return &b, nil
	default:
		return nil, fmt.Errorf("invalid --%s %q (want on or off)", option, v)
	}
}

// parseColumns reads COPY column references. A qualified name such as
// orders.id or sales.orders.id names a column of that table; a bare name
// uses the target.
func parseColumns(names []string) ([]sqlcmd.ColumnRef, error) {
	refs := make([]sqlcmd.ColumnRef, 0, len(names))
	for _, n := range names {
		parts, err := core.SplitQualified(n)
		if err != nil {
			return nil, fmt.Errorf("invalid column %q: %w", n, err)
		}

		var ref sqlcmd.ColumnRef
		switch len(parts) {
		case 1:
		case 2:
			ref.Table = core.NewRelationKey(core.Unquote(parts[0]), "")
		case 3:
			ref.Table = core.NewRelationKey(core.Unquote(parts[1]), core.Unquote(parts[0]))
		default:
			return nil, fmt.Errorf("invalid column %q: too many name parts", n)
		}
		ref.Name = core.Unquote(parts[len(parts)-1])
		refs = append(refs, ref)
	}
	return refs, nil
}
