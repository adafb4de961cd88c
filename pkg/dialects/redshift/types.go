package redshift

import "strings"

// typeNames maps format_type() base names to the spelling used in DDL.
var typeNames = map[string]string{
	"smallint":                    "SMALLINT",
	"integer":                     "INTEGER",
	"bigint":                      "BIGINT",
	"numeric":                     "NUMERIC",
	"decimal":                     "NUMERIC",
	"real":                        "REAL",
	"double precision":            "DOUBLE PRECISION",
	"boolean":                     "BOOLEAN",
	"character":                   "CHAR",
	"character varying":           "VARCHAR",
	"date":                        "DATE",
	"time without time zone":      "TIME",
	"time with time zone":         "TIMETZ",
	"timestamp without time zone": "TIMESTAMP",
	"timestamp with time zone":    "TIMESTAMPTZ",
	"geometry":                    "GEOMETRY",
	"geography":                   "GEOGRAPHY",
	"hllsketch":                   "HLLSKETCH",
	"super":                       "SUPER",
	"binary varying":              "VARBYTE",
	"varbyte":                     "VARBYTE",
	`"char"`:                      "CHAR",
}

// NormalizeType converts a catalog type name such as
// "character varying(256)" into its DDL spelling, "VARCHAR(256)".
// Unknown types are upper-cased and otherwise left alone.
func NormalizeType(formatType string) string {
	t := strings.ToLower(strings.TrimSpace(formatType))
	base, args := t, ""
	if i := strings.IndexByte(t, '('); i >= 0 {
		base, args = strings.TrimSpace(t[:i]), strings.ReplaceAll(t[i:], " ", "")
	}
	if name, ok := typeNames[base]; ok {
		return name + args
	}
	return strings.ToUpper(t)
}
