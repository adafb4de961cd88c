package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Query output formats.
const (
	formatTable    = "table"
	formatJSON     = "json"
	formatCSV      = "csv"
	formatMarkdown = "md"
)

// resultSet is a fully scanned query result.
type resultSet struct {
	cols []string
	rows [][]any
}

func scanResults(rows *sql.Rows) (*resultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &resultSet{cols: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.rows = append(rs.rows, values)
	}
	return rs, rows.Err()
}

func renderResults(w io.Writer, rows *sql.Rows, format string) error {
	rs, err := scanResults(rows)
	if err != nil {
		return err
	}

	switch format {
	case formatJSON:
		return rs.writeJSON(w)
	case formatCSV:
		return rs.writeCSV(w)
	case formatMarkdown, "markdown":
		return rs.writeMarkdown(w)
	default:
		return rs.writeTable(w)
	}
}

func (rs *resultSet) writeTable(w io.Writer) error {
	if len(rs.rows) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(toRow(rs.cols))
	for _, r := range rs.rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = formatValue(v)
		}
		t.AppendRow(row)
	}
	t.Render()

	_, err := fmt.Fprintf(w, "(%d rows)\n", len(rs.rows))
	return err
}

// writeJSON renders one object per row, keyed by column name.
func (rs *resultSet) writeJSON(w io.Writer) error {
	objects := make([]map[string]any, len(rs.rows))
	for i, r := range rs.rows {
		obj := make(map[string]any, len(rs.cols))
		for j, col := range rs.cols {
			obj[col] = r[j]
		}
		objects[i] = obj
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

func (rs *resultSet) writeCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, strings.Join(rs.cols, ",")); err != nil {
		return err
	}
	for _, r := range rs.rows {
		fields := make([]string, len(r))
		for i, v := range r {
			fields[i] = escapeCSV(formatValue(v))
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return nil
}

func (rs *resultSet) writeMarkdown(w io.Writer) error {
	if len(rs.rows) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	line := func(cells []string) error {
		_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
		return err
	}

	if err := line(rs.cols); err != nil {
		return err
	}
	seps := make([]string, len(rs.cols))
	for i := range seps {
		seps[i] = "---"
	}
	if err := line(seps); err != nil {
		return err
	}
	for _, r := range rs.rows {
		cells := make([]string, len(r))
		for i, v := range r {
			cells[i] = strings.ReplaceAll(formatValue(v), "|", `\|`)
		}
		if err := line(cells); err != nil {
			return err
		}
	}
	return nil
}

func toRow(cols []string) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	return row
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// listTablesFromDB lists the catalog tables of the snapshot database.
func listTablesFromDB(ctx context.Context, w io.Writer, db *sql.DB, format string) error {
	rows, err := db.QueryContext(ctx, `
		SELECT name, type
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		AND name NOT LIKE 'sqlite_%'
		AND name NOT LIKE 'goose_%'
		ORDER BY type DESC, name
	`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	return renderResults(w, rows, format)
}

// columnInfo is one column of a snapshot database table.
type columnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Default  string `json:"default,omitempty"`
	PK       bool   `json:"pk"`
}

type schemaOutput struct {
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	Columns []columnInfo `json:"columns"`
	Indexes []string     `json:"indexes,omitempty"`
}

func showSchemaFromDB(ctx context.Context, w io.Writer, db *sql.DB, tableName, format string) error {
	schema := schemaOutput{Name: tableName}

	err := db.QueryRowContext(ctx,
		`SELECT type FROM sqlite_master WHERE name = ? AND type IN ('table', 'view')`,
		tableName).Scan(&schema.Type)
	if err == sql.ErrNoRows {
		return fmt.Errorf("table or view '%s' not found", tableName)
	}
	if err != nil {
		return err
	}

	if schema.Columns, err = tableColumns(ctx, db, tableName); err != nil {
		return err
	}
	if schema.Type == "table" {
		if schema.Indexes, err = tableIndexes(ctx, db, tableName); err != nil {
			return err
		}
	}

	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	}

	title := "Table"
	if schema.Type == "view" {
		title = "View"
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", title, tableName)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type", "Nullable", "Default"})
	for _, c := range schema.Columns {
		nullable := "YES"
		if !c.Nullable {
			nullable = "NO"
		}
		def := c.Default
		if c.PK {
			def = strings.TrimSpace(def + " (primary key)")
		}
		t.AppendRow(table.Row{c.Name, c.Type, nullable, def})
	}
	t.Render()

	if len(schema.Indexes) > 0 {
		_, _ = fmt.Fprintln(w, "\nIndexes:")
		for _, idx := range schema.Indexes {
			_, _ = fmt.Fprintf(w, "  %s\n", idx)
		}
	}
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, tableName string) ([]columnInfo, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, tableName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cols []columnInfo
	for rows.Next() {
		var (
			c       columnInfo
			notNull int
			pk      int
			dflt    sql.NullString
		)
		if err := rows.Scan(&c.Name, &c.Type, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		c.Nullable = notNull == 0
		c.Default = dflt.String
		c.PK = pk > 0
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func tableIndexes(ctx context.Context, db *sql.DB, tableName string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'index' AND tbl_name = ? AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`, tableName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
