package geom

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"glyphmap/internal/glyph"

	_ "modernc.org/sqlite"
)

// DefaultTable is the table LoadRowsSQLite reads when none is given.
const DefaultTable = "photos"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadRowsSQLite reads every row of table in the SQLite database at path.
// Column names become lower-cased keys; NULL becomes the empty string.
func LoadRowsSQLite(ctx context.Context, path, table string) ([]glyph.RawRow, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("sqlite: invalid table name %q", table)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	defer db.Close()
	return QueryRows(ctx, db, table)
}

// QueryRows reads every row of table from an open database.
func QueryRows(ctx context.Context, db *sql.DB, table string) ([]glyph.RawRow, error) {
	rows, err := db.QueryContext(ctx, `SELECT * FROM "`+table+`"`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	for i := range cols {
		cols[i] = strings.ToLower(cols[i])
	}
	var out []glyph.RawRow
	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		row := make(glyph.RawRow, len(cols))
		for i, c := range cols {
			row[c] = vals[i].String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New("sqlite: no rows in " + table)
	}
	return out, nil
}
