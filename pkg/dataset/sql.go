package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	// SQLite driver registered as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/agentstation/fieldmap/pkg/constants"
	"github.com/agentstation/fieldmap/pkg/errors"
	"github.com/agentstation/fieldmap/pkg/logging"
)

// DefaultSQLTable is the table used when a location names none.
const DefaultSQLTable = "dataset"

// SQLCodec stores a table in a SQLite database. Locations take the form
// sqlite://path/to.db?table=name.
type SQLCodec struct {
	// DefaultTable is used when the location has no table parameter.
	DefaultTable string
}

// ParseSQLLocation splits a sqlite:// location into database path and table.
func ParseSQLLocation(location, defaultTable string) (dbPath, table string, err error) {
	rest, ok := strings.CutPrefix(location, SQLitePrefix)
	if !ok {
		return "", "", &errors.UnsupportedFormatError{Path: location}
	}

	dbPath, rawQuery, _ := strings.Cut(rest, "?")
	if dbPath == "" {
		return "", "", errors.NewValidationError("location", location, "database path is empty")
	}

	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", "", errors.NewValidationError("location", location, err.Error())
	}

	table = q.Get("table")
	if table == "" {
		table = defaultTable
	}
	if table == "" {
		table = DefaultSQLTable
	}
	return dbPath, table, nil
}

// Load implements Codec.
func (c *SQLCodec) Load(ctx context.Context, location string) (*Table, error) {
	dbPath, table, err := ParseSQLLocation(location, c.DefaultTable)
	if err != nil {
		return nil, err
	}

	db, err := openSQLite(ctx, dbPath)
	if err != nil {
		return nil, errors.WrapIO("load", location, err)
	}
	defer func() { _ = db.Close() }()

	t, err := LoadDB(ctx, db, table)
	if err != nil {
		return nil, errors.WrapIO("load", location, err)
	}
	return t, nil
}

// Save implements Codec.
func (c *SQLCodec) Save(ctx context.Context, t *Table, location string) error {
	dbPath, table, err := ParseSQLLocation(location, c.DefaultTable)
	if err != nil {
		return err
	}

	db, err := openSQLite(ctx, dbPath)
	if err != nil {
		return errors.WrapIO("save", location, err)
	}
	defer func() { _ = db.Close() }()

	if err := SaveDB(ctx, db, table, t); err != nil {
		return errors.WrapIO("save", location, err)
	}
	return nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, constants.DatasetOpenTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// LoadDB reads every row of table. NULL values become missing cells.
func LoadDB(ctx context.Context, db *sql.DB, table string) (*Table, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	t, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}

	vals := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		if err := t.AppendRow(); err != nil {
			return nil, err
		}
		row := t.Len() - 1
		for i, v := range vals {
			if v.Valid {
				if err := t.SetCell(row, cols[i], v.String); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().
		Str("table", table).
		Int("rows", t.Len()).
		Int("columns", len(cols)).
		Msg("Loaded SQL dataset")
	return t, nil
}

// SaveDB writes the rows of t into table inside one transaction. An existing
// table keeps its schema, indexes and constraints: its rows are replaced and
// columns only t has are added as TEXT. A missing table is created with TEXT
// columns. Missing cells are stored as NULL.
func SaveDB(ctx context.Context, db *sql.DB, table string, t *Table) error {
	cols := t.Columns()
	if len(cols) == 0 {
		return errors.NewValidationError("columns", nil, "cannot save a table without columns")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	name := quoteIdent(table)
	existing, err := tableColumns(ctx, tx, table)
	if err != nil {
		return err
	}

	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}

	if existing == nil {
		defs := make([]string, len(cols))
		for i := range cols {
			defs[i] = quoted[i] + " TEXT"
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	} else {
		have := make(map[string]bool, len(existing))
		for _, c := range existing {
			have[c] = true
		}
		for i, c := range cols {
			if have[c] {
				continue
			}
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", name, quoted[i])); err != nil {
				return fmt.Errorf("add column %s to %s: %w", c, table, err)
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+name); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(quoted, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()

	args := make([]any, len(cols))
	for r := 0; r < t.Len(); r++ {
		for i, c := range cols {
			if v, ok := t.Cell(r, c); ok {
				args[i] = v
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d into %s: %w", r+1, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	logging.FromContext(ctx).Debug().
		Str("table", table).
		Int("rows", t.Len()).
		Msg("Saved SQL dataset")
	return nil
}

// tableColumns returns the columns of table, or nil when it does not exist.
func tableColumns(ctx context.Context, tx *sql.Tx, table string) ([]string, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	if n == 0 {
		return nil, nil
	}

	rows, err := tx.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table)+" LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()
	return rows.Columns()
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
