// Package sqlite provides the SQLite engine driver, backed by the cgo-free
// modernc.org/sqlite driver. SQLite stores documents and timestamps as text
// and booleans as integers; pair it with adapters.SQLiteCapabilities.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	adapters "github.com/pressw/threads-adapters"
	"github.com/pressw/threads-adapters/driver/sqldb"
)

// Driver executes adapter requests against a SQLite database.
type Driver struct {
	*sqldb.Driver
	db *sql.DB
}

// Open opens (or creates) the database at the given path. ":memory:" opens
// a private in-memory database.
func Open(path string) (*Driver, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	return New(db), nil
}

// New wraps an already-open SQLite handle.
func New(db *sql.DB) *Driver {
	return &Driver{Driver: sqldb.New(db, sqldb.SQLiteDialect()), db: db}
}

// Close closes the database.
func (d *Driver) Close() error {
	return d.db.Close()
}

// IntrospectSchema describes the requested tables via PRAGMA table_info.
// Tables that do not exist are simply absent from the result; the schema
// validator turns that into a configuration error.
func (d *Driver) IntrospectSchema(ctx context.Context, tables []string) (adapters.Schema, error) {
	schema := make(adapters.Schema, len(tables))
	for _, table := range tables {
		columns, err := d.tableColumns(ctx, table)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			continue
		}
		schema[table] = adapters.TableSchema{Columns: columns}
	}
	return schema, nil
}

func (d *Driver) tableColumns(ctx context.Context, table string) ([]string, error) {
	// PRAGMA does not accept bound parameters.
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dfltValue        sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
