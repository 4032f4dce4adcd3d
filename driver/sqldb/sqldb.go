// Package sqldb implements the adapter driver contract on top of a
// database/sql connection. Statement syntax differences between engines are
// captured in a small Dialect value rather than per-engine subclasses.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	adapters "github.com/pressw/threads-adapters"
)

// Dialect captures the statement syntax of one SQL engine.
type Dialect struct {
	Name string

	// Placeholder renders the n-th (1-based) parameter placeholder.
	Placeholder func(n int) string

	// SupportsReturning reports whether INSERT/UPDATE accept a RETURNING
	// clause. Requests asking for returning on a dialect without it fall
	// back to a plain statement and a nil row.
	SupportsReturning bool

	// NoLimit is the LIMIT value to emit when only an OFFSET is requested
	// on engines that require a LIMIT clause before OFFSET. Empty means the
	// engine accepts a bare OFFSET.
	NoLimit string
}

// SQLiteDialect returns the dialect of SQLite 3.35+.
func SQLiteDialect() Dialect {
	return Dialect{
		Name:              "sqlite",
		Placeholder:       func(int) string { return "?" },
		SupportsReturning: true,
		NoLimit:           "-1",
	}
}

// MySQLDialect returns the dialect of MySQL, which lacks RETURNING.
//
// MySQL's RowsAffected reports changed rows, not matched rows, so updates
// that write values already present would report zero matches. Open the
// connection with clientFoundRows=true in the DSN to get matched-row counts.
func MySQLDialect() Dialect {
	return Dialect{
		Name:              "mysql",
		Placeholder:       func(int) string { return "?" },
		SupportsReturning: false,
		NoLimit:           "18446744073709551615",
	}
}

// PostgresDialect returns the dialect of PostgreSQL for database/sql based
// drivers. The native pgx driver lives in driver/postgres.
func PostgresDialect() Dialect {
	return Dialect{
		Name:              "postgres",
		Placeholder:       func(n int) string { return fmt.Sprintf("$%d", n) },
		SupportsReturning: true,
	}
}

// Driver executes adapter requests against a *sql.DB.
type Driver struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open database handle. The handle's lifecycle (pooling,
// closing) stays with the caller.
func New(db *sql.DB, dialect Dialect) *Driver {
	return &Driver{db: db, dialect: dialect}
}

// DB returns the underlying handle.
func (d *Driver) DB() *sql.DB { return d.db }

func (d *Driver) Insert(ctx context.Context, req adapters.InsertRequest) (adapters.Record, error) {
	columns := sortedColumns(req.Values)
	args := make([]any, 0, len(columns))
	placeholders := make([]string, 0, len(columns))
	for _, c := range columns {
		args = append(args, writeValue(req.Values[c]))
		placeholders = append(placeholders, d.dialect.Placeholder(len(args)))
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		req.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	if req.UseReturning && d.dialect.SupportsReturning {
		rows, err := d.db.QueryContext(ctx, stmt+returningClause(req.Columns), args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		records, err := scanRows(rows)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, nil
		}
		return records[0], nil
	}
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, err
	}
	return nil, nil
}

// returningClause renders a RETURNING clause restricted to the requested
// columns, or RETURNING * when unrestricted.
func returningClause(columns []string) string {
	if len(columns) == 0 {
		return " RETURNING *"
	}
	return " RETURNING " + strings.Join(columns, ", ")
}

func (d *Driver) SelectOne(ctx context.Context, req adapters.SelectRequest) (adapters.Record, error) {
	req.Limit = 1
	records, err := d.SelectMany(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func (d *Driver) SelectMany(ctx context.Context, req adapters.SelectRequest) ([]adapters.Record, error) {
	columns := "*"
	if len(req.Columns) > 0 {
		columns = strings.Join(req.Columns, ", ")
	}
	var args []any
	stmt := fmt.Sprintf("SELECT %s FROM %s", columns, req.Table)
	stmt += d.whereClause(req.Where, &args)
	if req.Sort != nil {
		stmt += fmt.Sprintf(" ORDER BY %s %s", req.Sort.Column, req.Sort.Direction)
	}
	stmt += d.limitClause(req.Limit, req.Offset)

	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

func (d *Driver) Update(ctx context.Context, req adapters.UpdateRequest) (adapters.Record, int64, error) {
	columns := sortedColumns(req.Values)
	args := make([]any, 0, len(columns))
	assignments := make([]string, 0, len(columns))
	for _, c := range columns {
		args = append(args, writeValue(req.Values[c]))
		assignments = append(assignments, fmt.Sprintf("%s = %s", c, d.dialect.Placeholder(len(args))))
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s", req.Table, strings.Join(assignments, ", "))
	stmt += d.whereClause(req.Where, &args)

	if req.UseReturning && d.dialect.SupportsReturning {
		rows, err := d.db.QueryContext(ctx, stmt+" RETURNING *", args...)
		if err != nil {
			return nil, 0, err
		}
		defer rows.Close()
		records, err := scanRows(rows)
		if err != nil {
			return nil, 0, err
		}
		if len(records) == 0 {
			return nil, 0, nil
		}
		return records[0], int64(len(records)), nil
	}
	res, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, err
	}
	matched, err := res.RowsAffected()
	if err != nil {
		return nil, 0, err
	}
	return nil, matched, nil
}

func (d *Driver) Delete(ctx context.Context, req adapters.DeleteRequest) error {
	var args []any
	stmt := fmt.Sprintf("DELETE FROM %s", req.Table) + d.whereClause(req.Where, &args)
	_, err := d.db.ExecContext(ctx, stmt, args...)
	return err
}

func (d *Driver) Count(ctx context.Context, req adapters.CountRequest) (int64, error) {
	var args []any
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s", req.Table) + d.whereClause(req.Where, &args)
	var n int64
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// whereClause renders the normalized clause list in order, each clause joined
// by its own connector.
func (d *Driver) whereClause(where []adapters.Condition, args *[]any) string {
	if len(where) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(" WHERE ")
	for i, c := range where {
		if i > 0 {
			b.WriteString(" " + string(c.Connector) + " ")
		}
		b.WriteString(d.condition(c, args))
	}
	return b.String()
}

func (d *Driver) condition(c adapters.Condition, args *[]any) string {
	bind := func(v any) string {
		*args = append(*args, writeValue(v))
		return d.dialect.Placeholder(len(*args))
	}
	switch c.Operator {
	case adapters.OpNotEquals:
		return fmt.Sprintf("%s <> %s", c.Field, bind(c.Value))
	case adapters.OpLessThan:
		return fmt.Sprintf("%s < %s", c.Field, bind(c.Value))
	case adapters.OpLessOrEqual:
		return fmt.Sprintf("%s <= %s", c.Field, bind(c.Value))
	case adapters.OpGreaterThan:
		return fmt.Sprintf("%s > %s", c.Field, bind(c.Value))
	case adapters.OpGreaterOrEqual:
		return fmt.Sprintf("%s >= %s", c.Field, bind(c.Value))
	case adapters.OpIn:
		values, ok := c.Value.([]any)
		if !ok {
			return fmt.Sprintf("%s = %s", c.Field, bind(c.Value))
		}
		if len(values) == 0 {
			// IN over an empty set matches nothing.
			return "1 = 0"
		}
		placeholders := make([]string, 0, len(values))
		for _, v := range values {
			placeholders = append(placeholders, bind(v))
		}
		return fmt.Sprintf("%s IN (%s)", c.Field, strings.Join(placeholders, ", "))
	case adapters.OpContains:
		return fmt.Sprintf("%s LIKE %s", c.Field, bind(fmt.Sprintf("%%%v%%", c.Value)))
	case adapters.OpStartsWith:
		return fmt.Sprintf("%s LIKE %s", c.Field, bind(fmt.Sprintf("%v%%", c.Value)))
	case adapters.OpEndsWith:
		return fmt.Sprintf("%s LIKE %s", c.Field, bind(fmt.Sprintf("%%%v", c.Value)))
	default:
		return fmt.Sprintf("%s = %s", c.Field, bind(c.Value))
	}
}

func (d *Driver) limitClause(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	} else if offset > 0 && d.dialect.NoLimit != "" {
		fmt.Fprintf(&b, " LIMIT %s", d.dialect.NoLimit)
	}
	if offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", offset)
	}
	return b.String()
}

func sortedColumns(values adapters.Record) []string {
	columns := make([]string, 0, len(values))
	for c := range values {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	return columns
}
