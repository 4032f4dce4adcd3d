// Package postgres provides the PostgreSQL engine driver on a native pgx
// connection pool. PostgreSQL supports every capability natively; pair it
// with adapters.PostgresCapabilities.
package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	adapters "github.com/pressw/threads-adapters"
)

// Driver executes adapter requests against a pgx pool.
type Driver struct {
	pool *pgxpool.Pool
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, connString string) (*Driver, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(pool), nil
}

// New wraps an existing pool. The pool's lifecycle stays with the caller.
func New(pool *pgxpool.Pool) *Driver { return &Driver{pool: pool} }

// Pool returns the underlying pgx pool.
func (d *Driver) Pool() *pgxpool.Pool { return d.pool }

// Close closes the pool.
func (d *Driver) Close() { d.pool.Close() }

func (d *Driver) Insert(ctx context.Context, req adapters.InsertRequest) (adapters.Record, error) {
	columns := sortedColumns(req.Values)
	args := make([]any, 0, len(columns))
	placeholders := make([]string, 0, len(columns))
	for _, c := range columns {
		args = append(args, req.Values[c])
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		req.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	if req.UseReturning {
		rows, err := d.pool.Query(ctx, stmt+returningClause(req.Columns), args...)
		if err != nil {
			return nil, err
		}
		records, err := collectRows(rows)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, nil
		}
		return records[0], nil
	}
	if _, err := d.pool.Exec(ctx, stmt, args...); err != nil {
		return nil, err
	}
	return nil, nil
}

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
	stmt += whereClause(req.Where, &args)
	if req.Sort != nil {
		stmt += fmt.Sprintf(" ORDER BY %s %s", req.Sort.Column, req.Sort.Direction)
	}
	if req.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", req.Limit)
	}
	if req.Offset > 0 {
		stmt += fmt.Sprintf(" OFFSET %d", req.Offset)
	}
	rows, err := d.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

func (d *Driver) Update(ctx context.Context, req adapters.UpdateRequest) (adapters.Record, int64, error) {
	columns := sortedColumns(req.Values)
	args := make([]any, 0, len(columns))
	assignments := make([]string, 0, len(columns))
	for _, c := range columns {
		args = append(args, req.Values[c])
		assignments = append(assignments, fmt.Sprintf("%s = $%d", c, len(args)))
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s", req.Table, strings.Join(assignments, ", "))
	stmt += whereClause(req.Where, &args)

	if req.UseReturning {
		rows, err := d.pool.Query(ctx, stmt+" RETURNING *", args...)
		if err != nil {
			return nil, 0, err
		}
		records, err := collectRows(rows)
		if err != nil {
			return nil, 0, err
		}
		if len(records) == 0 {
			return nil, 0, nil
		}
		return records[0], int64(len(records)), nil
	}
	tag, err := d.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return nil, 0, err
	}
	return nil, tag.RowsAffected(), nil
}

func (d *Driver) Delete(ctx context.Context, req adapters.DeleteRequest) error {
	var args []any
	stmt := fmt.Sprintf("DELETE FROM %s", req.Table) + whereClause(req.Where, &args)
	_, err := d.pool.Exec(ctx, stmt, args...)
	return err
}

func (d *Driver) Count(ctx context.Context, req adapters.CountRequest) (int64, error) {
	var args []any
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s", req.Table) + whereClause(req.Where, &args)
	var n int64
	if err := d.pool.QueryRow(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// IntrospectSchema describes the requested tables from
// information_schema.columns in the public schema.
func (d *Driver) IntrospectSchema(ctx context.Context, tables []string) (adapters.Schema, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT table_name, column_name FROM information_schema.columns
		 WHERE table_schema = 'public' AND table_name = ANY($1)
		 ORDER BY table_name, ordinal_position`, tables)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schema := make(adapters.Schema, len(tables))
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, err
		}
		ts := schema[table]
		ts.Columns = append(ts.Columns, column)
		schema[table] = ts
	}
	return schema, rows.Err()
}

func collectRows(rows pgx.Rows) ([]adapters.Record, error) {
	defer rows.Close()
	fds := rows.FieldDescriptions()
	var records []adapters.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make(adapters.Record, len(fds))
		for i, fd := range fds {
			rec[string(fd.Name)] = values[i]
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func whereClause(where []adapters.Condition, args *[]any) string {
	if len(where) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(" WHERE ")
	for i, c := range where {
		if i > 0 {
			b.WriteString(" " + string(c.Connector) + " ")
		}
		b.WriteString(condition(c, args))
	}
	return b.String()
}

func condition(c adapters.Condition, args *[]any) string {
	bind := func(v any) string {
		*args = append(*args, v)
		return fmt.Sprintf("$%d", len(*args))
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
			return "1 = 0"
		}
		return fmt.Sprintf("%s = ANY(%s)", c.Field, bind(values))
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

func sortedColumns(values adapters.Record) []string {
	columns := make([]string, 0, len(values))
	for c := range values {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	return columns
}
