// Package memory implements the adapter driver contract with plain Go maps.
// It evaluates predicates, sorting and pagination in process, which makes it
// the reference engine for tests and for callers that want thread storage
// without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	adapters "github.com/pressw/threads-adapters"
)

// Driver stores rows per physical table. All capabilities are native: values
// are kept as the Go values they were written as, and every request can
// return rows.
type Driver struct {
	mu     sync.RWMutex
	schema adapters.Schema
	tables map[string][]adapters.Record
}

// New creates a driver that reports the given schema from IntrospectSchema.
func New(schema adapters.Schema) *Driver {
	return &Driver{
		schema: schema,
		tables: make(map[string][]adapters.Record),
	}
}

// IntrospectSchema returns the declared schema restricted to the requested
// tables.
func (d *Driver) IntrospectSchema(_ context.Context, tables []string) (adapters.Schema, error) {
	out := make(adapters.Schema, len(tables))
	for _, t := range tables {
		if ts, ok := d.schema[t]; ok {
			out[t] = ts
		}
	}
	return out, nil
}

// Seed inserts rows directly, bypassing the request path. Test helper.
func (d *Driver) Seed(table string, rows ...adapters.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, row := range rows {
		d.tables[table] = append(d.tables[table], cloneRow(row))
	}
}

// Len reports the number of rows stored in a table. Test helper.
func (d *Driver) Len(table string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.tables[table])
}

func (d *Driver) Insert(_ context.Context, req adapters.InsertRequest) (adapters.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	row := cloneRow(req.Values)
	d.tables[req.Table] = append(d.tables[req.Table], row)
	if !req.UseReturning {
		return nil, nil
	}
	return projectRow(row, req.Columns), nil
}

func (d *Driver) SelectOne(_ context.Context, req adapters.SelectRequest) (adapters.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, row := range d.tables[req.Table] {
		if matches(req.Where, row) {
			return projectRow(row, req.Columns), nil
		}
	}
	return nil, nil
}

func (d *Driver) SelectMany(_ context.Context, req adapters.SelectRequest) ([]adapters.Record, error) {
	d.mu.RLock()
	matched := make([]adapters.Record, 0)
	for _, row := range d.tables[req.Table] {
		if matches(req.Where, row) {
			// Clone before releasing the lock. Sorting and projection run
			// unlocked and must not observe concurrent writes to the row.
			matched = append(matched, cloneRow(row))
		}
	}
	d.mu.RUnlock()

	if req.Sort != nil {
		col, desc := req.Sort.Column, req.Sort.Direction == adapters.SortDesc
		sort.SliceStable(matched, func(i, j int) bool {
			cmp, ok := compareValues(matched[i][col], matched[j][col])
			if !ok {
				return false
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if req.Offset > 0 {
		if req.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[req.Offset:]
		}
	}
	if req.Limit > 0 && req.Limit < len(matched) {
		matched = matched[:req.Limit]
	}
	out := make([]adapters.Record, 0, len(matched))
	for _, row := range matched {
		out = append(out, projectRow(row, req.Columns))
	}
	return out, nil
}

func (d *Driver) Update(_ context.Context, req adapters.UpdateRequest) (adapters.Record, int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var first adapters.Record
	var matched int64
	for _, row := range d.tables[req.Table] {
		if !matches(req.Where, row) {
			continue
		}
		for k, v := range req.Values {
			row[k] = v
		}
		matched++
		if first == nil {
			first = row
		}
	}
	if matched == 0 || !req.UseReturning {
		return nil, matched, nil
	}
	return cloneRow(first), matched, nil
}

func (d *Driver) Delete(_ context.Context, req adapters.DeleteRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	rows := d.tables[req.Table]
	kept := rows[:0]
	for _, row := range rows {
		if !matches(req.Where, row) {
			kept = append(kept, row)
		}
	}
	d.tables[req.Table] = kept
	return nil
}

func (d *Driver) Count(_ context.Context, req adapters.CountRequest) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var n int64
	for _, row := range d.tables[req.Table] {
		if matches(req.Where, row) {
			n++
		}
	}
	return n, nil
}

// matches evaluates the normalized clause list left to right, honoring each
// clause's connector in order.
func matches(where []adapters.Condition, row adapters.Record) bool {
	if len(where) == 0 {
		return true
	}
	result := matchCondition(where[0], row)
	for _, c := range where[1:] {
		m := matchCondition(c, row)
		if c.Connector == adapters.ConnectorOr {
			result = result || m
		} else {
			result = result && m
		}
	}
	return result
}

func matchCondition(c adapters.Condition, row adapters.Record) bool {
	v := row[c.Field]
	switch c.Operator {
	case adapters.OpEquals:
		return equalValues(v, c.Value)
	case adapters.OpNotEquals:
		return !equalValues(v, c.Value)
	case adapters.OpLessThan:
		cmp, ok := compareValues(v, c.Value)
		return ok && cmp < 0
	case adapters.OpLessOrEqual:
		cmp, ok := compareValues(v, c.Value)
		return ok && cmp <= 0
	case adapters.OpGreaterThan:
		cmp, ok := compareValues(v, c.Value)
		return ok && cmp > 0
	case adapters.OpGreaterOrEqual:
		cmp, ok := compareValues(v, c.Value)
		return ok && cmp >= 0
	case adapters.OpIn:
		candidates, ok := c.Value.([]any)
		if !ok {
			return equalValues(v, c.Value)
		}
		for _, cand := range candidates {
			if equalValues(v, cand) {
				return true
			}
		}
		return false
	case adapters.OpContains:
		s, sub, ok := stringPair(v, c.Value)
		return ok && strings.Contains(s, sub)
	case adapters.OpStartsWith:
		s, sub, ok := stringPair(v, c.Value)
		return ok && strings.HasPrefix(s, sub)
	case adapters.OpEndsWith:
		s, sub, ok := stringPair(v, c.Value)
		return ok && strings.HasSuffix(s, sub)
	default:
		return false
	}
}

func stringPair(a, b any) (string, string, bool) {
	s, okA := a.(string)
	sub, okB := b.(string)
	return s, sub, okA && okB
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	return false
}

// compareValues orders two values of compatible kinds. Numeric kinds compare
// across int and float; strings, bools and timestamps compare within kind.
func compareValues(a, b any) (int, bool) {
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}
	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(va, vb), true
	case bool:
		vb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case va == vb:
			return 0, true
		case !va:
			return -1, true
		default:
			return 1, true
		}
	case time.Time:
		vb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case va.Before(vb):
			return -1, true
		case va.After(vb):
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cloneRow(row adapters.Record) adapters.Record {
	out := make(adapters.Record, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func projectRow(row adapters.Record, columns []string) adapters.Record {
	if len(columns) == 0 {
		return cloneRow(row)
	}
	out := make(adapters.Record, len(columns))
	for _, c := range columns {
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out
}
