package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapters "github.com/pressw/threads-adapters"
)

func seededDriver() *Driver {
	d := New(adapters.Schema{
		"user": {Columns: []string{"id", "name", "age"}},
	})
	d.Seed("user",
		adapters.Record{"id": "u1", "name": "alice", "age": 30},
		adapters.Record{"id": "u2", "name": "bob", "age": 25},
		adapters.Record{"id": "u3", "name": "carol", "age": 35},
	)
	return d
}

func eq(field string, value any) adapters.Condition {
	return adapters.Condition{
		Field: field, Value: value,
		Operator: adapters.OpEquals, Connector: adapters.ConnectorAnd,
	}
}

func TestDriver_InsertAndSelectOne(t *testing.T) {
	d := New(nil)
	ctx := context.Background()

	row, err := d.Insert(ctx, adapters.InsertRequest{
		Table:        "user",
		Values:       adapters.Record{"id": "u1", "name": "alice"},
		UseReturning: true,
	})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "alice", row["name"])

	got, err := d.SelectOne(ctx, adapters.SelectRequest{
		Table: "user",
		Where: []adapters.Condition{eq("id", "u1")},
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got["name"])
}

func TestDriver_InsertProjection(t *testing.T) {
	d := New(nil)

	row, err := d.Insert(context.Background(), adapters.InsertRequest{
		Table:        "user",
		Values:       adapters.Record{"id": "u1", "name": "alice", "age": 30},
		Columns:      []string{"id", "name"},
		UseReturning: true,
	})
	require.NoError(t, err)
	assert.Equal(t, adapters.Record{"id": "u1", "name": "alice"}, row)

	// The stored row keeps every column.
	got, err := d.SelectOne(context.Background(), adapters.SelectRequest{Table: "user"})
	require.NoError(t, err)
	assert.Equal(t, 30, got["age"])
}

func TestDriver_InsertWithoutReturning(t *testing.T) {
	d := New(nil)

	row, err := d.Insert(context.Background(), adapters.InsertRequest{
		Table:  "user",
		Values: adapters.Record{"id": "u1"},
	})
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.Equal(t, 1, d.Len("user"))
}

func TestDriver_SelectOneMiss(t *testing.T) {
	d := seededDriver()

	got, err := d.SelectOne(context.Background(), adapters.SelectRequest{
		Table: "user",
		Where: []adapters.Condition{eq("id", "nope")},
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDriver_SelectManySortAndPage(t *testing.T) {
	d := seededDriver()
	ctx := context.Background()

	rows, err := d.SelectMany(ctx, adapters.SelectRequest{
		Table: "user",
		Sort:  &adapters.SortClause{Column: "age", Direction: adapters.SortDesc},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "carol", rows[0]["name"])
	assert.Equal(t, "bob", rows[2]["name"])

	rows, err = d.SelectMany(ctx, adapters.SelectRequest{
		Table:  "user",
		Sort:   &adapters.SortClause{Column: "age", Direction: adapters.SortAsc},
		Offset: 1,
		Limit:  1,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0]["name"])

	// Offset past the end yields nothing.
	rows, err = d.SelectMany(ctx, adapters.SelectRequest{Table: "user", Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDriver_SelectManyProjection(t *testing.T) {
	d := seededDriver()

	rows, err := d.SelectMany(context.Background(), adapters.SelectRequest{
		Table:   "user",
		Where:   []adapters.Condition{eq("id", "u1")},
		Columns: []string{"name"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, adapters.Record{"name": "alice"}, rows[0])
}

func TestDriver_SelectManyConcurrentWithUpdate(t *testing.T) {
	d := New(nil)
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		d.Seed("user", adapters.Record{"id": fmt.Sprintf("u%02d", i), "age": i})
	}

	// Sorting and projection run after the read lock is released, so the
	// returned rows must be snapshots that concurrent updates cannot touch.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				rows, err := d.SelectMany(ctx, adapters.SelectRequest{
					Table: "user",
					Sort:  &adapters.SortClause{Column: "age", Direction: adapters.SortDesc},
				})
				assert.NoError(t, err)
				assert.Len(t, rows, 50)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, _, err := d.Update(ctx, adapters.UpdateRequest{
					Table:  "user",
					Values: adapters.Record{"age": i},
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestDriver_UpdateCountsMatches(t *testing.T) {
	d := seededDriver()
	ctx := context.Background()

	row, matched, err := d.Update(ctx, adapters.UpdateRequest{
		Table: "user",
		Where: []adapters.Condition{{
			Field: "age", Value: 26,
			Operator: adapters.OpGreaterOrEqual, Connector: adapters.ConnectorAnd,
		}},
		Values:       adapters.Record{"name": "senior"},
		UseReturning: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), matched)
	require.NotNil(t, row)
	assert.Equal(t, "senior", row["name"])

	// Zero matches, zero count, nil row.
	row, matched, err = d.Update(ctx, adapters.UpdateRequest{
		Table:        "user",
		Where:        []adapters.Condition{eq("id", "nope")},
		Values:       adapters.Record{"name": "x"},
		UseReturning: true,
	})
	require.NoError(t, err)
	assert.Zero(t, matched)
	assert.Nil(t, row)
}

func TestDriver_Delete(t *testing.T) {
	d := seededDriver()
	ctx := context.Background()

	err := d.Delete(ctx, adapters.DeleteRequest{
		Table: "user",
		Where: []adapters.Condition{eq("name", "bob")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len("user"))

	// Deleting the same rows again is a no-op.
	err = d.Delete(ctx, adapters.DeleteRequest{
		Table: "user",
		Where: []adapters.Condition{eq("name", "bob")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len("user"))
}

func TestDriver_Count(t *testing.T) {
	d := seededDriver()

	n, err := d.Count(context.Background(), adapters.CountRequest{
		Table: "user",
		Where: []adapters.Condition{{
			Field: "age", Value: 30,
			Operator: adapters.OpLessOrEqual, Connector: adapters.ConnectorAnd,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMatchCondition_Operators(t *testing.T) {
	row := adapters.Record{"name": "alice", "age": 30, "active": true}

	cases := []struct {
		name string
		cond adapters.Condition
		want bool
	}{
		{"eq hit", adapters.Condition{Field: "name", Operator: adapters.OpEquals, Value: "alice"}, true},
		{"eq miss", adapters.Condition{Field: "name", Operator: adapters.OpEquals, Value: "bob"}, false},
		{"ne", adapters.Condition{Field: "name", Operator: adapters.OpNotEquals, Value: "bob"}, true},
		{"lt", adapters.Condition{Field: "age", Operator: adapters.OpLessThan, Value: 31}, true},
		{"lte boundary", adapters.Condition{Field: "age", Operator: adapters.OpLessOrEqual, Value: 30}, true},
		{"gt", adapters.Condition{Field: "age", Operator: adapters.OpGreaterThan, Value: 30}, false},
		{"gte cross numeric kinds", adapters.Condition{Field: "age", Operator: adapters.OpGreaterOrEqual, Value: int64(30)}, true},
		{"in hit", adapters.Condition{Field: "name", Operator: adapters.OpIn, Value: []any{"bob", "alice"}}, true},
		{"in miss", adapters.Condition{Field: "name", Operator: adapters.OpIn, Value: []any{"bob"}}, false},
		{"in empty", adapters.Condition{Field: "name", Operator: adapters.OpIn, Value: []any{}}, false},
		{"contains", adapters.Condition{Field: "name", Operator: adapters.OpContains, Value: "lic"}, true},
		{"starts_with", adapters.Condition{Field: "name", Operator: adapters.OpStartsWith, Value: "al"}, true},
		{"ends_with", adapters.Condition{Field: "name", Operator: adapters.OpEndsWith, Value: "ce"}, true},
		{"bool eq", adapters.Condition{Field: "active", Operator: adapters.OpEquals, Value: true}, true},
		{"missing column", adapters.Condition{Field: "ghost", Operator: adapters.OpEquals, Value: "x"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matchCondition(tc.cond, row))
		})
	}
}

func TestMatches_ConnectorOrder(t *testing.T) {
	row := adapters.Record{"name": "alice", "age": 30}

	// (name = bob) OR (age = 30) AND ... evaluated left to right.
	where := []adapters.Condition{
		{Field: "name", Operator: adapters.OpEquals, Value: "bob", Connector: adapters.ConnectorAnd},
		{Field: "age", Operator: adapters.OpEquals, Value: 30, Connector: adapters.ConnectorOr},
		{Field: "name", Operator: adapters.OpEquals, Value: "alice", Connector: adapters.ConnectorAnd},
	}
	assert.True(t, matches(where, row))

	where[2].Value = "someone else"
	assert.False(t, matches(where, row))
}

func TestCompareValues_Timestamps(t *testing.T) {
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	cmp, ok := compareValues(earlier, later)
	require.True(t, ok)
	assert.Equal(t, -1, cmp)

	cmp, ok = compareValues(later, earlier)
	require.True(t, ok)
	assert.Equal(t, 1, cmp)

	// Incompatible kinds never compare.
	_, ok = compareValues("text", 3)
	assert.False(t, ok)
}

func TestSeedIsolation(t *testing.T) {
	d := New(nil)
	row := adapters.Record{"id": "u1", "name": "alice"}
	d.Seed("user", row)

	// Mutating the caller's map must not reach stored rows.
	row["name"] = "mutated"
	got, err := d.SelectOne(context.Background(), adapters.SelectRequest{Table: "user"})
	require.NoError(t, err)
	assert.Equal(t, "alice", got["name"])
}
