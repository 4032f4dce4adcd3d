package sqldb

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapters "github.com/pressw/threads-adapters"
)

func TestWhereClause_Postgres(t *testing.T) {
	d := &Driver{dialect: PostgresDialect()}

	var args []any
	clause := d.whereClause([]adapters.Condition{
		{Field: "name", Operator: adapters.OpEquals, Value: "alice", Connector: adapters.ConnectorAnd},
		{Field: "age", Operator: adapters.OpGreaterThan, Value: 30, Connector: adapters.ConnectorOr},
	}, &args)

	assert.Equal(t, " WHERE name = $1 OR age > $2", clause)
	assert.Equal(t, []any{"alice", 30}, args)
}

func TestWhereClause_Sqlite(t *testing.T) {
	d := &Driver{dialect: SQLiteDialect()}

	var args []any
	clause := d.whereClause([]adapters.Condition{
		{Field: "a", Operator: adapters.OpNotEquals, Value: 1, Connector: adapters.ConnectorAnd},
		{Field: "b", Operator: adapters.OpLessOrEqual, Value: 2, Connector: adapters.ConnectorAnd},
	}, &args)

	assert.Equal(t, " WHERE a <> ? AND b <= ?", clause)
	assert.Len(t, args, 2)
}

func TestWhereClause_Empty(t *testing.T) {
	d := &Driver{dialect: SQLiteDialect()}
	var args []any
	assert.Empty(t, d.whereClause(nil, &args))
	assert.Empty(t, args)
}

func TestReturningClause(t *testing.T) {
	assert.Equal(t, " RETURNING *", returningClause(nil))
	assert.Equal(t, " RETURNING id, name", returningClause([]string{"id", "name"}))
}

func TestCondition_In(t *testing.T) {
	d := &Driver{dialect: PostgresDialect()}

	var args []any
	clause := d.condition(adapters.Condition{
		Field: "id", Operator: adapters.OpIn, Value: []any{"a", "b", "c"},
	}, &args)
	assert.Equal(t, "id IN ($1, $2, $3)", clause)
	assert.Equal(t, []any{"a", "b", "c"}, args)

	// An empty IN set matches nothing and binds nothing.
	args = nil
	clause = d.condition(adapters.Condition{
		Field: "id", Operator: adapters.OpIn, Value: []any{},
	}, &args)
	assert.Equal(t, "1 = 0", clause)
	assert.Empty(t, args)
}

func TestCondition_TextOperators(t *testing.T) {
	d := &Driver{dialect: SQLiteDialect()}

	cases := []struct {
		op   adapters.Operator
		want string
	}{
		{adapters.OpContains, "%al%"},
		{adapters.OpStartsWith, "al%"},
		{adapters.OpEndsWith, "%al"},
	}
	for _, tc := range cases {
		var args []any
		clause := d.condition(adapters.Condition{Field: "name", Operator: tc.op, Value: "al"}, &args)
		assert.Equal(t, "name LIKE ?", clause)
		require.Len(t, args, 1)
		assert.Equal(t, tc.want, args[0])
	}
}

func TestLimitClause(t *testing.T) {
	sqlite := &Driver{dialect: SQLiteDialect()}
	assert.Equal(t, " LIMIT 10", sqlite.limitClause(10, 0))
	assert.Equal(t, " LIMIT 10 OFFSET 5", sqlite.limitClause(10, 5))
	// SQLite needs a LIMIT before OFFSET; -1 means unbounded.
	assert.Equal(t, " LIMIT -1 OFFSET 5", sqlite.limitClause(0, 5))
	assert.Empty(t, sqlite.limitClause(0, 0))

	pg := &Driver{dialect: PostgresDialect()}
	assert.Equal(t, " OFFSET 5", pg.limitClause(0, 5))
}

func TestWriteValue(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "s", writeValue("s"))
	assert.Equal(t, int64(3), writeValue(int64(3)))
	assert.Equal(t, true, writeValue(true))
	assert.Equal(t, now, writeValue(now))
	assert.Nil(t, writeValue(nil))

	// Structured documents become a JSON valuer.
	v := writeValue(map[string]any{"a": float64(1)})
	j, ok := v.(types.JSON)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(j))

	v = writeValue([]string{"x"})
	j, ok = v.(types.JSON)
	require.True(t, ok)
	assert.JSONEq(t, `["x"]`, string(j))
}

func TestUnwrap(t *testing.T) {
	assert.Equal(t, int64(5), unwrap(&null.Int64{Int64: 5, Valid: true}))
	assert.Nil(t, unwrap(&null.Int64{}))

	assert.Equal(t, "x", unwrap(&null.String{String: "x", Valid: true}))
	assert.Nil(t, unwrap(&null.String{}))

	assert.Equal(t, true, unwrap(&null.Bool{Bool: true, Valid: true}))
	assert.Equal(t, 1.5, unwrap(&null.Float64{Float64: 1.5, Valid: true}))

	ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, ts, unwrap(&null.Time{Time: ts, Valid: true}))
	assert.Nil(t, unwrap(&null.Time{}))

	j := types.JSON(`{"a":1}`)
	assert.Equal(t, map[string]any{"a": float64(1)}, unwrap(&j))
	empty := types.JSON(nil)
	assert.Nil(t, unwrap(&empty))

	raw := any([]byte("bytes"))
	assert.Equal(t, "bytes", unwrap(&raw))
}

func TestSortedColumns(t *testing.T) {
	cols := sortedColumns(adapters.Record{"b": 1, "a": 2, "c": 3})
	assert.Equal(t, []string{"a", "b", "c"}, cols)
}
