package sqldb

import (
	"database/sql"
	"reflect"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/types"
	"github.com/goccy/go-json"

	adapters "github.com/pressw/threads-adapters"
)

// writeValue converts a storage value into something the sql driver accepts.
// Structured documents become a types.JSON valuer; everything the coercion
// engine already flattened (strings, integers, floats, bools, times) passes
// through.
func writeValue(v any) any {
	if v == nil {
		return nil
	}
	switch v.(type) {
	case string, []byte, bool, int, int32, int64, float32, float64, time.Time, types.JSON:
		return v
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		data, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return types.JSON(data)
	default:
		return v
	}
}

// scanRows reads every row into a Record keyed by column name. Scan targets
// are chosen from the reported column type so NULLs survive the trip; the
// null wrappers unwrap to plain Go values or nil.
func scanRows(rows *sql.Rows) ([]adapters.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	var records []adapters.Record
	for rows.Next() {
		targets := make([]any, len(columns))
		for i := range columns {
			targets[i] = scanTarget(columnTypes[i])
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		rec := make(adapters.Record, len(columns))
		for i, c := range columns {
			rec[c] = unwrap(targets[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func scanTarget(ct *sql.ColumnType) any {
	switch strings.ToUpper(ct.DatabaseTypeName()) {
	case "BOOL", "BOOLEAN":
		return &null.Bool{}
	case "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "MEDIUMINT", "INT2", "INT4", "INT8":
		return &null.Int64{}
	case "REAL", "FLOAT", "DOUBLE", "NUMERIC", "DECIMAL", "FLOAT4", "FLOAT8":
		return &null.Float64{}
	case "DATE", "DATETIME", "TIMESTAMP", "TIMESTAMPTZ":
		return &null.Time{}
	case "JSON", "JSONB":
		return &types.JSON{}
	case "TEXT", "VARCHAR", "CHAR", "NVARCHAR", "CLOB":
		return &null.String{}
	default:
		return new(any)
	}
}

func unwrap(target any) any {
	switch v := target.(type) {
	case *null.Bool:
		if !v.Valid {
			return nil
		}
		return v.Bool
	case *null.Int64:
		if !v.Valid {
			return nil
		}
		return v.Int64
	case *null.Float64:
		if !v.Valid {
			return nil
		}
		return v.Float64
	case *null.Time:
		if !v.Valid {
			return nil
		}
		return v.Time
	case *null.String:
		if !v.Valid {
			return nil
		}
		return v.String
	case *types.JSON:
		if v == nil || len(*v) == 0 {
			return nil
		}
		var parsed any
		if err := json.Unmarshal(*v, &parsed); err != nil {
			return string(*v)
		}
		return parsed
	case *any:
		return normalizeRaw(*v)
	default:
		return target
	}
}

func normalizeRaw(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
