package adapters

import "context"

// TableSchema describes one physical table: the columns that exist in it.
type TableSchema struct {
	Columns []string
}

// Schema describes the caller's physical schema, keyed by physical table
// name. Only column existence matters to the adapter; column types stay the
// engine's concern.
type Schema map[string]TableSchema

func (s Schema) hasTable(table string) bool {
	_, ok := s[table]
	return ok
}

func (s Schema) hasColumn(table, column string) bool {
	t, ok := s[table]
	if !ok {
		return false
	}
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// SchemaIntrospector is implemented by drivers that can describe the live
// schema of their backing store. NewIntrospected uses it so callers do not
// have to hand-write the schema description.
type SchemaIntrospector interface {
	IntrospectSchema(ctx context.Context, tables []string) (Schema, error)
}
