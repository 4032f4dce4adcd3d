package adapters

import "context"

// InsertRequest asks a driver to store one row. Values are keyed by physical
// column name and already coerced to the engine's storage representation.
type InsertRequest struct {
	Table  string
	Values Record
	// Columns limits what the returned row must contain; nil means all.
	Columns []string
	// UseReturning asks the driver to return the stored row from the same
	// statement. Drivers whose engine lacks RETURNING return a nil row and
	// the adapter re-fetches.
	UseReturning bool
}

// SelectRequest asks a driver for rows. Where is the normalized clause list:
// physical fields, defaulted operators and connectors, coerced values,
// original order.
type SelectRequest struct {
	Table   string
	Where   []Condition
	Columns []string // physical columns to return; nil means all
	Limit   int      // 0 means no limit
	Offset  int
	Sort    *SortClause
}

// SortClause orders a SelectRequest by a physical column.
type SortClause struct {
	Column    string
	Direction SortDirection
}

// UpdateRequest asks a driver to update every row matching Where.
type UpdateRequest struct {
	Table        string
	Where        []Condition
	Values       Record
	UseReturning bool
}

// DeleteRequest asks a driver to delete every row matching Where. Deleting
// zero rows is not an error.
type DeleteRequest struct {
	Table string
	Where []Condition
}

// CountRequest asks a driver for the number of rows matching Where.
type CountRequest struct {
	Table string
	Where []Condition
}

// Driver executes normalized requests against one engine. Implementations
// translate resolved names and predicates into engine-native statements and
// return raw rows keyed by physical column name. Drivers never retry and
// never transform engine errors; failures surface to the caller unchanged.
//
// All methods must be safe for concurrent use.
type Driver interface {
	// Insert stores one row. The returned row is nil when UseReturning is
	// false or the engine cannot return rows from an insert.
	Insert(ctx context.Context, req InsertRequest) (Record, error)

	// SelectOne returns the first matching row, or (nil, nil) when no row
	// matches.
	SelectOne(ctx context.Context, req SelectRequest) (Record, error)

	// SelectMany returns all matching rows; an empty result is not an error.
	SelectMany(ctx context.Context, req SelectRequest) ([]Record, error)

	// Update modifies matching rows and reports how many matched. The
	// returned row is one updated row when UseReturning is honored, else nil.
	Update(ctx context.Context, req UpdateRequest) (Record, int64, error)

	// Delete removes matching rows.
	Delete(ctx context.Context, req DeleteRequest) error

	// Count returns the number of matching rows.
	Count(ctx context.Context, req CountRequest) (int64, error)
}
