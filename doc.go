// Package adapters stores chat thread, user and feedback records in an
// arbitrary pre-existing relational schema without renaming or migrating it.
//
// The Adapter type maps a small fixed logical model (three entities with
// fixed field sets) onto caller-supplied table names, column names and
// storage representations, and normalizes query predicates and result rows
// across engines with different native type support.
//
// # Basic Usage
//
//	drv := memory.New(schema)
//	adapter, err := adapters.New(drv, schema,
//	    adapters.WithTable(adapters.ModelUser, "customers"),
//	    adapters.WithField(adapters.ModelUser, "id", "customer_id"),
//	)
//	rec, err := adapter.Create(ctx, adapters.ModelUser, adapters.Record{"name": "Ada"})
//
// # Name Resolution
//
// Callers always use logical names (user, thread, feedback, id, createdAt,
// ...). Table names pluralize when UsePlural is set; an explicit table
// override always wins. Field overrides apply in the input direction when
// writing and invert for the output direction when reading. Absence of a
// mapping is an identity mapping, never an error.
//
// # Capability Flags and Coercion
//
// Engines differ in native type support. Capability flags (JSON, Dates,
// Booleans, Returning) drive a per-field coercion pass in each direction:
// structured documents serialize to JSON text, timestamps to RFC 3339 text,
// booleans to 0/1 integers when the engine lacks the native type, and the
// reverse reconstruction is attempted when reading. Reconstruction is best
// effort and heuristic: malformed text falls back to the raw string, and a
// legitimate 0/1 integer column that is not semantically boolean will be
// misclassified. This is a documented limitation.
//
// # Drivers
//
// Concrete engines implement the Driver interface; see driver/memory,
// driver/sqldb, driver/sqlite and driver/postgres. The adapter composes no
// transactions, performs no retries, and propagates engine errors unchanged.
//
// # Not-Found Outcomes
//
// FindOne and Update return (nil, nil) when no record matches. Zero matches
// are an outcome, not an error.
//
// # Thread Safety
//
// The Adapter is immutable after construction and safe for concurrent use.
// Cancellation and timeouts are delegated to the driver through the
// context.Context passed to every operation.
package adapters
