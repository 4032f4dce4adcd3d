package adapters

import "github.com/iancoleman/strcase"

// Capabilities describes which value representations the backing engine
// supports natively. Capability flags drive the coercion engine; they replace
// per-engine adapter subclassing with one CRUD contract parameterized by
// configuration.
type Capabilities struct {
	JSON      bool // native structured column type
	Dates     bool // native timestamp column type
	Booleans  bool // native boolean column type
	Returning bool // INSERT/UPDATE can read the row back in one statement
}

// PostgresCapabilities returns the capability set of PostgreSQL.
func PostgresCapabilities() Capabilities {
	return Capabilities{JSON: true, Dates: true, Booleans: true, Returning: true}
}

// SQLiteCapabilities returns the capability set of SQLite. SQLite stores
// structured documents and timestamps as text and booleans as 0/1 integers,
// but supports RETURNING.
func SQLiteCapabilities() Capabilities {
	return Capabilities{JSON: false, Dates: false, Booleans: false, Returning: true}
}

// MySQLCapabilities returns the capability set of MySQL, which lacks
// RETURNING on INSERT/UPDATE.
func MySQLCapabilities() Capabilities {
	return Capabilities{JSON: false, Dates: true, Booleans: true, Returning: false}
}

// MemoryCapabilities returns the capability set of the in-memory driver,
// which stores Go values as-is.
func MemoryCapabilities() Capabilities {
	return Capabilities{JSON: true, Dates: true, Booleans: true, Returning: true}
}

// Options holds the adapter configuration. It is merged over defaults at
// construction and immutable afterwards.
type Options struct {
	Tables map[Model]string            // physical table name per model
	Fields map[Model]map[string]string // logical field -> physical column
	// OutputFields overrides the read-direction mapping (physical column ->
	// logical field) for models whose schemas are not a clean inversion of
	// Fields. Unset entries default to the inverse of Fields.
	OutputFields        map[Model]map[string]string
	UsePlural           bool // pluralize unmapped table names
	DebugLogs           bool // log every operation
	Capabilities        Capabilities
	DisableIDGeneration bool          // suppress automatic identifier generation on create
	GenerateID          func() string // custom identifier generator
}

// Option mutates Options during construction.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Tables:       make(map[Model]string),
		Fields:       make(map[Model]map[string]string),
		OutputFields: make(map[Model]map[string]string),
		Capabilities: Capabilities{
			JSON:      false,
			Dates:     true,
			Booleans:  true,
			Returning: true,
		},
	}
}

// WithTable overrides the physical table name for a model. An explicit table
// name always wins over pluralization.
func WithTable(m Model, name string) Option {
	return func(o *Options) { o.Tables[m] = name }
}

// WithField maps a single logical field of a model to a physical column.
func WithField(m Model, logical, physical string) Option {
	return func(o *Options) {
		if o.Fields[m] == nil {
			o.Fields[m] = make(map[string]string)
		}
		o.Fields[m][logical] = physical
	}
}

// WithFields merges a logical-to-physical field map for a model.
func WithFields(m Model, fields map[string]string) Option {
	return func(o *Options) {
		if o.Fields[m] == nil {
			o.Fields[m] = make(map[string]string, len(fields))
		}
		for logical, physical := range fields {
			o.Fields[m][logical] = physical
		}
	}
}

// WithOutputField overrides the read-direction mapping of one physical column
// to a logical field, independently of the write-direction map.
func WithOutputField(m Model, physical, logical string) Option {
	return func(o *Options) {
		if o.OutputFields[m] == nil {
			o.OutputFields[m] = make(map[string]string)
		}
		o.OutputFields[m][physical] = logical
	}
}

// WithSnakeCaseFields maps every known camelCase field of the given models
// (all models when none are given) to its snake_case column name, e.g.
// createdAt -> created_at. Identity mappings are skipped.
func WithSnakeCaseFields(models ...Model) Option {
	if len(models) == 0 {
		models = Models()
	}
	return func(o *Options) {
		for _, m := range models {
			fields := SnakeCaseFieldMap(m)
			if len(fields) == 0 {
				continue
			}
			WithFields(m, fields)(o)
		}
	}
}

// SnakeCaseFieldMap returns the logical-to-snake_case column map for a model,
// containing only fields whose snake_case form differs from the logical name.
func SnakeCaseFieldMap(m Model) map[string]string {
	fields := make(map[string]string)
	for _, f := range KnownFields(m) {
		if snake := strcase.ToSnake(f); snake != f {
			fields[f] = snake
		}
	}
	return fields
}

// WithUsePlural pluralizes table names for models without an explicit table
// override.
func WithUsePlural(v bool) Option { return func(o *Options) { o.UsePlural = v } }

// WithDebugLogs enables structured operation logging.
func WithDebugLogs(v bool) Option { return func(o *Options) { o.DebugLogs = v } }

// WithCapabilities replaces the whole capability set.
func WithCapabilities(c Capabilities) Option { return func(o *Options) { o.Capabilities = c } }

// WithSupportsJSON sets the native-JSON capability flag.
func WithSupportsJSON(v bool) Option { return func(o *Options) { o.Capabilities.JSON = v } }

// WithSupportsDates sets the native-timestamp capability flag.
func WithSupportsDates(v bool) Option { return func(o *Options) { o.Capabilities.Dates = v } }

// WithSupportsBooleans sets the native-boolean capability flag.
func WithSupportsBooleans(v bool) Option { return func(o *Options) { o.Capabilities.Booleans = v } }

// WithSupportsReturning sets the RETURNING capability flag.
func WithSupportsReturning(v bool) Option { return func(o *Options) { o.Capabilities.Returning = v } }

// WithDisableIDGeneration suppresses automatic identifier generation on
// create.
func WithDisableIDGeneration(v bool) Option { return func(o *Options) { o.DisableIDGeneration = v } }

// WithGenerateID installs a custom identifier generator used on create when
// no identifier was supplied.
func WithGenerateID(fn func() string) Option { return func(o *Options) { o.GenerateID = fn } }
