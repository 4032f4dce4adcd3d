package adapters

// Builder provides a fluent API to compose adapter configuration and
// construct the Adapter in one shot.
type Builder struct {
	opts []Option
}

// NewBuilder creates a new builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithOptions appends raw options to the builder.
func (b *Builder) WithOptions(opts ...Option) *Builder { b.opts = append(b.opts, opts...); return b }

// Table overrides the physical table name for a model.
func (b *Builder) Table(m Model, name string) *Builder {
	b.opts = append(b.opts, WithTable(m, name))
	return b
}

// Field maps one logical field of a model to a physical column.
func (b *Builder) Field(m Model, logical, physical string) *Builder {
	b.opts = append(b.opts, WithField(m, logical, physical))
	return b
}

// OutputField overrides the read-direction mapping of a physical column.
func (b *Builder) OutputField(m Model, physical, logical string) *Builder {
	b.opts = append(b.opts, WithOutputField(m, physical, logical))
	return b
}

// Fields merges a logical-to-physical field map for a model.
func (b *Builder) Fields(m Model, fields map[string]string) *Builder {
	b.opts = append(b.opts, WithFields(m, fields))
	return b
}

// SnakeCaseFields maps the known camelCase fields of the given models to
// snake_case columns.
func (b *Builder) SnakeCaseFields(models ...Model) *Builder {
	b.opts = append(b.opts, WithSnakeCaseFields(models...))
	return b
}

// UsePlural pluralizes unmapped table names.
func (b *Builder) UsePlural(v bool) *Builder {
	b.opts = append(b.opts, WithUsePlural(v))
	return b
}

// Capabilities replaces the capability set.
func (b *Builder) Capabilities(c Capabilities) *Builder {
	b.opts = append(b.opts, WithCapabilities(c))
	return b
}

// DebugLogs enables operation logging.
func (b *Builder) DebugLogs(v bool) *Builder {
	b.opts = append(b.opts, WithDebugLogs(v))
	return b
}

// DisableIDGeneration suppresses automatic identifier generation.
func (b *Builder) DisableIDGeneration(v bool) *Builder {
	b.opts = append(b.opts, WithDisableIDGeneration(v))
	return b
}

// GenerateID installs a custom identifier generator.
func (b *Builder) GenerateID(fn func() string) *Builder {
	b.opts = append(b.opts, WithGenerateID(fn))
	return b
}

// Build constructs the Adapter against a driver and schema description.
func (b *Builder) Build(driver Driver, schema Schema) (*Adapter, error) {
	return New(driver, schema, b.opts...)
}
