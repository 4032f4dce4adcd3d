package adapters

// direction selects which field map applies: the input direction maps logical
// names to physical columns when writing queries and data, the output
// direction maps physical columns back to logical names when reading rows.
type direction int

const (
	directionInput direction = iota
	directionOutput
)

// resolver performs table and field name resolution. It is built once at
// construction and never mutated, so resolution is idempotent and safe for
// concurrent use.
type resolver struct {
	tables    map[Model]string
	input     map[Model]map[string]string // logical -> physical
	output    map[Model]map[string]string // physical -> logical
	usePlural bool
}

func newResolver(opts Options) *resolver {
	r := &resolver{
		tables:    make(map[Model]string, len(opts.Tables)),
		input:     make(map[Model]map[string]string, len(opts.Fields)),
		output:    make(map[Model]map[string]string, len(opts.Fields)),
		usePlural: opts.UsePlural,
	}
	for m, name := range opts.Tables {
		r.tables[m] = name
	}
	for m, fields := range opts.Fields {
		in := make(map[string]string, len(fields))
		out := make(map[string]string, len(fields))
		for logical, physical := range fields {
			in[logical] = physical
			out[physical] = logical
		}
		r.input[m] = in
		r.output[m] = out
	}
	// Explicit output overrides win over the inversion.
	for m, fields := range opts.OutputFields {
		if r.output[m] == nil {
			r.output[m] = make(map[string]string, len(fields))
		}
		for physical, logical := range fields {
			r.output[m][physical] = logical
		}
	}
	return r
}

// tableName resolves the physical table for a model. An explicit override
// always wins; otherwise the logical name is pluralized when configured.
func (r *resolver) tableName(m Model) string {
	if name, ok := r.tables[m]; ok {
		return name
	}
	if r.usePlural {
		return string(m) + "s"
	}
	return string(m)
}

// fieldName resolves a field name for the given direction. Absence of a
// mapping is a valid no-op: the name passes through unchanged.
func (r *resolver) fieldName(m Model, field string, d direction) string {
	var fields map[string]string
	if d == directionInput {
		fields = r.input[m]
	} else {
		fields = r.output[m]
	}
	if mapped, ok := fields[field]; ok {
		return mapped
	}
	return field
}
