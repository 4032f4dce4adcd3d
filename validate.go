package adapters

import (
	"github.com/Station-Manager/errors"
)

// validateSchema fails fast when the configuration cannot be satisfied by
// the supplied schema description. It runs once, before any CRUD call is
// accepted; on error no adapter is returned, so a partially-initialized
// adapter can never be observed.
func validateSchema(opts Options, r *resolver, schema Schema) error {
	const op errors.Op = "adapters.validateSchema"

	for _, m := range Models() {
		table := r.tableName(m)
		if !schema.hasTable(table) {
			return errors.New(op).Errorf("table %q for model %q not found in the schema description", table, m)
		}
		for _, field := range requiredFields[m] {
			column := r.fieldName(m, field, directionInput)
			if !schema.hasColumn(table, column) {
				return errors.New(op).Errorf("required field %q of model %q resolves to column %q, which does not exist in table %q", field, m, column, table)
			}
		}
		// Optional fields are not required to exist, but an explicit override
		// must still point at a real column.
		overrides := opts.Fields[m]
		for _, field := range optionalFields[m] {
			if _, overridden := overrides[field]; !overridden {
				continue
			}
			column := r.fieldName(m, field, directionInput)
			if !schema.hasColumn(table, column) {
				return errors.New(op).Errorf("optional field %q of model %q is mapped to column %q, which does not exist in table %q", field, m, column, table)
			}
		}
		// Output overrides are keyed by physical column; each key must exist.
		for column := range opts.OutputFields[m] {
			if !schema.hasColumn(table, column) {
				return errors.New(op).Errorf("output override for model %q names column %q, which does not exist in table %q", m, column, table)
			}
		}
	}
	return nil
}
