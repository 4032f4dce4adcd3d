package adapters

// Generic helpers as top-level functions (methods cannot have type parameters yet)

// Make converts a record into a typed value rather than a pointer.
func Make[T any](rec Record) (T, error) {
	var d T
	err := convert(rec, &d)
	return d, err
}

// AsSlice converts a slice of records into typed values, in order.
func AsSlice[T any](recs []Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := Make[T](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// RecordsOf converts a slice of typed values into records, in order.
func RecordsOf[T any](values []T) ([]Record, error) {
	out := make([]Record, 0, len(values))
	for _, v := range values {
		rec, err := RecordOf(v)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
