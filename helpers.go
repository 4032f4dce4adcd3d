package adapters

import "strconv"

// cloneRecord returns a shallow copy so orchestration never mutates the
// caller's map. A nil input yields an empty record.
func cloneRecord(rec Record) Record {
	out := make(Record, len(rec)+2)
	for k, v := range rec {
		out[k] = v
	}
	return out
}

// filterRecord keeps only the requested logical fields. An empty field list
// keeps everything.
func filterRecord(rec Record, fields []string) Record {
	if len(fields) == 0 {
		return rec
	}
	out := make(Record, len(fields))
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}

// hasValue reports whether the record carries a usable value under key.
// Nil and empty-string identifiers count as absent.
func hasValue(rec Record, key string) bool {
	v, ok := rec[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return false
	}
	return true
}

func itoa(n int) string { return strconv.Itoa(n) }

func itoa64(n int64) string { return strconv.FormatInt(n, 10) }
