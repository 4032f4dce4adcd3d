package adapters

import (
	"reflect"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// coercer converts values between their logical and storage representations.
// Which transforms apply is decided entirely by the capability flags; the
// coercer itself is stateless.
//
// Output-direction reconstruction is best effort and inherently heuristic: a
// stored string that happens to parse as a timestamp, or a legitimate 0/1
// integer column that is not semantically boolean, will be misclassified.
// This is a documented limitation rather than something to special-case
// further.
type coercer struct {
	caps Capabilities
}

// coerceIn converts a logical value to its storage representation.
func (c coercer) coerceIn(v any) any {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case time.Time:
		if !c.caps.Dates {
			return val.UTC().Format(time.RFC3339Nano)
		}
		return val
	case *time.Time:
		if val == nil {
			return nil
		}
		return c.coerceIn(*val)
	case bool:
		if !c.caps.Booleans {
			if val {
				return int64(1)
			}
			return int64(0)
		}
		return val
	case string, []byte:
		return val
	}
	if !c.caps.JSON && isStructured(v) {
		data, err := json.Marshal(v)
		if err != nil {
			// Unserializable values pass through; the engine reports them.
			return v
		}
		return string(data)
	}
	return v
}

// coerceOut converts a storage value back to its logical representation.
// Parse failures are never errors: the raw value is returned instead.
func (c coercer) coerceOut(v any) any {
	if v == nil {
		return nil
	}
	if !c.caps.Booleans {
		switch n := v.(type) {
		case int64:
			if n == 0 || n == 1 {
				return n == 1
			}
		case int:
			if n == 0 || n == 1 {
				return n == 1
			}
		}
	}
	s, ok := v.(string)
	if !ok {
		if b, isBytes := v.([]byte); isBytes {
			s, ok = string(b), true
		}
	}
	if !ok {
		return v
	}
	if !c.caps.Dates {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	if !c.caps.JSON {
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			var parsed any
			if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
				return parsed
			}
		}
	}
	return s
}

// isStructured reports whether a value is a structured document (map, slice,
// array or struct) rather than a scalar. time.Time and raw bytes are handled
// before this is consulted.
func isStructured(v any) bool {
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	case reflect.Ptr:
		rv := reflect.ValueOf(v)
		if rv.IsNil() {
			return false
		}
		return isStructured(rv.Elem().Interface())
	default:
		return false
	}
}
