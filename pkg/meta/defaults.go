package meta

import (
	"encoding/json"
	"math"
	"reflect"
)

// DefaultFor returns the implicit default for a data type: "" for strings, 0
// for integers and numbers, false for booleans and an empty sequence for
// arrays. Unknown types yield nil.
func DefaultFor(t DataType) any {
	switch t {
	case DataTypeString:
		return ""
	case DataTypeInteger:
		return 0
	case DataTypeNumber:
		return float64(0)
	case DataTypeBoolean:
		return false
	case DataTypeArray:
		return []any{}
	default:
		return nil
	}
}

// Coerce converts value into the canonical Go shape for t, the same shape
// descriptor defaults use. It fails with a *TypeMismatchError naming key.
func Coerce(key string, t DataType, value any) (any, error) {
	out, ok := coerceDefault(t, value)
	if !ok {
		return nil, &TypeMismatchError{Key: key, DataType: t, Value: value}
	}
	return out, nil
}

// coerceDefault checks that value is assignable to t and returns it in the
// canonical Go shape: int for integers, float64 for numbers, []any for arrays.
// Integral float64 values are accepted for integers because JSON decoding
// never produces Go ints.
func coerceDefault(t DataType, value any) (any, bool) {
	if n, ok := value.(json.Number); ok {
		if t == DataTypeInteger {
			if i, err := n.Int64(); err == nil {
				return int(i), true
			}
			f, err := n.Float64()
			if err != nil {
				return nil, false
			}
			return integralInt(f)
		}
		if t == DataTypeNumber {
			f, err := n.Float64()
			return f, err == nil
		}
		return nil, false
	}

	rv := reflect.ValueOf(value)
	switch t {
	case DataTypeString:
		if rv.Kind() == reflect.String {
			return rv.String(), true
		}
	case DataTypeBoolean:
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), true
		}
	case DataTypeInteger:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return int(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u := rv.Uint()
			if u > math.MaxInt64 {
				return nil, false
			}
			return int(u), true
		case reflect.Float32, reflect.Float64:
			return integralInt(rv.Float())
		}
	case DataTypeNumber:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), true
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, false
			}
			return f, true
		}
	case DataTypeArray:
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			out := make([]any, rv.Len())
			for idx := range out {
				out[idx] = Clone(rv.Index(idx).Interface())
			}
			return out, true
		}
	}
	return nil, false
}

// integralInt accepts whole floats inside the int64 range. The upper bound is
// exclusive: float64(math.MaxInt64) rounds up to 2^63.
func integralInt(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	if f >= 1<<63 || f < -(1<<63) {
		return nil, false
	}
	return int(f), true
}

// Clone deep-copies the []any and map[string]any containers inside value so
// callers cannot reach descriptor or registry state through returned values.
// Other values are returned as is.
func Clone(value any) any {
	switch v := value.(type) {
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = Clone(item)
		}
		return out
	case map[string]any:
		if v == nil {
			return v
		}
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Clone(item)
		}
		return out
	default:
		return value
	}
}
