package property

import "reflect"

var int64Type = reflect.TypeFor[int64]()

// convertScalar converts numeric and boolean values between predeclared
// scalar types: numbers convert with Go conversion semantics (floats
// truncate toward zero), booleans become 0 or 1, and numbers become true
// when their integer value is non-zero. Named types are left alone so that
// distinct enums never convert into each other.
func convertScalar(value any, target reflect.Type) (any, bool) {
	if value == nil || value == Unset || !isPredeclaredScalar(target) {
		return value, false
	}
	rv := reflect.ValueOf(value)
	if rv.Type() == target || !isPredeclaredScalar(rv.Type()) {
		return value, false
	}

	switch {
	case isNumeric(rv.Kind()):
		if target.Kind() == reflect.Bool {
			return reflect.ValueOf(rv.Convert(int64Type).Int() != 0).Convert(target).Interface(), true
		}
		return rv.Convert(target).Interface(), true
	case rv.Kind() == reflect.Bool:
		if target.Kind() == reflect.Bool {
			return rv.Convert(target).Interface(), true
		}
		n := int64(0)
		if rv.Bool() {
			n = 1
		}
		return reflect.ValueOf(n).Convert(target).Interface(), true
	}
	return value, false
}

func isPredeclaredScalar(t reflect.Type) bool {
	if t.PkgPath() != "" {
		return false
	}
	return t.Kind() == reflect.Bool || isNumeric(t.Kind())
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
