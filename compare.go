package goadjacent

import (
	"bytes"
	"cmp"
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// ErrIncomparable is returned when two values have no defined order.
var ErrIncomparable = errors.New("values are not comparable")

// normalizeValue unwraps driver.Valuer implementations and pointers. The second
// return value is false when the value is absent: nil, a nil pointer, or a
// Valuer yielding nil (an invalid sql.NullString, for example). A failing
// Valuer is an error, not an absent value.
func normalizeValue(v any) (any, bool, error) {
	for {
		if v == nil {
			return nil, false, nil
		}

		if valuer, ok := v.(driver.Valuer); ok {
			rv := reflect.ValueOf(v)
			if rv.Kind() == reflect.Pointer && rv.IsNil() {
				return nil, false, nil
			}

			value, err := valuer.Value()
			if err != nil {
				return nil, false, fmt.Errorf("cannot read value of %T: %w", v, err)
			}

			return value, value != nil, nil
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v, true, nil
		}
		if rv.IsNil() {
			return nil, false, nil
		}

		v = rv.Elem().Interface()
	}
}

// compareValues returns -1, 0 or +1 comparing two present values. Numbers of
// different kinds compare by value; strings, booleans, byte slices and
// time.Time compare among their own kind.
func compareValues(a, b any) (int, error) {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
		}

		return at.Compare(bt), nil
	}

	if ab, ok := a.([]byte); ok {
		bb, ok := b.([]byte)
		if !ok {
			return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
		}

		return bytes.Compare(ab, bb), nil
	}

	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)

	switch {
	case av.Kind() == reflect.String && bv.Kind() == reflect.String:
		return cmp.Compare(av.String(), bv.String()), nil
	case av.Kind() == reflect.Bool && bv.Kind() == reflect.Bool:
		return compareBools(av.Bool(), bv.Bool()), nil
	case isNumber(av) && isNumber(bv):
		return compareNumbers(av, bv), nil
	default:
		return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
	}
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || isFloat(v)
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func compareNumbers(a, b reflect.Value) int {
	switch {
	case isInt(a) && isInt(b):
		return cmp.Compare(a.Int(), b.Int())
	case isUint(a) && isUint(b):
		return cmp.Compare(a.Uint(), b.Uint())
	case isInt(a) && isUint(b):
		if a.Int() < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.Int()), b.Uint())
	case isUint(a) && isInt(b):
		if b.Int() < 0 {
			return 1
		}
		return cmp.Compare(a.Uint(), uint64(b.Int()))
	default:
		return cmp.Compare(toFloat(a), toFloat(b))
	}
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
