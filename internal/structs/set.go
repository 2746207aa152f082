package structs

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

var (
	errCannotSet       = errors.New("cannot set value")
	errCannotUnmarshal = errors.New("cannot unmarshal value")
	errCannotMarshal   = errors.New("cannot marshal value")
	errOverflow        = errors.New("value out of range")
)

// DefaultSeps are the separators used for nested lists when none are given.
var DefaultSeps = []rune{',', ';', '|'}

// Set assigns v to the value.
// If v is a string but value is not, then Set attempts to deserialize it
// using UnmarshalValue().
// Slices of any kind are assigned item by item.
func Set(value reflect.Value, v interface{}, seps []rune) error {
	if !value.CanSet() {
		return errCannotSet
	}

	switch w := v.(type) {
	case nil:
		// Reset the value.
		zero := reflect.Zero(value.Type())
		value.Set(zero)
		return nil
	case string:
		return UnmarshalValue(value, w, seps)
	}

	val := reflect.ValueOf(v)
	if val.Type().AssignableTo(value.Type()) {
		value.Set(val)
		return nil
	}
	if val.Kind() == reflect.Slice && value.Kind() == reflect.Slice {
		return setSlice(value, val, seps)
	}
	// The value needs to be converted.
	cv, err := convert(val, value.Type())
	if err != nil {
		return err
	}
	value.Set(cv)
	return nil
}

func setSlice(value, val reflect.Value, seps []rune) error {
	n := val.Len()
	lst := reflect.MakeSlice(value.Type(), n, n)
	for i := 0; i < n; i++ {
		if err := Set(lst.Index(i), val.Index(i).Interface(), next(seps)); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	value.Set(lst)
	return nil
}

// convert a to type t safely.
// Integer targets only accept integral floats within their range.
func convert(a reflect.Value, t reflect.Type) (_ reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	if !a.Type().ConvertibleTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", errCannotSet, a.Type(), t)
	}
	if isNumber(a.Kind()) != isNumber(t.Kind()) {
		// Avoid int to string conversions.
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", errCannotSet, a.Type(), t)
	}
	switch a.Kind() {
	case reflect.Float32, reflect.Float64:
		f := a.Float()
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if f != math.Trunc(f) {
				return reflect.Value{}, fmt.Errorf("%w: %v is not an integer", errCannotSet, f)
			}
		}
	}
	cv := a.Convert(t)
	if isNumber(t.Kind()) && !(isFloat(a.Kind()) && isFloat(t.Kind())) && !sameNumber(a, cv) {
		return reflect.Value{}, fmt.Errorf("%w: %v for %s", errOverflow, a.Interface(), t)
	}
	return cv, nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// sameNumber reports whether the conversion from a to b lost information.
func sameNumber(a, b reflect.Value) bool {
	back := b.Convert(a.Type())
	return back.Interface() == a.Interface()
}

// next returns the separators for the items of a list.
func next(seps []rune) []rune {
	if len(seps) == 0 {
		return nil
	}
	return seps[1:]
}

// UnmarshalValue sets value from its string representation s.
// Lists are expected as csv records using the first separator in seps.
func UnmarshalValue(value reflect.Value, s string, seps []rune) error {
	if dec, ok := PtrValue(value).(encoding.TextUnmarshaler); ok {
		return dec.UnmarshalText([]byte(s))
	}

	switch value.Interface().(type) {
	case time.Duration:
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		value.SetInt(int64(d))
		return nil
	}

	switch value.Kind() {
	default:
		return fmt.Errorf("%w: %s", errCannotUnmarshal, value.Type())
	case reflect.Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		value.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(s, 0, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(s, 0, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(s, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetFloat(v)
	case reflect.String:
		value.SetString(s)
	case reflect.Slice:
		if len(seps) == 0 {
			return fmt.Errorf("%w: no separator for %s", errCannotUnmarshal, value.Type())
		}
		values, err := readList(s, seps[0])
		if err != nil {
			return err
		}
		lst := reflect.MakeSlice(value.Type(), len(values), len(values))
		for i, s := range values {
			if err := UnmarshalValue(lst.Index(i), s, seps[1:]); err != nil {
				return err
			}
		}
		value.Set(lst)
	}
	return nil
}

// MarshalValue returns the text representation of v.
// Lists are written as csv records using the first separator in seps.
func MarshalValue(v interface{}, seps []rune) (string, error) {
	switch w := v.(type) {
	case nil:
		return "", nil
	case string:
		return w, nil
	case encoding.TextMarshaler:
		bts, err := w.MarshalText()
		return string(bts), err
	case time.Duration:
		return w.String(), nil
	}

	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(value.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(value.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(value.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(value.Float(), 'g', -1, value.Type().Bits()), nil
	case reflect.String:
		return value.String(), nil
	case reflect.Slice, reflect.Array:
		if len(seps) == 0 {
			return "", fmt.Errorf("%w: no separator for %s", errCannotMarshal, value.Type())
		}
		items := make([]string, value.Len())
		for i := range items {
			s, err := MarshalValue(value.Index(i).Interface(), seps[1:])
			if err != nil {
				return "", err
			}
			items[i] = s
		}
		return writeList(items, seps[0])
	}
	return "", fmt.Errorf("%w: %T", errCannotMarshal, v)
}

// PtrValue returns the interface of the pointer value.
func PtrValue(value reflect.Value) interface{} {
	if value.Kind() != reflect.Ptr && value.CanAddr() {
		value = value.Addr()
	}
	return value.Interface()
}
