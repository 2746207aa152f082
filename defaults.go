package pexconfig

import (
	"reflect"

	"github.com/LSST/pex-config/internal/structs"
)

// Defaulter is implemented by control objects with non zero defaults.
//
// SetDefaults is invoked on a zero value, after the SetDefaults methods of
// its struct fields have been invoked. It must be idempotent, as a method
// promoted from an embedded struct is invoked once per level.
type Defaulter interface {
	SetDefaults()
}

// New returns a pointer to a default constructed control object.
// The values it holds are the declared defaults of the type.
func (s *Schema) New() interface{} {
	v := reflect.New(s.typ)
	applyDefaults(v.Elem())
	return v.Interface()
}

// applyDefaults calls SetDefaults depth first on v and its struct fields.
func applyDefaults(v reflect.Value) {
	for i, n := 0, v.NumField(); i < n; i++ {
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct && fv.CanSet() {
			applyDefaults(fv)
		}
	}
	if d, ok := v.Addr().Interface().(Defaulter); ok {
		d.SetDefaults()
	}
}

// Defaults returns the declared defaults by field name.
// Nested fields are returned as nested maps.
func (s *Schema) Defaults() map[string]interface{} {
	v := reflect.ValueOf(s.New()).Elem()
	return s.values(v)
}

// Values returns the current values of ctrl by field name.
// Nested fields are returned as nested maps.
func (s *Schema) Values(ctrl interface{}) (map[string]interface{}, error) {
	v, err := s.value(ctrl)
	if err != nil {
		return nil, err
	}
	return s.values(v), nil
}

func (s *Schema) values(v reflect.Value) map[string]interface{} {
	m := make(map[string]interface{}, len(s.fields))
	for _, f := range s.fields {
		fv := v.FieldByIndex(f.Index)
		if f.Nested() {
			if ns, err := s.Nested(f.Name); err == nil {
				m[f.Name] = ns.values(fv)
				continue
			}
		}
		m[f.Name] = fv.Interface()
	}
	return m
}

func setValue(value reflect.Value, v interface{}) error {
	return structs.Set(value, v, structs.DefaultSeps)
}
