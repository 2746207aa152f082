package wrap

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"time"

	pexconfig "github.com/LSST/pex-config"
	"github.com/LSST/pex-config/internal/structs"
)

// ErrUnsupportedType is returned for declared fields without a config mapping.
var ErrUnsupportedType = errors.New("could not parse field type")

// Kind is the kind of a config field.
type Kind int

// Config field kinds.
const (
	Scalar Kind = iota
	List
	Nested
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case List:
		return "list"
	case Nested:
		return "nested"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field is a field of a ConfigType.
type Field struct {
	// Name of the field, as declared in the control object.
	Name string
	// Doc of the field.
	Doc string
	// Signature is the declared type signature.
	Signature string
	Kind      Kind
	// Type of the values, the control object field type.
	Type reflect.Type
	// Default value of the field, nil for nested fields.
	Default interface{}
	// Nested holds the config type of nested fields.
	Nested *ConfigType

	ctrl *pexconfig.Field
}

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// kindOf maps a control object field type to a config field kind.
func kindOf(t reflect.Type) (Kind, bool) {
	if isScalar(t) {
		return Scalar, true
	}
	if t.Kind() == reflect.Slice && isScalar(t.Elem()) {
		return List, true
	}
	return 0, false
}

func isScalar(t reflect.Type) bool {
	if t == durationType {
		return true
	}
	if t.Implements(textMarshalerType) && reflect.PtrTo(t).Implements(textUnmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// convert returns v as a value of the field type.
// Strings are deserialized and lists copied.
func (f *Field) convert(v interface{}) (interface{}, error) {
	value := reflect.New(f.Type).Elem()
	if err := structs.Set(value, v, structs.DefaultSeps); err != nil {
		return nil, err
	}
	return clone(value).Interface(), nil
}

// clone returns a copy of slice values, so that configs and
// control objects never share storage.
func clone(v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Slice || v.IsNil() {
		return v
	}
	c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(c, v)
	return c
}
