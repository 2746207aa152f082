package pexconfig

import (
	"fmt"
	"reflect"

	"github.com/kr/pretty"
)

// Describer is implemented by control objects documenting themselves.
type Describer interface {
	DescribeControl() string
}

// Schema is the registered table of the declared fields of a control object type.
// It is immutable and shared by all instances of the type.
type Schema struct {
	unit   string
	typ    reflect.Type
	doc    string
	fields []*Field
	names  map[string]*Field
	reg    *Registry
}

// Unit returns the provenance unit the schema is registered under.
func (s *Schema) Unit() string { return s.unit }

// Type returns the control object type.
func (s *Schema) Type() reflect.Type { return s.typ }

// Name returns the name of the control object type.
func (s *Schema) Name() string { return s.typ.Name() }

// Doc returns the control object documentation, if it implements Describer.
func (s *Schema) Doc() string { return s.doc }

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []*Field {
	return append([]*Field(nil), s.fields...)
}

// Lookup returns the field named name.
func (s *Schema) Lookup(name string) (*Field, bool) {
	f, ok := s.names[name]
	return f, ok
}

func (s *Schema) field(name string) (*Field, error) {
	f, ok := s.names[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", s.unit, ErrUnknownField, name)
	}
	return f, nil
}

// DocOf returns the documentation of the field named name.
func (s *Schema) DocOf(name string) (string, error) {
	f, err := s.field(name)
	if err != nil {
		return "", err
	}
	return f.Doc, nil
}

// TypeOf returns the type signature of the field named name.
func (s *Schema) TypeOf(name string) (string, error) {
	f, err := s.field(name)
	if err != nil {
		return "", err
	}
	return f.Type, nil
}

// Provenance returns the unit owning the descriptors of the nested field named name.
// It is empty if the field is not nested.
func (s *Schema) Provenance(name string) (string, error) {
	f, err := s.field(name)
	if err != nil {
		return "", err
	}
	return f.Module, nil
}

// Nested returns the schema of the nested field named name.
func (s *Schema) Nested(name string) (*Schema, error) {
	f, err := s.field(name)
	if err != nil {
		return nil, err
	}
	if !f.Nested() {
		return nil, fmt.Errorf("%s: field %q is not nested", s.unit, name)
	}
	ns, ok := s.reg.Lookup(f.Module)
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w %q", s.unit, name, ErrUnknownProvenance, f.Module)
	}
	return ns, nil
}

// value returns the addressable struct value held by ctrl,
// which must be a pointer to the schema type.
func (s *Schema) value(ctrl interface{}) (reflect.Value, error) {
	v := reflect.ValueOf(ctrl)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Type() != s.typ {
		return reflect.Value{}, fmt.Errorf("%w: got %T, expected *%s", ErrWrongType, ctrl, s.typ)
	}
	return v.Elem(), nil
}

// Get returns the current value of the field named name in ctrl,
// a pointer to a control object of the schema type.
// Nested fields are returned by value.
func (s *Schema) Get(ctrl interface{}, name string) (interface{}, error) {
	f, err := s.field(name)
	if err != nil {
		return nil, err
	}
	v, err := s.value(ctrl)
	if err != nil {
		return nil, err
	}
	return v.FieldByIndex(f.Index).Interface(), nil
}

// Set assigns v to the field named name in ctrl.
// Strings are converted to the field type.
func (s *Schema) Set(ctrl interface{}, name string, v interface{}) error {
	f, err := s.field(name)
	if err != nil {
		return err
	}
	sv, err := s.value(ctrl)
	if err != nil {
		return err
	}
	if err := setValue(sv.FieldByIndex(f.Index), v); err != nil {
		return fmt.Errorf("%s.%s: %w", s.unit, name, err)
	}
	return nil
}

// WalkFunc is called for each field visited by Walk.
// path holds the names from the root schema down to the field.
type WalkFunc func(path []string, f *Field) error

// Walk visits the fields depth first, descending into nested fields
// after visiting them.
func (s *Schema) Walk(fn WalkFunc) error {
	return s.walk(nil, fn)
}

func (s *Schema) walk(path []string, fn WalkFunc) error {
	for _, f := range s.fields {
		p := append(path[:len(path):len(path)], f.Name)
		if err := fn(p, f); err != nil {
			return err
		}
		if !f.Nested() {
			continue
		}
		ns, err := s.Nested(f.Name)
		if err != nil {
			return err
		}
		if err := ns.walk(p, fn); err != nil {
			return err
		}
	}
	return nil
}

// GoString makes Schema implement fmt.GoStringer.
func (s *Schema) GoString() string {
	type field struct{ Name, Type, Doc, Module string }
	fields := make([]field, len(s.fields))
	for i, f := range s.fields {
		fields[i] = field{f.Name, f.Type, f.Doc, f.Module}
	}
	return pretty.Sprint(struct {
		Unit   string
		Type   string
		Fields []field
	}{s.unit, s.typ.String(), fields})
}
