package pexconfig

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// TagID is the default struct tag declaring a control field:
	//
	//	`ctrl:"[<name>][,inline]"`
	TagID = "ctrl"
	// DocTag holds the field documentation.
	DocTag = "doc"
	// TypeTag holds the field type signature.
	TypeTag = "type"
	// ModuleTag holds the provenance unit of a nested control object.
	ModuleTag = "module"

	// Prefixes of the accessor methods declaring a field by convention.
	DocPrefix    = "Doc"
	TypePrefix   = "Type"
	ModulePrefix = "Module"
)

// Field describes a declared field of a control object.
// Its values are set once at registration and never change.
type Field struct {
	// Name of the field, unique within its control object.
	Name string
	// Type is the declared type signature.
	Type string
	// Doc is the field documentation.
	Doc string
	// Module is the provenance unit of a nested control object.
	// It is empty for non nested fields.
	Module string

	// GoName is the name of the struct field.
	GoName string
	// GoType is the type of the struct field.
	GoType reflect.Type
	// Index is the index sequence for reflect.Value.FieldByIndex.
	Index []int
}

// Nested reports whether the field holds a nested control object.
func (f *Field) Nested() bool { return f.Module != "" }

func (f *Field) String() string {
	if f.Nested() {
		return fmt.Sprintf("%s %s (%s): %s", f.Name, f.Type, f.Module, f.Doc)
	}
	return fmt.Sprintf("%s %s: %s", f.Name, f.Type, f.Doc)
}

type tagFlags struct {
	inline bool
}

// parseTag splits a ctrl tag into its name and flags.
func parseTag(tag string) (string, tagFlags, error) {
	var flags tagFlags
	parts := strings.Split(tag, ",")
	for _, flag := range parts[1:] {
		switch strings.TrimSpace(flag) {
		case "":
		case "inline":
			flags.inline = true
		default:
			return "", flags, fmt.Errorf("unknown tag flag %q", flag)
		}
	}
	return strings.TrimSpace(parts[0]), flags, nil
}

// fieldsOf lists the declared fields of the struct type t.
// index is the index sequence of t within the control object.
func fieldsOf(t reflect.Type, tagID string, index []int) ([]*Field, error) {
	var res []*Field
	for i, n := 0, t.NumField(); i < n; i++ {
		sf := t.Field(i)
		tag, tagged := sf.Tag.Lookup(tagID)
		if tag == "-" {
			continue
		}
		name, flags, err := parseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %v", t.Name(), sf.Name, err)
		}
		idx := append(index[:len(index):len(index)], i)

		if flags.inline {
			if !sf.Anonymous || sf.Type.Kind() != reflect.Struct {
				return nil, fmt.Errorf("%s.%s: inline requires an embedded struct", t.Name(), sf.Name)
			}
			fields, err := fieldsOf(sf.Type, tagID, idx)
			if err != nil {
				return nil, err
			}
			res = append(res, fields...)
			continue
		}

		acc := accessorsOf(t, sf.Name)
		if !tagged && !acc.declared() {
			// Plain field.
			continue
		}
		if sf.PkgPath != "" {
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, ErrUnexported)
		}
		if name == "" {
			name = lowerFirst(sf.Name)
		}
		if !isIdentifier(name) {
			return nil, fmt.Errorf("%s.%s: %w %q", t.Name(), sf.Name, ErrInvalidName, name)
		}
		f := &Field{
			Name:   name,
			GoName: sf.Name,
			GoType: sf.Type,
			Index:  idx,
		}
		if err := f.declare(t, sf, acc); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, err)
		}
		res = append(res, f)
	}
	return res, nil
}

// declare sets the field metadata from the struct field tags and accessors.
func (f *Field) declare(owner reflect.Type, sf reflect.StructField, acc accessors) (err error) {
	f.Doc, err = pick(sf.Tag, DocTag, acc.doc)
	if err != nil {
		return err
	}
	if f.Doc == "" {
		return ErrMissingDoc
	}

	f.Type, err = pick(sf.Tag, TypeTag, acc.typ)
	if err != nil {
		return err
	}
	if f.Type == "" {
		f.Type = sf.Type.String()
	} else if !signatureMatches(f.Type, sf.Type, owner.PkgPath()) {
		return fmt.Errorf("%w: %q for %s", ErrTypeMismatch, f.Type, sf.Type)
	}

	f.Module, err = pick(sf.Tag, ModuleTag, acc.module)
	if err != nil {
		return err
	}
	if f.Module != "" && sf.Type.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s", ErrNotByValue, sf.Type)
	}
	return nil
}

// pick returns the tag value for key if set, or the accessor value.
// Both must agree when set.
func pick(tag reflect.StructTag, key string, acc *string) (string, error) {
	v, ok := tag.Lookup(key)
	switch {
	case acc == nil:
		return v, nil
	case !ok:
		return *acc, nil
	case v != *acc:
		return "", fmt.Errorf("%w: %s %q != %q", ErrAccessorMismatch, key, v, *acc)
	}
	return v, nil
}

// accessors holds the values returned by the accessor methods of a field.
// A nil value means the method is not defined.
type accessors struct {
	doc, typ, module *string
}

// declared reports whether the accessors are enough to declare a field.
func (a accessors) declared() bool {
	return a.doc != nil && a.typ != nil
}

// accessorsOf calls the accessor methods of the field named name.
func accessorsOf(t reflect.Type, name string) accessors {
	return accessors{
		doc:    callString(t, DocPrefix+name),
		typ:    callString(t, TypePrefix+name),
		module: callString(t, ModulePrefix+name),
	}
}

// callString calls the method m on a new value of type t.
// It returns nil if m is not a method returning a single string.
func callString(t reflect.Type, m string) *string {
	pt := reflect.PtrTo(t)
	method, ok := pt.MethodByName(m)
	if !ok {
		return nil
	}
	mt := method.Type
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.String {
		return nil
	}
	out := method.Func.Call([]reflect.Value{reflect.New(t)})
	s := out[0].String()
	return &s
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[n:]
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
