package pexconfig

import (
	"fmt"
	"log"
	"reflect"
	"sort"
	"sync"
)

// Registry holds the schemas of registered control object types,
// by provenance unit and by type.
type Registry struct {
	tagID string
	log   *log.Logger

	mu    sync.RWMutex
	units map[string]*Schema
	types map[reflect.Type]*Schema
}

// Default is the process wide registry used by the package level functions.
var Default = newRegistry()

func newRegistry() *Registry {
	return &Registry{
		tagID: TagID,
		units: make(map[string]*Schema),
		types: make(map[reflect.Type]*Schema),
	}
}

// NewRegistry returns an empty Registry.
func NewRegistry(options ...Option) (*Registry, error) {
	r := newRegistry()
	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) logf(format string, args ...interface{}) {
	if r.log != nil {
		r.log.Printf(format, args...)
	}
}

// typeOf returns the struct type of ctrl: a struct, a pointer to a struct
// or a reflect.Type of either.
func typeOf(ctrl interface{}) (reflect.Type, error) {
	t, ok := ctrl.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(ctrl)
	}
	if t == nil {
		return nil, ErrNotStruct
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}
	return t, nil
}

// Register parses and validates the declared fields of the control object
// type of ctrl and records them under unit.
//
// ctrl is a struct, a pointer to a struct or their reflect.Type.
// The units of nested fields must already be registered.
// Registration is all or nothing: on error, nothing is recorded.
// Registering the same type under the same unit again returns
// the existing schema.
func (r *Registry) Register(unit string, ctrl interface{}) (*Schema, error) {
	if unit == "" {
		return nil, ErrEmptyUnit
	}
	t, err := typeOf(ctrl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", unit, err)
	}
	fields, err := fieldsOf(t, r.tagID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", unit, err)
	}
	// DescribeControl may use the registry.
	var doc string
	if d, ok := reflect.New(t).Interface().(Describer); ok {
		doc = d.DescribeControl()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.units[unit]; ok {
		if s.typ == t {
			return s, nil
		}
		return nil, fmt.Errorf("%s: %w: unit holds %s", unit, ErrUnitConflict, s.typ)
	}
	if s, ok := r.types[t]; ok {
		return nil, fmt.Errorf("%s: %w: %s is registered under %q", unit, ErrUnitConflict, t, s.unit)
	}

	names := make(map[string]*Field, len(fields))
	for _, f := range fields {
		if prev, ok := names[f.Name]; ok {
			return nil, fmt.Errorf("%s: %w %q (%s and %s)", unit, ErrDuplicateName, f.Name, prev.GoName, f.GoName)
		}
		if f.Nested() {
			ns, ok := r.units[f.Module]
			if !ok {
				return nil, fmt.Errorf("%s.%s: %w %q", unit, f.Name, ErrUnknownProvenance, f.Module)
			}
			if ns.typ != f.GoType {
				return nil, fmt.Errorf("%s.%s: %w: %q holds %s, not %s",
					unit, f.Name, ErrProvenanceMismatch, f.Module, ns.typ, f.GoType)
			}
		}
		names[f.Name] = f
	}

	s := &Schema{
		unit:   unit,
		typ:    t,
		doc:    doc,
		fields: fields,
		names:  names,
		reg:    r,
	}
	r.units[unit] = s
	r.types[t] = s
	r.logf("debug: registered %s as %q with %d fields", t, unit, len(fields))

	return s, nil
}

// MustRegister is like Register but panics on error.
// It is meant for package level variables and init functions.
func (r *Registry) MustRegister(unit string, ctrl interface{}) *Schema {
	s, err := r.Register(unit, ctrl)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the schema registered under unit.
func (r *Registry) Lookup(unit string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.units[unit]
	return s, ok
}

// SchemaOf returns the schema of the control object type of ctrl.
func (r *Registry) SchemaOf(ctrl interface{}) (*Schema, bool) {
	t, err := typeOf(ctrl)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.types[t]
	return s, ok
}

// Units returns the sorted names of the registered units.
func (r *Registry) Units() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	units := make([]string, 0, len(r.units))
	for unit := range r.units {
		units = append(units, unit)
	}
	sort.Strings(units)
	return units
}

// Register records the control object type of ctrl under unit in the Default registry.
func Register(unit string, ctrl interface{}) (*Schema, error) {
	return Default.Register(unit, ctrl)
}

// MustRegister is like Register but panics on error.
func MustRegister(unit string, ctrl interface{}) *Schema {
	return Default.MustRegister(unit, ctrl)
}

// Lookup returns the schema registered under unit in the Default registry.
func Lookup(unit string) (*Schema, bool) {
	return Default.Lookup(unit)
}

// SchemaOf returns the schema of the type of ctrl in the Default registry.
func SchemaOf(ctrl interface{}) (*Schema, bool) {
	return Default.SchemaOf(ctrl)
}
