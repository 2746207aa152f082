package wrap

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kr/pretty"

	pexconfig "github.com/LSST/pex-config"
)

// Validator is implemented by control objects checking their own values.
type Validator interface {
	Validate() error
}

// ConfigType is a configuration type mirroring a control object type.
type ConfigType struct {
	name   string
	doc    string
	schema *pexconfig.Schema
	fields []*Field
	names  map[string]*Field
}

// MakeConfigType creates the config type matching the control object
// type described by schema.
//
// Its name defaults to the control type name with "Control" replaced by
// "Config", and its doc to the schema doc.
func MakeConfigType(schema *pexconfig.Schema, options ...Option) (*ConfigType, error) {
	ct := &ConfigType{
		name:   strings.Replace(schema.Name(), "Control", "Config", -1),
		doc:    schema.Doc(),
		schema: schema,
		names:  make(map[string]*Field),
	}
	for _, option := range options {
		if err := option(ct); err != nil {
			return nil, err
		}
	}

	defaults := reflect.ValueOf(schema.New()).Elem()
	for _, cf := range schema.Fields() {
		f := &Field{
			Name:      cf.Name,
			Doc:       cf.Doc,
			Signature: cf.Type,
			Type:      cf.GoType,
			ctrl:      cf,
		}
		if cf.Nested() {
			ns, err := schema.Nested(cf.Name)
			if err != nil {
				return nil, err
			}
			nct, err := MakeConfigType(ns)
			if err != nil {
				return nil, err
			}
			f.Kind = Nested
			f.Nested = nct
		} else {
			kind, ok := kindOf(cf.GoType)
			if !ok {
				return nil, fmt.Errorf("%s.%s: %w %q", schema.Unit(), cf.Name, ErrUnsupportedType, cf.Type)
			}
			f.Kind = kind
			f.Default = clone(defaults.FieldByIndex(cf.Index)).Interface()
		}
		ct.fields = append(ct.fields, f)
		ct.names[f.Name] = f
	}
	return ct, nil
}

// Name returns the name of the config type.
func (ct *ConfigType) Name() string { return ct.name }

// Doc returns the documentation of the config type.
func (ct *ConfigType) Doc() string { return ct.doc }

// Schema returns the schema of the control object type.
func (ct *ConfigType) Schema() *pexconfig.Schema { return ct.schema }

// Fields returns the config fields in declaration order.
func (ct *ConfigType) Fields() []*Field {
	return append([]*Field(nil), ct.fields...)
}

// Lookup returns the field named name.
func (ct *ConfigType) Lookup(name string) (*Field, bool) {
	f, ok := ct.names[name]
	return f, ok
}

func (ct *ConfigType) field(name string) (*Field, error) {
	f, ok := ct.names[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", ct.name, pexconfig.ErrUnknownField, name)
	}
	return f, nil
}

// New returns a Config holding the control object defaults,
// updated with kw.
func (ct *ConfigType) New(kw map[string]interface{}) (*Config, error) {
	c := ct.zero()
	c.readControl(reflect.ValueOf(ct.schema.New()).Elem())
	if err := c.Update(kw); err != nil {
		return nil, err
	}
	return c, nil
}

func (ct *ConfigType) zero() *Config {
	c := &Config{
		typ:    ct,
		values: make(map[string]interface{}),
		nested: make(map[string]*Config),
	}
	for _, f := range ct.fields {
		if f.Kind == Nested {
			c.nested[f.Name] = f.Nested.zero()
		}
	}
	return c
}

// Config is an instance of a ConfigType.
type Config struct {
	typ *ConfigType
	// Unset fields are missing.
	values map[string]interface{}
	nested map[string]*Config
}

// Type returns the type of the config.
func (c *Config) Type() *ConfigType { return c.typ }

// Get returns the value of the field named name.
// It is nil if the field is unset, and a *Config for nested fields.
func (c *Config) Get(name string) (interface{}, error) {
	f, err := c.typ.field(name)
	if err != nil {
		return nil, err
	}
	if f.Kind == Nested {
		return c.nested[name], nil
	}
	v, ok := c.values[name]
	if !ok {
		return nil, nil
	}
	return clone(reflect.ValueOf(v)).Interface(), nil
}

// Set assigns v to the field named name.
// v is converted to the field type, strings being deserialized.
// A nil v unsets the field.
// Nested fields accept a *Config of the same type or a map of values.
func (c *Config) Set(name string, v interface{}) error {
	f, err := c.typ.field(name)
	if err != nil {
		return err
	}
	if f.Kind == Nested {
		return c.setNested(f, v)
	}
	if v == nil {
		delete(c.values, name)
		return nil
	}
	cv, err := f.convert(v)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", c.typ.name, name, err)
	}
	c.values[name] = cv
	return nil
}

func (c *Config) setNested(f *Field, v interface{}) error {
	switch w := v.(type) {
	case *Config:
		if w.typ != f.Nested {
			return fmt.Errorf("%s.%s: cannot assign a %s", c.typ.name, f.Name, w.typ.name)
		}
		c.nested[f.Name] = w.Copy()
		return nil
	case map[string]interface{}:
		return c.nested[f.Name].Update(w)
	}
	return fmt.Errorf("%s.%s: cannot assign a %T", c.typ.name, f.Name, v)
}

// Update sets the fields by name.
// Unknown names are rejected before any field is set.
func (c *Config) Update(kw map[string]interface{}) error {
	for name := range kw {
		if _, err := c.typ.field(name); err != nil {
			return err
		}
	}
	for _, f := range c.typ.fields {
		v, ok := kw[f.Name]
		if !ok {
			continue
		}
		if err := c.Set(f.Name, v); err != nil {
			return err
		}
	}
	return nil
}

// GetPath returns the value of the field at path, descending into nested fields.
func (c *Config) GetPath(path ...string) (interface{}, error) {
	nc, name, err := c.parent(path)
	if err != nil {
		return nil, err
	}
	return nc.Get(name)
}

// SetPath assigns v to the field at path, descending into nested fields.
func (c *Config) SetPath(v interface{}, path ...string) error {
	nc, name, err := c.parent(path)
	if err != nil {
		return err
	}
	return nc.Set(name, v)
}

// parent returns the config holding the last field of path.
func (c *Config) parent(path []string) (*Config, string, error) {
	if len(path) == 0 {
		return nil, "", fmt.Errorf("%s: empty path", c.typ.name)
	}
	for _, name := range path[:len(path)-1] {
		f, err := c.typ.field(name)
		if err != nil {
			return nil, "", err
		}
		if f.Kind != Nested {
			return nil, "", fmt.Errorf("%s.%s: not a nested field", c.typ.name, name)
		}
		c = c.nested[name]
	}
	return c, path[len(path)-1], nil
}

// WalkFunc is called by Walk for the non nested fields.
// v is nil for unset fields.
type WalkFunc func(path []string, f *Field, v interface{}) error

// Walk visits the non nested fields in declaration order,
// descending into nested fields.
func (c *Config) Walk(fn WalkFunc) error {
	return c.walk(nil, fn)
}

func (c *Config) walk(path []string, fn WalkFunc) error {
	for _, f := range c.typ.fields {
		p := append(path[:len(path):len(path)], f.Name)
		if f.Kind == Nested {
			if err := c.nested[f.Name].walk(p, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(p, f, c.values[f.Name]); err != nil {
			return err
		}
	}
	return nil
}

// Map returns the set values by field name, nested fields as nested maps.
func (c *Config) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(c.typ.fields))
	for _, f := range c.typ.fields {
		if f.Kind == Nested {
			m[f.Name] = c.nested[f.Name].Map()
			continue
		}
		if v, ok := c.values[f.Name]; ok {
			m[f.Name] = clone(reflect.ValueOf(v)).Interface()
		}
	}
	return m
}

// Copy returns a deep copy of the config.
func (c *Config) Copy() *Config {
	cc := &Config{
		typ:    c.typ,
		values: make(map[string]interface{}, len(c.values)),
		nested: make(map[string]*Config, len(c.nested)),
	}
	for k, v := range c.values {
		cc.values[k] = clone(reflect.ValueOf(v)).Interface()
	}
	for k, n := range c.nested {
		cc.nested[k] = n.Copy()
	}
	return cc
}

// MakeControl returns a new control object, a pointer to the control type,
// holding the config values. Unset fields keep the control object defaults.
func (c *Config) MakeControl() (interface{}, error) {
	ctrl := c.typ.schema.New()
	c.writeControl(reflect.ValueOf(ctrl).Elem())
	return ctrl, nil
}

func (c *Config) writeControl(v reflect.Value) {
	for _, f := range c.typ.fields {
		fv := v.FieldByIndex(f.ctrl.Index)
		if f.Kind == Nested {
			c.nested[f.Name].writeControl(fv)
			continue
		}
		x, ok := c.values[f.Name]
		if !ok {
			continue
		}
		fv.Set(clone(reflect.ValueOf(x)))
	}
}

// ReadControl sets the config from the values of ctrl,
// a pointer to the control type.
func (c *Config) ReadControl(ctrl interface{}) error {
	v := reflect.ValueOf(ctrl)
	t := c.typ.schema.Type()
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Type() != t {
		return fmt.Errorf("%w: got %T, expected *%s", pexconfig.ErrWrongType, ctrl, t)
	}
	c.readControl(v.Elem())
	return nil
}

func (c *Config) readControl(v reflect.Value) {
	for _, f := range c.typ.fields {
		fv := v.FieldByIndex(f.ctrl.Index)
		if f.Kind == Nested {
			c.nested[f.Name].readControl(fv)
			continue
		}
		c.values[f.Name] = clone(fv).Interface()
	}
}

// Validate checks the nested configs then the control object built
// from the config, if it implements Validator.
func (c *Config) Validate() error {
	for _, f := range c.typ.fields {
		if f.Kind != Nested {
			continue
		}
		if err := c.nested[f.Name].Validate(); err != nil {
			return fmt.Errorf("%s.%s: %w", c.typ.name, f.Name, err)
		}
	}
	ctrl, err := c.MakeControl()
	if err != nil {
		return err
	}
	if v, ok := ctrl.(Validator); ok {
		return v.Validate()
	}
	return nil
}

// GoString makes Config implement fmt.GoStringer.
func (c *Config) GoString() string {
	return c.typ.name + pretty.Sprint(c.Map())
}
