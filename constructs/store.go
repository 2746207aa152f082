package constructs

import (
	"fmt"
	"io"
	"reflect"

	"github.com/LSST/pex-config/internal/structs"
	"github.com/LSST/pex-config/wrap"
)

// Store defines the interface for retrieving config items stored in
// various data formats.
type Store interface {
	// Has check the existence of the key.
	Has(keys ...string) bool

	// Get retrieves the value of the given key.
	Get(keys ...string) (interface{}, error)

	// Set changes the value of the given key.
	Set(value interface{}, keys ...string) error

	// Used when deserializing config items.
	io.ReaderFrom

	// Used when serializing config items.
	io.WriterTo
}

// Commenter is implemented by stores supporting comments on their keys.
type Commenter interface {
	SetComment(comment string, keys ...string) error
}

// Decode sets the fields of c present in store.
func Decode(c *wrap.Config, store Store) error {
	return decode(c, store, nil)
}

// Encode sets the fields of c into store, with their doc as comment if
// supported. Unset fields are skipped.
func Encode(c *wrap.Config, store Store) error {
	return encode(c, store, nil)
}

// decode is Decode ignoring the fields under the skip path.
func decode(c *wrap.Config, store Store, skip []string) error {
	return c.Walk(func(path []string, f *wrap.Field, _ interface{}) error {
		if hasPrefix(path, skip) || !store.Has(path...) {
			return nil
		}
		v, err := store.Get(path...)
		if err != nil {
			return fmt.Errorf("%v: %w", path, err)
		}
		if err := c.SetPath(v, path...); err != nil {
			return fmt.Errorf("%v: %w", path, err)
		}
		return nil
	})
}

// encode is Encode ignoring the fields under the skip path.
func encode(c *wrap.Config, store Store, skip []string) error {
	cm, _ := store.(Commenter)
	return c.Walk(func(path []string, f *wrap.Field, v interface{}) error {
		if v == nil || hasPrefix(path, skip) {
			return nil
		}
		if err := store.Set(v, path...); err != nil {
			return fmt.Errorf("value %v: %w", v, err)
		}
		if cm != nil {
			return cm.SetComment(f.Doc, path...)
		}
		return nil
	})
}

// hasPrefix reports whether prefix is a non empty prefix of path.
func hasPrefix(path, prefix []string) bool {
	if len(prefix) == 0 || len(prefix) > len(path) {
		return false
	}
	for i, p := range prefix {
		if path[i] != p {
			return false
		}
	}
	return true
}

// marshal converts v into the types supported by the generic stores:
// lists are converted item by item, other values with the scalar func.
func marshal(scalar func(interface{}) (interface{}, error), v interface{}) (interface{}, error) {
	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Slice, reflect.Array:
		n := value.Len()
		lst := make([]interface{}, n)
		for i := 0; i < n; i++ {
			w, err := scalar(value.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			lst[i] = w
		}
		return lst, nil
	}
	return scalar(v)
}

// marshalText returns the text representation of v.
func marshalText(v interface{}) (interface{}, error) {
	return structs.MarshalValue(v, structs.DefaultSeps)
}

// mapStore holds generically decoded data as nested maps.
type mapStore struct {
	data map[string]interface{}
}

func (store *mapStore) Has(keys ...string) bool {
	_, ok := store.lookup(keys)
	return ok
}

func (store *mapStore) Get(keys ...string) (interface{}, error) {
	v, _ := store.lookup(keys)
	return v, nil
}

func (store *mapStore) lookup(keys []string) (interface{}, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	data := store.data
	for _, key := range keys[:len(keys)-1] {
		m, ok := data[key].(map[string]interface{})
		if !ok {
			return nil, false
		}
		data = m
	}
	v, ok := data[keys[len(keys)-1]]
	return v, ok
}

func (store *mapStore) set(v interface{}, keys []string) {
	if len(keys) == 0 {
		return
	}
	data := store.data
	for _, key := range keys[:len(keys)-1] {
		m, ok := data[key].(map[string]interface{})
		if !ok {
			m = make(map[string]interface{})
			data[key] = m
		}
		data = m
	}
	data[keys[len(keys)-1]] = v
}
