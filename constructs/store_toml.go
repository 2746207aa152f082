package constructs

import (
	"encoding"
	"io"
	"math"
	"reflect"
	"time"

	toml "github.com/pelletier/go-toml"
)

// NewTOML returns the Store for TOML formatted data.
func NewTOML() Store {
	v, _ := toml.Load("")
	return &tomlStore{v}
}

var (
	_ Store     = (*tomlStore)(nil)
	_ Commenter = (*tomlStore)(nil)
)

// tomlStore wraps a toml.Tree instance to implement the Store interface.
type tomlStore struct {
	toml *toml.Tree
}

func (store *tomlStore) Has(keys ...string) bool {
	return store.toml.HasPath(keys)
}

func (store *tomlStore) Get(keys ...string) (interface{}, error) {
	return store.toml.GetPath(keys), nil
}

// TOML supported types:
// string, int, bool, float, datetime, array, table
//
// Strategy for marshaling:
//   - leave string, int64, bool, float64 unchanged
//   - int, int8, int16, int32 -> int64
//   - uint, uint8, uint16, uint32, uint64 -> int64
//   - uint, uint64 above math.MaxInt64 -> string
//   - float32 -> float64
//   - time.Duration and text marshalers -> string
//   - any slice -> slice of marshaled items
func (store *tomlStore) marshal(v interface{}) (interface{}, error) {
	switch w := v.(type) {
	case time.Duration, encoding.TextMarshaler:
		return marshalText(v)
	case int64, float64, string, bool:
	case int:
		v = int64(w)
	case int8:
		v = int64(w)
	case int16:
		v = int64(w)
	case int32:
		v = int64(w)
	case uint:
		if uint64(w) > math.MaxInt64 {
			return marshalText(v)
		}
		v = int64(w)
	case uint8:
		v = int64(w)
	case uint16:
		v = int64(w)
	case uint32:
		v = int64(w)
	case uint64:
		if w > math.MaxInt64 {
			return marshalText(v)
		}
		v = int64(w)
	case float32:
		v = float64(w)
	default:
		return marshalText(v)
	}
	return v, nil
}

// marshalList returns a slice typed after its first marshaled item,
// as TOML arrays are homogeneous.
func (store *tomlStore) marshalList(v interface{}) (interface{}, error) {
	w, err := marshal(store.marshal, v)
	if err != nil {
		return nil, err
	}
	items, ok := w.([]interface{})
	if !ok || len(items) == 0 {
		return w, nil
	}
	t := reflect.TypeOf(items[0])
	for _, item := range items[1:] {
		if reflect.TypeOf(item) != t {
			// Mixed items, e.g. large uint64 values: write all of them as text.
			return marshal(marshalText, v)
		}
	}
	lst := reflect.MakeSlice(reflect.SliceOf(t), len(items), len(items))
	for i, item := range items {
		lst.Index(i).Set(reflect.ValueOf(item))
	}
	return lst.Interface(), nil
}

func (store *tomlStore) Set(v interface{}, keys ...string) error {
	v, err := store.marshalList(v)
	if err != nil || v == nil {
		return err
	}
	store.toml.SetPath(keys, v)
	return nil
}

func (store *tomlStore) SetComment(comment string, keys ...string) error {
	if !store.toml.HasPath(keys) {
		return nil
	}
	v := store.toml.GetPath(keys)
	store.toml.SetPathWithComment(keys, comment, false, v)
	return nil
}

func (store *tomlStore) ReadFrom(r io.Reader) (int64, error) {
	nr := &reader{Reader: r}
	t, err := toml.LoadReader(nr)
	if err != nil {
		return nr.n, err
	}
	store.toml = t
	return nr.n, nil
}

func (store *tomlStore) WriteTo(w io.Writer) (int64, error) {
	return store.toml.WriteTo(w)
}
