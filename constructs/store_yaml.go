package constructs

import (
	"bytes"
	"encoding"
	"fmt"
	"io"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// NewYAML returns the Store for YAML formatted data.
func NewYAML() Store {
	return &yamlStore{mapStore{make(map[string]interface{})}}
}

var _ Store = (*yamlStore)(nil)

// yamlStore keeps the decoded YAML data as nested maps.
type yamlStore struct {
	mapStore
}

func (store *yamlStore) Set(v interface{}, keys ...string) error {
	v, err := marshal(store.marshal, v)
	if err != nil {
		return err
	}
	store.set(v, keys)
	return nil
}

func (store *yamlStore) marshal(v interface{}) (interface{}, error) {
	switch v.(type) {
	case time.Duration, encoding.TextMarshaler:
		return marshalText(v)
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	}
	return marshalText(v)
}

func (store *yamlStore) ReadFrom(r io.Reader) (n int64, err error) {
	buf := new(bytes.Buffer)
	n, err = io.Copy(buf, r)
	if err != nil {
		return
	}
	data := make(map[string]interface{})
	if err = yaml.Unmarshal(buf.Bytes(), &data); err != nil {
		return
	}
	if err = normalizeMap(data); err != nil {
		return
	}
	store.data = data
	return
}

// normalizeMap converts the map[interface{}]interface{} produced by the
// yaml decoder into map[string]interface{}.
func normalizeMap(data map[string]interface{}) error {
	for k, v := range data {
		w, err := normalize(v)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		data[k] = w
	}
	return nil
}

func normalize(v interface{}) (interface{}, error) {
	switch w := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(w))
		for k, v := range w {
			m[fmt.Sprint(k)] = v
		}
		return m, normalizeMap(m)
	case map[string]interface{}:
		return w, normalizeMap(w)
	case []interface{}:
		for i, item := range w {
			nitem, err := normalize(item)
			if err != nil {
				return nil, err
			}
			w[i] = nitem
		}
	}
	return v, nil
}

func (store *yamlStore) WriteTo(w io.Writer) (int64, error) {
	bts, err := yaml.Marshal(store.data)
	if err != nil {
		return 0, err
	}
	r := bytes.NewReader(bts)
	return io.Copy(w, r)
}
