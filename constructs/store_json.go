package constructs

import (
	"encoding"
	"encoding/json"
	"io"
	"time"
)

// NewJSON returns the Store for JSON formatted data.
func NewJSON() Store {
	return &jsonStore{mapStore{make(map[string]interface{})}}
}

var _ Store = (*jsonStore)(nil)

// jsonStore keeps the decoded JSON data as nested maps.
type jsonStore struct {
	mapStore
}

func (store *jsonStore) Set(v interface{}, keys ...string) error {
	v, err := marshal(store.marshal, v)
	if err != nil {
		return err
	}
	store.set(v, keys)
	return nil
}

func (store *jsonStore) marshal(v interface{}) (interface{}, error) {
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

func (store *jsonStore) ReadFrom(r io.Reader) (int64, error) {
	nr := &reader{Reader: r}
	dec := json.NewDecoder(nr)
	err := dec.Decode(&store.data)
	if err == io.EOF {
		err = nil
	}
	if store.data == nil {
		store.data = make(map[string]interface{})
	}
	return nr.n, err
}

func (store *jsonStore) WriteTo(w io.Writer) (int64, error) {
	nw := &writer{Writer: w}
	enc := json.NewEncoder(nw)
	enc.SetIndent("", " ")
	err := enc.Encode(store.data)
	return nw.n, err
}

// reader counts the bytes read.
type reader struct {
	io.Reader
	n int64
}

func (r *reader) Read(buf []byte) (int, error) {
	n, err := r.Reader.Read(buf)
	r.n += int64(n)
	return n, err
}

// writer counts the bytes written.
type writer struct {
	io.Writer
	n int64
}

func (w *writer) Write(buf []byte) (int, error) {
	n, err := w.Writer.Write(buf)
	w.n += int64(n)
	return n, err
}
