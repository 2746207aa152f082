package constructs

import (
	"bytes"
	"io"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/LSST/pex-config/internal/structs"
)

// INISectionSep joins the names of nested fields into INI section names.
const INISectionSep = "."

// iniOptions disables the key inheritance of dotted child sections,
// as nested control objects do not share fields.
var iniOptions = ini.LoadOptions{ChildSectionDelimiter: ":"}

// NewINI returns the Store for INI formatted data.
// Nested fields are stored in sections named after their path.
func NewINI() Store {
	return &iniStore{ini.Empty(iniOptions)}
}

var (
	_ Store     = (*iniStore)(nil)
	_ Commenter = (*iniStore)(nil)
)

// iniStore wraps an ini.File instance to implement the Store interface.
type iniStore struct {
	file *ini.File
}

func (store *iniStore) keys(keys []string) (section, key string) {
	switch len(keys) {
	case 0:
	case 1:
		key = keys[0]
	default:
		section = strings.Join(keys[:len(keys)-1], INISectionSep)
		key = keys[len(keys)-1]
	}
	if section == "" {
		section = ini.DefaultSection
	}
	return
}

func (store *iniStore) Has(keys ...string) bool {
	section, key := store.keys(keys)
	sec, err := store.file.GetSection(section)
	if err != nil {
		return false
	}
	return sec.HasKey(key)
}

func (store *iniStore) Get(keys ...string) (interface{}, error) {
	section, key := store.keys(keys)
	return store.file.Section(section).Key(key).String(), nil
}

func (store *iniStore) Set(v interface{}, keys ...string) error {
	section, key := store.keys(keys)
	s, err := structs.MarshalValue(v, structs.DefaultSeps)
	if err != nil {
		return err
	}
	store.file.Section(section).Key(key).SetValue(s)
	return nil
}

func (store *iniStore) SetComment(comment string, keys ...string) error {
	section, key := store.keys(keys)
	store.file.Section(section).Key(key).Comment = "# " + comment
	return nil
}

func (store *iniStore) ReadFrom(r io.Reader) (int64, error) {
	buf := new(bytes.Buffer)
	n, err := io.Copy(buf, r)
	if err != nil {
		return n, err
	}
	f, err := ini.LoadSources(iniOptions, buf.Bytes())
	if err != nil {
		return n, err
	}
	store.file = f
	return n, nil
}

func (store *iniStore) WriteTo(w io.Writer) (int64, error) {
	return store.file.WriteTo(w)
}
