package wrap

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/LSST/pex-config/internal/structs"
)

// FlagsGroupSep is the default separator of nested field names in flags.
const FlagsGroupSep = "-"

// ErrNameCollision is returned when two fields map to the same flag or
// environment variable name.
var ErrNameCollision = errors.New("name collision")

// BindFlags defines a flag on fs for each non nested field of c.
// Flag names are the lowercased field paths joined with sep,
// and their usage the field doc.
// Parsing fs sets the fields of c.
//
// Fields whose flag names collide, with each other or with flags already
// defined on fs, are rejected before any flag is defined.
func BindFlags(fs *flag.FlagSet, c *Config, sep string) error {
	var values []*flagValue
	names := make(map[string][]string)
	err := c.Walk(func(path []string, f *Field, _ interface{}) error {
		name := strings.ToLower(strings.Join(path, sep))
		if prev, ok := names[name]; ok {
			return fmt.Errorf("flag %s: %w: %v and %v", name, ErrNameCollision, prev, path)
		}
		if fs.Lookup(name) != nil {
			return fmt.Errorf("flag %s: %w: already defined", name, ErrNameCollision)
		}
		names[name] = path
		values = append(values, &flagValue{c: c, path: path, f: f, name: name})
		return nil
	})
	if err != nil {
		return err
	}
	for _, fv := range values {
		fs.Var(fv, fv.name, fv.f.Doc)
	}
	return nil
}

var _ flag.Value = (*flagValue)(nil)

// flagValue binds a flag to a config field.
type flagValue struct {
	c    *Config
	path []string
	f    *Field
	name string
}

func (fv *flagValue) String() string {
	if fv.c == nil {
		// Zero value used by the flag package.
		return ""
	}
	v, err := fv.c.GetPath(fv.path...)
	if err != nil {
		return ""
	}
	s, _ := structs.MarshalValue(v, structs.DefaultSeps)
	return s
}

func (fv *flagValue) Set(s string) error {
	return fv.c.SetPath(s, fv.path...)
}

func (fv *flagValue) IsBoolFlag() bool {
	return fv.f != nil && fv.f.Type.Kind() == reflect.Bool
}

// Usage writes out the usage of the flags bound to a config,
// starting with the config type doc.
//
// If out is nil, it defaults to os.Stderr.
func Usage(ct *ConfigType, fs *flag.FlagSet, out io.Writer) (err error) {
	if out == nil {
		out = os.Stderr
	}

	if doc := ct.Doc(); doc != "" {
		if _, err = fmt.Fprintf(out, "%s\n\n", doc); err != nil {
			return err
		}
	}
	if _, err = fmt.Fprintf(out, "Options:\n"); err != nil {
		return err
	}

	tabw := tabwriter.NewWriter(out, 8, 0, 1, ' ', 0)
	fs.VisitAll(func(f *flag.Flag) {
		if err != nil {
			return
		}
		if f.Usage == "" {
			// Hidden flag.
			return
		}
		fv, ok := f.Value.(*flagValue)
		switch {
		case !ok:
			_, err = fmt.Fprintf(tabw, " -%s\t", f.Name)
		case fv.IsBoolFlag():
			_, err = fmt.Fprintf(tabw, " -%s\t", f.Name)
		default:
			_, err = fmt.Fprintf(tabw, " -%s\t%s", f.Name, fv.f.Signature)
		}
		if err == nil {
			_, err = fmt.Fprintf(tabw, "\t%s", f.Usage)
		}
		if err == nil && f.DefValue != "" {
			_, err = fmt.Fprintf(tabw, " (default=%s)", f.DefValue)
		}
		if err == nil {
			_, err = fmt.Fprintln(tabw)
		}
	})
	if err != nil {
		return err
	}
	return tabw.Flush()
}
