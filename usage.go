package pexconfig

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// PathSeparator joins the names of nested fields in Usage.
const PathSeparator = "."

// Usage writes out the declared fields of the schema, nested ones included,
// with their type signature and documentation.
//
// If out is nil, it defaults to os.Stderr.
func Usage(s *Schema, out io.Writer) (err error) {
	if out == nil {
		out = os.Stderr
	}

	if doc := s.Doc(); doc != "" {
		if _, err = fmt.Fprintf(out, "%s\n\n", doc); err != nil {
			return err
		}
	}
	if _, err = fmt.Fprintf(out, "%s (%s):\n", s.Name(), s.Unit()); err != nil {
		return err
	}

	tabw := tabwriter.NewWriter(out, 8, 0, 1, ' ', 0)
	err = s.Walk(func(path []string, f *Field) error {
		name := strings.Join(path, PathSeparator)
		doc := f.Doc
		if f.Nested() {
			doc = fmt.Sprintf("%s (%s)", doc, f.Module)
		}
		_, err := fmt.Fprintf(tabw, " %s\t%s\t%s\n", name, f.Type, doc)
		return err
	})
	if err != nil {
		return err
	}
	return tabw.Flush()
}
