package main

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"log"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	pexconfig "github.com/LSST/pex-config"
)

var errMissingDoc = errors.New("missing doc")

// Generator emits the accessor methods declaring the fields of control
// object types, from their struct tags.
type Generator struct {
	// Tag is the struct tag declaring the fields.
	Tag string
	// Types restricts the generation to the named types.
	// If empty, every struct type with a declared field is processed.
	Types []string
}

type genField struct {
	GoName string
	Doc    string
	Type   string
	Module string
}

type genType struct {
	Name   string
	Fields []genField
}

var fileTmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).Parse(`// Code generated by ctrlgen. DO NOT EDIT.

package {{.Package}}
{{range $t := .Types}}{{range .Fields}}
func (*{{$t.Name}}) Doc{{.GoName}}() string { return {{quote .Doc}} }
{{if .Type}}
func (*{{$t.Name}}) Type{{.GoName}}() string { return {{quote .Type}} }
{{end}}{{if .Module}}
func (*{{$t.Name}}) Module{{.GoName}}() string { return {{quote .Module}} }
{{end}}{{end}}{{end}}`))

// Generate parses the Go source src and returns the formatted source of the
// accessor methods of its control object types.
func (g *Generator) Generate(filename string, src []byte) ([]byte, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	tag := g.Tag
	if tag == "" {
		tag = pexconfig.TagID
	}

	imps := importsOf(f)

	wanted := make(map[string]bool, len(g.Types))
	for _, name := range g.Types {
		wanted[name] = false
	}

	var gtypes []genType
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			name := ts.Name.Name
			if _, ok := wanted[name]; len(wanted) > 0 && !ok {
				continue
			}
			wanted[name] = true

			fields, err := structFields(st, tag, imps)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if len(fields) == 0 {
				continue
			}
			log.Printf("debug: %s: %d declared fields", name, len(fields))
			gtypes = append(gtypes, genType{Name: name, Fields: fields})
		}
	}
	for name, found := range wanted {
		if !found {
			return nil, fmt.Errorf("type %s not found in %s", name, filename)
		}
	}

	buf := new(bytes.Buffer)
	err = fileTmpl.Execute(buf, struct {
		Package string
		Types   []genType
	}{f.Name.Name, gtypes})
	if err != nil {
		return nil, err
	}
	return format.Source(buf.Bytes())
}

// imports records the import names of a file that reflect does not print.
type imports struct {
	// aliases holds the names of renamed imports.
	aliases map[string]bool
	dot     bool
}

func importsOf(f *ast.File) imports {
	imps := imports{aliases: make(map[string]bool)}
	for _, imp := range f.Imports {
		if imp.Name == nil {
			continue
		}
		switch name := imp.Name.Name; name {
		case "_":
		case ".":
			imps.dot = true
		default:
			imps.aliases[name] = true
		}
	}
	return imps
}

// ambiguous reports whether the type expression refers to a renamed or dot
// imported package, whose actual package name is unknown from the source.
func (imps imports) ambiguous(expr ast.Expr) bool {
	var found bool
	ast.Inspect(expr, func(n ast.Node) bool {
		if found {
			return false
		}
		switch x := n.(type) {
		case *ast.SelectorExpr:
			if id, ok := x.X.(*ast.Ident); ok && imps.aliases[id.Name] {
				found = true
			}
			// The selector itself is not a type name.
			return false
		case *ast.Ident:
			if imps.dot && types.Universe.Lookup(x.Name) == nil {
				found = true
			}
		}
		return true
	})
	return found
}

// structFields returns the fields of st declared with the tag.
// Type accessors are left out for types spelled through renamed or dot
// imports, unless set by a type tag.
func structFields(st *ast.StructType, tag string, imps imports) ([]genField, error) {
	var res []genField
	for _, field := range st.Fields.List {
		if field.Tag == nil || len(field.Names) == 0 {
			// Plain or embedded field.
			continue
		}
		s, err := strconv.Unquote(field.Tag.Value)
		if err != nil {
			return nil, err
		}
		stag := reflect.StructTag(s)
		v, ok := stag.Lookup(tag)
		if !ok || v == "-" {
			continue
		}
		if strings.Contains(v, ",inline") {
			continue
		}

		typ := stag.Get(pexconfig.TypeTag)
		if typ == "" {
			if imps.ambiguous(field.Type) {
				log.Printf("warning: %s: no type accessor for %s, set a type tag",
					field.Names[0].Name, types.ExprString(field.Type))
			} else {
				typ = types.ExprString(field.Type)
			}
		}
		for _, id := range field.Names {
			doc := stag.Get(pexconfig.DocTag)
			if doc == "" {
				return nil, fmt.Errorf("%s: %w", id.Name, errMissingDoc)
			}
			res = append(res, genField{
				GoName: id.Name,
				Doc:    doc,
				Type:   typ,
				Module: stag.Get(pexconfig.ModuleTag),
			})
		}
	}
	return res, nil
}
