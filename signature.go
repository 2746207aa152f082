package pexconfig

import (
	"fmt"
	"reflect"
)

// Signature returns the type signature of t as it is written in the source
// of package pkgPath: named types of that package are not qualified.
//
//	Signature(reflect.TypeOf([]foo.Bar{}), "example.com/foo") == "[]Bar"
func Signature(t reflect.Type, pkgPath string) string {
	if t.Name() != "" {
		if t.PkgPath() == "" || t.PkgPath() == pkgPath {
			return t.Name()
		}
		return t.String()
	}
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + Signature(t.Elem(), pkgPath)
	case reflect.Slice:
		return "[]" + Signature(t.Elem(), pkgPath)
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), Signature(t.Elem(), pkgPath))
	case reflect.Map:
		return "map[" + Signature(t.Key(), pkgPath) + "]" + Signature(t.Elem(), pkgPath)
	}
	return t.String()
}

// signatureMatches reports whether sig names t, either fully qualified
// or relative to pkgPath.
func signatureMatches(sig string, t reflect.Type, pkgPath string) bool {
	return sig == t.String() || sig == Signature(t, pkgPath)
}
