// Package pexconfig lets plain Go structs, control objects, declare per field
// the metadata needed by another layer to rebuild a fully introspectable
// configuration type from them: a name, a type signature, a documentation
// and, for nested control objects, the unit owning the nested descriptors.
//
// Overview
//
// A control object is any struct type. Its fields are declared with tags:
//
//	type FooControl struct {
//		Threshold float64 `ctrl:"threshold" doc:"cut level"`
//		Names     []string `ctrl:"" type:"[]string" doc:"names to keep"`
//		Inner     BarControl `ctrl:"inner" module:"pkg.bar" doc:"bar options"`
//		cache     map[string]int
//	}
//
// The tag format is
//
//	`ctrl:"[<name>][,inline]" doc:"<doc>" [type:"<signature>"] [module:"<unit>"]`
//
// If the name is "-", the field is ignored. If it is empty, the Go field name
// with its first letter lowercased is used.
// Fields without a ctrl tag are plain fields, unless they are declared by
// accessor methods on the control type, following a fixed naming convention
// on the Go field name:
//
//	func (FooControl) DocThreshold() string  { return "cut level" }
//	func (FooControl) TypeThreshold() string { return "float64" }
//	func (FooControl) ModuleInner() string   { return "pkg.bar" }
//
// Those methods can be generated from the tags with cmd/ctrlgen.
// When both a tag and an accessor are set, they must agree.
//
// The following struct tag flags are currently supported:
//
//	inline       Lift the declared fields of an embedded struct
//	             into the control object.
//
// Registration
//
// Control object types are registered under a unit name with Register, which
// validates the declarations and returns their Schema. Validation fails fast:
//   - field names must be unique
//   - the type signature must match the field type, either fully qualified
//     or relative to the package of the control object
//   - the doc must not be empty
//   - nested fields must hold their control object by value and their unit
//     must already be registered with the same type
//
// Defaults
//
// A control object is default constructed by Schema.New: its zero value has
// the SetDefaults method of the Defaulter interface invoked, depth first, on
// itself and its struct fields. The resulting values are the declared
// defaults of the type.
//
// Concurrency
//
// Schemas never change once registered and can be read concurrently.
// Control object instances share no state.
package pexconfig
