// Package wrap builds dynamic configuration types from registered control
// objects.
//
// A ConfigType mirrors the declared fields of a pexconfig.Schema. Its Config
// instances hold their values by field name, are initialized from the
// control object defaults, and convert back and forth with control objects:
//
//	ct, err := wrap.MakeConfigType(schema)
//	cfg, err := ct.New(map[string]interface{}{"threshold": 3.0})
//	ctrl, err := cfg.MakeControl()
//
// Supported field types are bool, the signed and unsigned integers, the
// floats, string, time.Duration, the types implementing both
// encoding.TextMarshaler and encoding.TextUnmarshaler, and slices of those.
// Nested control objects become nested Configs.
//
// All fields are optional: a field set to nil is ignored by MakeControl and
// keeps the default of the control object.
package wrap
