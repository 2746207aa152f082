package wrap

import "errors"

// Option is used to customize a ConfigType.
type Option func(*ConfigType) error

// OptionName sets the name of the config type.
func OptionName(name string) Option {
	return func(ct *ConfigType) error {
		if name == "" {
			return errors.New("empty config type name")
		}
		ct.name = name
		return nil
	}
}

// OptionDoc sets the documentation of the config type.
func OptionDoc(doc string) Option {
	return func(ct *ConfigType) error {
		ct.doc = doc
		return nil
	}
}
