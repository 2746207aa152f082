package wrap

import (
	"fmt"
	"os"
	"strings"
)

// EnvSep is the default separator of nested field names in environment variables.
const EnvSep = "_"

// EnvName returns the environment variable name of the field at path:
// the prefix and the path, uppercased and joined with sep.
func EnvName(prefix, sep string, path []string) string {
	name := strings.Join(path, sep)
	if prefix != "" {
		name = prefix + sep + name
	}
	return strings.ToUpper(name)
}

// LoadEnv sets the non nested fields of c from the environment variables
// named by EnvName, if they are defined.
// Fields sharing a variable name are rejected before any field is set.
func LoadEnv(c *Config, prefix, sep string) error {
	names := make(map[string][]string)
	err := c.Walk(func(path []string, f *Field, _ interface{}) error {
		envvar := EnvName(prefix, sep, path)
		if prev, ok := names[envvar]; ok {
			return fmt.Errorf("env %s: %w: %v and %v", envvar, ErrNameCollision, prev, path)
		}
		names[envvar] = path
		return nil
	})
	if err != nil {
		return err
	}

	return c.Walk(func(path []string, f *Field, _ interface{}) error {
		envvar := EnvName(prefix, sep, path)
		v, ok := os.LookupEnv(envvar)
		if !ok {
			return nil
		}
		if err := c.SetPath(v, path...); err != nil {
			return fmt.Errorf("env %s: %w", envvar, err)
		}
		return nil
	})
}
