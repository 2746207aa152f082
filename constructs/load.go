package constructs

import (
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/LSST/pex-config/wrap"
)

type loader struct {
	args   []string
	fout   io.Writer
	gsep   string
	env    bool
	prefix string
	envsep string
}

var configFileType = reflect.TypeOf(ConfigFile{})

// Load sets c from, by increasing priority: the config file, the environment
// variables (if enabled with OptionEnv) and the command line flags.
// Values not found in any of them are left untouched.
//
// The config file is described by the first ConfigFile nested in c, if any.
// Its own fields are never read from nor written to the file.
// If its Save field is set, the resulting config is written out.
//
// Load returns the non flag arguments, or flag.ErrHelp if the usage was
// requested. The config is validated last.
func Load(c *wrap.Config, options ...Option) ([]string, error) {
	ld := &loader{
		gsep:   wrap.FlagsGroupSep,
		envsep: wrap.EnvSep,
	}
	if len(os.Args) > 1 {
		ld.args = os.Args[1:]
	}
	for _, option := range options {
		if err := option(ld); err != nil {
			return nil, err
		}
	}

	// The config file options may be set by the env or the flags.
	pre := c.Copy()
	if _, err := ld.fromEnvFlags(pre); err != nil {
		return nil, err
	}
	skip, file, err := configFileOf(pre)
	if err != nil {
		return nil, err
	}
	if file != nil {
		if err := ld.fromFile(c, file, skip); err != nil {
			return nil, err
		}
	}

	args, err := ld.fromEnvFlags(c)
	if err != nil {
		return nil, err
	}

	if file != nil {
		if err := ld.toFile(c, file, skip); err != nil {
			return nil, err
		}
	}
	return args, c.Validate()
}

func (ld *loader) fromEnvFlags(c *wrap.Config) ([]string, error) {
	if ld.env {
		if err := wrap.LoadEnv(c, ld.prefix, ld.envsep); err != nil {
			return nil, err
		}
	}

	name := ""
	if len(os.Args) > 0 {
		name = os.Args[0]
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(ld.fout)
	if err := wrap.BindFlags(fs, c, ld.gsep); err != nil {
		return nil, err
	}
	fs.Usage = func() {
		_ = wrap.Usage(c.Type(), fs, fs.Output())
	}
	if err := fs.Parse(ld.args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

func (ld *loader) fromFile(c *wrap.Config, file *ConfigFile, skip []string) error {
	rc, err := file.Load()
	if err != nil {
		return err
	}
	if rc == nil {
		return nil
	}
	defer rc.Close()

	store, err := file.Store()
	if err != nil {
		return err
	}
	if _, err := store.ReadFrom(rc); err != nil {
		return fmt.Errorf("%s: %w", file.Name, err)
	}
	if err := decode(c, store, skip); err != nil {
		return fmt.Errorf("%s: %w", file.Name, err)
	}
	return nil
}

func (ld *loader) toFile(c *wrap.Config, file *ConfigFile, skip []string) error {
	if !file.Save {
		return nil
	}
	store, err := file.Store()
	if err != nil {
		return err
	}
	if err := encode(c, store, skip); err != nil {
		return err
	}
	wc, err := file.Write()
	if err != nil {
		return err
	}
	if _, err := store.WriteTo(wc); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

// configFileOf returns the path and the value of the first ConfigFile nested in c.
func configFileOf(c *wrap.Config) ([]string, *ConfigFile, error) {
	path, nc := nestedOf(c, configFileType, nil)
	if nc == nil {
		return nil, nil, nil
	}
	ctrl, err := nc.MakeControl()
	if err != nil {
		return nil, nil, err
	}
	return path, ctrl.(*ConfigFile), nil
}

// nestedOf looks up depth first the nested config holding control objects of type t.
func nestedOf(c *wrap.Config, t reflect.Type, path []string) ([]string, *wrap.Config) {
	for _, f := range c.Type().Fields() {
		if f.Kind != wrap.Nested {
			continue
		}
		v, err := c.Get(f.Name)
		if err != nil {
			continue
		}
		nc := v.(*wrap.Config)
		p := append(path[:len(path):len(path)], f.Name)
		if f.Nested.Schema().Type() == t {
			return p, nc
		}
		if np, found := nestedOf(nc, t, p); found != nil {
			return np, found
		}
	}
	return nil, nil
}
