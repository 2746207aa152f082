package constructs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pexconfig "github.com/LSST/pex-config"
)

// ErrUnknownFormat is returned for config file formats without a Store.
var ErrUnknownFormat = errors.New("unknown config file format")

// DefaultFormat is used when the format cannot be guessed from the file name.
const DefaultFormat = "toml"

// ConfigFile describes the config file handled by Load.
// Embed it in a control object as a nested field, e.g.:
//
//	File constructs.ConfigFile `ctrl:"file" doc:"config file" module:"constructs.file"`
type ConfigFile struct {
	// If no name is specified, no file is loaded and stdout is used
	// if Save is true.
	Name string `ctrl:"name" doc:"config file name (default=stdout)"`
	// The config file is first renamed with this extension before being
	// overwritten. Leave empty to disable.
	Backup string `ctrl:"backup" doc:"config file backup extension"`
	Save   bool   `ctrl:"save" doc:"save the config to file"`
	// Guessed from the file name extension if empty.
	Format string `ctrl:"format" doc:"config file format (json, yaml, toml or ini)"`
}

func init() {
	pexconfig.MustRegister("constructs.file", ConfigFile{})
}

// DescribeControl makes ConfigFile implement pexconfig.Describer.
func (*ConfigFile) DescribeControl() string { return "Config file options." }

// format returns the normalized file format.
func (c *ConfigFile) format() string {
	format := c.Format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(c.Name), ".")
	}
	if format == "" {
		return DefaultFormat
	}
	return strings.ToLower(format)
}

// Store returns an empty Store for the file format.
func (c *ConfigFile) Store() (Store, error) {
	return NewStore(c.format())
}

// NewStore returns an empty Store for the given format.
func NewStore(format string) (Store, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSON(), nil
	case "yaml", "yml":
		return NewYAML(), nil
	case "toml":
		return NewTOML(), nil
	case "ini":
		return NewINI(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

// Load returns an io.ReadCloser if the Name is set and the file exists.
// A missing file is not an error if the config is to be saved.
func (c *ConfigFile) Load() (io.ReadCloser, error) {
	if c.Name == "" {
		return nil, nil
	}
	f, err := os.Open(c.Name)
	if err != nil {
		if os.IsNotExist(err) && c.Save {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

// Write returns an io.WriteCloser if the Save flag is set to true.
// If the Name is empty, it defaults to stdout.
// If the backup extension is set, the file is first renamed with it,
// then a new one is created and returned.
func (c *ConfigFile) Write() (io.WriteCloser, error) {
	if !c.Save {
		return nil, nil
	}

	if c.Name == "" {
		return &nopCloser{os.Stdout}, nil
	}
	if c.Backup != "" {
		bname := c.Name + c.Backup
		if err := os.Rename(c.Name, bname); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}
	return os.Create(c.Name)
}

// Wrap the given Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (*nopCloser) Close() error { return nil }
