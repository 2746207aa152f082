// Command ctrlgen generates the accessor methods declaring the fields of
// control object types.
//
// For each field tagged with the ctrl tag, it emits the Doc<Field>,
// Type<Field> and, for nested control objects, Module<Field> methods into
// a separate file, so that the declarations are available from the method
// set of the type.
//
//	ctrlgen -file control.go [-output control_ctrl.go] [-types FooControl,BarControl]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	pexconfig "github.com/LSST/pex-config"
	"github.com/LSST/pex-config/constructs"
	"github.com/LSST/pex-config/wrap"
)

// Set with -ldflags "-X main.version=..." etc.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

type options struct {
	File   string                `ctrl:"file" doc:"Go source file holding the control types"`
	Output string                `ctrl:"output" doc:"generated file (default=<file>_ctrl.go)"`
	Types  []string              `ctrl:"types" doc:"control types to process (default=all declaring fields)"`
	Tag    string                `ctrl:"tag" doc:"struct tag declaring the fields"`
	Log    constructs.ConfigLog  `ctrl:"log" doc:"logging" module:"constructs.log"`
	Config constructs.ConfigFile `ctrl:"config" doc:"ctrlgen config file" module:"constructs.file"`

	constructs.BuildInfo `ctrl:",inline"`
}

func (o *options) SetDefaults() {
	o.Tag = pexconfig.TagID
	o.Log.Level = "info"
}

func (o *options) Validate() error {
	if o.File == "" && !o.Show {
		return errors.New("missing source file")
	}
	return nil
}

// DescribeControl makes options implement pexconfig.Describer.
func (*options) DescribeControl() string {
	return "ctrlgen generates the accessor methods of control object types."
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "ctrlgen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	s, err := pexconfig.Register("ctrlgen", options{})
	if err != nil {
		return err
	}
	ct, err := wrap.MakeConfigType(s, wrap.OptionName("ctrlgen"))
	if err != nil {
		return err
	}
	c, err := ct.New(nil)
	if err != nil {
		return err
	}
	if _, err := constructs.Load(c,
		constructs.OptionArgs(args),
		constructs.OptionEnv("ctrlgen"),
		constructs.OptionFlagsWriter(stderr),
	); err != nil {
		return err
	}
	ctrl, err := c.MakeControl()
	if err != nil {
		return err
	}
	opts := ctrl.(*options)

	opts.Data = constructs.BuildData{Version: version, Commit: commit, BuildTime: buildTime}
	if shown, err := opts.BuildInfo.Init(stdout); err != nil || shown {
		return err
	}
	if err := opts.Log.Init(); err != nil {
		return err
	}

	src, err := os.ReadFile(opts.File)
	if err != nil {
		return err
	}
	gen := &Generator{Tag: opts.Tag, Types: opts.Types}
	out, err := gen.Generate(opts.File, src)
	if err != nil {
		return err
	}

	output := opts.Output
	if output == "" {
		output = strings.TrimSuffix(opts.File, ".go") + "_ctrl.go"
	}
	if err := os.WriteFile(output, out, 0644); err != nil {
		return err
	}
	log.Printf("info: wrote %s", output)
	return nil
}
