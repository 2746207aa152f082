package constructs

import (
	"io"
	"text/template"

	pexconfig "github.com/LSST/pex-config"
)

// BuildInfoMessage is the default template used to display the BuildInfo.
const BuildInfoMessage = "version {{.Version}} commit {{.Commit}} built on {{.BuildTime}}\n"

// BuildData is the build information of a binary.
type BuildData struct {
	Version   string
	Commit    string
	BuildTime string
}

// BuildInfo provides a way to display a binary build information.
// The Data part must be set during the binary initialization,
// typically by providing the info with the go linker into
// custom string variables and setting them to the Data fields.
type BuildInfo struct {
	Show bool `ctrl:"version" doc:"print version information and quit"`
	// Message is the template used to display Data.
	Message string
	Data    BuildData
}

func init() {
	pexconfig.MustRegister("constructs.buildinfo", BuildInfo{})
}

// Init displays the build information to w if requested.
// It reports whether it was displayed, in which case the caller
// is expected to quit.
func (bi *BuildInfo) Init(w io.Writer) (bool, error) {
	if !bi.Show {
		return false, nil
	}
	msg := bi.Message
	if msg == "" {
		msg = BuildInfoMessage
	}
	t, err := template.New("").Parse(msg)
	if err != nil {
		return false, err
	}
	if err := t.Execute(w, bi.Data); err != nil {
		return false, err
	}
	return true, nil
}
