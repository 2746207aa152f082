package constructs

import (
	"io"
	"log"
	"os"

	"github.com/comail/colog"
	humanize "github.com/dustin/go-humanize"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	pexconfig "github.com/LSST/pex-config"
)

// ConfigLog provides the options for the logging facility.
// The logger is based on CoLog (https://texlution.com/post/colog-prefix-based-logging-in-golang/):
// messages are leveled by their prefix, e.g. "debug: ".
type ConfigLog struct {
	Filename   string    `ctrl:"filename" doc:"file to write logs to (default=stderr)"`
	Level      string    `ctrl:"level" doc:"logging level (one of trace, debug, info, warning, error, alert)"`
	MaxSize    BytesSize `ctrl:"maxSize" doc:"maximum size of the log file before it gets rotated"`
	MaxAge     int       `ctrl:"maxAge" doc:"maximum number of days to retain old log files"`
	MaxBackups int       `ctrl:"maxBackups" doc:"maximum number of old log files to retain"`
	LocalTime  bool      `ctrl:"localTime" doc:"do not use UTC time for formatting the timestamps"`

	log *colog.CoLog
}

func init() {
	pexconfig.MustRegister("constructs.log", ConfigLog{})
}

// ConfigLogDefault represents sensible values for a default ConfigLog.
var ConfigLogDefault = ConfigLog{
	Level:      "error",
	MaxSize:    10 * humanize.MByte,
	MaxAge:     30,
	MaxBackups: 3,
	LocalTime:  true,
}

// SetDefaults makes ConfigLog implement pexconfig.Defaulter.
func (lg *ConfigLog) SetDefaults() { *lg = ConfigLogDefault }

// DescribeControl makes ConfigLog implement pexconfig.Describer.
func (*ConfigLog) DescribeControl() string { return "Logging options." }

// Validate makes ConfigLog implement wrap.Validator.
func (lg *ConfigLog) Validate() error {
	_, err := colog.ParseLevel(lg.Level)
	return err
}

// Init sets up the standard logger according to the options:
// leveled output to stderr or to a rotated file.
func (lg *ConfigLog) Init() error {
	lvl, err := colog.ParseLevel(lg.Level)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if lg.Filename != "" {
		// Rotation size is in megabytes.
		size := int(lg.MaxSize / humanize.MByte)
		if size < 1 {
			size = 1
		}
		out = &lumberjack.Logger{
			Filename:   lg.Filename,
			MaxSize:    size,
			MaxBackups: lg.MaxBackups,
			MaxAge:     lg.MaxAge,
			LocalTime:  lg.LocalTime,
		}
	}
	flags := log.Ldate | log.Ltime | log.Lshortfile
	if !lg.LocalTime {
		flags |= log.LUTC
	}
	lg.log = colog.NewCoLog(out, "", flags)
	lg.log.SetMinLevel(lvl)

	// Disable default settings by the log library and register colog.
	log.SetPrefix("")
	log.SetFlags(0)
	log.SetOutput(lg.log)

	return nil
}
