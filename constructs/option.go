package constructs

import (
	"errors"
	"io"
)

// Option is used to customize the behaviour of Load.
type Option func(*loader) error

// OptionArgs sets the command line arguments to parse.
//
// If not set, it defaults to os.Args[1:].
func OptionArgs(args []string) Option {
	return func(ld *loader) error {
		ld.args = args
		return nil
	}
}

// OptionFlagsWriter sets the Writer for use when the usage is requested
// or a flag cannot be parsed.
//
// If nil, it defaults to os.Stderr.
func OptionFlagsWriter(w io.Writer) Option {
	return func(ld *loader) error {
		ld.fout = w
		return nil
	}
}

// OptionFlagsGroupSep defines the separator for nested config items in command line flags.
//
// If not set, it defaults to '-'.
func OptionFlagsGroupSep(sep rune) Option {
	return func(ld *loader) error {
		ld.gsep = string(sep)
		return nil
	}
}

// OptionEnv enables loading config items from environment variables
// starting with prefix.
func OptionEnv(prefix string) Option {
	return func(ld *loader) error {
		ld.env = true
		ld.prefix = prefix
		return nil
	}
}

// OptionEnvSep is used to separate nested config items in environment variables.
//
// If not set, it defaults to '_'.
func OptionEnvSep(sep rune) Option {
	return func(ld *loader) error {
		if sep == 0 {
			return errors.New("invalid environment separator")
		}
		ld.envsep = string(sep)
		return nil
	}
}
