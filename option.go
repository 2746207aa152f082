package pexconfig

import (
	"errors"
	"log"
)

// Option is used to customize a Registry.
type Option func(*Registry) error

// OptionTag sets the struct tag used to declare control fields.
//
// If not set, it defaults to TagID.
func OptionTag(id string) Option {
	return func(r *Registry) error {
		if id == "" {
			return errors.New("empty tag id")
		}
		r.tagID = id
		return nil
	}
}

// OptionLogger sets the logger reporting registrations.
// Messages are prefixed with their level for use with CoLog.
//
// If nil, nothing is logged.
func OptionLogger(l *log.Logger) Option {
	return func(r *Registry) error {
		r.log = l
		return nil
	}
}
