// Package constructs provides persistence and ambient helpers for wrapped
// control objects: JSON, YAML, TOML and INI stores, config files with
// backups, layered loading from files, environment variables and command
// line flags, logging options and common field types.
package constructs
