package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and LoadConfigFile and
// provide specific information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic error handling while still providing human-readable
// messages.
var (
	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrEmptyDBDir is returned when the database directory is empty.
	// Every command persists records, so a storage location is required.
	ErrEmptyDBDir = errors.New("database directory must not be empty")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
