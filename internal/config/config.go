package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "nanomed"

	// DefaultDoseMg is the dose assumed by simulation commands when the
	// user gives none and the drug has no profile in the config file.
	// 5mg is a typical preclinical bolus for a small-animal model.
	DefaultDoseMg = 5.0

	// DefaultTimeHorizonH is the end of the reported concentration-time
	// curve in hours. 72 hours covers the elimination phase of even the
	// slowest-clearing formulations modeled here.
	DefaultTimeHorizonH = 72.0
)

// Config holds all configuration options for nanomed.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would add
// complexity without significant benefit.
type Config struct {
	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable
	// format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .nanomed in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// DoseMg is the dose requested on the command line in milligrams.
	// Zero means fall back to the drug profile or DefaultDoseMg.
	DoseMg float64

	// DrugProfiles holds per-drug dosing profiles loaded from the config
	// file. Populated by LoadConfigFile and consulted by the simulate and
	// optimize commands.
	DrugProfiles *File

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/nanomed on Linux).
	DBDir string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because the database directory default is non-zero. This also
// serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		DBDir: XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for nanomed.
// On Linux: ~/.local/share/nanomed
// On macOS: ~/Library/Application Support/nanomed
// On Windows: %LOCALAPPDATA%\nanomed
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for nanomed.
// On Linux: ~/.config/nanomed
// On macOS: ~/Library/Application Support/nanomed
// On Windows: %APPDATA%\nanomed
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each point
// of use to fail fast and provide clear error messages upfront. This is
// called once after CLI parsing, before any simulation begins.
func (c *Config) Validate() error {
	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.DBDir == "" {
		return ErrEmptyDBDir
	}

	return nil
}
