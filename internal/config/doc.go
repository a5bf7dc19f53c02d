// Package config defines the runtime configuration for nanomed.
//
// Configuration comes from three places, in increasing precedence:
//   - documented package defaults
//   - the optional .nanomed YAML file (per-drug dosing profiles)
//   - CLI flags
//
// The Config struct is populated once during command setup and passed through
// the application via dependency injection rather than global state. Paths
// follow the XDG Base Directory Specification.
package config
