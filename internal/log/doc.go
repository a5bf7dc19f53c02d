// Package log provides privacy-aware logging helpers built on log/slog.
//
// Treatment plans carry patient identifiers, and log output frequently ends
// up in shared places (CI logs, support tickets, aggregation services).
// PrivacyHandler wraps any slog.Handler and masks attribute values that
// look like patient identifiers or other protected health information
// before they reach the underlying handler.
//
// Typical usage:
//
//	logger := log.NewPrivacyLogger(os.Stderr, verbose)
//	logger.Info("treatment created", "treatment_id", id, "patient_id", pid)
//	// patient_id is written as ***REDACTED***
package log
