// Package database provides SQLite-based persistence for nanoparticle
// formulations, treatment plans, biodistribution rows, and full simulation
// reports.
//
// The store is a collaborator of the estimation core, never a dependency of
// it: commands load records, hand them to the pure estimators in
// internal/simulate, and store what comes back. Reports are persisted as
// JSON alongside a small risk summary so history listings don't need to
// deserialize full reports.
//
// We use modernc.org/sqlite (pure Go) so the binary builds without cgo.
package database
