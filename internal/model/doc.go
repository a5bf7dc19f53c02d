// Package model defines the core data structures used throughout nanomed.
//
// This package contains the following main types:
//   - Nanoparticle: A validated nanoparticle formulation record
//   - TreatmentPlan: A dosing plan referencing a nanoparticle
//   - BiodistributionProfile: Per-tissue accumulated dose fractions
//   - PharmacokineticsProfile: Concentration-time metrics and curve
//   - SafetyAssessment: Toxicity score, risk level, and advisory findings
//   - SimulationReport: The main simulation result structure
//   - SimpleReport: A summarized, human-readable report
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (simulate, report, database, pipeline) need
// to use these types, so centralizing them prevents import cycles.
//
// The fixed vocabularies (particle type, material, tissue, delivery route) are
// modeled as closed enumerations with Parse functions that reject unknown
// values at the boundary. Nothing downstream ever defaults an unrecognized
// value silently.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
