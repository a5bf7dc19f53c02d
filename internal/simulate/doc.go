// Package simulate implements the deterministic estimation core: the models
// that turn a nanoparticle's physical parameters into biodistribution
// fractions, a pharmacokinetic profile, a safety score, and an optimized
// formulation recommendation.
//
// This package contains the following estimators:
//   - EstimateBiodistribution: per-tissue accumulated dose fractions
//   - EstimatePharmacokinetics: one-compartment concentration-time model
//   - AssessSafety: 0-100 toxicity score with advisory findings
//   - Optimize: bounded grid search for a target drug/tissue pair
//
// Every estimator is a pure, synchronous function of its inputs. The only
// shared state is the set of package-level lookup tables in tables.go, which
// are read-only after initialization, so concurrent invocation from any
// number of goroutines is safe without locking.
//
// The numeric constants encode qualitative pharmacological relationships
// (smaller particles favor tumor penetration and renal clearance, larger
// particles favor liver/spleen capture, strong positive charge raises
// toxicity, targeting ligands boost receptor-mediated uptake); no clinical
// accuracy is claimed.
package simulate
