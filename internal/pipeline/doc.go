// Package pipeline orchestrates the estimation steps that make up one
// simulation run.
//
// A simulation is a sequence of independent estimators (safety assessment,
// biodistribution, pharmacokinetics) that each fill in part of a shared
// model.SimulationReport. The Pipeline executes them in order with
// structured logging and context cancellation; the BatchProcessor runs
// the same pipeline concurrently over many candidate formulations, which
// is how the optimizer's shortlist and the compare command are evaluated.
package pipeline
