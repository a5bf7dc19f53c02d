package model

import "time"

// SimulationReport is the main simulation result structure.
// It accumulates the output of every estimation step run for one
// (nanoparticle, target tissue, dose) input.
//
// Design decision: We use a single container struct rather than returning
// each estimator result separately so the pipeline, report writers, and
// database all share one serializable unit as the simulation result flows
// through the rest of the system.
type SimulationReport struct {
	// Nanoparticle is the simulated formulation.
	Nanoparticle *Nanoparticle `json:"nanoparticle"`

	// TargetTissue is the tissue the delivery is aimed at.
	TargetTissue Tissue `json:"target_tissue"`

	// DoseMg is the administered dose in milligrams.
	DoseMg float64 `json:"dose_mg"`

	// TimeH is the optional post-dose observation time in hours.
	// Zero means steady-state accumulation.
	TimeH float64 `json:"time_h,omitempty"`

	// DateSimulated is when the simulation was performed.
	DateSimulated time.Time `json:"date_simulated"`

	// Biodistribution holds the per-tissue dose fractions, when computed.
	Biodistribution *BiodistributionProfile `json:"biodistribution,omitempty"`

	// Pharmacokinetics holds the concentration-time metrics, when computed.
	Pharmacokinetics *PharmacokineticsProfile `json:"pharmacokinetics,omitempty"`

	// Safety holds the toxicity assessment, when computed.
	Safety *SafetyAssessment `json:"safety,omitempty"`

	// SimpleReport contains the summarized results for human-readable output.
	SimpleReport *SimpleReport `json:"simple_report,omitempty"`

	// PerformedSteps lists the pipeline steps that were executed.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error contains any error that occurred during simulation.
	Error error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewSimulationReport creates an empty report for the given input.
func NewSimulationReport(np *Nanoparticle, target Tissue, doseMg float64) *SimulationReport {
	return &SimulationReport{
		Nanoparticle:  np,
		TargetTissue:  target,
		DoseMg:        doseMg,
		DateSimulated: time.Now(),
	}
}
