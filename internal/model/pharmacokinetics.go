package model

import (
	"iter"
	"math"
)

// Curve sampling defaults. The concentration-time curve covers a fixed
// 72-hour horizon at 30-minute resolution.
const (
	// CurveHorizonH is the end of the sampled concentration-time curve in hours.
	CurveHorizonH = 72.0

	// CurveStepH is the sampling interval in hours.
	CurveStepH = 0.5

	// RateEpsilon is the threshold below which the absorption and elimination
	// rates are treated as equal. The standard one-compartment peak formula
	// divides by (ka - ke), so the degenerate case needs the limiting form.
	RateEpsilon = 1e-9
)

// Sample is a single point of the concentration-time curve.
type Sample struct {
	// TimeH is the time since dosing in hours.
	TimeH float64 `json:"time_h"`

	// ConcentrationUgMl is the plasma concentration in micrograms per milliliter.
	ConcentrationUgMl float64 `json:"concentration_ug_ml"`
}

// PharmacokineticsProfile is the result of the pharmacokinetics estimator:
// a one-compartment model parameterized by absorption and elimination rates.
//
// The profile is self-contained: given the stored rates, dose, and volume of
// distribution, ConcentrationAt reproduces the full curve deterministically,
// so the curve itself is never persisted.
type PharmacokineticsProfile struct {
	// NanoparticleID references the simulated formulation.
	NanoparticleID string `json:"nanoparticle_id"`

	// DoseMg is the administered dose in milligrams.
	DoseMg float64 `json:"dose_mg"`

	// AbsorptionRate is the first-order absorption rate constant ka (1/h).
	AbsorptionRate float64 `json:"absorption_rate"`

	// EliminationRate is the first-order elimination rate constant ke (1/h).
	EliminationRate float64 `json:"elimination_rate"`

	// VolumeMl is the volume of distribution in milliliters.
	VolumeMl float64 `json:"volume_ml"`

	// CmaxUgMl is the peak plasma concentration in micrograms per milliliter.
	CmaxUgMl float64 `json:"cmax_ug_ml"`

	// TmaxH is the time of peak concentration in hours.
	TmaxH float64 `json:"tmax_h"`

	// AUCUgHMl is the area under the concentration-time curve (ug*h/mL),
	// a proxy for total systemic exposure.
	AUCUgHMl float64 `json:"auc_ug_h_ml"`

	// HalfLifeH is the elimination half-life in hours.
	HalfLifeH float64 `json:"half_life_h"`
}

// ConcentrationAt evaluates the plasma concentration at time t hours after
// dosing, in micrograms per milliliter.
//
//	C(t) = dose*ka/(V*(ka-ke)) * (e^(-ke*t) - e^(-ka*t))
//
// When ka and ke coincide the expression above is 0/0; the limiting form
// C(t) = dose*ka*t*e^(-ka*t)/V is used instead.
func (p *PharmacokineticsProfile) ConcentrationAt(t float64) float64 {
	if t < 0 {
		return 0
	}

	doseUg := p.DoseMg * 1000.0
	ka, ke := p.AbsorptionRate, p.EliminationRate

	if math.Abs(ka-ke) < RateEpsilon {
		return doseUg * ka * t * math.Exp(-ka*t) / p.VolumeMl
	}

	c := doseUg * ka / (p.VolumeMl * (ka - ke)) * (math.Exp(-ke*t) - math.Exp(-ka*t))
	if c < 0 {
		// Floating point underflow near t=0 can produce tiny negatives.
		return 0
	}
	return c
}

// Curve returns the concentration-time curve as a lazy, finite, restartable
// sequence of samples over [0, CurveHorizonH] at CurveStepH resolution.
//
// Design decision: We expose an iterator rather than only a slice so callers
// that stream samples (report writers, plotting) don't pay for a materialized
// 145-element slice they may not need; Samples materializes it when a slice
// is more convenient.
func (p *PharmacokineticsProfile) Curve() iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for t := 0.0; t <= CurveHorizonH+RateEpsilon; t += CurveStepH {
			if !yield(Sample{TimeH: t, ConcentrationUgMl: p.ConcentrationAt(t)}) {
				return
			}
		}
	}
}

// Samples returns the materialized concentration-time curve.
func (p *PharmacokineticsProfile) Samples() []Sample {
	samples := make([]Sample, 0, int(CurveHorizonH/CurveStepH)+1)
	for s := range p.Curve() {
		samples = append(samples, s)
	}
	return samples
}
