package simulate

import (
	"fmt"

	"github.com/nanomedlab/nanomed/internal/model"
)

// referenceDoseMg is the dose used to evaluate candidates during
// optimization. The objective compares fractions, which are independent of
// dose, so any positive value yields the same argmax.
const referenceDoseMg = 10.0

// Candidate grids for the bounded search. The grids are coarse by design:
// the estimators are smooth between grid points, and a small materialized
// candidate set keeps the search deterministic and fast.
var (
	candidateDiametersNm = []float64{20, 50, 80, 100, 120, 150, 200, 300, 400}
	candidateChargesMv   = []float64{-30, -20, -10, 0, 10, 20, 30}
)

// Recommendation is the optimizer's proposed parameter set for a
// drug/tissue pair, together with the predictions that selected it.
type Recommendation struct {
	// DrugPayload is the drug label the recommendation was made for.
	DrugPayload string `json:"drug_payload"`

	// TargetTissue is the delivery target.
	TargetTissue model.Tissue `json:"target_tissue"`

	// DiameterNm is the recommended particle diameter.
	DiameterNm float64 `json:"diameter_nm"`

	// SurfaceChargeMv is the recommended surface charge.
	SurfaceChargeMv float64 `json:"surface_charge_mv"`

	// Material is the recommended carrier material.
	Material model.Material `json:"material"`

	// ParticleType is the particle class implied by the material.
	ParticleType model.ParticleType `json:"type"`

	// TargetingLigand is the recommended ligand, empty if none helps.
	TargetingLigand string `json:"targeting_ligand,omitempty"`

	// Route is the preferred delivery route for the target tissue.
	Route model.Route `json:"route"`

	// PredictedFraction is the predicted dose fraction in the target tissue.
	PredictedFraction float64 `json:"predicted_fraction"`

	// SafetyScore is the predicted safety score of the recommendation.
	SafetyScore float64 `json:"safety_score"`

	// Objective is the composite score that selected this candidate:
	// predicted fraction times normalized safety score.
	Objective float64 `json:"objective"`
}

// Optimize proposes formulation parameters for delivering a drug to a target
// tissue by enumerating a materialized candidate grid (diameter x charge x
// material x compatible ligand) and selecting the candidate maximizing
// predicted target accumulation times normalized safety score.
//
// Ties are broken by preferring the material with the lower toxicity penalty,
// then the smaller diameter. The search is a pure enumerate-and-reduce over a
// fixed finite set, so results are deterministic.
//
// The drug payload is a label only; it does not influence the search.
// Returns ErrUnknownTissue if the target tissue has no affinity entry.
func Optimize(drugPayload string, target model.Tissue) (*Recommendation, error) {
	if _, ok := baselineAffinity[target]; !ok {
		return nil, fmt.Errorf("%q: %w", target, ErrUnknownTissue)
	}

	// The no-ligand candidate comes last so a matched ligand wins the tie
	// only through its objective uplift, never through ordering.
	ligands := append(CompatibleLigands(target), "")

	var best *Recommendation
	for _, material := range model.Materials() {
		for _, diameter := range candidateDiametersNm {
			for _, charge := range candidateChargesMv {
				for _, ligand := range ligands {
					candidate := evaluate(drugPayload, target, diameter, charge, material, ligand)
					if better(candidate, best) {
						best = candidate
					}
				}
			}
		}
	}

	return best, nil
}

// evaluate scores one candidate parameter combination.
func evaluate(drugPayload string, target model.Tissue, diameterNm, chargeMv float64, material model.Material, ligand string) *Recommendation {
	np := &model.Nanoparticle{
		Name:             "candidate",
		Type:             materialType[material],
		DiameterNm:       diameterNm,
		SurfaceChargeMv:  chargeMv,
		DrugPayload:      drugPayload,
		EncapsulationPct: model.DefaultEncapsulationPct,
		TargetingLigand:  ligand,
		Material:         material,
	}

	// The candidate grid lies inside the validated parameter space and the
	// target is already checked, so neither estimator can fail here.
	profile, err := EstimateBiodistribution(np, target, referenceDoseMg)
	if err != nil {
		return nil
	}
	assessment := AssessSafety(np)

	return &Recommendation{
		DrugPayload:       drugPayload,
		TargetTissue:      target,
		DiameterNm:        diameterNm,
		SurfaceChargeMv:   chargeMv,
		Material:          material,
		ParticleType:      materialType[material],
		TargetingLigand:   ligand,
		Route:             tissueRoute[target],
		PredictedFraction: profile.TargetFraction,
		SafetyScore:       assessment.Score,
		Objective:         profile.TargetFraction * assessment.Score / 100.0,
	}
}

// better reports whether candidate should replace best, applying the
// documented tie-breaking: higher objective, then lower material toxicity
// penalty, then smaller diameter.
func better(candidate, best *Recommendation) bool {
	if candidate == nil {
		return false
	}
	if best == nil {
		return true
	}
	if candidate.Objective != best.Objective {
		return candidate.Objective > best.Objective
	}
	if materialPenalty[candidate.Material] != materialPenalty[best.Material] {
		return materialPenalty[candidate.Material] < materialPenalty[best.Material]
	}
	return candidate.DiameterNm < best.DiameterNm
}
