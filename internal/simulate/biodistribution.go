package simulate

import (
	"fmt"
	"math"

	"github.com/nanomedlab/nanomed/internal/model"
)

// EstimateBiodistribution computes the steady-state fractional accumulation
// of the dose across all tracked tissues.
//
// The fraction for each tissue is its baseline affinity modulated
// multiplicatively by a size factor, a charge factor, a material exposure
// factor, and (for tissues matched by the formulation's targeting ligand) a
// fixed receptor-mediated enhancement. Every fraction is clamped to [0, 1]
// and the breakdown is rescaled if its sum would exceed 1, so the profile
// always accounts for at most the whole dose.
//
// Returns ErrUnknownTissue if the target tissue has no affinity entry.
func EstimateBiodistribution(np *model.Nanoparticle, target model.Tissue, doseMg float64) (*model.BiodistributionProfile, error) {
	return EstimateBiodistributionAt(np, target, doseMg, 0)
}

// EstimateBiodistributionAt is EstimateBiodistribution evaluated at a given
// post-dose time. When timeH is positive, every fraction is scaled by the
// saturating uptake curve 1-e^(-t/tau); timeH of zero means steady state.
func EstimateBiodistributionAt(np *model.Nanoparticle, target model.Tissue, doseMg, timeH float64) (*model.BiodistributionProfile, error) {
	if _, ok := baselineAffinity[target]; !ok {
		return nil, fmt.Errorf("%q: %w", target, ErrUnknownTissue)
	}

	uptake := 1.0
	if timeH > 0 {
		uptake = 1 - math.Exp(-timeH/UptakeTauH)
	}

	fractions := make(map[model.Tissue]float64, len(baselineAffinity))
	var sum float64
	for _, tissue := range model.Tissues() {
		baseline, ok := baselineAffinity[tissue]
		if !ok {
			continue
		}

		f := baseline *
			sizeFactor(tissue, np.DiameterNm) *
			chargeFactor(tissue, np.SurfaceChargeMv) *
			materialExposure(tissue, np.Material)

		if LigandMatches(np.TargetingLigand, tissue) {
			f *= LigandEnhancement
		}

		f *= uptake
		f = clamp(f, 0, 1)

		fractions[tissue] = f
		sum += f
	}

	// Rescale so the breakdown never accounts for more than the whole dose.
	if sum > 1 {
		for tissue, f := range fractions {
			fractions[tissue] = f / sum
		}
		sum = 1
	}

	return &model.BiodistributionProfile{
		NanoparticleID:  np.ID,
		TargetTissue:    target,
		DoseMg:          doseMg,
		TargetFraction:  fractions[target],
		Fractions:       fractions,
		ClearedFraction: 1 - sum,
		LigandMatched:   LigandMatches(np.TargetingLigand, target),
	}, nil
}

// sizeFactor returns the multiplicative size modifier for a tissue.
//
// The shapes encode the documented size relationships:
//   - tumor: enhanced permeability favors particles under the EPR threshold,
//     with the advantage growing as diameter shrinks
//   - liver/spleen: RES capture grows with diameter
//   - kidney: renal filtration strongly favors particles near the threshold
//   - brain: the blood-brain barrier admits only the smallest particles
//
// Each curve is monotone in diameter over the valid range.
func sizeFactor(tissue model.Tissue, diameterNm float64) float64 {
	switch tissue {
	case model.TissueTumor:
		if diameterNm <= EPRThresholdNm {
			return 1.0 + 0.5*(EPRThresholdNm-diameterNm)/EPRThresholdNm
		}
		return EPRThresholdNm / diameterNm

	case model.TissueLiver, model.TissueSpleen:
		if diameterNm <= EPRThresholdNm {
			return 0.6 + 0.4*diameterNm/EPRThresholdNm
		}
		return 1.0 + 0.5*math.Min((diameterNm-EPRThresholdNm)/300.0, 1)

	case model.TissueKidney:
		switch {
		case diameterNm <= RenalThresholdNm:
			return 2.0
		case diameterNm <= 50:
			return 2.0 - 1.2*(diameterNm-RenalThresholdNm)/(50-RenalThresholdNm)
		default:
			return 0.8 * 50 / diameterNm
		}

	case model.TissueBrain:
		return clamp(1.2-diameterNm/EPRThresholdNm, 0.2, 1.2)

	default:
		return 1.0
	}
}

// chargeFactor returns the multiplicative charge modifier for a tissue.
//
// Within the neutral tolerance band the factor is 1. A strongly positive
// surface accelerates opsonization, shifting dose into the RES organs and
// away from everything else; a strongly negative surface has the same shape
// at a much smaller magnitude.
func chargeFactor(tissue model.Tissue, chargeMv float64) float64 {
	switch {
	case chargeMv > ChargeToleranceMv:
		excess := (chargeMv - ChargeToleranceMv) / (model.MaxSurfaceChargeMv - ChargeToleranceMv)
		if resTissues[tissue] {
			return 1 + 0.5*excess
		}
		return 1 - 0.4*excess

	case chargeMv < -ChargeToleranceMv:
		excess := (-chargeMv - ChargeToleranceMv) / (-model.MinSurfaceChargeMv - ChargeToleranceMv)
		if resTissues[tissue] {
			return 1 + 0.15*excess
		}
		return 1 - 0.1*excess

	default:
		return 1.0
	}
}

// materialExposure returns the multiplicative material modifier for a tissue.
// Persistent (non-biodegradable) materials circulate longer and end up
// concentrated in the RES organs; other tissues see only a marginal change.
func materialExposure(tissue model.Tissue, material model.Material) float64 {
	persistence, ok := materialPersistence[material]
	if !ok {
		// Validation upstream makes this unreachable; fall back to baseline
		// rather than panicking in a pure estimator.
		persistence = 1.0
	}
	if resTissues[tissue] {
		return 1 + 0.2*(persistence-1)
	}
	return 1 + 0.05*(persistence-1)
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
