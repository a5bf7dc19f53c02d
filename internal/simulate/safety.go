package simulate

import "github.com/nanomedlab/nanomed/internal/model"

// Safety scoring slopes and caps. Each penalty grows proportionally with
// distance outside its tolerance band up to a fixed cap, so no single
// dimension can zero the score on its own.
const (
	// diameterBelowSlope penalizes each nm under the optimal band.
	// Undersized particles lose score faster because the band is narrow below.
	diameterBelowSlope = 0.4

	// diameterAboveSlope penalizes each nm over the optimal band.
	diameterAboveSlope = 0.1

	// diameterPenaltyCap bounds the diameter penalty.
	diameterPenaltyCap = 30.0

	// chargePositiveSlope penalizes each mV of positive charge beyond the
	// tolerance band. Steeper than the negative slope: cationic surfaces
	// carry hemolysis and cytotoxicity risk that anionic surfaces do not.
	chargePositiveSlope = 0.9

	// chargeNegativeSlope penalizes each mV of negative charge beyond the
	// tolerance band.
	chargeNegativeSlope = 0.5

	// chargePositiveCap and chargeNegativeCap bound the charge penalties.
	chargePositiveCap = 36.0
	chargeNegativeCap = 20.0

	// strongChargeMv is the magnitude beyond which a charge advisory
	// finding is raised in addition to the score penalty.
	strongChargeMv = 25.0

	// lowEncapsulationPct is the loading efficiency below which an
	// advisory finding is raised.
	lowEncapsulationPct = 50.0
)

// AssessSafety computes the 0-100 safety score for a formulation
// (higher is safer) together with its qualitative risk level and the
// advisory findings explaining each deduction.
//
// The score starts at 100 and subtracts a diameter penalty (distance outside
// the 50-150nm optimal band), a charge penalty (distance outside the +/-10mV
// neutral band, steeper on the positive side), and fixed material and
// particle-class penalties. The result is clamped to [0, 100].
//
// AssessSafety never fails: the nanoparticle's fields are guaranteed valid
// by construction, and every penalty table covers its closed enumeration.
func AssessSafety(np *model.Nanoparticle) *model.SafetyAssessment {
	assessment := &model.SafetyAssessment{
		DiameterPenalty: diameterPenalty(np.DiameterNm),
		ChargePenalty:   chargePenalty(np.SurfaceChargeMv),
		MaterialPenalty: materialPenalty[np.Material],
		TypePenalty:     typePenalty[np.Type],
	}

	score := 100.0 -
		assessment.DiameterPenalty -
		assessment.ChargePenalty -
		assessment.MaterialPenalty -
		assessment.TypePenalty

	assessment.Score = clamp(score, 0, 100)
	assessment.Risk = model.RiskLevelForScore(assessment.Score)
	assessment.RiskText = assessment.Risk.String()
	assessment.Findings = collectFindings(np)

	return assessment
}

// diameterPenalty returns the score deduction for a diameter outside the
// optimal band, proportional to the distance and capped.
func diameterPenalty(diameterNm float64) float64 {
	switch {
	case diameterNm < OptimalMinNm:
		return clamp((OptimalMinNm-diameterNm)*diameterBelowSlope, 0, diameterPenaltyCap)
	case diameterNm > OptimalMaxNm:
		return clamp((diameterNm-OptimalMaxNm)*diameterAboveSlope, 0, diameterPenaltyCap)
	default:
		return 0
	}
}

// chargePenalty returns the score deduction for a surface charge outside the
// neutral tolerance band. The penalty is strictly non-decreasing in |charge|,
// with a steeper slope on the positive side.
func chargePenalty(chargeMv float64) float64 {
	switch {
	case chargeMv > ChargeToleranceMv:
		return clamp((chargeMv-ChargeToleranceMv)*chargePositiveSlope, 0, chargePositiveCap)
	case chargeMv < -ChargeToleranceMv:
		return clamp((-chargeMv-ChargeToleranceMv)*chargeNegativeSlope, 0, chargeNegativeCap)
	default:
		return 0
	}
}

// collectFindings returns the advisory finding types triggered by the
// formulation, in a stable order.
func collectFindings(np *model.Nanoparticle) []string {
	var findings []string

	switch {
	case np.DiameterNm < RenalThresholdNm:
		findings = append(findings, "renal_size_regime")
	case np.DiameterNm < OptimalMinNm:
		findings = append(findings, "diameter_below_optimal")
	case np.DiameterNm > EPRThresholdNm:
		findings = append(findings, "res_size_regime")
	case np.DiameterNm > OptimalMaxNm:
		findings = append(findings, "diameter_above_optimal")
	}

	switch {
	case np.SurfaceChargeMv > strongChargeMv:
		findings = append(findings, "charge_strong_positive")
	case np.SurfaceChargeMv < -strongChargeMv:
		findings = append(findings, "charge_strong_negative")
	}

	if !np.Material.Biodegradable() {
		findings = append(findings, "material_slow_clearance")
	}

	switch np.Type {
	case model.ParticleCarbonNanotube:
		findings = append(findings, "type_high_aspect_ratio")
	case model.ParticleQuantumDot:
		findings = append(findings, "type_heavy_metal_core")
	}

	if !np.HasLigand() {
		findings = append(findings, "no_targeting_ligand")
	}

	if np.EncapsulationPct < lowEncapsulationPct {
		findings = append(findings, "low_encapsulation")
	}

	return findings
}
