package model

// RiskLevel represents the qualitative toxicity risk of a formulation.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type RiskLevel int

const (
	// RiskLow indicates a well-tolerated formulation (safety score >= 70).
	RiskLow RiskLevel = iota

	// RiskModerate indicates a formulation needing dose caution (score 40-69).
	RiskModerate

	// RiskHigh indicates a formulation with substantial toxicity concerns (score < 40).
	RiskHigh
)

// Safety score thresholds for the qualitative risk mapping.
// The mapping is fixed: score >= LowRiskThreshold is low risk,
// score >= ModerateRiskThreshold is moderate, anything below is high.
const (
	LowRiskThreshold      = 70.0
	ModerateRiskThreshold = 40.0
)

// RiskLevelForScore maps a safety score (0-100, higher is safer) to its
// qualitative risk level using the fixed thresholds above.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= LowRiskThreshold:
		return RiskLow
	case score >= ModerateRiskThreshold:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// String returns a human-readable representation of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskModerate:
		return "MODERATE"
	case RiskHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// SafetyAssessment is the result of the safety scorer.
type SafetyAssessment struct {
	// Score is the safety score in [0, 100]; higher is safer.
	Score float64 `json:"score"`

	// Risk is the qualitative risk level derived from Score.
	Risk RiskLevel `json:"risk"`

	// RiskText is the human-readable risk level for serialization.
	RiskText string `json:"risk_text"`

	// DiameterPenalty is the score deduction for size outside the optimal band.
	DiameterPenalty float64 `json:"diameter_penalty"`

	// ChargePenalty is the score deduction for charge outside the neutral band.
	ChargePenalty float64 `json:"charge_penalty"`

	// MaterialPenalty is the fixed deduction for the carrier material.
	MaterialPenalty float64 `json:"material_penalty"`

	// TypePenalty is the fixed deduction for the particle class.
	TypePenalty float64 `json:"type_penalty"`

	// Findings lists the advisory finding types triggered by the assessment.
	// Each type maps to impact and recommendation text via GetFindingInfo.
	Findings []string `json:"findings,omitempty"`
}

// FindingInfo contains metadata about an advisory finding type: its risk
// level, what it means for the formulation, and what to change.
type FindingInfo struct {
	Level          RiskLevel
	Impact         string
	Recommendation string
}

// findingInfoMapping maps advisory finding types to their metadata.
// This centralized mapping keeps assessment text consistent across the
// simple, JSON, and Markdown report writers.
//
// Design decision: We use a map rather than embedding the text in the scorer
// because it provides a single source of truth for advisory wording and makes
// it easy to render a findings reference table.
var findingInfoMapping = map[string]FindingInfo{
	"diameter_below_optimal": {
		Level:          RiskModerate,
		Impact:         "Particles below the optimal size band are rapidly cleared and can penetrate unintended tissues.",
		Recommendation: "Increase the particle diameter toward the 50-150nm band to extend circulation time.",
	},
	"diameter_above_optimal": {
		Level:          RiskModerate,
		Impact:         "Particles above the optimal size band are captured by liver and spleen before reaching the target.",
		Recommendation: "Reduce the particle diameter toward the 50-150nm band to limit reticuloendothelial capture.",
	},
	"charge_strong_positive": {
		Level:          RiskHigh,
		Impact:         "Strongly cationic surfaces disrupt cell membranes and carry hemolysis and cytotoxicity risk.",
		Recommendation: "Shield the surface (e.g., PEGylation) or reformulate toward a near-neutral zeta potential.",
	},
	"charge_strong_negative": {
		Level:          RiskLow,
		Impact:         "Strongly anionic surfaces increase opsonization and shorten circulation time.",
		Recommendation: "Moderate the surface charge toward the neutral tolerance band.",
	},
	"material_slow_clearance": {
		Level:          RiskModerate,
		Impact:         "Non-biodegradable carrier material persists in tissue and accumulates with repeat dosing.",
		Recommendation: "Prefer a biodegradable carrier (lipid, PLGA, PLA) or lengthen the dosing interval.",
	},
	"type_high_aspect_ratio": {
		Level:          RiskHigh,
		Impact:         "High-aspect-ratio carbon structures are associated with frustrated phagocytosis and inflammation.",
		Recommendation: "Use a spherical carrier class unless the geometry is essential to the application.",
	},
	"type_heavy_metal_core": {
		Level:          RiskModerate,
		Impact:         "Semiconductor cores can leach heavy metals as the surface coating degrades.",
		Recommendation: "Restrict quantum dots to imaging doses and verify coating stability.",
	},
	"res_size_regime": {
		Level:          RiskModerate,
		Impact:         "Particles above the EPR threshold are predominantly captured by liver and spleen macrophages.",
		Recommendation: "Reduce diameter below ~200nm if the target is outside the reticuloendothelial system.",
	},
	"renal_size_regime": {
		Level:          RiskLow,
		Impact:         "Particles near the renal filtration threshold clear within hours, limiting drug exposure.",
		Recommendation: "Increase diameter above ~8nm if sustained exposure is required.",
	},
	"no_targeting_ligand": {
		Level:          RiskLow,
		Impact:         "Without a targeting ligand, accumulation relies on passive distribution alone.",
		Recommendation: "Attach a ligand matched to the target tissue's receptor profile to boost uptake.",
	},
	"low_encapsulation": {
		Level:          RiskLow,
		Impact:         "Low encapsulation efficiency wastes drug and raises free-drug toxicity during preparation.",
		Recommendation: "Optimize the loading process or choose a carrier with higher affinity for the payload.",
	},
}

// GetFindingInfo returns the metadata for an advisory finding type.
// Returns a default FindingInfo with RiskLow if the type is not in the mapping.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Level:          RiskLow,
		Impact:         "Unknown finding type. Review manually.",
		Recommendation: "Investigate the finding and assess risk.",
	}
}
