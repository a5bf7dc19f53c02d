package model

import "time"

// SimpleReport is a summarized, human-readable simulation report.
// It extracts the key numbers and advisories from the full report.
//
// Design decision: We create a separate simplified report rather than just
// printing parts of SimulationReport because:
// 1. It provides a consistent, curated view of the most important results
// 2. It can be serialized to JSON for tools that want structured but simple output
// 3. It separates presentation concerns from computation
type SimpleReport struct {
	// NanoparticleID identifies the simulated formulation.
	NanoparticleID string `json:"nanoparticle_id"`

	// Name is the formulation label.
	Name string `json:"name"`

	// DrugPayload is the carried drug identifier.
	DrugPayload string `json:"drug_payload"`

	// DrugNotes is free text from the drug's configured dosing profile.
	DrugNotes string `json:"drug_notes,omitempty"`

	// TargetTissue is the delivery target.
	TargetTissue Tissue `json:"target_tissue"`

	// DoseMg is the administered dose in milligrams.
	DoseMg float64 `json:"dose_mg"`

	// DateSimulated is when the simulation was performed.
	DateSimulated time.Time `json:"date_simulated"`

	// === Biodistribution ===

	// TargetFraction is the dose fraction reaching the target tissue.
	TargetFraction float64 `json:"target_fraction"`

	// ClearedFraction is the dose fraction cleared or excreted.
	ClearedFraction float64 `json:"cleared_fraction"`

	// Accumulation lists per-tissue results in stable display order.
	Accumulation []TissueAccumulation `json:"accumulation,omitempty"`

	// === Pharmacokinetics ===

	// CmaxUgMl is the peak concentration in ug/mL.
	CmaxUgMl float64 `json:"cmax_ug_ml"`

	// TmaxH is the time of peak concentration in hours.
	TmaxH float64 `json:"tmax_h"`

	// AUCUgHMl is the exposure area under the curve in ug*h/mL.
	AUCUgHMl float64 `json:"auc_ug_h_ml"`

	// HalfLifeH is the elimination half-life in hours.
	HalfLifeH float64 `json:"half_life_h"`

	// === Safety ===

	// SafetyScore is the 0-100 safety score; higher is safer.
	SafetyScore float64 `json:"safety_score"`

	// RiskText is the qualitative risk level.
	RiskText string `json:"risk_text"`

	// Findings contains the advisory findings with their full text.
	Findings []Finding `json:"findings,omitempty"`

	// HighCount is the number of high-risk findings.
	HighCount int `json:"high_count"`

	// ModerateCount is the number of moderate-risk findings.
	ModerateCount int `json:"moderate_count"`

	// LowCount is the number of low-risk findings.
	LowCount int `json:"low_count"`

	// Error contains any error message if the simulation failed.
	Error string `json:"error,omitempty"`
}

// TissueAccumulation is one row of the biodistribution breakdown.
type TissueAccumulation struct {
	// Tissue is the tissue name.
	Tissue Tissue `json:"tissue"`

	// Fraction is the accumulated fraction of dose in [0, 1].
	Fraction float64 `json:"fraction"`

	// AmountMg is the absolute accumulated amount in milligrams.
	AmountMg float64 `json:"amount_mg"`
}

// Finding represents a single advisory finding in the simple report.
type Finding struct {
	// Type is the finding type identifier, mapping into the advisory table.
	Type string `json:"type"`

	// Level is the risk level of the finding.
	Level RiskLevel `json:"level"`

	// LevelText is the human-readable risk level.
	LevelText string `json:"level_text"`

	// Impact explains what this finding means for the formulation.
	Impact string `json:"impact,omitempty"`

	// Recommendation provides guidance on how to address the finding.
	Recommendation string `json:"recommendation,omitempty"`
}

// NewSimpleReport creates a SimpleReport from a SimulationReport.
// Estimator results that were not computed are left at their zero values.
func NewSimpleReport(report *SimulationReport) *SimpleReport {
	simple := &SimpleReport{
		TargetTissue:  report.TargetTissue,
		DoseMg:        report.DoseMg,
		DateSimulated: report.DateSimulated,
	}

	if report.Nanoparticle != nil {
		simple.NanoparticleID = report.Nanoparticle.ID
		simple.Name = report.Nanoparticle.Name
		simple.DrugPayload = report.Nanoparticle.DrugPayload
	}

	if report.Error != nil {
		simple.Error = report.Error.Error()
	}

	simple.collectBiodistribution(report.Biodistribution)
	simple.collectPharmacokinetics(report.Pharmacokinetics)
	simple.collectSafety(report.Safety)

	return simple
}

// collectBiodistribution copies the per-tissue breakdown in stable order.
func (s *SimpleReport) collectBiodistribution(profile *BiodistributionProfile) {
	if profile == nil {
		return
	}

	s.TargetFraction = profile.TargetFraction
	s.ClearedFraction = profile.ClearedFraction

	for _, tissue := range Tissues() {
		fraction, ok := profile.Fractions[tissue]
		if !ok {
			continue
		}
		s.Accumulation = append(s.Accumulation, TissueAccumulation{
			Tissue:   tissue,
			Fraction: fraction,
			AmountMg: fraction * profile.DoseMg,
		})
	}
}

// collectPharmacokinetics copies the headline PK metrics.
func (s *SimpleReport) collectPharmacokinetics(profile *PharmacokineticsProfile) {
	if profile == nil {
		return
	}
	s.CmaxUgMl = profile.CmaxUgMl
	s.TmaxH = profile.TmaxH
	s.AUCUgHMl = profile.AUCUgHMl
	s.HalfLifeH = profile.HalfLifeH
}

// collectSafety copies the score and expands finding types into full
// advisory entries, counting them by risk level.
func (s *SimpleReport) collectSafety(assessment *SafetyAssessment) {
	if assessment == nil {
		return
	}

	s.SafetyScore = assessment.Score
	s.RiskText = assessment.Risk.String()

	for _, findingType := range assessment.Findings {
		info := GetFindingInfo(findingType)
		s.Findings = append(s.Findings, Finding{
			Type:           findingType,
			Level:          info.Level,
			LevelText:      info.Level.String(),
			Impact:         info.Impact,
			Recommendation: info.Recommendation,
		})

		switch info.Level {
		case RiskHigh:
			s.HighCount++
		case RiskModerate:
			s.ModerateCount++
		default:
			s.LowCount++
		}
	}
}

// FindingsByLevel returns all findings at the given risk level,
// preserving their original order.
func (s *SimpleReport) FindingsByLevel(level RiskLevel) []Finding {
	var findings []Finding
	for _, f := range s.Findings {
		if f.Level == level {
			findings = append(findings, f)
		}
	}
	return findings
}

// TotalFindings returns the number of advisory findings.
func (s *SimpleReport) TotalFindings() int {
	return len(s.Findings)
}

// HasFindings reports whether any advisory findings were raised.
func (s *SimpleReport) HasFindings() bool {
	return len(s.Findings) > 0
}
