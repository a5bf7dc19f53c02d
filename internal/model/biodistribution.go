package model

// BiodistributionProfile is the result of the biodistribution estimator for
// one (nanoparticle, tissue, dose) input.
//
// Fractions are of the administered dose and always lie in [0, 1]; the sum
// across all tracked tissues never exceeds 1. The remainder is assumed
// cleared or excreted.
type BiodistributionProfile struct {
	// NanoparticleID references the simulated formulation.
	NanoparticleID string `json:"nanoparticle_id"`

	// TargetTissue is the tissue the simulation was aimed at.
	TargetTissue Tissue `json:"target_tissue"`

	// DoseMg is the administered dose in milligrams.
	DoseMg float64 `json:"dose_mg"`

	// TargetFraction is the fraction of dose accumulated in the target tissue.
	TargetFraction float64 `json:"target_fraction"`

	// Fractions maps each tracked tissue to its accumulated fraction of dose.
	Fractions map[Tissue]float64 `json:"fractions"`

	// ClearedFraction is the fraction of dose cleared or excreted
	// (1 minus the sum of all tissue fractions).
	ClearedFraction float64 `json:"cleared_fraction"`

	// LigandMatched is true when the formulation's targeting ligand is
	// compatible with the target tissue's receptor profile.
	LigandMatched bool `json:"ligand_matched"`
}

// AmountMg returns the absolute drug amount accumulated in a tissue in mg.
// Returns zero for tissues not in the profile.
func (p *BiodistributionProfile) AmountMg(tissue Tissue) float64 {
	return p.Fractions[tissue] * p.DoseMg
}

// TotalAccumulated returns the sum of all tissue fractions.
func (p *BiodistributionProfile) TotalAccumulated() float64 {
	var sum float64
	for _, f := range p.Fractions {
		sum += f
	}
	return sum
}
