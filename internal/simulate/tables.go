package simulate

import "github.com/nanomedlab/nanomed/internal/model"

// Size thresholds in nanometers. These anchor the qualitative size
// relationships: particles below the EPR threshold extravasate through leaky
// tumor vasculature, particles above it are captured by the
// reticuloendothelial system, and particles near the renal threshold are
// filtered by the kidneys within hours.
const (
	// RenalThresholdNm is the approximate renal filtration cutoff (~6-8nm).
	RenalThresholdNm = 8.0

	// EPRThresholdNm is the upper bound for enhanced permeability and
	// retention in tumor tissue.
	EPRThresholdNm = 200.0

	// OptimalMinNm and OptimalMaxNm bound the size band the safety scorer
	// treats as unpenalized.
	OptimalMinNm = 50.0
	OptimalMaxNm = 150.0
)

// ChargeToleranceMv is the half-width of the neutral band: surface charges
// within +/-10mV attract no charge modifier and no safety penalty.
const ChargeToleranceMv = 10.0

// LigandEnhancement is the fixed multiplier applied to a tissue's affinity
// when the formulation carries a ligand matched to that tissue's receptor
// profile (receptor-mediated uptake).
const LigandEnhancement = 1.6

// UptakeTauH is the time constant, in hours, of the saturating uptake curve
// used for time-resolved biodistribution estimates.
const UptakeTauH = 12.0

// baselineAffinity maps each tracked tissue to the fraction of an untargeted,
// unmodified dose it accumulates. The distribution is liver-dominated, as it
// is for essentially all systemically administered nanoparticles.
//
// Table values sum to 0.73; the remainder is cleared or excreted.
var baselineAffinity = map[model.Tissue]float64{
	model.TissueLiver:  0.30,
	model.TissueSpleen: 0.15,
	model.TissueKidney: 0.10,
	model.TissueLung:   0.08,
	model.TissueTumor:  0.05,
	model.TissueHeart:  0.03,
	model.TissueBrain:  0.02,
}

// resTissues marks the reticuloendothelial clearance organs, which respond
// oppositely to size and charge compared to every other tissue: what speeds
// clearance elsewhere increases accumulation here.
var resTissues = map[model.Tissue]bool{
	model.TissueLiver:  true,
	model.TissueSpleen: true,
}

// ligandTargets maps each recognized targeting ligand to the tissues whose
// receptor profile it matches. Ligand/tissue compatibility is static.
//
// "peg" is deliberately mapped to no tissue: PEGylation is a stealth coating
// that reduces opsonization rather than a receptor-targeting ligand.
var ligandTargets = map[string][]model.Tissue{
	"rgd_peptide": {model.TissueTumor},
	"folate":      {model.TissueTumor, model.TissueLung},
	"transferrin": {model.TissueBrain},
	"galactose":   {model.TissueLiver},
	"peg":         {},
}

// Ligands returns all recognized targeting ligands in a stable order.
func Ligands() []string {
	return []string{"rgd_peptide", "folate", "transferrin", "galactose", "peg"}
}

// LigandMatches reports whether the ligand is matched to the tissue's
// receptor profile. Unrecognized ligands match nothing.
func LigandMatches(ligand string, tissue model.Tissue) bool {
	for _, t := range ligandTargets[ligand] {
		if t == tissue {
			return true
		}
	}
	return false
}

// CompatibleLigands returns the recognized ligands matched to the tissue,
// in stable order.
func CompatibleLigands(tissue model.Tissue) []string {
	var out []string
	for _, ligand := range Ligands() {
		if LigandMatches(ligand, tissue) {
			out = append(out, ligand)
		}
	}
	return out
}

// materialPersistence maps each material to a half-life multiplier.
// Biodegradable carriers are the 1.0 baseline; non-biodegradable inorganics
// clear slower and accumulate.
var materialPersistence = map[model.Material]float64{
	model.MaterialLipid:     1.0,
	model.MaterialPLGA:      1.0,
	model.MaterialPLA:       1.0,
	model.MaterialChitosan:  1.0,
	model.MaterialSilica:    1.5,
	model.MaterialIronOxide: 1.6,
	model.MaterialGold:      2.0,
}

// materialPenalty maps each material to its fixed safety deduction,
// reflecting known biocompatibility: lipid and PLGA carriers are the
// best tolerated, slow-dissolving inorganics the worst.
var materialPenalty = map[model.Material]float64{
	model.MaterialLipid:     2,
	model.MaterialPLGA:      4,
	model.MaterialPLA:       5,
	model.MaterialChitosan:  8,
	model.MaterialGold:      12,
	model.MaterialIronOxide: 15,
	model.MaterialSilica:    18,
}

// typePenalty maps particle classes with structural toxicity concerns to
// their fixed safety deduction. Classes absent from the table are
// unpenalized.
var typePenalty = map[model.ParticleType]float64{
	model.ParticleCarbonNanotube: 20,
	model.ParticleQuantumDot:     12,
	model.ParticleMetallic:       6,
}

// routeAbsorptionRate maps each delivery route to its base first-order
// absorption rate constant in 1/h, before size scaling. IV is effectively
// immediate; topical is the slowest.
var routeAbsorptionRate = map[model.Route]float64{
	model.RouteIV:           6.0,
	model.RouteIntratumoral: 3.0,
	model.RouteInhalation:   1.5,
	model.RouteOral:         0.8,
	model.RouteTopical:      0.3,
}

// materialType maps each carrier material to the particle class a
// formulation built from it would most plausibly take. Used by the
// optimizer to complete its recommendation.
var materialType = map[model.Material]model.ParticleType{
	model.MaterialLipid:     model.ParticleLiposome,
	model.MaterialPLGA:      model.ParticlePolymeric,
	model.MaterialPLA:       model.ParticlePolymeric,
	model.MaterialChitosan:  model.ParticleDendrimer,
	model.MaterialGold:      model.ParticleMetallic,
	model.MaterialIronOxide: model.ParticleMetallic,
	model.MaterialSilica:    model.ParticleMetallic,
}

// tissueRoute maps each target tissue to the preferred delivery route.
// Pulmonary targets are reached directly by inhalation; everything else
// defaults to IV.
var tissueRoute = map[model.Tissue]model.Route{
	model.TissueLung:   model.RouteInhalation,
	model.TissueTumor:  model.RouteIV,
	model.TissueLiver:  model.RouteIV,
	model.TissueSpleen: model.RouteIV,
	model.TissueKidney: model.RouteIV,
	model.TissueBrain:  model.RouteIV,
	model.TissueHeart:  model.RouteIV,
}
