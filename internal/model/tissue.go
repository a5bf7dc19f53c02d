package model

import "fmt"

// Tissue identifies a body tissue tracked by the biodistribution estimator.
type Tissue string

const (
	// TissueTumor is solid tumor tissue, reached via leaky vasculature (EPR effect).
	TissueTumor Tissue = "tumor"

	// TissueLiver is the dominant clearance organ for most nanoparticles.
	TissueLiver Tissue = "liver"

	// TissueSpleen filters larger particles via the reticuloendothelial system.
	TissueSpleen Tissue = "spleen"

	// TissueKidney clears particles below the renal filtration threshold.
	TissueKidney Tissue = "kidney"

	// TissueLung captures aggregates and is the target for inhaled delivery.
	TissueLung Tissue = "lung"

	// TissueBrain is shielded by the blood-brain barrier; accumulation is
	// minimal without an active transport ligand.
	TissueBrain Tissue = "brain"

	// TissueHeart sees only incidental accumulation.
	TissueHeart Tissue = "heart"
)

// tissues is the closed set of tracked tissues.
var tissues = map[Tissue]bool{
	TissueTumor:  true,
	TissueLiver:  true,
	TissueSpleen: true,
	TissueKidney: true,
	TissueLung:   true,
	TissueBrain:  true,
	TissueHeart:  true,
}

// Tissues returns all tracked tissues in a stable order.
// The order is used for deterministic report output.
func Tissues() []Tissue {
	return []Tissue{
		TissueTumor,
		TissueLiver,
		TissueSpleen,
		TissueKidney,
		TissueLung,
		TissueBrain,
		TissueHeart,
	}
}

// ParseTissue validates a tissue string.
// It returns a *ValidationError if the value is not a tracked tissue.
func ParseTissue(s string) (Tissue, error) {
	t := Tissue(s)
	if !tissues[t] {
		return "", &ValidationError{
			Field:   "tissue",
			Value:   s,
			Message: fmt.Sprintf("unknown tissue (expected one of %v)", Tissues()),
		}
	}
	return t, nil
}

// String returns the canonical spelling of the tissue.
func (t Tissue) String() string {
	return string(t)
}
