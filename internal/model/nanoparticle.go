package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation ranges for nanoparticle construction inputs.
// Construction fails with a *ValidationError outside these bounds.
const (
	// MinDiameterNm and MaxDiameterNm bound the particle diameter.
	// Below 1nm the particle is molecular; above 500nm it is no longer
	// a nanoparticle and would embolize capillaries.
	MinDiameterNm = 1.0
	MaxDiameterNm = 500.0

	// MinSurfaceChargeMv and MaxSurfaceChargeMv bound the zeta potential.
	// Colloids outside +/-50mV are not physically plausible formulations.
	MinSurfaceChargeMv = -50.0
	MaxSurfaceChargeMv = 50.0

	// MinEncapsulationPct and MaxEncapsulationPct bound drug loading efficiency.
	MinEncapsulationPct = 0.0
	MaxEncapsulationPct = 100.0

	// DefaultEncapsulationPct is used when no loading efficiency is specified.
	DefaultEncapsulationPct = 85.0
)

// Nanoparticle is an immutable-after-creation formulation record.
//
// All numeric fields are guaranteed to be within their declared ranges:
// the only way to obtain a Nanoparticle outside the database layer is
// NewNanoparticle, which validates every input.
type Nanoparticle struct {
	// ID is the unique identifier, generated at creation (NP_XXXXXXXX).
	ID string `json:"id"`

	// Name is a free-text label for the formulation.
	Name string `json:"name"`

	// Type is the structural class of the particle.
	Type ParticleType `json:"type"`

	// DiameterNm is the hydrodynamic diameter in nanometers (1-500).
	DiameterNm float64 `json:"diameter_nm"`

	// SurfaceChargeMv is the zeta potential in millivolts (-50 to +50).
	SurfaceChargeMv float64 `json:"surface_charge_mv"`

	// DrugPayload is a free-text drug identifier.
	DrugPayload string `json:"drug_payload"`

	// EncapsulationPct is the drug loading efficiency in percent (0-100).
	EncapsulationPct float64 `json:"encapsulation_pct"`

	// TargetingLigand is an optional surface ligand identifier.
	// When present and compatible with the target tissue, estimators apply
	// a receptor-mediated uptake bonus.
	TargetingLigand string `json:"targeting_ligand,omitempty"`

	// Material is the carrier material.
	Material Material `json:"material"`

	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// NanoparticleOption customizes nanoparticle construction.
// This follows the functional options pattern for clean API design.
type NanoparticleOption func(*Nanoparticle)

// WithSurfaceCharge sets an explicit surface charge in mV, overriding the
// material's typical value.
func WithSurfaceCharge(mv float64) NanoparticleOption {
	return func(np *Nanoparticle) {
		np.SurfaceChargeMv = mv
	}
}

// WithTargetingLigand attaches a surface targeting ligand.
func WithTargetingLigand(ligand string) NanoparticleOption {
	return func(np *Nanoparticle) {
		np.TargetingLigand = strings.TrimSpace(ligand)
	}
}

// WithEncapsulation sets the drug loading efficiency in percent.
func WithEncapsulation(pct float64) NanoparticleOption {
	return func(np *Nanoparticle) {
		np.EncapsulationPct = pct
	}
}

// NewNanoparticle designs a new nanoparticle formulation.
//
// The type and material strings are parsed against their closed enumerations,
// and all numeric inputs are validated against the declared ranges. When no
// explicit surface charge is given via WithSurfaceCharge, the material's
// typical zeta potential is used.
//
// Returns a *ValidationError describing the first invalid input.
func NewNanoparticle(name, typeStr string, diameterNm float64, drugPayload, materialStr string, opts ...NanoparticleOption) (*Nanoparticle, error) {
	particleType, err := ParseParticleType(typeStr)
	if err != nil {
		return nil, err
	}

	material, err := ParseMaterial(materialStr)
	if err != nil {
		return nil, err
	}

	np := &Nanoparticle{
		ID:               NewNanoparticleID(),
		Name:             name,
		Type:             particleType,
		DiameterNm:       diameterNm,
		SurfaceChargeMv:  material.DefaultSurfaceCharge(),
		DrugPayload:      drugPayload,
		EncapsulationPct: DefaultEncapsulationPct,
		Material:         material,
		CreatedAt:        time.Now(),
	}

	for _, opt := range opts {
		opt(np)
	}

	if err := np.Validate(); err != nil {
		return nil, err
	}

	return np, nil
}

// Validate checks that every numeric field is within its declared range.
// It returns the first violation as a *ValidationError, or nil.
//
// Design decision: Validation lives on the struct rather than only inside
// NewNanoparticle so the database layer can re-check records on load; a
// hand-edited database file must not smuggle out-of-range values into the
// estimators.
func (np *Nanoparticle) Validate() error {
	if np.Name == "" {
		return &ValidationError{Field: "name", Value: np.Name, Message: "must not be empty"}
	}
	if _, err := ParseParticleType(string(np.Type)); err != nil {
		return err
	}
	if _, err := ParseMaterial(string(np.Material)); err != nil {
		return err
	}
	if np.DiameterNm < MinDiameterNm || np.DiameterNm > MaxDiameterNm {
		return &ValidationError{
			Field:   "diameter_nm",
			Value:   np.DiameterNm,
			Message: fmt.Sprintf("must be between %g and %g", MinDiameterNm, MaxDiameterNm),
		}
	}
	if np.SurfaceChargeMv < MinSurfaceChargeMv || np.SurfaceChargeMv > MaxSurfaceChargeMv {
		return &ValidationError{
			Field:   "surface_charge_mv",
			Value:   np.SurfaceChargeMv,
			Message: fmt.Sprintf("must be between %g and %g", MinSurfaceChargeMv, MaxSurfaceChargeMv),
		}
	}
	if np.EncapsulationPct < MinEncapsulationPct || np.EncapsulationPct > MaxEncapsulationPct {
		return &ValidationError{
			Field:   "encapsulation_pct",
			Value:   np.EncapsulationPct,
			Message: fmt.Sprintf("must be between %g and %g", MinEncapsulationPct, MaxEncapsulationPct),
		}
	}
	return nil
}

// HasLigand reports whether the formulation carries a targeting ligand.
func (np *Nanoparticle) HasLigand() bool {
	return np.TargetingLigand != ""
}

// NewNanoparticleID generates a nanoparticle record identifier.
// Format: "NP_" followed by the first 8 hex characters of a UUID, uppercased.
func NewNanoparticleID() string {
	return "NP_" + shortUUID()
}

// NewTreatmentID generates a treatment plan record identifier.
// Format: "TX_" followed by the first 8 hex characters of a UUID, uppercased.
func NewTreatmentID() string {
	return "TX_" + shortUUID()
}

// shortUUID returns the first 8 hex characters of a random UUID, uppercased.
// 32 bits of randomness is plenty for a single-user formulation database,
// and the short form keeps IDs typeable on the command line.
func shortUUID() string {
	id := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
