package model

import "fmt"

// ParticleType identifies the structural class of a nanoparticle.
//
// Design decision: We use string-backed constants rather than iota integers
// because the value is stored verbatim in the database and in JSON reports,
// and the CLI accepts the same spelling. ParseParticleType is the only way
// values enter the system, so the enumeration remains closed.
type ParticleType string

const (
	// ParticleLiposome is a lipid bilayer vesicle. The workhorse of approved
	// nanomedicines (e.g., liposomal doxorubicin).
	ParticleLiposome ParticleType = "liposome"

	// ParticlePolymeric is a polymer matrix or shell particle (PLA, PLGA, chitosan).
	ParticlePolymeric ParticleType = "polymeric"

	// ParticleMetallic is a metal or metal-oxide core particle (gold, iron oxide).
	ParticleMetallic ParticleType = "metallic"

	// ParticleDendrimer is a highly branched synthetic macromolecule.
	ParticleDendrimer ParticleType = "dendrimer"

	// ParticleQuantumDot is a semiconductor nanocrystal, mainly used for imaging.
	ParticleQuantumDot ParticleType = "quantum_dot"

	// ParticleCarbonNanotube is a cylindrical carbon structure. High aspect
	// ratio makes it the most toxicologically concerning class here.
	ParticleCarbonNanotube ParticleType = "carbon_nanotube"
)

// particleTypes is the closed set of recognized particle types.
var particleTypes = map[ParticleType]bool{
	ParticleLiposome:       true,
	ParticlePolymeric:      true,
	ParticleMetallic:       true,
	ParticleDendrimer:      true,
	ParticleQuantumDot:     true,
	ParticleCarbonNanotube: true,
}

// ParticleTypes returns all recognized particle types in a stable order.
func ParticleTypes() []ParticleType {
	return []ParticleType{
		ParticleLiposome,
		ParticlePolymeric,
		ParticleMetallic,
		ParticleDendrimer,
		ParticleQuantumDot,
		ParticleCarbonNanotube,
	}
}

// ParseParticleType validates a particle type string.
// It returns a *ValidationError if the value is not a recognized type.
func ParseParticleType(s string) (ParticleType, error) {
	t := ParticleType(s)
	if !particleTypes[t] {
		return "", &ValidationError{
			Field:   "type",
			Value:   s,
			Message: fmt.Sprintf("unknown particle type (expected one of %v)", ParticleTypes()),
		}
	}
	return t, nil
}

// String returns the canonical spelling of the particle type.
func (t ParticleType) String() string {
	return string(t)
}
