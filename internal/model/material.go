package model

import "fmt"

// Material identifies the carrier material of a nanoparticle.
type Material string

const (
	// MaterialPLA is polylactic acid, a biodegradable polyester.
	MaterialPLA Material = "pla"

	// MaterialPLGA is poly(lactic-co-glycolic acid), the most widely used
	// biodegradable carrier polymer.
	MaterialPLGA Material = "plga"

	// MaterialChitosan is a cationic polysaccharide. The positive surface
	// charge aids mucosal adhesion but raises nonspecific uptake.
	MaterialChitosan Material = "chitosan"

	// MaterialGold is colloidal gold. Inert but non-biodegradable.
	MaterialGold Material = "gold"

	// MaterialIronOxide is superparamagnetic iron oxide.
	MaterialIronOxide Material = "iron_oxide"

	// MaterialSilica is mesoporous silica. Slow dissolution, long residence.
	MaterialSilica Material = "silica"

	// MaterialLipid covers phospholipid and solid-lipid carriers.
	MaterialLipid Material = "lipid"
)

// materials is the closed set of recognized carrier materials.
var materials = map[Material]bool{
	MaterialPLA:       true,
	MaterialPLGA:      true,
	MaterialChitosan:  true,
	MaterialGold:      true,
	MaterialIronOxide: true,
	MaterialSilica:    true,
	MaterialLipid:     true,
}

// Materials returns all recognized materials in a stable order.
func Materials() []Material {
	return []Material{
		MaterialPLA,
		MaterialPLGA,
		MaterialChitosan,
		MaterialGold,
		MaterialIronOxide,
		MaterialSilica,
		MaterialLipid,
	}
}

// ParseMaterial validates a material string.
// It returns a *ValidationError if the value is not a recognized material.
func ParseMaterial(s string) (Material, error) {
	m := Material(s)
	if !materials[m] {
		return "", &ValidationError{
			Field:   "material",
			Value:   s,
			Message: fmt.Sprintf("unknown material (expected one of %v)", Materials()),
		}
	}
	return m, nil
}

// String returns the canonical spelling of the material.
func (m Material) String() string {
	return string(m)
}

// Biodegradable reports whether the material is broken down in vivo.
// Non-biodegradable materials (gold, iron oxide, silica) clear slowly and
// accumulate, which lengthens the elimination half-life.
func (m Material) Biodegradable() bool {
	switch m {
	case MaterialGold, MaterialIronOxide, MaterialSilica:
		return false
	default:
		return true
	}
}

// defaultSurfaceCharge maps each material to its typical zeta potential in mV.
// Used when a formulation is designed without an explicit surface charge.
// Values follow the original simplified model: most carriers are mildly
// anionic, chitosan is the cationic outlier.
var defaultSurfaceCharge = map[Material]float64{
	MaterialLipid:     -10,
	MaterialPLGA:      -15,
	MaterialPLA:       -12,
	MaterialChitosan:  25,
	MaterialGold:      -8,
	MaterialIronOxide: -20,
	MaterialSilica:    -25,
}

// DefaultSurfaceCharge returns the typical surface charge for the material in mV.
func (m Material) DefaultSurfaceCharge() float64 {
	return defaultSurfaceCharge[m]
}
