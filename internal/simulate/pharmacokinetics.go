package simulate

import (
	"fmt"
	"math"

	"github.com/nanomedlab/nanomed/internal/model"
)

// VolumeOfDistributionMl is the fixed apparent volume of distribution used
// by the one-compartment model. 5L approximates adult plasma volume; the
// spec's coarse multiplicative factors do not model patient physiology.
const VolumeOfDistributionMl = 5000.0

// PKOption customizes a pharmacokinetics estimate.
type PKOption func(*pkParams)

// pkParams collects the optional inputs of a pharmacokinetics estimate.
type pkParams struct {
	route model.Route
}

// WithRoute sets the delivery route used to derive the absorption rate.
// The default is intravenous.
func WithRoute(route model.Route) PKOption {
	return func(p *pkParams) {
		p.route = route
	}
}

// EstimatePharmacokinetics computes the one-compartment pharmacokinetic
// profile for a dose of the formulation.
//
// The absorption rate ka is derived from the delivery route, scaled down as
// diameter grows. The elimination rate ke is ln(2) over a half-life that
// grows with diameter (particles near the renal filtration threshold clear
// within the hour, RES-cleared 300nm particles persist half a day) and with
// the material's persistence multiplier. Tmax, Cmax, and AUC follow the
// standard one-compartment formulas, with the ka=ke degenerate case handled
// by the limiting form.
//
// Returns ErrInvalidDose if doseMg is zero or negative.
func EstimatePharmacokinetics(np *model.Nanoparticle, doseMg float64, opts ...PKOption) (*model.PharmacokineticsProfile, error) {
	if doseMg <= 0 {
		return nil, fmt.Errorf("dose %g mg: %w", doseMg, ErrInvalidDose)
	}

	params := pkParams{route: model.RouteIV}
	for _, opt := range opts {
		opt(&params)
	}

	routeBase, ok := routeAbsorptionRate[params.route]
	if !ok {
		return nil, &model.ValidationError{
			Field:   "route",
			Value:   string(params.route),
			Message: "no absorption rate entry",
		}
	}

	persistence, ok := materialPersistence[np.Material]
	if !ok {
		return nil, fmt.Errorf("%q: %w", np.Material, ErrUnknownMaterial)
	}

	// Larger particles absorb slower from the administration site.
	ka := routeBase * 150.0 / (100.0 + np.DiameterNm)

	halfLife := baseHalfLife(np.DiameterNm) * persistence
	ke := math.Ln2 / halfLife

	profile := &model.PharmacokineticsProfile{
		NanoparticleID:  np.ID,
		DoseMg:          doseMg,
		AbsorptionRate:  ka,
		EliminationRate: ke,
		VolumeMl:        VolumeOfDistributionMl,
		HalfLifeH:       halfLife,
	}

	if math.Abs(ka-ke) < model.RateEpsilon {
		// Limiting case: C(t) = dose*ka*t*e^(-ka*t)/V peaks at t = 1/ka.
		profile.TmaxH = 1 / ka
	} else {
		profile.TmaxH = math.Log(ka/ke) / (ka - ke)
	}
	profile.CmaxUgMl = profile.ConcentrationAt(profile.TmaxH)
	profile.AUCUgHMl = doseMg * 1000.0 / (VolumeOfDistributionMl * ke)

	return profile, nil
}

// baseHalfLife returns the size-dependent elimination half-life in hours
// before material scaling. Particles under the renal filtration threshold
// are excreted almost immediately; each size regime above it persists
// longer as clearance shifts from kidney to RES.
func baseHalfLife(diameterNm float64) float64 {
	switch {
	case diameterNm < RenalThresholdNm:
		return 0.3
	case diameterNm < 50:
		return 0.5
	case diameterNm < 100:
		return 2.0
	case diameterNm < EPRThresholdNm:
		return 6.0
	default:
		return 12.0
	}
}
