package model

import "fmt"

// Route identifies the delivery route of a dose.
type Route string

const (
	// RouteIV is intravenous injection. Absorption is effectively immediate.
	RouteIV Route = "iv"

	// RouteOral is oral administration. Slowest and least complete absorption.
	RouteOral Route = "oral"

	// RouteInhalation is pulmonary delivery via aerosol.
	RouteInhalation Route = "inhalation"

	// RouteTopical is transdermal delivery.
	RouteTopical Route = "topical"

	// RouteIntratumoral is direct injection into tumor tissue.
	RouteIntratumoral Route = "intratumoral"
)

// routes is the closed set of recognized delivery routes.
var routes = map[Route]bool{
	RouteIV:           true,
	RouteOral:         true,
	RouteInhalation:   true,
	RouteTopical:      true,
	RouteIntratumoral: true,
}

// Routes returns all recognized delivery routes in a stable order.
func Routes() []Route {
	return []Route{
		RouteIV,
		RouteOral,
		RouteInhalation,
		RouteTopical,
		RouteIntratumoral,
	}
}

// ParseRoute validates a delivery route string.
// It returns a *ValidationError if the value is not a recognized route.
func ParseRoute(s string) (Route, error) {
	r := Route(s)
	if !routes[r] {
		return "", &ValidationError{
			Field:   "route",
			Value:   s,
			Message: fmt.Sprintf("unknown delivery route (expected one of %v)", Routes()),
		}
	}
	return r, nil
}

// String returns the canonical spelling of the route.
func (r Route) String() string {
	return string(r)
}
