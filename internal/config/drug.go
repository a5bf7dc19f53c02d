package config

// DrugProfile holds the dosing profile for a single drug payload.
// This allows customizing simulation behavior per drug without touching the
// estimation core, which treats the payload as a label.
type DrugProfile struct {
	// DefaultDoseMg is the dose assumed when the user gives none.
	// If zero, the global DefaultDoseMg is used.
	DefaultDoseMg float64 `yaml:"defaultDoseMg,omitempty"`

	// PreferredRoute overrides the route the optimizer recommends for this
	// drug, regardless of target tissue (e.g., a drug only formulated as an
	// aerosol). Must be a recognized route or empty.
	PreferredRoute string `yaml:"preferredRoute,omitempty"`

	// MaxDoseMg caps the dose simulation commands accept for this drug.
	// Zero means no cap.
	MaxDoseMg float64 `yaml:"maxDoseMg,omitempty"`

	// Notes is free text shown in reports for this drug.
	Notes string `yaml:"notes,omitempty"`
}

// File represents the structure of the .nanomed configuration file.
type File struct {
	// Drugs maps drug payload identifiers to their dosing profiles.
	Drugs map[string]DrugProfile `yaml:"drugs,omitempty"`

	// Defaults contains the default drug profile applied to all drugs
	// unless overridden in the drug-specific profile.
	Defaults DrugProfile `yaml:"defaults,omitempty"`
}

// GetDrugProfile returns the profile for a specific drug payload.
// It merges the drug-specific profile with defaults.
func (cf *File) GetDrugProfile(drugPayload string) DrugProfile {
	// Start with defaults
	result := cf.Defaults

	// Override with drug-specific profile if present
	if profile, ok := cf.Drugs[drugPayload]; ok {
		if profile.DefaultDoseMg != 0 {
			result.DefaultDoseMg = profile.DefaultDoseMg
		}
		if profile.PreferredRoute != "" {
			result.PreferredRoute = profile.PreferredRoute
		}
		if profile.MaxDoseMg != 0 {
			result.MaxDoseMg = profile.MaxDoseMg
		}
		if profile.Notes != "" {
			result.Notes = profile.Notes
		}
	}

	return result
}

// DoseFor resolves the dose for a drug: the drug's profiled default when one
// exists, the package default otherwise.
func (cf *File) DoseFor(drugPayload string) float64 {
	if profile := cf.GetDrugProfile(drugPayload); profile.DefaultDoseMg > 0 {
		return profile.DefaultDoseMg
	}
	return DefaultDoseMg
}
