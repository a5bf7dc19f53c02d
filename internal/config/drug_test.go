package config

import "testing"

// TestGetDrugProfile tests default/override merging.
func TestGetDrugProfile(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: DrugProfile{
			DefaultDoseMg:  5.0,
			PreferredRoute: "iv",
			Notes:          "default notes",
		},
		Drugs: map[string]DrugProfile{
			"doxorubicin": {
				DefaultDoseMg: 2.5,
				MaxDoseMg:     10.0,
			},
			"salbutamol": {
				PreferredRoute: "inhalation",
			},
		},
	}

	t.Run("unknown drug gets the defaults", func(t *testing.T) {
		t.Parallel()
		profile := cf.GetDrugProfile("cisplatin")
		if profile != cf.Defaults {
			t.Errorf("GetDrugProfile(cisplatin) = %+v, want defaults", profile)
		}
	})

	t.Run("overrides win, unset fields keep defaults", func(t *testing.T) {
		t.Parallel()
		profile := cf.GetDrugProfile("doxorubicin")
		if profile.DefaultDoseMg != 2.5 {
			t.Errorf("DefaultDoseMg = %g, want 2.5", profile.DefaultDoseMg)
		}
		if profile.MaxDoseMg != 10.0 {
			t.Errorf("MaxDoseMg = %g, want 10", profile.MaxDoseMg)
		}
		if profile.PreferredRoute != "iv" {
			t.Errorf("PreferredRoute = %q, want default iv", profile.PreferredRoute)
		}
		if profile.Notes != "default notes" {
			t.Errorf("Notes = %q, want default notes", profile.Notes)
		}
	})

	t.Run("route-only override", func(t *testing.T) {
		t.Parallel()
		profile := cf.GetDrugProfile("salbutamol")
		if profile.PreferredRoute != "inhalation" {
			t.Errorf("PreferredRoute = %q, want inhalation", profile.PreferredRoute)
		}
		if profile.DefaultDoseMg != 5.0 {
			t.Errorf("DefaultDoseMg = %g, want inherited 5", profile.DefaultDoseMg)
		}
	})
}

// TestDoseFor tests dose resolution for a drug payload.
func TestDoseFor(t *testing.T) {
	t.Parallel()

	t.Run("profiled dose wins", func(t *testing.T) {
		t.Parallel()
		cf := &File{Drugs: map[string]DrugProfile{"doxorubicin": {DefaultDoseMg: 2.5}}}
		if got := cf.DoseFor("doxorubicin"); got != 2.5 {
			t.Errorf("DoseFor = %g, want 2.5", got)
		}
	})

	t.Run("unprofiled drug falls back to the package default", func(t *testing.T) {
		t.Parallel()
		cf := &File{Drugs: map[string]DrugProfile{}}
		if got := cf.DoseFor("cisplatin"); got != DefaultDoseMg {
			t.Errorf("DoseFor = %g, want %g", got, DefaultDoseMg)
		}
	})
}
