package model

import (
	"errors"
	"testing"
	"time"
)

// fullReport builds a simulation report with all estimator results filled in.
func fullReport(t *testing.T) *SimulationReport {
	t.Helper()

	np, err := NewNanoparticle("onco-lipo-1", "liposome", 100, "doxorubicin", "lipid")
	if err != nil {
		t.Fatalf("NewNanoparticle: %v", err)
	}

	report := NewSimulationReport(np, TissueTumor, 5.0)
	report.Biodistribution = &BiodistributionProfile{
		NanoparticleID: np.ID,
		TargetTissue:   TissueTumor,
		DoseMg:         5.0,
		TargetFraction: 0.12,
		Fractions: map[Tissue]float64{
			TissueTumor: 0.12,
			TissueLiver: 0.30,
			TissueKidney: 0.05,
		},
		ClearedFraction: 0.53,
	}
	report.Pharmacokinetics = &PharmacokineticsProfile{
		NanoparticleID: np.ID,
		DoseMg:         5.0,
		CmaxUgMl:       0.8,
		TmaxH:          2.5,
		AUCUgHMl:       12.4,
		HalfLifeH:      8.7,
	}
	report.Safety = &SafetyAssessment{
		Score:    65,
		Risk:     RiskModerate,
		RiskText: RiskModerate.String(),
		Findings: []string{"charge_strong_positive", "material_slow_clearance", "no_targeting_ligand"},
	}
	return report
}

// TestNewSimpleReport tests summarization of a full simulation report.
func TestNewSimpleReport(t *testing.T) {
	t.Parallel()

	t.Run("copies identity and headline numbers", func(t *testing.T) {
		t.Parallel()
		report := fullReport(t)
		simple := NewSimpleReport(report)

		if simple.NanoparticleID != report.Nanoparticle.ID {
			t.Errorf("NanoparticleID = %q, want %q", simple.NanoparticleID, report.Nanoparticle.ID)
		}
		if simple.Name != "onco-lipo-1" || simple.DrugPayload != "doxorubicin" {
			t.Errorf("unexpected identity fields: %q / %q", simple.Name, simple.DrugPayload)
		}
		if simple.TargetTissue != TissueTumor || simple.DoseMg != 5.0 {
			t.Errorf("unexpected input fields: %v / %g", simple.TargetTissue, simple.DoseMg)
		}
		if simple.TargetFraction != 0.12 || simple.ClearedFraction != 0.53 {
			t.Errorf("unexpected biodistribution summary: %g / %g", simple.TargetFraction, simple.ClearedFraction)
		}
		if simple.CmaxUgMl != 0.8 || simple.TmaxH != 2.5 || simple.AUCUgHMl != 12.4 || simple.HalfLifeH != 8.7 {
			t.Error("pharmacokinetics metrics not copied")
		}
		if simple.SafetyScore != 65 || simple.RiskText != "MODERATE" {
			t.Errorf("unexpected safety summary: %g / %q", simple.SafetyScore, simple.RiskText)
		}
	})

	t.Run("accumulation follows the stable tissue order", func(t *testing.T) {
		t.Parallel()
		simple := NewSimpleReport(fullReport(t))

		if len(simple.Accumulation) != 3 {
			t.Fatalf("got %d accumulation rows, want 3", len(simple.Accumulation))
		}

		pos := make(map[Tissue]int)
		for i, tissue := range Tissues() {
			pos[tissue] = i
		}
		for i := 1; i < len(simple.Accumulation); i++ {
			if pos[simple.Accumulation[i-1].Tissue] > pos[simple.Accumulation[i].Tissue] {
				t.Errorf("accumulation out of order at index %d: %v before %v",
					i, simple.Accumulation[i-1].Tissue, simple.Accumulation[i].Tissue)
			}
		}
	})

	t.Run("accumulation amounts scale with dose", func(t *testing.T) {
		t.Parallel()
		simple := NewSimpleReport(fullReport(t))

		for _, row := range simple.Accumulation {
			want := row.Fraction * 5.0
			if row.AmountMg != want {
				t.Errorf("%s AmountMg = %g, want %g", row.Tissue, row.AmountMg, want)
			}
		}
	})

	t.Run("findings are expanded and counted by level", func(t *testing.T) {
		t.Parallel()
		simple := NewSimpleReport(fullReport(t))

		if simple.TotalFindings() != 3 {
			t.Fatalf("TotalFindings() = %d, want 3", simple.TotalFindings())
		}
		if simple.HighCount != 1 || simple.ModerateCount != 1 || simple.LowCount != 1 {
			t.Errorf("counts = %d/%d/%d, want 1/1/1",
				simple.HighCount, simple.ModerateCount, simple.LowCount)
		}
		for _, f := range simple.Findings {
			if f.Impact == "" || f.Recommendation == "" || f.LevelText == "" {
				t.Errorf("finding %q not fully expanded", f.Type)
			}
		}
	})

	t.Run("missing estimator results leave zero values", func(t *testing.T) {
		t.Parallel()
		np, err := NewNanoparticle("bare", "liposome", 100, "drug", "lipid")
		if err != nil {
			t.Fatalf("NewNanoparticle: %v", err)
		}
		simple := NewSimpleReport(NewSimulationReport(np, TissueLiver, 2.0))

		if simple.Accumulation != nil || simple.Findings != nil {
			t.Error("expected nil accumulation and findings for empty report")
		}
		if simple.CmaxUgMl != 0 || simple.SafetyScore != 0 {
			t.Error("expected zero metrics for empty report")
		}
		if simple.HasFindings() {
			t.Error("HasFindings() = true for empty report")
		}
	})

	t.Run("simulation error is carried through", func(t *testing.T) {
		t.Parallel()
		report := fullReport(t)
		report.Error = errors.New("estimation failed")
		simple := NewSimpleReport(report)

		if simple.Error != "estimation failed" {
			t.Errorf("Error = %q, want %q", simple.Error, "estimation failed")
		}
	})

	t.Run("date simulated is preserved", func(t *testing.T) {
		t.Parallel()
		report := fullReport(t)
		stamp := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		report.DateSimulated = stamp

		if simple := NewSimpleReport(report); !simple.DateSimulated.Equal(stamp) {
			t.Errorf("DateSimulated = %v, want %v", simple.DateSimulated, stamp)
		}
	})
}

// TestFindingsByLevel tests level filtering over the summary findings.
func TestFindingsByLevel(t *testing.T) {
	t.Parallel()

	simple := NewSimpleReport(fullReport(t))

	high := simple.FindingsByLevel(RiskHigh)
	if len(high) != 1 || high[0].Type != "charge_strong_positive" {
		t.Errorf("FindingsByLevel(RiskHigh) = %+v, want one charge_strong_positive", high)
	}
	if got := simple.FindingsByLevel(RiskModerate); len(got) != 1 {
		t.Errorf("FindingsByLevel(RiskModerate) returned %d findings, want 1", len(got))
	}
	if got := simple.FindingsByLevel(RiskLow); len(got) != 1 {
		t.Errorf("FindingsByLevel(RiskLow) returned %d findings, want 1", len(got))
	}
}
