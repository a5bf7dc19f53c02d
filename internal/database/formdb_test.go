package database

import (
	"context"
	"testing"
	"time"

	"github.com/nanomedlab/nanomed/internal/model"
)

// openTestDB opens a fresh database in a temp directory.
func openTestDB(t *testing.T) *FormulationDB {
	t.Helper()

	fdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := fdb.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return fdb
}

// storeTestParticle inserts a fresh formulation and returns it.
func storeTestParticle(t *testing.T, fdb *FormulationDB) *model.Nanoparticle {
	t.Helper()

	np, err := model.NewNanoparticle("onco-lipo-1", "liposome", 100, "doxorubicin", "lipid",
		model.WithTargetingLigand("rgd_peptide"))
	if err != nil {
		t.Fatalf("NewNanoparticle: %v", err)
	}
	if err := fdb.InsertNanoparticle(context.Background(), np); err != nil {
		t.Fatalf("InsertNanoparticle: %v", err)
	}
	return np
}

// TestOpen tests database creation behavior.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates the database file", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)
		if fdb.dbPath == "" {
			t.Error("expected a database path")
		}
	})

	t.Run("refuses to open a missing database without create", func(t *testing.T) {
		t.Parallel()
		opts := Options{CreateIfNotExists: false}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("expected error opening a missing database")
		}
	})
}

// TestNanoparticleRoundtrip tests insert and retrieval of formulation records.
func TestNanoparticleRoundtrip(t *testing.T) {
	t.Parallel()

	t.Run("stored record is returned unchanged", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)
		np := storeTestParticle(t, fdb)

		got, err := fdb.GetNanoparticle(context.Background(), np.ID)
		if err != nil {
			t.Fatalf("GetNanoparticle: %v", err)
		}
		if got == nil {
			t.Fatal("GetNanoparticle returned nil for a stored record")
		}

		if got.ID != np.ID || got.Name != np.Name || got.Type != np.Type {
			t.Errorf("identity mismatch: got %+v", got)
		}
		if got.DiameterNm != np.DiameterNm || got.SurfaceChargeMv != np.SurfaceChargeMv {
			t.Errorf("parameter mismatch: got %+v", got)
		}
		if got.DrugPayload != np.DrugPayload || got.Material != np.Material {
			t.Errorf("payload mismatch: got %+v", got)
		}
		if got.TargetingLigand != "rgd_peptide" {
			t.Errorf("TargetingLigand = %q, want rgd_peptide", got.TargetingLigand)
		}
		if got.CreatedAt.IsZero() {
			t.Error("CreatedAt not restored")
		}
	})

	t.Run("missing record returns nil without error", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)

		got, err := fdb.GetNanoparticle(context.Background(), "NP_MISSING1")
		if err != nil {
			t.Fatalf("GetNanoparticle: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for a missing record, got %+v", got)
		}
	})

	t.Run("invalid record is rejected before storage", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)

		invalid := &model.Nanoparticle{
			ID:         "NP_BADBAD01",
			Name:       "bad",
			Type:       model.ParticleLiposome,
			DiameterNm: 9999,
			Material:   model.MaterialLipid,
		}
		if err := fdb.InsertNanoparticle(context.Background(), invalid); err == nil {
			t.Error("expected validation error for an out-of-range diameter")
		}
	})

	t.Run("list returns all stored records", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)
		first := storeTestParticle(t, fdb)
		second := storeTestParticle(t, fdb)

		records, err := fdb.ListNanoparticles(context.Background())
		if err != nil {
			t.Fatalf("ListNanoparticles: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}

		ids := map[string]bool{records[0].ID: true, records[1].ID: true}
		if !ids[first.ID] || !ids[second.ID] {
			t.Errorf("listed IDs %v missing stored records", ids)
		}
	})
}

// TestTreatmentLifecycle tests treatment storage, update, and querying.
func TestTreatmentLifecycle(t *testing.T) {
	t.Parallel()

	newPlan := func(t *testing.T, patientID, npID string) *model.TreatmentPlan {
		t.Helper()
		plan, err := model.NewTreatmentPlan(patientID, npID, 2.5, "iv", "weekly", 28)
		if err != nil {
			t.Fatalf("NewTreatmentPlan: %v", err)
		}
		return plan
	}

	t.Run("insert and query roundtrip", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)
		np := storeTestParticle(t, fdb)
		plan := newPlan(t, "PT-1042", np.ID)

		if err := fdb.InsertTreatment(context.Background(), plan); err != nil {
			t.Fatalf("InsertTreatment: %v", err)
		}

		plans, err := fdb.QueryTreatments(context.Background(), "PT-1042", "")
		if err != nil {
			t.Fatalf("QueryTreatments: %v", err)
		}
		if len(plans) != 1 {
			t.Fatalf("got %d plans, want 1", len(plans))
		}

		got := plans[0]
		if got.ID != plan.ID || got.PatientID != "PT-1042" || got.NanoparticleID != np.ID {
			t.Errorf("identity mismatch: got %+v", got)
		}
		if got.Status != model.StatusPlanned || got.Route != model.RouteIV {
			t.Errorf("state mismatch: status=%v route=%v", got.Status, got.Route)
		}
		if got.DoseMgKg != 2.5 || got.DurationDays != 28 {
			t.Errorf("dosing mismatch: got %+v", got)
		}
	})

	t.Run("outcome update changes status and side effects", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)
		np := storeTestParticle(t, fdb)
		plan := newPlan(t, "PT-1042", np.ID)

		if err := fdb.InsertTreatment(context.Background(), plan); err != nil {
			t.Fatalf("InsertTreatment: %v", err)
		}

		err := fdb.UpdateTreatmentOutcome(context.Background(), plan.ID, 72.5,
			[]string{"nausea", "fatigue"}, model.StatusCompleted)
		if err != nil {
			t.Fatalf("UpdateTreatmentOutcome: %v", err)
		}

		plans, err := fdb.QueryTreatments(context.Background(), "", model.StatusCompleted)
		if err != nil {
			t.Fatalf("QueryTreatments: %v", err)
		}
		if len(plans) != 1 {
			t.Fatalf("got %d completed plans, want 1", len(plans))
		}
		got := plans[0]
		if got.EfficacyPct != 72.5 {
			t.Errorf("EfficacyPct = %g, want 72.5", got.EfficacyPct)
		}
		if len(got.SideEffects) != 2 || got.SideEffects[0] != "nausea" {
			t.Errorf("SideEffects = %v, want [nausea fatigue]", got.SideEffects)
		}
	})

	t.Run("updating a missing treatment fails", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)

		err := fdb.UpdateTreatmentOutcome(context.Background(), "TX_MISSING1", 50, nil, model.StatusActive)
		if err == nil {
			t.Error("expected error updating a missing treatment")
		}
	})

	t.Run("filters narrow the result set", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)
		np := storeTestParticle(t, fdb)

		for _, patientID := range []string{"PT-1", "PT-1", "PT-2"} {
			if err := fdb.InsertTreatment(context.Background(), newPlan(t, patientID, np.ID)); err != nil {
				t.Fatalf("InsertTreatment: %v", err)
			}
		}

		all, err := fdb.QueryTreatments(context.Background(), "", "")
		if err != nil {
			t.Fatalf("QueryTreatments: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("unfiltered query returned %d plans, want 3", len(all))
		}

		forPatient, err := fdb.QueryTreatments(context.Background(), "PT-1", "")
		if err != nil {
			t.Fatalf("QueryTreatments: %v", err)
		}
		if len(forPatient) != 2 {
			t.Errorf("patient filter returned %d plans, want 2", len(forPatient))
		}

		active, err := fdb.QueryTreatments(context.Background(), "", model.StatusActive)
		if err != nil {
			t.Fatalf("QueryTreatments: %v", err)
		}
		if len(active) != 0 {
			t.Errorf("status filter returned %d plans, want 0", len(active))
		}
	})
}

// TestSimulationReportStorage tests report persistence and history.
func TestSimulationReportStorage(t *testing.T) {
	t.Parallel()

	buildReport := func(np *model.Nanoparticle, score float64) *model.SimulationReport {
		report := model.NewSimulationReport(np, model.TissueTumor, 5.0)
		report.Safety = &model.SafetyAssessment{
			Score:    score,
			Risk:     model.RiskLevelForScore(score),
			Findings: []string{"no_targeting_ligand"},
		}
		report.SimpleReport = model.NewSimpleReport(report)
		return report
	}

	t.Run("latest report roundtrip", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)
		np := storeTestParticle(t, fdb)

		report := buildReport(np, 80)
		if err := fdb.SaveSimulationReport(context.Background(), report); err != nil {
			t.Fatalf("SaveSimulationReport: %v", err)
		}

		got, err := fdb.GetLatestSimulationReport(context.Background(), np.ID)
		if err != nil {
			t.Fatalf("GetLatestSimulationReport: %v", err)
		}
		if got == nil {
			t.Fatal("expected a stored report")
		}
		if got.TargetTissue != model.TissueTumor || got.DoseMg != 5.0 {
			t.Errorf("input fields mismatch: %+v", got)
		}
		if got.Safety == nil || got.Safety.Score != 80 {
			t.Error("safety assessment not restored")
		}
	})

	t.Run("no stored report returns nil without error", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)

		got, err := fdb.GetLatestSimulationReport(context.Background(), "NP_MISSING1")
		if err != nil {
			t.Fatalf("GetLatestSimulationReport: %v", err)
		}
		if got != nil {
			t.Error("expected nil for missing report")
		}
	})

	t.Run("report by unknown id returns nil without error", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)

		got, err := fdb.GetSimulationReportByID(context.Background(), 424242)
		if err != nil {
			t.Fatalf("GetSimulationReportByID: %v", err)
		}
		if got != nil {
			t.Error("expected nil for unknown report id")
		}
	})

	t.Run("history carries the risk summary", func(t *testing.T) {
		t.Parallel()
		fdb := openTestDB(t)
		np := storeTestParticle(t, fdb)

		for _, score := range []float64{80, 55} {
			if err := fdb.SaveSimulationReport(context.Background(), buildReport(np, score)); err != nil {
				t.Fatalf("SaveSimulationReport: %v", err)
			}
		}

		history, err := fdb.GetSimulationHistory(context.Background(), np.ID)
		if err != nil {
			t.Fatalf("GetSimulationHistory: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("got %d history entries, want 2", len(history))
		}
		for _, meta := range history {
			if meta.NanoparticleID != np.ID || meta.TargetTissue != string(model.TissueTumor) {
				t.Errorf("metadata mismatch: %+v", meta)
			}
			if meta.Timestamp.IsZero() {
				t.Error("timestamp not parsed")
			}
			if _, ok := meta.RiskSummary["safety_score"]; !ok {
				t.Errorf("risk summary missing safety_score: %v", meta.RiskSummary)
			}
		}

		reports, err := fdb.GetSimulationReports(context.Background(), np.ID)
		if err != nil {
			t.Fatalf("GetSimulationReports: %v", err)
		}
		if len(reports) != 2 {
			t.Errorf("got %d full reports, want 2", len(reports))
		}
	})
}

// TestInsertBiodistribution tests per-tissue row storage.
func TestInsertBiodistribution(t *testing.T) {
	t.Parallel()

	fdb := openTestDB(t)
	np := storeTestParticle(t, fdb)

	profile := &model.BiodistributionProfile{
		NanoparticleID: np.ID,
		TargetTissue:   model.TissueTumor,
		DoseMg:         5.0,
		Fractions: map[model.Tissue]float64{
			model.TissueTumor: 0.12,
			model.TissueLiver: 0.30,
		},
	}
	if err := fdb.InsertBiodistribution(context.Background(), profile); err != nil {
		t.Fatalf("InsertBiodistribution: %v", err)
	}

	var count int
	err := fdb.db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM biodistribution WHERE nanoparticle_id = ?", np.ID).Scan(&count)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("stored %d rows, want 2", count)
	}
}

// TestParseTimestamp tests the multi-format timestamp parser.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{"sqlite default", "2026-03-14 09:30:00", false},
		{"iso with z", "2026-03-14T09:30:00Z", false},
		{"rfc3339 with offset", "2026-03-14T09:30:00+09:00", false},
		{"garbage", "not a time", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q).IsZero() = %v, want %v", tt.input, got.IsZero(), tt.zero)
			}
		})
	}
}

// TestTimestampRoundtrip checks that stored RFC3339 timestamps survive scan.
func TestTimestampRoundtrip(t *testing.T) {
	t.Parallel()

	fdb := openTestDB(t)
	np := storeTestParticle(t, fdb)

	got, err := fdb.GetNanoparticle(context.Background(), np.ID)
	if err != nil {
		t.Fatalf("GetNanoparticle: %v", err)
	}
	if got == nil {
		t.Fatal("record missing")
	}

	// Stored at second precision; allow for the truncation.
	if diff := got.CreatedAt.Sub(np.CreatedAt.Truncate(time.Second)); diff < 0 || diff > time.Second {
		t.Errorf("CreatedAt drifted by %v", diff)
	}
}
