package main

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nanomedlab/nanomed/internal/config"
	"github.com/nanomedlab/nanomed/internal/database"
	"github.com/nanomedlab/nanomed/internal/log"
	"github.com/nanomedlab/nanomed/internal/model"
)

func TestSimulateCmdArgs(t *testing.T) {
	t.Parallel()

	cmd := NewSimulateCmd()

	if err := cmd.Args(cmd, []string{"NP_1A2B3C4D"}); err != nil {
		t.Errorf("Args() with one ID = %v, want nil", err)
	}
	if err := cmd.Args(cmd, []string{"NP_1A2B3C4D", "NP_5E6F7A8B", "NP_9C0D1E2F"}); err != nil {
		t.Errorf("Args() with three IDs = %v, want nil", err)
	}
	if err := cmd.Args(cmd, nil); err == nil {
		t.Error("Args() with no IDs = nil, want error")
	}

	flag := cmd.Flags().Lookup("batch")
	if flag == nil {
		t.Fatal("batch flag not registered")
	}
	if flag.DefValue != "5" {
		t.Errorf("batch flag default = %q, want 5", flag.DefValue)
	}
}

// seedFormulation stores a formulation and returns its ID.
func seedFormulation(t *testing.T, db *database.FormulationDB, name string, diameterNm float64) string {
	t.Helper()

	np, err := model.NewNanoparticle(name, "liposome", diameterNm, "doxorubicin", "lipid")
	if err != nil {
		t.Fatalf("NewNanoparticle() error = %v", err)
	}
	if err := db.InsertNanoparticle(context.Background(), np); err != nil {
		t.Fatalf("InsertNanoparticle() error = %v", err)
	}
	return np.ID
}

func TestRunBatchSimulation(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	firstID := seedFormulation(t, db, "onco-lipo-1", 100)
	secondID := seedFormulation(t, db, "onco-lipo-2", 150)
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	cfg := config.NewConfig()
	cfg.DBDir = dbDir
	cfg.JSONReport = true
	cfg.ReportFile = filepath.Join(t.TempDir(), "batch.json")
	cfg.DrugProfiles = &config.File{Drugs: make(map[string]config.DrugProfile)}

	logger := log.NewPrivacyLogger(io.Discard, false)
	ctx := context.Background()

	err = runBatchSimulation(ctx, cfg, []string{firstID, secondID},
		model.TissueTumor, model.RouteIV, 0, 2, logger)
	if err != nil {
		t.Fatalf("runBatchSimulation() error = %v", err)
	}

	// Both runs must have been simulated and persisted.
	db, err = database.Open(dbDir, database.Options{})
	if err != nil {
		t.Fatalf("Open() after batch error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, id := range []string{firstID, secondID} {
		stored, err := db.GetLatestSimulationReport(ctx, id)
		if err != nil {
			t.Fatalf("GetLatestSimulationReport(%s) error = %v", id, err)
		}
		if stored == nil {
			t.Fatalf("GetLatestSimulationReport(%s) = nil, want persisted report", id)
		}
		if stored.Nanoparticle == nil || stored.Nanoparticle.ID != id {
			t.Errorf("stored report formulation = %+v, want ID %s", stored.Nanoparticle, id)
		}
		if stored.TargetTissue != model.TissueTumor {
			t.Errorf("stored report target = %s, want tumor", stored.TargetTissue)
		}
	}
}

func TestRunBatchSimulationUnknownID(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	knownID := seedFormulation(t, db, "onco-lipo-1", 100)
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	cfg := config.NewConfig()
	cfg.DBDir = dbDir
	cfg.JSONReport = true
	cfg.ReportFile = filepath.Join(t.TempDir(), "batch.json")
	cfg.DrugProfiles = &config.File{Drugs: make(map[string]config.DrugProfile)}

	logger := log.NewPrivacyLogger(io.Discard, false)

	err = runBatchSimulation(context.Background(), cfg, []string{knownID, "NP_DEADBEEF"},
		model.TissueTumor, model.RouteIV, 0, 2, logger)
	if err == nil {
		t.Fatal("runBatchSimulation() with unknown ID = nil, want error")
	}
	if !strings.Contains(err.Error(), "NP_DEADBEEF") {
		t.Errorf("error = %v, want mention of the unknown ID", err)
	}
}

func TestResolveDose(t *testing.T) {
	t.Parallel()

	np, err := model.NewNanoparticle("onco-lipo-1", "liposome", 100, "doxorubicin", "lipid")
	if err != nil {
		t.Fatalf("NewNanoparticle() error = %v", err)
	}

	profiled := &config.File{
		Drugs: map[string]config.DrugProfile{
			"doxorubicin": {DefaultDoseMg: 8.0, MaxDoseMg: 20.0},
		},
	}

	tests := []struct {
		name     string
		cfg      *config.Config
		wantDose float64
		wantErr  bool
	}{
		{
			name:     "flag dose wins over profile",
			cfg:      &config.Config{DoseMg: 3.0, DrugProfiles: profiled},
			wantDose: 3.0,
		},
		{
			name:     "profile default applies without flag",
			cfg:      &config.Config{DrugProfiles: profiled},
			wantDose: 8.0,
		},
		{
			name:     "global default without profile",
			cfg:      &config.Config{DrugProfiles: &config.File{Drugs: map[string]config.DrugProfile{}}},
			wantDose: config.DefaultDoseMg,
		},
		{
			name:     "global default with nil profiles",
			cfg:      &config.Config{},
			wantDose: config.DefaultDoseMg,
		},
		{
			name:    "flag dose above configured maximum",
			cfg:     &config.Config{DoseMg: 25.0, DrugProfiles: profiled},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dose, err := resolveDose(tt.cfg, np)
			if tt.wantErr {
				if err == nil {
					t.Fatal("resolveDose() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveDose() error = %v", err)
			}
			if dose != tt.wantDose {
				t.Errorf("resolveDose() = %v, want %v", dose, tt.wantDose)
			}
		})
	}
}

func TestAttachDrugNotes(t *testing.T) {
	t.Parallel()

	np, err := model.NewNanoparticle("onco-lipo-1", "liposome", 100, "doxorubicin", "lipid")
	if err != nil {
		t.Fatalf("NewNanoparticle() error = %v", err)
	}

	cfg := &config.Config{
		DrugProfiles: &config.File{
			Drugs: map[string]config.DrugProfile{
				"doxorubicin": {Notes: "Cardiotoxicity risk above 550 mg/m2 cumulative."},
			},
		},
	}

	simReport := model.NewSimulationReport(np, model.TissueTumor, 5.0)
	attachDrugNotes(cfg, simReport)

	if simReport.SimpleReport == nil {
		t.Fatal("SimpleReport = nil, want generated report carrying notes")
	}
	if got := simReport.SimpleReport.DrugNotes; got != "Cardiotoxicity risk above 550 mg/m2 cumulative." {
		t.Errorf("DrugNotes = %q, want configured notes", got)
	}

	// A drug with no profile leaves the report untouched.
	unprofiled := model.NewSimulationReport(np, model.TissueTumor, 5.0)
	attachDrugNotes(&config.Config{}, unprofiled)
	if unprofiled.SimpleReport != nil {
		t.Errorf("SimpleReport = %+v, want nil when no notes are configured", unprofiled.SimpleReport)
	}
}
