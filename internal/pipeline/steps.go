package pipeline

import (
	"context"
	"fmt"

	"github.com/nanomedlab/nanomed/internal/database"
	"github.com/nanomedlab/nanomed/internal/model"
	"github.com/nanomedlab/nanomed/internal/simulate"
)

// SafetyStep runs the toxicity assessment for the report's formulation.
// It has no configuration and cannot fail for a validated nanoparticle.
type SafetyStep struct{}

// NewSafetyStep creates a new safety assessment step.
func NewSafetyStep() *SafetyStep {
	return &SafetyStep{}
}

// Name returns the step's name for logging purposes.
func (s *SafetyStep) Name() string {
	return "safety_assessment"
}

// Do computes the safety assessment and stores it on the report.
func (s *SafetyStep) Do(_ context.Context, report *model.SimulationReport) error {
	report.Safety = simulate.AssessSafety(report.Nanoparticle)
	return nil
}

// BiodistributionStep estimates per-tissue dose fractions for the report's
// formulation. TimeH controls the optional post-dose observation time; zero
// means steady-state accumulation.
type BiodistributionStep struct {
	// TimeH is the observation time in hours. Zero disables the uptake factor.
	TimeH float64
}

// NewBiodistributionStep creates a biodistribution step.
func NewBiodistributionStep(timeH float64) *BiodistributionStep {
	return &BiodistributionStep{TimeH: timeH}
}

// Name returns the step's name for logging purposes.
func (s *BiodistributionStep) Name() string {
	return "biodistribution"
}

// Do estimates the tissue distribution and stores it on the report.
func (s *BiodistributionStep) Do(_ context.Context, report *model.SimulationReport) error {
	profile, err := simulate.EstimateBiodistributionAt(report.Nanoparticle, report.TargetTissue, report.DoseMg, s.TimeH)
	if err != nil {
		return fmt.Errorf("biodistribution estimation failed: %w", err)
	}
	report.Biodistribution = profile
	report.TimeH = s.TimeH
	return nil
}

// PharmacokineticsStep estimates the concentration-time profile for the
// report's formulation. Route selects the absorption rate; it defaults to
// intravenous administration when left empty.
type PharmacokineticsStep struct {
	// Route is the administration route. Empty means intravenous.
	Route model.Route
}

// NewPharmacokineticsStep creates a pharmacokinetics step.
func NewPharmacokineticsStep(route model.Route) *PharmacokineticsStep {
	return &PharmacokineticsStep{Route: route}
}

// Name returns the step's name for logging purposes.
func (s *PharmacokineticsStep) Name() string {
	return "pharmacokinetics"
}

// Do estimates the pharmacokinetic profile and stores it on the report.
func (s *PharmacokineticsStep) Do(_ context.Context, report *model.SimulationReport) error {
	opts := []simulate.PKOption{}
	if s.Route != "" {
		opts = append(opts, simulate.WithRoute(s.Route))
	}

	profile, err := simulate.EstimatePharmacokinetics(report.Nanoparticle, report.DoseMg, opts...)
	if err != nil {
		return fmt.Errorf("pharmacokinetics estimation failed: %w", err)
	}
	report.Pharmacokinetics = profile
	return nil
}

// SummarizeStep builds the human-readable summary from whatever the earlier
// steps produced. It should run last so the summary sees every estimate.
type SummarizeStep struct{}

// NewSummarizeStep creates a summarize step.
func NewSummarizeStep() *SummarizeStep {
	return &SummarizeStep{}
}

// Name returns the step's name for logging purposes.
func (s *SummarizeStep) Name() string {
	return "summarize"
}

// Do builds the simple report from the accumulated results.
func (s *SummarizeStep) Do(_ context.Context, report *model.SimulationReport) error {
	report.SimpleReport = model.NewSimpleReport(report)
	return nil
}

// PersistStep saves the completed report and its biodistribution rows to
// the formulation database. It is optional; simulations against ad-hoc
// formulations run without one.
type PersistStep struct {
	// db is the open formulation database.
	db *database.FormulationDB
}

// NewPersistStep creates a persistence step writing to the given database.
func NewPersistStep(db *database.FormulationDB) *PersistStep {
	return &PersistStep{db: db}
}

// Name returns the step's name for logging purposes.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do stores the report. Biodistribution rows are saved separately so
// per-tissue history queries don't have to unpack report JSON.
func (s *PersistStep) Do(ctx context.Context, report *model.SimulationReport) error {
	if report.Biodistribution != nil {
		if err := s.db.InsertBiodistribution(ctx, report.Biodistribution); err != nil {
			return fmt.Errorf("failed to persist biodistribution: %w", err)
		}
	}

	if err := s.db.SaveSimulationReport(ctx, report); err != nil {
		return fmt.Errorf("failed to persist simulation report: %w", err)
	}

	return nil
}
