package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nanomedlab/nanomed/internal/config"
	"github.com/nanomedlab/nanomed/internal/database"
	"github.com/nanomedlab/nanomed/internal/model"
)

// Constants for risk direction and summary messages.
const (
	riskDirectionWorsened  = "worsened"
	riskDirectionImproved  = "improved"
	riskDirectionUnchanged = "unchanged"
	noFindingsMessage      = "No findings"
)

// NewCompareCmd creates the compare command.
// This command compares simulation results with historical data stored in
// the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [nanoparticle-id]",
		Short: "Compare simulation results with historical data",
		Long: `Compare displays differences between the latest and a previous
simulation of a formulation.

This command retrieves historical simulation data from the database and shows:
- Changes in target delivery, safety score, and exposure
- New advisory findings that appeared since the earlier run
- Resolved findings that are no longer raised

The comparison requires at least two simulations in the database for the
specified formulation. Use 'nanomed simulate' to run and save simulations.

Examples:
  # Compare the latest two simulations of a formulation
  nanomed compare NP_1A2B3C4D

  # List all simulation history for a formulation
  nanomed compare --list NP_1A2B3C4D

  # Compare with a specific historical simulation by ID
  nanomed compare --with-run-id 5 NP_1A2B3C4D

  # Compare simulations since a specific date
  nanomed compare --since "2026-01-01" NP_1A2B3C4D

  # Output comparison in JSON format
  nanomed compare --json NP_1A2B3C4D

  # List all stored formulations in the database
  nanomed compare --list-formulations`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List simulation history for the specified formulation")
	cmd.Flags().BoolP("list-formulations", "L", false,
		"List all stored formulations in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific simulation by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first simulation after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-formulations flag first (requires database but no ID)
	listFormulations, err := cmd.Flags().GetBool("list-formulations")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-formulations)
	var npID string
	if !listFormulations {
		if len(args) == 0 {
			return errors.New("formulation ID is required (use --list-formulations to see stored formulations)")
		}
		npID = args[0]
	}

	cfg := config.NewConfig()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	// Handle --list-formulations flag
	if listFormulations {
		return listStoredFormulations(ctx, db)
	}

	// Handle --list flag
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listSimulationHistory(ctx, db, npID)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, npID, withRunID, sinceDate, jsonOutput)
}

// listStoredFormulations lists all formulation records in the database.
func listStoredFormulations(ctx context.Context, db *database.FormulationDB) error {
	particles, err := db.ListNanoparticles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list formulations: %w", err)
	}

	if len(particles) == 0 {
		fmt.Println("No formulations found in the database.")
		fmt.Println("\nUse 'nanomed design' to create a formulation.")
		return nil
	}

	fmt.Printf("Stored formulations (%d):\n\n", len(particles))
	fmt.Printf("  %-14s  %-20s  %-16s  %-10s  %s\n",
		"ID", "Name", "Drug", "Diameter", "Material")
	fmt.Println("  " + strings.Repeat("-", 72))
	for _, np := range particles {
		fmt.Printf("  %-14s  %-20s  %-16s  %-10s  %s\n",
			np.ID,
			np.Name,
			np.DrugPayload,
			fmt.Sprintf("%.0f nm", np.DiameterNm),
			np.Material,
		)
	}
	fmt.Println("\nUse 'nanomed compare --list <id>' to see simulation history for a formulation.")

	return nil
}

// listSimulationHistory lists all simulation records for a formulation.
func listSimulationHistory(ctx context.Context, db *database.FormulationDB, npID string) error {
	reports, err := db.GetSimulationHistory(ctx, npID)
	if err != nil {
		return fmt.Errorf("failed to get simulation history: %w", err)
	}

	if len(reports) == 0 {
		fmt.Printf("No simulation history found for %s\n", npID)
		fmt.Println("\nUse 'nanomed simulate' to simulate this formulation.")
		return nil
	}

	fmt.Printf("Simulation history for %s (%d runs):\n\n", npID, len(reports))
	fmt.Printf("  %-6s  %-20s  %-10s  %s\n", "ID", "Date", "Target", "Risk Summary")
	fmt.Println("  " + strings.Repeat("-", 60))

	for _, meta := range reports {
		riskSummary := formatRiskSummary(meta.RiskSummary)
		fmt.Printf("  %-6d  %-20s  %-10s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.TargetTissue,
			riskSummary,
		)
	}

	fmt.Println("\nUse 'nanomed compare <id>' to compare the latest two simulations.")
	fmt.Println("Use 'nanomed compare --with-run-id <run-id> <id>' to compare with a specific run.")

	return nil
}

// formatRiskSummary formats the risk summary map into a human-readable string.
func formatRiskSummary(summary map[string]any) string {
	if summary == nil {
		return "N/A"
	}

	// JSON numbers decode as float64.
	count := func(key string) int {
		if v, ok := summary[key].(float64); ok {
			return int(v)
		}
		return 0
	}

	var parts []string
	if v := count("high"); v > 0 {
		parts = append(parts, fmt.Sprintf("H:%d", v))
	}
	if v := count("moderate"); v > 0 {
		parts = append(parts, fmt.Sprintf("M:%d", v))
	}
	if v := count("low"); v > 0 {
		parts = append(parts, fmt.Sprintf("L:%d", v))
	}
	if score, ok := summary["safety_score"].(float64); ok {
		parts = append(parts, fmt.Sprintf("score %.0f", score))
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between simulation reports.
func runComparison(ctx context.Context, db *database.FormulationDB, npID string, withRunID int64, sinceDate string, jsonOutput bool) error {
	reports, err := db.GetSimulationReports(ctx, npID)
	if err != nil {
		return fmt.Errorf("failed to get simulation history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no simulation history found for %s", npID)
	}

	if len(reports) < 2 && withRunID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 simulations are required for comparison (found %d)", len(reports))
	}

	// Latest report is always the current one
	currentReport := reports[0]
	var previousReport *model.SimulationReport

	switch {
	case withRunID > 0:
		previousReport, err = db.GetSimulationReportByID(ctx, withRunID)
		if err != nil {
			return fmt.Errorf("failed to get simulation with ID %d: %w", withRunID, err)
		}
		if previousReport == nil {
			return fmt.Errorf("simulation with ID %d not found", withRunID)
		}
		// Validate that the run belongs to the same formulation
		if previousReport.Nanoparticle == nil || previousReport.Nanoparticle.ID != npID {
			return fmt.Errorf("simulation ID %d does not belong to %s", withRunID, npID)
		}
	case sinceDate != "":
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Reports are sorted by timestamp DESC (newest first), so iterate in
		// reverse to find the oldest run at or after the date
		for i := len(reports) - 1; i >= 0; i-- {
			r := reports[i]
			if r.DateSimulated.After(parsedDate) || r.DateSimulated.Equal(parsedDate) {
				previousReport = r
				break
			}
		}
		if previousReport == nil {
			return fmt.Errorf("no simulations found since %s", sinceDate)
		}
		if previousReport == currentReport {
			return fmt.Errorf("only one simulation found since %s; at least 2 are required for comparison", sinceDate)
		}
	default:
		previousReport = reports[1]
	}

	comparison := compareReports(previousReport, currentReport)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two simulation reports.
type ComparisonResult struct {
	// NanoparticleID is the compared formulation.
	NanoparticleID string `json:"nanoparticle_id"`

	// PreviousRun contains metadata about the previous simulation.
	PreviousRun RunMetadata `json:"previous_run"`

	// CurrentRun contains metadata about the current simulation.
	CurrentRun RunMetadata `json:"current_run"`

	// NewFindings contains findings that are new in the current run.
	NewFindings []model.Finding `json:"new_findings,omitempty"`

	// ResolvedFindings contains findings from the previous run that are no
	// longer raised.
	ResolvedFindings []model.Finding `json:"resolved_findings,omitempty"`

	// UnchangedCount is the number of findings present in both runs.
	UnchangedCount int `json:"unchanged_count"`

	// RiskChange describes the overall change in risk.
	RiskChange RiskChange `json:"risk_change"`
}

// RunMetadata contains metadata about a simulation for comparison display.
type RunMetadata struct {
	// DateSimulated is when the simulation was performed.
	DateSimulated time.Time `json:"date_simulated"`

	// TargetTissue is the delivery target of the run.
	TargetTissue model.Tissue `json:"target_tissue"`

	// TargetFraction is the predicted dose fraction in the target tissue.
	TargetFraction float64 `json:"target_fraction"`

	// SafetyScore is the 0-100 safety score of the run.
	SafetyScore float64 `json:"safety_score"`

	// TotalFindings is the total number of advisory findings.
	TotalFindings int `json:"total_findings"`

	// HighCount is the number of high-risk findings.
	HighCount int `json:"high_count"`

	// ModerateCount is the number of moderate-risk findings.
	ModerateCount int `json:"moderate_count"`

	// LowCount is the number of low-risk findings.
	LowCount int `json:"low_count"`
}

// RiskChange describes the change in risk between simulations.
type RiskChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// ScoreDelta is the change in safety score.
	ScoreDelta float64 `json:"score_delta"`

	// TargetFractionDelta is the change in predicted target delivery.
	TargetFractionDelta float64 `json:"target_fraction_delta"`

	// HighDelta is the change in high-risk findings count.
	HighDelta int `json:"high_delta"`

	// ModerateDelta is the change in moderate-risk findings count.
	ModerateDelta int `json:"moderate_delta"`

	// LowDelta is the change in low-risk findings count.
	LowDelta int `json:"low_delta"`
}

// compareReports compares two simulation reports and generates a comparison result.
func compareReports(previous, current *model.SimulationReport) *ComparisonResult {
	result := &ComparisonResult{}
	if current.Nanoparticle != nil {
		result.NanoparticleID = current.Nanoparticle.ID
	}

	result.PreviousRun = extractRunMetadata(previous)
	result.CurrentRun = extractRunMetadata(current)

	// Build finding maps for comparison
	previousFindings := make(map[string]model.Finding)
	currentFindings := make(map[string]model.Finding)

	if previous.SimpleReport != nil {
		for _, f := range previous.SimpleReport.Findings {
			previousFindings[f.Type] = f
		}
	}
	if current.SimpleReport != nil {
		for _, f := range current.SimpleReport.Findings {
			currentFindings[f.Type] = f
		}
	}

	// Find new findings (in current but not in previous)
	for key, finding := range currentFindings {
		if _, exists := previousFindings[key]; !exists {
			result.NewFindings = append(result.NewFindings, finding)
		}
	}

	// Find resolved findings (in previous but not in current)
	for key, finding := range previousFindings {
		if _, exists := currentFindings[key]; !exists {
			result.ResolvedFindings = append(result.ResolvedFindings, finding)
		} else {
			result.UnchangedCount++
		}
	}

	result.RiskChange = calculateRiskChange(result.PreviousRun, result.CurrentRun)

	return result
}

// extractRunMetadata pulls comparison metadata out of one report.
func extractRunMetadata(report *model.SimulationReport) RunMetadata {
	meta := RunMetadata{
		DateSimulated: report.DateSimulated,
		TargetTissue:  report.TargetTissue,
	}
	if report.SimpleReport != nil {
		meta.TargetFraction = report.SimpleReport.TargetFraction
		meta.SafetyScore = report.SimpleReport.SafetyScore
		meta.TotalFindings = report.SimpleReport.TotalFindings()
		meta.HighCount = report.SimpleReport.HighCount
		meta.ModerateCount = report.SimpleReport.ModerateCount
		meta.LowCount = report.SimpleReport.LowCount
	}
	return meta
}

// calculateRiskChange calculates the change in risk between two runs.
func calculateRiskChange(previous, current RunMetadata) RiskChange {
	change := RiskChange{
		ScoreDelta:          current.SafetyScore - previous.SafetyScore,
		TargetFractionDelta: current.TargetFraction - previous.TargetFraction,
		HighDelta:           current.HighCount - previous.HighCount,
		ModerateDelta:       current.ModerateCount - previous.ModerateCount,
		LowDelta:            current.LowCount - previous.LowCount,
	}

	// Direction follows the weighted finding load; the safety score breaks
	// ties because it moves with the same penalties at finer granularity.
	previousLoad := previous.HighCount*10 + previous.ModerateCount*3 + previous.LowCount
	currentLoad := current.HighCount*10 + current.ModerateCount*3 + current.LowCount

	switch {
	case currentLoad < previousLoad:
		change.Direction = riskDirectionImproved
	case currentLoad > previousLoad:
		change.Direction = riskDirectionWorsened
	case change.ScoreDelta > 0:
		change.Direction = riskDirectionImproved
	case change.ScoreDelta < 0:
		change.Direction = riskDirectionWorsened
	default:
		change.Direction = riskDirectionUnchanged
	}

	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Simulation Comparison: %s\n", result.NanoparticleID)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nRisk Status: %s\n", formatRiskDirection(result.RiskChange.Direction))

	fmt.Printf("\nPrevious run: %s (target: %s)\n",
		result.PreviousRun.DateSimulated.Format("2006-01-02 15:04:05"),
		result.PreviousRun.TargetTissue)
	fmt.Printf("Current run:  %s (target: %s)\n",
		result.CurrentRun.DateSimulated.Format("2006-01-02 15:04:05"),
		result.CurrentRun.TargetTissue)

	fmt.Println("\nResults Summary:")
	fmt.Printf("  %-16s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 52))
	fmt.Printf("  %-16s  %-10.1f  %-10.1f  %-10s\n", "Safety score",
		result.PreviousRun.SafetyScore, result.CurrentRun.SafetyScore,
		formatFloatDelta(result.RiskChange.ScoreDelta))
	fmt.Printf("  %-16s  %-10s  %-10s  %-10s\n", "Target delivery",
		fmt.Sprintf("%.2f%%", result.PreviousRun.TargetFraction*100),
		fmt.Sprintf("%.2f%%", result.CurrentRun.TargetFraction*100),
		formatFloatDelta(result.RiskChange.TargetFractionDelta*100))
	fmt.Printf("  %-16s  %-10d  %-10d  %-10s\n", "High findings",
		result.PreviousRun.HighCount, result.CurrentRun.HighCount,
		formatDelta(result.RiskChange.HighDelta))
	fmt.Printf("  %-16s  %-10d  %-10d  %-10s\n", "Moderate findings",
		result.PreviousRun.ModerateCount, result.CurrentRun.ModerateCount,
		formatDelta(result.RiskChange.ModerateDelta))
	fmt.Printf("  %-16s  %-10d  %-10d  %-10s\n", "Low findings",
		result.PreviousRun.LowCount, result.CurrentRun.LowCount,
		formatDelta(result.RiskChange.LowDelta))

	if len(result.NewFindings) > 0 {
		fmt.Printf("\nNew Findings (%d):\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Printf("  [+] [%s] %s\n", f.LevelText, f.Type)
			if f.Impact != "" {
				fmt.Printf("      Impact: %s\n", f.Impact)
			}
		}
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Printf("\nResolved Findings (%d):\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Printf("  [-] [%s] %s\n", f.LevelText, f.Type)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d findings\n", result.UnchangedCount)
	}

	return nil
}

// formatRiskDirection formats the risk change direction for display.
func formatRiskDirection(direction string) string {
	switch direction {
	case riskDirectionImproved:
		return "IMPROVED (risk decreased)"
	case riskDirectionWorsened:
		return "WORSENED (risk increased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}

// formatFloatDelta formats a float delta with sign for display.
func formatFloatDelta(delta float64) string {
	if delta > 0 {
		return fmt.Sprintf("+%.2f", delta)
	}
	return fmt.Sprintf("%.2f", delta)
}
