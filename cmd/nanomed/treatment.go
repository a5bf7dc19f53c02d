package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nanomedlab/nanomed/internal/config"
	"github.com/nanomedlab/nanomed/internal/model"
)

// NewTreatmentCmd creates the treatment command group.
func NewTreatmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treatment",
		Short: "Manage treatment plans built on stored formulations",
		Long: `Treatment manages treatment plan records. A plan links a patient to a
stored formulation with a dosing regimen, and tracks observed efficacy
and side effects as the treatment progresses.

Patient identifiers are stored locally but masked in all log output.`,
	}

	cmd.AddCommand(newTreatmentCreateCmd())
	cmd.AddCommand(newTreatmentUpdateCmd())
	cmd.AddCommand(newTreatmentListCmd())

	return cmd
}

// newTreatmentCreateCmd creates the treatment create subcommand.
func newTreatmentCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a treatment plan for a stored formulation",
		Long: `Create records a new treatment plan in the planned state.

Examples:
  # Plan a twice-weekly IV treatment over 28 days
  nanomed treatment create --patient P-1042 --nanoparticle NP_1A2B3C4D \
    --dose 2.5 --route iv --frequency twice-weekly --duration 28`,
		Args: cobra.NoArgs,
		RunE: runTreatmentCreateCmd,
	}

	cmd.Flags().StringP("patient", "p", "", "Patient identifier")
	cmd.Flags().StringP("nanoparticle", "n", "", "Formulation identifier (NP_...)")
	cmd.Flags().Float64P("dose", "d", 0, "Dose in mg per kg body weight")
	cmd.Flags().StringP("route", "r", "iv",
		"Administration route (iv, oral, inhalation, topical, intratumoral)")
	cmd.Flags().StringP("frequency", "f", "", "Dosing frequency (e.g. daily, twice-weekly)")
	cmd.Flags().IntP("duration", "D", 0, "Treatment duration in days")
	cmd.Flags().BoolP("json", "j", false, "Print the stored plan as JSON")

	for _, required := range []string{"patient", "nanoparticle", "dose", "frequency", "duration"} {
		if err := cmd.MarkFlagRequired(required); err != nil {
			panic(err)
		}
	}

	return cmd
}

// runTreatmentCreateCmd executes the treatment create subcommand.
func runTreatmentCreateCmd(cmd *cobra.Command, _ []string) error {
	verbose := getVerboseFlag(cmd)
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	patient, err := cmd.Flags().GetString("patient")
	if err != nil {
		return err
	}
	npID, err := cmd.Flags().GetString("nanoparticle")
	if err != nil {
		return err
	}
	dose, err := cmd.Flags().GetFloat64("dose")
	if err != nil {
		return err
	}
	routeStr, err := cmd.Flags().GetString("route")
	if err != nil {
		return err
	}
	frequency, err := cmd.Flags().GetString("frequency")
	if err != nil {
		return err
	}
	duration, err := cmd.Flags().GetInt("duration")
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	// The plan must reference a formulation that actually exists.
	if _, err := loadNanoparticle(ctx, db, npID); err != nil {
		return err
	}

	plan, err := model.NewTreatmentPlan(patient, npID, dose, routeStr, frequency, duration)
	if err != nil {
		return err
	}

	if err := db.InsertTreatment(ctx, plan); err != nil {
		return err
	}

	logger.Info("treatment plan created",
		"treatment_id", plan.ID,
		"nanoparticle_id", plan.NanoparticleID,
		"patient_id", plan.PatientID,
	)

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(plan)
	}

	fmt.Printf("Created treatment plan %s\n\n", plan.ID)
	fmt.Printf("  Formulation: %s\n", plan.NanoparticleID)
	fmt.Printf("  Dose:        %.2f mg/kg %s via %s\n", plan.DoseMgKg, plan.Frequency, plan.Route)
	fmt.Printf("  Duration:    %d days\n", plan.DurationDays)
	fmt.Printf("  Status:      %s\n", plan.Status)

	return nil
}

// newTreatmentUpdateCmd creates the treatment update subcommand.
func newTreatmentUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [treatment-id]",
		Short: "Record observed outcomes for a treatment plan",
		Long: `Update records observed efficacy and side effects for a treatment plan.
Recording an outcome moves a planned treatment to active unless another
status is given explicitly.

Examples:
  # Record 62% efficacy with a side effect
  nanomed treatment update --efficacy 62 --side-effect nausea TX_9F8E7D6C

  # Close out a completed treatment
  nanomed treatment update --efficacy 71 --status completed TX_9F8E7D6C`,
		Args: cobra.ExactArgs(1),
		RunE: runTreatmentUpdateCmd,
	}

	cmd.Flags().Float64P("efficacy", "e", 0, "Observed efficacy in percent (0-100)")
	cmd.Flags().StringArrayP("side-effect", "s", nil,
		"Observed side effect (repeatable)")
	cmd.Flags().StringP("status", "S", "",
		"New status (planned, active, completed, discontinued)")

	if err := cmd.MarkFlagRequired("efficacy"); err != nil {
		panic(err)
	}

	return cmd
}

// runTreatmentUpdateCmd executes the treatment update subcommand.
func runTreatmentUpdateCmd(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	efficacy, err := cmd.Flags().GetFloat64("efficacy")
	if err != nil {
		return err
	}
	if efficacy < 0 || efficacy > 100 {
		return fmt.Errorf("efficacy must be between 0 and 100, got %g", efficacy)
	}

	sideEffects, err := cmd.Flags().GetStringArray("side-effect")
	if err != nil {
		return err
	}

	statusStr, err := cmd.Flags().GetString("status")
	if err != nil {
		return err
	}

	// Recording an outcome implies the treatment is underway.
	status := model.StatusActive
	if statusStr != "" {
		status, err = model.ParseTreatmentStatus(statusStr)
		if err != nil {
			return err
		}
	}

	cfg := config.NewConfig()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.UpdateTreatmentOutcome(ctx, args[0], efficacy, sideEffects, status); err != nil {
		return err
	}

	logger.Info("treatment plan updated",
		"treatment_id", args[0],
		"efficacy_pct", efficacy,
		"status", string(status),
	)

	fmt.Printf("Updated treatment %s: efficacy %.1f%%, status %s\n", args[0], efficacy, status)
	if len(sideEffects) > 0 {
		fmt.Printf("Recorded side effects: %s\n", strings.Join(sideEffects, ", "))
	}

	return nil
}

// newTreatmentListCmd creates the treatment list subcommand.
func newTreatmentListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List treatment plans",
		Long: `List shows stored treatment plans, newest first, optionally filtered
by patient or status.

Examples:
  # List all treatment plans
  nanomed treatment list

  # List active treatments for one patient
  nanomed treatment list --patient P-1042 --status active`,
		Args: cobra.NoArgs,
		RunE: runTreatmentListCmd,
	}

	cmd.Flags().StringP("patient", "p", "", "Filter by patient identifier")
	cmd.Flags().StringP("status", "S", "",
		"Filter by status (planned, active, completed, discontinued)")
	cmd.Flags().BoolP("json", "j", false, "Output the plans as JSON")

	return cmd
}

// runTreatmentListCmd executes the treatment list subcommand.
func runTreatmentListCmd(cmd *cobra.Command, _ []string) error {
	verbose := getVerboseFlag(cmd)
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	patient, err := cmd.Flags().GetString("patient")
	if err != nil {
		return err
	}

	statusStr, err := cmd.Flags().GetString("status")
	if err != nil {
		return err
	}
	var status model.TreatmentStatus
	if statusStr != "" {
		status, err = model.ParseTreatmentStatus(statusStr)
		if err != nil {
			return err
		}
	}

	cfg := config.NewConfig()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	plans, err := db.QueryTreatments(context.Background(), patient, status)
	if err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(plans)
	}

	if len(plans) == 0 {
		fmt.Println("No treatment plans found.")
		fmt.Println("\nUse 'nanomed treatment create' to plan a treatment.")
		return nil
	}

	fmt.Printf("Treatment plans (%d):\n\n", len(plans))
	fmt.Printf("  %-14s  %-14s  %-8s  %-13s  %-9s  %s\n",
		"ID", "Formulation", "Dose", "Status", "Efficacy", "Created")
	fmt.Println("  " + strings.Repeat("-", 76))

	for _, plan := range plans {
		efficacy := "-"
		if plan.EfficacyPct > 0 {
			efficacy = fmt.Sprintf("%.1f%%", plan.EfficacyPct)
		}
		fmt.Printf("  %-14s  %-14s  %-8s  %-13s  %-9s  %s\n",
			plan.ID,
			plan.NanoparticleID,
			fmt.Sprintf("%.1f", plan.DoseMgKg),
			plan.Status,
			efficacy,
			plan.CreatedAt.Format("2006-01-02"),
		)
	}

	return nil
}
