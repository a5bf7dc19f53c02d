package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nanomedlab/nanomed/internal/model"
	"github.com/nanomedlab/nanomed/internal/simulate"
)

// NewPharmacokineticsCmd creates the pk command.
func NewPharmacokineticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pk [nanoparticle-id]",
		Short: "Estimate the pharmacokinetic profile of a stored formulation",
		Long: `Pk estimates the concentration-time behavior of a stored formulation
using a one-compartment model with first-order absorption and elimination.

It reports Cmax, Tmax, AUC, and the elimination half-life, and can print
the full concentration-time curve sampled every 30 minutes over 72 hours.

Examples:
  # Estimate the intravenous profile with the default dose
  nanomed pk NP_1A2B3C4D

  # Estimate an oral 10mg dose and print the full curve
  nanomed pk --dose 10 --route oral --curve NP_1A2B3C4D

  # Output the profile as JSON
  nanomed pk --json NP_1A2B3C4D`,
		Args: cobra.ExactArgs(1),
		RunE: runPharmacokineticsCmd,
	}

	cmd.Flags().Float64P("dose", "d", 0,
		"Administered dose in mg (default: drug profile or 5.0)")
	cmd.Flags().StringP("route", "r", "iv",
		"Administration route (iv, oral, inhalation, topical, intratumoral)")
	cmd.Flags().BoolP("curve", "C", false,
		"Print the full concentration-time curve")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .nanomed in current or home directory)")
	cmd.Flags().BoolP("json", "j", false, "Output the profile as JSON")

	return cmd
}

// runPharmacokineticsCmd executes the pk command.
func runPharmacokineticsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	routeStr, err := cmd.Flags().GetString("route")
	if err != nil {
		return err
	}
	route, err := model.ParseRoute(routeStr)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	np, err := loadNanoparticle(ctx, db, args[0])
	if err != nil {
		return err
	}

	dose, err := resolveDose(cfg, np)
	if err != nil {
		return err
	}

	logger.Info("estimating pharmacokinetics",
		"nanoparticle_id", np.ID,
		"dose_mg", dose,
		"route", string(route),
	)

	profile, err := simulate.EstimatePharmacokinetics(np, dose, simulate.WithRoute(route))
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
		return encoder.Encode(profile)
	}

	showCurve, err := cmd.Flags().GetBool("curve")
	if err != nil {
		return err
	}

	printPharmacokinetics(np, profile, route, showCurve)
	return nil
}

// printPharmacokinetics writes the profile in human-readable form.
func printPharmacokinetics(np *model.Nanoparticle, profile *model.PharmacokineticsProfile, route model.Route, showCurve bool) {
	fmt.Printf("Pharmacokinetics for %s (%s)\n", np.Name, np.ID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\nDose:       %.2f mg (%s)\n", profile.DoseMg, route)
	fmt.Printf("Cmax:       %.3f ug/mL\n", profile.CmaxUgMl)
	fmt.Printf("Tmax:       %.2f h\n", profile.TmaxH)
	fmt.Printf("AUC:        %.2f ug*h/mL\n", profile.AUCUgHMl)
	fmt.Printf("Half-life:  %.2f h\n", profile.HalfLifeH)

	if !showCurve {
		return
	}

	fmt.Printf("\n%-10s  %s\n", "Time (h)", "Concentration (ug/mL)")
	fmt.Println(strings.Repeat("-", 34))
	for sample := range profile.Curve() {
		fmt.Printf("%-10.1f  %.4f\n", sample.TimeH, sample.ConcentrationUgMl)
	}
}
