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
	"github.com/nanomedlab/nanomed/internal/simulate"
)

// NewOptimizeCmd creates the optimize command.
func NewOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize [drug-payload]",
		Short: "Propose an optimized formulation for a drug and target tissue",
		Long: `Optimize searches a grid of candidate designs (material, diameter,
surface charge, targeting ligand) and proposes the one with the best
combination of predicted target delivery and safety score.

Examples:
  # Find the best design for delivering doxorubicin to tumor tissue
  nanomed optimize --target tumor doxorubicin

  # Store the recommendation as a formulation record
  nanomed optimize --target brain --save temozolomide

  # Output the recommendation as JSON
  nanomed optimize --target liver --json sorafenib`,
		Args: cobra.ExactArgs(1),
		RunE: runOptimizeCmd,
	}

	cmd.Flags().StringP("target", "t", "",
		"Target tissue for delivery (tumor, liver, spleen, kidney, lung, brain, heart)")
	cmd.Flags().BoolP("save", "s", false,
		"Store the recommended design as a formulation record")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .nanomed in current or home directory)")
	cmd.Flags().BoolP("json", "j", false, "Output the recommendation as JSON")

	if err := cmd.MarkFlagRequired("target"); err != nil {
		panic(err)
	}

	return cmd
}

// runOptimizeCmd executes the optimize command.
func runOptimizeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	target, err := parseTargetFlag(cmd)
	if err != nil {
		return err
	}

	drugPayload := args[0]

	logger.Info("optimizing formulation",
		"drug_payload", drugPayload,
		"target_tissue", string(target),
	)

	rec, err := simulate.Optimize(drugPayload, target)
	if err != nil {
		return err
	}

	// A configured preferred route for this drug overrides the
	// tissue-derived default.
	if cfg.DrugProfiles != nil {
		profile := cfg.DrugProfiles.GetDrugProfile(drugPayload)
		if profile.PreferredRoute != "" {
			route, err := model.ParseRoute(profile.PreferredRoute)
			if err != nil {
				return fmt.Errorf("config file: %w", err)
			}
			rec.Route = route
		}
	}

	save, err := cmd.Flags().GetBool("save")
	if err != nil {
		return err
	}

	var savedID string
	if save {
		savedID, err = saveRecommendation(cfg, rec)
		if err != nil {
			return err
		}
		logger.Info("recommendation stored", "nanoparticle_id", savedID)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rec)
	}

	printRecommendation(rec, savedID)
	return nil
}

// saveRecommendation stores the recommended design as a formulation record
// and returns its assigned identifier.
func saveRecommendation(cfg *config.Config, rec *simulate.Recommendation) (string, error) {
	var opts []model.NanoparticleOption
	opts = append(opts, model.WithSurfaceCharge(rec.SurfaceChargeMv))
	if rec.TargetingLigand != "" {
		opts = append(opts, model.WithTargetingLigand(rec.TargetingLigand))
	}

	name := fmt.Sprintf("%s-%s-optimized", rec.DrugPayload, rec.TargetTissue)
	np, err := model.NewNanoparticle(name, string(rec.ParticleType), rec.DiameterNm,
		rec.DrugPayload, string(rec.Material), opts...)
	if err != nil {
		return "", err
	}

	db, err := openDB(cfg)
	if err != nil {
		return "", err
	}
	defer db.Close()

	if err := db.InsertNanoparticle(context.Background(), np); err != nil {
		return "", err
	}

	return np.ID, nil
}

// printRecommendation writes the recommendation in human-readable form.
func printRecommendation(rec *simulate.Recommendation, savedID string) {
	fmt.Printf("Optimized formulation for %s -> %s\n", rec.DrugPayload, rec.TargetTissue)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n  Particle type:   %s\n", rec.ParticleType)
	fmt.Printf("  Material:        %s\n", rec.Material)
	fmt.Printf("  Diameter:        %.0f nm\n", rec.DiameterNm)
	fmt.Printf("  Surface charge:  %.0f mV\n", rec.SurfaceChargeMv)
	if rec.TargetingLigand != "" {
		fmt.Printf("  Targeting ligand: %s\n", rec.TargetingLigand)
	} else {
		fmt.Println("  Targeting ligand: none")
	}
	fmt.Printf("  Route:           %s\n", rec.Route)

	fmt.Printf("\nPredicted target delivery: %.2f%% of dose\n", rec.PredictedFraction*100)
	fmt.Printf("Predicted safety score:    %.1f / 100\n", rec.SafetyScore)

	if savedID != "" {
		fmt.Printf("\nStored as %s\n", savedID)
		fmt.Printf("Use 'nanomed simulate --target %s %s' to evaluate it.\n", rec.TargetTissue, savedID)
	}
}
