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

// NewSafetyCmd creates the safety command.
func NewSafetyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "safety [nanoparticle-id]",
		Short: "Assess the safety characteristics of a stored formulation",
		Long: `Safety scores a stored formulation from 0 to 100 based on its physical
and chemical characteristics. Higher scores are safer.

The assessment penalizes diameters outside the 50-150nm window, strong
surface charges, slowly clearing materials, and structurally concerning
particle types. Each penalty is reported as an advisory finding with an
impact statement and a recommendation.

Examples:
  # Assess a stored formulation
  nanomed safety NP_1A2B3C4D

  # Output the assessment as JSON
  nanomed safety --json NP_1A2B3C4D`,
		Args: cobra.ExactArgs(1),
		RunE: runSafetyCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output the assessment as JSON")

	return cmd
}

// runSafetyCmd executes the safety command.
func runSafetyCmd(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	cfg := config.NewConfig()
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

	assessment := simulate.AssessSafety(np)

	logger.Info("safety assessed",
		"nanoparticle_id", np.ID,
		"score", assessment.Score,
		"risk", assessment.Risk.String(),
	)

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(assessment)
	}

	printSafety(np, assessment)
	return nil
}

// printSafety writes the assessment in human-readable form.
func printSafety(np *model.Nanoparticle, assessment *model.SafetyAssessment) {
	fmt.Printf("Safety assessment for %s (%s)\n", np.Name, np.ID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\nScore:      %.1f / 100\n", assessment.Score)
	fmt.Printf("Risk level: %s\n", assessment.Risk)

	fmt.Println("\nPenalty breakdown:")
	fmt.Printf("  Diameter:  -%.1f\n", assessment.DiameterPenalty)
	fmt.Printf("  Charge:    -%.1f\n", assessment.ChargePenalty)
	fmt.Printf("  Material:  -%.1f\n", assessment.MaterialPenalty)
	fmt.Printf("  Type:      -%.1f\n", assessment.TypePenalty)

	if len(assessment.Findings) == 0 {
		fmt.Println("\nNo advisory findings.")
		return
	}

	fmt.Printf("\nFindings (%d):\n", len(assessment.Findings))
	for _, findingType := range assessment.Findings {
		info := model.GetFindingInfo(findingType)
		fmt.Printf("  [%s] %s\n", info.Level, findingType)
		if info.Impact != "" {
			fmt.Printf("      Impact: %s\n", info.Impact)
		}
		if info.Recommendation != "" {
			fmt.Printf("      Recommendation: %s\n", info.Recommendation)
		}
	}
}
