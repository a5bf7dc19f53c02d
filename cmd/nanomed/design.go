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

// NewDesignCmd creates the design command.
func NewDesignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Design and store a new nanoparticle formulation",
		Long: `Design creates a nanoparticle formulation record and stores it in the
local database. The record is assigned an NP_ identifier that the other
commands (simulate, pk, safety, compare, treatment) accept.

The surface charge defaults to a value typical for the chosen material
and can be overridden with --charge.

Examples:
  # Design a PEGylated liposome carrying doxorubicin
  nanomed design --name dox-lipo --type liposome --diameter 100 \
    --drug doxorubicin --material lipid --ligand peg

  # Design a gold nanoparticle with an explicit surface charge
  nanomed design --name au-core --type metallic --diameter 40 \
    --drug paclitaxel --material gold --charge -12

  # Print the stored record as JSON
  nanomed design --name dox-lipo --type liposome --diameter 100 \
    --drug doxorubicin --material lipid --json`,
		Args: cobra.NoArgs,
		RunE: runDesignCmd,
	}

	cmd.Flags().StringP("name", "n", "", "Formulation name")
	cmd.Flags().StringP("type", "t", "",
		"Particle type ("+joinParticleTypes()+")")
	cmd.Flags().Float64P("diameter", "d", 0,
		fmt.Sprintf("Particle diameter in nm (%g-%g)", model.MinDiameterNm, model.MaxDiameterNm))
	cmd.Flags().StringP("drug", "D", "", "Drug payload identifier")
	cmd.Flags().StringP("material", "M", "",
		"Carrier material ("+joinMaterials()+")")
	cmd.Flags().Float64P("charge", "C", 0,
		"Surface charge in mV (default: typical for the material)")
	cmd.Flags().StringP("ligand", "l", "", "Targeting ligand (e.g. rgd_peptide, folate, peg)")
	cmd.Flags().Float64P("encapsulation", "e", 0,
		fmt.Sprintf("Drug encapsulation efficiency in percent (default %g)", model.DefaultEncapsulationPct))
	cmd.Flags().BoolP("json", "j", false, "Print the stored record as JSON")

	for _, required := range []string{"name", "type", "diameter", "drug", "material"} {
		if err := cmd.MarkFlagRequired(required); err != nil {
			panic(err)
		}
	}

	return cmd
}

// joinParticleTypes lists the accepted particle types for flag help.
func joinParticleTypes() string {
	types := model.ParticleTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// joinMaterials lists the accepted materials for flag help.
func joinMaterials() string {
	materials := model.Materials()
	names := make([]string, len(materials))
	for i, m := range materials {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// runDesignCmd executes the design command.
func runDesignCmd(cmd *cobra.Command, _ []string) error {
	verbose := getVerboseFlag(cmd)
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	typeStr, err := cmd.Flags().GetString("type")
	if err != nil {
		return err
	}
	diameter, err := cmd.Flags().GetFloat64("diameter")
	if err != nil {
		return err
	}
	drug, err := cmd.Flags().GetString("drug")
	if err != nil {
		return err
	}
	materialStr, err := cmd.Flags().GetString("material")
	if err != nil {
		return err
	}
	ligand, err := cmd.Flags().GetString("ligand")
	if err != nil {
		return err
	}

	var opts []model.NanoparticleOption
	if cmd.Flags().Changed("charge") {
		charge, err := cmd.Flags().GetFloat64("charge")
		if err != nil {
			return err
		}
		opts = append(opts, model.WithSurfaceCharge(charge))
	}
	if cmd.Flags().Changed("encapsulation") {
		encapsulation, err := cmd.Flags().GetFloat64("encapsulation")
		if err != nil {
			return err
		}
		opts = append(opts, model.WithEncapsulation(encapsulation))
	}
	if ligand != "" {
		opts = append(opts, model.WithTargetingLigand(ligand))
	}

	np, err := model.NewNanoparticle(name, typeStr, diameter, drug, materialStr, opts...)
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
	if err := db.InsertNanoparticle(ctx, np); err != nil {
		return err
	}

	logger.Info("formulation stored", "nanoparticle_id", np.ID, "name", np.Name)

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(np)
	}

	fmt.Printf("Created formulation %s\n\n", np.ID)
	fmt.Printf("  Name:           %s\n", np.Name)
	fmt.Printf("  Type:           %s\n", np.Type)
	fmt.Printf("  Material:       %s\n", np.Material)
	fmt.Printf("  Diameter:       %.1f nm\n", np.DiameterNm)
	fmt.Printf("  Surface charge: %.1f mV\n", np.SurfaceChargeMv)
	fmt.Printf("  Drug payload:   %s\n", np.DrugPayload)
	fmt.Printf("  Encapsulation:  %.1f%%\n", np.EncapsulationPct)
	if np.HasLigand() {
		fmt.Printf("  Ligand:         %s\n", np.TargetingLigand)
	}
	fmt.Printf("\nUse 'nanomed simulate --target <tissue> %s' to evaluate it.\n", np.ID)

	return nil
}
