package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nanomedlab/nanomed/internal/config"
	"github.com/nanomedlab/nanomed/internal/database"
	"github.com/nanomedlab/nanomed/internal/log"
	"github.com/nanomedlab/nanomed/internal/model"
	"github.com/nanomedlab/nanomed/internal/pipeline"
	"github.com/nanomedlab/nanomed/internal/report"
)

// NewSimulateCmd creates the simulate command.
func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [nanoparticle-id]...",
		Short: "Simulate delivery of stored formulations to a target tissue",
		Long: `Simulate runs the full estimation pipeline for stored formulations.

It estimates:
- Biodistribution (dose fraction accumulated per tissue)
- Pharmacokinetics (Cmax, Tmax, AUC, half-life)
- Safety (0-100 score with advisory findings)

Results are printed and saved to the local database for later comparison.

Examples:
  # Simulate delivery to tumor tissue with the default dose
  nanomed simulate --target tumor NP_1A2B3C4D

  # Simulate an oral 10mg dose observed 24 hours post-dose
  nanomed simulate --target liver --dose 10 --route oral --time 24 NP_1A2B3C4D

  # Output JSON report to a file
  nanomed simulate --target tumor --json -o report.json NP_1A2B3C4D

  # Use drug dosing profiles from a configuration file
  nanomed simulate --target tumor -c mylab.yaml NP_1A2B3C4D

  # Simulate several formulations concurrently against the same target
  nanomed simulate --target tumor --batch 4 NP_1A2B3C4D NP_5E6F7A8B NP_9C0D1E2F

Configuration file (.nanomed) example:
  drugs:
    doxorubicin:
      defaultDoseMg: 8.0
      preferredRoute: iv
      maxDoseMg: 20.0`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSimulateCmd,
	}

	// Simulation flags
	cmd.Flags().StringP("target", "t", "",
		"Target tissue for delivery (tumor, liver, spleen, kidney, lung, brain, heart)")
	cmd.Flags().Float64P("dose", "d", 0,
		"Administered dose in mg (default: drug profile or 5.0)")
	cmd.Flags().StringP("route", "r", "iv",
		"Administration route (iv, oral, inhalation, topical, intratumoral)")
	cmd.Flags().Float64P("time", "T", 0,
		"Post-dose observation time in hours (0 = steady state)")
	cmd.Flags().IntP("batch", "b", 5,
		"Maximum concurrent simulations when multiple formulation IDs are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .nanomed in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	if err := cmd.MarkFlagRequired("target"); err != nil {
		panic(err)
	}

	return cmd
}

// runSimulateCmd executes the simulate command.
func runSimulateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbose := getVerboseFlag(cmd)
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	target, err := parseTargetFlag(cmd)
	if err != nil {
		return err
	}

	routeStr, err := cmd.Flags().GetString("route")
	if err != nil {
		return err
	}
	route, err := model.ParseRoute(routeStr)
	if err != nil {
		return err
	}

	timeH, err := cmd.Flags().GetFloat64("time")
	if err != nil {
		return err
	}
	if timeH < 0 {
		return errors.New("observation time must not be negative")
	}

	// Multiple formulations run concurrently through the batch processor.
	if len(args) > 1 {
		batchSize, err := cmd.Flags().GetInt("batch")
		if err != nil {
			return err
		}
		return runBatchSimulation(ctx, cfg, args, target, route, timeH, batchSize, logger)
	}

	return runSimulation(ctx, cfg, args[0], target, route, timeH, logger)
}

// parseTargetFlag reads and validates the --target flag.
func parseTargetFlag(cmd *cobra.Command) (model.Tissue, error) {
	targetStr, err := cmd.Flags().GetString("target")
	if err != nil {
		return "", err
	}
	return model.ParseTissue(targetStr)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	// Not every command carries every flag; read only what is registered.
	if cmd.Flags().Lookup("config") != nil {
		cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Lookup("dose") != nil {
		cfg.DoseMg, err = cmd.Flags().GetFloat64("dose")
		if err != nil {
			return nil, err
		}
		if cfg.DoseMg < 0 {
			return nil, errors.New("dose must not be negative")
		}
	}

	// Load drug dosing profiles from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.DrugProfiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.DrugProfiles = &config.File{
			Drugs: make(map[string]config.DrugProfile),
		}
	}

	if cmd.Flags().Lookup("json") != nil {
		cfg.JSONReport, err = cmd.Flags().GetBool("json")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Lookup("markdown") != nil {
		cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Lookup("output") != nil {
		cfg.ReportFile, err = cmd.Flags().GetString("output")
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// setupLogger creates a structured logger with patient-data masking.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewPrivacyLogger(os.Stderr, verbose)
}

// openDB opens the formulation database in the configured directory.
func openDB(cfg *config.Config) (*database.FormulationDB, error) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadNanoparticle retrieves a stored formulation by ID.
func loadNanoparticle(ctx context.Context, db *database.FormulationDB, id string) (*model.Nanoparticle, error) {
	np, err := db.GetNanoparticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if np == nil {
		return nil, fmt.Errorf("formulation %s not found (use 'nanomed design' to create one)", id)
	}
	return np, nil
}

// runSimulation executes the estimation pipeline for one stored formulation.
func runSimulation(ctx context.Context, cfg *config.Config, npID string, target model.Tissue, route model.Route, timeH float64, logger *slog.Logger) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database opened", "dir", cfg.DBDir)

	np, err := loadNanoparticle(ctx, db, npID)
	if err != nil {
		return err
	}

	dose, err := resolveDose(cfg, np)
	if err != nil {
		return err
	}

	logger.Info("starting simulation",
		"nanoparticle_id", np.ID,
		"target_tissue", string(target),
		"dose_mg", dose,
		"route", string(route),
	)

	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddSteps(
		pipeline.NewSafetyStep(),
		pipeline.NewBiodistributionStep(timeH),
		pipeline.NewPharmacokineticsStep(route),
		pipeline.NewSummarizeStep(),
		pipeline.NewPersistStep(db),
	)

	simReport := model.NewSimulationReport(np, target, dose)

	fmt.Printf("Simulating %s -> %s...\n", np.Name, target)
	startTime := time.Now()

	if err := p.Execute(ctx, simReport); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Simulation completed in %s\n", elapsed.Round(time.Millisecond))

	attachDrugNotes(cfg, simReport)

	return outputReport(cfg, simReport)
}

// runBatchSimulation simulates multiple stored formulations concurrently
// against the same target and dose using the batch processor. All
// formulations are resolved before any simulation starts so a typo in one
// ID fails the whole invocation up front.
//
// Batch runs share one dose (the --dose flag or the global default);
// per-drug profile doses apply in single-formulation mode only.
func runBatchSimulation(ctx context.Context, cfg *config.Config, npIDs []string, target model.Tissue, route model.Route, timeH float64, batchSize int, logger *slog.Logger) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database opened", "dir", cfg.DBDir)

	particles := make([]*model.Nanoparticle, 0, len(npIDs))
	for _, id := range npIDs {
		np, err := loadNanoparticle(ctx, db, id)
		if err != nil {
			return err
		}
		particles = append(particles, np)
	}

	dose := cfg.DoseMg
	if dose == 0 {
		dose = config.DefaultDoseMg
	}
	if cfg.DoseMg == 0 && cfg.DrugProfiles != nil && len(cfg.DrugProfiles.Drugs) > 0 {
		logger.Warn("batch mode uses one shared dose; per-drug profile doses are ignored",
			"dose_mg", dose,
		)
		fmt.Fprintf(os.Stderr, "Warning: Per-drug profile doses are ignored in batch mode. Simulate one formulation at a time to apply them.\n\n")
	}

	fmt.Printf("Starting batch simulation of %d formulations (concurrency: %d)...\n\n",
		len(particles), batchSize)
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			p := pipeline.New(
				pipeline.WithLogger(logger),
				pipeline.WithContinueOnError(true),
			)
			p.AddSteps(
				pipeline.NewSafetyStep(),
				pipeline.NewBiodistributionStep(timeH),
				pipeline.NewPharmacokineticsStep(route),
				pipeline.NewSummarizeStep(),
				pipeline.NewPersistStep(db),
			)
			return p
		},
		pipeline.WithConcurrency(batchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Serialize report output; callbacks arrive from worker goroutines.
	var mu sync.Mutex
	err = bp.ProcessBatchWithCallback(ctx, particles, target, dose,
		func(simReport *model.SimulationReport, index int) {
			mu.Lock()
			defer mu.Unlock()

			id := npIDs[index]
			fmt.Printf("[%d/%d] Simulation completed: %s\n", index+1, len(particles), id)

			attachDrugNotes(cfg, simReport)
			if err := outputReport(cfg, simReport); err != nil {
				logger.Error("report failed", "nanoparticle_id", id, "error", err)
			}
		})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch simulation completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// drugProfileFor returns the merged profile for a formulation's payload.
func drugProfileFor(cfg *config.Config, np *model.Nanoparticle) config.DrugProfile {
	if cfg.DrugProfiles == nil {
		return config.DrugProfile{}
	}
	return cfg.DrugProfiles.GetDrugProfile(np.DrugPayload)
}

// attachDrugNotes copies the configured drug notes onto the simple report so
// writers can render them.
func attachDrugNotes(cfg *config.Config, simReport *model.SimulationReport) {
	if simReport.Nanoparticle == nil {
		return
	}
	notes := drugProfileFor(cfg, simReport.Nanoparticle).Notes
	if notes == "" {
		return
	}
	if simReport.SimpleReport == nil {
		simReport.SimpleReport = model.NewSimpleReport(simReport)
	}
	simReport.SimpleReport.DrugNotes = notes
}

// resolveDose determines the dose for a simulation: the --dose flag wins,
// then the drug's configured profile, then the global default. The
// configured per-drug maximum is enforced when set.
func resolveDose(cfg *config.Config, np *model.Nanoparticle) (float64, error) {
	dose := cfg.DoseMg
	if dose == 0 {
		if cfg.DrugProfiles != nil {
			dose = cfg.DrugProfiles.DoseFor(np.DrugPayload)
		} else {
			dose = config.DefaultDoseMg
		}
	}

	if dose <= 0 {
		return 0, errors.New("dose must be positive")
	}
	profile := drugProfileFor(cfg, np)
	if profile.MaxDoseMg > 0 && dose > profile.MaxDoseMg {
		return 0, fmt.Errorf("dose %.2f mg exceeds configured maximum %.2f mg for %s",
			dose, profile.MaxDoseMg, np.DrugPayload)
	}

	return dose, nil
}

// outputReport outputs the simulation report in the requested format.
func outputReport(cfg *config.Config, simReport *model.SimulationReport) error {
	// Generate simple report if needed
	if simReport.SimpleReport == nil {
		simReport.SimpleReport = model.NewSimpleReport(simReport)
	}

	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions.
		// Reports may reference treatment context that should stay private.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (detailed report with all data)
	if cfg.JSONReport {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err := writer.Write(simReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(simReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(simReport)
	return err
}
