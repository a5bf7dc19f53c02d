// Package main provides the entry point for the nanomed CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for nanomed.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nanomed",
		Short: "Nanoparticle drug delivery design and simulation tool",
		Long: `nanomed designs and evaluates nanoparticle drug delivery formulations.

It estimates how a formulation distributes across tissues, predicts its
concentration-time profile, scores its safety characteristics, and proposes
optimized designs for a given drug and target tissue. Formulations,
treatment plans, and simulation results are stored in a local database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewDesignCmd())
	cmd.AddCommand(NewSimulateCmd())
	cmd.AddCommand(NewPharmacokineticsCmd())
	cmd.AddCommand(NewSafetyCmd())
	cmd.AddCommand(NewOptimizeCmd())
	cmd.AddCommand(NewTreatmentCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
