// Package main provides the entry point for the nanomed CLI.
//
// nanomed is a nanoparticle drug delivery design and simulation tool.
// It estimates tissue biodistribution, pharmacokinetics, and safety for
// candidate formulations, and proposes optimized designs for a target tissue.
//
// Usage:
//
//	nanomed design --name my-liposome --type liposome --diameter 100 --drug doxorubicin --material lipid
//	nanomed simulate --target tumor NP_1A2B3C4D
//
// See --help for all available options.
package main

// main is the entry point for nanomed.
func main() {
	Execute()
}
