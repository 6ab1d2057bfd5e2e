package cmd

import (
	"fmt"
	"os"

	"github.com/alexiusacademia/gopanel/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gopanel",
	Short: "Composite Panel Analysis Tool",
	Long: `gopanel - Go Composite Panel Analyzer

A CLI tool for the linear static analysis of flat composite
panels built from orthotropic plies.

This tool helps structural engineers perform:
  - Laminate homogenization (ABD matrix, engineering constants)
  - Ply stress recovery and failure criteria
    (max stress, Hill, Tsai-Wu, Hoffman)
  - In-plane finite element analysis of rectangular panels
  - XLSX and PDF reporting of the results

Results can also be served over HTTP with 'gopanel serve'.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gopanel v%-47s║\n", version.Version)
		fmt.Println("  ║   Go Composite Panel Analyzer                             ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for the linear static analysis of flat")
		fmt.Println("  composite panels built from orthotropic plies.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Material catalog (STEEL, D16, KMU4, VKU25)")
		fmt.Println("    • Laminate stiffness, ply stresses and failure criteria")
		fmt.Println("    • Triangular membrane finite elements with parallel assembly")
		fmt.Println("    • Deformed mesh plots, XLSX and PDF reports")
		fmt.Println()
		fmt.Println("  Use 'gopanel --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
