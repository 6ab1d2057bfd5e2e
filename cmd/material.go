package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gopanel/internal/material"
	"github.com/spf13/cobra"
)

var materialCmd = &cobra.Command{
	Use:   "material",
	Short: "Ply material catalog",
	Long: `Inspect the built-in ply materials.

Presets can be referenced by key from laminate and panel JSON files.

Examples:
  gopanel material list
  gopanel material show KMU4`,
}

var materialListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the material presets",
	Run:   runMaterialList,
}

var materialShowCmd = &cobra.Command{
	Use:   "show KEY",
	Short: "Show every property of a material preset",
	Args:  cobra.ExactArgs(1),
	Run:   runMaterialShow,
}

func init() {
	rootCmd.AddCommand(materialCmd)
	materialCmd.AddCommand(materialListCmd)
	materialCmd.AddCommand(materialShowCmd)
}

func runMaterialList(cmd *cobra.Command, args []string) {
	fmt.Println()
	fmt.Println("MATERIAL PRESETS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Key\tE1 (GPa)\tE2 (GPa)\tG12 (GPa)\tν12\tρ (kg/m³)\tLayer (mm)\n")
	fmt.Fprintf(w, "  ───\t────────\t────────\t─────────\t───\t─────────\t──────────\n")
	for _, key := range material.PresetNames() {
		m, err := material.Preset(key)
		if err != nil {
			fmt.Printf("Error loading material: %v\n", err)
			return
		}
		layer := "-"
		if m.PrepH > 0 {
			layer = fmt.Sprintf("%.3f", m.PrepH*1e3)
		}
		fmt.Fprintf(w, "  %s\t%.1f\t%.2f\t%.2f\t%.2f\t%.0f\t%s\n",
			key, m.E1/1e9, m.E2/1e9, m.G12/1e9, m.Nu12, m.Density, layer)
	}
	w.Flush()
	fmt.Println()
}

func runMaterialShow(cmd *cobra.Command, args []string) {
	m, err := material.Preset(args[0])
	if err != nil {
		fmt.Printf("Error loading material: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     MATERIAL %s\n", m.Name)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("ELASTIC CONSTANTS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  E1 (fiber):\t%.4g Pa\n", m.E1)
	fmt.Fprintf(w, "  E2 (transverse):\t%.4g Pa\n", m.E2)
	fmt.Fprintf(w, "  G12:\t%.4g Pa\n", m.G12)
	fmt.Fprintf(w, "  ν12:\t%.4f\n", m.Nu12)
	fmt.Fprintf(w, "  ν21:\t%.4f\n", m.Nu21)
	fmt.Fprintf(w, "  Isotropic:\t%t\n", m.IsIsotropic())
	w.Flush()
	fmt.Println()

	fmt.Println("STRENGTHS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  σ1 tension:\t%.4g Pa\n", m.Sig1T)
	fmt.Fprintf(w, "  σ1 compression:\t%.4g Pa\n", m.Sig1C)
	fmt.Fprintf(w, "  σ2 tension:\t%.4g Pa\n", m.Sig2T)
	fmt.Fprintf(w, "  σ2 compression:\t%.4g Pa\n", m.Sig2C)
	fmt.Fprintf(w, "  τ12 max:\t%.4g Pa\n", m.TauMax)
	w.Flush()
	fmt.Println()

	fmt.Println("PHYSICAL:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Density:\t%.0f kg/m³\n", m.Density)
	if m.PrepH > 0 {
		fmt.Fprintf(w, "  Prepreg layer:\t%.3f mm\n", m.PrepH*1e3)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("REDUCED STIFFNESS Q (GPa):")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i := 0; i < 3; i++ {
		fmt.Fprintf(w, "  \t%.3f\t%.3f\t%.3f\n", m.Q.At(i, 0)/1e9, m.Q.At(i, 1)/1e9, m.Q.At(i, 2)/1e9)
	}
	w.Flush()
	fmt.Println()
}
