package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/gopanel/internal/diagram"
	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/material"
	"github.com/alexiusacademia/gopanel/internal/report"
	"github.com/spf13/cobra"
)

var laminateCmd = &cobra.Command{
	Use:   "laminate",
	Short: "Laminate stiffness and ply stress analysis",
	Long: `Homogenize a stack of orthotropic plies defined in a JSON file.

The laminate section computes the ABD stiffness matrix and the
engineering constants. When the file carries a load case
[Nx, Ny, Nxy, Mx, My, Mxy], ply stresses and failure criteria
are evaluated as well.`,
}

var (
	laminateAnalyzeFile        string
	laminateAnalyzeValue       string
	laminateAnalyzeCriterion   string
	laminateAnalyzeShowDiagram bool
	laminateAnalyzeExportFile  string
	laminateAnalyzeXLSX        string
	laminateAnalyzePDF         string
)

var laminateAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a laminate and its load case",
	Long: `Compute the laminate stiffness and, when a load is given, the
principal ply stresses with the max stress, Hill, Tsai-Wu and
Hoffman criteria.

Examples:
  gopanel laminate analyze --file quasi.json
  gopanel laminate analyze -f quasi.json --value fi --diagram
  gopanel laminate analyze -f quasi.json -o plies.png --xlsx quasi.xlsx`,
	Run: runLaminateAnalyze,
}

func init() {
	rootCmd.AddCommand(laminateCmd)
	laminateCmd.AddCommand(laminateAnalyzeCmd)

	laminateAnalyzeCmd.Flags().StringVarP(&laminateAnalyzeFile, "file", "f", "", "Path to laminate JSON file [required]")
	laminateAnalyzeCmd.MarkFlagRequired("file")

	laminateAnalyzeCmd.Flags().StringVar(&laminateAnalyzeValue, "value", "fos", "Criterion value to tabulate: fi, fos or mos")
	laminateAnalyzeCmd.Flags().StringVar(&laminateAnalyzeCriterion, "criterion", "tsai-wu", "Criterion shown in the diagrams")

	// Diagram options
	laminateAnalyzeCmd.Flags().BoolVar(&laminateAnalyzeShowDiagram, "diagram", false, "Show ASCII laminate stack")
	laminateAnalyzeCmd.Flags().StringVarP(&laminateAnalyzeExportFile, "output", "o", "", "Export ply stress diagram to file (png, svg, pdf)")

	// Reports
	laminateAnalyzeCmd.Flags().StringVar(&laminateAnalyzeXLSX, "xlsx", "", "Export tables to an XLSX workbook")
	laminateAnalyzeCmd.Flags().StringVar(&laminateAnalyzePDF, "pdf", "", "Write a PDF report")
}

func runLaminateAnalyze(cmd *cobra.Command, args []string) {
	vt, err := material.ParseCriterionValueType(laminateAnalyzeValue)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	ct, err := material.ParseCriterionType(laminateAnalyzeCriterion)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	def, err := laminate.LoadFromFile(laminateAnalyzeFile)
	if err != nil {
		fmt.Printf("Error loading laminate: %v\n", err)
		return
	}

	lam, err := def.Build()
	if err != nil {
		fmt.Printf("Error computing laminate: %v\n", err)
		return
	}

	var stress *laminate.Stress
	if def.Load != nil {
		stress, err = lam.Stress(*def.Load)
		if err != nil {
			fmt.Printf("Error computing ply stresses: %v\n", err)
			return
		}
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     LAMINATE ANALYSIS - CLASSICAL LAMINATE THEORY")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	if lam.Name != "" {
		fmt.Printf("  Laminate: %s\n", lam.Name)
	}
	if def.Description != "" {
		fmt.Printf("  Description: %s\n", def.Description)
	}
	fmt.Println()

	printLaminate(lam)

	if stress == nil {
		fmt.Println("  No load case given; ply stresses were not evaluated.")
		fmt.Println()
	} else {
		load := *def.Load
		fmt.Println("LOAD CASE:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Nx, Ny, Nxy:\t%.4g\t%.4g\t%.4g\tN/m\n", load[0], load[1], load[2])
		fmt.Fprintf(w, "  Mx, My, Mxy:\t%.4g\t%.4g\t%.4g\tN·m/m\n", load[3], load[4], load[5])
		fmt.Fprintf(w, "  εx, εy, γxy:\t%.4e\t%.4e\t%.4e\t\n", stress.Strain[0], stress.Strain[1], stress.Strain[2])
		fmt.Fprintf(w, "  κx, κy, κxy:\t%.4e\t%.4e\t%.4e\t1/m\n", stress.Strain[3], stress.Strain[4], stress.Strain[5])
		w.Flush()
		fmt.Println()

		if err := printPlyStress(stress, vt); err != nil {
			fmt.Printf("Error tabulating criteria: %v\n", err)
			return
		}
	}

	data := report.LaminateDiagram(lam, stress, ct, vt)

	if laminateAnalyzeShowDiagram {
		fmt.Println(diagram.DrawLaminateStack(data))
	}

	if laminateAnalyzeExportFile != "" {
		err := diagram.ExportPlyStressDiagram(data, laminateAnalyzeExportFile)
		if err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
		} else {
			fmt.Printf("Diagram exported to: %s\n", laminateAnalyzeExportFile)
		}
	}

	if laminateAnalyzeXLSX != "" {
		err := report.SaveWorkbook(laminateAnalyzeXLSX, report.LaminateTables(lam, stress))
		if err != nil {
			fmt.Printf("Error exporting workbook: %v\n", err)
		} else {
			fmt.Printf("Workbook exported to: %s\n", laminateAnalyzeXLSX)
		}
	}

	if laminateAnalyzePDF != "" {
		doc := report.LaminateDocument(lam, stress)
		if embeddable(laminateAnalyzeExportFile) {
			doc.Images = append(doc.Images, laminateAnalyzeExportFile)
		}
		if err := writePDFFile(laminateAnalyzePDF, doc); err != nil {
			fmt.Printf("Error writing report: %v\n", err)
		} else {
			fmt.Printf("Report written to: %s\n", laminateAnalyzePDF)
		}
	}
}

// printLaminate prints the stack, the engineering constants and the ABD
// matrix
func printLaminate(lam *laminate.Laminate) {
	fmt.Println("PLY STACK (top to bottom):")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Ply\tMaterial\tAngle\tThickness (mm)\tz (mm)\n")
	fmt.Fprintf(w, "  ───\t────────\t─────\t──────────────\t──────\n")
	for i, p := range lam.Plies() {
		fmt.Fprintf(w, "  %d\t%s\t%.1f°\t%.3f\t%+.3f … %+.3f\n",
			i+1, p.Material.Name, p.AngleDegrees(), p.Thickness*1e3, p.ZBot*1e3, p.ZTop*1e3)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("ENGINEERING CONSTANTS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Thickness:\t%.3f mm\n", lam.Thickness*1e3)
	fmt.Fprintf(w, "  Area density:\t%.3f kg/m²\n", lam.AreaDensity)
	fmt.Fprintf(w, "  Ex:\t%.4g Pa\n", lam.Ex)
	fmt.Fprintf(w, "  Ey:\t%.4g Pa\n", lam.Ey)
	fmt.Fprintf(w, "  Gxy:\t%.4g Pa\n", lam.Gxy)
	fmt.Fprintf(w, "  νxy:\t%.4f\n", lam.NuXY)
	fmt.Fprintf(w, "  νyx:\t%.4f\n", lam.NuYX)
	w.Flush()
	fmt.Println()

	fmt.Println("ABD MATRIX:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	for i := 0; i < 6; i++ {
		fmt.Fprint(w, "  ")
		for j := 0; j < 6; j++ {
			fmt.Fprintf(w, "\t%.4g", lam.Stiffness.At(i, j))
		}
		fmt.Fprintln(w, "\t")
	}
	w.Flush()
	fmt.Println()
}

// printPlyStress prints principal ply stresses and one representation of
// the criteria
func printPlyStress(stress *laminate.Stress, vt material.CriterionValueType) error {
	fmt.Println("PLY STRESSES (principal axes):")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Ply\tσ1 (MPa)\tσ2 (MPa)\tτ12 (MPa)\n")
	fmt.Fprintf(w, "  ───\t────────\t────────\t─────────\n")
	sig := stress.Sig12Table()
	for i := range stress.Plies {
		fmt.Fprintf(w, "  %d\t%.3f\t%.3f\t%.3f\n", i+1, sig.At(i, 0)/1e6, sig.At(i, 1)/1e6, sig.At(i, 2)/1e6)
	}
	w.Flush()
	fmt.Println()

	table, err := stress.CriterionTable(vt)
	if err != nil {
		return err
	}
	fmt.Printf("FAILURE CRITERIA (%s):\n", vt)
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "  Ply")
	for _, ct := range laminate.TableCriteria {
		fmt.Fprintf(w, "\t%s", ct)
	}
	fmt.Fprintln(w)
	for i := range stress.Plies {
		fmt.Fprintf(w, "  %d", i+1)
		for j := range laminate.TableCriteria {
			fmt.Fprintf(w, "\t%s", formatNumber(table.At(i, j)))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	fmt.Println()

	var lines []string
	for _, ct := range material.CriterionTypes {
		ply, c := stress.Critical(ct)
		lines = append(lines, fmt.Sprintf("%-10s ply %d  FI = %s  FoS = %s",
			ct, ply+1, formatNumber(c.FailureIndex), formatNumber(c.FactorOfSafety)))
	}
	fmt.Print(diagram.DrawSummaryBox("CRITICAL PLIES", lines))
	fmt.Println()
	return nil
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

// embeddable reports whether an exported diagram can go into a PDF report
func embeddable(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg":
		_, err := os.Stat(filename)
		return err == nil
	}
	return false
}

func writePDFFile(filename string, doc report.Document) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := report.WritePDF(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
