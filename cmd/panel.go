package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alexiusacademia/gopanel/internal/boundary"
	"github.com/alexiusacademia/gopanel/internal/config"
	"github.com/alexiusacademia/gopanel/internal/diagram"
	"github.com/alexiusacademia/gopanel/internal/fem"
	"github.com/alexiusacademia/gopanel/internal/material"
	"github.com/alexiusacademia/gopanel/internal/panel"
	"github.com/alexiusacademia/gopanel/internal/report"
	"github.com/alexiusacademia/gopanel/internal/store"
	"github.com/spf13/cobra"
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Finite element analysis of rectangular composite panels",
	Long: `Solve the in-plane linear static response of a rectangular
laminated panel.

The panel is meshed with 3-node triangles, constraints and nodal
forces are applied to node groups (left, right, top, bottom and
the corners n00, n01, n10, n11), and the displacements, ply
stresses and failure indices are recovered.`,
}

// panelOutput collects the output flags shared by analyze and demo
type panelOutput struct {
	workers     int
	strategy    string
	showDiagram bool
	exportFile  string
	scale       float64
	xlsx        string
	pdf         string
	save        bool
}

func (o *panelOutput) register(c *cobra.Command) {
	c.Flags().IntVarP(&o.workers, "workers", "w", 0, "Assembly workers (default from GOPANEL_WORKERS, else serial)")
	c.Flags().StringVar(&o.strategy, "strategy", "block", "Element partitioning: block or round-robin")

	// Diagram options
	c.Flags().BoolVar(&o.showDiagram, "diagram", false, "Show ASCII failure map and displacement profile")
	c.Flags().StringVarP(&o.exportFile, "output", "o", "", "Export deformed mesh to file (png, svg, pdf)")
	c.Flags().Float64Var(&o.scale, "scale", 0, "Displacement magnification of the exported mesh (0 picks one)")

	// Reports
	c.Flags().StringVar(&o.xlsx, "xlsx", "", "Export tables to an XLSX workbook")
	c.Flags().StringVar(&o.pdf, "pdf", "", "Write a PDF report")
	c.Flags().BoolVar(&o.save, "save", false, "Store a run summary in the database (GOPANEL_DATABASE_URL)")
}

// options resolves the assembly options. The flag wins over the
// environment.
func (o *panelOutput) options(c *cobra.Command, cfg config.Config) (fem.Options, error) {
	strategy, err := fem.ParsePartitionStrategy(o.strategy)
	if err != nil {
		return fem.Options{}, err
	}
	workers := cfg.Workers
	if c.Flags().Changed("workers") {
		workers = o.workers
	}
	return fem.Options{Workers: workers, Strategy: strategy}, nil
}

var (
	panelAnalyzeFile   string
	panelAnalyzeOutput panelOutput
	panelDemoOutput    panelOutput
)

var panelAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a panel defined in a JSON file",
	Long: `Mesh, assemble and solve a panel defined in a JSON file.

Examples:
  gopanel panel analyze --file panel.json
  gopanel panel analyze -f panel.json --workers 4 --diagram
  gopanel panel analyze -f panel.json -o mesh.png --scale 500 --pdf panel.pdf`,
	Run: runPanelAnalyze,
}

var panelDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in 1 × 1 m demo panel",
	Long: `Analyze a 1 × 1 m quasi-isotropic KMU-4 panel meshed at 0.1 m,
clamped on the left edge with a unit force fx at every node
of the right edge.`,
	Run: runPanelDemo,
}

func init() {
	rootCmd.AddCommand(panelCmd)
	panelCmd.AddCommand(panelAnalyzeCmd)
	panelCmd.AddCommand(panelDemoCmd)

	panelAnalyzeCmd.Flags().StringVarP(&panelAnalyzeFile, "file", "f", "", "Path to panel JSON file [required]")
	panelAnalyzeCmd.MarkFlagRequired("file")
	panelAnalyzeOutput.register(panelAnalyzeCmd)

	panelDemoOutput.register(panelDemoCmd)
}

func runPanelAnalyze(cmd *cobra.Command, args []string) {
	def, err := panel.LoadFromFile(panelAnalyzeFile)
	if err != nil {
		fmt.Printf("Error loading panel: %v\n", err)
		return
	}
	runPanel(cmd, def, &panelAnalyzeOutput)
}

func runPanelDemo(cmd *cobra.Command, args []string) {
	runPanel(cmd, panel.DemoDefinition(), &panelDemoOutput)
}

func runPanel(cmd *cobra.Command, def *panel.Definition, out *panelOutput) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		return
	}
	opts, err := out.options(cmd, cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	start := time.Now()
	a, err := panel.Run(def, opts)
	if err != nil {
		fmt.Printf("Error analyzing panel: %v\n", err)
		return
	}
	elapsed := time.Since(start)

	printPanel(a, opts, elapsed)

	if out.showDiagram {
		printPanelDiagrams(a)
	}

	if out.exportFile != "" {
		err := diagram.ExportMeshDiagram(report.MeshDiagram(a, out.scale), out.exportFile)
		if err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
		} else {
			fmt.Printf("Diagram exported to: %s\n", out.exportFile)
		}
	}

	if out.xlsx != "" {
		if err := report.SaveWorkbook(out.xlsx, report.PanelTables(a)); err != nil {
			fmt.Printf("Error exporting workbook: %v\n", err)
		} else {
			fmt.Printf("Workbook exported to: %s\n", out.xlsx)
		}
	}

	if out.pdf != "" {
		doc := report.PanelDocument(a)
		if embeddable(out.exportFile) {
			doc.Images = append(doc.Images, out.exportFile)
		}
		if err := writePDFFile(out.pdf, doc); err != nil {
			fmt.Printf("Error writing report: %v\n", err)
		} else {
			fmt.Printf("Report written to: %s\n", out.pdf)
		}
	}

	if out.save {
		id, err := saveRun(cmd.Context(), cfg, a.Result)
		if err != nil {
			fmt.Printf("Error saving run: %v\n", err)
		} else {
			fmt.Printf("Run saved with id %d\n", id)
		}
	}
}

func printPanel(a *panel.Analysis, opts fem.Options, elapsed time.Duration) {
	def := a.Model.Definition
	lam := a.Model.Laminate
	res := a.Result
	nLen, nWid := def.MeshDivisions()

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     COMPOSITE PANEL ANALYSIS - LINEAR STATIC")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	if def.Name != "" {
		fmt.Printf("  Panel: %s\n", def.Name)
	}
	if def.Description != "" {
		fmt.Printf("  Description: %s\n", def.Description)
	}
	fmt.Println()

	fmt.Println("GEOMETRY AND MESH:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Length × Width:\t%g × %g m\n", def.Length, def.Width)
	fmt.Fprintf(w, "  Divisions:\t%d × %d\n", nLen, nWid)
	fmt.Fprintf(w, "  Start variant:\t%d\n", def.Variant())
	fmt.Fprintf(w, "  Nodes:\t%d\n", res.NNodes)
	fmt.Fprintf(w, "  Elements:\t%d\n", res.NElements)
	fmt.Fprintf(w, "  Meshed area:\t%.4f m²\n", a.Mesh.Area())
	w.Flush()
	fmt.Println()

	fmt.Println("LAMINATE:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Name:\t%s\n", lam.Name)
	fmt.Fprintf(w, "  Plies:\t%d\n", lam.NPlies())
	fmt.Fprintf(w, "  Thickness:\t%.3f mm\n", lam.Thickness*1e3)
	fmt.Fprintf(w, "  Ex, Ey:\t%.4g, %.4g Pa\n", lam.Ex, lam.Ey)
	fmt.Fprintf(w, "  Gxy, νxy:\t%.4g Pa, %.4f\n", lam.Gxy, lam.NuXY)
	w.Flush()
	fmt.Println()

	fmt.Println("BOUNDARY CONDITIONS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Group\tNodes\tFixed\tForce per node (N)\n")
	fmt.Fprintf(w, "  ─────\t─────\t─────\t──────────────────\n")
	resolved := boundary.Resolve(def.Assignments())
	for _, g := range boundary.NodeGroups {
		asg, ok := resolved[g]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %s\t%d\t%s\t%s\n", g, len(a.Boundary.Groups[g]), fixedDofs(asg.Constraint), forceString(asg.Force))
	}
	w.Flush()
	fmt.Println()

	fmt.Println("GLOBAL SYSTEM:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Equations:\t%d\n", a.System.Size())
	fmt.Fprintf(w, "  Constrained:\t%d\n", a.System.NFixed())
	fmt.Fprintf(w, "  Stored entries:\t%d\n", a.System.K.NNZ())
	fmt.Fprintf(w, "  Workers:\t%d (%s)\n", max(opts.Workers, 1), opts.Strategy)
	fmt.Fprintf(w, "  Solve time:\t%s\n", elapsed.Round(time.Microsecond))
	w.Flush()
	fmt.Println()

	fmt.Println("DISPLACEMENTS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Component\tMin (m)\tNode\tMax (m)\tNode\n")
	fmt.Fprintf(w, "  ─────────\t───────\t────\t───────\t────\n")
	for i, name := range []string{"ux", "uy"} {
		r := res.Extrema[i]
		fmt.Fprintf(w, "  %s\t%.4e\t%d\t%.4e\t%d\n", name, r.Min, r.MinNode, r.Max, r.MaxNode)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("CRITICAL ELEMENTS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Criterion\tElement\tPly\tFI\tFoS\tMoS\n")
	fmt.Fprintf(w, "  ─────────\t───────\t───\t──\t───\t───\n")
	for _, c := range res.Critical {
		fmt.Fprintf(w, "  %s\t%d\t%d\t%s\t%s\t%s\n", c.Criterion.Type, c.Element, c.Ply+1,
			formatNumber(c.Criterion.FailureIndex), formatNumber(c.Criterion.FactorOfSafety), formatNumber(c.Criterion.MarginOfSafety))
	}
	w.Flush()
	fmt.Println()

	maxNode := res.Displacements[res.MaxNode]
	status := "Panel is safe under the Tsai-Wu criterion"
	if res.CriticalFI() >= 1 {
		status = "⚠ Tsai-Wu failure index reaches 1: first ply failure"
	}
	fmt.Print(diagram.DrawSummaryBox("RESULT", []string{
		fmt.Sprintf("Max |u| = %.4e m at node %d (%.3g, %.3g)", res.MaxDisplacement, res.MaxNode, maxNode.X, maxNode.Y),
		fmt.Sprintf("Critical FI (tsai-wu) = %s", formatNumber(res.CriticalFI())),
		status,
	}))
	fmt.Println()
}

func printPanelDiagrams(a *panel.Analysis) {
	res := a.Result
	data := report.MeshDiagram(a, 0)
	data.Title = "TSAI-WU FAILURE INDEX MAP"
	fmt.Println(diagram.DrawFailureMap(data, 48))

	right := a.Model.GroupNodes(a.Mesh, boundary.Right)
	sort.Slice(right, func(i, j int) bool {
		return res.Displacements[right[i]].Y < res.Displacements[right[j]].Y
	})
	uy := make([]float64, len(right))
	for i, n := range right {
		uy[i] = res.Displacements[n].UY * 1e6
	}
	fmt.Println(diagram.DrawProfileChart("uy along the right edge", uy, "uy (µm), bottom to top"))

	labels := make([]string, len(res.Critical))
	fi := make([]float64, len(res.Critical))
	for i, c := range res.Critical {
		labels[i] = c.Criterion.Type.String()
		fi[i] = c.Criterion.FailureIndex
	}
	fmt.Println(diagram.DrawBars("critical failure index", labels, fi))

	if res.CriticalStress != nil {
		tw := res.Critical[material.TsaiWu]
		stack := report.LaminateDiagram(a.Model.Laminate, res.CriticalStress, material.TsaiWu, material.FailureIndex)
		stack.Name = fmt.Sprintf("%s (element %d)", stack.Name, tw.Element)
		fmt.Println(diagram.DrawLaminateStack(stack))
	}
}

func fixedDofs(c boundary.ConstraintVector) string {
	dofs := c.FixedDofs()
	if len(dofs) == 0 {
		return "-"
	}
	names := make([]string, len(dofs))
	for i, d := range dofs {
		names[i] = d.String()
	}
	return strings.Join(names, ",")
}

func forceString(f boundary.ForceVector) string {
	if f.IsZero() {
		return "-"
	}
	names := []string{"fx", "fy", "fz", "mx", "my", "mz"}
	var parts []string
	for i, d := range boundary.DofTypes {
		if v := f.Component(d); v != 0 {
			parts = append(parts, fmt.Sprintf("%s=%g", names[i], v))
		}
	}
	return strings.Join(parts, " ")
}

func saveRun(ctx context.Context, cfg config.Config, res *panel.Result) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	repo := store.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	return repo.SaveRun(ctx, store.NewRun(res))
}
