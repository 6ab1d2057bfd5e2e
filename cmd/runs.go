package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alexiusacademia/gopanel/internal/config"
	"github.com/alexiusacademia/gopanel/internal/store"
	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored panel runs",
	Long: `List the latest panel runs saved with 'gopanel panel analyze --save'.

Requires GOPANEL_DATABASE_URL.`,
	Run: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		return
	}
	defer db.Close()

	repo := store.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		fmt.Printf("Error preparing database: %v\n", err)
		return
	}
	runs, err := repo.ListRuns(ctx, runsLimit)
	if err != nil {
		fmt.Printf("Error listing runs: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("PANEL RUNS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ID\tName\tNodes\tElements\tMax |u| (m)\tFI\tCreated\n")
	fmt.Fprintf(w, "  ──\t────\t─────\t────────\t───────────\t──\t───────\n")
	for _, r := range runs {
		fi := "-"
		if r.CriticalFI != nil {
			fi = formatNumber(*r.CriticalFI)
		}
		fmt.Fprintf(w, "  %d\t%s\t%d\t%d\t%.4e\t%s\t%s\n",
			r.ID, r.Name, r.Nodes, r.Elements, r.MaxDisplacement, fi, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	fmt.Println()
}
