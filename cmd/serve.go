package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/alexiusacademia/gopanel/internal/config"
	"github.com/alexiusacademia/gopanel/internal/server"
	"github.com/alexiusacademia/gopanel/internal/store"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Start the HTTP API.

Configuration is read from the environment and an optional .env file:
  GOPANEL_ADDR          listen address (default :8080)
  GOPANEL_WORKERS       assembly workers per request
  GOPANEL_DATABASE_URL  PostgreSQL connection string, enables /api/runs
  GOPANEL_TOKEN_KEY     HMAC key; when set every request needs a bearer token
  GOPANEL_RATE          requests per second per client (default 5)
  GOPANEL_BURST         burst size per client (default 10)

Examples:
  gopanel serve
  gopanel serve --addr :9090`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides GOPANEL_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		return
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var repo store.Repository
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Printf("Error connecting to database: %v\n", err)
			return
		}
		defer db.Close()
		pg := store.NewPostgresRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			fmt.Printf("Error preparing database: %v\n", err)
			return
		}
		repo = pg
	}

	fmt.Println()
	fmt.Println("HTTP API:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Address:\t%s\n", cfg.Addr)
	fmt.Fprintf(w, "  Workers:\t%d\n", max(cfg.Workers, 1))
	fmt.Fprintf(w, "  Rate limit:\t%g req/s, burst %d\n", cfg.Rate, cfg.Burst)
	fmt.Fprintf(w, "  Bearer auth:\t%t\n", len(cfg.TokenKey) > 0)
	fmt.Fprintf(w, "  Run store:\t%t\n", repo != nil)
	w.Flush()
	fmt.Println()

	if err := server.New(cfg, repo).ListenAndServe(ctx); err != nil {
		log.Printf("Server error: %v", err)
	}
}
