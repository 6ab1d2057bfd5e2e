package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/alexiusacademia/gopanel/internal/config"
	"github.com/alexiusacademia/gopanel/internal/store"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// DefaultMaxNodes bounds the mesh size of a single request. The solver
// works on a dense copy of the stiffness matrix.
const DefaultMaxNodes = 1681

// maxBody bounds request payloads
const maxBody = 1 << 20

// Server serves the analysis API
type Server struct {
	cfg      config.Config
	repo     store.Repository // nil disables the runs endpoints
	limiter  *IPRateLimiter
	MaxNodes int
}

// New creates a server. repo may be nil.
func New(cfg config.Config, repo store.Repository) *Server {
	return &Server{
		cfg:      cfg,
		repo:     repo,
		limiter:  NewIPRateLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		MaxNodes: DefaultMaxNodes,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.limiter.LimitMiddleware)
	if len(s.cfg.TokenKey) > 0 {
		auth := &TokenAuth{Key: s.cfg.TokenKey}
		api.Use(auth.Middleware)
	}

	api.HandleFunc("/materials", s.Materials).Methods("GET")
	api.HandleFunc("/materials/{key}", s.Material).Methods("GET")
	api.HandleFunc("/laminate/analyze", s.AnalyzeLaminate).Methods("POST")
	api.HandleFunc("/panel/analyze", s.AnalyzePanel).Methods("POST")
	api.HandleFunc("/panel/report", s.PanelReport).Methods("POST")
	api.HandleFunc("/panel/export", s.PanelExport).Methods("POST")
	if s.repo != nil {
		api.HandleFunc("/runs", s.ListRuns).Methods("GET")
	}

	return logRequests(router)
}

// ListenAndServe serves until ctx is cancelled and then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}
