package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/luggify/internal/geocode"
	"github.com/lox/luggify/internal/models"
	"github.com/lox/luggify/internal/packing"
	"github.com/lox/luggify/internal/store"
)

// Generator is the packing pipeline as the HTTP layer sees it.
type Generator interface {
	Generate(ctx context.Context, city string, start, end time.Time, trip models.TripContext) (*models.PackingResult, error)
	GenerateMultiCity(ctx context.Context, legs []models.TripLeg, shared models.TripContext) (*models.PackingResult, error)
}

// CitySearcher backs the autocomplete endpoint.
type CitySearcher interface {
	Search(ctx context.Context, query, lang string, limit int) ([]geocode.Candidate, error)
}

type Server struct {
	store       *store.Store
	pipeline    Generator
	cities      CitySearcher
	catalog     *packing.Catalog
	port        string
	defaultLang string
}

func NewServer(st *store.Store, pipeline Generator, cities CitySearcher, port, defaultLang string) *Server {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return &Server{
		store:       st,
		pipeline:    pipeline,
		cities:      cities,
		catalog:     packing.NewCatalog(),
		port:        port,
		defaultLang: defaultLang,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/packing-list", s.handleGenerate)
	mux.HandleFunc("/api/checklist/", s.handleChecklist)
	mux.HandleFunc("/api/checklists", s.handleRecent)
	mux.HandleFunc("/api/cities", s.handleCities)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
