// Package httpapi serves the dataset and fixture difficulty results over HTTP
// for the dashboard.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/dataset"
	"github.com/huangsam/fdr/internal/fetch"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// refreshTimeout bounds a single upstream sync.
const refreshTimeout = 5 * time.Minute

var errRefreshDisabled = errors.New("refresh is not configured")

// Server holds the current dataset snapshot and answers API requests from it.
// A refresh replaces the snapshot wholesale; handlers never see a partial dataset.
type Server struct {
	cfg      *contract.Config
	mgr      contract.CacheManager
	fetcher  contract.Fetcher
	logger   *zap.Logger
	validate *validator.Validate

	mu         sync.RWMutex
	ds         *dataset.Dataset
	generation uint64 // bumped on every replace; written with both locks held

	resultsMu sync.RWMutex
	results   map[string][]byte // encoded responses keyed by request URI

	computed func() // runs between computing and storing a cached result; tests only
}

// NewServer loads the dataset from cfg.DataDir. fetcher may be nil, in which
// case refreshes are rejected and the server only serves what is on disk.
func NewServer(cfg *contract.Config, mgr contract.CacheManager, fetcher contract.Fetcher, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ds, err := dataset.Load(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:      cfg,
		mgr:      mgr,
		fetcher:  fetcher,
		logger:   logger,
		validate: newValidator(),
		ds:       ds,
		results:  map[string][]byte{},
	}, nil
}

// snapshot returns the current dataset and its generation.
func (s *Server) snapshot() (*dataset.Dataset, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds, s.generation
}

// replace swaps in a new dataset and drops every cached result.
// resultsMu is taken first so a result store never interleaves with the swap.
func (s *Server) replace(ds *dataset.Dataset) {
	s.resultsMu.Lock()
	defer s.resultsMu.Unlock()

	s.mu.Lock()
	s.ds = ds
	s.generation++
	s.mu.Unlock()

	s.results = map[string][]byte{}
}

// storeResult caches body unless the dataset changed since generation.
func (s *Server) storeResult(key string, generation uint64, body []byte) bool {
	s.resultsMu.Lock()
	defer s.resultsMu.Unlock()
	if s.generation != generation {
		return false
	}
	s.results[key] = body
	return true
}

// Refresh syncs the dataset from upstream and swaps it in.
// On failure the previous snapshot keeps serving.
func (s *Server) Refresh(ctx context.Context) error {
	if s.fetcher == nil {
		return errRefreshDisabled
	}
	start := time.Now()
	ds, err := fetch.Sync(ctx, s.fetcher, s.cfg.DataDir, s.cfg.Promoted)
	if err != nil {
		return err
	}
	s.replace(ds)
	s.logger.Info("Dataset refreshed",
		zap.Int("teams", len(ds.Teams)),
		zap.Int("fixtures", len(ds.Fixtures)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// ScheduleRefresh registers a periodic refresh on the given cron spec and starts it.
// The caller stops the returned scheduler.
func (s *Server) ScheduleRefresh(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			s.logger.Error("Scheduled refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	c.Start()
	s.logger.Info("Refresh scheduler started", zap.String("schedule", spec))
	return c, nil
}

// Routes configures the HTTP routes.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.serve(s.handleHealth)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/teams", s.serve(s.handleTeams)).Methods(http.MethodGet)
	api.HandleFunc("/fixtures", s.serve(s.handleFixtures)).Methods(http.MethodGet)
	api.HandleFunc("/players", s.serve(s.handlePlayers)).Methods(http.MethodGet)
	api.HandleFunc("/team-stats", s.serve(s.handleTeamStats)).Methods(http.MethodGet)
	api.HandleFunc("/fdr/gameweek/{gw:[0-9]+}", s.cached(s.handleGameweekFDR)).Methods(http.MethodGet)
	api.HandleFunc("/fdr/horizon", s.cached(s.handleHorizonFDR)).Methods(http.MethodGet)
	api.HandleFunc("/schedules", s.cached(s.handleSchedules)).Methods(http.MethodGet)
	api.HandleFunc("/tiers", s.serve(s.handleTiers)).Methods(http.MethodGet)
	api.HandleFunc("/tiers/lookup", s.serve(s.handleTierLookup)).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.serve(s.handleRefresh)).Methods(http.MethodPost)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", zap.String("addr", addr), zap.String("data_dir", s.cfg.DataDir))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
