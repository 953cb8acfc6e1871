// Package server exposes the ingestion pipeline over a JSON API: trigger
// runs, inspect jobs, read the feed, and poke at sources and call history.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/mybriefings/briefings/pkg/domain"
	"github.com/mybriefings/briefings/pkg/scheduler"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/trigger.go -pkg mocks -skip-ensure -fmt goimports . Trigger
//go:generate moq -out mocks/feed_store.go -pkg mocks -skip-ensure -fmt goimports . FeedStore
//go:generate moq -out mocks/source_store.go -pkg mocks -skip-ensure -fmt goimports . SourceStore
//go:generate moq -out mocks/history_store.go -pkg mocks -skip-ensure -fmt goimports . HistoryStore
//go:generate moq -out mocks/job_stats.go -pkg mocks -skip-ensure -fmt goimports . JobStats

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	trigger Trigger
	feed    FeedStore
	sources SourceStore
	history HistoryStore
	jobs    JobStats
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Trigger starts ingestion jobs and reads them back
type Trigger interface {
	Trigger(ctx context.Context, req scheduler.TriggerRequest) (int64, error)
	GetJob(ctx context.Context, id int64) (*domain.IngestionJob, error)
	ListJobs(ctx context.Context, status string, limit int) ([]domain.IngestionJob, error)
}

// FeedStore reads persisted feed items
type FeedStore interface {
	GetItems(ctx context.Context, q domain.FeedQuery) ([]domain.FeedItem, error)
	CountItems(ctx context.Context) (int, error)
	CountBySource(ctx context.Context) (map[string]int, error)
}

// SourceStore reads and toggles data sources
type SourceStore interface {
	List(ctx context.Context) ([]domain.DataSource, error)
	Toggle(ctx context.Context, name string) (bool, error)
}

// HistoryStore reads the per-source call audit trail
type HistoryStore interface {
	Recent(ctx context.Context, source string, limit int) ([]domain.CallRecord, error)
}

// JobStats reports job counts for the stats endpoint
type JobStats interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// New initializes a new server instance
func New(cfg ConfigProvider, trigger Trigger, feed FeedStore, sources SourceStore, history HistoryStore, jobs JobStats, version string, debug bool) *Server {
	s := &Server{
		config:  cfg,
		trigger: trigger,
		feed:    feed,
		sources: sources,
		history: history,
		jobs:    jobs,
		version: version,
		debug:   debug,
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Router returns the configured handler, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("briefings", "mybriefings", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("POST /ingest/{source}", s.ingestHandler)
		r.HandleFunc("GET /jobs/{id}", s.jobHandler)
		r.HandleFunc("GET /jobs", s.jobsHandler)
		r.HandleFunc("GET /feed", s.feedHandler)
		r.HandleFunc("GET /sources", s.sourcesHandler)
		r.HandleFunc("PUT /sources/{name}/toggle", s.toggleSourceHandler)
		r.HandleFunc("GET /history/{source}", s.historyHandler)
		r.HandleFunc("GET /stats", s.statsHandler)
	})
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]string{"error": errMsg})
}
