// Package server implements the browser front-end: a form starting report runs, run status pages
// and deck downloads. At most one run is executed at a time.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"golang.org/x/sync/semaphore"

	"github.com/umputun/newsdeck/pkg/domain"
	"github.com/umputun/newsdeck/pkg/pipeline"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/run_store.go -pkg mocks -skip-ensure -fmt goimports . RunStore
//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	runs    RunStore
	runner  Runner
	version string
	debug   bool

	templates *template.Template
	slot      *semaphore.Weighted // single pipeline slot
	runCtx    context.Context     // parent of background runs
	runWg     sync.WaitGroup
	stopping  bool // no new background runs, guarded by lock

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// RunStore is the run journal
type RunStore interface {
	CreateRun(ctx context.Context, run *domain.Run) error
	UpdateState(ctx context.Context, id int64, state string) error
	FinishRun(ctx context.Context, run domain.Run) error
	GetRun(ctx context.Context, id int64) (*domain.Run, error)
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)
}

// Runner executes the report pipeline
type Runner interface {
	Run(ctx context.Context, in pipeline.Input, obs pipeline.Observer) (*pipeline.Result, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// New initializes a new server instance
func New(cfg ConfigProvider, runs RunStore, runner Runner, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		runs:      runs,
		runner:    runner,
		version:   version,
		debug:     debug,
		templates: template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")),
		slot:      semaphore.NewWeighted(1),
		runCtx:    context.Background(),
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown. Runs started from the form use ctx as parent,
// so canceling it stops them too.
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.runCtx = ctx
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
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

	err := s.httpServer.ListenAndServe()
	s.lock.Lock()
	s.stopping = true
	s.lock.Unlock()
	s.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Wait blocks until background runs are finished
func (s *Server) Wait() {
	s.runWg.Wait()
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newsdeck", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024)) // the form is tiny
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.indexHandler)
	s.router.HandleFunc("POST /run", s.startRunHandler)
	s.router.HandleFunc("GET /runs/{id}", s.runPageHandler)
	s.router.HandleFunc("GET /runs/{id}/download", s.downloadHandler)

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /runs/{id}", s.runStatusHandler)
	})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"busy":    s.busy(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// busy reports whether a run occupies the pipeline slot
func (s *Server) busy() bool {
	if !s.slot.TryAcquire(1) {
		return true
	}
	s.slot.Release(1)
	return false
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
