package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsdeck/pkg/domain"
	"github.com/umputun/newsdeck/pkg/pipeline"
	"github.com/umputun/newsdeck/pkg/repository"
)

const (
	pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	recentRuns      = 10
	refreshSeconds  = 3
)

var templateFuncs = map[string]any{
	"framing": func(rel domain.RelationshipType) string { return rel.Framing() },
	"stamp":   func(t time.Time) string { return t.Local().Format("02 Jan 2006 15:04") },
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, errors.New("dict expects key/value pairs")
		}
		res := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict key %v is not a string", kv[i])
			}
			res[k] = kv[i+1]
		}
		return res, nil
	},
}

type indexPage struct {
	Version      string
	Error        string
	Busy         bool
	Company      string
	Relationship string
	Count        int
	MaxCount     int
	Runs         []domain.Run
}

type runPage struct {
	Version string
	Run     domain.Run
	Refresh int
	File    string
}

// indexHandler renders the report form with recent runs
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, indexPage{Relationship: string(domain.RelationshipCompetitor), Count: pipeline.DefaultCount})
}

// startRunHandler validates the form, takes the pipeline slot and starts the run in background.
// Responds 409 if another run holds the slot.
func (s *Server) startRunHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderIndex(w, r, http.StatusBadRequest, indexPage{Error: "invalid form data"})
		return
	}

	form := indexPage{
		Company:      strings.TrimSpace(r.FormValue("company")),
		Relationship: r.FormValue("relationship"),
		Count:        pipeline.DefaultCount,
	}
	if v := strings.TrimSpace(r.FormValue("count")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			form.Error = fmt.Sprintf("article count must be a number, got %q", v)
			s.renderIndex(w, r, http.StatusBadRequest, form)
			return
		}
		form.Count = n
	}

	in, err := pipeline.Input{Company: form.Company, Relationship: domain.RelationshipType(form.Relationship), Count: form.Count}.Normalize()
	if err != nil {
		form.Error = err.Error()
		s.renderIndex(w, r, http.StatusBadRequest, form)
		return
	}

	if !s.slot.TryAcquire(1) {
		form.Error = "another report is being generated, try again when it is finished"
		s.renderIndex(w, r, http.StatusConflict, form)
		return
	}

	parent, ok := s.reserveBackground()
	if !ok {
		s.slot.Release(1)
		form.Error = "server is shutting down"
		s.renderIndex(w, r, http.StatusServiceUnavailable, form)
		return
	}

	run := &domain.Run{CompanyName: in.Company, Relationship: in.Relationship, ArticleCount: in.Count}
	if err := s.runs.CreateRun(r.Context(), run); err != nil {
		s.runWg.Done()
		s.slot.Release(1)
		lgr.Printf("[ERROR] failed to create run: %v", err)
		form.Error = "can't start the run, see server log"
		s.renderIndex(w, r, http.StatusInternalServerError, form)
		return
	}

	go func() {
		defer s.runWg.Done()
		defer s.slot.Release(1)
		s.execute(parent, *run, in)
	}()

	lgr.Printf("[INFO] run %d started for %q (%s, %d articles)", run.ID, in.Company, in.Relationship, in.Count)
	http.Redirect(w, r, fmt.Sprintf("/runs/%d", run.ID), http.StatusSeeOther)
}

// reserveBackground counts a new background run and returns its parent context.
// Fails once the server is stopping, Run may be waiting for background runs already.
func (s *Server) reserveBackground() (context.Context, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.stopping || s.runCtx.Err() != nil {
		return nil, false
	}
	s.runWg.Add(1)
	return s.runCtx, true
}

// execute runs the pipeline and records its progress in the journal
func (s *Server) execute(ctx context.Context, run domain.Run, in pipeline.Input) {
	// journal writes must survive cancellation of the run itself
	journalCtx := context.WithoutCancel(ctx)

	obs := func(state pipeline.State, _ error) {
		if state == pipeline.StateDone || state == pipeline.StateFailed {
			return // recorded by FinishRun
		}
		if err := s.runs.UpdateState(journalCtx, run.ID, string(state)); err != nil {
			lgr.Printf("[WARN] can't record state %s of run %d: %v", state, run.ID, err)
		}
	}

	res, err := s.runner.Run(ctx, in, obs)
	if err != nil {
		run.State = string(pipeline.StateFailed)
		run.FailedStage = string(pipeline.FailedStage(err))
		run.Error = err.Error()
	} else {
		run.State = string(res.State)
		run.OutputPath = res.OutputPath
		run.Articles = res.Report.ArticleCount()
	}

	if err := s.runs.FinishRun(journalCtx, run); err != nil {
		lgr.Printf("[ERROR] can't record result of run %d: %v", run.ID, err)
	}
	lgr.Printf("[INFO] run %d finished: %s", run.ID, run.State)
}

// runPageHandler renders run status, refreshing itself until the run is finished
func (s *Server) runPageHandler(w http.ResponseWriter, r *http.Request) {
	run, code, err := s.lookupRun(r)
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}

	page := runPage{Version: s.version, Run: *run}
	if !run.Finished() {
		page.Refresh = refreshSeconds
	}
	if run.State == string(pipeline.StateDone) {
		page.File = filepath.Base(run.OutputPath)
	}
	s.renderTemplate(w, http.StatusOK, "run.html", page)
}

// downloadHandler serves the deck of a finished run
func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	run, code, err := s.lookupRun(r)
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}
	if run.State != string(pipeline.StateDone) || run.OutputPath == "" {
		http.Error(w, "report is not ready", http.StatusConflict)
		return
	}

	fh, err := os.Open(run.OutputPath)
	if err != nil {
		lgr.Printf("[WARN] can't open deck of run %d: %v", run.ID, err)
		http.Error(w, "report file is not available", http.StatusNotFound)
		return
	}
	defer fh.Close()

	fi, err := fh.Stat()
	if err != nil {
		http.Error(w, "report file is not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", pptxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(run.OutputPath)))
	http.ServeContent(w, r, filepath.Base(run.OutputPath), fi.ModTime(), fh)
}

// runStatusHandler returns the run as JSON
func (s *Server) runStatusHandler(w http.ResponseWriter, r *http.Request) {
	run, code, err := s.lookupRun(r)
	if err != nil {
		renderError(w, r, err, code)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{
		"id":            run.ID,
		"company":       run.CompanyName,
		"relationship":  run.Relationship,
		"article_count": run.ArticleCount,
		"state":         run.State,
		"failed_stage":  run.FailedStage,
		"error":         run.Error,
		"articles":      run.Articles,
		"finished":      run.Finished(),
		"created_at":    run.CreatedAt,
		"updated_at":    run.UpdatedAt,
	})
}

// lookupRun loads the run from the {id} path value, returns http status code on error
func (s *Server) lookupRun(r *http.Request) (*domain.Run, int, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid run ID")
	}
	run, err := s.runs.GetRun(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, http.StatusNotFound, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		lgr.Printf("[ERROR] failed to get run %d: %v", id, err)
		return nil, http.StatusInternalServerError, fmt.Errorf("can't load run %d", id)
	}
	return run, http.StatusOK, nil
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, code int, page indexPage) {
	page.Version = s.version
	page.MaxCount = pipeline.MaxCount
	page.Busy = s.busy()
	runs, err := s.runs.ListRuns(r.Context(), recentRuns)
	if err != nil {
		lgr.Printf("[WARN] failed to list runs: %v", err)
	}
	page.Runs = runs
	s.renderTemplate(w, code, "index.html", page)
}

func (s *Server) renderTemplate(w http.ResponseWriter, code int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		lgr.Printf("[ERROR] failed to render template %s: %v", name, err)
	}
}
