// Package pipeline drives the four report stages in order: extraction, summarization, categorization
// and rendering. Stages run strictly one after another; a fatal stage error stops the run.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsdeck/pkg/deck"
	"github.com/umputun/newsdeck/pkg/domain"
)

//go:generate moq -out mocks/article_extractor.go -pkg mocks -skip-ensure -fmt goimports . ArticleExtractor
//go:generate moq -out mocks/summarizer.go -pkg mocks -skip-ensure -fmt goimports . Summarizer
//go:generate moq -out mocks/categorizer.go -pkg mocks -skip-ensure -fmt goimports . Categorizer
//go:generate moq -out mocks/renderer.go -pkg mocks -skip-ensure -fmt goimports . Renderer

// State of a pipeline run
type State string

// run states, Failed is reachable from any stage
const (
	StateIdle         State = "idle"
	StateExtracting   State = "extracting"
	StateSummarizing  State = "summarizing"
	StateCategorizing State = "categorizing"
	StateRendering    State = "rendering"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// article count limits
const (
	DefaultCount = 10
	MaxCount     = 50
)

// ArticleExtractor returns up to n articles about the company
type ArticleExtractor interface {
	Extract(ctx context.Context, company string, n int) ([]domain.Article, error)
}

// Summarizer condenses articles, dropping irrelevant and failed ones
type Summarizer interface {
	Summarize(ctx context.Context, company string, rel domain.RelationshipType, articles []domain.Article) ([]domain.SummarizedArticle, error)
}

// Categorizer labels every summarized article with a theme
type Categorizer interface {
	Categorize(ctx context.Context, articles []domain.SummarizedArticle) ([]domain.CategorizedArticle, error)
}

// Renderer writes the report deck and returns its path
type Renderer interface {
	Render(report domain.Report) (string, error)
}

// Observer is called on every state transition, err is set for StateFailed only
type Observer func(state State, err error)

// Input of a run, collected once and never changed during the run
type Input struct {
	Company      string
	Relationship domain.RelationshipType
	Count        int
}

// Normalize trims the company name, applies the default count and validates the input.
// All problems are reported as domain.ErrInvalidInput.
func (in Input) Normalize() (Input, error) {
	in.Company = strings.TrimSpace(in.Company)
	if in.Company == "" {
		return in, fmt.Errorf("%w: company name is required", domain.ErrInvalidInput)
	}
	rel, err := domain.ParseRelationship(string(in.Relationship))
	if err != nil {
		return in, err
	}
	in.Relationship = rel
	if in.Count == 0 {
		in.Count = DefaultCount
	}
	if in.Count < 1 || in.Count > MaxCount {
		return in, fmt.Errorf("%w: article count must be between 1 and %d, got %d", domain.ErrInvalidInput, MaxCount, in.Count)
	}
	return in, nil
}

// StageError is a fatal failure of a stage
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err) }

// Unwrap returns the stage error
func (e *StageError) Unwrap() error { return e.Err }

// Result of a finished run
type Result struct {
	State      State
	OutputPath string
	Report     domain.Report
	Extracted  int
	Summarized int
}

// Config holds pipeline settings
type Config struct {
	Themes           []string // theme order of the report
	OutputDir        string
	SaveIntermediate bool
	Now              func() time.Time
}

// Pipeline runs the stages for one company at a time
type Pipeline struct {
	extractor   ArticleExtractor
	summarizer  Summarizer
	categorizer Categorizer
	renderer    Renderer
	cfg         Config
}

// New makes pipeline from the stages
func New(extractor ArticleExtractor, summarizer Summarizer, categorizer Categorizer, renderer Renderer, cfg Config) *Pipeline {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "outputs"
	}
	return &Pipeline{extractor: extractor, summarizer: summarizer, categorizer: categorizer, renderer: renderer, cfg: cfg}
}

// Run executes all stages for the input. Invalid input is rejected before any stage with domain.ErrInvalidInput,
// stage failures are returned as *StageError after the observer got StateFailed. Nothing is retried.
func (p *Pipeline) Run(ctx context.Context, in Input, obs Observer) (*Result, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	if obs == nil {
		obs = func(State, error) {}
	}

	st := StateIdle
	enter := func(s State) {
		lgr.Printf("[INFO] %s: %s -> %s", in.Company, st, s)
		st = s
		obs(s, nil)
	}
	fail := func(err error) error {
		serr := &StageError{Stage: st, Err: err}
		lgr.Printf("[ERROR] %s: %v", in.Company, serr)
		st = StateFailed
		obs(StateFailed, serr)
		return serr
	}
	started := time.Now()

	enter(StateExtracting)
	articles, err := p.extractor.Extract(ctx, in.Company, in.Count)
	if err != nil {
		return nil, fail(err)
	}
	if len(articles) > in.Count {
		articles = articles[:in.Count]
	}

	enter(StateSummarizing)
	summarized, err := p.summarizer.Summarize(ctx, in.Company, in.Relationship, articles)
	if err != nil {
		return nil, fail(err)
	}
	if len(summarized) > len(articles) {
		return nil, fail(fmt.Errorf("%w: %d summaries for %d articles", domain.ErrSummarizationFailure, len(summarized), len(articles)))
	}

	enter(StateCategorizing)
	categorized, err := p.categorizer.Categorize(ctx, summarized)
	if err != nil {
		return nil, fail(err)
	}

	enter(StateRendering)
	if err := ctx.Err(); err != nil {
		return nil, fail(err)
	}
	report := domain.NewReport(in.Company, in.Relationship, p.cfg.Now(), p.cfg.Themes, categorized)
	path, err := p.renderer.Render(report)
	if err != nil {
		return nil, fail(err)
	}

	enter(StateDone)
	lgr.Printf("[INFO] %s: %d articles in %d themes rendered to %s in %v", in.Company, report.ArticleCount(),
		len(report.Groups), path, time.Since(started).Round(time.Millisecond))

	if p.cfg.SaveIntermediate {
		p.saveIntermediate(in.Company, articles, summarized, categorized)
	}

	return &Result{State: StateDone, OutputPath: path, Report: report, Extracted: len(articles), Summarized: len(summarized)}, nil
}

// saveIntermediate dumps the output of every stage next to the deck, failures are logged only
func (p *Pipeline) saveIntermediate(company string, articles []domain.Article, summarized []domain.SummarizedArticle,
	categorized []domain.CategorizedArticle) {
	dir := deck.CompanyDir(p.cfg.OutputDir, company)
	dumps := []struct {
		name string
		data any
	}{
		{"news.json", articles},
		{"summarized.json", summarized},
		{"categorized.json", categorized},
	}
	for _, d := range dumps {
		if err := writeJSON(filepath.Join(dir, d.name), d.data); err != nil {
			lgr.Printf("[WARN] can't save %s: %v", d.name, err)
		}
	}
}

func writeJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("make dir: %w", err)
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// FailedStage returns the stage of a *StageError or empty string
func FailedStage(err error) State {
	var serr *StageError
	if errors.As(err, &serr) {
		return serr.Stage
	}
	return ""
}
