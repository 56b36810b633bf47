package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/newsdeck/pkg/config"
	"github.com/umputun/newsdeck/pkg/content"
	"github.com/umputun/newsdeck/pkg/deck"
	"github.com/umputun/newsdeck/pkg/domain"
	"github.com/umputun/newsdeck/pkg/llm"
	"github.com/umputun/newsdeck/pkg/news"
	"github.com/umputun/newsdeck/pkg/pipeline"
	"github.com/umputun/newsdeck/pkg/repository"
	"github.com/umputun/newsdeck/pkg/summary"
	"github.com/umputun/newsdeck/server"
)

// Opts with all CLI options
type Opts struct {
	Config  string `short:"c" long:"config" env:"CONFIG" description:"path to YAML config file, built-in defaults if not set"`
	Company string `long:"company" description:"company name"`
	Type    string `short:"t" long:"type" description:"relationship type, competitor or potential_customer"`
	Count   int    `short:"n" long:"count" description:"number of articles, 1-50 (default 10)"`
	Output  string `short:"o" long:"output" env:"OUTPUT_DIR" description:"output directory, overrides output.dir"`

	Web    bool   `long:"web" env:"WEB" description:"run browser front-end instead of a single report"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides server.listen"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

// exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(exitOK)
		}
		os.Exit(exitInvalid)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(exitOK)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, newConsole(os.Stdin, os.Stdout, opts.NoColor))
	cancel()
	os.Exit(exitCode(err))
}

// run executes a single report or the browser front-end, any error is reported on the console
func run(ctx context.Context, opts Opts, con *console) (err error) {
	defer func() {
		if err != nil {
			con.failure(err)
		}
	}()

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup pipeline: %w", err)
	}

	if opts.Web {
		return runWeb(ctx, cfg, p, opts.Debug)
	}

	in, err := con.collectInput(opts)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx, in, con.progress)
	if err != nil {
		return err
	}
	con.success(res)
	return nil
}

func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}
	if opts.Output != "" {
		cfg.Output.Dir = opts.Output
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	return cfg, nil
}

// newPipeline wires all stages from the configuration
func newPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	source, err := news.NewSource(cfg.News)
	if err != nil {
		return nil, err
	}
	extractor := news.NewExtractor(source, cfg.Themes, cfg.News.Aliases)

	llmClient := llm.NewClient(cfg.LLM)

	var pages summary.TextExtractor
	if cfg.Extraction.Enabled {
		pages = content.NewHTTPExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent)
	}
	var engine summary.Engine
	if cfg.Summary.Engine == "llm" {
		engine = summary.NewLLM(llmClient, cfg.LLM, cfg.Summary.MaxLength, cfg.Summary.KeyPoints, nil)
	}
	summarizer := summary.New(pages, engine, summary.Config{
		RateLimit:     cfg.Extraction.RateLimit,
		MinTextLength: cfg.Extraction.MinTextLength,
		Keywords:      cfg.BusinessKeywords(),
		EntityHints:   cfg.Summary.EntityHints,
		MaxLength:     cfg.Summary.MaxLength,
		KeyPoints:     cfg.Summary.KeyPoints,
	})

	categorizer := llm.NewCategorizer(llmClient, cfg.LLM, cfg.ThemeNames())
	renderer := deck.NewRenderer(cfg.Output.Dir)

	lgr.Printf("[DEBUG] pipeline: source %s, summary engine %s, llm %s at %s, output %s",
		source.Name(), cfg.Summary.Engine, cfg.LLM.Model, cfg.LLM.Endpoint, cfg.Output.Dir)
	return pipeline.New(extractor, summarizer, categorizer, renderer, pipeline.Config{
		Themes:           cfg.ThemeNames(),
		OutputDir:        cfg.Output.Dir,
		SaveIntermediate: cfg.Output.SaveIntermediate,
	}), nil
}

// runWeb serves the browser front-end until ctx is canceled
func runWeb(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, debug bool) error {
	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open run journal: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] failed to close run journal: %v", err)
		}
	}()

	if n, err := repos.Run.FailUnfinished(ctx); err != nil {
		lgr.Printf("[WARN] failed to close unfinished runs: %v", err)
	} else if n > 0 {
		lgr.Printf("[INFO] %d unfinished runs marked as failed", n)
	}

	lgr.Printf("[INFO] starting newsdeck version %s", revision)
	srv := server.New(cfg, repos.Run, p, revision, debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	lgr.Print("[INFO] shutdown complete")
	return nil
}

// exitCode maps run error to the process exit code
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrInvalidInput):
		return exitInvalid
	default:
		return exitFailure
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
