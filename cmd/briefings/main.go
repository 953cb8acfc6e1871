package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/mybriefings/briefings/pkg/config"
	"github.com/mybriefings/briefings/pkg/domain"
	"github.com/mybriefings/briefings/pkg/feed"
	"github.com/mybriefings/briefings/pkg/fetcher"
	"github.com/mybriefings/briefings/pkg/filter"
	"github.com/mybriefings/briefings/pkg/limiter"
	"github.com/mybriefings/briefings/pkg/repository"
	"github.com/mybriefings/briefings/pkg/scheduler"
	"github.com/mybriefings/briefings/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		lgr.Printf("[ERROR] can't load config: %v", err)
		os.Exit(1)
	}

	setupLog(opts.Debug, opts.NoColor, cfg.Sources.Perplexity.APIKey, cfg.Filter.LLM.APIKey)

	lgr.Printf("[INFO] starting briefings version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Printf("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, cfg, opts.Debug); err != nil {
		lgr.Printf("[ERROR] briefings failed: %v", err)
		cancel()
		os.Exit(1)
	}
	cancel()

	lgr.Printf("[INFO] shutdown complete")
}

// run wires the pipeline together and blocks until the context is done
func run(ctx context.Context, cfg *config.Config, debug bool) error {
	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("init repositories: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] database close failed: %v", err)
		}
	}()

	if err := seedSources(ctx, cfg, repos.Source); err != nil {
		return fmt.Errorf("seed sources: %w", err)
	}

	lim := limiter.New(repos.CallHistory)

	var runners []scheduler.Runner
	if cfg.Sources.Perplexity.Enabled {
		runners = append(runners, fetcher.NewPerplexityRunner(cfg.Sources.Perplexity, repos.Cache, lim))
	}
	if cfg.Sources.Reddit.Enabled {
		runners = append(runners, fetcher.NewRedditRunner(cfg.Sources.Reddit, repos.Cache, lim))
	}
	if cfg.Sources.RSS.Enabled {
		runners = append(runners, fetcher.NewRSSRunner(cfg.Sources.RSS, repos.Cache, lim))
	}
	if len(runners) == 0 {
		return fmt.Errorf("no sources enabled")
	}

	var evaluator filter.Evaluator
	if cfg.Filter.LLM.Enabled {
		evaluator = filter.NewLLMEvaluator(cfg.Filter.LLM)
	}
	relevance := filter.New(evaluator, cfg.Filter.LLM.BatchSize)

	writer := feed.NewWriter(repos.FeedItem, cfg.Filter.DedupLookback)

	sched := scheduler.New(repos.Job, repos.Source, runners, relevance, writer, defaultCategories(cfg), scheduler.Config{
		Workers:   cfg.Schedule.Workers,
		QueueSize: cfg.Schedule.QueueSize,
		Interval:  cfg.Schedule.Interval,
	})
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(cfg, sched, repos.FeedItem, repos.Source, repos.CallHistory, repos.Job, revision, debug)
	return srv.Run(ctx)
}

// seedSources makes sure every configured source has a data_sources row.
// Existing rows keep their admin state, seeding never overwrites.
func seedSources(ctx context.Context, cfg *config.Config, sources *repository.SourceRepository) error {
	seeds := []domain.DataSource{}
	if cfg.Sources.Perplexity.Enabled {
		seeds = append(seeds, domain.DataSource{
			Name:               fetcher.SourcePerplexity,
			DisplayName:        "Perplexity AI",
			BaseURL:            cfg.Sources.Perplexity.Endpoint,
			RateLimitPerMinute: cfg.Sources.Perplexity.RateLimit,
			IsActive:           true,
		})
	}
	if cfg.Sources.Reddit.Enabled {
		seeds = append(seeds, domain.DataSource{
			Name:               fetcher.SourceReddit,
			DisplayName:        "Reddit",
			BaseURL:            cfg.Sources.Reddit.BaseURL,
			RateLimitPerMinute: cfg.Sources.Reddit.RateLimit,
			IsActive:           true,
		})
	}
	if cfg.Sources.RSS.Enabled {
		seeds = append(seeds, domain.DataSource{
			Name:               fetcher.SourceRSS,
			DisplayName:        "RSS Feeds",
			RateLimitPerMinute: cfg.Sources.RSS.RateLimit,
			IsActive:           true,
		})
	}

	for i := range seeds {
		if err := sources.Ensure(ctx, &seeds[i]); err != nil {
			return fmt.Errorf("ensure source %s: %w", seeds[i].Name, err)
		}
	}
	return nil
}

// defaultCategories converts configured categories to domain ones
func defaultCategories(cfg *config.Config) []domain.Category {
	cats := make([]domain.Category, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		cats = append(cats, domain.Category{
			Name:             c.Name,
			Description:      c.Description,
			Keywords:         c.Keywords,
			PreferredSources: c.PreferredSources,
			Subreddits:       c.Subreddits,
			IsActive:         true,
		})
	}
	return cats
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	// keep API keys out of the logs
	for _, s := range secs {
		if s != "" {
			logOpts = append(logOpts, lgr.Secret(s))
		}
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
