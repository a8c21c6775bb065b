package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/runger/pal/internal/config"
	"github.com/runger/pal/internal/engine"
	"github.com/runger/pal/internal/index"
	"github.com/runger/pal/internal/intent"
	"github.com/runger/pal/internal/provider"
	"github.com/runger/pal/internal/result"
	"github.com/runger/pal/internal/scoring"
	"github.com/runger/pal/internal/stats"
)

// defaultQuicklinks seeds the quicklink provider; a richer set can come
// from a bookmarks backend later.
var defaultQuicklinks = []provider.Quicklink{
	{Title: "GitHub", URL: "https://github.com"},
	{Title: "Go Packages", URL: "https://pkg.go.dev"},
}

// app bundles everything a command needs: the engine plus the handles it
// was built from.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stats  *stats.Store
	index  *index.Index
	engine *engine.Engine

	fileProvider *provider.FileProvider
}

// close tears the app down in reverse construction order.
func (a *app) close() {
	if a.engine != nil {
		a.engine.Close()
	}
	if a.index != nil {
		a.index.Close()
	}
	if a.stats != nil {
		a.stats.Close()
	}
}

// buildApp loads the config and wires the full provider stack into an
// engine. Optional backends (stats, index) degrade to absent on failure
// rather than blocking startup.
func buildApp(opts engine.Options) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	a := &app{cfg: cfg, logger: logger}

	a.stats, err = stats.Open(cfg.Stats.DBPath, logger)
	if err != nil {
		logger.Warn("usage stats unavailable", "error", err)
	} else {
		a.stats.SetHalfLife(time.Duration(cfg.Stats.HalfLifeDays) * 24 * time.Hour)
	}

	a.index, err = index.Open(cfg.Index.DBPath, logger)
	if err != nil {
		logger.Warn("file index unavailable", "error", err)
	}

	scorer := scoring.NewEngine(scoring.NewWeights(cfg.CategoryWeights()), a.stats.Factor)

	apps := provider.NewAppProvider(scorer, nil)
	if err := apps.Refresh(context.Background()); err != nil {
		logger.Warn("application catalog scan failed", "error", err)
	}

	clip := provider.NewClipboardProvider(scorer)
	clip.Seed()

	fast := []provider.FastProvider{
		provider.NewShellProvider(),
		provider.NewProcessProvider(),
		provider.NewCalcProvider(),
		provider.NewUnitProvider(),
		apps,
		provider.NewQuicklinkProvider(scorer, defaultQuicklinks),
		clip,
	}

	var slow []provider.SlowProvider
	if a.index != nil {
		a.fileProvider = provider.NewFileProvider(scorer, a.index, cfg.Search.MaxResults)
		slow = append(slow, a.fileProvider)
	}

	var interp intent.Interpreter
	if cfg.Intent.Enabled {
		interp = intent.NewCLIInterpreter(cfg.Intent.Binary, cfg.Intent.Model)
	}
	var fileSearch intent.FileSearchFunc
	if a.fileProvider != nil {
		fp := a.fileProvider
		fileSearch = func(ctx context.Context, pattern string) ([]result.SearchResult, error) {
			return fp.Search(ctx, pattern)
		}
	}
	adapter := intent.NewAdapter(interp, fileSearch, logger)

	opts.Registry = provider.NewRegistry(fast, slow, logger)
	opts.Adapter = adapter
	opts.Stats = a.stats
	opts.Logger = logger
	opts.SlowDebounce = time.Duration(cfg.Search.SlowDebounceMs) * time.Millisecond
	opts.IntentDebounce = time.Duration(cfg.Search.IntentDebounceMs) * time.Millisecond
	opts.Limit = cfg.Search.MaxResults
	opts.PoolSize = cfg.Search.WorkerPoolSize

	a.engine, err = engine.New(opts)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("building engine: %w", err)
	}
	return a, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := os.Stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			out = f
		}
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
