package provider

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/runger/pal/internal/result"
	"github.com/runger/pal/internal/scoring"
)

// Application is one launchable entry in the catalog.
type Application struct {
	Name    string
	Comment string
	Exec    string
	ID      string // stable identifier for usage statistics
}

// CatalogFunc loads the application catalog. It may perform I/O; the
// provider calls it only outside the fast search path.
type CatalogFunc func(ctx context.Context) ([]Application, error)

// AppProvider matches the query against a cached application catalog. The
// cache is provider-private state; Search never touches the disk.
type AppProvider struct {
	scorer  *scoring.Engine
	load    CatalogFunc
	ttl     time.Duration
	mu      sync.RWMutex
	apps    []Application
	loaded  time.Time
}

// NewAppProvider creates an application provider over the given catalog
// loader. When load is nil the XDG desktop-entry scanner is used.
func NewAppProvider(scorer *scoring.Engine, load CatalogFunc) *AppProvider {
	if load == nil {
		load = ScanDesktopEntries
	}
	return &AppProvider{scorer: scorer, load: load, ttl: 5 * time.Minute}
}

// Name implements FastProvider.
func (p *AppProvider) Name() string { return "applications" }

// Refresh reloads the catalog. Call it at startup and whenever the cache
// should be considered stale; Search itself never blocks on the loader.
func (p *AppProvider) Refresh(ctx context.Context) error {
	apps, err := p.load(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.apps = apps
	p.loaded = time.Now()
	p.mu.Unlock()
	return nil
}

// Stale reports whether the cached catalog has outlived its TTL.
func (p *AppProvider) Stale() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return time.Since(p.loaded) > p.ttl
}

// Search implements FastProvider against the cached catalog snapshot.
func (p *AppProvider) Search(query string) []result.SearchResult {
	p.mu.RLock()
	apps := p.apps
	p.mu.RUnlock()

	var out []result.SearchResult
	for _, app := range apps {
		score := p.scorer.Score(query, app.Name, app.Comment, result.CategoryApplication, app.ID)
		if score <= 0 {
			continue
		}
		program, args := splitExec(app.Exec)
		out = append(out, result.SearchResult{
			Title:    app.Name,
			Subtitle: app.Comment,
			Category: result.CategoryApplication,
			Score:    score,
			Action:   ExecCommand{Program: program, Args: args},
		})
	}
	return out
}

// splitExec splits a desktop Exec line into program and arguments,
// dropping the %-field codes desktop entries embed.
func splitExec(execLine string) (string, []string) {
	fields := strings.Fields(execLine)
	args := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.HasPrefix(f, "%") {
			continue
		}
		args = append(args, f)
	}
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

// desktopEntryDirs lists the standard locations of .desktop files.
func desktopEntryDirs() []string {
	dirs := []string{"/usr/share/applications", "/usr/local/share/applications"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	return dirs
}

// ScanDesktopEntries is the default catalog loader. It reads Name, Comment,
// and Exec from the XDG desktop entries on this machine.
func ScanDesktopEntries(ctx context.Context) ([]Application, error) {
	var apps []Application
	for _, dir := range desktopEntryDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue // directory may not exist on this system
		}
		for _, entry := range entries {
			if ctx.Err() != nil {
				return apps, ctx.Err()
			}
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".desktop") {
				continue
			}
			app, ok := parseDesktopEntry(filepath.Join(dir, entry.Name()))
			if ok {
				apps = append(apps, app)
			}
		}
	}
	return apps, nil
}

// parseDesktopEntry extracts the main-section keys the palette needs.
func parseDesktopEntry(path string) (Application, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Application{}, false
	}
	defer f.Close()

	app := Application{ID: filepath.Base(path)}
	inMain := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "[Desktop Entry]":
			inMain = true
		case strings.HasPrefix(line, "["):
			inMain = false
		case !inMain:
		case strings.HasPrefix(line, "Name=") && app.Name == "":
			app.Name = strings.TrimPrefix(line, "Name=")
		case strings.HasPrefix(line, "Comment=") && app.Comment == "":
			app.Comment = strings.TrimPrefix(line, "Comment=")
		case strings.HasPrefix(line, "Exec=") && app.Exec == "":
			app.Exec = strings.TrimPrefix(line, "Exec=")
		case line == "NoDisplay=true" || line == "Hidden=true":
			return Application{}, false
		}
	}

	if app.Name == "" || app.Exec == "" {
		return Application{}, false
	}
	return app, true
}
