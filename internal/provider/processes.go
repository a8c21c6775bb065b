package provider

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/runger/pal/internal/match"
	"github.com/runger/pal/internal/result"
)

// processScore is the tier for process results; the directive claim means
// they never compete with other fast providers in the same generation.
const processScore = 1800

// processDirective switches the palette into process mode.
const processDirective = "ps"

// ProcessProvider claims "ps" directive queries and lists running
// processes from /proc. Each result carries a terminate reveal action.
type ProcessProvider struct {
	// procRoot is swappable for tests; defaults to /proc.
	procRoot string
}

// NewProcessProvider creates the process list provider.
func NewProcessProvider() *ProcessProvider {
	return &ProcessProvider{procRoot: "/proc"}
}

// Name implements FastProvider.
func (p *ProcessProvider) Name() string { return "processes" }

// ClaimsQuery implements ShortCircuit: "ps" alone or "ps <filter>".
func (p *ProcessProvider) ClaimsQuery(query string) bool {
	fields := strings.Fields(strings.TrimSpace(query))
	return len(fields) >= 1 && fields[0] == processDirective
}

// Search implements FastProvider. The optional text after the directive
// filters process names.
func (p *ProcessProvider) Search(query string) []result.SearchResult {
	filter := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(query), processDirective))

	entries, err := os.ReadDir(p.procRoot)
	if err != nil {
		return nil
	}

	var out []result.SearchResult
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		name := readProcName(filepath.Join(p.procRoot, entry.Name(), "comm"))
		if name == "" {
			continue
		}
		if filter != "" && !match.Analyze(filter, name).Matched {
			continue
		}
		out = append(out, result.SearchResult{
			Title:    name,
			Subtitle: "pid " + entry.Name(),
			Category: result.CategoryProcess,
			Score:    processScore,
			Reveal:   TerminateProcess{PID: pid},
		})
	}
	return out
}

func readProcName(commPath string) string {
	data, err := os.ReadFile(commPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
