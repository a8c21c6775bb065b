package provider

import (
	"os/exec"
	"strings"

	"github.com/google/shlex"

	"github.com/runger/pal/internal/result"
)

// shellScore is the fixed tier for shell passthrough results. The claim
// already suppressed every other fast provider, so the tier only orders
// the result against later slow/intent layers.
const shellScore = 2500

// ShellProvider claims queries that are literal shell commands: either
// prefixed with ">" or starting with a binary found on PATH followed by
// arguments. When it claims a query it is the only fast provider that runs.
type ShellProvider struct {
	// lookPath is swappable for tests; defaults to exec.LookPath.
	lookPath func(string) (string, error)
}

// NewShellProvider creates the shell passthrough provider.
func NewShellProvider() *ShellProvider {
	return &ShellProvider{lookPath: exec.LookPath}
}

// Name implements FastProvider.
func (p *ShellProvider) Name() string { return "shell" }

// ClaimsQuery implements ShortCircuit.
func (p *ShellProvider) ClaimsQuery(query string) bool {
	query = strings.TrimSpace(query)
	if strings.HasPrefix(query, ">") {
		return strings.TrimSpace(query[1:]) != ""
	}

	tokens, err := shlex.Split(query)
	if err != nil || len(tokens) < 2 {
		// A bare word is more likely an app search than a command.
		return false
	}
	_, err = p.lookPath(tokens[0])
	return err == nil
}

// Search implements FastProvider.
func (p *ShellProvider) Search(query string) []result.SearchResult {
	command := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(query), ">"))
	tokens, err := shlex.Split(command)
	if err != nil || len(tokens) == 0 {
		return nil
	}

	return []result.SearchResult{{
		Title:    command,
		Subtitle: "Run in shell",
		Category: result.CategoryAction,
		Score:    shellScore,
		Action:   ExecCommand{Program: tokens[0], Args: tokens[1:]},
	}}
}
