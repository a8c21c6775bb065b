package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// interpreterTimeout bounds one interpreter call.
const interpreterTimeout = 5 * time.Second

// minConfidence is the floor below which an interpreter answer is treated
// as "no intent" and the rule parser takes over.
const minConfidence = 0.3

// Interpreter turns a raw query into a ToolCall, or nil when the query
// carries no recognizable intent.
type Interpreter interface {
	// Name identifies the interpreter in traces and logs.
	Name() string

	// Available reports whether the backend can be called at all.
	Available() bool

	// Infer classifies the query. A nil ToolCall with a nil error means
	// "no intent".
	Infer(ctx context.Context, query string) (*ToolCall, error)
}

// wireCall is the JSON schema the CLI backend is asked to produce.
type wireCall struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`

	Title    string  `json:"title,omitempty"`
	Start    string  `json:"start,omitempty"`
	Pattern  string  `json:"pattern,omitempty"`
	Value    float64 `json:"value,omitempty"`
	FromUnit string  `json:"from_unit,omitempty"`
	ToUnit   string  `json:"to_unit,omitempty"`
	Text     string  `json:"text,omitempty"`
	Target   string  `json:"target,omitempty"`
}

const inferPrompt = `Classify the palette query below into exactly one intent and answer
with a single JSON object, no prose.

Intents and their fields:
  create_event:  title, start (RFC3339, optional)
  find_files:    pattern
  convert_units: value, from_unit, to_unit
  translate:     text, target
  none:          (no fields)

Always include "intent" and "confidence" (0.0-1.0).

Query: %s`

// CLIInterpreter shells out to a local model CLI (claude-style `--print`
// interface) for intent inference.
type CLIInterpreter struct {
	binary string
	model  string
}

// NewCLIInterpreter creates an interpreter backed by the named CLI binary.
// An empty binary defaults to "claude".
func NewCLIInterpreter(binary, model string) *CLIInterpreter {
	if binary == "" {
		binary = "claude"
	}
	return &CLIInterpreter{binary: binary, model: model}
}

// Name implements Interpreter.
func (c *CLIInterpreter) Name() string { return c.binary }

// Available checks for the CLI on PATH or an API key in the environment.
func (c *CLIInterpreter) Available() bool {
	if _, err := exec.LookPath(c.binary); err == nil {
		return true
	}
	return os.Getenv("ANTHROPIC_API_KEY") != ""
}

// Infer implements Interpreter.
func (c *CLIInterpreter) Infer(ctx context.Context, query string) (*ToolCall, error) {
	ctx, cancel := context.WithTimeout(ctx, interpreterTimeout)
	defer cancel()

	args := []string{"--print"}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stdin = strings.NewReader(fmt.Sprintf(inferPrompt, query))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("interpreter timed out after %v", interpreterTimeout)
		}
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("interpreter error: %s", strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("interpreter failed: %w", err)
	}

	return ParseWireCall(stdout.Bytes())
}

// ParseWireCall decodes an interpreter answer into a ToolCall. Unknown
// intents, low confidence, and missing required fields all decode to nil
// so the caller falls back to the rule parser.
func ParseWireCall(raw []byte) (*ToolCall, error) {
	// Models occasionally wrap JSON in a code fence; strip it.
	text := strings.TrimSpace(string(raw))
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var wire wireCall
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &wire); err != nil {
		return nil, fmt.Errorf("malformed interpreter answer: %w", err)
	}

	intentType := typeFromString(wire.Intent)
	if intentType == TypeNone || wire.Confidence < minConfidence {
		return nil, nil
	}

	call := &ToolCall{Type: intentType, Confidence: clampConfidence(wire.Confidence)}
	switch intentType {
	case TypeCreateEvent:
		if wire.Title == "" {
			return nil, nil
		}
		params := &CreateEventParams{Title: wire.Title}
		if wire.Start != "" {
			if t, err := time.Parse(time.RFC3339, wire.Start); err == nil {
				params.Start = t
				params.HasTime = true
			}
		}
		call.CreateEvent = params
	case TypeFindFiles:
		if wire.Pattern == "" {
			return nil, nil
		}
		call.FindFiles = &FindFilesParams{Pattern: wire.Pattern}
	case TypeConvertUnits:
		if wire.FromUnit == "" || wire.ToUnit == "" {
			return nil, nil
		}
		call.ConvertUnits = &ConvertUnitsParams{
			Value:    wire.Value,
			FromUnit: strings.ToLower(wire.FromUnit),
			ToUnit:   strings.ToLower(wire.ToUnit),
		}
	case TypeTranslate:
		if wire.Text == "" || wire.Target == "" {
			return nil, nil
		}
		call.Translate = &TranslateParams{
			Text:       wire.Text,
			TargetLang: strings.ToLower(wire.Target),
		}
	}
	return call, nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
