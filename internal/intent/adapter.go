package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/runger/pal/internal/provider"
	"github.com/runger/pal/internal/result"
)

// intentScoreTier is the base score for intent-derived synthetic results.
// It sits above generic fuzzy matches; an exact-match provider result
// (bonus 2.0 with a usage boost) can still out-rank it.
const intentScoreTier = 2400

// FileSearchFunc lets the host surface real file hits for a find-files
// intent. Optional; without it the adapter emits a preview result only.
type FileSearchFunc func(ctx context.Context, pattern string) ([]result.SearchResult, error)

// Adapter turns queries into intent-derived results and intent contexts.
// The orchestrator owns all timing (debounce, cancellation); the adapter
// only infers and maps.
type Adapter struct {
	interpreter Interpreter
	fileSearch  FileSearchFunc
	logger      *slog.Logger
}

// NewAdapter creates an intent adapter. interpreter may be nil to run on
// rules alone; fileSearch may be nil.
func NewAdapter(interpreter Interpreter, fileSearch FileSearchFunc, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{interpreter: interpreter, fileSearch: fileSearch, logger: logger}
}

// Process infers an intent for the query and maps it to synthetic results
// plus an intent context. Returns (nil, nil) when no intent applies; the
// intent layer is then simply absent.
func (a *Adapter) Process(ctx context.Context, query string) ([]result.SearchResult, *Context) {
	call := a.infer(ctx, query)
	if call == nil {
		return nil, nil
	}

	results := a.mapCall(ctx, call)
	intentCtx := buildContext(call, query)
	return results, intentCtx
}

// infer asks the interpreter first and falls back to the rule parser when
// the interpreter is unavailable, errors, or finds nothing.
func (a *Adapter) infer(ctx context.Context, query string) *ToolCall {
	if a.interpreter != nil && a.interpreter.Available() {
		call, err := a.interpreter.Infer(ctx, query)
		if err != nil {
			if ctx.Err() == nil {
				a.logger.Warn("intent inference failed; using rules",
					"interpreter", a.interpreter.Name(), "error", err)
			}
		} else if call != nil {
			return call
		}
	}
	return ParseRules(query)
}

// tierFor scales the fixed intent tier by confidence, floored at 0.5 so a
// barely-confident intent still beats weak fuzzy matches while a strong
// fuzzy match can overtake it.
func tierFor(confidence float64) int {
	if confidence < 0.5 {
		confidence = 0.5
	}
	if confidence > 1 {
		confidence = 1
	}
	return int(intentScoreTier * confidence)
}

// mapCall deterministically maps a tool call to synthetic results.
func (a *Adapter) mapCall(ctx context.Context, call *ToolCall) []result.SearchResult {
	tier := tierFor(call.Confidence)

	switch call.Type {
	case TypeCreateEvent:
		return a.mapCreateEvent(call.CreateEvent, tier)
	case TypeFindFiles:
		return a.mapFindFiles(ctx, call.FindFiles, tier)
	case TypeConvertUnits:
		return mapConvertUnits(call.ConvertUnits, tier)
	case TypeTranslate:
		return mapTranslate(call.Translate, tier)
	default:
		return nil
	}
}

func (a *Adapter) mapCreateEvent(p *CreateEventParams, tier int) []result.SearchResult {
	if p == nil {
		return nil
	}
	subtitle := "Create calendar event"
	if p.HasTime {
		subtitle = "Create event on " + p.Start.Format("Mon Jan 2 15:04")
	}
	preview := p.Title
	if p.HasTime {
		preview = fmt.Sprintf("%s (%s)", p.Title, p.Start.Format("2006-01-02 15:04"))
	}
	return []result.SearchResult{{
		Title:    p.Title,
		Subtitle: subtitle,
		Category: result.CategoryCalendar,
		Score:    tier,
		Source:   result.SourceIntent,
		Action:   provider.CopyText{Text: preview},
	}}
}

func (a *Adapter) mapFindFiles(ctx context.Context, p *FindFilesParams, tier int) []result.SearchResult {
	if p == nil {
		return nil
	}

	if a.fileSearch != nil {
		hits, err := a.fileSearch(ctx, p.Pattern)
		if err == nil && len(hits) > 0 {
			// Promote real hits into the intent tier, best hit first.
			for i := range hits {
				hits[i].Source = result.SourceIntent
				hits[i].Score = tier - i
			}
			return hits
		}
		if err != nil && ctx.Err() == nil {
			a.logger.Warn("intent file search failed", "pattern", p.Pattern, "error", err)
		}
	}

	return []result.SearchResult{{
		Title:    fmt.Sprintf("Search files for %q", p.Pattern),
		Subtitle: "File search",
		Category: result.CategoryFile,
		Score:    tier,
		Source:   result.SourceIntent,
		Action:   provider.CopyText{Text: p.Pattern},
	}}
}

func mapConvertUnits(p *ConvertUnitsParams, tier int) []result.SearchResult {
	if p == nil {
		return nil
	}
	converted, ok := provider.Convert(p.Value, p.FromUnit, p.ToUnit)
	if !ok {
		return nil
	}
	formatted := strconv.FormatFloat(converted, 'f', -1, 64)
	return []result.SearchResult{{
		Title:    fmt.Sprintf("%s %s", formatted, p.ToUnit),
		Subtitle: fmt.Sprintf("%s %s =", strconv.FormatFloat(p.Value, 'f', -1, 64), p.FromUnit),
		Category: result.CategoryConversion,
		Score:    tier,
		Source:   result.SourceIntent,
		Action:   provider.CopyText{Text: formatted},
	}}
}

func mapTranslate(p *TranslateParams, tier int) []result.SearchResult {
	if p == nil {
		return nil
	}
	return []result.SearchResult{{
		Title:    fmt.Sprintf("Translate to %s", p.TargetLang),
		Subtitle: p.Text,
		Category: result.CategoryAction,
		Score:    tier,
		Source:   result.SourceIntent,
		Action:   provider.CopyText{Text: p.Text},
	}}
}

// buildContext derives the side-channel intent context from a tool call.
func buildContext(call *ToolCall, query string) *Context {
	ctx := &Context{
		ID:         uuid.NewString(),
		Type:       call.Type,
		Confidence: call.Confidence,
		Query:      query,
	}

	switch call.Type {
	case TypeCreateEvent:
		if p := call.CreateEvent; p != nil {
			ctx.Entities = append(ctx.Entities, Entity{Type: "title", Value: p.Title})
			if p.HasTime {
				ctx.Entities = append(ctx.Entities, Entity{Type: "start", Value: p.Start.Format("2006-01-02 15:04")})
			}
		}
	case TypeFindFiles:
		if p := call.FindFiles; p != nil {
			ctx.Entities = append(ctx.Entities, Entity{Type: "pattern", Value: p.Pattern})
		}
	case TypeConvertUnits:
		if p := call.ConvertUnits; p != nil {
			ctx.Entities = append(ctx.Entities,
				Entity{Type: "value", Value: strconv.FormatFloat(p.Value, 'f', -1, 64)},
				Entity{Type: "from_unit", Value: p.FromUnit},
				Entity{Type: "to_unit", Value: p.ToUnit},
			)
		}
	case TypeTranslate:
		if p := call.Translate; p != nil {
			ctx.Entities = append(ctx.Entities,
				Entity{Type: "text", Value: p.Text},
				Entity{Type: "target_lang", Value: p.TargetLang},
			)
		}
	}
	return ctx
}
