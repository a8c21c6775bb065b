package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/runger/pal/internal/provider"
)

// ruleConfidence is reported by the rule parser; deliberately lower than
// anything a live interpreter would claim so consumers can tell them apart.
const ruleConfidence = 0.6

var (
	conversionPattern = regexp.MustCompile(
		`(?i)^\s*(?:convert\s+)?(-?\d+(?:\.\d+)?)\s*([a-zµ°]+)\s+(?:to|in)\s+([a-zµ°]+)\s*$`)

	translatePattern = regexp.MustCompile(
		`(?i)^\s*translate\s+(.+?)\s+(?:to|into)\s+([a-z]+)\s*$`)

	findFilesPattern = regexp.MustCompile(
		`(?i)^\s*(?:find|search(?:\s+for)?)\s+(?:files?\s+)?(?:named\s+|called\s+|matching\s+)?(.+?)\s*$`)

	eventKeywords = []string{
		"meeting", "schedule", "event", "appointment", "remind", "reminder", "calendar",
	}
)

// ParseRules is the deterministic keyword/regex fallback for intent
// inference. It returns nil when no supported intent applies.
func ParseRules(query string) *ToolCall {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	if call := parseConversionRule(query); call != nil {
		return call
	}
	if call := parseTranslateRule(query); call != nil {
		return call
	}
	if call := parseEventRule(query); call != nil {
		return call
	}
	return parseFindFilesRule(query)
}

func parseConversionRule(query string) *ToolCall {
	m := conversionPattern.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	from := strings.ToLower(m[2])
	to := strings.ToLower(m[3])
	if !provider.KnownUnit(from) || !provider.KnownUnit(to) {
		return nil
	}
	return &ToolCall{
		Type:       TypeConvertUnits,
		Confidence: ruleConfidence,
		ConvertUnits: &ConvertUnitsParams{
			Value:    value,
			FromUnit: from,
			ToUnit:   to,
		},
	}
}

func parseTranslateRule(query string) *ToolCall {
	m := translatePattern.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	return &ToolCall{
		Type:       TypeTranslate,
		Confidence: ruleConfidence,
		Translate: &TranslateParams{
			Text:       m[1],
			TargetLang: strings.ToLower(m[2]),
		},
	}
}

// parseEventRule recognizes event phrasing like "meeting with sam tomorrow
// at 3pm". The first parsable date-like token run becomes the start time;
// everything else is the title.
func parseEventRule(query string) *ToolCall {
	lower := strings.ToLower(query)
	matched := false
	for _, kw := range eventKeywords {
		if strings.Contains(lower, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}

	params := &CreateEventParams{Title: query}
	if start, remainder, ok := extractDate(query); ok {
		params.Start = start
		params.HasTime = true
		if remainder != "" {
			params.Title = remainder
		}
	}
	return &ToolCall{
		Type:        TypeCreateEvent,
		Confidence:  ruleConfidence,
		CreateEvent: params,
	}
}

// extractDate tries progressively shorter suffixes of the query as a date
// expression ("tomorrow at 3pm", "jan 5", ...). On success it returns the
// parsed time and the query with the date words removed.
func extractDate(query string) (start time.Time, remainder string, ok bool) {
	words := strings.Fields(query)
	for i := 0; i < len(words); i++ {
		candidate := strings.Join(words[i:], " ")
		t, err := dateparse.ParseAny(candidate)
		if err != nil {
			continue
		}
		return t, strings.TrimSpace(strings.Join(words[:i], " ")), true
	}
	return time.Time{}, "", false
}

func parseFindFilesRule(query string) *ToolCall {
	lower := strings.ToLower(query)
	if !strings.HasPrefix(lower, "find ") && !strings.HasPrefix(lower, "search ") {
		return nil
	}
	m := findFilesPattern.FindStringSubmatch(query)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return nil
	}
	return &ToolCall{
		Type:       TypeFindFiles,
		Confidence: ruleConfidence,
		FindFiles:  &FindFilesParams{Pattern: strings.TrimSpace(m[1])},
	}
}
