// Package intent interprets free-form queries as structured tool calls and
// maps them to synthetic high-priority results. Inference goes through an
// external interpreter when one is available and falls back to a
// deterministic rule parser when it is not.
package intent

import "time"

// Type discriminates the closed set of supported intents.
type Type int

const (
	TypeNone Type = iota
	TypeCreateEvent
	TypeFindFiles
	TypeConvertUnits
	TypeTranslate
)

// String returns the wire name of the intent type.
func (t Type) String() string {
	switch t {
	case TypeCreateEvent:
		return "create_event"
	case TypeFindFiles:
		return "find_files"
	case TypeConvertUnits:
		return "convert_units"
	case TypeTranslate:
		return "translate"
	default:
		return "none"
	}
}

// typeFromString maps a wire name back to a Type; unknown names yield
// TypeNone so a drifting interpreter cannot smuggle in new intents.
func typeFromString(s string) Type {
	switch s {
	case "create_event":
		return TypeCreateEvent
	case "find_files":
		return TypeFindFiles
	case "convert_units":
		return TypeConvertUnits
	case "translate":
		return TypeTranslate
	default:
		return TypeNone
	}
}

// CreateEventParams carries a parsed calendar-event request.
type CreateEventParams struct {
	Title string
	Start time.Time
	HasTime bool
}

// FindFilesParams carries a parsed file-search request.
type FindFilesParams struct {
	Pattern string
}

// ConvertUnitsParams carries a parsed unit conversion.
type ConvertUnitsParams struct {
	Value    float64
	FromUnit string
	ToUnit   string
}

// TranslateParams carries a parsed translation request.
type TranslateParams struct {
	Text       string
	TargetLang string
}

// ToolCall is the tagged union over the supported intents. Exactly the
// params field matching Type is non-nil.
type ToolCall struct {
	Type       Type
	Confidence float64

	CreateEvent  *CreateEventParams
	FindFiles    *FindFilesParams
	ConvertUnits *ConvertUnitsParams
	Translate    *TranslateParams
}

// Entity is one extracted (type, value) pair, ordered as extracted.
type Entity struct {
	Type  string
	Value string
}

// Context describes the latest successfully parsed intent. It exists only
// while its originating query generation is current.
type Context struct {
	ID         string
	Type       Type
	Entities   []Entity
	Confidence float64
	Query      string
}
