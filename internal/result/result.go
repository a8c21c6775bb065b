// Package result defines the search result value object and the pure
// merge/rank step that combines partial result sets into one ordering.
package result

import "context"

// Category classifies what kind of thing a result is. The zero value is
// CategoryUnknown so an unset category never masquerades as a real one.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryApplication
	CategoryFile
	CategoryCalendar
	CategoryContact
	CategoryProcess
	CategoryAction
	CategoryConversion
	CategoryQuicklink
	CategoryClipboard
	CategoryToggle
	CategorySettings
)

// String returns the machine-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryApplication:
		return "application"
	case CategoryFile:
		return "file"
	case CategoryCalendar:
		return "calendar"
	case CategoryContact:
		return "contact"
	case CategoryProcess:
		return "process"
	case CategoryAction:
		return "action"
	case CategoryConversion:
		return "conversion"
	case CategoryQuicklink:
		return "quicklink"
	case CategoryClipboard:
		return "clipboard"
	case CategoryToggle:
		return "toggle"
	case CategorySettings:
		return "settings"
	default:
		return "unknown"
	}
}

// CategoryFromString maps a category name back to its Category. Unknown
// names map to CategoryUnknown.
func CategoryFromString(s string) Category {
	switch s {
	case "application":
		return CategoryApplication
	case "file":
		return CategoryFile
	case "calendar":
		return CategoryCalendar
	case "contact":
		return CategoryContact
	case "process":
		return CategoryProcess
	case "action":
		return CategoryAction
	case "conversion":
		return CategoryConversion
	case "quicklink":
		return CategoryQuicklink
	case "clipboard":
		return CategoryClipboard
	case "toggle":
		return CategoryToggle
	case "settings":
		return CategorySettings
	default:
		return CategoryUnknown
	}
}

// categoryPriority is the fixed tie-break order across all categories.
// Lower is better. Declared once; Merge relies on it being a total order.
var categoryPriority = map[Category]int{
	CategoryCalendar:    0,
	CategoryAction:      1,
	CategoryConversion:  2,
	CategoryApplication: 3,
	CategoryContact:     4,
	CategoryToggle:      5,
	CategorySettings:    6,
	CategoryQuicklink:   7,
	CategoryProcess:     8,
	CategoryClipboard:   9,
	CategoryFile:        10,
	CategoryUnknown:     11,
}

// Priority returns the tie-break rank of the category (lower sorts first).
func (c Category) Priority() int {
	p, ok := categoryPriority[c]
	if !ok {
		return categoryPriority[CategoryUnknown]
	}
	return p
}

// Source identifies which pipeline layer produced a result. Intent-sourced
// results win identity-key conflicts against equal-scored generic ones.
type Source int

const (
	SourceProvider Source = iota
	SourceIntent
)

// Action is an invocable side effect attached to a result. Results carry
// commands, not closures, so they stay comparable and loggable in tests.
type Action interface {
	// Execute performs the result's primary effect.
	Execute(ctx context.Context) error
}

// Revealer is an optional secondary action (show in folder, terminate, ...).
type Revealer interface {
	// Reveal performs the result's secondary effect.
	Reveal(ctx context.Context) error
}

// Key uniquely identifies a result for deduplication.
type Key struct {
	Title    string
	Subtitle string
}

// SearchResult is the unit of output published to consumers. It is a value
// object: superseded results are discarded, never mutated.
type SearchResult struct {
	Title    string
	Subtitle string
	Category Category
	Score    int // higher is more relevant; 0 is not-a-match/lowest
	IsActive bool
	FilePath string
	Source   Source

	Action Action
	Reveal Revealer
}

// Key returns the identity key used for deduplication.
func (r SearchResult) Key() Key {
	return Key{Title: r.Title, Subtitle: r.Subtitle}
}

// Valid reports whether the result carries the required fields. Malformed
// results are dropped at merge time rather than failing the provider.
func (r SearchResult) Valid() bool {
	return r.Title != ""
}

// outranks reports whether a should replace b on an identity-key conflict.
func outranks(a, b SearchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Source == SourceIntent && b.Source != SourceIntent
}
