// Package match classifies how well a query matches a candidate label.
// It distinguishes exact, prefix, word-start, and fuzzy subsequence matches
// and reports a normalized quality so the scoring layer can weigh them.
package match

import (
	"strings"
	"unicode"
)

// Kind is the classification of a match, ordered from weakest to strongest.
type Kind int

const (
	// KindNone means the query does not match the target.
	KindNone Kind = iota
	// KindFuzzy means every query rune appears in the target in order.
	KindFuzzy
	// KindWordStart means the query matches the start of a word in the target.
	KindWordStart
	// KindPrefix means the target starts with the query.
	KindPrefix
	// KindExact means the query equals the target (case-insensitive).
	KindExact
)

// String returns the human-readable name of the match kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFuzzy:
		return "fuzzy"
	case KindWordStart:
		return "word_start"
	case KindPrefix:
		return "prefix"
	case KindExact:
		return "exact"
	default:
		return "unknown"
	}
}

// Bonus returns the fixed scoring multiplier for a match kind.
// Exact > prefix > word-start > fuzzy; the scoring engine applies it.
func (k Kind) Bonus() float64 {
	switch k {
	case KindExact:
		return 2.0
	case KindPrefix:
		return 1.5
	case KindWordStart:
		return 1.2
	case KindFuzzy:
		return 1.0
	default:
		return 0
	}
}

// Result describes a single query/target comparison.
type Result struct {
	Matched bool
	Kind    Kind
	Quality float64 // 0.0 to 1.0
}

// none is the shared non-match result.
var none = Result{Matched: false, Kind: KindNone}

// Analyze compares query against target and classifies the match.
// Both sides are case-folded before comparison. An empty query never
// matches, and an empty target never matches a non-empty query.
func Analyze(query, target string) Result {
	if query == "" || target == "" {
		return none
	}

	q := strings.ToLower(query)
	t := strings.ToLower(target)

	if q == t {
		return Result{Matched: true, Kind: KindExact, Quality: 1.0}
	}

	if strings.HasPrefix(t, q) {
		// Longer queries cover more of the target and are better matches.
		quality := 0.8 + 0.2*float64(len(q))/float64(len(t))
		return Result{Matched: true, Kind: KindPrefix, Quality: quality}
	}

	if wordStartMatch(q, t) {
		return Result{Matched: true, Kind: KindWordStart, Quality: 0.8}
	}

	if ok, quality := subsequenceMatch(q, t); ok {
		return Result{Matched: true, Kind: KindFuzzy, Quality: quality}
	}

	return none
}

// wordStartMatch reports whether q matches the start of any
// whitespace/punctuation-delimited word in t.
func wordStartMatch(q, t string) bool {
	words := strings.FieldsFunc(t, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	for _, w := range words {
		if strings.HasPrefix(w, q) {
			return true
		}
	}
	return false
}

// subsequenceMatch reports whether every rune of q appears in t in order,
// and a quality in (0,1] that rewards contiguous runs and a compact match
// span. Gaps between matched runes degrade quality.
func subsequenceMatch(q, t string) (bool, float64) {
	qr := []rune(q)
	tr := []rune(t)
	if len(qr) > len(tr) {
		return false, 0
	}

	qi := 0
	first := -1
	last := -1
	consecutive := 0
	prev := -2

	for ti, r := range tr {
		if qi >= len(qr) {
			break
		}
		if r != qr[qi] {
			continue
		}
		if first == -1 {
			first = ti
		}
		if ti == prev+1 {
			consecutive++
		}
		prev = ti
		last = ti
		qi++
	}

	if qi != len(qr) {
		return false, 0
	}

	// Contiguity: fraction of matched runes adjacent to the previous match.
	contiguity := 1.0
	if len(qr) > 1 {
		contiguity = float64(consecutive) / float64(len(qr)-1)
	}

	// Compactness: query length relative to the span it was found in.
	span := last - first + 1
	compactness := float64(len(qr)) / float64(span)

	quality := 0.5*contiguity + 0.5*compactness

	// A subsequence match is never as good as a prefix match.
	if quality > 0.75 {
		quality = 0.75
	}
	return true, quality
}
