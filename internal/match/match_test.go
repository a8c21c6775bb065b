package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		target  string
		matched bool
		kind    Kind
	}{
		{"exact", "calculator", "Calculator", true, KindExact},
		{"exact case insensitive", "FireFox", "firefox", true, KindExact},
		{"prefix", "cal", "Calculator", true, KindPrefix},
		{"word start", "key", "Show Keyboard Settings", true, KindWordStart},
		{"word start after punctuation", "mail", "open-mail client", true, KindWordStart},
		{"fuzzy subsequence", "clndr", "Calendar", true, KindFuzzy},
		{"fuzzy sparse", "ffx", "Firefox", true, KindFuzzy},
		{"no match", "xyz", "Calculator", false, KindNone},
		{"out of order", "lac", "cal", false, KindNone},
		{"empty query", "", "Calculator", false, KindNone},
		{"empty target", "cal", "", false, KindNone},
		{"both empty", "", "", false, KindNone},
		{"query longer than target", "calculator pro", "calc", false, KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Analyze(tt.query, tt.target)
			assert.Equal(t, tt.matched, res.Matched)
			assert.Equal(t, tt.kind, res.Kind, "kind for %q vs %q", tt.query, tt.target)
		})
	}
}

func TestAnalyze_QualityBounds(t *testing.T) {
	t.Parallel()

	targets := []string{"Calculator", "System Settings", "a", "Déjà Vu", "x y z"}
	queries := []string{"c", "cal", "calc", "ss", "sys", "set", "xz", "déjà"}

	for _, q := range queries {
		for _, target := range targets {
			res := Analyze(q, target)
			if res.Matched {
				assert.Greater(t, res.Quality, 0.0, "%q vs %q", q, target)
				assert.LessOrEqual(t, res.Quality, 1.0, "%q vs %q", q, target)
			}
		}
	}
}

func TestAnalyze_FuzzyGapsDegradeQuality(t *testing.T) {
	t.Parallel()

	tight := Analyze("abc", "xabcx")
	sparse := Analyze("abc", "a123b456c")

	assert.Equal(t, KindFuzzy, tight.Kind)
	assert.Equal(t, KindFuzzy, sparse.Kind)
	assert.Greater(t, tight.Quality, sparse.Quality,
		"contiguous match should outscore a gapped one")
}

func TestAnalyze_LongerPrefixScoresHigher(t *testing.T) {
	t.Parallel()

	short := Analyze("ca", "Calculator")
	long := Analyze("calcul", "Calculator")

	assert.Equal(t, KindPrefix, short.Kind)
	assert.Equal(t, KindPrefix, long.Kind)
	assert.Greater(t, long.Quality, short.Quality)
}

func TestKind_BonusOrdering(t *testing.T) {
	t.Parallel()

	assert.Greater(t, KindExact.Bonus(), KindPrefix.Bonus())
	assert.Greater(t, KindPrefix.Bonus(), KindWordStart.Bonus())
	assert.Greater(t, KindWordStart.Bonus(), KindFuzzy.Bonus())
	assert.Greater(t, KindFuzzy.Bonus(), KindNone.Bonus())
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "exact", KindExact.String())
	assert.Equal(t, "prefix", KindPrefix.String())
	assert.Equal(t, "word_start", KindWordStart.String())
	assert.Equal(t, "fuzzy", KindFuzzy.String())
	assert.Equal(t, "none", KindNone.String())
}
