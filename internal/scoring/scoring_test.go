package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runger/pal/internal/result"
)

func TestEngine_NeutralDefaults(t *testing.T) {
	t.Parallel()

	// Nil weights and nil stats must behave as 1.0 multipliers.
	e := NewEngine(nil, nil)

	score := e.Score("calculator", "Calculator", "", result.CategoryApplication, "")
	// Exact match: quality 1.0 × bonus 2.0 × 1.0 × 1.0 × 1000.
	assert.Equal(t, 2000, score)
}

func TestEngine_Monotonicity(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil, nil)
	cat := result.CategoryApplication

	exact := e.Score("calculator", "Calculator", "", cat, "")
	prefix := e.Score("calcul", "Calculator", "", cat, "")
	fuzzy := e.Score("clcltr", "Calculator", "", cat, "")

	assert.GreaterOrEqual(t, exact, prefix, "exact must not score below prefix")
	assert.GreaterOrEqual(t, prefix, fuzzy, "prefix must not score below fuzzy")
	assert.Greater(t, fuzzy, 0)
}

func TestEngine_NoMatchScoresZero(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil, nil)
	assert.Equal(t, 0, e.Score("zzz", "Calculator", "", result.CategoryApplication, ""))
	assert.Equal(t, 0, e.Score("", "Calculator", "", result.CategoryApplication, ""))
}

func TestEngine_CategoryWeightApplies(t *testing.T) {
	t.Parallel()

	weights := NewWeights(map[result.Category]float64{
		result.CategoryApplication: 2.0,
		result.CategoryFile:        0.5,
	})
	e := NewEngine(weights, nil)

	app := e.Score("report", "report", "", result.CategoryApplication, "")
	file := e.Score("report", "report", "", result.CategoryFile, "")

	assert.Equal(t, 4*file, app, "weights 2.0 vs 0.5 should give a 4x spread")
}

func TestEngine_StatsFactorApplies(t *testing.T) {
	t.Parallel()

	var gotCategory result.Category
	var gotID string
	stats := func(c result.Category, id string) float64 {
		gotCategory = c
		gotID = id
		return 1.5
	}
	e := NewEngine(nil, stats)

	boosted := e.Score("calculator", "Calculator", "", result.CategoryApplication, "com.pal.calc")
	plain := NewEngine(nil, nil).Score("calculator", "Calculator", "", result.CategoryApplication, "")

	assert.Equal(t, result.CategoryApplication, gotCategory)
	assert.Equal(t, "com.pal.calc", gotID, "explicit identifier keys the stats lookup")
	assert.Equal(t, plain*3/2, boosted)
}

func TestEngine_StatsIdentifierDefaultsToTitle(t *testing.T) {
	t.Parallel()

	var gotID string
	e := NewEngine(nil, func(_ result.Category, id string) float64 {
		gotID = id
		return 1.0
	})

	e.Score("cal", "Calculator", "", result.CategoryApplication, "")
	assert.Equal(t, "Calculator", gotID)
}

func TestEngine_SubtitleFallback(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil, nil)
	cat := result.CategorySettings

	// Title "Preferences" does not match "wifi"; the subtitle does.
	withSubtitle := e.Score("wifi", "Preferences", "Wifi and networking", cat, "")
	assert.Greater(t, withSubtitle, 0, "subtitle match must rescue a non-matching title")

	// Subtitle matches are penalized relative to an equal title match.
	titleOnly := e.Score("wifi", "Wifi and networking", "", cat, "")
	assert.Greater(t, titleOnly, withSubtitle)
}

func TestEngine_StrongTitleIgnoresSubtitle(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil, nil)
	cat := result.CategoryApplication

	// An exact title match must not be displaced by any subtitle score.
	score := e.Score("mail", "Mail", "mail mail mail", cat, "")
	bare := e.Score("mail", "Mail", "", cat, "")
	assert.Equal(t, bare, score)
}

func TestWeights_MutableAtScoringTime(t *testing.T) {
	t.Parallel()

	weights := NewWeights(nil)
	e := NewEngine(weights, nil)
	cat := result.CategoryToggle

	before := e.Score("dark", "dark", "", cat, "")
	weights.Set(cat, 2.0)
	after := e.Score("dark", "dark", "", cat, "")

	assert.Equal(t, 2*before, after, "weight changes apply on the next call")
}
