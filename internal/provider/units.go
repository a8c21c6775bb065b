package provider

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/runger/pal/internal/result"
)

// conversionScore is the fixed tier for unit-conversion results.
const conversionScore = 2200

// unitPattern matches "<value> <unit> to|in <unit>".
var unitPattern = regexp.MustCompile(
	`(?i)^\s*(-?\d+(?:\.\d+)?)\s*([a-zµ°]+)\s+(?:to|in)\s+([a-zµ°]+)\s*$`)

// linearUnits maps unit aliases to (dimension, factor-to-base-unit).
var linearUnits = map[string]struct {
	dim    string
	factor float64
}{
	// length, base metre
	"mm": {"length", 0.001}, "cm": {"length", 0.01}, "m": {"length", 1},
	"km": {"length", 1000}, "in": {"length", 0.0254}, "inch": {"length", 0.0254},
	"inches": {"length", 0.0254}, "ft": {"length", 0.3048}, "feet": {"length", 0.3048},
	"foot": {"length", 0.3048}, "yd": {"length", 0.9144}, "yard": {"length", 0.9144},
	"yards": {"length", 0.9144}, "mi": {"length", 1609.344}, "mile": {"length", 1609.344},
	"miles": {"length", 1609.344},
	// mass, base kilogram
	"mg": {"mass", 1e-6}, "g": {"mass", 0.001}, "kg": {"mass", 1},
	"t": {"mass", 1000}, "oz": {"mass", 0.028349523125}, "lb": {"mass", 0.45359237},
	"lbs": {"mass", 0.45359237}, "pound": {"mass", 0.45359237}, "pounds": {"mass", 0.45359237},
	// data, base byte
	"b": {"data", 1}, "kb": {"data", 1e3}, "mb": {"data", 1e6},
	"gb": {"data", 1e9}, "tb": {"data", 1e12},
	"kib": {"data", 1024}, "mib": {"data", 1 << 20}, "gib": {"data", 1 << 30},
}

// tempUnits are handled separately because their scales are affine.
var tempUnits = map[string]string{
	"c": "c", "celsius": "c", "°c": "c",
	"f": "f", "fahrenheit": "f", "°f": "f",
	"k": "k", "kelvin": "k",
}

// UnitProvider converts between units for queries
// like "100 km to miles".
type UnitProvider struct{}

// NewUnitProvider creates the unit conversion provider.
func NewUnitProvider() *UnitProvider { return &UnitProvider{} }

// Name implements FastProvider.
func (p *UnitProvider) Name() string { return "units" }

// Search implements FastProvider.
func (p *UnitProvider) Search(query string) []result.SearchResult {
	value, from, to, ok := ParseConversion(query)
	if !ok {
		return nil
	}

	converted, ok := Convert(value, from, to)
	if !ok {
		return nil
	}

	formatted := strconv.FormatFloat(converted, 'f', -1, 64)
	title := fmt.Sprintf("%s %s", formatted, to)
	return []result.SearchResult{{
		Title:    title,
		Subtitle: fmt.Sprintf("%s %s =", strconv.FormatFloat(value, 'f', -1, 64), from),
		Category: result.CategoryConversion,
		Score:    conversionScore,
		Action:   CopyText{Text: formatted},
	}}
}

// ParseConversion extracts (value, fromUnit, toUnit) from a conversion
// query, preserving the unit spellings the user typed.
func ParseConversion(query string) (float64, string, string, bool) {
	m := unitPattern.FindStringSubmatch(query)
	if m == nil {
		return 0, "", "", false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", "", false
	}
	return value, strings.ToLower(m[2]), strings.ToLower(m[3]), true
}

// Convert converts value between two unit aliases. It fails when the units
// are unknown or belong to different dimensions.
func Convert(value float64, from, to string) (float64, bool) {
	if fc, ok := tempUnits[from]; ok {
		tc, ok := tempUnits[to]
		if !ok {
			return 0, false
		}
		return convertTemperature(value, fc, tc), true
	}

	f, okF := linearUnits[from]
	t, okT := linearUnits[to]
	if !okF || !okT || f.dim != t.dim {
		return 0, false
	}
	return value * f.factor / t.factor, true
}

// convertTemperature converts between celsius, fahrenheit, and kelvin.
func convertTemperature(value float64, from, to string) float64 {
	// Normalize to celsius first.
	var c float64
	switch from {
	case "c":
		c = value
	case "f":
		c = (value - 32) * 5 / 9
	case "k":
		c = value - 273.15
	}
	switch to {
	case "c":
		return c
	case "f":
		return c*9/5 + 32
	case "k":
		return c + 273.15
	}
	return c
}

// KnownUnit reports whether the alias names a supported unit.
func KnownUnit(u string) bool {
	u = strings.ToLower(u)
	if _, ok := linearUnits[u]; ok {
		return true
	}
	_, ok := tempUnits[u]
	return ok
}
