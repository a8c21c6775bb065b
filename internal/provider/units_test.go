package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitProvider_Converts(t *testing.T) {
	t.Parallel()

	p := NewUnitProvider()

	out := p.Search("100 km to miles")
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Title, "miles")
	assert.Equal(t, conversionScore, out[0].Score)
}

func TestParseConversion(t *testing.T) {
	t.Parallel()

	value, from, to, ok := ParseConversion("100 km to miles")
	require.True(t, ok)
	assert.Equal(t, 100.0, value)
	assert.Equal(t, "km", from)
	assert.Equal(t, "miles", to)

	_, _, _, ok = ParseConversion("convert stuff")
	assert.False(t, ok)

	value, from, to, ok = ParseConversion("2.5kg in lbs")
	require.True(t, ok)
	assert.Equal(t, 2.5, value)
	assert.Equal(t, "kg", from)
	assert.Equal(t, "lbs", to)
}

func TestConvert_SameDimension(t *testing.T) {
	t.Parallel()

	v, ok := Convert(1000, "m", "km")
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)

	v, ok = Convert(100, "km", "miles")
	require.True(t, ok)
	assert.InDelta(t, 62.137, v, 0.01)

	v, ok = Convert(1, "kg", "lbs")
	require.True(t, ok)
	assert.InDelta(t, 2.2046, v, 0.001)

	v, ok = Convert(1, "gb", "mb")
	require.True(t, ok)
	assert.InDelta(t, 1000, v, 1e-9)
}

func TestConvert_Temperature(t *testing.T) {
	t.Parallel()

	v, ok := Convert(100, "c", "f")
	require.True(t, ok)
	assert.InDelta(t, 212, v, 1e-9)

	v, ok = Convert(0, "c", "k")
	require.True(t, ok)
	assert.InDelta(t, 273.15, v, 1e-9)

	v, ok = Convert(32, "fahrenheit", "celsius")
	require.True(t, ok)
	assert.InDelta(t, 0, v, 1e-9)
}

func TestConvert_CrossDimensionFails(t *testing.T) {
	t.Parallel()

	_, ok := Convert(1, "kg", "km")
	assert.False(t, ok)

	_, ok = Convert(1, "c", "m")
	assert.False(t, ok)

	_, ok = Convert(1, "flurbs", "km")
	assert.False(t, ok)
}
