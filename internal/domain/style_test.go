package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorForDepth(t *testing.T) {
	tests := []struct {
		name     string
		depth    float64
		expected string
	}{
		{"very deep", 300, "#FF0000"},
		{"just over 90", 90.01, "#FF0000"},
		{"exactly 90", 90, "#FF4500"},
		{"mid 70-90", 80, "#FF4500"},
		{"exactly 70", 70, "#FFA500"},
		{"mid 50-70", 60, "#FFA500"},
		{"exactly 50", 50, "#FFFF00"},
		{"mid 30-50", 45, "#FFFF00"},
		{"exactly 30", 30, "#ADFF2F"},
		{"mid 10-30", 20, "#ADFF2F"},
		{"exactly 10", 10, "#008000"},
		{"shallow", 2.5, "#008000"},
		{"zero", 0, "#008000"},
		{"negative", -1.2, "#008000"},
		{"NaN", math.NaN(), "#008000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColorForDepth(tt.depth))
		})
	}
}

func TestRadiusForMagnitude(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
		expected  float64
	}{
		{"zero uses minimum", 0, 1},
		{"whole magnitude", 5, 20},
		{"fractional magnitude", 6.5, 26},
		{"small magnitude", 0.1, 0.4},
		{"negative is not corrected", -1, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RadiusForMagnitude(tt.magnitude), 1e-9)
		})
	}
}

func TestStyleFor(t *testing.T) {
	t.Run("mid depth zero magnitude", func(t *testing.T) {
		e := EarthquakeEvent{Magnitude: 0, Depth: 45, Location: "Test"}
		assert.Equal(t, StyleDescriptor{FillColor: "#FFFF00", StrokeColor: "#000000", Radius: 1}, StyleFor(e))
	})

	t.Run("deep offshore", func(t *testing.T) {
		e := EarthquakeEvent{Magnitude: 6.5, Depth: 120, Location: "Offshore"}
		style := StyleFor(e)
		assert.Equal(t, "#FF0000", style.FillColor)
		assert.Equal(t, "#000000", style.StrokeColor)
		assert.InDelta(t, 26.0, style.Radius, 1e-9)
	})

	t.Run("idempotent", func(t *testing.T) {
		e := EarthquakeEvent{Magnitude: 3.3, Depth: 12.7, Location: "10 km N of Somewhere"}
		assert.Equal(t, StyleFor(e), StyleFor(e))
	})

	t.Run("ignores location and coordinates", func(t *testing.T) {
		a := EarthquakeEvent{Magnitude: 2, Depth: 33, Location: "A"}
		b := EarthquakeEvent{Magnitude: 2, Depth: 33, Location: "B", ID: "us123"}
		b.Point[0], b.Point[1] = 140.1, 35.6
		assert.Equal(t, StyleFor(a), StyleFor(b))
	})
}

func TestPopupText(t *testing.T) {
	tests := []struct {
		name     string
		event    EarthquakeEvent
		expected string
	}{
		{
			name:     "whole numbers",
			event:    EarthquakeEvent{Magnitude: 0, Depth: 45, Location: "Test"},
			expected: "Magnitude: 0\nDepth: 45\nLocation: Test",
		},
		{
			name:     "decimals",
			event:    EarthquakeEvent{Magnitude: 6.5, Depth: 120.25, Location: "Offshore"},
			expected: "Magnitude: 6.5\nDepth: 120.25\nLocation: Offshore",
		},
		{
			name:     "negative depth",
			event:    EarthquakeEvent{Magnitude: 1.1, Depth: -0.5, Location: "5km NE of The Geysers, CA"},
			expected: "Magnitude: 1.1\nDepth: -0.5\nLocation: 5km NE of The Geysers, CA",
		},
		{
			name:     "location passed through unescaped",
			event:    EarthquakeEvent{Magnitude: 2, Depth: 3, Location: "<b>Bold</b> & co"},
			expected: "Magnitude: 2\nDepth: 3\nLocation: <b>Bold</b> & co",
		},
		{
			name:     "empty location",
			event:    EarthquakeEvent{Magnitude: 2, Depth: 3},
			expected: "Magnitude: 2\nDepth: 3\nLocation: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PopupText(tt.event))
		})
	}
}

func TestLegend(t *testing.T) {
	bands := Legend()

	expected := []LegendBand{
		{ColorHex: "#FF0000", RangeLabel: ">90"},
		{ColorHex: "#FF4500", RangeLabel: "70-90"},
		{ColorHex: "#FFA500", RangeLabel: "50-70"},
		{ColorHex: "#FFFF00", RangeLabel: "30-50"},
		{ColorHex: "#ADFF2F", RangeLabel: "10-30"},
		{ColorHex: "#008000", RangeLabel: "<10"},
	}
	assert.Equal(t, expected, bands)
}

func TestLegend_MatchesColorForDepth(t *testing.T) {
	// One representative depth per band, deepest first.
	depths := []float64{95, 80, 60, 40, 20, 5}
	bands := Legend()

	for i, d := range depths {
		assert.Equal(t, bands[i].ColorHex, ColorForDepth(d), "depth %v", d)
	}
}

func TestLegend_ReturnsFreshSlice(t *testing.T) {
	bands := Legend()
	bands[0].ColorHex = "#123456"

	assert.Equal(t, "#FF0000", Legend()[0].ColorHex)
}

func TestStyled(t *testing.T) {
	e := EarthquakeEvent{ID: "ak0001", Magnitude: 0, Depth: 45, Location: "Test"}
	s := Styled(e)

	assert.Equal(t, e, s.Event)
	assert.Equal(t, StyleFor(e), s.Style)
	assert.Equal(t, "Magnitude: 0\nDepth: 45\nLocation: Test", s.Popup)
}
