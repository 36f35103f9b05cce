package domain

import (
	"fmt"
	"strconv"
)

const (
	// StrokeColor outlines every marker.
	StrokeColor = "#000000"

	// MinRadius is the smallest radius a marker can be drawn with and still be visible.
	MinRadius = 1.0

	radiusScale = 4.0
)

// depthBand is a depth floor (exclusive) and the color of events deeper than it.
type depthBand struct {
	floor float64
	color string
	label string
}

// depthBands are ordered deepest first. The first band whose floor the depth
// exceeds wins.
var depthBands = []depthBand{
	{floor: 90, color: "#FF0000", label: ">90"},
	{floor: 70, color: "#FF4500", label: "70-90"},
	{floor: 50, color: "#FFA500", label: "50-70"},
	{floor: 30, color: "#FFFF00", label: "30-50"},
	{floor: 10, color: "#ADFF2F", label: "10-30"},
}

// shallowBand catches everything at or below 10 km, including negative depths.
var shallowBand = depthBand{color: "#008000", label: "<10"}

// ColorForDepth maps a depth in kilometers to a marker fill color:
//   - >90 red, >70 orange-red, >50 orange, >30 yellow, >10 green-yellow
//   - anything else (including negative depth and NaN) green
func ColorForDepth(depth float64) string {
	for _, b := range depthBands {
		if depth > b.floor {
			return b.color
		}
	}
	return shallowBand.color
}

// RadiusForMagnitude maps a magnitude to a marker radius in pixels.
// Magnitude 0 returns MinRadius because a zero-radius marker is invisible.
// Negative magnitudes are not corrected and yield a negative radius; the
// renderer clamps at draw time.
func RadiusForMagnitude(magnitude float64) float64 {
	if magnitude == 0 {
		return MinRadius
	}
	return magnitude * radiusScale
}

// StyleFor derives the marker style for an event. It is a pure function of
// depth and magnitude.
func StyleFor(e EarthquakeEvent) StyleDescriptor {
	return StyleDescriptor{
		FillColor:   ColorForDepth(e.Depth),
		StrokeColor: StrokeColor,
		Radius:      RadiusForMagnitude(e.Magnitude),
	}
}

// PopupText formats the popup body for an event. Lines are separated by "\n";
// the display layer turns them into its own line breaks. The location is
// passed through as the feed supplied it.
func PopupText(e EarthquakeEvent) string {
	return fmt.Sprintf("Magnitude: %s\nDepth: %s\nLocation: %s",
		formatNumber(e.Magnitude), formatNumber(e.Depth), e.Location)
}

// Legend returns the depth legend bands, deepest first. The colors match
// ColorForDepth exactly.
func Legend() []LegendBand {
	bands := make([]LegendBand, 0, len(depthBands)+1)
	for _, b := range depthBands {
		bands = append(bands, LegendBand{ColorHex: b.color, RangeLabel: b.label})
	}
	return append(bands, LegendBand{ColorHex: shallowBand.color, RangeLabel: shallowBand.label})
}

// formatNumber renders a float with the shortest representation that round-trips,
// so 45 prints as "45" and 6.5 as "6.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
