package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// EarthquakeEvent is one earthquake from the feed. It is read-only for the
// lifetime of a rendering pass.
type EarthquakeEvent struct {
	ID        string    `json:"id"`
	Magnitude float64   `json:"magnitude"`
	Depth     float64   `json:"depth"` // kilometers, may be zero or negative
	Location  string    `json:"location"`
	Point     orb.Point `json:"point"` // [lon, lat]
	Time      time.Time `json:"time"`
	URL       string    `json:"url,omitempty"`
}

// Lon returns the event longitude.
func (e EarthquakeEvent) Lon() float64 { return e.Point.Lon() }

// Lat returns the event latitude.
func (e EarthquakeEvent) Lat() float64 { return e.Point.Lat() }

// Coordinates returns the event position in feed order: longitude, latitude, depth.
func (e EarthquakeEvent) Coordinates() [3]float64 {
	return [3]float64{e.Point.Lon(), e.Point.Lat(), e.Depth}
}

// StyleDescriptor is the marker style derived from an event. It is never persisted.
type StyleDescriptor struct {
	FillColor   string  `json:"fill_color"`
	StrokeColor string  `json:"stroke_color"`
	Radius      float64 `json:"radius"`
}

// LegendBand is one entry of the depth legend.
type LegendBand struct {
	ColorHex   string `json:"color"`
	RangeLabel string `json:"label"`
}

// StyledEvent pairs an event with its derived style and popup text.
type StyledEvent struct {
	Event EarthquakeEvent `json:"event"`
	Style StyleDescriptor `json:"style"`
	Popup string          `json:"popup"`
}

// Styled derives the style and popup for an event.
func Styled(e EarthquakeEvent) StyledEvent {
	return StyledEvent{
		Event: e,
		Style: StyleFor(e),
		Popup: PopupText(e),
	}
}

// Feed is a parsed feed document.
type Feed struct {
	Title     string
	Generated time.Time
	Events    []EarthquakeEvent

	// Skipped counts features rejected as malformed (no magnitude or fewer
	// than three coordinates).
	Skipped int
}
