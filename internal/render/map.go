// Package render turns styled earthquake events into a Leaflet map page and
// GeoJSON marker collections. Leaflet itself runs in the browser; this
// package produces what it consumes.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/paulmach/orb"
)

// StyleFunc derives the marker style for an event.
type StyleFunc func(domain.EarthquakeEvent) domain.StyleDescriptor

// PopupFunc formats the popup body for an event.
type PopupFunc func(domain.EarthquakeEvent) string

// Control is a custom map control rendered into one of the map corners.
type Control interface {
	// Class is the CSS class list of the control container.
	Class() string
	HTML() (template.HTML, error)
}

// Control positions supported by Leaflet.
const (
	TopLeft     = "topleft"
	TopRight    = "topright"
	BottomLeft  = "bottomleft"
	BottomRight = "bottomright"
)

//go:embed templates/map.html.tmpl
var mapTemplateText string

var mapTemplate = template.Must(template.New("map").Parse(mapTemplateText))

// Marker is one circle marker as handed to Leaflet.
type Marker struct {
	ID        string  `json:"id,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	FillColor string  `json:"fillColor"`
	Color     string  `json:"color"`
	Radius    float64 `json:"radius"`
	Popup     string  `json:"popup"`
}

// NewMarker styles an event with the given hooks. A radius that is not
// positive is drawn at domain.MinRadius.
func NewMarker(e domain.EarthquakeEvent, style StyleFunc, popup PopupFunc) Marker {
	s := style(e)
	return Marker{
		ID:        e.ID,
		Lat:       e.Lat(),
		Lon:       e.Lon(),
		FillColor: s.FillColor,
		Color:     s.StrokeColor,
		Radius:    drawableRadius(s.Radius),
		Popup:     popup(e),
	}
}

func drawableRadius(r float64) float64 {
	if !(r > 0) || math.IsInf(r, 1) {
		return domain.MinRadius
	}
	return r
}

type placedControl struct {
	position string
	control  Control
}

// Map collects everything a page needs: view, tile layer, markers and
// controls. Build one per page; it is not safe for concurrent use.
type Map struct {
	center   orb.Point
	zoom     int
	title    string
	tileURL  string
	updated  time.Time
	markers  []Marker
	controls []placedControl
	banner   string
}

// NewMap creates a map centered on center ([lon, lat]) at the given zoom.
func NewMap(center orb.Point, zoom int) *Map {
	return &Map{center: center, zoom: zoom, title: "Earthquakes"}
}

// AddTileLayer sets the base tile layer URL template, e.g.
// "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png".
func (m *Map) AddTileLayer(urlTemplate string) {
	m.tileURL = urlTemplate
}

// DrawFeatures adds one circle marker per event, styled and labelled by the
// injected hooks.
func (m *Map) DrawFeatures(events []domain.EarthquakeEvent, style StyleFunc, popup PopupFunc) {
	for _, e := range events {
		m.markers = append(m.markers, NewMarker(e, style, popup))
	}
}

// AddControl places a control in a map corner.
func (m *Map) AddControl(position string, c Control) error {
	switch position {
	case TopLeft, TopRight, BottomLeft, BottomRight:
	default:
		return fmt.Errorf("unknown control position %q", position)
	}
	m.controls = append(m.controls, placedControl{position: position, control: c})
	return nil
}

// SetTitle sets the page title.
func (m *Map) SetTitle(title string) { m.title = title }

// SetUpdated records when the drawn data was fetched.
func (m *Map) SetUpdated(t time.Time) { m.updated = t }

// ShowError displays a failure banner above the map.
func (m *Map) ShowError(msg string) { m.banner = msg }

// Markers returns the markers drawn so far.
func (m *Map) Markers() []Marker { return m.markers }

type controlView struct {
	Position string
	Class    string
	HTML     template.HTML
}

type pageView struct {
	Title    string
	TileURL  string
	Center   [2]float64 // lat, lon as Leaflet expects
	Zoom     int
	Markers  []Marker
	Controls []controlView
	Banner   string
	Updated  string
}

// Render writes the complete HTML page. Nothing is written if a control
// fails to render.
func (m *Map) Render(w io.Writer) error {
	view := pageView{
		Title:    m.title,
		TileURL:  m.tileURL,
		Center:   [2]float64{m.center.Lat(), m.center.Lon()},
		Zoom:     m.zoom,
		Markers:  m.markers,
		Controls: make([]controlView, 0, len(m.controls)),
		Banner:   m.banner,
	}
	if view.Markers == nil {
		view.Markers = []Marker{}
	}
	if !m.updated.IsZero() {
		view.Updated = m.updated.UTC().Format(time.RFC1123)
	}
	for _, pc := range m.controls {
		html, err := pc.control.HTML()
		if err != nil {
			return fmt.Errorf("render %s control: %w", pc.position, err)
		}
		view.Controls = append(view.Controls, controlView{Position: pc.position, Class: pc.control.Class(), HTML: html})
	}

	var buf bytes.Buffer
	if err := mapTemplate.Execute(&buf, view); err != nil {
		return fmt.Errorf("render map page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
