package render

import (
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/paulmach/orb"
)

// Options configures the map view.
type Options struct {
	TileURL string
	Center  orb.Point // [lon, lat]
	Zoom    int
}

// BuildMap assembles the earthquake map for a snapshot: tile layer, one
// marker per event styled by depth and magnitude, and the depth legend in
// the bottom-right corner. A failed snapshot still draws its last good
// events and shows the error.
func BuildMap(opts Options, snap domain.Snapshot) (*Map, error) {
	m := NewMap(opts.Center, opts.Zoom)
	m.AddTileLayer(opts.TileURL)
	if snap.Title != "" {
		m.SetTitle(snap.Title)
	}
	m.SetUpdated(snap.FetchedAt)

	m.DrawFeatures(snap.Events, domain.StyleFor, domain.PopupText)

	if err := m.AddControl(BottomRight, LegendControl(domain.Legend())); err != nil {
		return nil, err
	}

	if snap.Failed() {
		m.ShowError("Earthquake data could not be loaded: " + snap.Err)
	}
	return m, nil
}
