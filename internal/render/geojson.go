package render

import (
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// MarkerCollection builds the styled markers as a GeoJSON FeatureCollection.
// Each feature keeps the event's feed attributes and adds the marker style
// under Leaflet's path option names (fillColor, color, radius). The
// collection carries a bbox when it has at least one feature.
func MarkerCollection(events []domain.EarthquakeEvent, style StyleFunc, popup PopupFunc) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	points := make(orb.MultiPoint, 0, len(events))

	for _, e := range events {
		m := NewMarker(e, style, popup)

		f := geojson.NewFeature(e.Point)
		if e.ID != "" {
			f.ID = e.ID
		}
		f.Properties["mag"] = e.Magnitude
		f.Properties["depth"] = e.Depth
		f.Properties["place"] = e.Location
		if !e.Time.IsZero() {
			f.Properties["time"] = e.Time.UnixMilli()
		}
		if e.URL != "" {
			f.Properties["url"] = e.URL
		}
		f.Properties["fillColor"] = m.FillColor
		f.Properties["color"] = m.Color
		f.Properties["radius"] = m.Radius
		f.Properties["popup"] = m.Popup

		fc.Append(f)
		points = append(points, e.Point)
	}

	if len(points) > 0 {
		fc.BBox = geojson.NewBBox(points.Bound())
	}
	return fc
}
