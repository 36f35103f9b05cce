package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// ErrNotFeatureCollection is returned when a document decodes but is not a
// GeoJSON FeatureCollection.
var ErrNotFeatureCollection = errors.New("document is not a FeatureCollection")

// USGS feed wire types. Coordinates are decoded as a plain slice because the
// depth is carried as a third ordinate, which orb.Point drops.

type featureCollection struct {
	Type     string           `json:"type"`
	Metadata feedMetadata     `json:"metadata"`
	Features []json.RawMessage `json:"features"`
}

type feedMetadata struct {
	Generated int64  `json:"generated"` // epoch milliseconds
	Title     string `json:"title"`
}

type featureMessage struct {
	ID         string            `json:"id"`
	Properties featureProperties `json:"properties"`
	Geometry   *featureGeometry  `json:"geometry"`
}

type featureProperties struct {
	Mag   *float64 `json:"mag"`
	Place string   `json:"place"`
	Time  int64    `json:"time"` // epoch milliseconds
	URL   string   `json:"url"`
}

type featureGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// ParseFeed decodes a USGS GeoJSON feed document. Features without a
// magnitude or with fewer than three coordinates are skipped and counted in
// Feed.Skipped, as are features whose fields have the wrong JSON type; the
// remaining events keep feed order.
func ParseFeed(data []byte) (Feed, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return Feed{}, fmt.Errorf("parse feed: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return Feed{}, fmt.Errorf("parse feed: %w (type %q)", ErrNotFeatureCollection, fc.Type)
	}

	feed := Feed{
		Title:  fc.Metadata.Title,
		Events: make([]EarthquakeEvent, 0, len(fc.Features)),
	}
	if fc.Metadata.Generated > 0 {
		feed.Generated = time.UnixMilli(fc.Metadata.Generated).UTC()
	}

	for _, raw := range fc.Features {
		event, ok := decodeFeature(raw)
		if !ok {
			feed.Skipped++
			continue
		}
		feed.Events = append(feed.Events, event)
	}
	return feed, nil
}

// decodeFeature decodes one feature on its own, so a feature with
// mistyped fields is skipped without rejecting the rest of the document.
func decodeFeature(raw json.RawMessage) (EarthquakeEvent, bool) {
	var f featureMessage
	if err := json.Unmarshal(raw, &f); err != nil {
		return EarthquakeEvent{}, false
	}
	return eventFromFeature(f)
}

func eventFromFeature(f featureMessage) (EarthquakeEvent, bool) {
	if f.Properties.Mag == nil || f.Geometry == nil || len(f.Geometry.Coordinates) < 3 {
		return EarthquakeEvent{}, false
	}

	c := f.Geometry.Coordinates
	event := EarthquakeEvent{
		ID:        f.ID,
		Magnitude: *f.Properties.Mag,
		Depth:     c[2],
		Location:  f.Properties.Place,
		Point:     orb.Point{c[0], c[1]},
		URL:       f.Properties.URL,
	}
	if f.Properties.Time > 0 {
		event.Time = time.UnixMilli(f.Properties.Time).UTC()
	}
	return event, true
}
