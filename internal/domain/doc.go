// Package domain models USGS earthquake feed data and the marker styling
// derived from it.
//
// # Data Source
//
// Events come from the USGS real-time GeoJSON summary feeds, by default
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson.
// The document is a FeatureCollection; each feature is one earthquake.
//
// # Feed Conventions
//
// Coordinates:
//
//	geometry.coordinates = [longitude, latitude, depth]
//	Depth is in kilometers below the surface. Shallow events near the
//	surface can report zero or slightly negative depth.
//
// Magnitude:
//
//	properties.mag is a decimal on the reported magnitude scale (ml, md, mb,
//	mww, ...). It is occasionally null for events still under review; such
//	features are skipped by [ParseFeed].
//
// Time:
//
//	properties.time is milliseconds since the Unix epoch, UTC.
//
// # Marker Styling
//
// Markers are colored by depth and sized by magnitude:
//
//	depth > 90 km   #FF0000
//	depth > 70 km   #FF4500
//	depth > 50 km   #FFA500
//	depth > 30 km   #FFFF00
//	depth > 10 km   #ADFF2F
//	otherwise       #008000
//
//	radius = magnitude * 4, except magnitude 0 which draws with radius 1
//
// Band comparisons are strict, so a 90 km event is drawn in the 70-90 band.
// The same bands, in the same order, make up the map legend (see [Legend]).
package domain
