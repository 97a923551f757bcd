package pointexport

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders decoded hexagons for a web map: a polygon and a
// center point feature per hexagon, both tagged with city and group.
func FeatureCollection(hexes []DecodedHexagon) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, h := range hexes {
		poly := geojson.NewFeature(orb.Polygon{h.Ring()})
		poly.Properties["city"] = h.City
		poly.Properties["group"] = h.Group
		poly.Properties["kind"] = "hexagon"
		fc.Append(poly)

		center := geojson.NewFeature(h.Center)
		center.Properties["city"] = h.City
		center.Properties["group"] = h.Group
		center.Properties["kind"] = "center"
		fc.Append(center)
	}
	return fc
}
