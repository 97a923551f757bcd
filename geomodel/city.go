package geomodel

import (
	"github.com/paulmach/orb"
)

type City struct {
	Name string
	Lat  float64
	Lon  float64

	// Radius is the zero policy when the city uses the run default.
	Radius RadiusPolicy
}

// Point returns the city center in lon/lat order.
func (c City) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}
