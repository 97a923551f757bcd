package geomodel

import (
	"github.com/paulmach/orb"
)

// Hexagon is a single tile of a city grid. Planar coordinates are in the
// metric reference frame, Geo* fields hold the same points in lon/lat.
type Hexagon struct {
	City string

	// I and J index the lattice column and row the hexagon was generated from.
	I, J int

	Center   orb.Point
	Vertices [6]orb.Point

	GeoCenter   orb.Point
	GeoVertices [6]orb.Point
}

// ClosedRing returns the hexagon outline through vertices, ending on the first one.
func ClosedRing(vertices [6]orb.Point) orb.Ring {
	ring := make(orb.Ring, 0, len(vertices)+1)
	ring = append(ring, vertices[:]...)
	return append(ring, vertices[0])
}
