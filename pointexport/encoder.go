package pointexport

import (
	"github.com/royalcat/hexcities/geomodel"
)

// Encoder flattens hexagons into labeled point records, numbering hexagons
// per city starting from 1.
type Encoder struct {
	groups map[string]int
}

func NewEncoder() *Encoder {
	return &Encoder{
		groups: map[string]int{},
	}
}

// Encode returns the 7 records of one hexagon: the center followed by
// vertex1..vertex6.
func (e *Encoder) Encode(h geomodel.Hexagon) []geomodel.PointRecord {
	return e.AppendEncoded(make([]geomodel.PointRecord, 0, geomodel.RecordsPerHexagon), h)
}

func (e *Encoder) AppendEncoded(dst []geomodel.PointRecord, h geomodel.Hexagon) []geomodel.PointRecord {
	e.groups[h.City]++
	group := e.groups[h.City]

	dst = append(dst, geomodel.PointRecord{
		Group: group,
		City:  h.City,
		Role:  geomodel.RoleCenter,
		Coord: h.GeoCenter,
	})
	for k, v := range h.GeoVertices {
		dst = append(dst, geomodel.PointRecord{
			Group: group,
			City:  h.City,
			Role:  geomodel.VertexRole(k + 1),
			Coord: v,
		})
	}
	return dst
}

// Encode flattens a whole ordered hexagon sequence.
func Encode(hexes []geomodel.Hexagon) []geomodel.PointRecord {
	e := NewEncoder()
	out := make([]geomodel.PointRecord, 0, len(hexes)*geomodel.RecordsPerHexagon)
	for _, h := range hexes {
		out = e.AppendEncoded(out, h)
	}
	return out
}
