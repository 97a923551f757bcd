package hexgrid

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/hexcities/geomodel"
)

// steps returns start, start+step, ... for every value strictly below stop.
// The count is computed up front so the sequence does not depend on
// accumulated rounding.
func steps(start, stop, step float64) []float64 {
	n := int(math.Ceil((stop - start) / step))
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for k := range out {
		out[k] = start + float64(k)*step
	}
	return out
}

// lattice holds the axis values of a rectangular hexagon lattice.
type lattice struct {
	xs, ys []float64

	width, height float64
	offset        geomodel.OffsetMode
}

func newLattice(cfg Config, bound orb.Bound) lattice {
	return lattice{
		xs:     steps(bound.Min.X(), bound.Max.X(), 1.5*cfg.HexSide),
		ys:     steps(bound.Min.Y(), bound.Max.Y(), cfg.Height()),
		width:  cfg.Width(),
		height: cfg.Height(),
		offset: cfg.Offset,
	}
}

func (l lattice) Len() int {
	return len(l.xs) * len(l.ys)
}

// center returns the hexagon center of cell (i, j) with the parity offset applied.
func (l lattice) center(i, j int) orb.Point {
	x, y := l.xs[i], l.ys[j]
	switch l.offset {
	case geomodel.RowParity:
		if j%2 != 0 {
			x += 0.75 * l.width
		}
	case geomodel.ColumnParity:
		if i%2 != 0 {
			y -= l.height / 2
		}
	}
	return orb.Point{x, y}
}

// keep reports whether a cell center lies within radius of the city center,
// the boundary included.
func keep(c, center orb.Point, radius float64) bool {
	return planar.Distance(c, center) <= radius
}

// vertices places the six corners at 0, 60, ..., 300 degrees around center.
func vertices(center orb.Point, side float64) [6]orb.Point {
	var out [6]orb.Point
	for k := range out {
		angle := float64(k) * math.Pi / 3
		out[k] = orb.Point{
			center[0] + side*math.Cos(angle),
			center[1] + side*math.Sin(angle),
		}
	}
	return out
}
