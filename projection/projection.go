package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
)

const (
	// WGS84 is the geographic frame, coordinates in lon/lat degrees.
	WGS84 = "+proj=longlat +datum=WGS84 +no_defs"
	// Lambert93 is the French national conformal conic projection (EPSG:2154), meters.
	Lambert93 = "+proj=lcc +lat_0=46.5 +lon_0=3 +lat_1=49 +lat_2=44 +x_0=700000 +y_0=6600000 +ellps=GRS80 +units=m +no_defs"
)

var ErrOutOfDomain = errors.New("coordinate outside of the projection domain")

// Projector converts points between one geographic and one planar reference system.
type Projector struct {
	toPlanar     proj.Transformer
	toGeographic proj.Transformer
}

func New(geographic, planar string) (*Projector, error) {
	geoSR, err := proj.Parse(geographic)
	if err != nil {
		return nil, fmt.Errorf("error parsing geographic reference: %w", err)
	}
	planarSR, err := proj.Parse(planar)
	if err != nil {
		return nil, fmt.Errorf("error parsing planar reference: %w", err)
	}

	toPlanar, err := geoSR.NewTransform(planarSR)
	if err != nil {
		return nil, fmt.Errorf("error creating forward transform: %w", err)
	}
	toGeographic, err := planarSR.NewTransform(geoSR)
	if err != nil {
		return nil, fmt.Errorf("error creating inverse transform: %w", err)
	}

	return &Projector{
		toPlanar:     toPlanar,
		toGeographic: toGeographic,
	}, nil
}

func NewLambert93() (*Projector, error) {
	return New(WGS84, Lambert93)
}

// ToPlanar projects a lon/lat point to planar x/y meters.
func (p *Projector) ToPlanar(point orb.Point) (orb.Point, error) {
	return transform(p.toPlanar, point)
}

// ToGeographic projects a planar x/y point back to lon/lat.
func (p *Projector) ToGeographic(point orb.Point) (orb.Point, error) {
	return transform(p.toGeographic, point)
}

// ToGeographicRing projects every point of a planar ring, preserving order.
func (p *Projector) ToGeographicRing(points []orb.Point) ([]orb.Point, error) {
	out := make([]orb.Point, len(points))
	for i, point := range points {
		geo, err := p.ToGeographic(point)
		if err != nil {
			return nil, err
		}
		out[i] = geo
	}
	return out, nil
}

func transform(t proj.Transformer, point orb.Point) (orb.Point, error) {
	x, y, err := t(point[0], point[1])
	if err != nil {
		return orb.Point{}, fmt.Errorf("%w: %v: %w", ErrOutOfDomain, point, err)
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return orb.Point{}, fmt.Errorf("%w: %v", ErrOutOfDomain, point)
	}
	return orb.Point{x, y}, nil
}
