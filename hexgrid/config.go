package hexgrid

import (
	"errors"
	"fmt"
	"math"

	"github.com/royalcat/hexcities/geomodel"
)

var ErrInvalidConfig = errors.New("invalid grid configuration")

type Config struct {
	// HexSide is the hexagon edge length in meters, shared by every city of a run.
	HexSide float64
	Offset  geomodel.OffsetMode
	// Clip drops lattice cells whose center is farther than the city radius.
	// Without it the whole bounding square is kept.
	Clip bool
	// DefaultRadius applies to cities that carry no radius policy of their own.
	DefaultRadius geomodel.RadiusPolicy
}

func ConfigDefault() Config {
	return Config{
		HexSide:       57.7,
		Offset:        geomodel.RowParity,
		Clip:          true,
		DefaultRadius: geomodel.Fixed(3000),
	}
}

func (c Config) Validate() error {
	if !(c.HexSide > 0) || math.IsInf(c.HexSide, 0) {
		return fmt.Errorf("%w: hex side must be positive, got %v", ErrInvalidConfig, c.HexSide)
	}
	switch c.Offset {
	case geomodel.RowParity, geomodel.ColumnParity:
	default:
		return fmt.Errorf("%w: unknown offset mode %s", ErrInvalidConfig, c.Offset)
	}
	if c.DefaultRadius.Kind != geomodel.RadiusDefault {
		if _, err := c.DefaultRadius.Radius(); err != nil {
			return fmt.Errorf("%w: default radius: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Width is the distance between two opposite vertices.
func (c Config) Width() float64 {
	return 2 * c.HexSide
}

// Height is the distance between two opposite edges.
func (c Config) Height() float64 {
	return math.Sqrt(3) * c.HexSide
}

func (c Config) radiusFor(city geomodel.City) (float64, error) {
	policy := city.Radius
	if policy.Kind == geomodel.RadiusDefault {
		policy = c.DefaultRadius
	}
	r, err := policy.Radius()
	if err != nil {
		return 0, fmt.Errorf("%w: city %q: %w", ErrInvalidConfig, city.Name, err)
	}
	return r, nil
}
