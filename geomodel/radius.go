package geomodel

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidRadius = errors.New("invalid coverage radius")

type RadiusKind uint8

const (
	// RadiusDefault defers to the radius configured for the whole run.
	RadiusDefault RadiusKind = iota
	RadiusFixed
	RadiusAreaDerived
)

func (k RadiusKind) String() string {
	switch k {
	case RadiusDefault:
		return "default"
	case RadiusFixed:
		return "fixed"
	case RadiusAreaDerived:
		return "area"
	}
	return fmt.Sprintf("RadiusKind(%d)", uint8(k))
}

// RadiusPolicy describes how the coverage radius of a city is obtained.
type RadiusPolicy struct {
	Kind RadiusKind

	Meters  float64
	AreaKm2 float64
	Scale   float64
}

func Fixed(meters float64) RadiusPolicy {
	return RadiusPolicy{Kind: RadiusFixed, Meters: meters}
}

// AreaDerived treats the urban area as a disc and shrinks its radius by scale.
func AreaDerived(areaKm2, scale float64) RadiusPolicy {
	return RadiusPolicy{Kind: RadiusAreaDerived, AreaKm2: areaKm2, Scale: scale}
}

// Radius returns the coverage radius in meters.
func (p RadiusPolicy) Radius() (float64, error) {
	var r float64
	switch p.Kind {
	case RadiusFixed:
		r = p.Meters
	case RadiusAreaDerived:
		if p.AreaKm2 <= 0 || p.Scale <= 0 {
			return 0, fmt.Errorf("%w: area %v km2 with scale %v", ErrInvalidRadius, p.AreaKm2, p.Scale)
		}
		r = math.Sqrt(p.AreaKm2/math.Pi) * 1000 * p.Scale
	default:
		return 0, fmt.Errorf("%w: policy %s has no radius of its own", ErrInvalidRadius, p.Kind)
	}

	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("%w: %v m", ErrInvalidRadius, r)
	}
	return r, nil
}

func (p RadiusPolicy) String() string {
	switch p.Kind {
	case RadiusFixed:
		return fmt.Sprintf("fixed(%gm)", p.Meters)
	case RadiusAreaDerived:
		return fmt.Sprintf("area(%gkm2, x%g)", p.AreaKm2, p.Scale)
	}
	return p.Kind.String()
}
