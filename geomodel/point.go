package geomodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Role tells which point of a hexagon a record describes: 0 is the center,
// 1..6 are the vertices in angular order.
type Role uint8

const (
	RoleCenter Role = 0

	VertexCount = 6
	// RecordsPerHexagon is the size of one exported group.
	RecordsPerHexagon = VertexCount + 1
)

func VertexRole(n int) Role {
	return Role(n)
}

func (r Role) IsCenter() bool {
	return r == RoleCenter
}

// Vertex returns the 1-based vertex number, 0 for the center.
func (r Role) Vertex() int {
	return int(r)
}

func (r Role) String() string {
	if r == RoleCenter {
		return "center"
	}
	return "vertex" + strconv.Itoa(int(r))
}

func ParseRole(s string) (Role, error) {
	if s == "center" {
		return RoleCenter, nil
	}
	n, ok := strings.CutPrefix(s, "vertex")
	if !ok {
		return 0, fmt.Errorf("unknown point role %q", s)
	}
	v, err := strconv.Atoi(n)
	if err != nil || v < 1 || v > VertexCount {
		return 0, fmt.Errorf("unknown point role %q", s)
	}
	return Role(v), nil
}

// PointRecord is one exported row.
type PointRecord struct {
	Group int
	City  string
	Role  Role

	// Coord is in lon/lat order.
	Coord orb.Point
}

// Label formats the record identifier as "{group}_{city}_{role}".
func (p PointRecord) Label() string {
	return strconv.Itoa(p.Group) + "_" + p.City + "_" + p.Role.String()
}

// Coordinates formats the point as "lon,lat" with the shortest decimal
// representation that round-trips to the same float64.
func (p PointRecord) Coordinates() string {
	return strconv.FormatFloat(p.Coord.Lon(), 'f', -1, 64) + "," + strconv.FormatFloat(p.Coord.Lat(), 'f', -1, 64)
}
