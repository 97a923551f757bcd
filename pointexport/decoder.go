package pointexport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/royalcat/hexcities/geomodel"
)

var ErrMalformedRecord = errors.New("malformed point record")

// ParseLabel splits "{group}_{city}_{role}".
func ParseLabel(label string) (group int, city string, role geomodel.Role, err error) {
	parts := strings.Split(label, "_")
	if len(parts) != 3 {
		return 0, "", 0, fmt.Errorf("%w: label %q", ErrMalformedRecord, label)
	}
	group, err = strconv.Atoi(parts[0])
	if err != nil || group < 1 {
		return 0, "", 0, fmt.Errorf("%w: group in label %q", ErrMalformedRecord, label)
	}
	if parts[1] == "" {
		return 0, "", 0, fmt.Errorf("%w: empty city in label %q", ErrMalformedRecord, label)
	}
	role, err = geomodel.ParseRole(parts[2])
	if err != nil {
		return 0, "", 0, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return group, parts[1], role, nil
}

func ParseRecord(point, coordinates string) (geomodel.PointRecord, error) {
	group, city, role, err := ParseLabel(point)
	if err != nil {
		return geomodel.PointRecord{}, err
	}
	lonS, latS, ok := strings.Cut(coordinates, ",")
	if !ok {
		return geomodel.PointRecord{}, fmt.Errorf("%w: coordinates %q", ErrMalformedRecord, coordinates)
	}
	lon, err := strconv.ParseFloat(lonS, 64)
	if err != nil {
		return geomodel.PointRecord{}, fmt.Errorf("%w: longitude %q", ErrMalformedRecord, lonS)
	}
	lat, err := strconv.ParseFloat(latS, 64)
	if err != nil {
		return geomodel.PointRecord{}, fmt.Errorf("%w: latitude %q", ErrMalformedRecord, latS)
	}
	return geomodel.PointRecord{
		Group: group,
		City:  city,
		Role:  role,
		Coord: orb.Point{lon, lat},
	}, nil
}

// ReadPoints reads an export. Rows that can not be parsed are skipped and
// counted, a missing or wrong header is an error.
func ReadPoints(r io.Reader) (records []geomodel.PointRecord, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("error reading header: %w", err)
	}
	if len(header) != len(Header) || header[0] != Header[0] || header[1] != Header[1] {
		return nil, 0, fmt.Errorf("%w: unexpected header %q", ErrMalformedRecord, header)
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skipped++
			continue
		}
		if err != nil {
			return records, skipped, err
		}

		if len(row) != len(Header) {
			skipped++
			continue
		}
		rec, err := ParseRecord(row[0], row[1])
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

type DecodedHexagon struct {
	Group    int
	City     string
	Center   orb.Point
	Vertices [6]orb.Point
}

// Ring returns the closed outline in lon/lat.
func (h DecodedHexagon) Ring() orb.Ring {
	return geomodel.ClosedRing(h.Vertices)
}

// Decode regroups consecutive records sharing the same group and city.
// Only groups holding exactly one center and vertex1..vertex6 become
// hexagons; any other group, including a truncated last one, is dropped.
func Decode(records []geomodel.PointRecord) (hexes []DecodedHexagon, dropped int) {
	start := 0
	for i := 1; i <= len(records); i++ {
		if i < len(records) && records[i].Group == records[start].Group && records[i].City == records[start].City {
			continue
		}
		if h, ok := assemble(records[start:i]); ok {
			hexes = append(hexes, h)
		} else {
			dropped++
		}
		start = i
	}
	return hexes, dropped
}

func assemble(group []geomodel.PointRecord) (DecodedHexagon, bool) {
	if len(group) != geomodel.RecordsPerHexagon {
		return DecodedHexagon{}, false
	}

	h := DecodedHexagon{
		Group: group[0].Group,
		City:  group[0].City,
	}
	var seen [geomodel.RecordsPerHexagon]bool
	for _, rec := range group {
		n := rec.Role.Vertex()
		if n >= len(seen) || seen[n] {
			return DecodedHexagon{}, false
		}
		seen[n] = true

		if rec.Role.IsCenter() {
			h.Center = rec.Coord
		} else {
			h.Vertices[n-1] = rec.Coord
		}
	}
	return h, true
}
