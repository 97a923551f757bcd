package locator

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/hexcities/geomodel"
	"github.com/royalcat/hexcities/kdbush"
	"github.com/royalcat/hexcities/pointexport"
	"github.com/royalcat/hexcities/projection"
)

const nodeSize = 64

type cell struct {
	hex  pointexport.DecodedHexagon
	ring orb.Ring // planar, closed
}

// Locator finds the exported hexagon covering a geographic point.
type Locator struct {
	tree      *kdbush.KDBush[*cell]
	projector *projection.Projector

	searchRadius float64
	logger       *slog.Logger
}

func New(hexes []pointexport.DecodedHexagon, opts ...Option) (*Locator, error) {
	options := loadOptions(opts...)
	if options.projector == nil {
		p, err := projection.NewLambert93()
		if err != nil {
			return nil, fmt.Errorf("error creating projector: %w", err)
		}
		options.projector = p
	}

	points := make([]kdbush.Point[*cell], 0, len(hexes))
	var circumradius float64
	for _, h := range hexes {
		center, err := options.projector.ToPlanar(h.Center)
		if err != nil {
			return nil, fmt.Errorf("hexagon %d_%s: %w", h.Group, h.City, err)
		}
		var vertices [6]orb.Point
		for k, v := range h.Vertices {
			vertices[k], err = options.projector.ToPlanar(v)
			if err != nil {
				return nil, fmt.Errorf("hexagon %d_%s: %w", h.Group, h.City, err)
			}
			circumradius = math.Max(circumradius, planar.Distance(center, vertices[k]))
		}
		c := &cell{hex: h, ring: geomodel.ClosedRing(vertices)}

		points = append(points, kdbush.Point[*cell]{Point: center, Data: c})
	}

	if options.searchRadius == 0 {
		options.searchRadius = circumradius
	}
	options.logger.Debug("hexagon index built",
		"hexagons", len(points),
		"search_radius", options.searchRadius,
	)

	return &Locator{
		tree:         kdbush.NewBush(points, nodeSize),
		projector:    options.projector,
		searchRadius: options.searchRadius,
		logger:       options.logger,
	}, nil
}

// LoadFromReader indexes the hexagons of an export, broken groups are left out.
func LoadFromReader(r io.Reader, opts ...Option) (*Locator, error) {
	records, skipped, err := pointexport.ReadPoints(r)
	if err != nil {
		return nil, fmt.Errorf("error loading points: %w", err)
	}
	hexes, dropped := pointexport.Decode(records)

	l, err := New(hexes, opts...)
	if err != nil {
		return nil, err
	}
	if skipped > 0 || dropped > 0 {
		l.logger.Warn("export has broken rows", "skipped_rows", skipped, "dropped_groups", dropped)
	}
	return l, nil
}

func LoadFile(name string, opts ...Option) (*Locator, error) {
	f, err := pointexport.Open(name)
	if err != nil {
		return nil, fmt.Errorf("error opening points file: %w", err)
	}
	defer f.Close()

	return LoadFromReader(f, opts...)
}

func (l *Locator) Len() int {
	return l.tree.Len()
}

// Find returns the hexagon containing p given as lon/lat. Points on a shared
// edge resolve to the hexagon with the nearest center.
func (l *Locator) Find(p orb.Point) (pointexport.DecodedHexagon, bool) {
	q, err := l.projector.ToPlanar(p)
	if err != nil {
		return pointexport.DecodedHexagon{}, false
	}

	var found *cell
	bestDist := math.Inf(1)
	l.tree.Within(q, l.searchRadius, func(kp kdbush.Point[*cell]) bool {
		if !planar.RingContains(kp.Data.ring, q) {
			return true
		}
		if d := planar.DistanceSquared(kp.Point, q); d < bestDist {
			found, bestDist = kp.Data, d
		}
		return true
	})

	if found == nil {
		return pointexport.DecodedHexagon{}, false
	}
	return found.hex, true
}
