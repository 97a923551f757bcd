package hexgrid

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/cheggaaa/pb/v3/termutil"
	"github.com/paulmach/orb"
	"github.com/royalcat/hexcities/geomodel"
	"github.com/royalcat/hexcities/projection"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("github.com/royalcat/hexcities/hexgrid")
	meter  = otel.Meter("github.com/royalcat/hexcities/hexgrid")
)

// CityStats summarizes the grid generated for one city.
type CityStats struct {
	City       string
	Radius     float64
	Candidates int
	Hexagons   int
}

type Builder struct {
	cfg       Config
	projector *projection.Projector

	progress bool
	log      *slog.Logger

	metricHexagons metric.Int64Counter

	stats []CityStats
}

func NewBuilder(cfg Config, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := loadOptions(opts...)
	if options.projector == nil {
		p, err := projection.NewLambert93()
		if err != nil {
			return nil, fmt.Errorf("error creating projector: %w", err)
		}
		options.projector = p
	}

	metricHexagons, err := meter.Int64Counter("hexgrid_hexagons_total")
	if err != nil {
		return nil, err
	}

	return &Builder{
		cfg:       cfg,
		projector: options.projector,
		progress:  options.progress,
		log:       options.logger.With("component", "hexgrid"),

		metricHexagons: metricHexagons,
	}, nil
}

// Build tiles every city and returns the hexagons grouped by city in input
// order, each city in lattice order (columns outer, rows inner).
// The whole input is validated before any tile is generated.
func (b *Builder) Build(ctx context.Context, cities []geomodel.City) ([]geomodel.Hexagon, error) {
	radii, err := b.prepare(cities)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "hexgrid.Build", trace.WithAttributes(
		attribute.Int("cities", len(cities)),
		attribute.Float64("hex_side", b.cfg.HexSide),
	))
	defer span.End()

	var bar *pb.ProgressBar
	if b.progress {
		bar = pb.Start64(int64(len(cities)))
		bar.Set("prefix", "generating hexagons")
		bar.SetRefreshRate(time.Second)
		if w, err := termutil.TerminalWidth(); w == 0 || err != nil {
			bar.SetTemplateString(`{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }} {{rtime . "ETA %s"}}` + "\n")
		}
		defer bar.Finish()
	}

	b.stats = make([]CityStats, 0, len(cities))
	var out []geomodel.Hexagon
	for i, city := range cities {
		hexes, stats, err := b.buildCity(ctx, city, radii[i])
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		out = append(out, hexes...)
		b.stats = append(b.stats, stats)

		if bar != nil {
			bar.Increment()
		}
	}

	return out, nil
}

// Stats returns per city summaries of the last Build.
func (b *Builder) Stats() []CityStats {
	return b.stats
}

func (b *Builder) prepare(cities []geomodel.City) ([]float64, error) {
	seen := make(map[string]struct{}, len(cities))
	radii := make([]float64, len(cities))
	for i, city := range cities {
		if err := validateCity(city); err != nil {
			return nil, err
		}
		if _, ok := seen[city.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate city %q", ErrInvalidConfig, city.Name)
		}
		seen[city.Name] = struct{}{}

		r, err := b.cfg.radiusFor(city)
		if err != nil {
			return nil, err
		}
		radii[i] = r
	}
	return radii, nil
}

func validateCity(city geomodel.City) error {
	if city.Name == "" {
		return fmt.Errorf("%w: city without name", ErrInvalidConfig)
	}
	// the label is split on underscores downstream
	if strings.Contains(city.Name, "_") {
		return fmt.Errorf("%w: city name %q must not contain '_'", ErrInvalidConfig, city.Name)
	}
	if !(city.Lat >= -90 && city.Lat <= 90) || !(city.Lon >= -180 && city.Lon <= 180) {
		return fmt.Errorf("%w: city %q has invalid coordinates lat=%v lon=%v", ErrInvalidConfig, city.Name, city.Lat, city.Lon)
	}
	return nil
}

func (b *Builder) buildCity(ctx context.Context, city geomodel.City, radius float64) ([]geomodel.Hexagon, CityStats, error) {
	ctx, span := tracer.Start(ctx, "hexgrid.buildCity", trace.WithAttributes(
		attribute.String("city", city.Name),
		attribute.Float64("radius", radius),
	))
	defer span.End()

	log := b.log.With("city", city.Name)

	center, err := b.projector.ToPlanar(city.Point())
	if err != nil {
		return nil, CityStats{}, fmt.Errorf("error projecting center of %q: %w", city.Name, err)
	}

	bound := orb.Bound{
		Min: orb.Point{center[0] - radius, center[1] - radius},
		Max: orb.Point{center[0] + radius, center[1] + radius},
	}
	grid := newLattice(b.cfg, bound)

	hexes := make([]geomodel.Hexagon, 0, grid.Len())
	for i := range grid.xs {
		for j := range grid.ys {
			c := grid.center(i, j)
			if b.cfg.Clip && !keep(c, center, radius) {
				continue
			}

			h, err := b.newHexagon(city.Name, i, j, c)
			if err != nil {
				return nil, CityStats{}, err
			}
			hexes = append(hexes, h)
		}
	}

	b.metricHexagons.Add(ctx, int64(len(hexes)), metric.WithAttributes(attribute.String("city", city.Name)))
	span.SetAttributes(attribute.Int("hexagons", len(hexes)))

	if len(hexes) == 0 {
		log.Warn("city grid is empty, radius is smaller than hexagon spacing", "radius", radius, "hex_side", b.cfg.HexSide)
	} else {
		log.Debug("city grid generated", "radius", math.Round(radius), "candidates", grid.Len(), "hexagons", len(hexes))
	}

	return hexes, CityStats{
		City:       city.Name,
		Radius:     radius,
		Candidates: grid.Len(),
		Hexagons:   len(hexes),
	}, nil
}

func (b *Builder) newHexagon(city string, i, j int, center orb.Point) (geomodel.Hexagon, error) {
	h := geomodel.Hexagon{
		City:     city,
		I:        i,
		J:        j,
		Center:   center,
		Vertices: vertices(center, b.cfg.HexSide),
	}

	var err error
	h.GeoCenter, err = b.projector.ToGeographic(h.Center)
	if err != nil {
		return geomodel.Hexagon{}, fmt.Errorf("error projecting hexagon of %q back: %w", city, err)
	}
	geo, err := b.projector.ToGeographicRing(h.Vertices[:])
	if err != nil {
		return geomodel.Hexagon{}, fmt.Errorf("error projecting hexagon of %q back: %w", city, err)
	}
	copy(h.GeoVertices[:], geo)
	return h, nil
}
