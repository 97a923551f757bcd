package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/royalcat/hexcities/geomodel"
	"github.com/royalcat/hexcities/hexgrid"
)

const (
	PolicyFixed = "fixed"
	PolicyArea  = "area"
)

var ErrInvalid = errors.New("invalid run configuration")

// File mirrors the TOML run file. Unset values fall back to DefaultFile.
type File struct {
	HexSide *float64      `toml:"hex_side"`
	Offset  *string       `toml:"offset"`
	Clip    *bool         `toml:"clip"`
	Radius  RadiusSection `toml:"radius"`
	Cities  []CityEntry   `toml:"city"`
}

type RadiusSection struct {
	Policy *string  `toml:"policy"`
	Meters *float64 `toml:"meters"`
	Scale  *float64 `toml:"scale"`
}

type CityEntry struct {
	Name    string  `toml:"name"`
	Lat     float64 `toml:"lat"`
	Lon     float64 `toml:"lon"`
	AreaKm2 float64 `toml:"area_km2"`
	RadiusM float64 `toml:"radius_m"`
}

// Config is a resolved run.
type Config struct {
	Grid   hexgrid.Config
	Cities []geomodel.City
}

func ptr[T any](v T) *T {
	return &v
}

// DefaultFile is the twenty largest French cities tiled with 57.7m hexagons
// within 3km of their center.
func DefaultFile() File {
	return File{
		HexSide: ptr(57.7),
		Offset:  ptr(geomodel.RowParity.String()),
		Clip:    ptr(true),
		Radius: RadiusSection{
			Policy: ptr(PolicyFixed),
			Meters: ptr(3000.0),
			Scale:  ptr(0.1),
		},
		Cities: []CityEntry{
			{Name: "Paris", Lat: 48.8566, Lon: 2.3522},
			{Name: "Marseille", Lat: 43.2965, Lon: 5.3698},
			{Name: "Lyon", Lat: 45.7640, Lon: 4.8357},
			{Name: "Toulouse", Lat: 43.6047, Lon: 1.4442},
			{Name: "Nice", Lat: 43.7102, Lon: 7.2620},
			{Name: "Nantes", Lat: 47.2184, Lon: -1.5536},
			{Name: "Montpellier", Lat: 43.6119, Lon: 3.8777},
			{Name: "Strasbourg", Lat: 48.5734, Lon: 7.7521},
			{Name: "Bordeaux", Lat: 44.8378, Lon: -0.5792},
			{Name: "Lille", Lat: 50.6292, Lon: 3.0573},
			{Name: "Rennes", Lat: 48.1173, Lon: -1.6778},
			{Name: "Reims", Lat: 49.2583, Lon: 4.0317},
			{Name: "Le Havre", Lat: 49.4944, Lon: 0.1079},
			{Name: "Saint-Étienne", Lat: 45.4397, Lon: 4.3872},
			{Name: "Toulon", Lat: 43.1242, Lon: 5.9280},
			{Name: "Grenoble", Lat: 45.1885, Lon: 5.7245},
			{Name: "Dijon", Lat: 47.3220, Lon: 5.0415},
			{Name: "Angers", Lat: 47.4784, Lon: -0.5632},
			{Name: "Nîmes", Lat: 43.8367, Lon: 4.3601},
			{Name: "Villeurbanne", Lat: 45.7719, Lon: 4.8902},
		},
	}
}

// Parse decodes a TOML run file and fills unset values from DefaultFile.
// Unknown keys are rejected.
func Parse(r io.Reader) (File, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return File{}, fmt.Errorf("error decoding config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}

	return f.withDefaults(), nil
}

func LoadFile(name string) (File, error) {
	file, err := os.Open(name)
	if err != nil {
		return File{}, fmt.Errorf("can`t open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func (f File) withDefaults() File {
	def := DefaultFile()
	if f.HexSide == nil {
		f.HexSide = def.HexSide
	}
	if f.Offset == nil {
		f.Offset = def.Offset
	}
	if f.Clip == nil {
		f.Clip = def.Clip
	}
	if f.Radius.Policy == nil {
		f.Radius.Policy = def.Radius.Policy
	}
	if f.Radius.Meters == nil {
		f.Radius.Meters = def.Radius.Meters
	}
	if f.Radius.Scale == nil {
		f.Radius.Scale = def.Radius.Scale
	}
	if len(f.Cities) == 0 {
		f.Cities = def.Cities
	}
	return f
}

// Resolve turns the file into grid parameters and cities with their radius
// policy. A city radius_m wins over its area_km2, which wins over the run
// default. With the "area" policy every city needs either area_km2 or radius_m.
func (f File) Resolve() (Config, error) {
	f = f.withDefaults()

	offset, err := geomodel.ParseOffsetMode(*f.Offset)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	cfg := Config{
		Grid: hexgrid.Config{
			HexSide:       *f.HexSide,
			Offset:        offset,
			Clip:          *f.Clip,
			DefaultRadius: geomodel.Fixed(*f.Radius.Meters),
		},
		Cities: make([]geomodel.City, 0, len(f.Cities)),
	}

	policy := strings.ToLower(*f.Radius.Policy)
	switch policy {
	case PolicyFixed, PolicyArea:
	default:
		return Config{}, fmt.Errorf("%w: unknown radius policy %q, expected %s or %s", ErrInvalid, *f.Radius.Policy, PolicyFixed, PolicyArea)
	}

	for _, c := range f.Cities {
		city := geomodel.City{Name: c.Name, Lat: c.Lat, Lon: c.Lon}
		switch {
		case c.RadiusM != 0:
			city.Radius = geomodel.Fixed(c.RadiusM)
		case c.AreaKm2 != 0:
			city.Radius = geomodel.AreaDerived(c.AreaKm2, *f.Radius.Scale)
		case policy == PolicyArea:
			return Config{}, fmt.Errorf("%w: city %q has neither area_km2 nor radius_m", ErrInvalid, c.Name)
		}
		cfg.Cities = append(cfg.Cities, city)
	}

	if err := cfg.Grid.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
