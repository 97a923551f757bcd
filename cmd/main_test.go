package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/royalcat/hexcities/geomodel"
	"github.com/royalcat/hexcities/internal/config"
)

func parisConfig(t *testing.T) config.Config {
	t.Helper()
	f, err := config.Parse(strings.NewReader("[[city]]\nname = \"Paris\"\nlat = 48.8566\nlon = 2.3522\n"))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := f.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestGenerateThenDecode(t *testing.T) {
	dir := t.TempDir()
	points := filepath.Join(dir, "points.csv.zst")
	out := filepath.Join(dir, "hexagons.geojson")

	gen, err := runGenerate(context.Background(), parisConfig(t), points, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gen.Hexagons == 0 || gen.Rows != gen.Hexagons*geomodel.RecordsPerHexagon {
		t.Fatalf("unexpected generate result %+v", gen)
	}
	if len(gen.Cities) != 1 || gen.Cities[0].Hexagons != gen.Hexagons {
		t.Fatalf("unexpected city stats %+v", gen.Cities)
	}

	dec, err := runDecode(points, out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec.Hexagons != gen.Hexagons || dec.Skipped != 0 || dec.Dropped != 0 {
		t.Fatalf("decoded %+v, generated %d hexagons", dec, gen.Hexagons)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatalf("geojson: %v", err)
	}
	if len(fc.Features) != 2*gen.Hexagons {
		t.Fatalf("expected %d features; got %d", 2*gen.Hexagons, len(fc.Features))
	}
}

func TestDecodeMissingInput(t *testing.T) {
	if _, err := runDecode(filepath.Join(t.TempDir(), "missing.csv"), ""); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestAppGenerate(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("OTEL_LOGS_EXPORTER", "none")
	t.Setenv("OTEL_METRICS_EXPORTER", "none")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "run.toml")
	err := os.WriteFile(cfgPath, []byte("[[city]]\nname = \"Lille\"\nlat = 50.6292\nlon = 3.0573\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	points := filepath.Join(dir, "points.csv")
	textfile := filepath.Join(dir, "hexcities.prom")

	err = newApp().Run([]string{appName, "generate",
		"-c", cfgPath,
		"-o", points,
		"--side", "115.4",
		"--radius", "1000",
		"--metrics.textfile", textfile,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(points)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "point,coordinates\n1_Lille_center,") {
		t.Fatalf("unexpected export start %q", string(data[:min(len(data), 64)]))
	}

	metrics, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(metrics), `hexcities_radius_meters{city="Lille"} 1000`) {
		t.Fatalf("radius gauge missing from %s", metrics)
	}
	if !strings.Contains(string(metrics), "hexgrid_hexagons_total") {
		t.Fatalf("hexagon counter missing from %s", metrics)
	}
}

func TestAppRejectsBadOffset(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("OTEL_LOGS_EXPORTER", "none")
	t.Setenv("OTEL_METRICS_EXPORTER", "none")

	points := filepath.Join(t.TempDir(), "points.csv")
	err := newApp().Run([]string{appName, "generate", "-o", points, "--offset", "diagonal"})
	if err == nil {
		t.Fatal("expected error for unknown offset")
	}
	if _, statErr := os.Stat(points); !os.IsNotExist(statErr) {
		t.Fatalf("no export expected on invalid configuration, stat: %v", statErr)
	}
}

func TestLocate(t *testing.T) {
	points := filepath.Join(t.TempDir(), "points.csv")
	gen, err := runGenerate(context.Background(), parisConfig(t), points, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err := os.ReadFile(points)
	if err != nil {
		t.Fatal(err)
	}
	if rows := strings.Count(string(data), "\n") - 1; rows != gen.Rows {
		t.Fatalf("reported %d rows, file holds %d", gen.Rows, rows)
	}
	if gen.Bytes != int64(len(data)) {
		t.Fatalf("reported %d bytes, file holds %d", gen.Bytes, len(data))
	}

	buf := new(bytes.Buffer)
	err = runLocate(buf, points, []string{"2.3522,48.8566", "4.8357, 45.7640"})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || lines[0] != "point,hexagon" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if !strings.HasSuffix(lines[1], "_Paris") {
		t.Fatalf("paris center not located: %q", lines[1])
	}
	if lines[2] != `"4.8357, 45.7640",` {
		t.Fatalf("lyon should not be covered: %q", lines[2])
	}

	if err := runLocate(buf, points, []string{"2.35;48.85"}); err == nil {
		t.Fatal("expected error for malformed point")
	}
}
