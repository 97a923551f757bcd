package geomodel_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/paulmach/orb"
	"github.com/royalcat/hexcities/geomodel"
)

func TestRadiusPolicy(t *testing.T) {
	r, err := geomodel.Fixed(3000).Radius()
	if err != nil || r != 3000 {
		t.Fatalf("fixed radius: %v, %v", r, err)
	}

	r, err = geomodel.AreaDerived(17174, 0.1).Radius()
	if err != nil {
		t.Fatal(err)
	}
	want := math.Sqrt(17174/math.Pi) * 1000 * 0.1
	if math.Abs(r-want) > 1e-9 {
		t.Fatalf("area radius: expected %v; got %v", want, r)
	}

	invalid := []geomodel.RadiusPolicy{
		{},
		geomodel.Fixed(0),
		geomodel.Fixed(-5),
		geomodel.Fixed(math.NaN()),
		geomodel.Fixed(math.Inf(1)),
		geomodel.AreaDerived(0, 0.1),
		geomodel.AreaDerived(100, 0),
	}
	for _, p := range invalid {
		if _, err := p.Radius(); !errors.Is(err, geomodel.ErrInvalidRadius) {
			t.Fatalf("%s: expected ErrInvalidRadius; got %v", p, err)
		}
	}
}

func TestOffsetMode(t *testing.T) {
	for in, want := range map[string]geomodel.OffsetMode{
		"row":    geomodel.RowParity,
		" Rows ": geomodel.RowParity,
		"column": geomodel.ColumnParity,
		"col":    geomodel.ColumnParity,
	} {
		got, err := geomodel.ParseOffsetMode(in)
		if err != nil || got != want {
			t.Fatalf("%q: expected %s; got %s, %v", in, want, got, err)
		}
	}
	if _, err := geomodel.ParseOffsetMode("hex"); err == nil {
		t.Fatal("expected error for unknown mode")
	}

	var m geomodel.OffsetMode
	if err := m.UnmarshalText([]byte("column")); err != nil || m != geomodel.ColumnParity {
		t.Fatalf("unmarshal: %s, %v", m, err)
	}
	text, _ := m.MarshalText()
	if string(text) != "column" {
		t.Fatalf("marshal: %s", text)
	}
}

func TestRoles(t *testing.T) {
	for n := 0; n <= geomodel.VertexCount; n++ {
		role := geomodel.VertexRole(n)
		parsed, err := geomodel.ParseRole(role.String())
		if err != nil || parsed != role {
			t.Fatalf("%s: parsed %s, %v", role, parsed, err)
		}
	}
	for _, s := range []string{"vertex0", "vertex7", "vertex", "middle", "Center"} {
		if _, err := geomodel.ParseRole(s); err == nil {
			t.Fatalf("%q: expected error", s)
		}
	}
}

func TestPointRecordFormat(t *testing.T) {
	rec := geomodel.PointRecord{
		Group: 42,
		City:  "Nîmes",
		Role:  geomodel.VertexRole(3),
		Coord: orb.Point{4.3601, 43.8367},
	}
	if got := rec.Label(); got != "42_Nîmes_vertex3" {
		t.Fatalf("label: %s", got)
	}
	if got := rec.Coordinates(); got != "4.3601,43.8367" {
		t.Fatalf("coordinates: %s", got)
	}

	rec.Coord = orb.Point{-0.1, 1e-7}
	if got := rec.Coordinates(); got != "-0.1,0.0000001" {
		t.Fatalf("coordinates: %s", got)
	}
}

func TestClosedRing(t *testing.T) {
	var v [6]orb.Point
	for k := range v {
		v[k] = orb.Point{float64(k), float64(k * k)}
	}
	ring := geomodel.ClosedRing(v)
	if len(ring) != 7 || !ring.Closed() {
		t.Fatalf("expected a closed ring of 7 points; got %v", ring)
	}
	for k := range v {
		if ring[k] != v[k] {
			t.Fatalf("point %d: expected %v; got %v", k, v[k], ring[k])
		}
	}
}

func TestModelTypesUntagged(t *testing.T) {
	for _, typ := range []reflect.Type{reflect.TypeFor[geomodel.City](), reflect.TypeFor[geomodel.RadiusPolicy]()} {
		for i := range typ.NumField() {
			if f := typ.Field(i); f.Tag != "" {
				t.Fatalf("%s.%s carries tag %q, configuration is read through internal/config", typ.Name(), f.Name, f.Tag)
			}
		}
	}
}
