package locator_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/royalcat/hexcities/geomodel"
	"github.com/royalcat/hexcities/hexgrid"
	"github.com/royalcat/hexcities/locator"
	"github.com/royalcat/hexcities/pointexport"
	"github.com/stretchr/testify/require"
)

func parisHexagons(t *testing.T) []geomodel.Hexagon {
	t.Helper()
	b, err := hexgrid.NewBuilder(hexgrid.ConfigDefault())
	require.NoError(t, err)
	hexes, err := b.Build(context.Background(), []geomodel.City{{Name: "Paris", Lat: 48.8566, Lon: 2.3522}})
	require.NoError(t, err)
	return hexes
}

func TestFindCenters(t *testing.T) {
	hexes := parisHexagons(t)
	decoded, dropped := pointexport.Decode(pointexport.Encode(hexes))
	require.Zero(t, dropped)

	l, err := locator.New(decoded)
	require.NoError(t, err)
	require.Equal(t, len(hexes), l.Len())

	for i := 0; i < len(decoded); i += 97 {
		h, ok := l.Find(decoded[i].Center)
		require.True(t, ok, "center of group %d", decoded[i].Group)
		require.Equal(t, decoded[i].Group, h.Group)
		require.Equal(t, "Paris", h.City)
	}
}

func TestFindInsideHexagon(t *testing.T) {
	hexes := parisHexagons(t)
	decoded, _ := pointexport.Decode(pointexport.Encode(hexes))
	l, err := locator.New(decoded)
	require.NoError(t, err)

	target := decoded[len(decoded)/2]
	for _, v := range target.Vertices {
		// a third of the way from the center to each vertex stays well inside
		p := orb.Point{
			target.Center[0] + (v[0]-target.Center[0])/3,
			target.Center[1] + (v[1]-target.Center[1])/3,
		}
		h, ok := l.Find(p)
		require.True(t, ok)
		require.Equal(t, target.Group, h.Group)
	}
}

func TestFindOutside(t *testing.T) {
	decoded, _ := pointexport.Decode(pointexport.Encode(parisHexagons(t)))
	l, err := locator.New(decoded)
	require.NoError(t, err)

	_, ok := l.Find(orb.Point{4.8357, 45.7640}) // Lyon
	require.False(t, ok)

	empty, err := locator.New(nil)
	require.NoError(t, err)
	_, ok = empty.Find(orb.Point{2.3522, 48.8566})
	require.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	hexes := parisHexagons(t)
	path := filepath.Join(t.TempDir(), "points.csv.zst")
	_, err := pointexport.WriteFile(path, pointexport.Encode(hexes))
	require.NoError(t, err)

	l, err := locator.LoadFile(path, locator.WithSearchRadius(100))
	require.NoError(t, err)
	require.Equal(t, len(hexes), l.Len())

	h, ok := l.Find(hexes[0].GeoCenter)
	require.True(t, ok)
	require.Equal(t, 1, h.Group)

	_, err = locator.LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
