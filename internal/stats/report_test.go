package stats_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/royalcat/hexcities/hexgrid"
	"github.com/royalcat/hexcities/internal/stats"
	"github.com/stretchr/testify/require"
)

func TestReportTextfile(t *testing.T) {
	report, err := stats.NewReport(10 * time.Millisecond)
	require.NoError(t, err)

	report.ObserveCities([]hexgrid.CityStats{
		{City: "Paris", Radius: 3000, Candidates: 4270, Hexagons: 3266},
		{City: "Lyon", Radius: 1500, Candidates: 1100, Hexagons: 800},
	})
	report.SetRows(7 * (3266 + 800))

	time.Sleep(30 * time.Millisecond)
	summary := report.Finish()
	require.GreaterOrEqual(t, summary.Samples, 2)
	require.NotZero(t, summary.PeakHeapAlloc)

	extra := prometheus.NewRegistry()
	extra.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "hexgrid_hexagons_total",
		Help: "Hexagons generated.",
	}, func() float64 { return 4066 }))

	path := filepath.Join(t.TempDir(), "hexcities.prom")
	require.NoError(t, report.WriteTextfile(path, extra))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, `hexcities_hexagons{city="Paris"} 3266`)
	require.Contains(t, text, `hexcities_hexagons{city="Lyon"} 800`)
	require.Contains(t, text, `hexcities_radius_meters{city="Lyon"} 1500`)
	require.Contains(t, text, "hexcities_rows_written 28462")
	require.Contains(t, text, "hexcities_run_duration_seconds ")
	require.Contains(t, text, "hexcities_process_rss_bytes ")
	require.Contains(t, text, "hexgrid_hexagons_total 4066")
}

func TestCollectorStop(t *testing.T) {
	c, err := stats.NewCollector(time.Hour)
	require.NoError(t, err)
	c.Start()
	summary := c.Stop()
	require.Equal(t, 2, summary.Samples)
	require.NotZero(t, summary.PeakRSS)
}

func TestReportFinishTwice(t *testing.T) {
	report, err := stats.NewReport(time.Hour)
	require.NoError(t, err)

	first := report.Finish()
	second := report.Finish()
	require.Equal(t, first, second)
	require.Equal(t, 2, first.Samples)
}
