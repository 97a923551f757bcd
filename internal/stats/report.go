package stats

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/royalcat/hexcities/hexgrid"
)

const namespace = "hexcities"

// Report gathers the metrics of a single generation run and writes them in
// the node-exporter textfile format.
type Report struct {
	registry  *prometheus.Registry
	collector *Collector

	hexagons *prometheus.GaugeVec
	radius   *prometheus.GaugeVec
	rows     prometheus.Gauge
	duration prometheus.Gauge
	rss      prometheus.Gauge
	heap     prometheus.Gauge
}

func NewReport(sampleInterval time.Duration) (*Report, error) {
	collector, err := NewCollector(sampleInterval)
	if err != nil {
		return nil, err
	}

	r := &Report{
		registry:  prometheus.NewRegistry(),
		collector: collector,
		hexagons: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hexagons",
			Help:      "Hexagons generated per city.",
		}, []string{"city"}),
		radius: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "radius_meters",
			Help:      "Coverage radius used per city.",
		}, []string{"city"}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_written",
			Help:      "Point rows written to the export.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the run.",
		}),
		rss: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_rss_bytes",
			Help:      "Peak resident set size of the run.",
		}),
		heap: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heap_alloc_bytes",
			Help:      "Peak heap allocation of the run.",
		}),
	}
	r.registry.MustRegister(r.hexagons, r.radius, r.rows, r.duration, r.rss, r.heap)

	collector.Start()
	return r, nil
}

func (r *Report) ObserveCities(stats []hexgrid.CityStats) {
	for _, s := range stats {
		r.hexagons.WithLabelValues(s.City).Set(float64(s.Hexagons))
		r.radius.WithLabelValues(s.City).Set(s.Radius)
	}
}

func (r *Report) SetRows(n int) {
	r.rows.Set(float64(n))
}

// Finish stops resource sampling and records the run totals. It is safe to
// call more than once.
func (r *Report) Finish() Summary {
	summary := r.collector.Stop()
	r.duration.Set(summary.Elapsed.Seconds())
	r.rss.Set(float64(summary.PeakRSS))
	r.heap.Set(float64(summary.PeakHeapAlloc))
	return summary
}

// WriteTextfile writes the report, along with any extra gatherers, atomically to filename.
func (r *Report) WriteTextfile(filename string, extra ...prometheus.Gatherer) error {
	gatherers := append(prometheus.Gatherers{r.registry}, extra...)
	if err := prometheus.WriteToTextfile(filename, gatherers); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
