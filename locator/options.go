package locator

import (
	"log/slog"

	"github.com/royalcat/hexcities/projection"
)

type options struct {
	searchRadius float64
	logger       *slog.Logger
	projector    *projection.Projector
}

type Option interface {
	apply(*options)
}

type searchRadius float64

func (r searchRadius) apply(o *options) {
	o.searchRadius = float64(r)
}

// WithSearchRadius bounds the planar distance in meters between a query and
// a hexagon center. Default: the largest hexagon circumradius of the index.
func WithSearchRadius(radius float64) Option {
	return searchRadius(radius)
}

type loggerOption struct{ l *slog.Logger }

func (o loggerOption) apply(opts *options) {
	opts.logger = o.l
}

// Default: slog.Default()
func WithLogger(l *slog.Logger) Option {
	return loggerOption{l}
}

type projectorOption struct{ p *projection.Projector }

func (o projectorOption) apply(opts *options) {
	opts.projector = o.p
}

// Default: Lambert-93
func WithProjector(p *projection.Projector) Option {
	return projectorOption{p}
}

func loadOptions(opts ...Option) options {
	options := options{
		logger: slog.Default(),
	}
	for _, o := range opts {
		o.apply(&options)
	}
	return options
}
