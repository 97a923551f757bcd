package hexgrid

import (
	"log/slog"

	"github.com/royalcat/hexcities/projection"
)

type options struct {
	logger    *slog.Logger
	progress  bool
	projector *projection.Projector
}

type Option interface {
	apply(*options)
}

type loggerOption struct{ l *slog.Logger }

func (o loggerOption) apply(opts *options) {
	opts.logger = o.l
}

// Default: slog.Default()
func WithLogger(l *slog.Logger) Option {
	return loggerOption{l}
}

type progressOption bool

func (o progressOption) apply(opts *options) {
	opts.progress = bool(o)
}

// WithProgress renders a terminal progress bar over the cities. Default: false
func WithProgress(enabled bool) Option {
	return progressOption(enabled)
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
