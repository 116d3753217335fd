package gtmkit

import (
	"log/slog"

	"github.com/analyzify/gtmkit/pkg/gtmkit/datalayer"
	"github.com/analyzify/gtmkit/pkg/gtmkit/observability"
)

// Option configures a Pixel.
type Option func(*Pixel)

// WithLogger sets the structured logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pixel) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default is observability.NoopMetrics.
func WithMetrics(metrics observability.MetricsRecorder) Option {
	return func(p *Pixel) {
		if metrics != nil {
			p.metrics = metrics
		}
	}
}

// WithArchive persists every dispatched record to the given archive.
func WithArchive(archive datalayer.Archive) Option {
	return func(p *Pixel) {
		p.archive = archive
	}
}

// WithValidation enables schema validation on buses created by NewBus.
func WithValidation() Option {
	return func(p *Pixel) {
		p.validate = true
	}
}
