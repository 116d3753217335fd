package gtmkit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/analyzify/gtmkit/pkg/gtmkit/datalayer"
	"github.com/analyzify/gtmkit/pkg/gtmkit/observability"
)

// scriptBaseURL is where the tag container script is served from.
const scriptBaseURL = "https://www.googletagmanager.com/gtm.js?id="

// Loader bootstraps the tag-management container: it pushes the container
// start record onto the data layer and records the script URL the host
// page must load. Injection is strictly idempotent; the purchase handler
// re-invokes it so the container exists even when the order-status page is
// the first page of the session.
type Loader struct {
	containerID string
	dl          *datalayer.DataLayer
	logger      *slog.Logger
	metrics     observability.MetricsRecorder

	mu       sync.Mutex
	injected bool
}

// NewLoader creates a loader bound to a container and data layer.
func NewLoader(containerID string, dl *datalayer.DataLayer, logger *slog.Logger, metrics observability.MetricsRecorder) *Loader {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Loader{
		containerID: containerID,
		dl:          dl,
		logger:      logger,
		metrics:     metrics,
	}
}

// Inject performs the one-time container bootstrap. It returns true when
// this call performed the injection and false on every later call.
func (l *Loader) Inject(ctx context.Context) bool {
	l.mu.Lock()
	already := l.injected
	l.injected = true
	l.mu.Unlock()

	if !already {
		l.dl.Push("gtm.js", map[string]any{
			"gtm.start": time.Now().UnixMilli(),
		})
	}

	observability.LogInjection(l.logger, l.containerID, !already)
	l.metrics.RecordInjection(ctx, !already)
	return !already
}

// Injected reports whether the bootstrap already happened.
func (l *Loader) Injected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.injected
}

// ScriptURL returns the container script URL for this loader's container.
func (l *Loader) ScriptURL() string {
	return scriptBaseURL + l.containerID
}
