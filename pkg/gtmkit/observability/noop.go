package observability

import (
	"context"
	"time"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordEvent does nothing.
func (NoopMetrics) RecordEvent(_ context.Context, _ string, _ time.Duration, _ error) {}

// RecordPush does nothing.
func (NoopMetrics) RecordPush(_ context.Context, _ string, _ int) {}

// RecordInjection does nothing.
func (NoopMetrics) RecordInjection(_ context.Context, _ bool) {}
