// Package observability provides structured logging and metrics for the
// pixel: slog helpers for dispatch diagnostics and an OpenTelemetry metrics
// recorder with a no-op fallback.
//
// All features are opt-in and nil-safe when disabled.
package observability

import "log/slog"

// EnrichLogger adds event context to a logger.
// Returns a new logger with event_id, event and client_id fields.
func EnrichLogger(logger *slog.Logger, eventID, eventName, clientID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("event_id", eventID),
		slog.String("event", eventName),
		slog.String("client_id", clientID),
	)
}

// LogInit logs pixel startup with its container binding.
func LogInit(logger *slog.Logger, containerID, version string) {
	if logger == nil {
		return
	}
	logger.Info("pixel initiated",
		slog.String("container_id", containerID),
		slog.String("version", version),
	)
}

// LogInjection logs a container bootstrap attempt.
func LogInjection(logger *slog.Logger, containerID string, injected bool) {
	if logger == nil {
		return
	}
	logger.Debug("container bootstrap",
		slog.String("container_id", containerID),
		slog.Bool("injected", injected),
	)
}

// LogDispatch logs a successful dispatch to the data layer.
func LogDispatch(logger *slog.Logger, event string, queueDepth int) {
	if logger == nil {
		return
	}
	logger.Debug("dispatched",
		slog.String("event", event),
		slog.Int("queue_depth", queueDepth),
	)
}

// LogHandlerFault logs a handler failure on a logger already carrying event
// context (see EnrichLogger). A fault aborts only the current event's
// dispatch; subsequent events are unaffected.
func LogHandlerFault(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Error("handler fault",
		slog.String("error", err.Error()),
	)
}

// LogSuppressed logs a funnel dispatch suppressed by its one-shot guard.
func LogSuppressed(logger *slog.Logger, eventName, step string) {
	if logger == nil {
		return
	}
	logger.Debug("duplicate funnel step suppressed",
		slog.String("event", eventName),
		slog.String("step", step),
	)
}
