package event

import (
	"context"
	"fmt"
	"time"
)

// handlerName extracts a name for a handler (for logging/metrics).
func handlerName(h Handler) string {
	return fmt.Sprintf("%T", h)
}

// LoggingMiddleware logs event processing.
func LoggingMiddleware(logFn func(eventName, handlerName string, duration time.Duration, err error)) MiddlewareFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, evt Event) error {
			start := time.Now()
			err := next.Handle(ctx, evt)
			logFn(evt.Name(), handlerName(next), time.Since(start), err)
			return err
		})
	}
}

// RecoveryMiddleware recovers from panics in handlers.
func RecoveryMiddleware() MiddlewareFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, evt Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &EventError{
						Event:   evt,
						Message: fmt.Sprintf("handler panic: %v", r),
					}
				}
			}()
			return next.Handle(ctx, evt)
		})
	}
}

// MetricsMiddleware records handler metrics.
func MetricsMiddleware(
	onStart func(eventName string),
	onComplete func(eventName string, duration time.Duration, err error),
) MiddlewareFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, evt Event) error {
			if onStart != nil {
				onStart(evt.Name())
			}
			start := time.Now()
			err := next.Handle(ctx, evt)
			if onComplete != nil {
				onComplete(evt.Name(), time.Since(start), err)
			}
			return err
		})
	}
}
