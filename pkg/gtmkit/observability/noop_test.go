package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopMetrics(t *testing.T) {
	// Must not panic or allocate anything meaningful.
	m := NoopMetrics{}
	ctx := context.Background()

	m.RecordEvent(ctx, "page_viewed", time.Millisecond, nil)
	m.RecordEvent(ctx, "page_viewed", time.Millisecond, errors.New("fault"))
	m.RecordPush(ctx, "ee_page_view", 1)
	m.RecordInjection(ctx, true)
}
