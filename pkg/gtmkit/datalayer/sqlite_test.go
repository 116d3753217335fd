package datalayer_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyzify/gtmkit/pkg/gtmkit/datalayer"
)

func newTestArchive(t *testing.T) *datalayer.SQLiteArchive {
	t.Helper()
	arc, err := datalayer.NewSQLiteArchive(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { arc.Close() })
	return arc
}

func TestSQLiteArchiveAppendAndList(t *testing.T) {
	arc := newTestArchive(t)

	for i := 0; i < 3; i++ {
		err := arc.Append(datalayer.Record{
			Event:  fmt.Sprintf("ee_event_%d", i),
			Source: datalayer.SourceTag,
			Fields: map[string]any{"index": float64(i)},
		})
		require.NoError(t, err)
	}

	records, err := arc.List(0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Push order is preserved, oldest first.
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("ee_event_%d", i), rec.Event)
		assert.Equal(t, datalayer.SourceTag, rec.Source)
		assert.Equal(t, float64(i), rec.Fields["index"])
	}
}

func TestSQLiteArchiveListLimit(t *testing.T) {
	arc := newTestArchive(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, arc.Append(datalayer.Record{Event: fmt.Sprintf("ee_event_%d", i)}))
	}

	records, err := arc.List(2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// The most recent two, still oldest first.
	assert.Equal(t, "ee_event_3", records[0].Event)
	assert.Equal(t, "ee_event_4", records[1].Event)
}

func TestSQLiteArchiveCount(t *testing.T) {
	arc := newTestArchive(t)

	count, err := arc.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, arc.Append(datalayer.Record{Event: "ee_page_view"}))
	require.NoError(t, arc.Append(datalayer.Record{Event: "ee_view_item"}))

	count, err = arc.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteArchiveClosed(t *testing.T) {
	arc := newTestArchive(t)
	require.NoError(t, arc.Close())

	err := arc.Append(datalayer.Record{Event: "ee_page_view"})
	assert.ErrorIs(t, err, datalayer.ErrArchiveClosed)

	_, err = arc.List(0)
	assert.ErrorIs(t, err, datalayer.ErrArchiveClosed)

	_, err = arc.Count()
	assert.ErrorIs(t, err, datalayer.ErrArchiveClosed)

	// Close is idempotent.
	assert.NoError(t, arc.Close())
}

func TestDataLayerWithSQLiteArchive(t *testing.T) {
	arc := newTestArchive(t)
	dl := datalayer.New(datalayer.WithArchive(arc))

	dl.Push("ee_add_to_cart", map[string]any{"value": 29.99})

	records, err := arc.List(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ee_add_to_cart", records[0].Event)
	assert.Equal(t, 29.99, records[0].Fields["value"])
}
