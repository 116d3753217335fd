package datalayer_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyzify/gtmkit/pkg/gtmkit/datalayer"
)

func TestPushRecordShape(t *testing.T) {
	dl := datalayer.New()

	rec := dl.Push("ee_view_item", map[string]any{
		"currency": "USD",
		"value":    29.99,
	})

	assert.Equal(t, "ee_view_item", rec.Event)
	assert.Equal(t, datalayer.SourceTag, rec.Source)
	assert.False(t, rec.DebugMode)
	assert.Equal(t, "USD", rec.Fields["currency"])
	assert.Equal(t, 29.99, rec.Fields["value"])
	assert.Nil(t, rec.Callback)
	assert.Equal(t, 1, dl.Len())
}

func TestPushFlattensStructs(t *testing.T) {
	type block struct {
		PageTitle string `json:"page_title"`
		PagePath  string `json:"page_path"`
	}

	dl := datalayer.New()
	rec := dl.Push("ee_page_view", block{PageTitle: "Home", PagePath: "/"})

	assert.Equal(t, "Home", rec.Fields["page_title"])
	assert.Equal(t, "/", rec.Fields["page_path"])
}

func TestPushUnmergeableFields(t *testing.T) {
	dl := datalayer.New(datalayer.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	// Channels cannot be marshaled; the record still dispatches.
	rec := dl.Push("ee_page_view", make(chan int))
	assert.Equal(t, "ee_page_view", rec.Event)
	assert.Empty(t, rec.Fields)
	assert.Equal(t, 1, dl.Len())
}

func TestRecordMarshalFlat(t *testing.T) {
	rec := datalayer.Record{
		Event:     "ee_search",
		Source:    datalayer.SourceTag,
		DebugMode: true,
		Fields: map[string]any{
			"search_term": "shirt",
			// Collides with a fixed key; the fixed key wins.
			"event": "bogus",
		},
	}

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, "ee_search", flat["event"])
	assert.Equal(t, datalayer.SourceTag, flat["analyzify_source"])
	assert.Equal(t, true, flat["debug_mode"])
	assert.Equal(t, "shirt", flat["search_term"])
}

func TestRecordUnmarshalRoundTrip(t *testing.T) {
	in := datalayer.Record{
		Event:     "ee_purchase",
		Source:    datalayer.SourceTag,
		DebugMode: false,
		Fields:    map[string]any{"transaction_id": "order-1"},
	}

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out datalayer.Record
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in.Event, out.Event)
	assert.Equal(t, in.Source, out.Source)
	assert.Equal(t, in.DebugMode, out.DebugMode)
	assert.Equal(t, "order-1", out.Fields["transaction_id"])
	assert.NotContains(t, out.Fields, "event")
	assert.Nil(t, out.Callback)
}

func TestDebugAttachesCallback(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dl := datalayer.New(datalayer.WithDebug(true), datalayer.WithLogger(logger))
	rec := dl.Push("ee_view_cart", nil)

	assert.True(t, rec.DebugMode)
	require.NotNil(t, rec.Callback)

	drained := dl.Drain()
	require.Len(t, drained, 1)
	assert.Contains(t, buf.String(), "event drained by consumer")
	assert.Equal(t, 0, dl.Len())
}

func TestDrainEmptiesQueue(t *testing.T) {
	dl := datalayer.New()
	dl.Push("ee_page_view", nil)
	dl.Push("ee_view_item", nil)

	drained := dl.Drain()
	require.Len(t, drained, 2)
	assert.Equal(t, "ee_page_view", drained[0].Event)
	assert.Equal(t, "ee_view_item", drained[1].Event)
	assert.Equal(t, 0, dl.Len())
	assert.Empty(t, dl.Drain())
}

func TestRecordsSnapshot(t *testing.T) {
	dl := datalayer.New()
	dl.Push("ee_page_view", nil)

	snap := dl.Records()
	require.Len(t, snap, 1)

	dl.Push("ee_view_item", nil)
	assert.Len(t, snap, 1, "snapshot is detached from the live queue")

	last, ok := dl.Last()
	require.True(t, ok)
	assert.Equal(t, "ee_view_item", last.Event)
}

func TestLastEmpty(t *testing.T) {
	dl := datalayer.New()
	_, ok := dl.Last()
	assert.False(t, ok)
}

type failingArchive struct{}

func (failingArchive) Append(datalayer.Record) error { return errors.New("disk full") }
func (failingArchive) List(int) ([]datalayer.Record, error) {
	return nil, errors.New("disk full")
}
func (failingArchive) Count() (int, error) { return 0, errors.New("disk full") }
func (failingArchive) Close() error        { return nil }

func TestArchiveFailureDoesNotBlockPush(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	dl := datalayer.New(datalayer.WithArchive(failingArchive{}), datalayer.WithLogger(logger))
	rec := dl.Push("ee_begin_checkout", nil)

	assert.Equal(t, "ee_begin_checkout", rec.Event)
	assert.Equal(t, 1, dl.Len())
	assert.Contains(t, buf.String(), "archive append failed")
}
