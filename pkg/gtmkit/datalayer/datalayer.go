// Package datalayer implements the tag-management data layer: a
// process-wide, append-only queue of dispatch records consumed by an
// external tag container. Pushing is fire-and-forget; nothing in this
// package retries, blocks, or guarantees the consumer ever drains.
package datalayer

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// SourceTag identifies this adapter on every outbound record.
const SourceTag = "gtm-kit"

// Fixed record keys.
const (
	keyEvent  = "event"
	keySource = "analyzify_source"
	keyDebug  = "debug_mode"
)

// Record is one outbound dispatch record. It marshals flat: the merged
// fields sit beside the fixed event/source/debug keys, which is the shape
// the tag container's templates read.
type Record struct {
	Event     string
	Source    string
	DebugMode bool
	Fields    map[string]any

	// Callback is a best-effort completion hook invoked when the consumer
	// drains the record. Only attached in debug mode; has no bearing on
	// delivery.
	Callback func()
}

// MarshalJSON flattens the merged fields beside the fixed keys.
// Fixed keys win on collision.
func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+3)
	for k, v := range r.Fields {
		flat[k] = v
	}
	flat[keyEvent] = r.Event
	flat[keySource] = r.Source
	flat[keyDebug] = r.DebugMode
	return json.Marshal(flat)
}

// UnmarshalJSON reverses MarshalJSON. The completion callback is not
// serialized.
func (r *Record) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	r.Event, _ = flat[keyEvent].(string)
	r.Source, _ = flat[keySource].(string)
	r.DebugMode, _ = flat[keyDebug].(bool)
	delete(flat, keyEvent)
	delete(flat, keySource)
	delete(flat, keyDebug)
	r.Fields = flat
	r.Callback = nil
	return nil
}

// DataLayer is the shared outbound queue.
type DataLayer struct {
	mu      sync.Mutex
	records []Record

	debug   bool
	logger  *slog.Logger
	archive Archive
}

// Option configures a DataLayer.
type Option func(*DataLayer)

// WithDebug toggles verbose diagnostics and the debug flag carried on
// every record.
func WithDebug(debug bool) Option {
	return func(d *DataLayer) {
		d.debug = debug
	}
}

// WithLogger sets the logger for push diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *DataLayer) {
		d.logger = logger
	}
}

// WithArchive attaches a persistent archive. Every pushed record is
// appended to it best-effort; archive failures are logged, never returned.
func WithArchive(archive Archive) Option {
	return func(d *DataLayer) {
		d.archive = archive
	}
}

// New creates an empty data layer.
func New(opts ...Option) *DataLayer {
	d := &DataLayer{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Push appends a dispatch record built from the event name and the given
// field block. It never fails and never blocks: a field block that cannot
// be flattened produces a record with no merged fields, and archive errors
// are swallowed after logging.
func (d *DataLayer) Push(event string, fields any) Record {
	rec := Record{
		Event:     event,
		Source:    SourceTag,
		DebugMode: d.debug,
		Fields:    flatten(fields, d.logger),
	}

	if d.debug {
		rec.Callback = func() {
			if d.logger != nil {
				d.logger.Debug("event drained by consumer",
					slog.String("event", event),
				)
			}
		}
	}

	d.mu.Lock()
	d.records = append(d.records, rec)
	depth := len(d.records)
	d.mu.Unlock()

	if d.archive != nil {
		if err := d.archive.Append(rec); err != nil && d.logger != nil {
			d.logger.Warn("archive append failed",
				slog.String("event", event),
				slog.String("error", err.Error()),
			)
		}
	}

	if d.debug && d.logger != nil {
		d.logger.Debug("event pushed",
			slog.String("event", event),
			slog.Int("queue_depth", depth),
		)
	}

	return rec
}

// flatten turns a field block into a map via a JSON round-trip.
func flatten(fields any, logger *slog.Logger) map[string]any {
	if fields == nil {
		return map[string]any{}
	}
	if m, ok := fields.(map[string]any); ok {
		return m
	}

	raw, err := json.Marshal(fields)
	if err == nil {
		var m map[string]any
		if err = json.Unmarshal(raw, &m); err == nil {
			return m
		}
	}
	if logger != nil {
		logger.Warn("dropping unmergeable field block",
			slog.String("error", err.Error()),
		)
	}
	return map[string]any{}
}

// Len returns the number of queued records.
func (d *DataLayer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.records)
}

// Records returns a snapshot of the queue.
func (d *DataLayer) Records() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Last returns the most recently pushed record.
func (d *DataLayer) Last() (Record, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.records) == 0 {
		return Record{}, false
	}
	return d.records[len(d.records)-1], true
}

// Drain removes and returns all queued records, invoking each record's
// completion callback. This is the consumer side of the queue.
func (d *DataLayer) Drain() []Record {
	d.mu.Lock()
	drained := d.records
	d.records = nil
	d.mu.Unlock()

	for _, rec := range drained {
		if rec.Callback != nil {
			rec.Callback()
		}
	}
	return drained
}
