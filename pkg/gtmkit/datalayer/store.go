package datalayer

import "errors"

// Archive persists pushed records outside the in-memory queue, for audit
// and replay. Implementations must be safe for concurrent use.
type Archive interface {
	// Append stores a record. Records keep their push order.
	Append(rec Record) error

	// List returns the most recent records, oldest first.
	// limit <= 0 returns everything.
	List(limit int) ([]Record, error)

	// Count returns the number of archived records.
	Count() (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// ErrArchiveClosed indicates the archive has been closed.
var ErrArchiveClosed = errors.New("data layer archive closed")
