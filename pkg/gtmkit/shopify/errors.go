package shopify

import "fmt"

// MissingFieldError reports a required nested field absent from a payload.
// It replaces what the in-browser pixel surfaced as an unguarded property
// access fault: the current event's dispatch is aborted, nothing else is.
type MissingFieldError struct {
	Path string // Dotted path of the missing field (e.g., "checkout.shippingLine")
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Path)
}

// MissingField creates a MissingFieldError for the given path.
func MissingField(path string) error {
	return &MissingFieldError{Path: path}
}
