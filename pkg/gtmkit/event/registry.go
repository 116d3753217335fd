package event

import (
	"fmt"
	"sync"
)

// Schema defines the expected shape of one lifecycle event.
type Schema struct {
	// Name is the lifecycle event name (e.g., "product_viewed").
	Name string

	// Version is the schema version number.
	Version int

	// Description explains the event's purpose.
	Description string

	// PayloadType is the expected Go type for the payload.
	PayloadType any

	// Validator is an optional custom validation function.
	Validator func(Event) error

	// Compatible lists backward-compatible versions.
	// A consumer at version N can read events at versions in Compatible.
	Compatible []int
}

// IsCompatibleWith returns true if this schema can read events at the given version.
func (s *Schema) IsCompatibleWith(version int) bool {
	if version == s.Version {
		return true
	}
	for _, v := range s.Compatible {
		if v == version {
			return true
		}
	}
	return false
}

// Validate checks if an event conforms to this schema.
func (s *Schema) Validate(evt Event) error {
	if evt.Name() != s.Name {
		return fmt.Errorf("event name mismatch: expected %s, got %s", s.Name, evt.Name())
	}

	if !s.IsCompatibleWith(evt.Version()) {
		return fmt.Errorf("incompatible version: schema %d, event %d", s.Version, evt.Version())
	}

	if s.Validator != nil {
		if err := s.Validator(evt); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// Registry manages lifecycle event schemas with version support.
type Registry struct {
	mu sync.RWMutex

	// schemas maps event name -> latest schema
	schemas map[string]*Schema

	// versions maps event name -> version -> schema
	versions map[string]map[int]*Schema
}

// NewRegistry creates a new event registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas:  make(map[string]*Schema),
		versions: make(map[string]map[int]*Schema),
	}
}

// Register adds an event schema to the registry.
// If a schema with the same name and version exists, it's replaced.
func (r *Registry) Register(schema *Schema) error {
	if schema.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if schema.Version <= 0 {
		return fmt.Errorf("version must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.versions[schema.Name] == nil {
		r.versions[schema.Name] = make(map[int]*Schema)
	}

	r.versions[schema.Name][schema.Version] = schema

	// Update latest if this is a higher version
	if current, ok := r.schemas[schema.Name]; !ok || schema.Version > current.Version {
		r.schemas[schema.Name] = schema
	}

	return nil
}

// Get returns the latest schema for an event name.
func (r *Registry) Get(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok := r.schemas[name]
	return schema, ok
}

// GetVersion returns a specific version of a schema.
func (r *Registry) GetVersion(name string, version int) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.versions[name]
	if !ok {
		return nil, false
	}

	schema, ok := versions[version]
	return schema, ok
}

// Validate checks if an event conforms to its registered schema.
func (r *Registry) Validate(evt Event) error {
	r.mu.RLock()
	schema, ok := r.schemas[evt.Name()]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("unknown event name: %s", evt.Name())
	}

	return schema.Validate(evt)
}

// Has returns true if a schema exists for the event name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[name]
	return ok
}

// Names returns all registered event names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for n := range r.schemas {
		names = append(names, n)
	}
	return names
}

// MustRegister adds a schema to the registry, panicking on error.
func (r *Registry) MustRegister(schema *Schema) {
	if err := r.Register(schema); err != nil {
		panic(fmt.Sprintf("failed to register event schema: %v", err))
	}
}
