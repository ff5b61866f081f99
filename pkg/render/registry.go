package render

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores formatters by name, providing discovery and duplication
// safeguards.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// DefaultRegistry returns a registry holding the text and json formatters.
// options configure the text formatter.
func DefaultRegistry(options ...TextOption) (*Registry, error) {
	text, err := NewTextFormatter(options...)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	reg.MustRegister(text)
	reg.MustRegister(JSONFormatter{})
	return reg, nil
}

// Register adds a formatter by its Name(). Duplicate names return an error.
func (r *Registry) Register(formatter Formatter) error {
	if formatter == nil {
		return fmt.Errorf("render: formatter is required")
	}
	name := formatter.Name()
	if name == "" {
		return fmt.Errorf("render: formatter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[name]; exists {
		return fmt.Errorf("render: formatter %q already registered", name)
	}

	r.formatters[name] = formatter
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(formatter Formatter) {
	if err := r.Register(formatter); err != nil {
		panic(err)
	}
}

// Get retrieves a formatter by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formatter, ok := r.formatters[name]
	if !ok {
		return nil, fmt.Errorf("render: formatter %q not found", name)
	}
	return formatter, nil
}

// List returns a sorted list of formatter names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
