package prompt

import (
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// Backend is a Prompter that can report whether it is usable in the
// current process.
type Backend interface {
	Prompter
	// Name returns the backend name for registry lookup
	Name() string
	// Description returns a brief description of the backend
	Description() string
	// Available returns nil if the backend can run right now
	Available() error
}

// Registry manages registered prompt backends
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates a new backend registry instance
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// DefaultRegistry returns a registry holding the tea and plain backends.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(NewTeaBackend())
	_ = r.Register(NewPlainBackend())
	return r
}

// Register adds a backend to the registry
func (r *Registry) Register(b Backend) error {
	if b == nil {
		return errors.New("cannot register nil backend")
	}

	name := b.Name()
	if name == "" {
		return errors.New("cannot register backend with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[name]; exists {
		return errors.Newf("backend '%s' is already registered", name)
	}

	r.backends[name] = b
	return nil
}

// Get retrieves a backend by name
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.backends[name]
	return b, ok
}

// List returns all registered backend names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// ListWithDescriptions returns all registered backends with their descriptions
func (r *Registry) ListWithDescriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.backends))
	for name, b := range r.backends {
		result[name] = b.Description()
	}
	return result
}

// Resolve returns the first named backend that is registered and available.
// The order of names is the resolution order: primary first, fallbacks after.
func (r *Registry) Resolve(names ...string) (Backend, error) {
	if len(names) == 0 {
		return nil, errors.Mark(errors.New("no prompt backends configured"), ErrBackendUnavailable)
	}

	var reasons []string
	for _, name := range names {
		b, ok := r.Get(name)
		if !ok {
			reasons = append(reasons, name+": not registered")
			continue
		}
		if err := b.Available(); err != nil {
			reasons = append(reasons, name+": "+err.Error())
			continue
		}
		return b, nil
	}

	return nil, errors.Mark(
		errors.Newf("no usable prompt backend (%s)", strings.Join(reasons, "; ")),
		ErrBackendUnavailable,
	)
}
