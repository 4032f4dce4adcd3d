package adapters

import (
	"sort"
	"sync"

	"github.com/Station-Manager/errors"
)

// Registry holds named adapters for whichever component composes the system.
// It is an explicitly passed object rather than package-level state, so tests
// and tenants never share a hidden table.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]*Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]*Adapter)}
}

// Create registers an adapter under a name. Registering a name twice is an
// error; use Clear or a new registry to start over.
func (r *Registry) Create(name string, a *Adapter) error {
	const op errors.Op = "adapters.Registry.Create"
	if name == "" {
		return errors.New(op).Msg(ErrMsgRegistryName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[name]; exists {
		return errors.New(op).Errorf("an adapter is already registered under name %q", name)
	}
	r.adapters[name] = a
	return nil
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (*Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes every registration.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = make(map[string]*Adapter)
}
