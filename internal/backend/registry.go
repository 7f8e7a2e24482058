package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrBackendNotFound is returned by Resolve for names nobody registered.
var ErrBackendNotFound = errors.New("backend not registered")

// BackendInfo pairs a backend name with its capabilities.
type BackendInfo struct {
	Name         string       `json:"name"`
	Capabilities Capabilities `json:"capabilities"`
}

// Registry holds registered backends by name. The first backend registered
// becomes the default used when a run does not name one.
type Registry struct {
	mu          sync.RWMutex
	backends    map[string]Backend
	defaultName string
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// Register adds a backend to the registry under the given name.
func (r *Registry) Register(name string, b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defaultName == "" {
		r.defaultName = name
	}
	r.backends[name] = b
}

// Resolve returns the backend registered under name. An empty name resolves
// to the default backend.
func (r *Registry) Resolve(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	target := name
	if target == "" {
		if r.defaultName == "" {
			return nil, fmt.Errorf("%w: registry is empty", ErrBackendNotFound)
		}
		target = r.defaultName
	}

	b, ok := r.backends[target]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotFound, target)
	}
	return b, nil
}

// DefaultName returns the name an empty Resolve call maps to.
func (r *Registry) DefaultName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultName
}

// List returns information about all registered backends, sorted by name
// for a stable API response.
func (r *Registry) List() []BackendInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]BackendInfo, 0, len(r.backends))
	for name, b := range r.backends {
		infos = append(infos, BackendInfo{
			Name:         name,
			Capabilities: b.Capabilities(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Each calls fn for every registered backend, in name order.
func (r *Registry) Each(fn func(name string, b Backend)) {
	r.mu.RLock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	backends := make(map[string]Backend, len(r.backends))
	for name, b := range r.backends {
		backends[name] = b
	}
	r.mu.RUnlock()

	sort.Strings(names)
	for _, name := range names {
		fn(name, backends[name])
	}
}
