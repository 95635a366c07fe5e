package module

import (
	"fmt"
	"sort"
	"sync"

	"xdao.co/cryptodiff/repository"
)

// Backend is a build-time plugin that constructs a Module.
//
// Backends register themselves in init():
//
//	module.MustRegister(module.Backend{ ... })
//
// The binary must import the backend package for registration to occur;
// modules/all imports every backend in this repository.
type Backend struct {
	ID          repository.ModuleID
	Name        string
	Description string

	// New constructs the module. reg supplies curve and digest metadata.
	New func(reg *repository.Registry) (Module, error)
}

var (
	mu       sync.RWMutex
	backends = map[string]Backend{}
)

// Register registers a backend.
func Register(b Backend) error {
	if b.Name == "" {
		return fmt.Errorf("module: backend name is required")
	}
	if b.ID == repository.ModuleWildcard {
		return fmt.Errorf("module: backend %q uses the wildcard id", b.Name)
	}
	if b.New == nil {
		return fmt.Errorf("module: backend %q missing New", b.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := backends[b.Name]; exists {
		return fmt.Errorf("module: backend %q already registered", b.Name)
	}
	for _, other := range backends {
		if other.ID == b.ID {
			return fmt.Errorf("module: backend %q reuses id %d of %q", b.Name, b.ID, other.Name)
		}
	}
	backends[b.Name] = b
	log.Debugf("Registered backend %s (id %d)", b.Name, b.ID)
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(b Backend) {
	if err := Register(b); err != nil {
		panic(err)
	}
}

// List returns registered backends sorted by ID.
func List() []Backend {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Backend, 0, len(backends))
	for _, b := range backends {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Names returns registered backend names in ID order.
func Names() []string {
	bs := List()
	n := make([]string, 0, len(bs))
	for _, b := range bs {
		n = append(n, b.Name)
	}
	return n
}

// Open constructs the named backends in ID order. An empty names list opens
// every registered backend.
func Open(reg *repository.Registry, names ...string) ([]Module, error) {
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	all := len(names) == 0
	var out []Module
	for _, b := range List() {
		if !all && !want[b.Name] {
			continue
		}
		delete(want, b.Name)
		m, err := b.New(reg)
		if err != nil {
			return nil, fmt.Errorf("module: open %s: %w", b.Name, err)
		}
		out = append(out, m)
	}
	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for n := range want {
			missing = append(missing, n)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("module: unknown backends %v", missing)
	}
	return out, nil
}
