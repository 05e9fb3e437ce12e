package crawler

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when a crawler name is not registered.
var ErrNotFound = errors.New("crawler not found")

// Factory creates a new crawler instance.
type Factory func() DataCrawler

// Config describes a registered crawler and its capabilities.
type Config struct {
	Name                   string
	DisplayName            string
	Description            string
	Factory                Factory
	RequiresInitialization bool
	SupportsKeywordSearch  bool
	SupportsURLCrawl       bool
}

// Registry is a catalog of available crawlers. It is populated once at
// startup and read-only afterwards; the lock guards the population phase
// against concurrent lookups. Registration order is preserved for display.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	configs map[string]Config
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]Config)}
}

// Register adds a crawler configuration. Registering a name twice replaces
// the earlier configuration but keeps its position in the display order.
func (r *Registry) Register(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[cfg.Name]; !exists {
		r.order = append(r.order, cfg.Name)
	}
	r.configs[cfg.Name] = cfg
}

// Names returns the registered crawler names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// DisplayNames returns the display names in registration order.
func (r *Registry) DisplayNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.order))
	for _, name := range r.order {
		names = append(names, r.configs[name].DisplayName)
	}
	return names
}

// Config returns the configuration for a crawler name.
func (r *Registry) Config(name string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[name]
	return cfg, ok
}

// Create builds a new crawler instance by name. Unknown names fail with
// ErrNotFound, never a nil crawler.
func (r *Registry) Create(name string) (DataCrawler, error) {
	r.mu.RLock()
	cfg, ok := r.configs[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return cfg.Factory(), nil
}

// SupportsKeywordSearch reports whether the named crawler can search by
// keyword. Unknown names report false.
func (r *Registry) SupportsKeywordSearch(name string) bool {
	cfg, ok := r.Config(name)
	return ok && cfg.SupportsKeywordSearch
}

// SupportsURLCrawl reports whether the named crawler can crawl a URL.
// Unknown names report false.
func (r *Registry) SupportsURLCrawl(name string) bool {
	cfg, ok := r.Config(name)
	return ok && cfg.SupportsURLCrawl
}

// RequiresInitialization reports whether the named crawler needs its
// lifecycle hooks called. Unknown names report false.
func (r *Registry) RequiresInitialization(name string) bool {
	cfg, ok := r.Config(name)
	return ok && cfg.RequiresInitialization
}

// Description returns the crawler's description, or a placeholder for
// unknown names.
func (r *Registry) Description(name string) string {
	cfg, ok := r.Config(name)
	if !ok {
		return "No description available"
	}
	return cfg.Description
}
