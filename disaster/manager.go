// Package disaster canonicalizes free-text disaster keywords to known
// disaster types, using exact alias lookup with a fuzzy fallback.
package disaster

import (
	"fmt"
	"strings"
	"sync"

	"reliefwatch/models"
)

// Manager holds every known disaster type, built-in and custom.
// Registration order is preserved for lookups and display. Resolution may
// run concurrently with registration, so all access goes through a
// read-write lock.
type Manager struct {
	mu    sync.RWMutex
	order []string
	types map[string]*models.DisasterType
}

// NewManager creates a manager pre-populated with the built-in defaults.
func NewManager() *Manager {
	m := &Manager{types: make(map[string]*models.DisasterType)}
	for _, d := range defaultTypes() {
		m.register(d)
	}
	return m
}

func defaultTypes() []*models.DisasterType {
	return []*models.DisasterType{
		models.NewDisasterType("yagi", []string{"typhoon yagi", "storm yagi", "bao yagi"}, true),
		models.NewDisasterType("matmo", []string{"typhoon matmo", "bao matmo"}, true),
		models.NewDisasterType("bualo", []string{"typhoon bualo", "bao bualo"}, true),
		models.NewDisasterType("koto", []string{"typhoon koto", "bao koto"}, true),
		models.NewDisasterType("fung-wong", []string{"fungwong", "typhoon fung-wong"}, true),
	}
}

// register adds a type without locking; callers hold the write lock or are
// still single-threaded in NewManager.
func (m *Manager) register(d *models.DisasterType) {
	m.order = append(m.order, d.Name)
	m.types[d.Name] = d
}

// Add registers a new disaster type. The canonical name must be unique
// across the whole registry, case-insensitively.
func (m *Manager) Add(d *models.DisasterType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.types[d.Name]; exists {
		return fmt.Errorf("disaster type already registered: %s", d.Name)
	}
	m.register(d)
	return nil
}

// Get returns the type with the given canonical name, or nil.
func (m *Manager) Get(name string) *models.DisasterType {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.types[strings.ToLower(strings.TrimSpace(name))]
}

// Resolve finds the best-matching type for a free-text keyword, or nil.
// Exact alias matches win, checked in registration order. When no alias
// matches, the canonical names are scored by Levenshtein similarity and
// the best candidate is returned only if it scores strictly above 0.5.
func (m *Manager) Resolve(keyword string) *models.DisasterType {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, name := range m.order {
		if m.types[name].HasAlias(keyword) {
			return m.types[name]
		}
	}

	if best, ok := FindMostSimilar(keyword, m.order); ok {
		return m.types[best]
	}
	return nil
}

// Names returns the canonical names in registration order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// CustomTypes returns every non-default type, in registration order.
func (m *Manager) CustomTypes() []*models.DisasterType {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var custom []*models.DisasterType
	for _, name := range m.order {
		if d := m.types[name]; !d.IsDefault {
			custom = append(custom, d)
		}
	}
	return custom
}
