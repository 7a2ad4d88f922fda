package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

var (
	// ErrInvalidDescriptor is returned when a descriptor fails validation
	ErrInvalidDescriptor = errors.New("invalid app descriptor")
)

// Manager holds app descriptors in registration order
type Manager struct {
	mu      sync.RWMutex
	entries map[string]types.AppDescriptor // Protected by mu
	order   []string                       // Protected by mu
}

// NewManager creates an empty registry
func NewManager() *Manager {
	return &Manager{
		entries: make(map[string]types.AppDescriptor),
	}
}

// Register adds a descriptor, replacing any entry with the same id while
// keeping its original position.
func (m *Manager) Register(desc types.AppDescriptor) error {
	if err := Validate(desc); err != nil {
		return err
	}
	if desc.Category == "" {
		desc.Category = types.CategoryApp
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[desc.ID]; !exists {
		m.order = append(m.order, desc.ID)
	}
	m.entries[desc.ID] = desc
	return nil
}

// Get looks up a descriptor by id
func (m *Manager) Get(id string) (types.AppDescriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	desc, ok := m.entries[id]
	return desc, ok
}

// Has reports whether id is registered
func (m *Manager) Has(id string) bool {
	_, ok := m.Get(id)
	return ok
}

// List returns descriptors in registration order, optionally filtered by category
func (m *Manager) List(category *types.Category) []types.AppDescriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.AppDescriptor, 0, len(m.order))
	for _, id := range m.order {
		desc := m.entries[id]
		if category == nil || desc.Category == *category {
			out = append(out, desc)
		}
	}
	return out
}

// Len returns the number of registered apps
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Stats returns entry counts per category
func (m *Manager) Stats() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := map[string]int{"total": len(m.order)}
	for _, desc := range m.entries {
		stats[string(desc.Category)]++
	}
	return stats
}

// Validate checks the required descriptor fields
func Validate(desc types.AppDescriptor) error {
	switch {
	case desc.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidDescriptor)
	case desc.Title == "":
		return fmt.Errorf("%w: %s: title is required", ErrInvalidDescriptor, desc.ID)
	case desc.DefaultSize.Width <= 0 || desc.DefaultSize.Height <= 0:
		return fmt.Errorf("%w: %s: default size must be positive", ErrInvalidDescriptor, desc.ID)
	case desc.IsExternal && desc.URL == "":
		return fmt.Errorf("%w: %s: external app needs a url", ErrInvalidDescriptor, desc.ID)
	}
	return nil
}
