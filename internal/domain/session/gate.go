package session

import (
	"sync"
	"time"

	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

// Gate is the one-shot boot gate. It starts Booting and moves to Desktop on
// the first Complete call; it never goes back.
type Gate struct {
	mu       sync.RWMutex
	state    types.SessionState
	bootedAt *time.Time
}

// NewGate creates a gate in the Booting state
func NewGate() *Gate {
	return &Gate{state: types.SessionBooting}
}

// Complete is the boot collaborator's completion signal. It reports whether
// this call performed the transition.
func (g *Gate) Complete() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == types.SessionDesktop {
		return false
	}
	now := time.Now()
	g.state = types.SessionDesktop
	g.bootedAt = &now
	return true
}

// State returns the current gate state
func (g *Gate) State() types.SessionState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// IsDesktop reports whether the desktop is active
func (g *Gate) IsDesktop() bool {
	return g.State() == types.SessionDesktop
}

// BootedAt returns when the gate opened, or nil while booting
func (g *Gate) BootedAt() *time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.bootedAt == nil {
		return nil
	}
	t := *g.bootedAt
	return &t
}
