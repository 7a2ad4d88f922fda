package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/frame"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

// ErrSessionNotFound is returned for an unknown session id
var ErrSessionNotFound = errors.New("session not found")

// Config holds desktop session settings
type Config struct {
	Window             window.Config
	ExternalCloseDelay time.Duration
	IdleTTL            time.Duration // Zero disables reaping

	afterFunc frame.AfterFunc
}

// DefaultConfig returns the default session settings
func DefaultConfig() Config {
	return Config{
		Window:             window.DefaultConfig(),
		ExternalCloseDelay: frame.DefaultExternalCloseDelay,
		IdleTTL:            30 * time.Minute,
	}
}

// Manager stores live desktop sessions in memory
type Manager struct {
	sessions sync.Map // string -> *Desktop
	registry window.Registry
	cfg      Config
	metrics  *monitoring.Metrics
	logger   *zap.Logger

	mu          sync.RWMutex
	lastCreated *time.Time
	lastReaped  *time.Time
}

// NewManager creates a session store over an app registry
func NewManager(registry window.Registry, cfg Config) *Manager {
	return &Manager{
		registry: registry,
		cfg:      cfg,
		logger:   zap.NewNop(),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithLogger sets the manager's logger
func (m *Manager) WithLogger(logger *zap.Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// Create starts a new session in the Booting state
func (m *Manager) Create(vp types.Viewport) *Desktop {
	sessionID := id.NewSessionID().String()
	desktop := newDesktop(sessionID, m.registry, m.cfg, vp, m.metrics, m.logger)
	m.sessions.Store(sessionID, desktop)

	now := time.Now()
	m.mu.Lock()
	m.lastCreated = &now
	m.mu.Unlock()

	m.logger.Info("Session created",
		zap.String("session_id", sessionID),
		zap.Int("viewport_width", vp.Width),
		zap.Int("viewport_height", vp.Height),
	)
	if m.metrics != nil {
		m.metrics.IncSessionsCreated()
	}
	m.updateGauge()
	return desktop
}

// Get returns a session and marks it as used
func (m *Manager) Get(sessionID string) (*Desktop, error) {
	value, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	desktop := value.(*Desktop)
	desktop.Touch()
	return desktop, nil
}

// Delete removes a session
func (m *Manager) Delete(sessionID string) bool {
	value, ok := m.sessions.LoadAndDelete(sessionID)
	if !ok {
		return false
	}
	value.(*Desktop).close()

	m.logger.Info("Session deleted", zap.String("session_id", sessionID))
	m.updateGauge()
	return true
}

// List returns all sessions, oldest first
func (m *Manager) List() []types.SessionInfo {
	var infos []types.SessionInfo
	m.sessions.Range(func(_, value interface{}) bool {
		infos = append(infos, value.(*Desktop).Info())
		return true
	})

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	var n int
	m.sessions.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Stats returns session store statistics
func (m *Manager) Stats() types.SessionStats {
	var stats types.SessionStats
	m.sessions.Range(func(_, value interface{}) bool {
		stats.TotalSessions++
		if value.(*Desktop).IsDesktop() {
			stats.DesktopSessions++
		} else {
			stats.BootingSessions++
		}
		return true
	})
	return stats
}

// Reap removes sessions idle since before now minus the idle TTL and
// returns how many were removed. Sessions with a live subscriber, such as
// an open stream, are never idle.
func (m *Manager) Reap(now time.Time) int {
	if m.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-m.cfg.IdleTTL)

	var reaped int
	m.sessions.Range(func(key, value interface{}) bool {
		desktop := value.(*Desktop)
		if desktop.Subscribers() == 0 && desktop.LastSeen().Before(cutoff) {
			if m.Delete(key.(string)) {
				reaped++
			}
		}
		return true
	})

	if reaped > 0 {
		m.mu.Lock()
		m.lastReaped = &now
		m.mu.Unlock()

		m.logger.Info("Reaped idle sessions", zap.Int("count", reaped))
		if m.metrics != nil {
			m.metrics.AddSessionsReaped(reaped)
		}
	}
	return reaped
}

// RunReaper reaps idle sessions every interval until ctx is done
func (m *Manager) RunReaper(ctx context.Context, interval time.Duration) {
	if m.cfg.IdleTTL <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Reap(now)
		}
	}
}

// Shutdown drops every session
func (m *Manager) Shutdown() {
	m.sessions.Range(func(key, _ interface{}) bool {
		m.Delete(key.(string))
		return true
	})
}

// LastCreated returns when the last session was created
func (m *Manager) LastCreated() *time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastCreated
}

func (m *Manager) updateGauge() {
	if m.metrics != nil {
		m.metrics.SetSessionsActive(m.Len())
	}
}
