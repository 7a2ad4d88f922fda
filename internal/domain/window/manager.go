package window

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

var (
	// ErrUnknownApp is returned when openApp names an id missing from the registry
	ErrUnknownApp = errors.New("unknown app")
	// ErrInvalidSpec is returned for a dynamic window spec without an id
	ErrInvalidSpec = errors.New("invalid instance spec")
)

// Registry is the read-only view of the app registry the manager needs
type Registry interface {
	Get(id string) (types.AppDescriptor, bool)
}

// Config holds window manager tunables
type Config struct {
	TaskbarHeight    int
	MobileBreakpoint int
	FullscreenApps   []string // Always opened maximized
	MinSize          types.Size
}

// DefaultConfig returns the desktop defaults
func DefaultConfig() Config {
	return Config{
		TaskbarHeight:    48,
		MobileBreakpoint: 768,
		FullscreenApps:   []string{"donate"},
		MinSize:          types.Size{Width: 300, Height: 200},
	}
}

// Manager owns the ordered window collection and the active window id.
// The slice order is the stacking order; the last window is topmost.
type Manager struct {
	mu        sync.RWMutex
	windows   []*types.Window     // Protected by mu
	activeID  *string             // Protected by mu
	restore   map[string]geometry // Protected by mu
	viewport  types.Viewport      // Protected by mu
	seq       uint64              // Protected by mu, bumped by every mutation
	listeners map[int]func(types.Snapshot)
	nextSub   int // Protected by mu

	registry   Registry
	cfg        Config
	fullscreen map[string]struct{}
	policy     *bluemonday.Policy
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// NewManager creates a window manager for one desktop
func NewManager(registry Registry, cfg Config, viewport types.Viewport) *Manager {
	fullscreen := make(map[string]struct{}, len(cfg.FullscreenApps))
	for _, id := range cfg.FullscreenApps {
		fullscreen[id] = struct{}{}
	}

	return &Manager{
		restore:    make(map[string]geometry),
		listeners:  make(map[int]func(types.Snapshot)),
		viewport:   viewport,
		registry:   registry,
		cfg:        cfg,
		fullscreen: fullscreen,
		policy:     bluemonday.StrictPolicy(),
		logger:     zap.NewNop(),
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

// Config returns the manager configuration
func (m *Manager) Config() Config {
	return m.cfg
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the mutating goroutine after the lock is released.
func (m *Manager) Subscribe(fn func(types.Snapshot)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// OpenApp opens a registry app or a dynamic window. An already-open window is
// un-minimized and focused with its geometry untouched. The resulting window
// is always focused.
func (m *Manager) OpenApp(target types.Target) (types.Window, error) {
	desc, custom, err := m.resolve(target)
	if err != nil {
		return types.Window{}, err
	}

	m.mu.Lock()
	win, created := m.openLocked(desc, custom)
	m.focusLocked(win.ID)
	result := win.Clone()
	m.seq++
	m.mu.Unlock()

	if created {
		m.logger.Debug("Window opened",
			zap.String("window_id", result.ID),
			zap.Bool("maximized", result.Maximized),
			zap.Int("x", result.Position.X),
			zap.Int("y", result.Position.Y),
		)
		if m.metrics != nil {
			m.metrics.RecordWindowOpened(string(result.Descriptor.Category))
		}
	}
	m.recordOp("open")
	m.notify()
	return result, nil
}

// resolve turns a target into a descriptor plus optional custom payload
func (m *Manager) resolve(target types.Target) (types.AppDescriptor, *types.CustomPayload, error) {
	if target.Spec != nil {
		if target.Spec.ID == "" {
			return types.AppDescriptor{}, nil, fmt.Errorf("%w: id is required", ErrInvalidSpec)
		}
		spec := *target.Spec
		spec.Title = m.policy.Sanitize(spec.Title)
		custom := &types.CustomPayload{
			Component: spec.Component,
			Props:     spec.Props,
		}
		return spec.Descriptor(), custom, nil
	}

	desc, ok := m.registry.Get(target.AppID)
	if !ok {
		return types.AppDescriptor{}, nil, fmt.Errorf("%w: %q", ErrUnknownApp, target.AppID)
	}
	return desc, nil, nil
}

// openLocked returns the window for desc, creating it if needed (must hold lock)
func (m *Manager) openLocked(desc types.AppDescriptor, custom *types.CustomPayload) (*types.Window, bool) {
	if _, win := m.findLocked(desc.ID); win != nil {
		win.Minimized = false
		return win, false
	}

	win := &types.Window{
		ID:         desc.ID,
		Descriptor: desc,
		Custom:     custom,
	}

	if m.shouldMaximizeLocked(desc.ID) {
		win.Position = types.Position{}
		win.Size = WorkArea(m.viewport, m.cfg.TaskbarHeight)
		win.Maximized = true
	} else {
		win.Position = StaggeredPosition(len(m.windows))
		win.Size = desc.DefaultSize
	}

	m.windows = append(m.windows, win)
	return win, true
}

func (m *Manager) shouldMaximizeLocked(id string) bool {
	if m.viewport.Width < m.cfg.MobileBreakpoint {
		return true
	}
	_, ok := m.fullscreen[id]
	return ok
}

// Close removes a window. Closing the active window leaves no active window.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	idx, _ := m.findLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}

	m.windows = slices.Delete(m.windows, idx, idx+1)
	delete(m.restore, id)
	if m.activeID != nil && *m.activeID == id {
		m.activeID = nil
	}
	m.seq++
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordWindowClosed()
	}
	m.recordOp("close")
	m.notify()
	return true
}

// ToggleMinimize flips the minimized flag. Restoring focuses the window;
// minimizing leaves the active id alone.
func (m *Manager) ToggleMinimize(id string) bool {
	m.mu.Lock()
	_, win := m.findLocked(id)
	if win == nil {
		m.mu.Unlock()
		return false
	}

	win.Minimized = !win.Minimized
	if !win.Minimized {
		m.setActiveLocked(id)
	}
	m.seq++
	m.mu.Unlock()

	m.recordOp("minimize")
	m.notify()
	return true
}

// Focus makes id the active window and moves it to the top of the stack
func (m *Manager) Focus(id string) bool {
	m.mu.Lock()
	ok := m.focusLocked(id)
	if ok {
		m.seq++
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	m.recordOp("focus")
	m.notify()
	return true
}

// focusLocked activates and raises a window (must hold lock)
func (m *Manager) focusLocked(id string) bool {
	idx, win := m.findLocked(id)
	if win == nil {
		return false
	}

	m.setActiveLocked(id)
	m.windows = append(slices.Delete(m.windows, idx, idx+1), win)
	return true
}

func (m *Manager) setActiveLocked(id string) {
	active := id
	m.activeID = &active
}

// ToggleMaximize maximizes a window to the work area, saving its geometry,
// or restores the saved geometry (current geometry when nothing was saved).
func (m *Manager) ToggleMaximize(id string) bool {
	m.mu.Lock()
	_, win := m.findLocked(id)
	if win == nil {
		m.mu.Unlock()
		return false
	}

	if win.Maximized {
		if saved, ok := m.restore[id]; ok {
			win.Position = saved.pos
			win.Size = saved.size
			delete(m.restore, id)
		}
		win.Maximized = false
	} else {
		m.restore[id] = geometry{pos: win.Position, size: win.Size}
		win.Position = types.Position{}
		win.Size = WorkArea(m.viewport, m.cfg.TaskbarHeight)
		win.Maximized = true
	}
	m.seq++
	m.mu.Unlock()

	m.recordOp("maximize")
	m.notify()
	return true
}

// Move writes a dragged position, clamped to the work area. Maximized
// windows do not move.
func (m *Manager) Move(id string, pos types.Position) (types.Position, bool) {
	m.mu.Lock()
	_, win := m.findLocked(id)
	if win == nil || win.Maximized {
		m.mu.Unlock()
		return types.Position{}, false
	}

	win.Position = ClampPosition(pos, win.Size, m.viewport, m.cfg.TaskbarHeight)
	result := win.Position
	m.seq++
	m.mu.Unlock()

	m.notify()
	return result, true
}

// Resize writes a new size unless it falls below the minimum size, in which
// case the last accepted size is kept and false is returned.
func (m *Manager) Resize(id string, size types.Size) (types.Size, bool) {
	m.mu.Lock()
	_, win := m.findLocked(id)
	if win == nil || win.Maximized {
		m.mu.Unlock()
		return types.Size{}, false
	}

	if !MeetsFloor(size, m.cfg.MinSize) {
		current := win.Size
		m.mu.Unlock()
		return current, false
	}

	win.Size = size
	m.seq++
	m.mu.Unlock()

	m.notify()
	return size, true
}

// SetViewport records the browser viewport. Open windows are not re-clamped.
func (m *Manager) SetViewport(vp types.Viewport) {
	m.mu.Lock()
	m.viewport = vp
	m.seq++
	m.mu.Unlock()
	m.notify()
}

// Viewport returns the last reported viewport
func (m *Manager) Viewport() types.Viewport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewport
}

// Get retrieves a copy of a window by id
func (m *Manager) Get(id string) (types.Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, win := m.findLocked(id)
	if win == nil {
		return types.Window{}, false
	}
	return win.Clone(), true
}

// ActiveID returns the active window id, or "" when none
func (m *Manager) ActiveID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.activeID == nil {
		return ""
	}
	return *m.activeID
}

// Snapshot returns a deep copy of the window collection in stacking order
func (m *Manager) Snapshot() types.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() types.Snapshot {
	windows := make([]types.Window, len(m.windows))
	for i, w := range m.windows {
		windows[i] = w.Clone()
	}

	var active *string
	if m.activeID != nil {
		id := *m.activeID
		active = &id
	}

	return types.Snapshot{
		Windows:  windows,
		ActiveID: active,
		Viewport: m.viewport,
		Seq:      m.seq,
	}
}

// Stats returns manager statistics
func (m *Manager) Stats() types.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := types.Stats{TotalWindows: len(m.windows)}
	for _, w := range m.windows {
		switch {
		case w.Minimized:
			stats.MinimizedWindows++
		default:
			stats.VisibleWindows++
		}
		if w.Maximized {
			stats.MaximizedWindows++
		}
	}
	if m.activeID != nil {
		id := *m.activeID
		stats.ActiveWindowID = &id
	}
	return stats
}

// findLocked returns the index and pointer of a window (must hold lock)
func (m *Manager) findLocked(id string) (int, *types.Window) {
	for i, w := range m.windows {
		if w.ID == id {
			return i, w
		}
	}
	return -1, nil
}

// notify publishes a snapshot to subscribers (must not hold lock). Two
// mutators may deliver out of order; Seq lets subscribers drop the older one.
func (m *Manager) notify() {
	m.mu.RLock()
	if len(m.listeners) == 0 {
		m.mu.RUnlock()
		return
	}
	snap := m.snapshotLocked()
	fns := make([]func(types.Snapshot), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (m *Manager) recordOp(op string) {
	if m.metrics != nil {
		m.metrics.RecordWindowOp(op)
	}
}
