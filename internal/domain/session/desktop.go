package session

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/frame"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

// ErrNotBooted is returned for desktop operations before the boot gate opens
var ErrNotBooted = errors.New("session has not finished booting")

// EventType identifies a desktop event
type EventType string

const (
	EventState    EventType = "state"
	EventSnapshot EventType = "snapshot"
	EventExternal EventType = "external_open"
)

// Event is published to desktop subscribers
type Event struct {
	Type     EventType            `json:"type"`
	State    types.SessionState   `json:"state,omitempty"`
	Snapshot *types.Snapshot      `json:"snapshot,omitempty"`
	External *types.AppDescriptor `json:"external,omitempty"`
}

// Desktop is one browser tab's session: the boot gate plus the window
// manager and frame controller that exist once the gate opens.
type Desktop struct {
	id        string
	createdAt time.Time
	gate      *Gate

	mu        sync.RWMutex
	viewport  types.Viewport    // Protected by mu
	lastSeen  time.Time         // Protected by mu
	windows   *window.Manager   // Protected by mu, nil while booting
	frames    *frame.Controller // Protected by mu, nil while booting
	listeners map[int]func(Event)
	nextSub   int

	snapMu  sync.Mutex
	lastSeq uint64 // Protected by snapMu

	done      chan struct{}
	closeOnce sync.Once

	registry window.Registry
	cfg      Config
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

func newDesktop(sessionID string, registry window.Registry, cfg Config, vp types.Viewport, metrics *monitoring.Metrics, logger *zap.Logger) *Desktop {
	now := time.Now()
	return &Desktop{
		id:        sessionID,
		createdAt: now,
		gate:      NewGate(),
		viewport:  vp,
		lastSeen:  now,
		listeners: make(map[int]func(Event)),
		done:      make(chan struct{}),
		registry:  registry,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger.With(zap.String("session_id", sessionID)),
	}
}

// ID returns the session id
func (d *Desktop) ID() string {
	return d.id
}

// State returns the boot gate state
func (d *Desktop) State() types.SessionState {
	return d.gate.State()
}

// IsDesktop reports whether the boot gate has opened
func (d *Desktop) IsDesktop() bool {
	return d.gate.IsDesktop()
}

// CompleteBoot opens the boot gate and mounts the window manager. Only the
// first call has any effect; it reports whether this call did the transition.
func (d *Desktop) CompleteBoot() bool {
	d.mu.Lock()
	if d.isClosed() || !d.gate.Complete() {
		d.mu.Unlock()
		return false
	}

	windows := window.NewManager(d.registry, d.cfg.Window, d.viewport).
		WithMetrics(d.metrics).
		WithLogger(d.logger)
	frames := frame.NewController(windows, frame.ExternalOpenerFunc(d.publishExternal)).
		WithCloseDelay(d.cfg.ExternalCloseDelay).
		WithMetrics(d.metrics).
		WithLogger(d.logger)
	if d.cfg.afterFunc != nil {
		frames.WithAfterFunc(d.cfg.afterFunc)
	}
	windows.Subscribe(d.publishSnapshot)

	d.windows = windows
	d.frames = frames
	d.mu.Unlock()

	d.logger.Info("Desktop booted")
	if d.metrics != nil {
		d.metrics.IncSessionsBooted()
	}
	d.publish(Event{Type: EventState, State: types.SessionDesktop})
	return true
}

// Windows returns the window manager, or ErrNotBooted. A deleted session
// returns ErrSessionNotFound.
func (d *Desktop) Windows() (*window.Manager, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.isClosed() {
		return nil, ErrSessionNotFound
	}
	if d.windows == nil {
		return nil, ErrNotBooted
	}
	return d.windows, nil
}

// Frames returns the frame controller, or ErrNotBooted
func (d *Desktop) Frames() (*frame.Controller, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.isClosed() {
		return nil, ErrSessionNotFound
	}
	if d.frames == nil {
		return nil, ErrNotBooted
	}
	return d.frames, nil
}

// Snapshot returns the current window snapshot, or ErrNotBooted
func (d *Desktop) Snapshot() (types.Snapshot, error) {
	windows, err := d.Windows()
	if err != nil {
		return types.Snapshot{}, err
	}
	return windows.Snapshot(), nil
}

// SetViewport records the viewport signal. It is accepted while booting so
// the first windows open at the right size.
func (d *Desktop) SetViewport(vp types.Viewport) {
	d.mu.Lock()
	d.viewport = vp
	windows := d.windows
	d.mu.Unlock()

	if windows != nil {
		windows.SetViewport(vp)
	}
}

// Viewport returns the last reported viewport
func (d *Desktop) Viewport() types.Viewport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.viewport
}

// Touch marks the session as used
func (d *Desktop) Touch() {
	d.mu.Lock()
	d.lastSeen = time.Now()
	d.mu.Unlock()
}

// LastSeen returns when the session was last used
func (d *Desktop) LastSeen() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastSeen
}

// Info describes the session for API responses
func (d *Desktop) Info() types.SessionInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return types.SessionInfo{
		ID:        d.id,
		State:     d.gate.State(),
		CreatedAt: d.createdAt,
		BootedAt:  d.gate.BootedAt(),
		LastSeen:  d.lastSeen,
		Viewport:  d.viewport,
	}
}

// Subscribe registers fn for desktop events. fn must not block.
func (d *Desktop) Subscribe(fn func(Event)) (unsubscribe func()) {
	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.listeners[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// Subscribers returns the number of live subscribers
func (d *Desktop) Subscribers() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners)
}

// Done is closed once the session has been deleted
func (d *Desktop) Done() <-chan struct{} {
	return d.done
}

func (d *Desktop) isClosed() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// publishSnapshot forwards snapshots in Seq order, dropping any that arrive
// after a newer one was already delivered
func (d *Desktop) publishSnapshot(s types.Snapshot) {
	d.snapMu.Lock()
	defer d.snapMu.Unlock()

	if s.Seq <= d.lastSeq {
		return
	}
	d.lastSeq = s.Seq
	d.publish(Event{Type: EventSnapshot, Snapshot: &s})
}

func (d *Desktop) publishExternal(desc types.AppDescriptor) {
	d.publish(Event{Type: EventExternal, External: &desc})
}

func (d *Desktop) publish(e Event) {
	d.mu.RLock()
	fns := make([]func(Event), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

// close stops pending timers, drops subscribers and closes Done
func (d *Desktop) close() {
	d.closeOnce.Do(func() { close(d.done) })

	d.mu.Lock()
	frames := d.frames
	windows := d.windows
	d.listeners = make(map[int]func(Event))
	d.mu.Unlock()

	if frames != nil {
		frames.Shutdown()
	}
	if windows != nil && d.metrics != nil {
		d.metrics.RecordWindowsDiscarded(windows.Stats().TotalWindows)
	}
}
