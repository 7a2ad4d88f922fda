package frame

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

// DefaultExternalCloseDelay is how long an external passthrough window stays
// mounted before it closes itself
const DefaultExternalCloseDelay = 100 * time.Millisecond

// ExternalOpener drives the side effect of an external passthrough window,
// such as asking the browser to open its URL
type ExternalOpener interface {
	OpenExternal(desc types.AppDescriptor)
}

// ExternalOpenerFunc adapts a function to ExternalOpener
type ExternalOpenerFunc func(desc types.AppDescriptor)

// OpenExternal calls f(desc)
func (f ExternalOpenerFunc) OpenExternal(desc types.AppDescriptor) { f(desc) }

// Timer is a pending scheduled call
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. It matches time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Controller runs the pointer gesture protocol for the windows of one
// desktop. Only one gesture is in flight at a time.
type Controller struct {
	mu      sync.Mutex
	gesture *Gesture         // Protected by mu
	pending map[string]Timer // Protected by mu

	windows   *window.Manager
	opener    ExternalOpener
	delay     time.Duration
	afterFunc AfterFunc
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// NewController creates a frame controller over a window manager. A nil
// opener mounts external windows without any side effect.
func NewController(windows *window.Manager, opener ExternalOpener) *Controller {
	if opener == nil {
		opener = ExternalOpenerFunc(func(types.AppDescriptor) {})
	}
	return &Controller{
		pending:   make(map[string]Timer),
		windows:   windows,
		opener:    opener,
		delay:     DefaultExternalCloseDelay,
		afterFunc: realAfterFunc,
		logger:    zap.NewNop(),
	}
}

// WithCloseDelay overrides the external auto-close delay
func (c *Controller) WithCloseDelay(d time.Duration) *Controller {
	c.delay = d
	return c
}

// WithAfterFunc replaces the scheduler used for external auto-close
func (c *Controller) WithAfterFunc(fn AfterFunc) *Controller {
	c.afterFunc = fn
	return c
}

// WithMetrics adds metrics tracking to the controller
func (c *Controller) WithMetrics(metrics *monitoring.Metrics) *Controller {
	c.metrics = metrics
	return c
}

// WithLogger sets the controller's logger
func (c *Controller) WithLogger(logger *zap.Logger) *Controller {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Windows returns the window manager the controller drives
func (c *Controller) Windows() *window.Manager {
	return c.windows
}

// Open opens a target through the window manager and mounts the result
func (c *Controller) Open(target types.Target) (types.Window, error) {
	w, err := c.windows.OpenApp(target)
	if err != nil {
		return types.Window{}, err
	}
	c.Mount(w)
	return w, nil
}

// Mount runs the mount-time behavior of a frame. External passthrough
// windows trigger the opener once and close themselves after the delay.
// Mounting a window that is already pending close does nothing.
func (c *Controller) Mount(w types.Window) {
	if !w.Descriptor.IsExternal {
		return
	}

	c.mu.Lock()
	if _, ok := c.pending[w.ID]; ok {
		c.mu.Unlock()
		return
	}
	id := w.ID
	var timer Timer
	timer = c.afterFunc(c.delay, func() { c.expire(id, timer) })
	c.pending[id] = timer
	c.mu.Unlock()

	c.logger.Debug("External window mounted",
		zap.String("window_id", id),
		zap.String("url", w.Descriptor.URL),
	)
	if c.metrics != nil {
		c.metrics.IncExternalOpens()
	}
	c.opener.OpenExternal(w.Descriptor)
}

// expire closes an external window if its timer is still the pending one
func (c *Controller) expire(id string, timer Timer) {
	c.mu.Lock()
	current, ok := c.pending[id]
	if !ok || current != timer {
		c.mu.Unlock()
		return
	}
	delete(c.pending, id)
	c.mu.Unlock()

	c.windows.Close(id)
}

// Close closes a window, cancelling its pending auto-close and any gesture on it
func (c *Controller) Close(id string) bool {
	c.mu.Lock()
	if timer, ok := c.pending[id]; ok {
		timer.Stop()
		delete(c.pending, id)
	}
	if c.gesture != nil && c.gesture.WindowID == id {
		c.gesture = nil
	}
	c.mu.Unlock()

	return c.windows.Close(id)
}

// ToggleMaximize toggles maximize from the title bar or control button and
// focuses the window
func (c *Controller) ToggleMaximize(id string) bool {
	c.mu.Lock()
	if c.gesture != nil && c.gesture.WindowID == id {
		c.gesture = nil
	}
	c.mu.Unlock()

	if !c.windows.ToggleMaximize(id) {
		return false
	}
	c.windows.Focus(id)
	return true
}

// BeginDrag starts a title-bar drag. The pointer's offset from the window
// position is kept for the rest of the gesture. Maximized windows do not drag.
func (c *Controller) BeginDrag(id string, pointer types.Position) bool {
	w, ok := c.windows.Get(id)
	if !ok || w.Maximized {
		return false
	}

	c.begin(&Gesture{
		Kind:     KindDrag,
		WindowID: id,
		Offset: types.Position{
			X: pointer.X - w.Position.X,
			Y: pointer.Y - w.Position.Y,
		},
	})
	return true
}

// BeginResize starts a bottom-right corner resize. Maximized windows do not
// resize.
func (c *Controller) BeginResize(id string) bool {
	w, ok := c.windows.Get(id)
	if !ok || w.Maximized {
		return false
	}

	c.begin(&Gesture{Kind: KindResize, WindowID: id})
	return true
}

// begin replaces any gesture in flight
func (c *Controller) begin(g *Gesture) {
	c.mu.Lock()
	c.gesture = g
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RecordGesture(string(g.Kind))
	}
}

// Move applies a pointer move to the gesture in flight and returns the
// resulting window. It reports false when no gesture is active or the update
// was rejected.
func (c *Controller) Move(pointer types.Position) (types.Window, bool) {
	g, ok := c.Active()
	if !ok {
		return types.Window{}, false
	}

	switch g.Kind {
	case KindDrag:
		next := types.Position{X: pointer.X - g.Offset.X, Y: pointer.Y - g.Offset.Y}
		if _, ok := c.windows.Move(g.WindowID, next); !ok {
			return types.Window{}, false
		}
	case KindResize:
		w, ok := c.windows.Get(g.WindowID)
		if !ok {
			return types.Window{}, false
		}
		size := types.Size{
			Width:  pointer.X - w.Position.X,
			Height: pointer.Y - w.Position.Y,
		}
		if _, ok := c.windows.Resize(g.WindowID, size); !ok {
			return types.Window{}, false
		}
	}

	return c.windows.Get(g.WindowID)
}

// End finishes the gesture in flight. The last applied geometry stays.
func (c *Controller) End() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gesture == nil {
		return false
	}
	c.gesture = nil
	return true
}

// Active returns a copy of the gesture in flight
func (c *Controller) Active() (Gesture, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gesture == nil {
		return Gesture{}, false
	}
	return *c.gesture, true
}

// Host returns the leaf contract bound to window id
func (c *Controller) Host(id string) Host {
	return &host{controller: c, windowID: id}
}

// Shutdown cancels every pending auto-close
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, timer := range c.pending {
		timer.Stop()
		delete(c.pending, id)
	}
	c.gesture = nil
}
