package frame

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

type fakeTimer struct {
	fn      func()
	delay   time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fn: f, delay: d}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every timer that was not stopped
func (c *fakeClock) fire() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()

	for _, t := range timers {
		if !t.stopped {
			t.fn()
		}
	}
}

type recorder struct {
	mu     sync.Mutex
	opened []types.AppDescriptor
}

func (r *recorder) OpenExternal(desc types.AppDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, desc)
}

func newTestController(t *testing.T) (*Controller, *fakeClock, *recorder) {
	t.Helper()
	reg := registry.NewManager()
	require.NoError(t, registry.NewSeeder(reg, nil).SeedDefaults())

	wm := window.NewManager(reg, window.DefaultConfig(), types.Viewport{Width: 1280, Height: 800})
	clock := &fakeClock{}
	rec := &recorder{}
	c := NewController(wm, rec).WithAfterFunc(clock.AfterFunc)
	return c, clock, rec
}

func openApp(t *testing.T, c *Controller, id string) types.Window {
	t.Helper()
	w, err := c.Open(types.AppTarget(id))
	require.NoError(t, err)
	return w
}

func TestDragKeepsOffset(t *testing.T) {
	c, _, _ := newTestController(t)
	openApp(t, c, "terminal") // 700x450 at (100,50)

	require.True(t, c.BeginDrag("terminal", types.Position{X: 120, Y: 60}))
	g, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, KindDrag, g.Kind)
	assert.Equal(t, types.Position{X: 20, Y: 10}, g.Offset)

	w, ok := c.Move(types.Position{X: 320, Y: 210})
	require.True(t, ok)
	assert.Equal(t, types.Position{X: 300, Y: 200}, w.Position)

	assert.True(t, c.End())
	_, ok = c.Active()
	assert.False(t, ok)

	// Moves after pointer-up are ignored
	_, ok = c.Move(types.Position{X: 500, Y: 500})
	assert.False(t, ok)
	w, _ = c.Windows().Get("terminal")
	assert.Equal(t, types.Position{X: 300, Y: 200}, w.Position)
}

func TestDragClampsToOrigin(t *testing.T) {
	c, _, _ := newTestController(t)
	openApp(t, c, "notepad")
	_, ok := c.Windows().Resize("notepad", types.Size{Width: 400, Height: 300})
	require.True(t, ok)
	_, ok = c.Windows().Move("notepad", types.Position{X: 0, Y: 0})
	require.True(t, ok)

	require.True(t, c.BeginDrag("notepad", types.Position{X: 0, Y: 0}))
	w, ok := c.Move(types.Position{X: -50, Y: -50})
	require.True(t, ok)
	assert.Equal(t, types.Position{X: 0, Y: 0}, w.Position)
}

func TestResizeFollowsPointer(t *testing.T) {
	c, _, _ := newTestController(t)
	openApp(t, c, "notepad") // at (100,50)

	require.True(t, c.BeginResize("notepad"))

	w, ok := c.Move(types.Position{X: 600, Y: 450})
	require.True(t, ok)
	assert.Equal(t, types.Size{Width: 500, Height: 400}, w.Size)

	// Below the floor: rejected, last size kept
	_, ok = c.Move(types.Position{X: 350, Y: 200})
	assert.False(t, ok)
	w, _ = c.Windows().Get("notepad")
	assert.Equal(t, types.Size{Width: 500, Height: 400}, w.Size)

	c.End()
}

func TestMaximizedWindowIgnoresGestures(t *testing.T) {
	c, _, _ := newTestController(t)
	openApp(t, c, "notepad")
	require.True(t, c.ToggleMaximize("notepad"))

	assert.False(t, c.BeginDrag("notepad", types.Position{X: 10, Y: 10}))
	assert.False(t, c.BeginResize("notepad"))
	assert.False(t, c.BeginDrag("ghost", types.Position{}))
}

func TestToggleMaximizeFocuses(t *testing.T) {
	c, _, _ := newTestController(t)
	openApp(t, c, "notepad")
	openApp(t, c, "calculator")

	require.True(t, c.ToggleMaximize("notepad"))

	snap := c.Windows().Snapshot()
	assert.True(t, snap.IsActive("notepad"))
	top, _ := snap.Topmost()
	assert.Equal(t, "notepad", top.ID)
	assert.True(t, top.Maximized)

	assert.False(t, c.ToggleMaximize("ghost"))
}

func TestNewGestureReplacesOld(t *testing.T) {
	c, _, _ := newTestController(t)
	openApp(t, c, "notepad")
	openApp(t, c, "calculator")

	require.True(t, c.BeginDrag("notepad", types.Position{X: 100, Y: 50}))
	require.True(t, c.BeginResize("calculator"))

	g, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, KindResize, g.Kind)
	assert.Equal(t, "calculator", g.WindowID)
}

func TestCloseCancelsGesture(t *testing.T) {
	c, _, _ := newTestController(t)
	openApp(t, c, "notepad")
	require.True(t, c.BeginDrag("notepad", types.Position{X: 100, Y: 50}))

	assert.True(t, c.Close("notepad"))
	_, ok := c.Active()
	assert.False(t, ok)
	assert.False(t, c.End())
}

func TestExternalAutoClose(t *testing.T) {
	c, clock, rec := newTestController(t)

	w := openApp(t, c, "github")
	assert.True(t, w.Descriptor.IsExternal)
	require.Len(t, rec.opened, 1)
	assert.Equal(t, "github", rec.opened[0].ID)
	require.Len(t, clock.timers, 1)
	assert.Equal(t, DefaultExternalCloseDelay, clock.timers[0].delay)

	// Reopening while mounted does not trigger the opener again
	openApp(t, c, "github")
	assert.Len(t, rec.opened, 1)

	_, ok := c.Windows().Get("github")
	require.True(t, ok)

	clock.fire()

	_, ok = c.Windows().Get("github")
	assert.False(t, ok)
	assert.Empty(t, c.Windows().Snapshot().Windows)
}

func TestExternalCanReopenAfterClose(t *testing.T) {
	c, clock, rec := newTestController(t)

	openApp(t, c, "telegram")
	clock.fire()
	openApp(t, c, "telegram")

	assert.Len(t, rec.opened, 2)
}

func TestManualCloseCancelsAutoClose(t *testing.T) {
	c, clock, _ := newTestController(t)

	openApp(t, c, "github")
	require.True(t, c.Close("github"))
	require.Len(t, clock.timers, 1)
	assert.True(t, clock.timers[0].stopped)

	// A second external window opened later keeps its own timer
	openApp(t, c, "github")
	clock.fire()
	_, ok := c.Windows().Get("github")
	assert.False(t, ok)
}

func TestNonExternalNotScheduled(t *testing.T) {
	c, clock, rec := newTestController(t)
	openApp(t, c, "notepad")

	assert.Empty(t, clock.timers)
	assert.Empty(t, rec.opened)
}

func TestRealTimerCloses(t *testing.T) {
	reg := registry.NewManager()
	require.NoError(t, registry.NewSeeder(reg, nil).SeedDefaults())
	wm := window.NewManager(reg, window.DefaultConfig(), types.Viewport{Width: 1280, Height: 800})

	closed := make(chan struct{})
	wm.Subscribe(func(s types.Snapshot) {
		if len(s.Windows) == 0 {
			select {
			case closed <- struct{}{}:
			default:
			}
		}
	})

	c := NewController(wm, nil).WithCloseDelay(5 * time.Millisecond)
	_, err := c.Open(types.AppTarget("akadiledu"))
	require.NoError(t, err)

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("external window was not closed")
	}
}

func TestHost(t *testing.T) {
	c, _, _ := newTestController(t)
	openApp(t, c, "browser")

	h := c.Host("browser")
	assert.Equal(t, "browser", h.WindowID())

	w, err := h.OpenApp(types.AppTarget("notepad"))
	require.NoError(t, err)
	assert.Equal(t, "notepad", w.ID)
	assert.Equal(t, "notepad", c.Windows().ActiveID())

	assert.True(t, h.Close())
	_, ok := c.Windows().Get("browser")
	assert.False(t, ok)
	assert.False(t, h.Close())
}

func TestShutdownStopsTimers(t *testing.T) {
	c, clock, _ := newTestController(t)
	openApp(t, c, "github")

	c.Shutdown()
	clock.fire()

	_, ok := c.Windows().Get("github")
	assert.True(t, ok)
}
