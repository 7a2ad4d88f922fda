package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/frame"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

var desktopViewport = types.Viewport{Width: 1280, Height: 800}

type manualTimer struct{ stopped bool }

func (t *manualTimer) Stop() bool { t.stopped = true; return true }

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	reg := registry.NewManager()
	require.NoError(t, registry.NewSeeder(reg, nil).SeedDefaults())
	return NewManager(reg, cfg)
}

func TestGateOneShot(t *testing.T) {
	g := NewGate()
	assert.Equal(t, types.SessionBooting, g.State())
	assert.False(t, g.IsDesktop())
	assert.Nil(t, g.BootedAt())

	assert.True(t, g.Complete())
	assert.True(t, g.IsDesktop())
	require.NotNil(t, g.BootedAt())

	booted := *g.BootedAt()
	assert.False(t, g.Complete())
	assert.Equal(t, types.SessionDesktop, g.State())
	assert.Equal(t, booted, *g.BootedAt())
}

func TestGateConcurrentComplete(t *testing.T) {
	g := NewGate()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Complete() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestDesktopNotBooted(t *testing.T) {
	m := newTestManager(t, DefaultConfig())
	d := m.Create(desktopViewport)

	assert.Equal(t, types.SessionBooting, d.State())

	_, err := d.Windows()
	assert.True(t, errors.Is(err, ErrNotBooted))
	_, err = d.Frames()
	assert.True(t, errors.Is(err, ErrNotBooted))
	_, err = d.Snapshot()
	assert.True(t, errors.Is(err, ErrNotBooted))
}

func TestDesktopBoot(t *testing.T) {
	m := newTestManager(t, DefaultConfig())
	d := m.Create(desktopViewport)

	var events []Event
	d.Subscribe(func(e Event) { events = append(events, e) })

	require.True(t, d.CompleteBoot())
	assert.False(t, d.CompleteBoot())
	assert.True(t, d.IsDesktop())

	require.Len(t, events, 1)
	assert.Equal(t, EventState, events[0].Type)
	assert.Equal(t, types.SessionDesktop, events[0].State)

	windows, err := d.Windows()
	require.NoError(t, err)
	assert.Equal(t, desktopViewport, windows.Viewport())

	snap, err := d.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Windows)
}

func TestViewportBeforeBoot(t *testing.T) {
	m := newTestManager(t, DefaultConfig())
	d := m.Create(desktopViewport)

	d.SetViewport(types.Viewport{Width: 390, Height: 844})
	require.True(t, d.CompleteBoot())

	frames, err := d.Frames()
	require.NoError(t, err)
	w, err := frames.Open(types.AppTarget("terminal"))
	require.NoError(t, err)
	assert.True(t, w.Maximized)
	assert.Equal(t, types.Size{Width: 390, Height: 796}, w.Size)
}

func TestDesktopPublishesSnapshots(t *testing.T) {
	m := newTestManager(t, DefaultConfig())
	d := m.Create(desktopViewport)
	require.True(t, d.CompleteBoot())

	var snaps []types.Snapshot
	unsubscribe := d.Subscribe(func(e Event) {
		if e.Type == EventSnapshot {
			snaps = append(snaps, *e.Snapshot)
		}
	})

	frames, _ := d.Frames()
	_, err := frames.Open(types.AppTarget("notepad"))
	require.NoError(t, err)
	frames.Windows().Focus("notepad")

	require.Len(t, snaps, 2)
	assert.True(t, snaps[1].IsActive("notepad"))

	unsubscribe()
	frames.Close("notepad")
	assert.Len(t, snaps, 2)
}

func TestDesktopExternalEvents(t *testing.T) {
	var timers []func()
	cfg := DefaultConfig()
	cfg.afterFunc = func(_ time.Duration, f func()) frame.Timer {
		timers = append(timers, f)
		return &manualTimer{}
	}

	m := newTestManager(t, cfg)
	d := m.Create(desktopViewport)
	require.True(t, d.CompleteBoot())

	var external []string
	var last types.Snapshot
	d.Subscribe(func(e Event) {
		switch e.Type {
		case EventExternal:
			external = append(external, e.External.URL)
		case EventSnapshot:
			last = *e.Snapshot
		}
	})

	frames, _ := d.Frames()
	_, err := frames.Open(types.AppTarget("github"))
	require.NoError(t, err)

	require.Len(t, external, 1)
	assert.Contains(t, external[0], "github.com")
	assert.Len(t, last.Windows, 1)

	require.Len(t, timers, 1)
	timers[0]()
	assert.Empty(t, last.Windows)
}

func TestManagerCreateGetDelete(t *testing.T) {
	metrics := monitoring.NewMetrics()
	m := newTestManager(t, DefaultConfig()).WithMetrics(metrics)

	d := m.Create(desktopViewport)
	assert.True(t, id.HasPrefix(d.ID(), id.SessionPrefix))
	assert.NotNil(t, m.LastCreated())

	got, err := m.Get(d.ID())
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, err = m.Get("sess_missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	assert.Equal(t, int64(1), metrics.Snapshot().ActiveSessions)
	assert.True(t, m.Delete(d.ID()))
	assert.False(t, m.Delete(d.ID()))
	assert.Equal(t, int64(0), metrics.Snapshot().ActiveSessions)
	assert.Equal(t, 0, m.Len())
}

func TestManagerDeleteDiscardsWindows(t *testing.T) {
	metrics := monitoring.NewMetrics()
	m := newTestManager(t, DefaultConfig()).WithMetrics(metrics)

	d := m.Create(desktopViewport)
	require.True(t, d.CompleteBoot())
	frames, _ := d.Frames()
	_, err := frames.Open(types.AppTarget("notepad"))
	require.NoError(t, err)
	_, err = frames.Open(types.AppTarget("terminal"))
	require.NoError(t, err)
	require.Equal(t, int64(2), metrics.Snapshot().OpenWindows)

	m.Delete(d.ID())
	assert.Equal(t, int64(0), metrics.Snapshot().OpenWindows)
}

func TestManagerStatsAndList(t *testing.T) {
	m := newTestManager(t, DefaultConfig())

	first := m.Create(desktopViewport)
	time.Sleep(time.Millisecond)
	second := m.Create(desktopViewport)
	second.CompleteBoot()

	stats := m.Stats()
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 1, stats.BootingSessions)
	assert.Equal(t, 1, stats.DesktopSessions)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID(), list[0].ID)
	assert.Equal(t, types.SessionDesktop, list[1].State)
	assert.NotNil(t, list[1].BootedAt)
}

func TestReap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IdleTTL = time.Minute
	m := newTestManager(t, cfg)

	idle := m.Create(desktopViewport)
	fresh := m.Create(desktopViewport)

	reaped := m.Reap(time.Now().Add(30 * time.Second))
	assert.Equal(t, 0, reaped)

	// Touch the fresh session well into the future window
	later := time.Now().Add(2 * time.Minute)
	fresh.mu.Lock()
	fresh.lastSeen = later
	fresh.mu.Unlock()

	reaped = m.Reap(later.Add(time.Second))
	assert.Equal(t, 1, reaped)

	_, err := m.Get(idle.ID())
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	_, err = m.Get(fresh.ID())
	assert.NoError(t, err)
}

func TestReapDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IdleTTL = 0
	m := newTestManager(t, cfg)
	m.Create(desktopViewport)

	assert.Equal(t, 0, m.Reap(time.Now().Add(24*time.Hour)))
	assert.Equal(t, 1, m.Len())
}

func TestShutdown(t *testing.T) {
	m := newTestManager(t, DefaultConfig())
	m.Create(desktopViewport)
	m.Create(desktopViewport)

	m.Shutdown()
	assert.Equal(t, 0, m.Len())
}

func TestDeleteClosesDesktop(t *testing.T) {
	m := newTestManager(t, DefaultConfig())
	d := m.Create(desktopViewport)
	require.True(t, d.CompleteBoot())

	var events int
	d.Subscribe(func(Event) { events++ })

	select {
	case <-d.Done():
		t.Fatal("Done closed before delete")
	default:
	}

	require.True(t, m.Delete(d.ID()))

	select {
	case <-d.Done():
	default:
		t.Fatal("Done not closed after delete")
	}
	assert.Equal(t, 0, d.Subscribers())

	_, err := d.Frames()
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	_, err = d.Windows()
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.Equal(t, 0, events)
}

func TestDeletedDesktopDoesNotBoot(t *testing.T) {
	m := newTestManager(t, DefaultConfig())
	d := m.Create(desktopViewport)

	require.True(t, m.Delete(d.ID()))
	assert.False(t, d.CompleteBoot())
	assert.Equal(t, types.SessionBooting, d.State())
}

func TestReapSkipsSubscribedSession(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IdleTTL = time.Minute
	m := newTestManager(t, cfg)

	streaming := m.Create(desktopViewport)
	unsubscribe := streaming.Subscribe(func(Event) {})
	m.Create(desktopViewport)

	later := time.Now().Add(time.Hour)
	assert.Equal(t, 1, m.Reap(later))
	_, err := m.Get(streaming.ID())
	require.NoError(t, err)

	unsubscribe()
	assert.Equal(t, 1, m.Reap(later.Add(time.Hour)))
	assert.Equal(t, 0, m.Len())
}

func TestStaleSnapshotDropped(t *testing.T) {
	m := newTestManager(t, DefaultConfig())
	d := m.Create(desktopViewport)

	var seqs []uint64
	d.Subscribe(func(e Event) {
		if e.Type == EventSnapshot {
			seqs = append(seqs, e.Snapshot.Seq)
		}
	})

	d.publishSnapshot(types.Snapshot{Seq: 2})
	d.publishSnapshot(types.Snapshot{Seq: 1})
	d.publishSnapshot(types.Snapshot{Seq: 2})
	d.publishSnapshot(types.Snapshot{Seq: 3})

	assert.Equal(t, []uint64{2, 3}, seqs)
}
