package frame

import "github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"

// Host is what a hosted leaf app may do: open another app or close its own
// window. The window manager knows nothing else about a leaf.
type Host interface {
	OpenApp(target types.Target) (types.Window, error)
	Close() bool
	WindowID() string
}

type host struct {
	controller *Controller
	windowID   string
}

func (h *host) OpenApp(target types.Target) (types.Window, error) {
	return h.controller.Open(target)
}

func (h *host) Close() bool {
	return h.controller.Close(h.windowID)
}

func (h *host) WindowID() string {
	return h.windowID
}
