package types

// CustomPayload carries the component and props of a window that was not
// opened from the registry.
type CustomPayload struct {
	Component Handle                 `json:"component"`
	Props     map[string]interface{} `json:"props,omitempty"`
}

// Window represents one open window instance
type Window struct {
	ID         string         `json:"id"`
	Descriptor AppDescriptor  `json:"descriptor"`
	Position   Position       `json:"position"`
	Size       Size           `json:"size"`
	Minimized  bool           `json:"minimized"`
	Maximized  bool           `json:"maximized"`
	Custom     *CustomPayload `json:"custom,omitempty"`
}

// Clone returns a deep copy of the window
func (w *Window) Clone() Window {
	c := *w
	if w.Custom != nil {
		custom := *w.Custom
		if w.Custom.Props != nil {
			custom.Props = make(map[string]interface{}, len(w.Custom.Props))
			for k, v := range w.Custom.Props {
				custom.Props[k] = v
			}
		}
		c.Custom = &custom
	}
	return c
}

// Snapshot is a read-only copy of a desktop's windows. Windows are in
// stacking order, last is topmost. Seq grows with every mutation of the
// desktop it was taken from.
type Snapshot struct {
	Windows  []Window `json:"windows"`
	ActiveID *string  `json:"active_id"`
	Viewport Viewport `json:"viewport"`
	Seq      uint64   `json:"seq"`
}

// Find returns the window with the given id
func (s Snapshot) Find(id string) (Window, bool) {
	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return Window{}, false
}

// IsActive reports whether id is the active window
func (s Snapshot) IsActive(id string) bool {
	return s.ActiveID != nil && *s.ActiveID == id
}

// Topmost returns the last window in stacking order
func (s Snapshot) Topmost() (Window, bool) {
	if len(s.Windows) == 0 {
		return Window{}, false
	}
	return s.Windows[len(s.Windows)-1], true
}

// Stats contains window manager statistics
type Stats struct {
	TotalWindows     int     `json:"total_windows"`
	VisibleWindows   int     `json:"visible_windows"`
	MinimizedWindows int     `json:"minimized_windows"`
	MaximizedWindows int     `json:"maximized_windows"`
	ActiveWindowID   *string `json:"active_window_id,omitempty"`
}
