package types

// CreateSessionRequest starts a desktop session for a browser tab
type CreateSessionRequest struct {
	Viewport Viewport `json:"viewport"`
}

// ViewportRequest reports the current browser viewport
type ViewportRequest struct {
	Width  int `json:"width" binding:"required,min=1"`
	Height int `json:"height" binding:"required,min=1"`
}

// OpenRequest opens a registry app or a dynamic window
type OpenRequest struct {
	AppID string        `json:"app_id,omitempty"`
	Spec  *InstanceSpec `json:"spec,omitempty"`
}

// GestureKind enumerates pointer events sent by a window frame
type GestureKind string

const (
	GestureDragStart   GestureKind = "drag_start"
	GestureResizeStart GestureKind = "resize_start"
	GestureMove        GestureKind = "move"
	GestureEnd         GestureKind = "end"
)

// GestureRequest is one pointer event (mouse or touch)
type GestureRequest struct {
	Kind     GestureKind `json:"kind" binding:"required"`
	WindowID string      `json:"window_id,omitempty"`
	X        int         `json:"x"`
	Y        int         `json:"y"`
}

// WSMessage represents a WebSocket message from the browser
type WSMessage struct {
	Type     string        `json:"type"`
	AppID    string        `json:"app_id,omitempty"`
	WindowID string        `json:"window_id,omitempty"`
	Spec     *InstanceSpec `json:"spec,omitempty"`
	X        int           `json:"x,omitempty"`
	Y        int           `json:"y,omitempty"`
	Width    int           `json:"width,omitempty"`
	Height   int           `json:"height,omitempty"`
}
