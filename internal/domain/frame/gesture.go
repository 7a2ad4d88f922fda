package frame

import "github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"

// Kind identifies a pointer gesture
type Kind string

const (
	KindDrag   Kind = "drag"
	KindResize Kind = "resize"
)

// Gesture is a pointer gesture in flight
type Gesture struct {
	Kind     Kind           `json:"kind"`
	WindowID string         `json:"window_id"`
	Offset   types.Position `json:"offset"` // Pointer offset from window origin, drag only
}
