package window

import "github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"

const (
	// staggerStep offsets each new window from the previous one
	staggerStep = 30
	staggerX    = 100
	staggerY    = 50
)

// geometry is a position/size pair saved before maximizing
type geometry struct {
	pos  types.Position
	size types.Size
}

// StaggeredPosition returns the initial position for the n-th open window
func StaggeredPosition(n int) types.Position {
	return types.Position{
		X: staggerX + staggerStep*n,
		Y: staggerY + staggerStep*n,
	}
}

// WorkArea is the viewport minus the taskbar strip
func WorkArea(vp types.Viewport, taskbarHeight int) types.Size {
	h := vp.Height - taskbarHeight
	if h < 0 {
		h = 0
	}
	return types.Size{Width: vp.Width, Height: h}
}

// ClampPosition keeps a window of the given size inside
// [0, vw-w] x [0, vh-taskbar-h]. The upper bound is applied first so a window
// larger than the work area pins to 0.
func ClampPosition(pos types.Position, size types.Size, vp types.Viewport, taskbarHeight int) types.Position {
	maxX := vp.Width - size.Width
	maxY := vp.Height - taskbarHeight - size.Height
	return types.Position{
		X: max(0, min(pos.X, maxX)),
		Y: max(0, min(pos.Y, maxY)),
	}
}

// MeetsFloor reports whether size is at least min in both dimensions
func MeetsFloor(size, floor types.Size) bool {
	return size.Width >= floor.Width && size.Height >= floor.Height
}
