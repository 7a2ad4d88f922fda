package ws

import (
	"fmt"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/frame"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// Inbound message types
const (
	MsgPing              = "ping"
	MsgBootComplete      = "boot_complete"
	MsgViewport          = "viewport"
	MsgOpen              = "open"
	MsgClose             = "close"
	MsgFocus             = "focus"
	MsgMinimize          = "minimize"
	MsgMaximize          = "maximize"
	MsgPointerDownTitle  = "pointer_down_title"
	MsgPointerDownResize = "pointer_down_resize"
	MsgPointerMove       = "pointer_move"
	MsgPointerUp         = "pointer_up"
	MsgTaskbarClick      = "taskbar_click"
	MsgLeafOpenApp       = "leaf_open_app"
	MsgLeafClose         = "leaf_close"
)

// windowScoped lists the messages addressed to one window
var windowScoped = map[string]struct{}{
	MsgClose:             {},
	MsgFocus:             {},
	MsgMinimize:          {},
	MsgMaximize:          {},
	MsgPointerDownTitle:  {},
	MsgPointerDownResize: {},
	MsgLeafOpenApp:       {},
	MsgLeafClose:         {},
}

// dispatch applies one message. Snapshots reach the client through the
// desktop subscription; the returned reply only acknowledges the request.
func (h *Handler) dispatch(desktop *session.Desktop, msg types.WSMessage) (map[string]interface{}, error) {
	switch msg.Type {
	case MsgPing:
		return map[string]interface{}{"type": "pong"}, nil
	case MsgBootComplete:
		return ack(msg.Type, desktop.CompleteBoot()), nil
	case MsgViewport:
		vp := types.Viewport{Width: msg.Width, Height: msg.Height}
		if err := utils.ValidateViewport(vp); err != nil {
			return nil, err
		}
		desktop.SetViewport(vp)
		return ack(msg.Type, true), nil
	}

	frames, err := desktop.Frames()
	if err != nil {
		return nil, err
	}
	pointer := types.Position{X: msg.X, Y: msg.Y}

	switch msg.Type {
	case MsgOpen:
		target, err := utils.OpenTarget(msg.AppID, msg.Spec)
		if err != nil {
			return nil, err
		}
		w, err := frames.Open(target)
		if err != nil {
			return nil, err
		}
		return ackWindow(msg.Type, w), nil

	case MsgTaskbarClick:
		if err := utils.ValidateID(msg.AppID, "app_id", true); err != nil {
			return nil, err
		}
		action, err := h.shell.ClickTaskbar(frames, msg.AppID)
		if err != nil {
			return nil, err
		}
		reply := ack(msg.Type, true)
		reply["action"] = action
		return reply, nil

	case MsgPointerMove:
		w, ok := frames.Move(pointer)
		if !ok {
			return ack(msg.Type, false), nil
		}
		return ackWindow(msg.Type, w), nil

	case MsgPointerUp:
		return ack(msg.Type, frames.End()), nil
	}

	if _, ok := windowScoped[msg.Type]; !ok {
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err := utils.ValidateID(msg.WindowID, "window_id", true); err != nil {
		return nil, err
	}

	switch msg.Type {
	case MsgClose:
		return ack(msg.Type, frames.Close(msg.WindowID)), nil
	case MsgFocus:
		return ack(msg.Type, frames.Windows().Focus(msg.WindowID)), nil
	case MsgMinimize:
		return ack(msg.Type, frames.Windows().ToggleMinimize(msg.WindowID)), nil
	case MsgMaximize:
		return ack(msg.Type, frames.ToggleMaximize(msg.WindowID)), nil
	case MsgPointerDownTitle:
		return ack(msg.Type, frames.BeginDrag(msg.WindowID, pointer)), nil
	case MsgPointerDownResize:
		return ack(msg.Type, frames.BeginResize(msg.WindowID)), nil
	case MsgLeafOpenApp:
		return leafOpen(frames.Host(msg.WindowID), msg)
	case MsgLeafClose:
		return ack(msg.Type, frames.Host(msg.WindowID).Close()), nil
	}

	return nil, fmt.Errorf("unknown message type %q", msg.Type)
}

// leafOpen runs openApp on behalf of the app hosted in a window
func leafOpen(host frame.Host, msg types.WSMessage) (map[string]interface{}, error) {
	target, err := utils.OpenTarget(msg.AppID, msg.Spec)
	if err != nil {
		return nil, err
	}
	w, err := host.OpenApp(target)
	if err != nil {
		return nil, err
	}
	return ackWindow(msg.Type, w), nil
}

func ack(request string, success bool) map[string]interface{} {
	return map[string]interface{}{
		"type":    "ack",
		"request": request,
		"success": success,
	}
}

func ackWindow(request string, w types.Window) map[string]interface{} {
	reply := ack(request, true)
	reply["window"] = w
	return reply
}
