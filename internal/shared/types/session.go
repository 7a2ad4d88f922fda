package types

import "time"

// SessionState is the desktop boot gate state
type SessionState string

const (
	SessionBooting SessionState = "booting"
	SessionDesktop SessionState = "desktop"
)

// SessionInfo describes a desktop session for API responses
type SessionInfo struct {
	ID        string       `json:"id"`
	State     SessionState `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	BootedAt  *time.Time   `json:"booted_at,omitempty"`
	LastSeen  time.Time    `json:"last_seen"`
	Viewport  Viewport     `json:"viewport"`
}

// SessionStats contains session store statistics
type SessionStats struct {
	TotalSessions   int `json:"total_sessions"`
	BootingSessions int `json:"booting_sessions"`
	DesktopSessions int `json:"desktop_sessions"`
}
