package user

import "time"

// WithSessionInfo is the per-user reporting row for the directory view.
// Always derived from the user's session set, never stored.
type WithSessionInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`

	ActiveSessions     int64      `json:"activeSessions"`
	SuspiciousSessions int64      `json:"suspiciousSessions"`
	LastActivity       *time.Time `json:"lastActivity"`
	LastLocation       string     `json:"lastLocation"`
	LastIP             string     `json:"lastIp"`
	LastDevice         string     `json:"lastDevice"`
}
