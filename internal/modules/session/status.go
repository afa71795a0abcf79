package session

// Status is the session lifecycle state. Admin-reachable transitions:
// active|inactive → suspicious, active|inactive|suspicious → revoked.
// revoked is terminal; active/inactive flips are server-internal.
type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusSuspicious Status = "suspicious"
	StatusRevoked    Status = "revoked"
)

// StatusAll is the filter wildcard, not a storable status.
const StatusAll Status = "all"

// DefaultRevocationReason is stored when a revoke request carries no
// reason.
const DefaultRevocationReason = "Revoked by admin"

// ParseStatus validates a status string from the API.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusInactive, StatusSuspicious, StatusRevoked:
		return Status(s), true
	}
	return "", false
}

// Valid reports whether s is a storable status value.
func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// CanMarkSuspicious reports whether the mark-suspicious command applies.
// Guarded once the session is already suspicious or revoked.
func (s Status) CanMarkSuspicious() bool {
	return s == StatusActive || s == StatusInactive
}

// CanRevoke reports whether the revoke command applies. revoked is
// terminal.
func (s Status) CanRevoke() bool {
	return s.Valid() && s != StatusRevoked
}

// Badge is the display style for a status.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Badge maps each status to its display style. The switch enumerates
// every Status constant; values not in the enum (bad rows) get an
// explicit "unknown" badge instead of borrowing a real status's style.
func (s Status) Badge() Badge {
	switch s {
	case StatusActive:
		return Badge{Label: "Active", Color: "green", Icon: "circle-check"}
	case StatusInactive:
		return Badge{Label: "Inactive", Color: "gray", Icon: "circle-pause"}
	case StatusSuspicious:
		return Badge{Label: "Suspicious", Color: "amber", Icon: "triangle-alert"}
	case StatusRevoked:
		return Badge{Label: "Revoked", Color: "red", Icon: "circle-slash"}
	}
	return Badge{Label: "Unknown", Color: "slate", Icon: "circle-help"}
}
