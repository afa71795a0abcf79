package session

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("session not found")
	ErrAlreadyRevoked    = errors.New("session already revoked")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// View is a session row joined with its owner's display fields. The
// userName/userEmail columns are denormalized for rendering only, never
// authoritative.
type View struct {
	ID           uint       `json:"id"`
	UserID       uint       `json:"userId"`
	SessionID    string     `json:"sessionId"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastActivity time.Time  `json:"lastActivity"`
	ExpiresAt    *time.Time `json:"expiresAt"`

	DeviceInfo     *string `json:"deviceInfo"`
	BrowserName    *string `json:"browserName"`
	BrowserVersion *string `json:"browserVersion"`
	OSName         *string `json:"osName"`
	OSVersion      *string `json:"osVersion"`
	IsMobile       *bool   `json:"isMobile"`

	IPAddress   *string  `json:"ipAddress"`
	Location    *string  `json:"location"`
	City        *string  `json:"city"`
	RegionName  *string  `json:"regionName"`
	CountryName *string  `json:"countryName"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`

	RevocationReason *string `json:"revocationReason"`

	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`

	Badge Badge `json:"badge" gorm:"-"`
}

// RevokeDTO is the revoke request body. Reason is optional; the service
// applies DefaultRevocationReason when blank.
type RevokeDTO struct {
	Reason string `json:"reason"`
}

// Stats is the global aggregate view. Counts are always computed over
// the full session set, independent of any list filter.
type Stats struct {
	TotalSessions      int64 `json:"totalSessions"`
	ActiveSessions     int64 `json:"activeSessions"`
	SuspiciousSessions int64 `json:"suspiciousSessions"`
	DistinctUsers      int64 `json:"distinctUsers"`

	ByLocation map[string]int64 `json:"byLocation"`
	ByBrowser  map[string]int64 `json:"byBrowser"`
	ByOS       map[string]int64 `json:"byOS"`
	ByDevice   map[string]int64 `json:"byDevice"`
}

// UserSummary is the derived per-user card block: counts plus the
// last-known fields taken from the most recent session that carries
// them (see Summarize).
type UserSummary struct {
	TotalSessions      int        `json:"totalSessions"`
	ActiveSessions     int        `json:"activeSessions"`
	SuspiciousSessions int        `json:"suspiciousSessions"`
	LastActivity       *time.Time `json:"lastActivity"`
	LastLocation       string     `json:"lastLocation"`
	PrimaryDevice      string     `json:"primaryDevice"`
}

// Metadata carries the device/geo columns recorded when a session is
// issued.
type Metadata struct {
	IPAddress      string
	DeviceInfo     string
	BrowserName    string
	BrowserVersion string
	OSName         string
	OSVersion      string
	IsMobile       *bool
	Location       string
	City           string
	RegionName     string
	CountryName    string
	Latitude       *float64
	Longitude      *float64
}
