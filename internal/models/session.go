package models

import "time"

// UserSession tracks signed-in JWT sessions for device/session management.
// Rows are never deleted: revocation is a status transition so session
// history stays auditable.
type UserSession struct {
	Base
	UserID    uint   `json:"userId"    gorm:"index;not null"`
	SessionID string `json:"sessionId" gorm:"uniqueIndex;size:64;not null"`
	Status    string `json:"status"    gorm:"index;size:16;not null;default:active"`

	LastActivity time.Time  `json:"lastActivity" gorm:"index"`
	ExpiresAt    *time.Time `json:"expiresAt"    gorm:"index"`

	// Device metadata, each independently nullable.
	DeviceInfo     *string `json:"deviceInfo"`
	BrowserName    *string `json:"browserName"`
	BrowserVersion *string `json:"browserVersion"`
	OSName         *string `json:"osName"`
	OSVersion      *string `json:"osVersion"`
	IsMobile       *bool   `json:"isMobile"`

	// Geolocation metadata, each independently nullable.
	IPAddress   *string  `json:"ipAddress"`
	Location    *string  `json:"location"`
	City        *string  `json:"city"`
	RegionName  *string  `json:"regionName"`
	CountryName *string  `json:"countryName"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`

	// Set iff Status == revoked.
	RevocationReason *string `json:"revocationReason"`
}

func (UserSession) TableName() string { return "user_sessions" }
