package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/opencampus/lms-core/internal/models"
	"gorm.io/gorm"
)

// DefaultTTL is the session lifetime when the config does not set one.
const DefaultTTL = 30 * 24 * time.Hour

// Issue creates an active session row for a fresh login. The returned
// row's SessionID is the opaque identifier the JWT is bound to.
func Issue(db *gorm.DB, userID uint, ttl time.Duration, meta Metadata) (*models.UserSession, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	expires := now.Add(ttl)
	row := &models.UserSession{
		UserID:       userID,
		SessionID:    uuid.New().String(),
		Status:       string(StatusActive),
		LastActivity: now,
		ExpiresAt:    &expires,

		IPAddress:      optional(meta.IPAddress),
		DeviceInfo:     optional(meta.DeviceInfo),
		BrowserName:    optional(meta.BrowserName),
		BrowserVersion: optional(meta.BrowserVersion),
		OSName:         optional(meta.OSName),
		OSVersion:      optional(meta.OSVersion),
		IsMobile:       meta.IsMobile,
		Location:       optional(meta.Location),
		City:           optional(meta.City),
		RegionName:     optional(meta.RegionName),
		CountryName:    optional(meta.CountryName),
		Latitude:       meta.Latitude,
		Longitude:      meta.Longitude,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// IsLive reports whether the session still authenticates requests.
// Suspicious sessions stay live (they are flagged, not cut off);
// inactive and revoked ones do not.
func IsLive(db *gorm.DB, userID uint, sessionID string) (bool, error) {
	var count int64
	err := db.Model(&models.UserSession{}).
		Where("session_id = ? AND user_id = ? AND status IN ? AND (expires_at IS NULL OR expires_at > ?)",
			sessionID, userID, []string{string(StatusActive), string(StatusSuspicious)}, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Touch bumps last_activity for a live session. Failures are ignored;
// activity tracking is best-effort.
func Touch(db *gorm.DB, userID uint, sessionID string) {
	if sessionID == "" {
		return
	}
	_ = db.Model(&models.UserSession{}).
		Where("session_id = ? AND user_id = ? AND status IN ?",
			sessionID, userID, []string{string(StatusActive), string(StatusSuspicious)}).
		Update("last_activity", time.Now()).Error
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
