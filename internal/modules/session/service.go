package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/opencampus/lms-core/internal/models"
	"github.com/opencampus/lms-core/internal/pkg/querycache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns session queries and status transitions. List and stats
// reads go through the injected query cache; every mutation invalidates
// the affected scopes so the next read reflects server state.
type Service struct {
	db     *gorm.DB
	cache  *querycache.Cache
	logger *zap.Logger
}

func NewService(db *gorm.DB, cache *querycache.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, cache: cache, logger: logger.Named("SessionService")}
}

func (s *Service) viewQuery() *gorm.DB {
	return s.db.Table("user_sessions s").
		Select("s.*, u.name AS user_name, u.email AS user_email").
		Joins("LEFT JOIN users u ON u.id = s.user_id").
		Order("s.last_activity DESC, s.id DESC")
}

// List returns all sessions, newest activity first.
func (s *Service) List(ctx context.Context) ([]View, error) {
	return s.cachedViews(ctx, querycache.KeyAllSessions, func() ([]View, error) {
		var out []View
		err := s.viewQuery().Scan(&out).Error
		return out, err
	})
}

// ListSuspicious returns only suspicious sessions.
func (s *Service) ListSuspicious(ctx context.Context) ([]View, error) {
	return s.cachedViews(ctx, querycache.KeySuspiciousSessions, func() ([]View, error) {
		var out []View
		err := s.viewQuery().Where("s.status = ?", StatusSuspicious).Scan(&out).Error
		return out, err
	})
}

// ListByUser returns one user's sessions.
func (s *Service) ListByUser(ctx context.Context, userID uint) ([]View, error) {
	return s.cachedViews(ctx, querycache.KeyUserSessions(userID), func() ([]View, error) {
		var out []View
		err := s.viewQuery().Where("s.user_id = ?", userID).Scan(&out).Error
		return out, err
	})
}

// GetView loads a single session joined with owner fields.
func (s *Service) GetView(id uint) (*View, error) {
	var v View
	err := s.viewQuery().Where("s.id = ?", id).Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, ErrNotFound
	}
	v.Badge = v.Status.Badge()
	return &v, nil
}

// Stats computes the global aggregate view. Always over the full set;
// list filters never feed into it.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		var cached Stats
		if hit, err := s.cache.GetJSON(ctx, querycache.KeySessionStats, &cached); err != nil {
			s.logger.Debug("stats cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	st := &Stats{
		ByLocation: map[string]int64{},
		ByBrowser:  map[string]int64{},
		ByOS:       map[string]int64{},
		ByDevice:   map[string]int64{},
	}

	tx := s.db.Model(&models.UserSession{})
	if err := tx.Count(&st.TotalSessions).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.UserSession{}).Where("status = ?", StatusActive).Count(&st.ActiveSessions).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.UserSession{}).Where("status = ?", StatusSuspicious).Count(&st.SuspiciousSessions).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.UserSession{}).Distinct("user_id").Count(&st.DistinctUsers).Error; err != nil {
		return nil, err
	}

	var err error
	if st.ByLocation, err = s.groupCount("location"); err != nil {
		return nil, err
	}
	if st.ByBrowser, err = s.groupCount("browser_name"); err != nil {
		return nil, err
	}
	if st.ByOS, err = s.groupCount("os_name"); err != nil {
		return nil, err
	}
	if st.ByDevice, err = s.deviceCount(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, querycache.KeySessionStats, st); err != nil {
			s.logger.Debug("stats cache write failed", zap.Error(err))
		}
	}
	return st, nil
}

// Revoke transitions one session to revoked. A blank reason stores
// DefaultRevocationReason so the reason-iff-revoked invariant holds at
// the storage boundary.
func (s *Service) Revoke(ctx context.Context, id uint, reason string) (*View, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRevocationReason
	}

	row, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !Status(row.Status).CanRevoke() {
		return nil, ErrAlreadyRevoked
	}

	res := s.db.Model(&models.UserSession{}).
		Where("id = ? AND status <> ?", id, StatusRevoked).
		Updates(map[string]interface{}{
			"status":            string(StatusRevoked),
			"revocation_reason": reason,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost a race against a concurrent revoke.
		return nil, ErrAlreadyRevoked
	}

	s.invalidate(ctx, row.UserID)
	return s.GetView(id)
}

// MarkSuspicious flags an active or inactive session. The guard runs in
// SQL so concurrent commands cannot double-apply.
func (s *Service) MarkSuspicious(ctx context.Context, id uint) (*View, error) {
	res := s.db.Model(&models.UserSession{}).
		Where("id = ? AND status IN ?", id, []string{string(StatusActive), string(StatusInactive)}).
		Update("status", string(StatusSuspicious))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.load(id); err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}

	row, err := s.load(id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, row.UserID)
	return s.GetView(id)
}

// RevokeAll revokes every non-revoked session of a user and reports how
// many were affected. Zero is not an error.
func (s *Service) RevokeAll(ctx context.Context, userID uint, reason string) (int64, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRevocationReason
	}

	res := s.db.Model(&models.UserSession{}).
		Where("user_id = ? AND status <> ?", userID, StatusRevoked).
		Updates(map[string]interface{}{
			"status":            string(StatusRevoked),
			"revocation_reason": reason,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.invalidate(ctx, userID)
	}
	return res.RowsAffected, nil
}

// SweepInactive moves active sessions to inactive once expired or idle
// past idleAfter. Run from the scheduler; re-authentication never
// reactivates a row, a new login creates a new one.
func (s *Service) SweepInactive(ctx context.Context, idleAfter time.Duration) (int64, error) {
	now := time.Now()
	res := s.db.Model(&models.UserSession{}).
		Where("status = ? AND ((expires_at IS NOT NULL AND expires_at < ?) OR last_activity < ?)",
			StatusActive, now, now.Add(-idleAfter)).
		Update("status", string(StatusInactive))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		// Per-user scopes age out by TTL; the shared scopes drop now.
		s.invalidate(ctx, 0)
	}
	return res.RowsAffected, nil
}

func (s *Service) load(id uint) (*models.UserSession, error) {
	var row models.UserSession
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) cachedViews(ctx context.Context, key string, load func() ([]View, error)) ([]View, error) {
	if s.cache != nil {
		var cached []View
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
			s.logger.Debug("list cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	views, err := load()
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].Badge = views[i].Status.Badge()
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, views); err != nil {
			s.logger.Debug("list cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return views, nil
}

func (s *Service) invalidate(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSessions(ctx, userID); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func (s *Service) groupCount(column string) (map[string]int64, error) {
	var rows []struct {
		K string
		N int64
	}
	err := s.db.Model(&models.UserSession{}).
		Select(column+" AS k, COUNT(*) AS n").
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.K] = r.N
	}
	return out, nil
}

func (s *Service) deviceCount() (map[string]int64, error) {
	var rows []struct {
		IsMobile *bool
		N        int64
	}
	err := s.db.Model(&models.UserSession{}).
		Select("is_mobile, COUNT(*) AS n").
		Group("is_mobile").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		switch {
		case r.IsMobile == nil:
			out["unknown"] += r.N
		case *r.IsMobile:
			out["mobile"] += r.N
		default:
			out["desktop"] += r.N
		}
	}
	return out, nil
}
