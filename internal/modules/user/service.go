package user

import (
	"errors"

	"github.com/opencampus/lms-core/internal/models"
	"github.com/opencampus/lms-core/internal/modules/session"
	"github.com/opencampus/lms-core/internal/pkg/pagination"
	"github.com/opencampus/lms-core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// GetByID returns a user or (nil, nil) when unknown.
func (s *Service) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// SessionsSummary returns one reporting row per user on the requested
// page: identity, live-session counts, and the last-known fields taken
// from the most recent session.
func (s *Service) SessionsSummary(q pagination.Query) ([]WithSessionInfo, response.Pagination, error) {
	var users []models.User
	pag, err := pagination.Paginate(s.db.Model(&models.User{}).Order("id ASC"), q, &users)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	rows := make([]WithSessionInfo, len(users))
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
		rows[i] = WithSessionInfo{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	}
	if len(ids) == 0 {
		return rows, pag, nil
	}

	counts, err := s.statusCounts(ids)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	latest, err := s.latestSessions(ids)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	for i := range rows {
		if c, ok := counts[rows[i].ID]; ok {
			rows[i].ActiveSessions = c[string(session.StatusActive)]
			rows[i].SuspiciousSessions = c[string(session.StatusSuspicious)]
		}
		if last, ok := latest[rows[i].ID]; ok {
			activity := last.LastActivity
			rows[i].LastActivity = &activity
			rows[i].LastLocation = lastLocation(last)
			rows[i].LastIP = deref(last.IPAddress)
			rows[i].LastDevice = deref(last.DeviceInfo)
		}
	}
	return rows, pag, nil
}

func (s *Service) statusCounts(ids []uint) (map[uint]map[string]int64, error) {
	var rows []struct {
		UserID uint
		Status string
		N      int64
	}
	err := s.db.Model(&models.UserSession{}).
		Select("user_id, status, COUNT(*) AS n").
		Where("user_id IN ?", ids).
		Group("user_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint]map[string]int64, len(rows))
	for _, r := range rows {
		if out[r.UserID] == nil {
			out[r.UserID] = map[string]int64{}
		}
		out[r.UserID][r.Status] = r.N
	}
	return out, nil
}

// latestSessions resolves each user's most recent session in one query;
// last_activity ties break toward the newer row.
func (s *Service) latestSessions(ids []uint) (map[uint]*models.UserSession, error) {
	var rows []models.UserSession
	err := s.db.Raw(`
		SELECT s.* FROM user_sessions s
		JOIN (
			SELECT user_id, MAX(last_activity) AS latest
			FROM user_sessions
			WHERE user_id IN ?
			GROUP BY user_id
		) t ON s.user_id = t.user_id AND s.last_activity = t.latest`, ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint]*models.UserSession, len(rows))
	for i := range rows {
		r := &rows[i]
		if prev, ok := out[r.UserID]; !ok || r.ID > prev.ID {
			out[r.UserID] = r
		}
	}
	return out, nil
}

func lastLocation(row *models.UserSession) string {
	city := deref(row.City)
	country := deref(row.CountryName)
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case country != "":
		return country
	case city != "":
		return city
	}
	return deref(row.Location)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
