package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/opencampus/lms-core/internal/models"
	"github.com/opencampus/lms-core/internal/modules/session"
	"github.com/opencampus/lms-core/internal/pkg/geoip"
	pkgjwt "github.com/opencampus/lms-core/internal/pkg/jwt"
	"github.com/opencampus/lms-core/internal/pkg/useragent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const geoEnrichTimeout = 10 * time.Second

// Service owns login/logout. Logins issue a session row plus a JWT
// bound to it; the session module handles everything after that.
type Service struct {
	db       *gorm.DB
	sessions *session.Service
	geo      *geoip.Resolver
	ttl      time.Duration
	logger   *zap.Logger
}

// NewService wires the auth flow. geo may be nil to disable location
// enrichment.
func NewService(db *gorm.DB, sessions *session.Service, geo *geoip.Resolver, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, sessions: sessions, geo: geo, ttl: ttl, logger: logger.Named("AuthService")}
}

// Login verifies credentials, issues a session with device metadata
// parsed from the User-Agent, and signs a JWT bound to it. Geolocation
// is filled in asynchronously; the columns stay null until (and unless)
// the lookup succeeds.
func (s *Service) Login(ctx context.Context, dto *LoginDTO, ip, ua string) (string, *models.User, error) {
	var u models.User
	err := s.db.First(&u, "email = ?", strings.ToLower(strings.TrimSpace(dto.Email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.Password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	info := useragent.Parse(ua)
	meta := session.Metadata{
		IPAddress:      ip,
		DeviceInfo:     info.DeviceInfo,
		BrowserName:    info.BrowserName,
		BrowserVersion: info.BrowserVersion,
		OSName:         info.OSName,
		OSVersion:      info.OSVersion,
	}
	if info.DeviceInfo != "" {
		isMobile := info.IsMobile
		meta.IsMobile = &isMobile
	}

	row, err := session.Issue(s.db, u.ID, s.ttl, meta)
	if err != nil {
		return "", nil, err
	}

	if s.geo != nil && ip != "" {
		go s.enrichLocation(row.ID, ip)
	}

	token, err := pkgjwt.Sign(u.ID, row.SessionID, u.Role, s.ttl)
	if err != nil {
		return "", nil, err
	}
	return token, &u, nil
}

// Logout revokes the caller's own session.
func (s *Service) Logout(ctx context.Context, userID uint, sessionID string) error {
	var row models.UserSession
	err := s.db.First(&row, "session_id = ? AND user_id = ?", sessionID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return session.ErrNotFound
		}
		return err
	}
	_, err = s.sessions.Revoke(ctx, row.ID, "Logged out")
	if errors.Is(err, session.ErrAlreadyRevoked) {
		return nil
	}
	return err
}

// Register creates the first account (admin). Once any user exists the
// endpoint is closed; accounts are provisioned by the LMS back office.
func (s *Service) Register(dto *RegisterDTO) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrRegistrationClosed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:     dto.Name,
		Email:    strings.ToLower(strings.TrimSpace(dto.Email)),
		Role:     models.RoleAdmin,
		Password: string(hash),
	}
	if err := s.db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// Me returns the authenticated user, or (nil, nil) if the account was
// removed after the token was issued.
func (s *Service) Me(userID uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// enrichLocation fills the session's geo columns best-effort.
func (s *Service) enrichLocation(rowID uint, ip string) {
	ctx, cancel := context.WithTimeout(context.Background(), geoEnrichTimeout)
	defer cancel()

	loc, err := s.geo.Lookup(ctx, ip)
	if err != nil {
		s.logger.Debug("geo lookup failed", zap.String("ip", ip), zap.Error(err))
		return
	}
	if loc == nil {
		return
	}

	updates := map[string]interface{}{
		"location":     loc.Label(),
		"city":         nullable(loc.City),
		"region_name":  nullable(loc.RegionName),
		"country_name": nullable(loc.Country),
		"latitude":     loc.Lat,
		"longitude":    loc.Lon,
	}
	if err := s.db.Model(&models.UserSession{}).Where("id = ?", rowID).Updates(updates).Error; err != nil {
		s.logger.Debug("geo enrich write failed", zap.Uint("session", rowID), zap.Error(err))
	}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
