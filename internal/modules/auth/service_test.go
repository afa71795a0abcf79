package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/opencampus/lms-core/internal/models"
	"github.com/opencampus/lms-core/internal/modules/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.UserSession{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sessions := session.NewService(db, nil, nil)
	return NewService(db, sessions, nil, time.Hour, nil), db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{Name: "Amina", Email: email, Role: models.RoleAdmin, Password: string(hash)}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func TestLoginIssuesSessionWithDeviceMetadata(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "amina@example.edu", "s3cret-pass")

	token, u, err := svc.Login(context.Background(), &LoginDTO{
		Email: "amina@example.edu", Password: "s3cret-pass",
	}, "203.0.113.7", chromeUA)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || u == nil {
		t.Fatalf("token = %q, user = %+v", token, u)
	}

	var row models.UserSession
	if err := db.First(&row, "user_id = ?", u.ID).Error; err != nil {
		t.Fatalf("session row: %v", err)
	}
	if row.Status != string(session.StatusActive) {
		t.Fatalf("status = %q", row.Status)
	}
	if row.BrowserName == nil || *row.BrowserName != "Chrome" {
		t.Fatalf("browserName = %v", row.BrowserName)
	}
	if row.OSName == nil || *row.OSName != "Windows" {
		t.Fatalf("osName = %v", row.OSName)
	}
	if row.IPAddress == nil || *row.IPAddress != "203.0.113.7" {
		t.Fatalf("ipAddress = %v", row.IPAddress)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "amina@example.edu", "s3cret-pass")

	if _, _, err := svc.Login(context.Background(), &LoginDTO{
		Email: "amina@example.edu", Password: "wrong",
	}, "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, _, err := svc.Login(context.Background(), &LoginDTO{
		Email: "nobody@example.edu", Password: "s3cret-pass",
	}, "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v", err)
	}

	var count int64
	db.Model(&models.UserSession{}).Count(&count)
	if count != 0 {
		t.Fatalf("failed logins issued %d sessions", count)
	}
}

func TestLogoutRevokesOwnSession(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "amina@example.edu", "s3cret-pass")

	_, u, err := svc.Login(context.Background(), &LoginDTO{
		Email: "amina@example.edu", Password: "s3cret-pass",
	}, "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	var row models.UserSession
	if err := db.First(&row, "user_id = ?", u.ID).Error; err != nil {
		t.Fatalf("session row: %v", err)
	}

	if err := svc.Logout(context.Background(), u.ID, row.SessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := db.First(&row, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.Status != string(session.StatusRevoked) {
		t.Fatalf("status after logout = %q", row.Status)
	}
	if row.RevocationReason == nil || *row.RevocationReason != "Logged out" {
		t.Fatalf("reason = %v", row.RevocationReason)
	}

	// A second logout on the same session is a no-op.
	if err := svc.Logout(context.Background(), u.ID, row.SessionID); err != nil {
		t.Fatalf("repeat logout: %v", err)
	}
}

func TestRegisterOnlyBootstrapsFirstAccount(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Register(&RegisterDTO{Name: "Amina", Email: "Amina@Example.edu", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Fatalf("role = %q", u.Role)
	}
	if u.Email != "amina@example.edu" {
		t.Fatalf("email not normalized: %q", u.Email)
	}

	if _, err := svc.Register(&RegisterDTO{Name: "Omar", Email: "omar@example.edu", Password: "s3cret-pass"}); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("second register err = %v", err)
	}
}
