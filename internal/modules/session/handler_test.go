package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/lms-core/internal/models"
	"github.com/opencampus/lms-core/internal/pkg/querycache"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	svc := NewService(db, querycache.New(querycache.NewMemoryStore(), time.Minute), nil)

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/admin"))
	return r, svc, db
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRevokeEndpointDefaultsReason(t *testing.T) {
	r, _, db := newTestRouter(t)
	u := seedUser(t, db, "Amina", "amina@example.edu", models.RoleStudent)
	row := seedSession(t, db, u.ID, Metadata{})

	// Blank reason field in the body still stores the default.
	w := doRequest(r, http.MethodDelete, "/api/admin/sessions/1", `{"reason":""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got View
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != StatusRevoked {
		t.Fatalf("status = %s", got.Status)
	}
	if got.RevocationReason == nil || *got.RevocationReason != DefaultRevocationReason {
		t.Fatalf("reason = %v", got.RevocationReason)
	}

	// Revoked is terminal: repeat conflicts.
	w = doRequest(r, http.MethodDelete, "/api/admin/sessions/1", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("second revoke status = %d", w.Code)
	}
	_ = row
}

func TestRevokeEndpointUnknownSession(t *testing.T) {
	r, _, _ := newTestRouter(t)
	if w := doRequest(r, http.MethodDelete, "/api/admin/sessions/42", ""); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if w := doRequest(r, http.MethodDelete, "/api/admin/sessions/abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMarkSuspiciousEndpoint(t *testing.T) {
	r, _, db := newTestRouter(t)
	u := seedUser(t, db, "Omar", "omar@example.edu", models.RoleStudent)
	seedSession(t, db, u.ID, Metadata{})

	w := doRequest(r, http.MethodPut, "/api/admin/sessions/1/mark-suspicious", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got View
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != StatusSuspicious || got.Badge.Label != "Suspicious" {
		t.Fatalf("got %+v", got)
	}

	if w := doRequest(r, http.MethodPut, "/api/admin/sessions/1/mark-suspicious", ""); w.Code != http.StatusConflict {
		t.Fatalf("second mark status = %d, want 409", w.Code)
	}
}

func TestListEndpointFilters(t *testing.T) {
	r, _, db := newTestRouter(t)
	amina := seedUser(t, db, "Amina", "amina@example.edu", models.RoleStudent)
	omar := seedUser(t, db, "Omar", "omar@example.edu", models.RoleStudent)
	seedSession(t, db, amina.ID, Metadata{BrowserName: "Chrome"})
	s2 := seedSession(t, db, omar.ID, Metadata{BrowserName: "Firefox"})
	db.Model(s2).Update("status", string(StatusSuspicious))

	w := doRequest(r, http.MethodGet, "/api/admin/sessions?status=suspicious", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Data []View `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].UserName != "Omar" {
		t.Fatalf("filtered rows = %+v", body.Data)
	}

	if w := doRequest(r, http.MethodGet, "/api/admin/sessions?status=bogus", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bogus status filter = %d, want 400", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/api/admin/sessions?q=chrome", "")
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].UserName != "Amina" {
		t.Fatalf("term rows = %+v", body.Data)
	}
}

func TestUserSessionsEndpointIncludesSummary(t *testing.T) {
	r, _, db := newTestRouter(t)
	u := seedUser(t, db, "Lena", "lena@example.edu", models.RoleTeacher)
	seedSession(t, db, u.ID, Metadata{City: "Berlin", CountryName: "Germany", DeviceInfo: "Chrome on Windows"})
	seedSession(t, db, u.ID, Metadata{})

	w := doRequest(r, http.MethodGet, "/api/admin/users/1/sessions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Data    []View      `json:"data"`
		Summary UserSummary `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("rows = %d", len(body.Data))
	}
	if body.Summary.TotalSessions != 2 || body.Summary.ActiveSessions != 2 {
		t.Fatalf("summary = %+v", body.Summary)
	}
	if body.Summary.LastLocation != "Berlin, Germany" {
		t.Fatalf("lastLocation = %q", body.Summary.LastLocation)
	}
}

func TestRevokeAllEndpoint(t *testing.T) {
	r, _, db := newTestRouter(t)
	u := seedUser(t, db, "Ravi", "ravi@example.edu", models.RoleStudent)
	seedSession(t, db, u.ID, Metadata{})
	seedSession(t, db, u.ID, Metadata{})

	w := doRequest(r, http.MethodDelete, "/api/admin/users/1/sessions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Revoked int64 `json:"revoked"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Revoked != 2 {
		t.Fatalf("revoked = %d, want 2", body.Revoked)
	}
}
