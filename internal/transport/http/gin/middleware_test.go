package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/kirinyoku/hemolink/internal/service/auth"
	"github.com/kirinyoku/hemolink/internal/service/inventory"
	"github.com/kirinyoku/hemolink/internal/service/schedule"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// injectSession stands in for SessionMiddleware so gating can be exercised
// without a store behind it.
func injectSession(sess domain.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func gatedRouter(sess domain.Session, gate gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(injectSession(sess))
	r.GET("/gated", gate, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func donorSession() domain.Session {
	return domain.Authenticated("tok", domain.Profile{
		UserID:      uuid.New(),
		DisplayName: "Jane",
		Role:        domain.RoleDonor,
	})
}

func TestRequireAuth_RejectsAnonymous(t *testing.T) {
	r := gatedRouter(domain.Anonymous(), RequireAuth())

	if w := get(t, r, "/gated"); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous got %d, want 401", w.Code)
	}
}

func TestRequireAuth_RejectsFailedSession(t *testing.T) {
	r := gatedRouter(domain.Failed(), RequireAuth())

	if w := get(t, r, "/gated"); w.Code != http.StatusUnauthorized {
		t.Errorf("failed session got %d, want 401", w.Code)
	}
}

func TestRequireAuth_PassesAuthenticated(t *testing.T) {
	r := gatedRouter(donorSession(), RequireAuth())

	if w := get(t, r, "/gated"); w.Code != http.StatusOK {
		t.Errorf("authenticated got %d, want 200", w.Code)
	}
}

func TestRequireRole_WrongRoleForbidden(t *testing.T) {
	r := gatedRouter(donorSession(), RequireRole(domain.RoleHospital))

	if w := get(t, r, "/gated"); w.Code != http.StatusForbidden {
		t.Errorf("donor on hospital route got %d, want 403", w.Code)
	}
}

func TestRequireRole_AnonymousUnauthorized(t *testing.T) {
	r := gatedRouter(domain.Anonymous(), RequireRole(domain.RoleHospital))

	if w := get(t, r, "/gated"); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous on hospital route got %d, want 401", w.Code)
	}
}

func TestRequireRole_MatchingRolePasses(t *testing.T) {
	r := gatedRouter(donorSession(), RequireRole(domain.RoleDonor))

	if w := get(t, r, "/gated"); w.Code != http.StatusOK {
		t.Errorf("donor on donor route got %d, want 200", w.Code)
	}
}

func TestRespondErr_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"email taken", auth.ErrEmailTaken, http.StatusConflict},
		{"invalid blood type", inventory.ErrInvalidBloodType, http.StatusBadRequest},
		{"negative stock", inventory.ErrNegativeStock, http.StatusUnprocessableEntity},
		{"not owner reads as missing", inventory.ErrNotOwner, http.StatusNotFound},
		{"already finalized", schedule.ErrAlreadyFinalized, http.StatusConflict},
		{"donation recorded", schedule.ErrDonationRecorded, http.StatusConflict},
		{"appointment missing", schedule.ErrApptNotFound, http.StatusNotFound},
		{"unknown error", http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondErr(c, tc.err)

			if w.Code != tc.want {
				t.Errorf("respondErr(%v) wrote %d, want %d", tc.err, w.Code, tc.want)
			}
		})
	}
}
