package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/infra/security"
)

func newAuthTestRouter(t *testing.T, issuer *security.TokenIssuer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", RequireAuth(issuer, zaptest.NewLogger(t)), func(c *gin.Context) {
		userID, _ := GetAuthenticatedUserID(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	r.GET("/admin", RequireAuth(issuer, zaptest.NewLogger(t)), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func newTestIssuer(t *testing.T, opts ...security.TokenIssuerOption) *security.TokenIssuer {
	t.Helper()

	issuer, err := security.NewTokenIssuer("middleware-test-secret", "bovino-test", time.Hour, opts...)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	return issuer
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	issuer := newTestIssuer(t)
	router := newAuthTestRouter(t, issuer)

	token, err := issuer.Issue("user-1", "rancher")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["userId"] != "user-1" {
		t.Fatalf("unexpected user id: %s", body["userId"])
	}
}

func TestRequireAuthHeaderFailures(t *testing.T) {
	issuer := newTestIssuer(t)
	router := newAuthTestRouter(t, issuer)

	cases := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "missing authorization header"},
		{"not bearer", "Basic abc123", "invalid authorization format: expected 'Bearer <token>'"},
		{"missing token", "Bearer ", "missing access token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", rr.Code)
			}

			var body ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body.Error != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, body.Error)
			}
		})
	}
}

func TestRequireAuthRejectsBadTokensWithGenericBody(t *testing.T) {
	issuer := newTestIssuer(t)
	router := newAuthTestRouter(t, issuer)

	valid, err := issuer.Issue("user-1", "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// An issuer pinned to the past produces an already-expired token.
	past := time.Now().Add(-48 * time.Hour)
	expiredIssuer := newTestIssuer(t, security.WithClock(func() time.Time { return past }))
	expired, err := expiredIssuer.Issue("user-1", "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	for name, token := range map[string]string{
		"tampered":  valid[:len(valid)-4] + "AAAA",
		"truncated": valid[:len(valid)/2],
		"expired":   expired,
		"garbage":   "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", rr.Code)
			}

			var body ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body.Error != "invalid or expired token" {
				t.Fatalf("expected generic rejection body, got %q", body.Error)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	issuer := newTestIssuer(t)
	router := newAuthTestRouter(t, issuer)

	adminToken, err := issuer.Issue("user-1", "admin")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	rancherToken, err := issuer.Issue("user-2", "rancher")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	noRoleToken, err := issuer.Issue("user-3", "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"admin allowed", adminToken, http.StatusOK},
		{"other role forbidden", rancherToken, http.StatusForbidden},
		{"no role forbidden", noRoleToken, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rr.Code)
			}
		})
	}
}

func TestRequireRoleWithoutAuthContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}
