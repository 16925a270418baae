package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newCORSRouter(t *testing.T, origins []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORS(origins))
	r.GET("/api/v1/ranches", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := newCORSRouter(t, []string{"https://dashboard.bovino-ujat.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ranches", nil)
	req.Header.Set("Origin", "https://dashboard.bovino-ujat.example.com")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.bovino-ujat.example.com" {
		t.Fatalf("unexpected allow-origin header %q", got)
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("expected Vary: Origin, got %q", got)
	}
}

func TestCORSOmitsHeaderForUnknownOrigin(t *testing.T) {
	router := newCORSRouter(t, []string{"https://dashboard.bovino-ujat.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ranches", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
}

func TestCORSAnswersPreflight(t *testing.T) {
	router := newCORSRouter(t, []string{"*"})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ranches", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin header %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != corsAllowedMethods {
		t.Fatalf("unexpected allow-methods header %q", got)
	}
}
