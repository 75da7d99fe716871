package middlewares

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func rateLimitedRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		t.Fatalf("Failed to set trusted proxies: %v", err)
	}
	router.Use(RateLimitMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestRateLimitExhaustsBurst(t *testing.T) {
	router := rateLimitedRouter(t)

	status := 0
	for i := 0; i < 31; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:1111"
		router.ServeHTTP(w, req)
		status = w.Code
	}
	if status != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after exhausting the burst, got %d", status)
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	router := rateLimitedRouter(t)

	// Rotating X-Forwarded-For must not hand out fresh buckets: with no
	// trusted proxies the limiter keys on the connection address.
	status := 0
	for i := 0; i < 31; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.20:2222"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		router.ServeHTTP(w, req)
		status = w.Code
	}
	if status != http.StatusTooManyRequests {
		t.Errorf("Expected 429 despite rotating forwarded headers, got %d", status)
	}
}

func TestRateLimitSeparatesClients(t *testing.T) {
	router := rateLimitedRouter(t)

	for i := 0; i < 31; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.30:3333"
		router.ServeHTTP(w, req)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.31:4444"
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected a different client to keep its own bucket, got %d", w.Code)
	}
}
