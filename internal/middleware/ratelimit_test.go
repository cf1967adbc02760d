package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizhub/quizhub-backend/internal/response"
)

func limitedRouter(rate int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := NewRateLimiter(rate, time.Minute)
	r.GET("/ping", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimiterExhaustsBucket(t *testing.T) {
	r := limitedRouter(3)

	hit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		if w := hit(); w.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, w.Code)
		}
	}

	w := hit()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("exhausted bucket: got %d, want 429", w.Code)
	}
	if got := errCode(t, w); got != response.ErrRateLimitExceeded {
		t.Fatalf("exhausted bucket: got code %s, want %s", got, response.ErrRateLimitExceeded)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("429 response missing Retry-After header")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	r := limitedRouter(1)

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := hit("10.0.0.1:1"); code != http.StatusOK {
		t.Fatalf("first client: got %d, want 200", code)
	}
	if code := hit("10.0.0.1:1"); code != http.StatusTooManyRequests {
		t.Fatalf("first client second hit: got %d, want 429", code)
	}
	if code := hit("10.0.0.2:1"); code != http.StatusOK {
		t.Fatalf("second client must have its own bucket, got %d", code)
	}
}
