package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizhub/quizhub-backend/internal/config"
	"github.com/quizhub/quizhub-backend/internal/model"
	"github.com/quizhub/quizhub-backend/internal/response"
	"github.com/quizhub/quizhub-backend/internal/service"
)

func testRouter(authService *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/protected", RequireAuth(authService))
	protected.GET("", func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})

	admin := r.Group("/admin", RequireAuth(authService), RequireAdmin())
	admin.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return r
}

func request(t *testing.T, r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body struct {
		Error *response.ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	if body.Error == nil {
		t.Fatalf("expected error body, got %q", w.Body.String())
	}
	return body.Error.Code
}

func TestRequireAuthGating(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	authService := service.NewAuthService(cfg)
	r := testRouter(authService)

	t.Run("missing token", func(t *testing.T) {
		w := request(t, r, "/protected", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status: got %d, want 401", w.Code)
		}
		if code := errCode(t, w); code != response.ErrTokenRequired {
			t.Fatalf("code: got %s, want TOKEN_REQUIRED", code)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		w := request(t, r, "/protected", "not-a-jwt")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status: got %d, want 401", w.Code)
		}
		if code := errCode(t, w); code != response.ErrTokenMalformed {
			t.Fatalf("code: got %s, want TOKEN_MALFORMED", code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expiredCfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: -time.Minute}
		token, err := service.NewAuthService(expiredCfg).GenerateToken(&model.User{ID: 1})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		w := request(t, r, "/protected", token)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status: got %d, want 401", w.Code)
		}
		if code := errCode(t, w); code != response.ErrTokenExpired {
			t.Fatalf("code: got %s, want TOKEN_EXPIRED", code)
		}
	})

	t.Run("valid token passes", func(t *testing.T) {
		token, err := authService.GenerateToken(&model.User{ID: 9})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		w := request(t, r, "/protected", token)
		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
		}
	})
}

func TestRequireAdminGating(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	authService := service.NewAuthService(cfg)
	r := testRouter(authService)

	t.Run("non-admin forbidden", func(t *testing.T) {
		token, err := authService.GenerateToken(&model.User{ID: 2, IsAdmin: false})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		w := request(t, r, "/admin", token)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status: got %d, want 403", w.Code)
		}
		if code := errCode(t, w); code != response.ErrAdminAccessOnly {
			t.Fatalf("code: got %s, want ADMIN_ACCESS_ONLY", code)
		}
	})

	t.Run("admin passes", func(t *testing.T) {
		token, err := authService.GenerateToken(&model.User{ID: 3, IsAdmin: true})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		w := request(t, r, "/admin", token)
		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", w.Code)
		}
	})

	t.Run("no token on admin route", func(t *testing.T) {
		w := request(t, r, "/admin", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status: got %d, want 401", w.Code)
		}
	})
}
