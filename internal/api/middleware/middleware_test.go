package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"studio-booking/config"
	"studio-booking/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-middleware",
		AccessTokenTTL: 15 * time.Minute,
		Issuer:         "studio-booking-test",
	})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth / RoleAuth ──

func TestJWTAuth_ValidToken(t *testing.T) {
	mgr := newTestJWT()
	token, err := mgr.GenerateAccessToken(42, "u@example.com", false)
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	r := gin.New()
	var gotID int64
	var gotEmail string
	r.GET("/p", JWTAuth(mgr, nil), func(c *gin.Context) {
		v, _ := c.Get(CtxUserID)
		gotID, _ = v.(int64)
		gotEmail = c.GetString(CtxEmail)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "bearer "+token)
	w := serve(r, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("期望 204，实际 %d", w.Code)
	}
	if gotID != 42 {
		t.Errorf("期望 user_id 42，实际 %d", gotID)
	}
	if gotEmail != "u@example.com" {
		t.Errorf("期望 email u@example.com，实际 %s", gotEmail)
	}
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	r := gin.New()
	r.GET("/p", JWTAuth(newTestJWT(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest("GET", "/p", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("期望返回 WWW-Authenticate: Bearer")
	}
}

func TestJWTAuth_BadToken(t *testing.T) {
	r := gin.New()
	r.GET("/p", JWTAuth(newTestJWT(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
}

func TestRoleAuth_AdminOnly(t *testing.T) {
	mgr := newTestJWT()
	userTok, _ := mgr.GenerateAccessToken(1, "u@example.com", false)
	adminTok, _ := mgr.GenerateAccessToken(2, "a@example.com", true)

	r := gin.New()
	r.GET("/admin", JWTAuth(mgr, nil), RoleAuth(jwt.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Errorf("普通用户期望 403，实际 %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	if w := serve(r, req); w.Code != http.StatusOK {
		t.Errorf("管理员期望 200，实际 %d", w.Code)
	}
}

// stubUsers 按 user_id 返回启用状态
type stubUsers struct {
	inactive map[int64]bool
	err      error
}

func (s *stubUsers) IsActive(_ context.Context, userID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return !s.inactive[userID], nil
}

func TestActiveUser_DeactivatedTokenRefused(t *testing.T) {
	mgr := newTestJWT()
	token, _ := mgr.GenerateAccessToken(7, "u@example.com", false)
	users := &stubUsers{inactive: map[int64]bool{}}

	called := 0
	r := gin.New()
	r.POST("/bookings/", JWTAuth(mgr, nil), ActiveUser(users, zap.NewNop()), func(c *gin.Context) {
		called++
		c.Status(http.StatusCreated)
	})

	post := func() int {
		req := httptest.NewRequest("POST", "/bookings/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return serve(r, req).Code
	}

	if code := post(); code != http.StatusCreated {
		t.Fatalf("启用用户期望 201，实际 %d", code)
	}

	// 管理员停用后，同一 Token 立即失效
	users.inactive[7] = true
	if code := post(); code != http.StatusUnauthorized {
		t.Errorf("停用用户期望 401，实际 %d", code)
	}
	if called != 1 {
		t.Errorf("期望业务处理仅执行 1 次，实际 %d", called)
	}
}

func TestActiveUser_LookupError(t *testing.T) {
	r := gin.New()
	r.GET("/p", func(c *gin.Context) {
		c.Set(CtxUserID, int64(1))
		c.Next()
	}, ActiveUser(&stubUsers{err: errors.New("db down")}, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if w := serve(r, httptest.NewRequest("GET", "/p", nil)); w.Code != http.StatusInternalServerError {
		t.Errorf("期望 500，实际 %d", w.Code)
	}
}

// ── RateLimit ──

func TestRateLimit_LocalFallback(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(nil, 2, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := serve(r, httptest.NewRequest("POST", "/login", nil)); w.Code != http.StatusOK {
			t.Fatalf("第 %d 次请求期望 200，实际 %d", i+1, w.Code)
		}
	}
	if w := serve(r, httptest.NewRequest("POST", "/login", nil)); w.Code != http.StatusTooManyRequests {
		t.Errorf("期望 429，实际 %d", w.Code)
	}
}

func TestLocalLimiters_EvictsIdle(t *testing.T) {
	l := newLocalLimiters(2, time.Minute)
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		l.allow(fmt.Sprintf("rate_limit:10.0.0.%d:/auth/login", i))
	}
	if len(l.limiters) != 100 {
		t.Fatalf("期望 100 个条目，实际 %d", len(l.limiters))
	}

	// 用尽额度的 IP 在窗口内仍被限制
	busy := "rate_limit:10.0.0.1:/auth/login"
	l.allow(busy)
	if l.allow(busy) {
		t.Error("期望窗口内第 3 次请求被拒绝")
	}

	now = now.Add(time.Minute)
	if !l.allow("rate_limit:10.0.0.200:/auth/login") {
		t.Error("期望新 IP 请求通过")
	}
	if len(l.limiters) != 1 {
		t.Errorf("期望空闲条目被淘汰后剩 1 个，实际 %d", len(l.limiters))
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(nil, 0, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		if w := serve(r, httptest.NewRequest("POST", "/login", nil)); w.Code != http.StatusOK {
			t.Fatalf("期望 200，实际 %d", w.Code)
		}
	}
}

// ── BodyLimit ──

func TestBodyLimit_ContentLength(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("POST", "/p", strings.NewReader(`{"name":"too long body"}`))
	if w := serve(r, req); w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("期望 413，实际 %d", w.Code)
	}
}

// ── Metrics ──

func TestMetrics_CountsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/rooms/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest("GET", "/rooms/1", nil))
	serve(r, httptest.NewRequest("GET", "/rooms/2", nil))

	got := testutil.ToFloat64(m.requests.WithLabelValues("/rooms/:id", "GET", "200"))
	if got != 2 {
		t.Errorf("期望计数 2，实际 %v", got)
	}
}

// ── RequestID / SecurityHeaders ──

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders())
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest("GET", "/p", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("期望生成 X-Request-ID")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("期望设置 X-Content-Type-Options")
	}
}
