package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"studio-booking/internal/dto"
	"studio-booking/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, setup func(r *gin.Engine)) *httptest.Server {
	t.Helper()
	r := gin.New()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin_SavesToken(t *testing.T) {
	srv := newTestServer(t, func(r *gin.Engine) {
		r.POST("/auth/login", func(c *gin.Context) {
			if c.PostForm("username") != "a@b.com" || c.PostForm("password") != "secret1" {
				response.Unauthorized(c, 11001, "邮箱或密码错误")
				return
			}
			response.OK(c, dto.TokenResponse{AccessToken: "tok-1", TokenType: "bearer", ExpiresIn: 1800})
		})
		r.GET("/auth/me", func(c *gin.Context) {
			if c.GetHeader("Authorization") != "Bearer tok-1" {
				response.Unauthorized(c, 10002, "未认证")
				return
			}
			response.OK(c, dto.UserResponse{ID: 1, Email: "a@b.com", IsAdmin: true})
		})
	})

	cl := New(srv.URL, nil)
	tok, err := cl.Login(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if tok.AccessToken != "tok-1" {
		t.Errorf("期望 tok-1，实际 %s", tok.AccessToken)
	}

	me, err := cl.Me(context.Background())
	if err != nil {
		t.Fatalf("获取当前用户失败: %v", err)
	}
	if !me.IsAdmin {
		t.Error("期望 is_admin=true")
	}
}

func TestAPIError_FromEnvelope(t *testing.T) {
	srv := newTestServer(t, func(r *gin.Engine) {
		r.POST("/bookings/", func(c *gin.Context) {
			response.Conflict(c, 14001, "该时段已被预约")
		})
	})

	cl := New(srv.URL, nil)
	_, err := cl.CreateBooking(context.Background(), &dto.CreateBookingRequest{RoomID: 1, StartTime: "a", EndTime: "b"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("期望 *APIError，实际 %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Code != 14001 {
		t.Errorf("期望 409/14001，实际 %d/%d", apiErr.Status, apiErr.Code)
	}
	if apiErr.Message != "该时段已被预约" {
		t.Errorf("期望服务端提示，实际 %q", apiErr.Message)
	}
}

func TestAPIError_NonJSONBody(t *testing.T) {
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/rooms/", func(c *gin.Context) {
			c.String(http.StatusBadGateway, "upstream down")
		})
	})

	_, err := New(srv.URL, nil).Rooms(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("期望 502 APIError，实际 %v", err)
	}
	if apiErr.Error() != "HTTP error! status: 502" {
		t.Errorf("unexpected message %q", apiErr.Error())
	}
}

func TestRooms_MissingDataIsEmpty(t *testing.T) {
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/rooms/", func(c *gin.Context) {
			response.OK(c, []dto.RoomResponse(nil))
		})
	})

	rooms, err := New(srv.URL, nil).Rooms(context.Background())
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if len(rooms) != 0 {
		t.Errorf("期望空列表，实际 %d", len(rooms))
	}
}

func TestAvailableSlots_Query(t *testing.T) {
	var gotQuery string
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/bookings/available-slots", func(c *gin.Context) {
			gotQuery = c.Request.URL.RawQuery
			response.OK(c, []dto.SlotResponse{{RoomID: 2, IsAvailable: true}})
		})
	})

	slots, err := New(srv.URL, nil).AvailableSlots(context.Background(), 2, "2025-06-02", 60)
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	if len(slots) != 1 || slots[0].RoomID != 2 {
		t.Errorf("unexpected slots %+v", slots)
	}
	if gotQuery != "date=2025-06-02&duration=60&room_id=2" {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestCancelBooking_InFlightGuard(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := newTestServer(t, func(r *gin.Engine) {
		r.DELETE("/bookings/:id", func(c *gin.Context) {
			close(entered)
			<-release
			response.Message(c, "预约已取消")
		})
	})

	cl := New(srv.URL, nil)
	errCh := make(chan error, 1)
	go func() { errCh <- cl.CancelBooking(context.Background(), 5) }()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("首个请求未到达服务端")
	}

	if !cl.InFlight(CancelKey(5)) {
		t.Error("期望 cancel:5 处于进行中")
	}
	if err := cl.CancelBooking(context.Background(), 5); !errors.Is(err, ErrRequestInFlight) {
		t.Errorf("期望 ErrRequestInFlight，实际 %v", err)
	}

	close(release)
	if err := <-errCh; err != nil {
		t.Fatalf("首个取消请求失败: %v", err)
	}
	if cl.InFlight(CancelKey(5)) {
		t.Error("请求结束后应释放 key")
	}
}

func TestLogout_ClearsTokenEvenOnServerError(t *testing.T) {
	srv := newTestServer(t, func(r *gin.Engine) {
		r.POST("/auth/logout", func(c *gin.Context) {
			response.InternalError(c)
		})
	})

	store := NewMemoryTokenStore()
	store.Save("tok")
	cl := New(srv.URL, store)

	if err := cl.Logout(context.Background()); err == nil {
		t.Error("期望返回服务端错误")
	}
	if tok, _ := store.Load(); tok != "" {
		t.Errorf("期望本地 Token 被清除，实际 %q", tok)
	}
}

func TestExportBookings_Raw(t *testing.T) {
	srv := newTestServer(t, func(r *gin.Engine) {
		r.GET("/admin/bookings/export", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/octet-stream", []byte("PK"))
		})
	})

	b, err := New(srv.URL, nil).ExportBookings(context.Background())
	if err != nil {
		t.Fatalf("下载失败: %v", err)
	}
	if string(b) != "PK" {
		t.Errorf("unexpected body %q", b)
	}
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	s := NewFileTokenStore(path)

	if tok, err := s.Load(); err != nil || tok != "" {
		t.Fatalf("文件不存在时期望空串，实际 %q, %v", tok, err)
	}
	if err := s.Save("abc"); err != nil {
		t.Fatalf("保存失败: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat 失败: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("期望权限 0600，实际 %v", info.Mode().Perm())
	}
	if tok, _ := s.Load(); tok != "abc" {
		t.Errorf("期望 abc，实际 %q", tok)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("清除失败: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("重复清除不应报错: %v", err)
	}
}
