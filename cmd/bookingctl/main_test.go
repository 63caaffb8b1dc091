package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"studio-booking/internal/client"
	"studio-booking/internal/dto"
	"studio-booking/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeServer 根据 Bearer Token 区分普通用户与管理员
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := gin.New()
	r.POST("/auth/login", func(c *gin.Context) {
		tok := "user-token"
		if c.PostForm("username") == "admin@drumschool.com" {
			tok = "admin-token"
		}
		response.OK(c, dto.TokenResponse{AccessToken: tok, TokenType: "bearer", ExpiresIn: 1800})
	})
	r.GET("/auth/me", func(c *gin.Context) {
		switch c.GetHeader("Authorization") {
		case "Bearer admin-token":
			response.OK(c, dto.UserResponse{ID: 1, Email: "admin@drumschool.com", IsAdmin: true})
		case "Bearer user-token":
			response.OK(c, dto.UserResponse{ID: 2, Email: "u@example.com"})
		default:
			response.Unauthorized(c, 10002, "未认证")
		}
	})
	r.GET("/rooms/", func(c *gin.Context) {
		response.OK(c, []dto.RoomResponse{{ID: 1, Name: "Sala A", Capacity: 1, IsActive: true}})
	})
	r.GET("/admin/users", func(c *gin.Context) {
		response.OK(c, []dto.UserResponse{{ID: 1, Email: "admin@drumschool.com", IsAdmin: true}})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, srv *httptest.Server, tokenFile string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{"--server", srv.URL, "--token-file", tokenFile}, args...)
	err := run(context.Background(), full, &out)
	return out.String(), err
}

func TestHelp_HidesAdminCommandsForUsers(t *testing.T) {
	srv := fakeServer(t)
	tokenFile := filepath.Join(t.TempDir(), "token")

	out, err := runCLI(t, srv, tokenFile, "help")
	if err != nil {
		t.Fatalf("help 失败: %v", err)
	}
	if strings.Contains(out, "admin-users") {
		t.Error("未登录时不应显示管理员命令")
	}

	if _, err := runCLI(t, srv, tokenFile, "login", "admin@drumschool.com", "admin123"); err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	out, _ = runCLI(t, srv, tokenFile, "help")
	if !strings.Contains(out, "admin-users") {
		t.Error("管理员应看到管理员命令")
	}
}

func TestAdminCommand_RefusedForUser(t *testing.T) {
	srv := fakeServer(t)
	tokenFile := filepath.Join(t.TempDir(), "token")

	if _, err := runCLI(t, srv, tokenFile, "login", "u@example.com", "secret1"); err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if _, err := runCLI(t, srv, tokenFile, "admin-users"); err == nil {
		t.Error("普通用户执行管理员命令应失败")
	}
}

func TestRooms_PrintsTable(t *testing.T) {
	srv := fakeServer(t)
	tokenFile := filepath.Join(t.TempDir(), "token")

	out, err := runCLI(t, srv, tokenFile, "rooms")
	if err != nil {
		t.Fatalf("rooms 失败: %v", err)
	}
	if !strings.Contains(out, "Sala A") {
		t.Errorf("期望输出包含 Sala A，实际:\n%s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	srv := fakeServer(t)
	if _, err := runCLI(t, srv, filepath.Join(t.TempDir(), "token"), "nope"); err == nil {
		t.Error("未知命令应返回错误")
	}
}

func TestWeek_MarksPastDays(t *testing.T) {
	var out bytes.Buffer
	a := &app{
		cl:  client.New("http://unused", nil),
		out: &out,
		now: func() time.Time { return time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC) },
		loc: time.UTC,
	}
	if err := runWeek(context.Background(), a, nil); err != nil {
		t.Fatalf("week 失败: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("期望 5 行，实际 %d:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "2025-06-02 周一（已过）") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[4], "2025-06-07 周六") {
		t.Errorf("unexpected last line %q", lines[4])
	}
}

func TestCheckWeekday(t *testing.T) {
	if err := checkWeekday(4); err == nil {
		t.Error("周五应不可选")
	}
	if err := checkWeekday(5); err != nil {
		t.Errorf("周六应可选: %v", err)
	}
}
