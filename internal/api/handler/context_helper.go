package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studio-booking/internal/api/middleware"
	"studio-booking/internal/dto"
	"studio-booking/pkg/jwt"
	"studio-booking/pkg/response"
)

// Paging skip/limit 默认值与上限
type Paging struct {
	Default int
	Max     int
}

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	return id, true
}

// IsAdmin 当前用户是否为管理员
func IsAdmin(c *gin.Context) bool {
	return c.GetString(middleware.CtxRole) == jwt.RoleAdmin
}

// tokenMeta 取当前 Token 的 jti 与过期时间（登出用）
func tokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString(middleware.CtxTokenJTI)
	exp, _ := c.Get(middleware.CtxTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}

// parseIDParam 解析路径参数中的正整数 ID，失败时写入 400
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "无效的 "+name)
		return 0, false
	}
	return id, true
}

// bindList 绑定 skip/limit 查询参数
func bindList(c *gin.Context, pg Paging) (offset, limit int, ok bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return 0, 0, false
	}
	return req.GetSkip(), req.GetLimit(pg.Default, pg.Max), true
}
