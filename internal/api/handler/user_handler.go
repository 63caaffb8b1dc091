package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"studio-booking/internal/dto"
	"studio-booking/internal/service"
	"studio-booking/pkg/response"
)

// UserHandler 用户管理 HTTP 处理器（管理员）
type UserHandler struct {
	userSvc service.UserService
	paging  Paging
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, paging Paging) *UserHandler {
	return &UserHandler{userSvc: userSvc, paging: paging}
}

// List 用户列表
// GET /admin/users
func (h *UserHandler) List(c *gin.Context) {
	offset, limit, ok := bindList(c, h.paging)
	if !ok {
		return
	}

	users, err := h.userSvc.List(c.Request.Context(), offset, limit)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, users)
}

// Get 用户详情
// GET /admin/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// Update 更新用户
// PUT /admin/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		response.NotFound(c, 12001, "用户不存在")
		return
	}
	response.InternalError(c)
}
