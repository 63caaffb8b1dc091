package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"studio-booking/internal/dto"
	"studio-booking/internal/service"
	pkgerrors "studio-booking/pkg/errors"
	"studio-booking/pkg/response"
)

// ClassHandler 课程模块 HTTP 处理器
type ClassHandler struct {
	classSvc service.ClassService
	paging   Paging
}

// NewClassHandler 创建 ClassHandler
func NewClassHandler(classSvc service.ClassService, paging Paging) *ClassHandler {
	return &ClassHandler{classSvc: classSvc, paging: paging}
}

// List 课程列表（管理员）
// GET /classes/
func (h *ClassHandler) List(c *gin.Context) {
	offset, limit, ok := bindList(c, h.paging)
	if !ok {
		return
	}

	classes, err := h.classSvc.List(c.Request.Context(), offset, limit)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, classes)
}

// Get 课程详情（管理员）
// GET /classes/:id
func (h *ClassHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	class, err := h.classSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleClassError(c, err)
		return
	}
	response.OK(c, class)
}

// ByRoom 房间课程
// GET /classes/room/:room_id?start_date=&end_date=
func (h *ClassHandler) ByRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "room_id")
	if !ok {
		return
	}
	var req dto.ClassesByRoomRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	classes, err := h.classSvc.ListByRoom(c.Request.Context(), roomID, &req)
	if err != nil {
		h.handleClassError(c, err)
		return
	}
	response.OK(c, classes)
}

// Create 创建课程
// POST /classes/
func (h *ClassHandler) Create(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	class, err := h.classSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleClassError(c, err)
		return
	}
	response.OK(c, class)
}

// Update 更新课程
// PUT /classes/:id
func (h *ClassHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	class, err := h.classSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleClassError(c, err)
		return
	}
	response.OK(c, class)
}

// Delete 删除课程
// DELETE /classes/:id
func (h *ClassHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.classSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleClassError(c, err)
		return
	}
	response.Message(c, "课程已删除")
}

func (h *ClassHandler) handleClassError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrSlotConflict):
		response.Conflict(c, 15001, "时间冲突：该时段已有课程或预约")
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, 15002, "课程不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13001, "房间不存在")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 15003, "结束时间必须晚于开始时间")
	case errors.Is(err, service.ErrInvalidTime):
		response.BadRequest(c, 15004, "时间格式无效")
	default:
		response.InternalError(c)
	}
}
