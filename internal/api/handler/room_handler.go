package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"studio-booking/internal/dto"
	"studio-booking/internal/service"
	"studio-booking/pkg/response"
)

// RoomHandler 房间模块 HTTP 处理器
type RoomHandler struct {
	roomSvc service.RoomService
	paging  Paging
}

// NewRoomHandler 创建 RoomHandler
func NewRoomHandler(roomSvc service.RoomService, paging Paging) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc, paging: paging}
}

// List 启用中的房间
// GET /rooms/
func (h *RoomHandler) List(c *gin.Context) {
	h.list(c, false)
}

// AdminList 全部房间（含停用）
// GET /admin/rooms
func (h *RoomHandler) AdminList(c *gin.Context) {
	h.list(c, true)
}

func (h *RoomHandler) list(c *gin.Context, includeInactive bool) {
	offset, limit, ok := bindList(c, h.paging)
	if !ok {
		return
	}

	rooms, err := h.roomSvc.List(c.Request.Context(), includeInactive, offset, limit)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, rooms)
}

// Get 房间详情
// GET /rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	room, err := h.roomSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}
	response.OK(c, room)
}

// Create 创建房间
// POST /admin/rooms
func (h *RoomHandler) Create(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.roomSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}
	response.OK(c, room)
}

// Update 更新房间
// PUT /admin/rooms/:id
func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.roomSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}
	response.OK(c, room)
}

// Delete 停用房间
// DELETE /admin/rooms/:id
func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roomSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleRoomError(c, err)
		return
	}
	response.Message(c, "房间已停用")
}

func (h *RoomHandler) handleRoomError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrRoomNotFound) {
		response.NotFound(c, 13001, "房间不存在")
		return
	}
	response.InternalError(c)
}
