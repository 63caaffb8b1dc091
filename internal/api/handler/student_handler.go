package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"studio-booking/internal/dto"
	"studio-booking/internal/service"
	"studio-booking/pkg/response"
)

// StudentHandler 学员模块 HTTP 处理器（管理员）
type StudentHandler struct {
	studentSvc service.StudentService
	paging     Paging
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService, paging Paging) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc, paging: paging}
}

// List 学员列表
// GET /students/
func (h *StudentHandler) List(c *gin.Context) {
	offset, limit, ok := bindList(c, h.paging)
	if !ok {
		return
	}

	students, err := h.studentSvc.List(c.Request.Context(), offset, limit)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, students)
}

// Get 学员详情
// GET /students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	student, err := h.studentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, student)
}

// ByRoom 房间学员
// GET /students/room/:room_id
func (h *StudentHandler) ByRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "room_id")
	if !ok {
		return
	}

	students, err := h.studentSvc.ListByRoom(c.Request.Context(), roomID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, students)
}

// Create 创建学员
// POST /students/
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	student, err := h.studentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, student)
}

// Update 更新学员
// PUT /students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	student, err := h.studentSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, student)
}

// Delete 停用学员
// DELETE /students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.studentSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.Message(c, "学员已停用")
}

func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 16001, "学员不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13001, "房间不存在")
	case errors.Is(err, service.ErrInvalidClockTime):
		response.BadRequest(c, 16002, "时间格式应为 HH:MM")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 16003, "结束时间必须晚于开始时间")
	default:
		response.InternalError(c)
	}
}
