package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"studio-booking/internal/dto"
	"studio-booking/internal/service"
	pkgerrors "studio-booking/pkg/errors"
	"studio-booking/pkg/response"
)

// BookingHandler 预约模块 HTTP 处理器
type BookingHandler struct {
	bookingSvc  service.BookingService
	calendarSvc service.CalendarService
	paging      Paging
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService, calendarSvc service.CalendarService, paging Paging) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, calendarSvc: calendarSvc, paging: paging}
}

// Create 创建预约
// POST /bookings/
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	booking, err := h.bookingSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	response.Created(c, booking)
}

// Update 修改预约（本人或管理员）
// PUT /bookings/:id
func (h *BookingHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	booking, err := h.bookingSvc.Update(c.Request.Context(), id, userID, IsAdmin(c), &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	response.OK(c, booking)
}

// Cancel 取消预约（本人或管理员）
// DELETE /bookings/:id
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.bookingSvc.Cancel(c.Request.Context(), id, userID, IsAdmin(c)); err != nil {
		h.handleBookingError(c, err)
		return
	}
	response.Message(c, "预约已取消")
}

// MyBookings 我的预约
// GET /bookings/my-bookings
func (h *BookingHandler) MyBookings(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	offset, limit, ok := bindList(c, h.paging)
	if !ok {
		return
	}

	bookings, err := h.bookingSvc.ListMine(c.Request.Context(), userID, offset, limit)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, bookings)
}

// MyCalendar 我的预约日历订阅
// GET /bookings/my-bookings.ics
func (h *BookingHandler) MyCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	feed, err := h.calendarSvc.UserFeed(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// AllBookings 全部预约（管理员）
// GET /admin/bookings
func (h *BookingHandler) AllBookings(c *gin.Context) {
	offset, limit, ok := bindList(c, h.paging)
	if !ok {
		return
	}

	bookings, err := h.bookingSvc.ListAll(c.Request.Context(), offset, limit)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, bookings)
}

// AvailableSlots 房间某日的可预约时段
// GET /bookings/available-slots?room_id=&date=&duration=
func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	var req dto.AvailableSlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	slots, err := h.bookingSvc.AvailableSlots(c.Request.Context(), &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	response.OK(c, slots)
}

func (h *BookingHandler) handleBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrSlotConflict):
		response.Conflict(c, 14001, "该时段已被预约")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13001, "房间不存在")
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, 14002, "预约不存在")
	case errors.Is(err, service.ErrNotBookingOwner):
		response.Forbidden(c, 14003, "无权操作该预约")
	case errors.Is(err, service.ErrBookingTooSoon):
		response.BadRequest(c, 14004, "不能预约过去或即将开始的时段")
	case errors.Is(err, service.ErrOutsideBusinessHours):
		response.BadRequest(c, 14005, "不在营业时间内")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 14006, "结束时间必须晚于开始时间")
	case errors.Is(err, service.ErrInvalidTime):
		response.BadRequest(c, 14007, "时间格式无效")
	case errors.Is(err, service.ErrBookingNotCancellable):
		response.BadRequest(c, 14008, "已完成的预约不能取消")
	case errors.Is(err, service.ErrUserInactive), errors.Is(err, service.ErrUserNotFound):
		response.Unauthorized(c, 11002, "用户已停用")
	default:
		response.InternalError(c)
	}
}
